package taxonomy

import (
	"errors"
	"testing"
)

func TestLoad_EmbeddedTaxonomy(t *testing.T) {
	store, err := Load()
	if err != nil {
		t.Fatalf("Expected no error loading embedded taxonomy, got %v", err)
	}

	if store.Len() == 0 {
		t.Fatal("Expected embedded taxonomy to define categories")
	}

	if store.Fallback().Key == "" {
		t.Error("Expected fallback category to be defined")
	}

	// Fallback must never appear among scorable keys
	for _, key := range store.Keys() {
		if key == store.Fallback().Key {
			t.Errorf("Fallback key %q leaked into scorable categories", key)
		}
	}

	// Scenario fixtures from the default taxonomy
	cat, ok := store.Get("taxCutsForMiddleClass")
	if !ok {
		t.Fatal("Expected taxCutsForMiddleClass category")
	}
	if cat.StandardTerm == "" || cat.PlainEnglish == "" {
		t.Error("Expected display fields to be populated")
	}
	if len(cat.InclusionWords) == 0 {
		t.Error("Expected taxCutsForMiddleClass to define inclusion words")
	}

	if _, ok := store.Get("personalLiberty"); !ok {
		t.Error("Expected personalLiberty category")
	}
}

func TestLoad_DocumentOrderPreserved(t *testing.T) {
	store, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	keys1 := store.Keys()
	keys2 := store.Keys()
	if len(keys1) != len(keys2) {
		t.Fatal("Expected stable key count")
	}
	for i := range keys1 {
		if keys1[i] != keys2[i] {
			t.Errorf("Expected stable iteration order, position %d differs: %s vs %s", i, keys1[i], keys2[i])
		}
	}

	// First category in the document must come first
	if keys1[0] != "taxCutsForMiddleClass" {
		t.Errorf("Expected first key taxCutsForMiddleClass, got %s", keys1[0])
	}
}

func TestParse_DuplicateKey(t *testing.T) {
	data := []byte(`
categories:
  - key: dup
    standard_term: A
    plain_english: a
    phrases: [alpha]
  - key: dup
    standard_term: B
    plain_english: b
    phrases: [beta]
fallback:
  key: fallback
  standard_term: Fallback
  plain_english: none
`)

	_, err := parse(data, "test")
	if err == nil {
		t.Fatal("Expected error for duplicate category key")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigurationError, got %T", err)
	}
}

func TestParse_FallbackCollision(t *testing.T) {
	data := []byte(`
categories:
  - key: fallback
    standard_term: A
    plain_english: a
    phrases: [alpha]
fallback:
  key: fallback
  standard_term: Fallback
  plain_english: none
`)

	if _, err := parse(data, "test"); err == nil {
		t.Fatal("Expected error when fallback key is also a category")
	}
}

func TestParse_MissingFallback(t *testing.T) {
	data := []byte(`
categories:
  - key: only
    standard_term: A
    plain_english: a
    phrases: [alpha]
`)

	if _, err := parse(data, "test"); err == nil {
		t.Fatal("Expected error for missing fallback")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := parse([]byte("categories: [unclosed"), "test")
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigurationError, got %T", err)
	}
}

func TestStore_UnknownTriggerIsNotAnError(t *testing.T) {
	store, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A nuance name absent from the trigger table simply never fires
	if phrases := store.Triggers()["no_such_signal"]; len(phrases) != 0 {
		t.Errorf("Expected empty trigger list for unknown signal, got %v", phrases)
	}
}
