package taxonomy

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/votelens/votelens/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

// ConfigurationError indicates the taxonomy failed to load or parse.
// It is fatal to the request that triggered the load.
type ConfigurationError struct {
	Source string // File path or "embedded"
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("taxonomy configuration error (%s): %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Store holds the loaded policy taxonomy: the scorable categories in
// document order, the distinguished fallback entry, and the shared
// nuance trigger table. Read-only after Load.
type Store struct {
	categories map[string]model.PolicyCategory
	keys       []string // Document order, preserved for deterministic iteration
	fallback   model.PolicyCategory
	triggers   model.NuanceTriggers
}

type taxonomyFile struct {
	Categories []model.PolicyCategory `yaml:"categories"`
	Fallback   model.PolicyCategory   `yaml:"fallback"`
	Triggers   model.NuanceTriggers   `yaml:"triggers"`
}

// Load parses the embedded default taxonomy
func Load() (*Store, error) {
	return parse(defaultTaxonomy, "embedded")
}

// LoadFile parses a taxonomy from a YAML file
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Source: path, Err: err}
	}
	return parse(data, path)
}

func parse(data []byte, source string) (*Store, error) {
	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ConfigurationError{Source: source, Err: err}
	}

	if len(file.Categories) == 0 {
		return nil, &ConfigurationError{Source: source, Err: fmt.Errorf("no categories defined")}
	}
	if file.Fallback.Key == "" {
		return nil, &ConfigurationError{Source: source, Err: fmt.Errorf("fallback category missing")}
	}

	store := &Store{
		categories: make(map[string]model.PolicyCategory, len(file.Categories)),
		keys:       make([]string, 0, len(file.Categories)),
		fallback:   file.Fallback,
		triggers:   file.Triggers,
	}
	if store.triggers == nil {
		store.triggers = model.NuanceTriggers{}
	}

	for _, cat := range file.Categories {
		if cat.Key == "" {
			return nil, &ConfigurationError{Source: source, Err: fmt.Errorf("category with empty key")}
		}
		if cat.Key == file.Fallback.Key {
			return nil, &ConfigurationError{Source: source, Err: fmt.Errorf("fallback key %q also listed as a category", cat.Key)}
		}
		if _, exists := store.categories[cat.Key]; exists {
			return nil, &ConfigurationError{Source: source, Err: fmt.Errorf("duplicate category key: %s", cat.Key)}
		}
		store.categories[cat.Key] = cat
		store.keys = append(store.keys, cat.Key)
	}

	return store, nil
}

// Keys returns category keys in document order, excluding the fallback
func (s *Store) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Get returns the category for a key
func (s *Store) Get(key string) (model.PolicyCategory, bool) {
	cat, ok := s.categories[key]
	return cat, ok
}

// Categories returns all scorable categories in document order
func (s *Store) Categories() []model.PolicyCategory {
	cats := make([]model.PolicyCategory, 0, len(s.keys))
	for _, key := range s.keys {
		cats = append(cats, s.categories[key])
	}
	return cats
}

// Fallback returns the distinguished fallback category. It is held
// separately and never appears in Keys or Categories.
func (s *Store) Fallback() model.PolicyCategory {
	return s.fallback
}

// Triggers returns the shared nuance trigger table
func (s *Store) Triggers() model.NuanceTriggers {
	return s.triggers
}

// Len returns the number of scorable categories
func (s *Store) Len() int {
	return len(s.keys)
}
