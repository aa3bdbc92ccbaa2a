package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/votelens/votelens/internal/analyze"
	"github.com/votelens/votelens/internal/match"
	"github.com/votelens/votelens/internal/model"
	"github.com/votelens/votelens/internal/taxonomy"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	store, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("load taxonomy: %v", err)
	}
	mapper := match.NewScoringMapper(store)
	analyzer := analyze.NewAnalyzer(analyze.Options{
		Store:    store,
		Mapper:   mapper,
		Strategy: match.StrategyScored,
	})
	return NewServer(mapper, analyzer, false).Handler()
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTerminology_RankedResults(t *testing.T) {
	handler := newTestHandler(t)

	rec := postJSON(t, handler, "/api/terminology",
		`{"input": "I want tax cuts for the middle class"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Results []model.MatchResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("Expected results")
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i-1].Score < resp.Results[i].Score {
			t.Errorf("Expected descending scores, got %.2f before %.2f",
				resp.Results[i-1].Score, resp.Results[i].Score)
		}
	}
}

func TestTerminology_BlankInput(t *testing.T) {
	handler := newTestHandler(t)

	for _, body := range []string{`{"input": ""}`, `{"input": "   "}`, `{}`} {
		rec := postJSON(t, handler, "/api/terminology", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Body %s: expected 400, got %d", body, rec.Code)
		}
		var resp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode error response: %v", err)
		}
		if resp.Error == "" {
			t.Errorf("Body %s: expected an error message", body)
		}
	}
}

func TestTerminology_MalformedBody(t *testing.T) {
	handler := newTestHandler(t)
	rec := postJSON(t, handler, "/api/terminology", `{"input": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestTerminology_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/terminology", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestAnalyze_Endpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := postJSON(t, handler, "/api/analyze",
		`{"priorities": ["affordable healthcare for everyone"], "zipCode": "02134"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var analysis model.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	if analysis.ZipCode != "02134" {
		t.Errorf("Expected ZIP code recorded, got %q", analysis.ZipCode)
	}
	if len(analysis.MappedPriorities) != 1 {
		t.Errorf("Expected 1 mapped priority, got %d", len(analysis.MappedPriorities))
	}
	if analysis.Narrative == "" {
		t.Error("Expected a narrative")
	}
}

func TestAnalyze_NoPriorities(t *testing.T) {
	handler := newTestHandler(t)

	rec := postJSON(t, handler, "/api/analyze", `{"priorities": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty priorities, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}
