package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/votelens/votelens/internal/analyze"
	"github.com/votelens/votelens/internal/match"
	"github.com/votelens/votelens/internal/model"
)

// Server exposes the mapping engine over HTTP for debugging and
// integration testing. Not hardened for public exposure.
type Server struct {
	mapper   match.Mapper
	analyzer *analyze.Analyzer
	verbose  bool
}

// NewServer creates a new Server
func NewServer(mapper match.Mapper, analyzer *analyze.Analyzer, verbose bool) *Server {
	return &Server{
		mapper:   mapper,
		analyzer: analyzer,
		verbose:  verbose,
	}
}

// Handler returns the HTTP handler for all API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/terminology", s.handleTerminology)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe starts the server and blocks until the context is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logf("listening on %s\n", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type terminologyRequest struct {
	Input string `json:"input"`
}

type terminologyResponse struct {
	Results []model.MatchResult `json:"results"`
}

type analyzeRequest struct {
	Priorities []string `json:"priorities"`
	ZipCode    string   `json:"zipCode,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleTerminology maps a single statement and returns the results
// ranked by score descending
func (s *Server) handleTerminology(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req terminologyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := s.mapper.MapStatement(req.Input)
	if err != nil {
		var invalidErr *match.InvalidInputError
		if errors.As(err, &invalidErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logf("terminology mapping failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "mapping failed")
		return
	}

	analyze.Rank(results)
	if results == nil {
		results = []model.MatchResult{}
	}

	writeJSON(w, http.StatusOK, terminologyResponse{Results: results})
}

// handleAnalyze runs the full analysis pipeline over submitted priorities
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis is not configured")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	analysis, err := s.analyzer.AnalyzePriorities(r.Context(), req.Priorities, req.ZipCode)
	if err != nil {
		var invalidErr *match.InvalidInputError
		if errors.As(err, &invalidErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logf("analysis failed: %v\n", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
