// Package httpapi is the thin HTTP surface spec.md treats as an external
// collaborator: it forwards one query string to the evaluator and
// serializes the ranked list, nothing more.
//
// ═══════════════════════════════════════════════════════════════════════════════
// GROUNDING
// ═══════════════════════════════════════════════════════════════════════════════
// Route shape and error contract are taken from the retrieved Flask
// original (`app.py`): GET /search?query=..., a 400 with
// {"error": "please provide a valid query"} on a blank query, and the
// ranked array otherwise. The mux/handler wiring follows the pack's
// Go HTTP server (Omkar0612-nexus-ai/internal/webui/server.go) — a
// method-prefixed http.ServeMux pattern and slog for request logging —
// without its embedded static UI or SSE hub, neither of which this module
// needs.
// ═══════════════════════════════════════════════════════════════════════════════
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wizenheimer/webidx/internal/query"
)

// Server serves the search endpoint over HTTP.
type Server struct {
	eval   *query.Evaluator
	logger *slog.Logger
}

// New constructs a Server over an already-loaded Evaluator.
func New(eval *query.Evaluator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{eval: eval, logger: logger}
}

// Handler builds the request mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", s.handleSearch)
	return mux
}

// ListenAndServe starts the HTTP server at addr. It blocks until the
// server stops or errors.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting http server", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("query")
	if q == "" {
		writeError(w, http.StatusBadRequest, "please provide a valid query")
		return
	}

	results, err := s.eval.Search(q)
	if err != nil {
		s.logger.Error("search failed", "query", q, "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
