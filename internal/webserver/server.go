package webserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/texthub/textproc-gateway/internal/backend"
	"github.com/texthub/textproc-gateway/internal/db"
	"github.com/texthub/textproc-gateway/internal/gateway"
)

const maxBodyBytes = 64 * 1024

// Server exposes the gateway over HTTP.
type Server struct {
	gw  *gateway.Gateway
	mux *http.ServeMux
}

func New(gw *gateway.Gateway) *Server {
	s := &Server{gw: gw, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/process", s.handleProcess)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("OPTIONS /", s.handlePreflight)

	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = maxBytesMiddleware(maxBodyBytes)(handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = corsMiddleware(handler)
	return handler
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeGatewayError maps an orchestrator failure onto the wire. Anything
// that is not a tagged gateway error surfaces as a generic 500.
func writeGatewayError(w http.ResponseWriter, err error) {
	var ge *gateway.Error
	if errors.As(err, &ge) {
		writeError(w, ge.Status, ge.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Text Processor API Gateway",
		"version":       gateway.Version,
		"microservices": s.gw.Services(),
		"endpoints": map[string]string{
			"health":  "/health",
			"process": "/api/process",
			"history": "/api/history",
			"stats":   "/api/stats",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gw.CheckHealth(r.Context()))
}

type processRequest struct {
	Text    string          `json:"text"`
	Service string          `json:"service"`
	Options backend.Options `json:"options"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := s.gw.Process(r.Context(), gateway.ProcessRequest{
		Text:    req.Text,
		Service: req.Service,
		Options: req.Options,
	})
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := db.DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := s.gw.History(r.Context(), limit)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.gw.Stats(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
