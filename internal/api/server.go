// Package api exposes the layout pipeline over HTTP.
//
// The server wraps a pipeline.Runner, so caching behaves exactly as in the
// CLI. Artifacts are returned base64-encoded inside the JSON response.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cwirth/forcelayout/pkg/buildinfo"
	fgerrors "github.com/cwirth/forcelayout/pkg/errors"
	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/pipeline"
)

// Server handles HTTP requests for layout computation.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server around the given runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/layout", s.handleLayout)

	return r
}

// LayoutRequest is the request body for POST /v1/layout.
type LayoutRequest struct {
	Graph   graph.Document   `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// LayoutResponse is the response body for POST /v1/layout.
type LayoutResponse struct {
	RunID     string             `json:"run_id"`
	GraphHash string             `json:"graph_hash"`
	Layout    graph.Layout       `json:"layout"`
	Artifacts map[string][]byte  `json:"artifacts,omitempty"`
	Stats     LayoutStats        `json:"stats"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
}

// LayoutStats mirrors pipeline.Stats with JSON-friendly durations.
type LayoutStats struct {
	NodeCount    int   `json:"node_count"`
	EdgeCount    int   `json:"edge_count"`
	Iterations   int   `json:"iterations"`
	LayoutTimeMS int64 `json:"layout_time_ms"`
	RenderTimeMS int64 `json:"render_time_ms"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fgerrors.Wrap(fgerrors.ErrCodeInvalidInput, err, "malformed request body"))
		return
	}

	g, err := graph.ToGraph(req.Graph)
	if err != nil {
		s.writeError(w, fgerrors.Wrap(fgerrors.ErrCodeInvalidGraph, err, "invalid graph"))
		return
	}

	opts := req.Options
	opts.Logger = s.logger
	// Progress hooks are a process-local concern, never accepted over the wire.
	opts.Hook = nil

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LayoutResponse{
		RunID:     result.RunID.String(),
		GraphHash: result.GraphHash,
		Layout:    result.Layout,
		Artifacts: result.Artifacts,
		Stats: LayoutStats{
			NodeCount:    result.Stats.NodeCount,
			EdgeCount:    result.Stats.EdgeCount,
			Iterations:   result.Stats.Iterations,
			LayoutTimeMS: result.Stats.LayoutTime.Milliseconds(),
			RenderTimeMS: result.Stats.RenderTime.Milliseconds(),
		},
		CacheInfo: result.CacheInfo,
	})
}

// writeError maps structured error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := fgerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case fgerrors.ErrCodeInvalidInput, fgerrors.ErrCodeInvalidGraph,
		fgerrors.ErrCodeInvalidConfig, fgerrors.ErrCodeInvalidFormat,
		fgerrors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case fgerrors.ErrCodeNotFound, fgerrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case fgerrors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	case fgerrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	case "":
		code = fgerrors.ErrCodeInternal
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}

	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: fgerrors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// requestLogger logs one line per request with status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", chimiddleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}
