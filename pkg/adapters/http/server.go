// Package http exposes the flattener over a small REST API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/treeflat"
	"github.com/aretw0/treeflat/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxTreeBytes caps the size of a request body.
const MaxTreeBytes = 8 << 20

// Engine is the part of treeflat.Engine the server depends on.
type Engine interface {
	FlattenText(ctx context.Context, text string, opts ...treeflat.Option) ([]string, treeflat.Stats, error)
}

// FlattenResponse is the JSON body returned by POST /v1/flatten.
type FlattenResponse struct {
	Rules []string       `json:"rules"`
	Stats treeflat.Stats `json:"stats"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves flatten requests.
type Server struct {
	Engine   Engine
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler builds the router. gatherer may be nil, in which case /metrics is not mounted.
func NewHandler(engine Engine, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{Engine: engine, Gatherer: gatherer, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Post("/v1/flatten", s.Flatten)
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// Flatten handles POST /v1/flatten.
//
// The body is the tree in the line format. Optional query parameters: root,
// visit_limit. The response is one rule per line, or FlattenResponse when the
// client accepts application/json.
func (s *Server) Flatten(w http.ResponseWriter, r *http.Request) {
	wantJSON := strings.Contains(r.Header.Get("Accept"), "application/json")

	opts, err := queryOptions(r)
	if err != nil {
		s.fail(w, wantJSON, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxTreeBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, wantJSON, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.fail(w, wantJSON, http.StatusBadRequest, err)
		return
	}

	lines, stats, err := s.Engine.FlattenText(r.Context(), string(body), opts...)
	if err != nil {
		status := http.StatusInternalServerError
		if domain.IsInputError(err) {
			status = http.StatusUnprocessableEntity
		}
		s.fail(w, wantJSON, status, err)
		return
	}

	s.Logger.Debug("flatten served",
		"request_id", middleware.GetReqID(r.Context()),
		"rules", stats.Rules,
		"visited", stats.Visited,
	)

	if wantJSON {
		if lines == nil {
			lines = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(FlattenResponse{Rules: lines, Stats: stats}); err != nil {
			s.Logger.Error("flatten response encode failed", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Treeflat-Rules", strconv.Itoa(stats.Rules))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			s.Logger.Warn("flatten response write failed", "error", err)
			return
		}
	}
}

func queryOptions(r *http.Request) ([]treeflat.Option, error) {
	var opts []treeflat.Option
	q := r.URL.Query()

	if raw := q.Get("root"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid root %q: %w", raw, err)
		}
		opts = append(opts, treeflat.WithRoot(domain.NodeID(id)))
	}
	if raw := q.Get("visit_limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid visit_limit %q", raw)
		}
		opts = append(opts, treeflat.WithVisitLimit(n))
	}
	return opts, nil
}

func (s *Server) fail(w http.ResponseWriter, wantJSON bool, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.Logger.Error("flatten failed", "status", status, "error", err)
	} else {
		s.Logger.Warn("flatten rejected", "status", status, "error", err)
	}

	if !wantJSON {
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}
