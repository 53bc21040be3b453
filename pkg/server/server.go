// Package server serves the dashboard page and a read-only JSON API over the Sidekiq state.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pixelvide/sidemon/pkg/collection"
	"github.com/pixelvide/sidemon/pkg/monitor"
	"github.com/pixelvide/sidemon/pkg/render"
	"github.com/pixelvide/sidemon/pkg/store"
	"github.com/pixelvide/sidemon/pkg/telemetry"
)

var errBadLimit = errors.New("limit must be a non-negative integer")

// Server answers every request from a fresh read of the store.
type Server struct {
	pool   store.Pool
	pages  render.Renderer
	limit  int64
	opts   []monitor.Option
	router *mux.Router
}

// New creates a Server. limit bounds job lists when a request gives none; a request
// may lower or raise it but never ask for an unbounded read.
func New(pool store.Pool, pages render.Renderer, limit int64, opts ...monitor.Option) *Server {
	s := &Server{
		pool:   pool,
		pages:  pages,
		limit:  limit,
		opts:   opts,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestLogger)

	r.HandleFunc("/", s.index).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/overview", s.api(func(ctx context.Context, c *monitor.Client, limit int64, _ map[string]string) (any, error) {
		return c.Overview(ctx, limit)
	})).Methods(http.MethodGet)
	api.HandleFunc("/processes", s.api(func(ctx context.Context, c *monitor.Client, _ int64, _ map[string]string) (any, error) {
		return c.ProcessNames(ctx)
	})).Methods(http.MethodGet)
	api.HandleFunc("/processes/{name}", s.api(func(ctx context.Context, c *monitor.Client, _ int64, vars map[string]string) (any, error) {
		return c.Process(ctx, vars["name"])
	})).Methods(http.MethodGet)
	api.HandleFunc("/processes/{name}/workers", s.api(func(ctx context.Context, c *monitor.Client, _ int64, vars map[string]string) (any, error) {
		return c.Workers(ctx, vars["name"])
	})).Methods(http.MethodGet)
	api.HandleFunc("/queues", s.api(func(ctx context.Context, c *monitor.Client, _ int64, _ map[string]string) (any, error) {
		return c.QueueNames(ctx)
	})).Methods(http.MethodGet)
	api.HandleFunc("/queues/{name}", s.api(func(ctx context.Context, c *monitor.Client, limit int64, vars map[string]string) (any, error) {
		return entry(ctx, c, vars["name"], collection.Queue(vars["name"]), limit)
	})).Methods(http.MethodGet)
	api.HandleFunc("/retry", s.api(func(ctx context.Context, c *monitor.Client, limit int64, _ map[string]string) (any, error) {
		return entry(ctx, c, collection.RetryKey, collection.Retry, limit)
	})).Methods(http.MethodGet)
	api.HandleFunc("/schedule", s.api(func(ctx context.Context, c *monitor.Client, limit int64, _ map[string]string) (any, error) {
		return entry(ctx, c, collection.ScheduleKey, collection.Schedule, limit)
	})).Methods(http.MethodGet)
	api.HandleFunc("/dead", s.api(func(ctx context.Context, c *monitor.Client, limit int64, _ map[string]string) (any, error) {
		return entry(ctx, c, collection.DeadKey, collection.Dead, limit)
	})).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type query func(ctx context.Context, c *monitor.Client, limit int64, vars map[string]string) (any, error)

// api wraps a query with limit parsing, a per-request session and JSON encoding.
func (s *Server) api(q query) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := s.limitOf(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}

		var result any
		err = s.withClient(r.Context(), func(c *monitor.Client) error {
			var err error
			result, err = q(r.Context(), c, limit, mux.Vars(r))
			return err
		})
		if err != nil {
			writeError(w, r, statusOf(err), err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	limit, err := s.limitOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var overview *monitor.Overview
	err = s.withClient(r.Context(), func(c *monitor.Client) error {
		var err error
		overview, err = c.Overview(r.Context(), limit)
		return err
	})
	if err != nil {
		telemetry.LoggerFromContext(r.Context()).Error().Err(err).Msg("Failed to read overview")
		http.Error(w, err.Error(), statusOf(err))
		return
	}

	var page bytes.Buffer
	if err := s.pages.Render(&page, render.Index, overview); err != nil {
		telemetry.LoggerFromContext(r.Context()).Error().Err(err).Msg("Failed to render dashboard")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = page.WriteTo(w)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.pool.Ping(r.Context()); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withClient runs fn against a client bound to one dedicated store connection.
func (s *Server) withClient(ctx context.Context, fn func(*monitor.Client) error) error {
	session := s.pool.Session()
	defer func() {
		if err := session.Close(); err != nil {
			telemetry.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to close store session")
		}
	}()
	return fn(monitor.New(session, s.opts...))
}

func (s *Server) limitOf(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return s.limit, nil
	}
	// Unbounded reads are left to the CLI.
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, errBadLimit
	}
	return n, nil
}

func entry(ctx context.Context, c *monitor.Client, name string, ref collection.Ref, limit int64) (monitor.CollectionEntry, error) {
	size, err := c.Size(ctx, ref)
	if err != nil {
		return monitor.CollectionEntry{}, err
	}
	jobs, err := c.Jobs(ctx, ref, limit)
	if err != nil {
		return monitor.CollectionEntry{}, err
	}
	return monitor.CollectionEntry{Name: name, Size: size, Jobs: jobs}, nil
}

func statusOf(err error) int {
	if errors.Is(err, monitor.ErrProcessNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		telemetry.LoggerFromContext(r.Context()).Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
