// Package v1 implements the native REST API.
package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/history"
	"github.com/vmunix/strmsync/internal/syncer"
)

// Config holds API server configuration.
type Config struct {
	Version     string
	LibraryRoot string
}

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	cfg  Config
	log  *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps, cfg Config, logger *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDependency, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{deps: deps, cfg: cfg, log: logger.With("component", "api")}, nil
}

// Handler returns the routed API with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Route("/api/v1", s.RegisterRoutes)
	return r
}

// RegisterRoutes registers API routes under the /api/v1 prefix.
func (s *Server) RegisterRoutes(r chi.Router) {
	// Sync
	r.Get("/status", s.getStatus)
	r.Get("/progress", s.getProgress)
	r.Post("/sync", s.startSync)
	r.Post("/sync/cancel", s.cancelSync)

	// History
	r.Get("/history", s.listHistory)
	r.Get("/history/{id}", s.getHistory)

	// Catalog & storage
	r.With(s.requireSnapshots).Get("/snapshots", s.listSnapshots)
	r.With(s.requireCatalog).Get("/categories", s.listCategories)

	// System
	r.With(s.requireEventLog).Get("/events", s.listEvents)
	r.Get("/verify", s.verify)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts the integer {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		return 0, errors.New("missing path parameter: id")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryLimit reads ?limit= bounded to 1..maxLimit.
func queryLimit(r *http.Request, defaultVal int) int {
	const maxLimit = 1000
	limit := queryInt(r, "limit", defaultVal)
	if limit <= 0 {
		return defaultVal
	}
	return min(limit, maxLimit)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Version:     s.cfg.Version,
		Running:     s.deps.Syncer.Running(),
		LibraryRoot: s.cfg.LibraryRoot,
		LastResult:  s.deps.Syncer.LastResult(),
		Progress:    newProgressResponse(s.deps.Syncer.Progress()),
	})
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newProgressResponse(s.deps.Syncer.Progress()))
}

func (s *Server) startSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	// The run outlives the request.
	ctx := context.WithoutCancel(r.Context())
	if err := s.deps.Syncer.Start(ctx, syncer.Request{Full: req.Full}); err != nil {
		if errors.Is(err, syncer.ErrSyncInProgress) {
			writeError(w, http.StatusConflict, "SYNC_RUNNING", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "SYNC_ERROR", err.Error())
		return
	}

	s.log.Info("sync started via API", "full", req.Full)
	writeJSON(w, http.StatusAccepted, syncAcceptedResponse{Status: "started", Full: req.Full})
}

func (s *Server) cancelSync(w http.ResponseWriter, r *http.Request) {
	if !s.deps.Syncer.Cancel() {
		writeError(w, http.StatusConflict, "NOT_RUNNING", "no sync is running")
		return
	}
	writeJSON(w, http.StatusAccepted, cancelResponse{Cancelled: true})
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, history.DefaultLimit)
	runs, err := s.deps.History.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listHistoryResponse{Items: make([]historyItem, len(runs)), Limit: limit}
	for i, run := range runs {
		resp.Items[i] = historyItem{Result: run, Outcome: run.Outcome()}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	run, err := s.deps.History.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Sync run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, historyItem{Result: run, Outcome: run.Outcome()})
}

func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	infos, err := s.deps.Snapshots.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SNAPSHOT_ERROR", err.Error())
		return
	}

	resp := listSnapshotsResponse{Items: make([]snapshotItem, len(infos))}
	for i, info := range infos {
		resp.Items[i] = snapshotItem{Name: info.Name, SavedAt: info.SavedAt, SizeBytes: info.SizeBytes}
	}
	writeJSON(w, http.StatusOK, resp)
}

// matchThreshold is the minimum similarity for ?match= results.
const matchThreshold = 0.7

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	kind := catalog.KindMovie
	var fetch func(context.Context) ([]catalog.Category, error)
	switch r.URL.Query().Get("kind") {
	case "", "movie", "movies":
		fetch = s.deps.Catalog.MovieCategories
	case "series":
		kind = catalog.KindSeries
		fetch = s.deps.Catalog.SeriesCategories
	default:
		writeError(w, http.StatusBadRequest, "INVALID_KIND", "kind must be movies or series")
		return
	}

	cats, err := fetch(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "PROVIDER_ERROR", err.Error())
		return
	}

	resp := listCategoriesResponse{Kind: kind, Items: []categoryItem{}}
	if q := r.URL.Query().Get("match"); q != "" {
		for _, m := range catalog.MatchCategories(cats, q, matchThreshold) {
			score := m.Score
			resp.Items = append(resp.Items, categoryItem{ID: m.Category.ID, Name: m.Category.Name, Score: &score})
		}
	} else {
		for _, c := range cats {
			resp.Items = append(resp.Items, categoryItem{ID: c.ID, Name: c.Name})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
