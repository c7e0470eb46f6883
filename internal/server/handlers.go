package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stay_syncer/internal/domain"
)

// Syncer triggers one ingestion run.
type Syncer interface {
	Sync(ctx context.Context) (*domain.SyncStats, error)
}

// LodgingReader serves the stored-record read path.
type LodgingReader interface {
	List(ctx context.Context, region string, page, size int) ([]domain.Lodging, int, error)
	Get(ctx context.Context, id int64) (*domain.Lodging, error)
}

type Handlers struct {
	Syncer   Syncer
	Lodgings LodgingReader
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Post("/api/sync", s.handleSync(h))
	s.mux.Get("/api/lodgings", s.handleList(h))
	s.mux.Get("/api/lodgings/{id}", s.handleGet(h))
}

func (s *Server) handleSync(h *Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.Syncer.Sync(r.Context())
		if errors.Is(err, domain.ErrSyncInProgress) {
			s.writeError(w, http.StatusConflict, "sync already in progress")
			return
		}
		if err != nil {
			s.logger.Error("sync run failed", "error", err)
			s.writeError(w, http.StatusBadGateway, "sync failed")
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"inserted": stats.Inserted,
			"stats":    stats,
		})
	}
}

func (s *Server) handleList(h *Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		region := r.URL.Query().Get("region")

		lodgings, total, err := h.Lodgings.List(r.Context(), region, page, size)
		if err != nil {
			s.logger.Error("list lodgings failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "list failed")
			return
		}
		if lodgings == nil {
			lodgings = []domain.Lodging{}
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"lodgings": lodgings,
			"total":    total,
		})
	}
}

func (s *Server) handleGet(h *Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid id")
			return
		}

		lodging, err := h.Lodgings.Get(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "lodging not found")
			return
		}
		if err != nil {
			s.logger.Error("get lodging failed", "id", id, "error", err)
			s.writeError(w, http.StatusInternalServerError, "get failed")
			return
		}
		s.writeJSON(w, http.StatusOK, lodging)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
