package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay_syncer/internal/domain"
)

type stubSyncer struct {
	stats *domain.SyncStats
	err   error
}

func (s *stubSyncer) Sync(context.Context) (*domain.SyncStats, error) {
	return s.stats, s.err
}

type stubReader struct {
	lodgings []domain.Lodging
	total    int
	lodging  *domain.Lodging
	err      error
}

func (s *stubReader) List(context.Context, string, int, int) ([]domain.Lodging, int, error) {
	return s.lodgings, s.total, s.err
}

func (s *stubReader) Get(context.Context, int64) (*domain.Lodging, error) {
	return s.lodging, s.err
}

func newTestServer(h *Handlers) *Server {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	srv := New(logger)
	srv.MountHandlers(h)
	return srv
}

func TestHandleSync_OK(t *testing.T) {
	srv := newTestServer(&Handlers{
		Syncer: &stubSyncer{stats: &domain.SyncStats{Inserted: 7}},
	})

	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Inserted int `json:"inserted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Inserted)
}

func TestHandleSync_Busy(t *testing.T) {
	srv := newTestServer(&Handlers{
		Syncer: &stubSyncer{err: domain.ErrSyncInProgress},
	})

	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleSync_FatalError(t *testing.T) {
	srv := newTestServer(&Handlers{
		Syncer: &stubSyncer{err: errors.New("fetch page 3: connection refused")},
	})

	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleList(t *testing.T) {
	srv := newTestServer(&Handlers{
		Lodgings: &stubReader{
			lodgings: []domain.Lodging{{ID: 1, Name: "제주햇살민박", Region: "제주시"}},
			total:    1,
		},
	})

	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lodgings?region=제주시", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Lodgings []domain.Lodging `json:"lodgings"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Lodgings, 1)
	assert.Equal(t, "제주햇살민박", resp.Lodgings[0].Name)
}

func TestHandleGet_NotFound(t *testing.T) {
	srv := newTestServer(&Handlers{
		Lodgings: &stubReader{err: domain.ErrNotFound},
	})

	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lodgings/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGet_BadID(t *testing.T) {
	srv := newTestServer(&Handlers{Lodgings: &stubReader{}})

	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lodgings/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
