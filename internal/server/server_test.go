package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubepulse/tubepulse-cli/internal/blobstore"
	"github.com/tubepulse/tubepulse-cli/internal/config"
)

func newTestServer(t *testing.T, mock pgxmock.PgxPoolIface) *Server {
	t.Helper()
	store, err := blobstore.NewFSStore(t.TempDir())
	require.NoError(t, err)
	s := New(config.ServerConfig{Port: 0}, mock, store)
	s.now = func() time.Time { return time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC) }
	return s
}

func do(s *Server, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	s.engine.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()

	w := do(newTestServer(t, mock), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestHealthz_Unhealthy(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))

	w := do(newTestServer(t, mock), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListLoads(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	started := time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, load_date, status").
		WithArgs(20).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "load_date", "status", "error", "started_at", "completed_at"},
		).AddRow(uuid.New(), started, "SUCCESS", "", started, &started))

	w := do(newTestServer(t, mock), http.MethodGet, "/api/loads")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SUCCESS")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLoads_BadLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	w := do(newTestServer(t, mock), http.MethodGet, "/api/loads?limit=zero")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTriggerLoad_BadDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	w := do(newTestServer(t, mock), http.MethodPost, "/api/load?date=23-08-2026")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTriggerLoad_EmptyPartition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Load-log bookkeeping plus the five phases over an empty partition.
	mock.ExpectExec("INSERT INTO etl.load_log").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO core.fact_videos").WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM analytics.agg_daily_by_region").WithArgs(pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO analytics.agg_daily_by_region").WithArgs(pgxmock.AnyArg()).WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("TRUNCATE TABLE raw.stg_videos").WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))
	mock.ExpectCommit()
	mock.ExpectExec("UPDATE etl.load_log").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	w := do(newTestServer(t, mock), http.MethodPost, "/api/load?date=2026-08-23")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
