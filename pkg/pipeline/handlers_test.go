package pipeline

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyforge/studyforge/pkg/errcodes"
)

func newTestServer(t *testing.T, svc *Service, apiKey string) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e.Group(""), svc, apiKey)
	return e
}

func TestTriggerSyncReturnsReport(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("courses/btc101/course.yml", courseYML),
	))
	e := newTestServer(t, ts.Service, "")

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	report := &Report{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), report))
	assert.Equal(t, 1, report.UnitsProcessed)
	assert.True(t, report.SearchRebuilt)
}

func TestTriggerSyncRejectsBadAPIKey(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf())
	e := newTestServer(t, ts.Service, "secret")

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTriggerSyncConflictsWhileRunning(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf())

	release := make(chan struct{})
	started := make(chan struct{})
	ts.Service.snapshotter = blockingSnapshotter{started: started, release: release}

	e := newTestServer(t, ts.Service, "")

	done := make(chan int, 1)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		done <- rec.Code
	}()

	<-started

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}
