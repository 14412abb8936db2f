package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/api/handlers"
	"github.com/CloudDevelopmentGroup/arbitrage/pkg/logger"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

func waitForProcessor(t *testing.T, p *fakeProcessor) {
	t.Helper()
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatal("processor was not invoked")
	}
}

func TestUploadGet(t *testing.T) {
	t.Parallel()

	s := &fakeStore{
		uploads: map[string]*domain.Upload{
			"u1": {ID: "u1", ManifestID: "m1", Filename: "pallet.csv", TotalItems: 10, ProcessedItems: 4, Status: domain.UploadProcessing},
		},
	}
	h := handlers.NewUploadHandler(s, newFakeProcessor(), logger.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/uploads/u1", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/uploads/:id")
	c.SetParamNames("id")
	c.SetParamValues("u1")

	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Upload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 4, got.ProcessedItems)
	assert.Equal(t, domain.UploadProcessing, got.Status)
}

func TestUploadGet_NotFound(t *testing.T) {
	t.Parallel()

	h := handlers.NewUploadHandler(&fakeStore{}, newFakeProcessor(), logger.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/uploads/missing", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/uploads/:id")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadTrigger(t *testing.T) {
	t.Parallel()

	p := newFakeProcessor()
	h := handlers.NewUploadHandler(&fakeStore{}, p, logger.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/process", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Trigger(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	waitForProcessor(t, p)
	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, 1, p.allCalls)
}

func TestUploadTriggerOne(t *testing.T) {
	t.Parallel()

	s := &fakeStore{
		uploads: map[string]*domain.Upload{
			"u1": {ID: "u1", ManifestID: "m1", Status: domain.UploadPending},
		},
	}
	p := newFakeProcessor()
	h := handlers.NewUploadHandler(s, p, logger.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/u1/process", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/uploads/:id/process")
	c.SetParamNames("id")
	c.SetParamValues("u1")

	require.NoError(t, h.TriggerOne(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"upload_id":"u1"`)

	waitForProcessor(t, p)
	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, []string{"u1"}, p.oneCalls)
}

func TestUploadTriggerOne_NotFound(t *testing.T) {
	t.Parallel()

	p := newFakeProcessor()
	h := handlers.NewUploadHandler(&fakeStore{}, p, logger.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/missing/process", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/uploads/:id/process")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	require.NoError(t, h.TriggerOne(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Empty(t, p.oneCalls)
}
