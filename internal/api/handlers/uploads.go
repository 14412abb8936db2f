package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/store"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// Processor runs the enrichment pipeline over pending uploads. It is
// implemented by engine.Engine and satisfied by fakes in tests.
type Processor interface {
	ProcessPendingUploads(ctx context.Context) error
	ProcessUpload(ctx context.Context, upload *domain.Upload) error
}

// UploadHandler serves upload status and processing trigger endpoints.
type UploadHandler struct {
	store     store.Store
	processor Processor
	log       *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(s store.Store, p Processor, log *slog.Logger) *UploadHandler {
	return &UploadHandler{store: s, processor: p, log: log}
}

// Get returns the status and progress of one upload.
//
// @Summary Get upload
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} types.Upload
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/uploads/{id} [get]
func (h *UploadHandler) Get(c echo.Context) error {
	upload, err := h.store.GetUpload(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "upload not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get upload"})
	}
	return c.JSON(http.StatusOK, upload)
}

// Trigger starts processing of pending uploads in the background.
// Processing normally runs on the scheduler; this endpoint exists for
// manual kicks after an ingest.
//
// @Summary Trigger processing
// @Tags uploads
// @Produce json
// @Success 202 {object} StatusResponse
// @Router /api/process [post]
func (h *UploadHandler) Trigger(c echo.Context) error {
	go func() {
		// Detached from the request context so processing survives
		// the client disconnecting.
		if err := h.processor.ProcessPendingUploads(context.Background()); err != nil {
			h.log.Error("triggered processing failed", "error", err)
		}
	}()
	return c.JSON(http.StatusAccepted, StatusResponse{Status: "processing started"})
}

// TriggerOne starts processing of a single upload in the background.
//
// @Summary Trigger processing for one upload
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 202 {object} StatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/uploads/{id}/process [post]
func (h *UploadHandler) TriggerOne(c echo.Context) error {
	id := c.Param("id")
	upload, err := h.store.GetUpload(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "upload not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get upload"})
	}

	go func() {
		if err := h.processor.ProcessUpload(context.Background(), upload); err != nil {
			h.log.Error("triggered upload processing failed", "upload_id", id, "error", err)
		}
	}()
	return c.JSON(http.StatusAccepted, StatusResponse{Status: "processing started", UploadID: id})
}
