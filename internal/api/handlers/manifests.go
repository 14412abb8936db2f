package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/store"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// ManifestHandler serves manifest and item read endpoints.
type ManifestHandler struct {
	store store.Store
}

// NewManifestHandler creates a new ManifestHandler.
func NewManifestHandler(s store.Store) *ManifestHandler {
	return &ManifestHandler{store: s}
}

// ManifestDetail is a manifest with its line items.
type ManifestDetail struct {
	Manifest domain.Manifest `json:"manifest"`
	Items    []domain.Item   `json:"items"`
}

// List returns all manifests, newest first.
//
// @Summary List manifests
// @Tags manifests
// @Produce json
// @Success 200 {array} types.Manifest
// @Failure 500 {object} ErrorResponse
// @Router /api/manifests [get]
func (h *ManifestHandler) List(c echo.Context) error {
	manifests, err := h.store.ListManifests(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list manifests"})
	}
	if manifests == nil {
		manifests = []domain.Manifest{}
	}
	return c.JSON(http.StatusOK, manifests)
}

// Get returns one manifest with all of its items.
//
// @Summary Get manifest
// @Tags manifests
// @Produce json
// @Param id path string true "Manifest ID"
// @Success 200 {object} ManifestDetail
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/manifests/{id} [get]
func (h *ManifestHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	manifest, err := h.store.GetManifest(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "manifest not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get manifest"})
	}

	items, err := h.store.ListItems(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list items"})
	}
	if items == nil {
		items = []domain.Item{}
	}

	return c.JSON(http.StatusOK, ManifestDetail{Manifest: *manifest, Items: items})
}
