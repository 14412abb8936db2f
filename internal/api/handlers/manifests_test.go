package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/api/handlers"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

func TestManifestList(t *testing.T) {
	t.Parallel()

	s := &fakeStore{
		manifests: []domain.Manifest{
			{ID: "m1", Name: "Pallet 42", TotalMSRP: 1798.98},
			{ID: "m2", Name: "Pallet 43"},
		},
	}
	h := handlers.NewManifestHandler(s)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/manifests", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Manifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Pallet 42", got[0].Name)
}

func TestManifestList_Empty(t *testing.T) {
	t.Parallel()

	h := handlers.NewManifestHandler(&fakeStore{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/manifests", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
	// Empty list serializes as [] rather than null.
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestManifestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantItems  int
	}{
		{
			name:       "returns manifest with items",
			id:         "m1",
			wantStatus: http.StatusOK,
			wantItems:  2,
		},
		{
			name:       "unknown manifest returns 404",
			id:         "nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &fakeStore{
				manifests: []domain.Manifest{{ID: "m1", Name: "Pallet 42"}},
				items: map[string][]domain.Item{
					"m1": {
						{ID: "i1", ManifestID: "m1"},
						{ID: "i2", ManifestID: "m1"},
					},
				},
			}
			h := handlers.NewManifestHandler(s)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/manifests/"+tt.id, http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetPath("/api/manifests/:id")
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			require.NoError(t, h.Get(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				var detail handlers.ManifestDetail
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
				assert.Equal(t, tt.id, detail.Manifest.ID)
				assert.Len(t, detail.Items, tt.wantItems)
			}
		})
	}
}
