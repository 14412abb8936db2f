package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupUPC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   bool
		wantNil   bool
		wantTitle string
		wantImage string
	}{
		{
			name:   "record found",
			status: http.StatusOK,
			body: `{"code":"OK","items":[{
				"title":"Lenovo ThinkPad T480s",
				"brand":"Lenovo",
				"category":"Computers",
				"images":["https://img.example/t480s.jpg","https://img.example/alt.jpg"]
			}]}`,
			wantTitle: "Lenovo ThinkPad T480s",
			wantImage: "https://img.example/t480s.jpg",
		},
		{
			name:    "no record",
			status:  http.StatusOK,
			body:    `{"code":"OK","items":[]}`,
			wantNil: true,
		},
		{
			name:    "non-OK code",
			status:  http.StatusOK,
			body:    `{"code":"INVALID_UPC","items":[]}`,
			wantNil: true,
		},
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    `{}`,
			wantErr: true,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"code":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/lookup", r.URL.Path)
				assert.Equal(t, "885976319987", r.URL.Query().Get("upc"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewUPCItemDBClient(srv.URL)

			data, err := c.LookupUPC(context.Background(), "885976319987")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, data)
				return
			}
			require.NotNil(t, data)
			assert.Equal(t, tt.wantTitle, data.Title)
			assert.Equal(t, "Lenovo", data.Brand)
			assert.Equal(t, tt.wantImage, data.ImageURL)
			assert.Equal(t, SourceUPCDatabase, data.Source)
		})
	}
}
