package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullItemJSON = `{
	"itemsResult": {
		"items": [{
			"asin": "B08XYZ1234",
			"itemInfo": {
				"title": {"displayValue": "Sony WH-1000XM4 Wireless Headphones"},
				"byLineInfo": {"brand": {"displayValue": "Sony"}},
				"classifications": {"binding": {"displayValue": "Electronics"}},
				"features": {"displayValues": ["ANC", "30h battery", "Multipoint", "Touch controls", "LDAC", "Extra feature"]}
			},
			"offers": {
				"listings": [{
					"price": {"amount": 278.00},
					"savingBasis": {"amount": 349.99}
				}]
			},
			"images": {"primary": {"large": {"url": "https://img.example/xm4.jpg"}}}
		}]
	}
}`

func TestLookupByIdentifier_FullRecord(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		assert.Equal(t, "012345678905", r.URL.Query().Get("ids"))
		assert.Equal(t, "tag-20", r.URL.Query().Get("partner_tag"))
		assert.Equal(t, "ak", r.Header.Get("X-Access-Key"))
		_, _ = w.Write([]byte(fullItemJSON))
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, "ak", "sk", WithPartnerTag("tag-20"))

	data, err := c.LookupByIdentifier(context.Background(), "012345678905")
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, "B08XYZ1234", data.ASIN)
	assert.Equal(t, "Sony WH-1000XM4 Wireless Headphones", data.Title)
	assert.Equal(t, "Sony", data.Brand)
	assert.Equal(t, "Electronics", data.Category)
	require.NotNil(t, data.CurrentPrice)
	assert.InDelta(t, 278.00, *data.CurrentPrice, 0.001)
	require.NotNil(t, data.ListPrice)
	assert.InDelta(t, 349.99, *data.ListPrice, 0.001)
	assert.Equal(t, "https://img.example/xm4.jpg", data.ImageURL)
	assert.Len(t, data.Features, 5, "features capped at 5")
	assert.Equal(t, SourceIdentifierLookup, data.Source)
}

func TestLookupByIdentifier_SparseRecord(t *testing.T) {
	t.Parallel()

	// A record with no offers, images, classification, or features must
	// still yield the subset it has.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"itemsResult":{"items":[{"asin":"B000SPARSE"}]}}`))
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, "ak", "sk")

	data, err := c.LookupByIdentifier(context.Background(), "B000SPARSE")
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, "B000SPARSE", data.ASIN)
	assert.Empty(t, data.Title)
	assert.Nil(t, data.ListPrice)
	assert.Nil(t, data.CurrentPrice)
	assert.Empty(t, data.ImageURL)
	assert.Empty(t, data.Features)
}

func TestLookupByIdentifier_NoResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"itemsResult":{"items":[]}}`))
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, "ak", "sk")

	data, err := c.LookupByIdentifier(context.Background(), "000000000000")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestLookupByIdentifier_NotFoundStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, "ak", "sk")

	data, err := c.LookupByIdentifier(context.Background(), "B00MISSING")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestLookupByIdentifier_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, "ak", "sk")

	_, err := c.LookupByIdentifier(context.Background(), "B00BROKEN")
	assert.Error(t, err)
}

func TestSearchByTitle_TopResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Sony WH-1000XM4", r.URL.Query().Get("keywords"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(fullItemJSON))
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, "ak", "sk")

	data, err := c.SearchByTitle(context.Background(), "Sony WH-1000XM4")
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, SourceTitleSearch, data.Source)
}

func TestFetchFirst_DailyLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(fullItemJSON))
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, "ak", "sk",
		WithRateLimiter(NewRateLimiter(100, 100, 1)),
	)

	_, err := c.LookupByIdentifier(context.Background(), "first")
	require.NoError(t, err)

	_, err = c.LookupByIdentifier(context.Background(), "second")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestRateLimiter_DailyWindowReset(t *testing.T) {
	t.Parallel()

	now := time.Now()
	r := NewRateLimiter(100, 100, 1, WithRateLimiterNowFunc(func() time.Time {
		return now
	}))

	require.NoError(t, r.Wait(context.Background()))
	assert.ErrorIs(t, r.Wait(context.Background()), ErrDailyLimitReached)
	assert.Equal(t, int64(0), r.Remaining())

	now = now.Add(25 * time.Hour)
	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, int64(1), r.DailyCount())
}
