package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vindenez/Matplaner-backend/pkg/httpclient"
)

func feedPayload() string {
	return `{
		"data": [
			{
				"id": 1,
				"ean": "7311041027134",
				"name": "Tine Helmelk",
				"brand": "Tine",
				"vendor": null,
				"current_price": 24.90,
				"current_unit_price": 24.90,
				"weight": 1000,
				"weight_unit": "ml",
				"url": "https://example.test/p/1",
				"store": {"name": "Rema 1000", "code": "REMA_1000", "url": "", "logo": ""},
				"category": [{"id": 10, "depth": 0, "name": "Meieri"}]
			}
		]
	}`
}

func TestFetchPage(t *testing.T) {
	var gotAuth, gotPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPage = r.URL.Query().Get("page")
		require.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedPayload()))
	}))
	defer srv.Close()

	client := NewClient(httpclient.New(httpclient.DefaultConfig()), FeedConfig{
		BaseURL:  srv.URL,
		Token:    "feed-token",
		PageSize: 100,
	})

	products, err := client.FetchPage(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "Bearer feed-token", gotAuth)
	assert.Equal(t, "3", gotPage)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "7311041027134", p.EAN)
	assert.Equal(t, "Tine Helmelk", p.Name)
	assert.Equal(t, "Tine", p.Brand)
	assert.Empty(t, p.Vendor)
	assert.Equal(t, "REMA_1000", p.Store.Code)
	require.Len(t, p.Categories, 1)
	assert.Equal(t, "Meieri", p.Categories[0].Name)
}

func TestFetchPageEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer srv.Close()

	client := NewClient(httpclient.New(httpclient.DefaultConfig()), FeedConfig{BaseURL: srv.URL})

	products, err := client.FetchPage(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFetchPageUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(httpclient.New(httpclient.DefaultConfig()), FeedConfig{BaseURL: srv.URL})

	_, err := client.FetchPage(context.Background(), 1)

	assert.ErrorContains(t, err, "unexpected status 429")
}

func TestFetchPageMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(httpclient.New(httpclient.DefaultConfig()), FeedConfig{BaseURL: srv.URL})

	_, err := client.FetchPage(context.Background(), 1)

	assert.ErrorContains(t, err, "decode feed page")
}
