package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vindenez/Matplaner-backend/internal/domain"
	"github.com/vindenez/Matplaner-backend/pkg/httpclient"
)

// FeedConfig holds configuration for the upstream price feed.
type FeedConfig struct {
	BaseURL  string
	Token    string
	PageSize int
}

// httpDoer is the HTTP surface the client needs. Satisfied by both
// httpclient.Client and httpclient.CircuitBreakerClient.
type httpDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client fetches product pages from the external price feed API.
type Client struct {
	http httpDoer
	cfg  FeedConfig
}

// NewClient creates a price feed client.
func NewClient(httpClient httpDoer, cfg FeedConfig) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &Client{http: httpClient, cfg: cfg}
}

// feedProduct mirrors one product entry in the feed's JSON payload.
type feedProduct struct {
	ID               int64    `json:"id"`
	EAN              string   `json:"ean"`
	Name             string   `json:"name"`
	Brand            *string  `json:"brand"`
	Vendor           *string  `json:"vendor"`
	Description      *string  `json:"description"`
	Image            *string  `json:"image"`
	URL              string   `json:"url"`
	CurrentPrice     float64  `json:"current_price"`
	CurrentUnitPrice *float64 `json:"current_unit_price"`
	Weight           *float64 `json:"weight"`
	WeightUnit       *string  `json:"weight_unit"`
	Store            *struct {
		Name string `json:"name"`
		Code string `json:"code"`
		URL  string `json:"url"`
		Logo string `json:"logo"`
	} `json:"store"`
	Category []struct {
		ID    int64  `json:"id"`
		Depth int    `json:"depth"`
		Name  string `json:"name"`
	} `json:"category"`
}

type feedResponse struct {
	Data []feedProduct `json:"data"`
}

// FetchPage retrieves one page of products from the feed. An empty slice
// signals the end of the feed.
func (c *Client) FetchPage(ctx context.Context, page int) ([]domain.Product, error) {
	endpoint, err := url.Parse(c.cfg.BaseURL + "/products")
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}

	q := endpoint.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(c.cfg.PageSize))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed page %d: unexpected status %d: %s", page, resp.StatusCode, body)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feed page %d: %w", page, err)
	}

	products := make([]domain.Product, 0, len(payload.Data))
	for _, fp := range payload.Data {
		products = append(products, fp.toDomain())
	}
	return products, nil
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func (fp feedProduct) toDomain() domain.Product {
	p := domain.Product{
		EAN:              fp.EAN,
		Name:             fp.Name,
		Brand:            deref(fp.Brand),
		Vendor:           deref(fp.Vendor),
		Description:      deref(fp.Description),
		ImageURL:         deref(fp.Image),
		URL:              fp.URL,
		CurrentPrice:     fp.CurrentPrice,
		CurrentUnitPrice: deref(fp.CurrentUnitPrice),
		Weight:           deref(fp.Weight),
		WeightUnit:       deref(fp.WeightUnit),
	}

	if fp.Store != nil {
		p.Store = domain.Store{
			Name: fp.Store.Name,
			Code: fp.Store.Code,
			URL:  fp.Store.URL,
			Logo: fp.Store.Logo,
		}
	}

	for _, c := range fp.Category {
		p.Categories = append(p.Categories, domain.Category{
			ID:    c.ID,
			Depth: c.Depth,
			Name:  c.Name,
		})
	}

	return p
}

var _ httpDoer = (*httpclient.Client)(nil)
var _ httpDoer = (*httpclient.CircuitBreakerClient)(nil)
