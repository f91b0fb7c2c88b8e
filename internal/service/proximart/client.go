package proximart

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"proximart/webclient/internal/model"
)

const (
	DefaultAPIURL = "http://localhost:5000/api"

	// supplierLookupLimit is the page size GetSupplier walks the listing with.
	supplierLookupLimit = 50
	maxErrorBody        = 1 << 20
)

type Config struct {
	APIURL string
	APIKey string
	// Timeout of zero leaves cancellation to the caller's context.
	Timeout  time.Duration
	Observer Observer
}

// Observer is notified after every round trip. status is 0 when no response
// was received.
type Observer interface {
	ObserveAPIRequest(operation string, status int, elapsed time.Duration)
}

type Client struct {
	client   *http.Client
	config   Config
	observer Observer
}

func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	return &Client{
		client: &http.Client{
			Transport: &HeaderTransport{
				APIKey: cfg.APIKey,
				Base:   http.DefaultTransport,
			},
			Timeout: cfg.Timeout,
		},
		config:   cfg,
		observer: cfg.Observer,
	}
}

// HeaderTransport adds the JSON and compression headers, and the API key when
// one is configured.
type HeaderTransport struct {
	APIKey string
	Base   http.RoundTripper
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")
	if t.APIKey != "" {
		req.Header.Set("X-API-Key", t.APIKey)
	}
	return t.Base.RoundTrip(req)
}

// ListSuppliers returns the suppliers of the first listing page, unwrapped
// from their envelope.
func (c *Client) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	resp, err := c.ListSuppliersPage(ctx, SupplierQuery{})
	if err != nil {
		return nil, err
	}
	if resp.Suppliers == nil {
		return []model.Supplier{}, nil
	}
	return resp.Suppliers, nil
}

func (c *Client) ListSuppliersPage(ctx context.Context, q SupplierQuery) (*SuppliersResponse, error) {
	var out SuppliersResponse
	if err := c.do(ctx, "list_suppliers", http.MethodGet, "/suppliers/all", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) NearbySuppliers(ctx context.Context, lat, lon float64, q SupplierQuery) (*SuppliersResponse, error) {
	values := q.values()
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var out SuppliersResponse
	if err := c.do(ctx, "nearby_suppliers", http.MethodGet, "/suppliers/nearby", values, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSupplier walks the supplier listing until it finds id. The backend has
// no fetch-by-id endpoint.
func (c *Client) GetSupplier(ctx context.Context, id string) (*model.Supplier, error) {
	for page := 1; ; page++ {
		resp, err := c.ListSuppliersPage(ctx, SupplierQuery{Page: page, Limit: supplierLookupLimit})
		if err != nil {
			return nil, err
		}
		for i := range resp.Suppliers {
			if resp.Suppliers[i].ID == id {
				return &resp.Suppliers[i], nil
			}
		}
		if len(resp.Suppliers) == 0 || page >= resp.TotalPages {
			return nil, fmt.Errorf("%w: %s", ErrSupplierNotFound, id)
		}
	}
}

// OrderHistory returns the raw history envelope for a vendor.
func (c *Client) OrderHistory(ctx context.Context, vendorID string) (*OrderHistoryResponse, error) {
	var out OrderHistoryResponse
	query := url.Values{"vendor_id": {vendorID}}
	if err := c.do(ctx, "order_history", http.MethodGet, "/orders/history", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Inventory returns the raw inventory payload for a vendor.
func (c *Client) Inventory(ctx context.Context, vendorID string) (*InventoryResponse, error) {
	var out InventoryResponse
	if err := c.do(ctx, "inventory", http.MethodGet, "/inventory/vendor/"+url.PathEscape(vendorID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FAQs(ctx context.Context) (*FAQResponse, error) {
	var out FAQResponse
	if err := c.do(ctx, "faqs", http.MethodGet, "/help/faqs", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PlaceOrder(ctx context.Context, order model.PlaceOrderRequest) (*model.PlaceOrderResponse, error) {
	var out model.PlaceOrderResponse
	if err := c.do(ctx, "place_order", http.MethodPost, "/orders/place", nil, order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	endpoint := c.config.APIURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", operation, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(operation, 0, start)
		return &RequestFailedError{Message: networkErrorMessage, Err: err}
	}
	c.observe(operation, resp.StatusCode, start)

	switch resp.Header.Get("Content-Encoding") {
	case "br":
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	case "gzip":
		if gz, err := gzip.NewReader(resp.Body); err == nil {
			resp.Body = &readCloserWrapper{Reader: gz, Closer: resp.Body}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RequestFailedError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) observe(operation string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveAPIRequest(operation, status, time.Since(start))
	}
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
