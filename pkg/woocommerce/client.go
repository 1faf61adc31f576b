package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/verdant-oils/storefront-backend/pkg/config"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/pagination"
)

const errorBodyReadLimit int64 = 4096

var (
	errSiteURLRequired     = errors.New("commerce site url is required")
	errCredentialsRequired = errors.New("commerce consumer key and secret are required")
)

// Client talks to the WooCommerce-style REST backend. All durable
// catalog/customer/order state lives behind it; this service keeps none.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the commerce client from credentials. One fixed
// timeout covers every call; there is no per-operation override.
func NewClient(cfg config.CommerceConfig, opts ...Option) (*Client, error) {
	site := strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	if site == "" {
		return nil, errSiteURLRequired
	}
	key := strings.TrimSpace(cfg.ConsumerKey)
	secret := strings.TrimSpace(cfg.ConsumerSecret)
	if key == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	version := strings.Trim(strings.TrimSpace(cfg.APIVersion), "/")
	if version == "" {
		version = "wc/v3"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := &Client{
		baseURL:        fmt.Sprintf("%s/wp-json/%s", site, version),
		consumerKey:    key,
		consumerSecret: secret,
		httpClient:     &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Ping issues a minimal catalog read to verify the backend is
// reachable and the credentials are accepted.
func (c *Client) Ping(ctx context.Context) error {
	var products []Product
	query := url.Values{"per_page": []string{"1"}}
	return c.do(ctx, http.MethodGet, "products", query, nil, &products)
}

// ListProducts returns one page of catalog products.
func (c *Client) ListProducts(ctx context.Context, page pagination.Params) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "products", page.QueryValues(), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductBySlug returns the product with the given slug, or NOT_FOUND.
func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	var products []Product
	query := url.Values{"slug": []string{slug}}
	if err := c.do(ctx, http.MethodGet, "products", query, nil, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &products[0], nil
}

// ListVariations returns the variations of a variable product.
func (c *Client) ListVariations(ctx context.Context, productID int) ([]Variation, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var variations []Variation
	path := fmt.Sprintf("products/%d/variations", productID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &variations); err != nil {
		return nil, err
	}
	return variations, nil
}

// SearchCustomersByEmail returns customers exactly matching the email.
func (c *Client) SearchCustomersByEmail(ctx context.Context, email string) ([]Customer, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	var customers []Customer
	query := url.Values{"email": []string{email}}
	if err := c.do(ctx, http.MethodGet, "customers", query, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CreateCustomer creates a customer record.
func (c *Client) CreateCustomer(ctx context.Context, payload CustomerPayload) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodPost, "customers", nil, payload, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListOrdersByCustomer returns the order history for a customer id.
func (c *Client) ListOrdersByCustomer(ctx context.Context, customerID int) ([]Order, error) {
	if customerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	var orders []Order
	query := url.Values{"customer": []string{strconv.Itoa(customerID)}}
	if err := c.do(ctx, http.MethodGet, "orders", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	var order Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("orders/%d", orderID), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder submits a new order payload and returns the stored record.
func (c *Client) CreateOrder(ctx context.Context, payload OrderPayload) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "orders", nil, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder applies a partial update to an existing order.
func (c *Client) UpdateOrder(ctx context.Context, orderID int, update OrderUpdate) (*Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	var order Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("orders/%d", orderID), nil, update, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	if c == nil || c.httpClient == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal commerce request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build commerce request")
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s %s", method, path))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapError(resp, method, path)
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode commerce response")
	}
	return nil
}

func (c *Client) mapError(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	detail := map[string]any{
		"status": resp.StatusCode,
		"body":   strings.TrimSpace(string(raw)),
	}

	code := pkgerrors.CodeDependency
	if resp.StatusCode == http.StatusNotFound {
		code = pkgerrors.CodeNotFound
	}
	if resp.StatusCode == http.StatusBadRequest {
		code = pkgerrors.CodeValidation
	}

	msg := fmt.Sprintf("commerce backend %s %s returned %d", method, path, resp.StatusCode)
	return pkgerrors.New(code, msg).WithDetails(detail)
}
