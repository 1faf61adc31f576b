package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verdant-oils/storefront-backend/pkg/config"
	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"

	defaultBaseURL           = "https://api.razorpay.com/v1"
	errorBodyReadLimit int64 = 4096
)

var (
	errKeyIDRequired     = errors.New("razorpay key id is required")
	errKeySecretRequired = errors.New("razorpay key secret is required")
	errInvalidEnv        = fmt.Errorf("razorpay environment must be %q or %q", testEnv, liveEnv)
	errLoggerRequired    = errors.New("razorpay logger is required")
)

// Client wraps the Razorpay Orders API with centralized auth, logging,
// and error mapping.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	keyID       string
	keySecret   string
	environment string
	logger      *logger.Logger
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

// WithBaseURL overrides the gateway base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient initializes the Razorpay wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errKeySecretRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     defaultBaseURL,
		keyID:       keyID,
		keySecret:   keySecret,
		environment: env,
		logger:      logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	logg.Info(ctx, fmt.Sprintf("razorpay client initialized (%s)", env))
	return c, nil
}

// KeyID returns the public key id handed to the hosted widget.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// Environment reports the normalized Razorpay environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// SigningSecret returns the secret used for callback signature checks.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.keySecret
}

// OrderCreateParams describes a gateway-side payment order. Amount is in
// minor units (paise); Notes link the gateway order back to the store order.
type OrderCreateParams struct {
	AmountMinorUnits int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Receipt          string            `json:"receipt"`
	Notes            map[string]string `json:"notes,omitempty"`
}

// GatewayOrder is the gateway's record of a checkout attempt.
type GatewayOrder struct {
	ID               string            `json:"id"`
	AmountMinorUnits int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Receipt          string            `json:"receipt"`
	Status           string            `json:"status"`
	Notes            map[string]string `json:"notes,omitempty"`
}

// CreateOrder creates a gateway order for the given amount.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (*GatewayOrder, error) {
	if c == nil || c.httpClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "razorpay client not configured")
	}
	if params.AmountMinorUnits <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway order amount must be positive")
	}
	if strings.TrimSpace(params.Currency) == "" {
		params.Currency = "INR"
	}

	c.log(ctx, "request", "create_order", map[string]any{
		"amount":   params.AmountMinorUnits,
		"currency": params.Currency,
		"receipt":  params.Receipt,
	})

	var order GatewayOrder
	if err := c.do(ctx, http.MethodPost, "orders", params, &order); err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "create_order", map[string]any{
		"gateway_order_id": order.ID,
		"status":           order.Status,
	})
	return &order, nil
}

// GetOrder fetches a gateway order by id.
func (c *Client) GetOrder(ctx context.Context, gatewayOrderID string) (*GatewayOrder, error) {
	if strings.TrimSpace(gatewayOrderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway order id is required")
	}
	var order GatewayOrder
	if err := c.do(ctx, http.MethodGet, "orders/"+gatewayOrderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal gateway request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build gateway request")
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, fmt.Sprintf("%s %s", method, path))
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
		return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "decode gateway response")
	}
	return nil
}

// gatewayErrorBody is Razorpay's error envelope; Description is the
// message surfaced to the caller when present.
type gatewayErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (c *Client) mapError(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	msg := fmt.Sprintf("payment gateway %s %s returned %d", method, path, resp.StatusCode)
	var parsed gatewayErrorBody
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Description != "" {
		msg = parsed.Error.Description
	}

	return pkgerrors.New(pkgerrors.CodeGateway, msg).WithDetails(map[string]any{
		"status": resp.StatusCode,
		"body":   strings.TrimSpace(string(raw)),
	})
}

func (c *Client) log(ctx context.Context, stage, operation string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	enriched := map[string]any{"gateway": "razorpay", "stage": stage, "operation": operation}
	for k, v := range fields {
		enriched[k] = v
	}
	c.logger.Info(c.logger.WithFields(ctx, enriched), "gateway."+operation)
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidEnv
	}
}
