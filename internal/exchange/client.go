package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mselser95/futures-bot/pkg/types"
	"go.uber.org/zap"
)

const (
	orderPath        = "/fapi/v1/order"
	exchangeInfoPath = "/fapi/v1/exchangeInfo"

	endpointOrder        = "order"
	endpointExchangeInfo = "exchange_info"

	maxErrorBody = 4096
)

// ErrMissingCredentials is returned when a signed call is made without keys.
var ErrMissingCredentials = errors.New("api key and secret are required for signed requests")

// Client talks to the USDⓈ-M futures REST API.
type Client struct {
	baseURL    string
	signer     *Signer
	recvWindow int64
	httpClient *http.Client
	retry      RetryConfig
	logger     *zap.Logger
	now        func() time.Time
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	RecvWindow int64         // Milliseconds, 0 uses the exchange default
	Timeout    time.Duration // Ignored when HTTPClient is set
	HTTPClient *http.Client
	Retry      *RetryConfig // Applied to unsigned GETs only
	Logger     *zap.Logger
}

// RetryConfig controls retries of idempotent requests.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetry is used for exchangeInfo lookups.
var DefaultRetry = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    5 * time.Second,
}

// NewClient creates a new futures API client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	retry := DefaultRetry
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		signer:     NewSigner(cfg.APIKey, cfg.APISecret),
		recvWindow: cfg.RecvWindow,
		httpClient: httpClient,
		retry:      retry,
		logger:     cfg.Logger,
		now:        time.Now,
	}, nil
}

// CreateOrder submits a signed order. It is never retried: a second attempt
// could place a duplicate order.
func (c *Client) CreateOrder(ctx context.Context, order *types.OrderRequest) (*types.OrderResponse, error) {
	if c.signer.APIKey() == "" || len(c.signer.secret) == 0 {
		return nil, ErrMissingCredentials
	}

	params := orderParams(order)
	query := c.signer.SignParams(params, c.now(), c.recvWindow)

	requestURL := c.baseURL + orderPath + "?" + query
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("order-request-sending",
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.String("type", string(order.Type)),
		zap.String("quantity", params.Get("quantity")),
		zap.String("price", params.Get("price")))

	var resp types.OrderResponse
	err = c.do(req, endpointOrder, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// ExchangeInfo fetches trading rules for all symbols. Transport errors and
// 5xx responses are retried with backoff.
func (c *Client) ExchangeInfo(ctx context.Context) (*types.ExchangeInfo, error) {
	attempts := c.retry.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := c.retry.BaseDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+exchangeInfoPath, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		var info types.ExchangeInfo
		err = c.do(req, endpointExchangeInfo, &info)
		if err == nil {
			return &info, nil
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		c.logger.Warn("exchange-info-retrying",
			zap.Int("attempt", attempt),
			zap.Int("max-attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
	}

	return nil, fmt.Errorf("fetch exchange info after %d attempts: %w", attempts, lastErr)
}

// Close wipes the API credentials held by the client.
func (c *Client) Close() {
	c.signer.Wipe()
}

// do sends req and decodes a 2xx JSON body into out. Other statuses are
// returned as *types.APIError.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	RequestDurationSeconds.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		RequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		RequestsTotal.WithLabelValues(endpoint, "api_error").Inc()
		apiErr := decodeAPIError(resp)
		APIErrorsTotal.WithLabelValues(strconv.Itoa(apiErr.Code)).Inc()
		c.logger.Warn("exchange-api-error",
			zap.String("endpoint", endpoint),
			zap.Int("status", apiErr.StatusCode),
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		RequestsTotal.WithLabelValues(endpoint, "decode_error").Inc()
		return fmt.Errorf("parse response: %w", err)
	}

	RequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func decodeAPIError(resp *http.Response) *types.APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &types.APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Code = 0
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	apiErr.StatusCode = resp.StatusCode

	return apiErr
}

func retryable(err error) bool {
	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func orderParams(order *types.OrderRequest) url.Values {
	params := url.Values{}
	params.Set("symbol", order.Symbol)
	params.Set("side", string(order.Side))
	params.Set("type", string(order.Type))
	params.Set("quantity", order.Quantity.String())

	if order.Type == types.OrderTypeLimit {
		params.Set("price", order.Price.String())
		timeInForce := order.TimeInForce
		if timeInForce == "" {
			timeInForce = types.TimeInForceGTC
		}
		params.Set("timeInForce", timeInForce)
	}

	if order.ClientOrderID != "" {
		params.Set("newClientOrderId", order.ClientOrderID)
	}

	return params
}
