package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"restauReserva/internal/platform/tokenstore"
	"restauReserva/internal/shared/auth"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultAppName = "RestauReserva"

	maxErrorBody = 4096
)

// Options configures the API client.
type Options struct {
	BaseURL string
	AppName string
	Timeout time.Duration
}

// Client wraps http.Client with base URL handling, bearer injection and error normalization.
type Client struct {
	baseURL   string
	client    *http.Client
	tokens    tokenstore.Store
	tokenKey  string
	requestID func() string
	now       func() time.Time
}

func New(opts Options, tokens tokenstore.Store, client *http.Client) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	appName := strings.TrimSpace(opts.AppName)
	if appName == "" {
		appName = DefaultAppName
	}
	if client == nil {
		client = &http.Client{Timeout: timeoutOrNone(opts.Timeout)}
	} else if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}
	return &Client{
		baseURL:   trimmed,
		client:    client,
		tokens:    tokens,
		tokenKey:  tokenstore.Key(appName),
		requestID: func() string { return uuid.NewString() },
		now:       time.Now,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// TokenKey is the key the bearer token is read from.
func (c *Client) TokenKey() string { return c.tokenKey }

// NewRequest builds a request against the base URL, JSON-encoding body when present.
func (c *Client) NewRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Do dispatches req. Transport failures and non-2xx answers come back as *Error;
// on success the caller owns the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.authorize(req)
	if req.Header.Get("X-Request-ID") == "" && c.requestID != nil {
		req.Header.Set("X-Request-ID", c.requestID())
	}
	path := req.URL.Path

	res, err := c.client.Do(req)
	if err != nil {
		slog.Warn("api request error", slog.String("method", req.Method), slog.String("path", path), slog.Any("error", err))
		return nil, networkError(req.Method, path, err)
	}
	slog.Debug("api response", slog.String("method", req.Method), slog.String("url", req.URL.String()), slog.Int("status", res.StatusCode))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		defer res.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		apiErr := serverError(req.Method, path, res.StatusCode, body)
		slog.Warn("api unexpected status", slog.String("method", req.Method), slog.String("path", path), slog.Int("status", res.StatusCode), slog.String("message", apiErr.Message))
		return nil, apiErr
	}
	return res, nil
}

// DoJSON performs a request and decodes a JSON response into out (skipped when out is nil
// or the body is empty).
func (c *Client) DoJSON(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	req, err := c.NewRequest(ctx, method, endpoint, body)
	if err != nil {
		return unknownError(method, endpoint, err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return networkError(method, req.URL.Path, fmt.Errorf("read response: %w", err))
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return unknownError(method, req.URL.Path, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// authorize attaches the stored bearer token unless the request already carries an Authorization header.
func (c *Client) authorize(req *http.Request) {
	if req.Header.Get("Authorization") != "" || c.tokens == nil {
		return
	}
	token, err := c.tokens.Get(req.Context(), c.tokenKey)
	if err != nil {
		slog.Warn("api token read failed", slog.String("key", c.tokenKey), slog.Any("error", err))
		return
	}
	header := auth.BearerHeader(token)
	if header == "" {
		return
	}
	if info, err := auth.Inspect(token, c.now()); err == nil && info.Expired {
		slog.Warn("api token expired, sending anyway", slog.String("subject", info.Subject))
	}
	req.Header.Set("Authorization", header)
}

// timeoutOrNone keeps requests unbounded unless a timeout is configured.
func timeoutOrNone(value time.Duration) time.Duration {
	if value <= 0 {
		return 0
	}
	return value
}
