package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/tiernerd/internal/common"
	"github.com/dmitrijs2005/tiernerd/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultTimeout  = 10 * time.Second
	maxResponseSize = 8 << 20

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"

	pingPath = "/api/users/me"
)

// Gateway is the request contract every feature service talks to.
// out must be a pointer or nil; an empty 2xx body leaves it untouched.
type Gateway interface {
	Get(ctx context.Context, path, token string, out any) error
	Post(ctx context.Context, path string, body any, token string, out any) error
	Put(ctx context.Context, path string, body any, token string, out any) error
	Delete(ctx context.Context, path, token string, out any) error
}

// Form is a body sent as application/x-www-form-urlencoded instead of JSON.
type Form url.Values

type HTTPClient struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	logger    logging.Logger
	requestID func() string
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (e.g. httptest's).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout bounds every request. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.logger = l }
}

// NewHTTPClient builds a gateway for the API rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		timeout:   DefaultTimeout,
		logger:    logging.Nop(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) BaseURL() string { return c.baseURL }

func (c *HTTPClient) Get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, token, out)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body any, token string, out any) error {
	return c.do(ctx, http.MethodPost, path, body, token, out)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body any, token string, out any) error {
	return c.do(ctx, http.MethodPut, path, body, token, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, token, out)
}

// Ping reports whether the server answers at all. Any HTTP status counts as
// reachable; only transport failures return an error.
func (c *HTTPClient) Ping(ctx context.Context) error {
	err := c.Get(ctx, pingPath, "", nil)
	if _, ok := AsAPIError(err); ok {
		return nil
	}
	return err
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case Form:
		return strings.NewReader(url.Values(b).Encode()), contentTypeForm, nil
	case url.Values:
		return strings.NewReader(b.Encode()), contentTypeForm, nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return bytes.NewReader(raw), contentTypeJSON, nil
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, token string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}

	reqID := c.requestID()
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(common.RequestIDHeader, reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	log := c.logger.With("method", method, "path", path, "request_id", reqID)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		log.Warn(ctx, "reading response failed", "error", err)
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrUnavailable, err)
	}

	log.Debug(ctx, "request finished", "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if !json.Valid(raw) {
		return fmt.Errorf("%s %s: %w: body is not JSON", method, path, ErrMalformedResponse)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrMalformedResponse, err)
	}
	return nil
}

func newAPIError(resp *http.Response, raw []byte) *APIError {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}

	apiErr := &APIError{Status: resp.StatusCode, StatusText: text, Raw: raw}

	var data any
	if len(raw) > 0 && json.Unmarshal(raw, &data) == nil {
		apiErr.Data = data
	}
	return apiErr
}
