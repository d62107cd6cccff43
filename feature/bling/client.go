package bling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"bling-sync/core/walker"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenSource hands out the bearer token for each call.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client is a thin REST client for the v3 API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	tokens  TokenSource
	logger  *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithLimiter replaces the courtesy limiter.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a client for cfg authenticating through tokens.
func NewClient(cfg Config, tokens TokenSource, logger *zap.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 3
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout()},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		tokens:  tokens,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the {"data": ...} wrapper of every successful answer.
type envelope[T any] struct {
	Data T `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.do(ctx, http.MethodGet, path, query, nil, out)
	return err
}

// getRaw returns the undecoded body, used where the payload is archived.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, nil, nil)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPut, path, nil, body, out)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Transport failures are not throttling; the run stops with its cursor intact.
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var env errorEnvelope
		_ = json.Unmarshal(raw, &env)
		err := classify(resp.StatusCode, env)
		c.logger.Debug("Bling call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil, err
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return raw, nil
}

// pageQuery builds the common pagination parameters.
func pageQuery(page int) url.Values {
	q := url.Values{}
	q.Set("pagina", fmt.Sprint(page))
	q.Set("limite", fmt.Sprint(walker.PageSize))
	return q
}

func idPath(resource string, id int64) string {
	return fmt.Sprintf("%s/%d", resource, id)
}

// decodeData unwraps a raw {"data": ...} body.
func decodeData[T any](raw []byte) (*T, error) {
	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
