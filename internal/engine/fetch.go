package engine

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Request describes one upstream fetch. Body nil means GET; a non-nil Body
// is POSTed as JSON. Accept is sent verbatim so decoders can pick the
// response shape they know how to handle.
type Request struct {
	URL    string
	Body   []byte
	Accept string
}

// Fetcher is the transport capability consumed by the crawler and the video
// fetcher. Implementations own retries, connection pooling and TLS; callers
// only see final bytes or a terminal error.
type Fetcher interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// TransportError is a fetch failure surfaced after the retry policy is
// exhausted. StatusCode is zero for network-level failures.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ClientConfig controls the HTTP fetch client.
type ClientConfig struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBody     int64 // response read limit in bytes
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultClientConfig is suitable for scraping web endpoints.
var DefaultClientConfig = ClientConfig{
	UserAgent:   UserAgentBot,
	Timeout:     30 * time.Second,
	MaxBody:     8 * 1024 * 1024,
	MaxRetries:  3,
	InitialWait: 1 * time.Second,
	MaxWait:     10 * time.Second,
}

// Client is the production Fetcher. It retries retryable statuses with
// exponential backoff and transparently decompresses gzip bodies.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates a fetch client with proper settings for web scraping.
func NewClient(cfg ClientConfig) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgentBot
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultClientConfig.Timeout
	}
	if cfg.MaxBody == 0 {
		cfg.MaxBody = DefaultClientConfig.MaxBody
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 15 * time.Second,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// Do fetches one request with retry on 429/5xx.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	operation := func() ([]byte, error) {
		req, err := c.build(ctx, r)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, backoff.Permanent(&TransportError{URL: r.URL, Err: err})
		}
		defer resp.Body.Close()

		if IsRetryableStatus(resp.StatusCode) {
			slog.Debug("retryable status", slog.String("url", r.URL), slog.Int("status", resp.StatusCode))
			return nil, &TransportError{URL: r.URL, StatusCode: resp.StatusCode}
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(&TransportError{URL: r.URL, StatusCode: resp.StatusCode})
		}

		body, err := readBody(resp, c.cfg.MaxBody)
		if err != nil {
			return nil, backoff.Permanent(&TransportError{URL: r.URL, Err: err})
		}
		return body, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialWait
	bo.MaxInterval = c.cfg.MaxWait

	maxTries := uint(c.cfg.MaxRetries + 1)
	return backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(maxTries))
}

func (c *Client) build(ctx context.Context, r Request) (*http.Request, error) {
	method := http.MethodGet
	var body io.Reader
	if r.Body != nil {
		method = http.MethodPost
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	if r.Accept != "" {
		req.Header.Set("Accept", r.Accept)
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// readBody reads the response body, handling gzip decompression if needed.
func readBody(resp *http.Response, limit int64) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, limit))
}

// IsRetryableStatus returns true for HTTP status codes worth retrying.
func IsRetryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
