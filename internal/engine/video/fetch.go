package video

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/anatolykoptev/go-ytmeta/internal/engine"
	"golang.org/x/sync/errgroup"
)

const defaultBaseURL = "https://www.youtube.com"

// ClientConfig controls the video metadata client. Zero values select
// working defaults.
type ClientConfig struct {
	BaseURL   string
	Workers   int   // concurrent fetches in GetAll
	CacheSize int64 // decoded records kept in memory, 0 disables
	CacheTTL  time.Duration
}

// Client fetches and decodes video metadata. Independent videos are
// fetched concurrently; each result corresponds only to its own input.
type Client struct {
	fetcher engine.Fetcher
	baseURL string
	workers int
	cache   *engine.Cache[Metadata]
}

// NewClient wires a Client to the given transport.
func NewClient(fetcher engine.Fetcher, cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	c := &Client{fetcher: fetcher, baseURL: cfg.BaseURL, workers: cfg.Workers}
	if cfg.CacheSize > 0 {
		cache, err := engine.NewCache[Metadata](cfg.CacheSize, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("video: cache init: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Get fetches and decodes metadata for one video id.
func (c *Client) Get(ctx context.Context, id string) (Metadata, error) {
	if c.cache != nil {
		if m, ok := c.cache.Get(id); ok {
			return m, nil
		}
	}

	engine.IncrVideoFetch()
	raw, err := c.fetcher.Do(ctx, engine.Request{
		URL:    c.baseURL + "/get_video_info?video_id=" + url.QueryEscape(id),
		Accept: "application/x-www-form-urlencoded",
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("video %s: %w", id, err)
	}

	m, err := Decode(raw)
	if err != nil {
		return Metadata{}, fmt.Errorf("video %s: %w", id, err)
	}
	slog.Debug("video decoded",
		slog.String("id", m.ID),
		slog.Int("captions", len(m.CaptionTracks)),
		slog.Int("warnings", len(m.Warnings)),
	)

	if c.cache != nil {
		c.cache.Set(id, m)
	}
	return m, nil
}

// Result pairs one requested id with its outcome. Err is set when that
// video's fetch or decode failed; no partial Metadata is ever returned.
type Result struct {
	ID   string
	Meta Metadata
	Err  error
}

// GetAll fetches metadata for several ids with bounded concurrency.
// Results are returned in input order; one video's failure does not
// affect the others.
func (c *Client) GetAll(ctx context.Context, ids []string) []Result {
	results := make([]Result, len(ids))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.workers)
	for i, id := range ids {
		eg.Go(func() error {
			m, err := c.Get(gctx, id)
			results[i] = Result{ID: id, Meta: m, Err: err}
			return nil
		})
	}
	// Goroutines never return an error; Wait only serves as the join point.
	_ = eg.Wait()
	return results
}

// Close releases the client's cache resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}
