package playlist

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/anatolykoptev/go-ytmeta/internal/engine"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.youtube.com"

// defaultMaxPages bounds pagination against upstream bugs that never stop
// returning tokens. Generous: legacy pages carry 100 items each.
const defaultMaxPages = 1000

// CrawlerConfig controls a Crawler. Zero values select working defaults.
type CrawlerConfig struct {
	BaseURL   string
	MaxPages  int
	Limiter   *rate.Limiter // optional pacing between page fetches
	CacheSize int64         // complete crawls kept in memory, 0 disables
	CacheTTL  time.Duration
}

// Crawler walks a playlist's pages sequentially, following continuation
// tokens until exhaustion. Independent crawls share no state and may run
// concurrently; one crawl's pages cannot, since each fetch depends on the
// token decoded from the previous page.
type Crawler struct {
	fetcher  engine.Fetcher
	baseURL  string
	maxPages int
	limiter  *rate.Limiter
	cache    *engine.Cache[*Playlist]
}

// NewCrawler wires a Crawler to the given transport.
func NewCrawler(fetcher engine.Fetcher, cfg CrawlerConfig) *Crawler {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	c := &Crawler{
		fetcher:  fetcher,
		baseURL:  cfg.BaseURL,
		maxPages: cfg.MaxPages,
		limiter:  cfg.Limiter,
	}
	if cfg.CacheSize > 0 {
		cache, err := engine.NewCache[*Playlist](cfg.CacheSize, cfg.CacheTTL)
		if err != nil {
			slog.Warn("playlist cache disabled", slog.Any("error", err))
		} else {
			c.cache = cache
		}
	}
	return c
}

// Close releases the cache, if one is configured.
func (c *Crawler) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Crawl fetches and merges all pages of the playlist. A first-page
// failure is fatal and returns a CrawlError; any later failure, a hit
// loop-safety bound, or cancellation returns the accumulated partial
// result with Incomplete set and the cause recorded in Warnings.
func (c *Crawler) Crawl(ctx context.Context, playlistID string) (*Playlist, error) {
	if c.cache != nil {
		if pl, ok := c.cache.Get(playlistID); ok {
			return pl.clone(), nil
		}
	}

	engine.IncrPlaylistFetch()
	raw, err := c.fetcher.Do(ctx, engine.Request{
		URL:    c.baseURL + "/playlist?list=" + url.QueryEscape(playlistID),
		Accept: "text/html",
	})
	if err != nil {
		return nil, &CrawlError{PlaylistID: playlistID, Err: err}
	}
	pg, err := decodeInitial(raw)
	if err != nil {
		return nil, &CrawlError{PlaylistID: playlistID, Err: err}
	}

	result := &Playlist{ID: playlistID, Items: []Item{}}
	seen := make(map[string]bool)
	result.applyHeader(pg.header)
	result.merge(pg, seen)

	token := pg.next
	pages := 1
	for token != nil {
		if pages >= c.maxPages {
			result.degrade(fmt.Sprintf("pagination stopped after %d pages (safety ceiling)", pages))
			break
		}
		if err := c.wait(ctx); err != nil {
			result.degrade(fmt.Sprintf("crawl cancelled after %d pages: %v", pages, err))
			break
		}

		req, err := token.request(c.baseURL)
		if err != nil {
			result.degrade(fmt.Sprintf("continuation after %d pages unusable: %v", pages, err))
			break
		}
		engine.IncrContinuationFetch()
		raw, err := c.fetcher.Do(ctx, req)
		if err != nil {
			result.degrade(fmt.Sprintf("continuation fetch failed after %d pages: %v", pages, err))
			break
		}
		pg, err := decodeContinuation(raw, token.kind)
		if err != nil {
			slog.Debug("undecodable continuation body",
				slog.String("playlist", playlistID),
				slog.String("snippet", engine.Truncate(string(raw), 200)),
			)
			result.degrade(fmt.Sprintf("continuation decode failed after %d pages: %v", pages, err))
			break
		}

		result.merge(pg, seen)
		pages++
		slog.Debug("playlist page merged",
			slog.String("playlist", playlistID),
			slog.Int("page", pages),
			slog.Int("items", len(result.Items)),
		)

		// Identical consecutive tokens would loop forever; token equality
		// is otherwise meaningless and never compared across pages.
		if pg.next != nil && pg.next.value == token.value {
			result.degrade(fmt.Sprintf("continuation token repeated after %d pages", pages))
			break
		}
		token = pg.next
	}

	// Partial results are never cached; a retry may do better.
	if c.cache != nil && !result.Incomplete {
		c.cache.Set(playlistID, result.clone())
	}
	return result, nil
}

// wait paces page fetches and honors cancellation between iterations.
func (c *Crawler) wait(ctx context.Context) error {
	if c.limiter != nil {
		return c.limiter.Wait(ctx)
	}
	return ctx.Err()
}

// applyHeader copies first-page header metadata onto the result. Later
// pages never carry a header, so a captured one is never overwritten.
func (p *Playlist) applyHeader(h *header) {
	if h == nil {
		return
	}
	p.Title = h.title
	p.Description = h.description
	p.Thumbnail = h.thumbnail
	p.Length = h.length
	p.Views = h.views
	p.Uploader = h.uploader
}

// merge appends a page's items in order, dropping ids already seen
// (first occurrence wins), and carries the page's decode warnings.
// A dropped duplicate is recorded as a warning; it does not mark the
// result incomplete.
func (p *Playlist) merge(pg page, seen map[string]bool) {
	for _, item := range pg.items {
		if seen[item.ID] {
			p.Warnings = append(p.Warnings, fmt.Sprintf("duplicate item %s dropped", item.ID))
			slog.Debug("duplicate item dropped", slog.String("id", item.ID))
			continue
		}
		seen[item.ID] = true
		p.Items = append(p.Items, item)
	}
	p.Warnings = append(p.Warnings, pg.warnings...)
}

// degrade marks the result partial and records why.
func (p *Playlist) degrade(reason string) {
	p.Incomplete = true
	p.Warnings = append(p.Warnings, reason)
	slog.Warn("playlist crawl degraded", slog.String("id", p.ID), slog.String("reason", reason))
}
