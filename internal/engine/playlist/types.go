// Package playlist crawls a playlist's paginated item list from YouTube's
// web-facing endpoints, following opaque continuation tokens until
// exhaustion, and merges the pages into one ordered result.
package playlist

import "fmt"

// Uploader identifies a playlist's or item's channel. URL may be empty
// when the source page does not link the channel.
type Uploader struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Item is one video entry of a playlist, in upstream order.
// LengthSeconds is null when the source timestamp was unparseable.
type Item struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Uploader      Uploader `json:"uploader"`
	LengthSeconds *int     `json:"lengthSeconds"`
}

// Playlist is the merged crawl result. Items preserves upstream ordering
// across all pages with duplicate ids removed (first occurrence wins).
// Incomplete marks a partial result: crawl cancelled, loop-safety bound
// hit, or a continuation page failed after at least one good page; the
// cause is recorded in Warnings. The value is owned by the caller once
// returned.
type Playlist struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	Length      int      `json:"length"`
	Views       int      `json:"views"`
	Uploader    Uploader `json:"uploader"`
	Items       []Item   `json:"items"`
	Incomplete  bool     `json:"incomplete"`
	Warnings    []string `json:"warnings,omitempty"`
}

// clone returns a copy sharing no memory with p. Cached results are
// cloned on both store and read, so each caller owns its value outright.
func (p *Playlist) clone() *Playlist {
	cp := *p
	cp.Items = make([]Item, len(p.Items))
	for i, it := range p.Items {
		if it.LengthSeconds != nil {
			v := *it.LengthSeconds
			it.LengthSeconds = &v
		}
		cp.Items[i] = it
	}
	if p.Warnings != nil {
		cp.Warnings = append([]string(nil), p.Warnings...)
	}
	return &cp
}

// CrawlError wraps a fatal first-page failure. Later page failures
// degrade the crawl to an incomplete result instead.
type CrawlError struct {
	PlaylistID string
	Err        error
}

func (e *CrawlError) Error() string {
	return fmt.Sprintf("crawl playlist %s: %v", e.PlaylistID, e.Err)
}

func (e *CrawlError) Unwrap() error { return e.Err }

// header is playlist-level metadata, present only on the first page.
type header struct {
	title       string
	description string
	thumbnail   string
	length      int
	views       int
	uploader    Uploader
}

// continuationKind selects how the next request carries the token. The
// shape is decided by whichever decoder produced the token; the crawler
// only forwards it.
type continuationKind int

const (
	// continuationLegacy is a relative load-more href fetched with GET.
	continuationLegacy continuationKind = iota
	// continuationBrowse is an innertube token POSTed to /youtubei/v1/browse.
	continuationBrowse
)

// continuation is an opaque pagination token plus the request shape
// needed to redeem it.
type continuation struct {
	kind  continuationKind
	value string
}

// page is one fetched and decoded fragment of the playlist. Never exposed
// outside this package.
type page struct {
	header   *header
	items    []Item
	next     *continuation
	warnings []string
}
