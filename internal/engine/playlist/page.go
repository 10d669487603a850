package playlist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go-ytmeta/internal/engine"
)

// canonicalOrigin prefixes relative channel links scraped from markup.
const canonicalOrigin = "https://www.youtube.com"

// loadMoreHrefRe pulls the next continuation href out of the load-more
// widget markup of a continuation response.
var loadMoreHrefRe = regexp.MustCompile(`data-uix-load-more-href="(.+?)"`)

// decodeInitial decodes the full-markup landing page of a playlist. Two
// upstream shapes are known: the legacy server-rendered markup
// (#pl-header plus an item table) and the modern page that carries
// everything in an embedded ytInitialData blob. Both converge on the
// same page value.
func decodeInitial(raw []byte) (page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return page{}, fmt.Errorf("parse initial page: %w", err)
	}
	if doc.Find("#pl-header").Length() > 0 {
		return decodeLegacyInitial(doc), nil
	}
	return decodeInitialData(raw)
}

// decodeLegacyInitial projects the server-rendered playlist markup.
// Every header field is optional; a missing node leaves the zero value.
func decodeLegacyInitial(doc *goquery.Document) page {
	h := &header{}
	plh := doc.Find("#pl-header")

	h.thumbnail = plh.Find(".pl-header-thumb img").First().AttrOr("src", "")
	h.title = engine.CollapseSpace(plh.Find("h1").First().Text())
	h.description = engine.CollapseSpace(plh.Find(".pl-header-description-text").First().Text())

	details := plh.Find(".pl-header-details li")
	if owner := details.Eq(0).Find("a").First(); owner.Length() > 0 {
		h.uploader = Uploader{
			Name: engine.CollapseSpace(owner.Text()),
			URL:  absoluteURL(owner.AttrOr("href", "")),
		}
	}
	h.length = engine.ParseIntAggressive(details.Eq(1).Text(), 0)
	h.views = engine.ParseIntAggressive(details.Eq(2).Text(), 0)

	items, warnings := decodeRows(doc.Find("#pl-load-more-destination tr"))

	p := page{header: h, items: items, warnings: warnings}
	if href, ok := doc.Find("button[data-uix-load-more-href]").First().Attr("data-uix-load-more-href"); ok && href != "" {
		p.next = &continuation{kind: continuationLegacy, value: href}
	}
	return p
}

// legacyEnvelope is the JSON wrapper of a legacy continuation response.
type legacyEnvelope struct {
	ContentHTML        string `json:"content_html"`
	LoadMoreWidgetHTML string `json:"load_more_widget_html"`
}

// decodeLegacyContinuation decodes one legacy continuation payload: item
// rows as an HTML fragment plus the widget markup carrying the next
// continuation href. Continuation pages never carry header metadata.
func decodeLegacyContinuation(raw []byte) (page, error) {
	var env legacyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return page{}, fmt.Errorf("continuation envelope: %w", err)
	}
	if env.ContentHTML == "" {
		return page{}, errors.New("continuation envelope missing content_html")
	}

	// The fragment is a run of bare <tr> elements; without table context
	// the HTML5 parser silently drops them.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + env.ContentHTML + "</table>"))
	if err != nil {
		return page{}, fmt.Errorf("parse continuation fragment: %w", err)
	}

	items, warnings := decodeRows(doc.Find("tr"))
	p := page{items: items, warnings: warnings}

	if m := loadMoreHrefRe.FindStringSubmatch(env.LoadMoreWidgetHTML); m != nil {
		p.next = &continuation{kind: continuationLegacy, value: m[1]}
	}
	return p, nil
}

// decodeRows decodes item rows independently: a malformed row is skipped
// with a recorded warning rather than failing the page.
func decodeRows(rows *goquery.Selection) ([]Item, []string) {
	items := []Item{}
	var warnings []string
	rows.Each(func(i int, s *goquery.Selection) {
		item, err := decodeRow(s)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("item %d skipped: %v", i, err))
			slog.Warn("playlist item skipped", slog.Int("index", i), slog.Any("error", err))
			return
		}
		items = append(items, item)
	})
	engine.AddDecodeWarnings(len(warnings))
	return items, warnings
}

// decodeRow projects one <tr> item row. id and title are required; the
// uploader link and the timestamp degrade gracefully.
func decodeRow(s *goquery.Selection) (Item, error) {
	id := s.AttrOr("data-video-id", "")
	if id == "" {
		return Item{}, errors.New("row missing data-video-id")
	}

	title := engine.CollapseSpace(s.Find("a.pl-video-title-link").First().Text())
	if title == "" {
		title = engine.CollapseSpace(s.AttrOr("data-title", ""))
	}
	if title == "" {
		return Item{}, errors.New("row missing title")
	}

	item := Item{ID: id, Title: title}

	if owner := s.Find(".pl-video-owner a").First(); owner.Length() > 0 {
		item.Uploader = Uploader{
			Name: engine.CollapseSpace(owner.Text()),
			URL:  absoluteURL(owner.AttrOr("href", "")),
		}
	}

	ts := engine.CollapseSpace(s.Find(".pl-video-time").First().Text())
	if secs := engine.ParseTimestamp(ts, -1); secs >= 0 {
		item.LengthSeconds = &secs
	}
	return item, nil
}

// absoluteURL resolves a scraped href against the canonical origin.
func absoluteURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		return href
	}
	return canonicalOrigin + href
}
