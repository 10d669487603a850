package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/anatolykoptev/go-ytmeta/internal/engine"
	"github.com/anatolykoptev/go-ytmeta/internal/engine/extract"
)

// Innertube constants for the modern page shape. The browse endpoint
// redeems continuation tokens produced by ytInitialData decoding.
const (
	browsePath   = "/youtubei/v1/browse"
	ytWebName    = "WEB"
	ytWebVersion = "2.20250222.10.00"
)

var initialDataMarkers = []string{
	"var ytInitialData = ",
	`window["ytInitialData"] = `,
	"ytInitialData = ",
}

// text is the polymorphic string shape of renderer fields: either a
// simpleText or a list of runs, depending on response vintage.
type text struct {
	SimpleText string `json:"simpleText"`
	Runs       []struct {
		Text               string `json:"text"`
		NavigationEndpoint struct {
			BrowseEndpoint struct {
				CanonicalBaseURL string `json:"canonicalBaseUrl"`
			} `json:"browseEndpoint"`
		} `json:"navigationEndpoint"`
	} `json:"runs"`
}

func (t text) value() string {
	if t.SimpleText != "" {
		return t.SimpleText
	}
	s := ""
	for _, r := range t.Runs {
		s += r.Text
	}
	return s
}

func (t text) firstLink() string {
	for _, r := range t.Runs {
		if u := r.NavigationEndpoint.BrowseEndpoint.CanonicalBaseURL; u != "" {
			return u
		}
	}
	return ""
}

type videoRenderer struct {
	VideoID         string `json:"videoId"`
	Title           text   `json:"title"`
	ShortBylineText text   `json:"shortBylineText"`
	LengthSeconds   string `json:"lengthSeconds"`
	LengthText      text   `json:"lengthText"`
}

type headerRenderer struct {
	PlaylistID           string `json:"playlistId"`
	Title                text   `json:"title"`
	NumVideosText        text   `json:"numVideosText"`
	ViewCountText        text   `json:"viewCountText"`
	DescriptionText      text   `json:"descriptionText"`
	OwnerText            text   `json:"ownerText"`
	PlaylistHeaderBanner struct {
		HeroPlaylistThumbnailRenderer struct {
			Thumbnail struct {
				Thumbnails []struct {
					URL string `json:"url"`
				} `json:"thumbnails"`
			} `json:"thumbnail"`
		} `json:"heroPlaylistThumbnailRenderer"`
	} `json:"playlistHeaderBanner"`
}

type continuationRenderer struct {
	ContinuationEndpoint struct {
		ContinuationCommand struct {
			Token string `json:"token"`
		} `json:"continuationCommand"`
	} `json:"continuationEndpoint"`
}

// decodeInitialData decodes a modern playlist landing page by extracting
// the embedded ytInitialData blob and walking it for renderers.
func decodeInitialData(raw []byte) (page, error) {
	var blob json.RawMessage
	if err := extract.AfterMarker(raw, &blob, initialDataMarkers...); err != nil {
		return page{}, fmt.Errorf("initial page: %w", err)
	}
	return walkRenderers(blob, true), nil
}

// decodeBrowseContinuation decodes one browse response. The payload is
// pure JSON; items and the next token sit under continuation actions
// whose exact nesting drifts, so the same renderer walk applies.
func decodeBrowseContinuation(raw []byte) (page, error) {
	if !json.Valid(raw) {
		return page{}, errors.New("browse continuation: invalid JSON")
	}
	return walkRenderers(raw, false), nil
}

// walkRenderers recursively walks a schema-drifting response blob and
// projects the renderer shapes we know: playlistVideoRenderer items,
// continuationItemRenderer tokens, and (on initial pages only) the
// playlistHeaderRenderer. Object keys are visited in sorted order so
// decoding is deterministic; item order is carried by the JSON arrays,
// which are walked in document order.
func walkRenderers(data json.RawMessage, wantHeader bool) page {
	p := page{items: []Item{}}

	var walk func(raw json.RawMessage)
	walk = func(raw json.RawMessage) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err == nil {
			if itemRaw, ok := obj["playlistVideoRenderer"]; ok {
				item, err := decodeVideoRenderer(itemRaw)
				if err != nil {
					p.warnings = append(p.warnings, fmt.Sprintf("item %d skipped: %v", len(p.items)+1, err))
				} else {
					p.items = append(p.items, item)
				}
				delete(obj, "playlistVideoRenderer")
			}
			if contRaw, ok := obj["continuationItemRenderer"]; ok {
				var cr continuationRenderer
				if err := json.Unmarshal(contRaw, &cr); err == nil {
					if tok := cr.ContinuationEndpoint.ContinuationCommand.Token; tok != "" && p.next == nil {
						p.next = &continuation{kind: continuationBrowse, value: tok}
					}
				}
				delete(obj, "continuationItemRenderer")
			}
			if wantHeader && p.header == nil {
				if hdrRaw, ok := obj["playlistHeaderRenderer"]; ok {
					p.header = decodeHeaderRenderer(hdrRaw)
					delete(obj, "playlistHeaderRenderer")
				}
			}

			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(obj[k])
			}
			return
		}

		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err == nil {
			for _, v := range arr {
				walk(v)
			}
		}
	}
	walk(data)

	engine.AddDecodeWarnings(len(p.warnings))
	return p
}

func decodeVideoRenderer(raw json.RawMessage) (Item, error) {
	var vr videoRenderer
	if err := json.Unmarshal(raw, &vr); err != nil {
		return Item{}, fmt.Errorf("malformed renderer: %w", err)
	}
	if vr.VideoID == "" {
		return Item{}, errors.New("renderer missing videoId")
	}
	title := engine.CollapseSpace(vr.Title.value())
	if title == "" {
		return Item{}, errors.New("renderer missing title")
	}

	item := Item{
		ID:    vr.VideoID,
		Title: title,
		Uploader: Uploader{
			Name: engine.CollapseSpace(vr.ShortBylineText.value()),
			URL:  absoluteURL(vr.ShortBylineText.firstLink()),
		},
	}

	if secs := engine.ParseInt(vr.LengthSeconds, -1); secs >= 0 {
		item.LengthSeconds = &secs
	} else if secs := engine.ParseTimestamp(vr.LengthText.value(), -1); secs >= 0 {
		item.LengthSeconds = &secs
	}
	return item, nil
}

func decodeHeaderRenderer(raw json.RawMessage) *header {
	var hr headerRenderer
	if err := json.Unmarshal(raw, &hr); err != nil {
		return nil
	}
	h := &header{
		title:       engine.CollapseSpace(hr.Title.value()),
		description: hr.DescriptionText.value(),
		length:      engine.ParseIntAggressive(hr.NumVideosText.value(), 0),
		views:       engine.ParseIntAggressive(hr.ViewCountText.value(), 0),
		uploader: Uploader{
			Name: engine.CollapseSpace(hr.OwnerText.value()),
			URL:  absoluteURL(hr.OwnerText.firstLink()),
		},
	}
	if thumbs := hr.PlaylistHeaderBanner.HeroPlaylistThumbnailRenderer.Thumbnail.Thumbnails; len(thumbs) > 0 {
		h.thumbnail = thumbs[len(thumbs)-1].URL
	}
	return h
}

// browseRequest is the innertube browse payload redeeming a continuation
// token.
type browseRequest struct {
	Context      browseContext `json:"context"`
	Continuation string        `json:"continuation"`
}

type browseContext struct {
	Client browseClient `json:"client"`
}

type browseClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

// request materializes the fetch request redeeming this continuation.
// The attachment shape (GET href vs POSTed token) is owned here, next to
// the decoders that produce the tokens; the crawler never inspects it.
func (c *continuation) request(baseURL string) (engine.Request, error) {
	switch c.kind {
	case continuationLegacy:
		return engine.Request{URL: baseURL + c.value, Accept: "application/json"}, nil
	case continuationBrowse:
		body, err := json.Marshal(browseRequest{
			Context: browseContext{Client: browseClient{
				ClientName:    ytWebName,
				ClientVersion: ytWebVersion,
				Hl:            "en",
				Gl:            "US",
			}},
			Continuation: c.value,
		})
		if err != nil {
			return engine.Request{}, err
		}
		return engine.Request{
			URL:    baseURL + browsePath + "?prettyPrint=false",
			Body:   body,
			Accept: "application/json",
		}, nil
	default:
		return engine.Request{}, fmt.Errorf("unknown continuation kind %d", c.kind)
	}
}

// decodeContinuation decodes one continuation page according to the kind
// of token that produced it.
func decodeContinuation(raw []byte, kind continuationKind) (page, error) {
	if kind == continuationBrowse {
		return decodeBrowseContinuation(raw)
	}
	return decodeLegacyContinuation(raw)
}
