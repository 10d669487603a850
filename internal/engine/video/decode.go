package video

import (
	"bytes"
	"fmt"

	"github.com/anatolykoptev/go-ytmeta/internal/engine"
	"github.com/anatolykoptev/go-ytmeta/internal/engine/extract"
)

// The player response reaches us in one of two transport encodings: the
// video-info endpoint wraps it as the player_response key of a urlencoded
// body, while a watch page embeds it as a script variable. Markers are
// tried in observed-frequency order.
const playerResponseKey = "player_response"

var playerResponseMarkers = []string{
	"var ytInitialPlayerResponse = ",
	`window["ytInitialPlayerResponse"] = `,
	"ytInitialPlayerResponse = ",
}

// playerResponse mirrors the subset of the player configuration blob we
// project from. Every field is optional; presence is checked during
// projection, not decoding.
type playerResponse struct {
	VideoDetails *videoDetails `json:"videoDetails"`
	Captions     *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type videoDetails struct {
	VideoID          string   `json:"videoId"`
	Title            string   `json:"title"`
	LengthSeconds    string   `json:"lengthSeconds"`
	Keywords         []string `json:"keywords"`
	ShortDescription string   `json:"shortDescription"`
	Thumbnail        struct {
		Thumbnails []Thumbnail `json:"thumbnails"`
	} `json:"thumbnail"`
	ViewCount string `json:"viewCount"`
	Author    string `json:"author"`
	ChannelID string `json:"channelId"`
}

type captionTrack struct {
	BaseURL string `json:"baseUrl"`
	Name    struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// Decode extracts one video's Metadata from a raw video-info response.
// Both response shapes are handled: the urlencoded video-info body and a
// full watch-page document.
func Decode(raw []byte) (Metadata, error) {
	var pr playerResponse
	if looksLikeHTML(raw) {
		if err := extract.AfterMarker(raw, &pr, playerResponseMarkers...); err != nil {
			return Metadata{}, fmt.Errorf("video: %w", err)
		}
	} else {
		if err := extract.FromFormKey(raw, &pr, playerResponseKey); err != nil {
			return Metadata{}, fmt.Errorf("video: %w", err)
		}
	}
	return project(pr)
}

// looksLikeHTML distinguishes a markup document from a urlencoded body.
func looksLikeHTML(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '<'
}

// project maps the player response onto Metadata, applying the documented
// fallback for every optional field. id and title are required; their
// absence fails the whole decode.
func project(pr playerResponse) (Metadata, error) {
	if pr.VideoDetails == nil {
		return Metadata{}, &RequiredFieldError{Field: "videoDetails"}
	}
	d := pr.VideoDetails
	if d.VideoID == "" {
		return Metadata{}, &RequiredFieldError{Field: "id"}
	}
	if d.Title == "" {
		return Metadata{}, &RequiredFieldError{Field: "title"}
	}

	m := Metadata{
		ID:               d.VideoID,
		Title:            d.Title,
		Keywords:         []string{},
		ShortDescription: d.ShortDescription,
		Thumbnails:       []Thumbnail{},
		Uploader: Uploader{
			Name:      d.Author,
			ChannelID: d.ChannelID,
			URL:       nil,
		},
		CaptionTracks: []CaptionTrack{},
	}

	if d.Keywords != nil {
		m.Keywords = d.Keywords
	}
	if d.Thumbnail.Thumbnails != nil {
		m.Thumbnails = d.Thumbnail.Thumbnails
	}

	if n := engine.ParseInt(d.LengthSeconds, -1); n >= 0 {
		m.LengthSeconds = n
	} else {
		m.Warnings = append(m.Warnings, "lengthSeconds missing or unparseable, defaulting to 0")
	}
	if n := engine.ParseInt(d.ViewCount, -1); n >= 0 {
		m.Views = n
	} else {
		m.Warnings = append(m.Warnings, "viewCount missing or unparseable, defaulting to 0")
	}

	if pr.Captions != nil {
		for _, t := range pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks {
			m.CaptionTracks = append(m.CaptionTracks, CaptionTrack{
				URL:          t.BaseURL,
				Name:         trackName(t),
				LanguageCode: t.LanguageCode,
				Kind:         t.Kind,
			})
		}
	}

	engine.AddDecodeWarnings(len(m.Warnings))
	return m, nil
}

// trackName resolves the caption track label, which upstream encodes as
// either a simpleText or a runs list depending on response vintage.
func trackName(t captionTrack) string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	for _, r := range t.Name.Runs {
		if r.Text != "" {
			return r.Text
		}
	}
	return ""
}
