// Package video decodes single-video metadata from YouTube's web-facing
// video-info responses. The decoder is all-or-nothing per video: either a
// complete Metadata record is produced or a typed error is returned.
package video

import "fmt"

// Uploader identifies a video's channel. URL is not obtainable from the
// video-info source and is always serialized as null; it is never derived
// from the channel ID.
type Uploader struct {
	Name      string  `json:"name"`
	ChannelID string  `json:"channelId"`
	URL       *string `json:"url"`
}

// Thumbnail is one thumbnail variant, in upstream declaration order.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CaptionTrack is one subtitle track. Kind is "asr" for auto-generated
// tracks, empty for manually uploaded ones.
type CaptionTrack struct {
	URL          string `json:"url"`
	Name         string `json:"name"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// Metadata is the decoded record for one video. Slice fields are never
// nil: an absent upstream field decodes to an empty slice. Warnings lists
// optional fields that were missing or unparseable and fell back to their
// documented defaults.
type Metadata struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	LengthSeconds    int            `json:"lengthSeconds"`
	Keywords         []string       `json:"keywords"`
	ShortDescription string         `json:"shortDescription"`
	Thumbnails       []Thumbnail    `json:"thumbnails"`
	Views            int            `json:"views"`
	Uploader         Uploader       `json:"uploader"`
	CaptionTracks    []CaptionTrack `json:"captionTracks"`
	Warnings         []string       `json:"warnings,omitempty"`
}

// RequiredFieldError reports a mandatory field absent after successful
// extraction. Only id and title are mandatory; everything else has a
// fallback.
type RequiredFieldError struct {
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("video: required field %q missing", e.Field)
}
