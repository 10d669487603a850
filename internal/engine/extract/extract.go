// Package extract locates and decodes JSON fragments embedded in larger
// non-JSON documents, such as configuration blobs assigned to script
// variables inside HTML pages. Marker search alone is not enough to bound
// the fragment, so object boundaries are found by brace matching.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
)

// Failure reasons.
const (
	ReasonMarkerNotFound = "marker-not-found"
	ReasonMalformedJSON  = "malformed-json"
)

// Error describes a failed extraction. Reason is one of the Reason*
// constants; Marker is the first marker whose object failed to decode,
// or the last marker tried when none matched at all.
type Error struct {
	Reason string
	Marker string
}

func (e *Error) Error() string {
	if e.Marker != "" {
		return fmt.Sprintf("extract: %s (marker %q)", e.Reason, e.Marker)
	}
	return "extract: " + e.Reason
}

// JSON returns the complete JSON object literal starting at b[0] == '{',
// found by tracking brace depth outside of string literals. Returns nil if
// b does not start with an object or the braces never balance.
func JSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// AfterMarker finds the first JSON object following any of the markers,
// tried in the given preference order, and unmarshals it into v. The
// object must start at the first '{' after the marker; trailing page text
// is ignored. A marker whose object fails to decode does not end the
// search; remaining candidates are still tried.
func AfterMarker(body []byte, v any, markers ...string) error {
	var firstErr *Error
	for _, marker := range markers {
		idx := bytes.Index(body, []byte(marker))
		if idx < 0 {
			continue
		}
		rest := body[idx+len(marker):]
		// Tolerate whitespace between marker and the object literal.
		rest = bytes.TrimLeft(rest, " \t\r\n")
		raw := JSON(rest)
		if raw == nil {
			if firstErr == nil {
				firstErr = &Error{Reason: ReasonMalformedJSON, Marker: marker}
			}
			continue
		}
		if err := json.Unmarshal(raw, v); err != nil {
			if firstErr == nil {
				firstErr = &Error{Reason: ReasonMalformedJSON, Marker: marker}
			}
			continue
		}
		return nil
	}
	if firstErr != nil {
		return firstErr
	}
	var last string
	if len(markers) > 0 {
		last = markers[len(markers)-1]
	}
	return &Error{Reason: ReasonMarkerNotFound, Marker: last}
}

// FromFormKey decodes a urlencoded key-value body, looks up key, and
// unmarshals its value as JSON into v. This is the locator strategy for
// responses that wrap a JSON document inside a flat form encoding.
// url.ParseQuery also undoes the percent and plus escaping, so the JSON
// text reaching the decoder is plain UTF-8.
func FromFormKey(body []byte, v any, key string) error {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return &Error{Reason: ReasonMalformedJSON, Marker: key}
	}
	raw := values.Get(key)
	if raw == "" {
		return &Error{Reason: ReasonMarkerNotFound, Marker: key}
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &Error{Reason: ReasonMalformedJSON, Marker: key}
	}
	return nil
}
