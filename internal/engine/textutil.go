package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// User-Agent strings used across HTTP clients.
const (
	UserAgentBot    = "go-ytmeta/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

var nonDigitRe = regexp.MustCompile(`[^0-9]`)

// ParseIntAggressive strips every non-digit rune from s and parses the rest
// as a base-10 integer. Meant for display strings like "1,204 videos" or
// "3.405.120 views" that are known to contain exactly one number.
// Returns def when nothing parseable remains.
func ParseIntAggressive(s string, def int) int {
	digits := nonDigitRe.ReplaceAllString(s, "")
	if digits == "" {
		return def
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return def
	}
	return n
}

// ParseInt parses a plain base-10 integer, returning def on any failure.
func ParseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

var timestampRe = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{2})$`)

// ParseTimestamp converts a "h+:mm:ss" or "mm:ss" display timestamp to
// seconds. Returns def for anything that does not look like a timestamp,
// including minute or second fields above 59.
func ParseTimestamp(s string, def int) int {
	m := timestampRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return def
	}

	h := ParseInt(m[1], 0)
	min := ParseInt(m[2], 0)
	sec := ParseInt(m[3], 0)
	if min > 59 || sec > 59 {
		return def
	}
	return h*3600 + min*60 + sec
}

// Truncate returns the first n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// CollapseSpace trims s and collapses internal whitespace runs to single
// spaces. Display strings scraped from markup often carry layout newlines.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
