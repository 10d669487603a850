package engine

import "testing"

func TestParseIntAggressive(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"plain", "42", 42},
		{"thousands separator", "1,204 videos", 1204},
		{"dot separator", "3.405.120 views", 3405120},
		{"surrounding text", "viewed 87 times", 87},
		{"no digits", "no views yet", -1},
		{"empty", "", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseIntAggressive(tt.in, -1); got != tt.want {
				t.Errorf("ParseIntAggressive(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"mm:ss", "04:20", 260},
		{"single digit minute", "3:05", 185},
		{"h:mm:ss", "1:02:03", 3723},
		{"long hours", "11:00:00", 39600},
		{"whitespace padded", " 10:01 ", 601},
		{"seconds overflow", "01:75", -1},
		{"minutes overflow", "1:99:00", -1},
		{"not a timestamp", "LIVE", -1},
		{"empty", "", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTimestamp(tt.in, -1); got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCollapseSpace(t *testing.T) {
	got := CollapseSpace("  My\n\tPlaylist   Title ")
	if got != "My Playlist Title" {
		t.Errorf("CollapseSpace() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abcd" {
		t.Errorf("Truncate() = %q, want %q", got, "abcd")
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate() = %q, want %q", got, "abc")
	}
}
