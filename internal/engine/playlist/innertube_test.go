package playlist

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func videoRendererJSON(id, title, owner string, lengthSeconds int) string {
	return fmt.Sprintf(`{"playlistVideoRenderer": {
		"videoId": %q,
		"title": {"runs": [{"text": %q}]},
		"shortBylineText": {"runs": [{"text": %q, "navigationEndpoint": {"browseEndpoint": {"canonicalBaseUrl": "/@%s"}}}]},
		"lengthSeconds": "%d"
	}}`, id, title, owner, owner, lengthSeconds)
}

func continuationRendererJSON(token string) string {
	return fmt.Sprintf(`{"continuationItemRenderer": {"continuationEndpoint": {"continuationCommand": {"token": %q}}}}`, token)
}

// modernPageHTML embeds a ytInitialData blob carrying a playlist header
// and the given content entries.
func modernPageHTML(entries []string, marker string) []byte {
	blob := fmt.Sprintf(`{
		"header": {"playlistHeaderRenderer": {
			"playlistId": "PLMODERN",
			"title": {"simpleText": "Modern Playlist"},
			"numVideosText": {"runs": [{"text": "42 videos"}]},
			"viewCountText": {"simpleText": "9,000 views"},
			"descriptionText": {"simpleText": "Modern page."},
			"ownerText": {"runs": [{"text": "Modern Channel", "navigationEndpoint": {"browseEndpoint": {"canonicalBaseUrl": "/@modern"}}}]},
			"playlistHeaderBanner": {"heroPlaylistThumbnailRenderer": {"thumbnail": {"thumbnails": [
				{"url": "https://i.ytimg.com/small.jpg"},
				{"url": "https://i.ytimg.com/large.jpg"}
			]}}}
		}},
		"contents": {"twoColumnBrowseResultsRenderer": {"tabs": [{"tabRenderer": {"content":
			{"sectionListRenderer": {"contents": [{"itemSectionRenderer": {"contents":
				[{"playlistVideoListRenderer": {"contents": [%s]}}]
			}}]}}
		}}]}}
	}`, strings.Join(entries, ","))
	return []byte(`<!DOCTYPE html><html><head><script>` + marker + blob + `;</script></head><body></body></html>`)
}

func TestDecodeInitialDataModernPage(t *testing.T) {
	raw := modernPageHTML([]string{
		videoRendererJSON("m1", "Modern One", "chan1", 61),
		videoRendererJSON("m2", "Modern Two", "chan2", 122),
		continuationRendererJSON("BROWSETOK1"),
	}, "var ytInitialData = ")

	pg, err := decodeInitial(raw)
	require.NoError(t, err)

	require.NotNil(t, pg.header)
	assert.Equal(t, "Modern Playlist", pg.header.title)
	assert.Equal(t, "Modern page.", pg.header.description)
	assert.Equal(t, 42, pg.header.length)
	assert.Equal(t, 9000, pg.header.views)
	assert.Equal(t, "Modern Channel", pg.header.uploader.Name)
	assert.Equal(t, "https://www.youtube.com/@modern", pg.header.uploader.URL)
	assert.Equal(t, "https://i.ytimg.com/large.jpg", pg.header.thumbnail)

	require.Len(t, pg.items, 2)
	assert.Equal(t, []string{"m1", "m2"}, itemIDs(pg.items))
	assert.Equal(t, "Modern One", pg.items[0].Title)
	assert.Equal(t, "chan1", pg.items[0].Uploader.Name)
	assert.Equal(t, "https://www.youtube.com/@chan1", pg.items[0].Uploader.URL)
	require.NotNil(t, pg.items[0].LengthSeconds)
	assert.Equal(t, 61, *pg.items[0].LengthSeconds)

	require.NotNil(t, pg.next)
	assert.Equal(t, continuationBrowse, pg.next.kind)
	assert.Equal(t, "BROWSETOK1", pg.next.value)
}

func TestDecodeInitialDataWindowMarker(t *testing.T) {
	raw := modernPageHTML([]string{
		videoRendererJSON("m1", "Modern One", "chan1", 61),
	}, `window["ytInitialData"] = `)

	pg, err := decodeInitial(raw)
	require.NoError(t, err)
	assert.Len(t, pg.items, 1)
}

func TestDecodeBrowseContinuation(t *testing.T) {
	raw := []byte(fmt.Sprintf(`{"onResponseReceivedActions": [{"appendContinuationItemsAction": {"continuationItems": [%s, %s, %s]}}]}`,
		videoRendererJSON("m3", "Modern Three", "chan3", 183),
		videoRendererJSON("m4", "Modern Four", "chan4", 244),
		continuationRendererJSON("BROWSETOK2"),
	))

	pg, err := decodeBrowseContinuation(raw)
	require.NoError(t, err)

	assert.Nil(t, pg.header)
	assert.Equal(t, []string{"m3", "m4"}, itemIDs(pg.items))
	require.NotNil(t, pg.next)
	assert.Equal(t, "BROWSETOK2", pg.next.value)
}

func TestDecodeBrowseContinuationInvalid(t *testing.T) {
	_, err := decodeBrowseContinuation([]byte(`<html>error page</html>`))
	require.Error(t, err)
}

func TestWalkSkipsMalformedRenderer(t *testing.T) {
	raw := []byte(fmt.Sprintf(`{"continuationItems": [
		{"playlistVideoRenderer": {"title": {"runs": [{"text": "no id"}]}}},
		%s
	]}`, videoRendererJSON("ok1", "Fine", "chan", 10)))

	pg, err := decodeBrowseContinuation(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok1"}, itemIDs(pg.items))
	require.Len(t, pg.warnings, 1)
	assert.Contains(t, pg.warnings[0], "skipped")
}

func TestContinuationRequestLegacy(t *testing.T) {
	c := &continuation{kind: continuationLegacy, value: "/browse_ajax?continuation=CTOK1"}
	req, err := c.request("https://www.youtube.com")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/browse_ajax?continuation=CTOK1", req.URL)
	assert.Nil(t, req.Body, "legacy continuations are fetched with GET")
	assert.Equal(t, "application/json", req.Accept)
}

func TestContinuationRequestBrowse(t *testing.T) {
	c := &continuation{kind: continuationBrowse, value: "BROWSETOK1"}
	req, err := c.request("https://www.youtube.com")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/youtubei/v1/browse?prettyPrint=false", req.URL)
	require.NotNil(t, req.Body, "browse continuations POST the token")

	var body browseRequest
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "BROWSETOK1", body.Continuation)
	assert.Equal(t, ytWebName, body.Context.Client.ClientName)
}

func TestTextValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple text", `{"simpleText": "hello"}`, "hello"},
		{"runs joined", `{"runs": [{"text": "a"}, {"text": "b"}]}`, "ab"},
		{"simple text preferred", `{"simpleText": "s", "runs": [{"text": "r"}]}`, "s"},
		{"empty", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v text
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, tt.want, v.value())
		})
	}
}
