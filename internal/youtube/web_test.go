package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchPageTmpl = `<!DOCTYPE html><html><head><title>Fallback Title - YouTube</title></head><body>
<script>var ytInitialPlayerResponse = {"playabilityStatus":{"status":"OK"},
"videoDetails":{"videoId":"abcdefghijk","title":%q,"lengthSeconds":"42","author":"Chan","shortDescription":"desc"},
"microformat":{"playerMicroformatRenderer":{"uploadDate":"2024-03-05T01:02:03-08:00"}},
"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[
 {"baseUrl":"%s/api/timedtext?v=abcdefghijk&lang=ko&kind=asr","name":{"simpleText":"Korean (auto-generated)"},"languageCode":"ko","kind":"asr"},
 {"baseUrl":"%s/api/timedtext?v=abcdefghijk&lang=ko","name":{"runs":[{"text":"Korean"}]},"languageCode":"ko"},
 {"baseUrl":"%s/api/timedtext?v=abcdefghijk&lang=en&exp=xpe","name":{"simpleText":"English"},"languageCode":"en"}
]}}};var meta = {};</script></body></html>`

func newWatchServer(t *testing.T, title string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			fmt.Fprintf(w, watchPageTmpl, title, srv.URL, srv.URL, srv.URL)
		case "/api/timedtext":
			assert.Equal(t, "vtt", r.URL.Query().Get("fmt"))
			fmt.Fprintf(w, "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nkind=%s\n", r.URL.Query().Get("kind"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestWeb(srv *httptest.Server) *Web {
	w := NewWeb(NewClient(time.Second))
	w.Client.Retry = fastRetry
	w.BaseURL = srv.URL
	return w
}

func TestWebFetch_PrefersManualTrack(t *testing.T) {
	w := newTestWeb(newWatchServer(t, "Real Title"))

	res, err := w.Fetch(context.Background(), "https://youtu.be/abcdefghijk", FetchOptions{Language: "ko", AutoGenerated: true})
	require.NoError(t, err)

	assert.Equal(t, "ko", res.Language)
	assert.Contains(t, res.Captions, "kind=\n")
	assert.Nil(t, res.PinnedComment)
	assert.Equal(t, VideoInfo{
		VideoID:        "abcdefghijk",
		Title:          "Real Title",
		Duration:       42,
		DurationString: "00:42",
		VideoType:      "shorts",
		Uploader:       "Chan",
		UploadDate:     "20240305",
		Description:    "desc",
	}, res.Info)
}

func TestWebFetch_TitleFallback(t *testing.T) {
	w := newTestWeb(newWatchServer(t, ""))

	res, err := w.Fetch(context.Background(), "abcdefghijk", FetchOptions{Language: "ko"})
	require.NoError(t, err)
	assert.Equal(t, "Fallback Title", res.Info.Title)
}

func TestWebFetch_SkipsPoTokenTrack(t *testing.T) {
	w := newTestWeb(newWatchServer(t, "T"))

	res, err := w.Fetch(context.Background(), "abcdefghijk", FetchOptions{Language: "en", AutoGenerated: true})
	require.NoError(t, err)
	assert.Empty(t, res.Captions)
}

func TestWebFetch_TooManyRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><div class="g-recaptcha"></div></html>`)
	}))
	defer srv.Close()

	_, err := newTestWeb(srv).Fetch(context.Background(), "abcdefghijk", FetchOptions{Language: "en"})
	assert.ErrorIs(t, err, ErrTooManyRequests)
}

func TestWebFetch_Unplayable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>var ytInitialPlayerResponse = {"playabilityStatus":{"status":"ERROR","reason":"Video unavailable"}};</script>`)
	}))
	defer srv.Close()

	_, err := newTestWeb(srv).Fetch(context.Background(), "abcdefghijk", FetchOptions{Language: "en"})
	assert.ErrorIs(t, err, ErrVideoUnavailable)
}

func TestWebListSubtitles(t *testing.T) {
	w := newTestWeb(newWatchServer(t, "T"))

	list, err := w.ListSubtitles(context.Background(), "abcdefghijk")
	require.NoError(t, err)
	require.Len(t, list.Manual, 2)
	require.Len(t, list.Automatic, 1)
	assert.Equal(t, "Korean", list.Manual[0].Name)
	assert.Equal(t, "Korean (auto-generated)", list.Automatic[0].Name)
}

func TestPickTrack(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "en", Kind: "asr", BaseURL: "a"},
		{LanguageCode: "en", BaseURL: "b"},
		{LanguageCode: "fr", Kind: "asr", BaseURL: "c"},
	}

	got, ok := pickTrack(tracks, "en-GB", true)
	require.True(t, ok)
	assert.Equal(t, "b", got.BaseURL)

	got, ok = pickTrack(tracks, "fr", true)
	require.True(t, ok)
	assert.Equal(t, "c", got.BaseURL)

	_, ok = pickTrack(tracks, "fr", false)
	assert.False(t, ok)
}
