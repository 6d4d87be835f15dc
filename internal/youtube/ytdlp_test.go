package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ytdlpInfoJSON = `{
  "id": "dQw4w9WgXcQ",
  "title": "Never Gonna",
  "duration": 212.4,
  "uploader": "Rick",
  "upload_date": "20091025",
  "description": "Official video",
  "comments": [
    {"author": "@fan", "text": "first", "is_pinned": false},
    {"author": "@Rick", "text": "pinned <b>hello</b>", "is_pinned": true}
  ],
  "requested_subtitles": {"%s": {"url": "%s/sub?lang=%s", "ext": "vtt"}},
  "subtitles": {"en": [{"ext": "vtt", "url": "x", "name": "English"}, {"ext": "srv3", "url": "y"}]},
  "automatic_captions": {"ko": [{"ext": "vtt", "url": "z", "name": "Korean (auto)"}], "de": [{"ext": "vtt", "url": "w"}]}
}`

func newTestYtDlp(t *testing.T, lang string) (*YtDlp, *[]string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\n%s\n", r.URL.Query().Get("lang"))
	}))
	t.Cleanup(srv.Close)

	var gotArgs []string
	y := NewYtDlp("yt-dlp", NewClient(time.Second))
	y.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(fmt.Sprintf(ytdlpInfoJSON, lang, srv.URL, lang)), nil
	}
	return y, &gotArgs
}

func TestYtDlpFetch(t *testing.T) {
	y, args := newTestYtDlp(t, "en")

	res, err := y.Fetch(context.Background(), "dQw4w9WgXcQ", FetchOptions{Language: "en", AutoGenerated: true})
	require.NoError(t, err)

	assert.Equal(t, VideoInfo{
		VideoID:        "dQw4w9WgXcQ",
		Title:          "Never Gonna",
		Duration:       212,
		DurationString: "03:32",
		VideoType:      "watch",
		Uploader:       "Rick",
		UploadDate:     "20091025",
		Description:    "Official video",
	}, res.Info)

	require.NotNil(t, res.PinnedComment)
	assert.Equal(t, "@Rick", res.PinnedComment.Author)
	assert.Equal(t, "pinned <b>hello</b>", res.PinnedComment.Text)

	assert.Equal(t, "en", res.Language)
	assert.Contains(t, res.Captions, "WEBVTT")

	assert.Contains(t, *args, "--write-auto-subs")
	assert.Contains(t, *args, "--write-comments")
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", (*args)[len(*args)-1])
}

func TestYtDlpFetch_BaseLanguageFallback(t *testing.T) {
	y, args := newTestYtDlp(t, "en")

	res, err := y.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ", FetchOptions{Language: "en-US"})
	require.NoError(t, err)
	assert.Equal(t, "en", res.Language)
	assert.NotContains(t, *args, "--write-auto-subs")
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", (*args)[len(*args)-1])
}

func TestYtDlpFetch_NoCaptions(t *testing.T) {
	y, _ := newTestYtDlp(t, "ja")

	res, err := y.Fetch(context.Background(), "dQw4w9WgXcQ", FetchOptions{Language: "ko"})
	require.NoError(t, err)
	assert.Empty(t, res.Captions)
	assert.Equal(t, "Never Gonna", res.Info.Title)
}

func TestYtDlpFetch_Errors(t *testing.T) {
	y := NewYtDlp("yt-dlp", nil)

	_, err := y.Fetch(context.Background(), "not a video", FetchOptions{Language: "ko"})
	assert.ErrorIs(t, err, ErrInvalidVideoID)

	y.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("ERROR: [youtube] dQw4w9WgXcQ: Video unavailable")
	}
	_, err = y.Fetch(context.Background(), "dQw4w9WgXcQ", FetchOptions{Language: "ko"})
	assert.ErrorIs(t, err, ErrVideoUnavailable)

	y.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, fmt.Errorf("yt-dlp failed: %w", exec.ErrNotFound)
	}
	_, err = y.Fetch(context.Background(), "dQw4w9WgXcQ", FetchOptions{Language: "ko"})
	assert.ErrorIs(t, err, ErrExtractorMissing)
}

func TestYtDlpListSubtitles(t *testing.T) {
	y, _ := newTestYtDlp(t, "en")

	list, err := y.ListSubtitles(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, []SubtitleTrack{{Lang: "en", Name: "English", Formats: []string{"vtt", "srv3"}}}, list.Manual)
	require.Len(t, list.Automatic, 2)
	assert.Equal(t, "de", list.Automatic[0].Lang)
	assert.Equal(t, "Korean (auto)", list.Automatic[1].Name)
}

func TestYtDlpInfo_Defaults(t *testing.T) {
	info := &ytdlpInfo{Duration: 45}
	vi := info.videoInfo("https://www.youtube.com/watch?v=abcdefghijk", "abcdefghijk")
	assert.Equal(t, "Unknown", vi.Title)
	assert.Equal(t, "shorts", vi.VideoType)
	assert.Equal(t, "No description", vi.Description)
	assert.Nil(t, info.pinnedComment())
}
