package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"

	"github.com/way-po-int/subtitle-extractor/internal/config"
)

// Runner executes an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s failed: %w\n%s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

// Available returns true if the yt-dlp binary is on the PATH.
func Available(path string) bool {
	if path == "" {
		path = "yt-dlp"
	}
	_, err := exec.LookPath(path)
	return err == nil
}

// YtDlp fetches metadata through the yt-dlp extractor and downloads the
// selected caption track over HTTP.
type YtDlp struct {
	Binary string
	Client *Client
	Run    Runner
}

// NewYtDlp returns a YtDlp fetcher. An empty binary means "yt-dlp" on PATH.
func NewYtDlp(binary string, client *Client) *YtDlp {
	if binary == "" {
		binary = "yt-dlp"
	}
	if client == nil {
		client = NewClient(0)
	}
	return &YtDlp{Binary: binary, Client: client, Run: execRunner}
}

// ytdlpInfo mirrors the parts of yt-dlp's info JSON we read.
type ytdlpInfo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Uploader    string  `json:"uploader"`
	UploadDate  string  `json:"upload_date"`
	Description *string `json:"description"`
	Comments    []struct {
		Author   string `json:"author"`
		Text     string `json:"text"`
		IsPinned bool   `json:"is_pinned"`
	} `json:"comments"`
	RequestedSubtitles map[string]struct {
		URL  string `json:"url"`
		Ext  string `json:"ext"`
		Name string `json:"name"`
	} `json:"requested_subtitles"`
	Subtitles         map[string][]ytdlpFormat `json:"subtitles"`
	AutomaticCaptions map[string][]ytdlpFormat `json:"automatic_captions"`
}

type ytdlpFormat struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

func (y *YtDlp) dump(ctx context.Context, url string, extra ...string) (*ytdlpInfo, error) {
	run := y.Run
	if run == nil {
		run = execRunner
	}

	args := append([]string{"--dump-single-json", "--skip-download", "--no-warnings"}, extra...)
	args = append(args, url)

	slog.Debug("running yt-dlp", "args", strings.Join(args, " "))
	out, err := run(ctx, y.Binary, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrExtractorMissing
		}
		if isUnavailable(err) {
			return nil, fmt.Errorf("%w: %v", ErrVideoUnavailable, err)
		}
		return nil, err
	}

	var info ytdlpInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("yt-dlp JSON parse error: %w", err)
	}
	return &info, nil
}

func isUnavailable(err error) bool {
	msg := err.Error()
	for _, s := range []string{"Video unavailable", "Private video", "This video has been removed", "is not a valid URL"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Fetch retrieves metadata, the pinned comment and the caption text in one
// extractor run.
func (y *YtDlp) Fetch(ctx context.Context, ref string, opts FetchOptions) (*FetchResult, error) {
	id, err := ExtractVideoID(ref)
	if err != nil {
		return nil, err
	}

	url := ref
	if !strings.Contains(ref, "/") {
		url = WatchURL(id)
	}

	args := []string{"--write-subs", "--sub-langs", opts.Language, "--sub-format", "vtt", "--write-comments"}
	if opts.AutoGenerated {
		args = append(args, "--write-auto-subs")
	}

	info, err := y.dump(ctx, url, args...)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", id, err)
	}

	result := &FetchResult{
		Info:          info.videoInfo(ref, id),
		PinnedComment: info.pinnedComment(),
	}

	for _, lang := range config.LanguageCandidates(opts.Language) {
		sub, ok := info.RequestedSubtitles[lang]
		if !ok || sub.URL == "" {
			continue
		}
		body, err := y.Client.Get(ctx, sub.URL)
		if err != nil {
			return nil, fmt.Errorf("download %s captions for %s: %w", lang, id, err)
		}
		result.Captions = string(body)
		result.Language = lang
		break
	}

	if result.Captions == "" {
		slog.Warn("no captions for language", "video", id, "lang", opts.Language)
	}
	return result, nil
}

// ListSubtitles returns the manual and automatic tracks yt-dlp can see.
func (y *YtDlp) ListSubtitles(ctx context.Context, ref string) (*SubtitleList, error) {
	id, err := ExtractVideoID(ref)
	if err != nil {
		return nil, err
	}

	info, err := y.dump(ctx, WatchURL(id))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", id, err)
	}

	return &SubtitleList{
		Manual:    tracksFrom(info.Subtitles),
		Automatic: tracksFrom(info.AutomaticCaptions),
	}, nil
}

func (info *ytdlpInfo) videoInfo(ref, id string) VideoInfo {
	seconds := int(info.Duration)
	vi := newVideoInfo(ref, id, seconds)
	if info.ID != "" {
		vi.VideoID = info.ID
	}
	if info.Title != "" {
		vi.Title = info.Title
	}
	if info.Uploader != "" {
		vi.Uploader = info.Uploader
	}
	if info.UploadDate != "" {
		vi.UploadDate = info.UploadDate
	}
	vi.Description = "No description"
	if info.Description != nil {
		vi.Description = *info.Description
	}
	return vi
}

func (info *ytdlpInfo) pinnedComment() *PinnedComment {
	for _, c := range info.Comments {
		if !c.IsPinned {
			continue
		}
		pc := &PinnedComment{Author: c.Author, Text: c.Text}
		if pc.Author == "" {
			pc.Author = "Unknown"
		}
		return pc
	}
	return nil
}

func tracksFrom(m map[string][]ytdlpFormat) []SubtitleTrack {
	tracks := make([]SubtitleTrack, 0, len(m))
	for lang, formats := range m {
		t := SubtitleTrack{Lang: lang, Name: lang}
		for _, f := range formats {
			if f.Name != "" {
				t.Name = f.Name
			}
			t.Formats = append(t.Formats, f.Ext)
		}
		tracks = append(tracks, t)
	}
	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].Lang < tracks[j].Lang
	})
	return tracks
}
