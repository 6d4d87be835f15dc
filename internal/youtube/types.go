package youtube

import (
	"context"
	"fmt"
)

// VideoInfo is the metadata record of a single video.
type VideoInfo struct {
	VideoID        string `json:"video_id"`
	Title          string `json:"title"`
	Duration       int    `json:"duration"`
	DurationString string `json:"duration_string"`
	VideoType      string `json:"video_type"`
	Uploader       string `json:"uploader"`
	UploadDate     string `json:"upload_date"`
	Description    string `json:"description"`
}

// PinnedComment is the comment pinned by the channel owner.
type PinnedComment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// FetchResult bundles everything retrieved for one video. Captions is empty
// when no track matched the requested language.
type FetchResult struct {
	Info          VideoInfo      `json:"video_info"`
	PinnedComment *PinnedComment `json:"pinned_comment"`
	Captions      string         `json:"captions"`
	Language      string         `json:"language"`
}

// SubtitleTrack describes one downloadable caption track.
type SubtitleTrack struct {
	Lang    string   `json:"lang"`
	Name    string   `json:"name"`
	Formats []string `json:"formats"`
}

// SubtitleList groups the tracks of a video by origin.
type SubtitleList struct {
	Manual    []SubtitleTrack `json:"manual"`
	Automatic []SubtitleTrack `json:"automatic"`
}

// FetchOptions selects the caption track.
type FetchOptions struct {
	Language      string
	AutoGenerated bool
}

// Fetcher retrieves video metadata and captions.
type Fetcher interface {
	Fetch(ctx context.Context, ref string, opts FetchOptions) (*FetchResult, error)
	ListSubtitles(ctx context.Context, ref string) (*SubtitleList, error)
}

// FormatDuration renders seconds as MM:SS, minutes unbounded.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// classifyVideo returns "shorts" for shorts URLs and clips of a minute or
// less, "watch" otherwise.
func classifyVideo(ref string, seconds int) string {
	if IsShortsURL(ref) || seconds <= 60 {
		return "shorts"
	}
	return "watch"
}

func newVideoInfo(ref, id string, seconds int) VideoInfo {
	return VideoInfo{
		VideoID:        id,
		Title:          "Unknown",
		Duration:       seconds,
		DurationString: FormatDuration(seconds),
		VideoType:      classifyVideo(ref, seconds),
		Uploader:       "Unknown",
		UploadDate:     "Unknown",
	}
}
