package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/way-po-int/subtitle-extractor/internal/config"
	"github.com/way-po-int/subtitle-extractor/internal/pipeline"
	"github.com/way-po-int/subtitle-extractor/internal/youtube"
)

const maxFilenameRunes = 200

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// Report is the JSON document written per video.
type Report struct {
	VideoInfo     youtube.VideoInfo      `json:"video_info"`
	PinnedComment *youtube.PinnedComment `json:"pinned_comment"`
	Transcript    *string                `json:"transcript"`
}

// Stats summarizes a written transcript.
type Stats struct {
	Lines int
	Chars int
	// Words counts whitespace-separated words, or non-space characters for
	// CJK languages where words are not space-delimited.
	Words int
}

// sanitizeFilename removes characters that are invalid in file names,
// collapses whitespace and caps the length.
func sanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxFilenameRunes {
		name = string([]rune(name)[:maxFilenameRunes])
	}
	return name
}

func metadataHeader(info youtube.VideoInfo) string {
	rule := strings.Repeat("=", 80)
	lines := []string{
		rule,
		"YouTube video info",
		rule,
		"Type: " + strings.ToUpper(info.VideoType),
		"ID: " + info.VideoID,
		"Title: " + info.Title,
		fmt.Sprintf("Duration: %s (%ds)", info.DurationString, info.Duration),
		"Channel: " + info.Uploader,
		"Upload date: " + info.UploadDate,
		rule,
		"",
	}
	return strings.Join(lines, "\n")
}

func computeStats(text, lang string) Stats {
	s := Stats{
		Lines: len(strings.Split(strings.TrimSpace(text), "\n")),
		Chars: utf8.RuneCountInString(text),
	}
	if config.IsCJK(lang) {
		for _, f := range strings.Fields(text) {
			s.Words += utf8.RuneCountInString(f)
		}
	} else {
		s.Words = len(strings.Fields(text))
	}
	return s
}

// newReport builds the JSON report with description and comment text cleaned.
func newReport(res *youtube.FetchResult, transcript string) Report {
	r := Report{VideoInfo: res.Info}
	if r.VideoInfo.Description != "" {
		r.VideoInfo.Description = pipeline.CleanText(r.VideoInfo.Description, pipeline.ProfileFull)
	}
	if res.PinnedComment != nil {
		pc := *res.PinnedComment
		if pc.Text != "" {
			pc.Text = pipeline.CleanText(pc.Text, pipeline.ProfileFull)
		}
		r.PinnedComment = &pc
	}
	if transcript != "" {
		r.Transcript = &transcript
	}
	return r
}

func textPath(opts Options, info youtube.VideoInfo) string {
	if opts.OutputPath != "" && len(opts.Refs) == 1 {
		return opts.OutputPath
	}
	name := sanitizeFilename(info.Title)
	if name == "" {
		name = info.VideoID
	}
	return filepath.Join(opts.OutputDir, name+".txt")
}

func jsonPath(opts Options, videoID string) string {
	return filepath.Join(opts.OutputDir, videoID, "scrap_result.json")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}

func saveJSON(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return err
	}
	return writeFile(path, data)
}
