package pipeline

import (
	"regexp"
	"strings"
)

var cueStart = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}\.\d{3}) -->`)

var headerPrefixes = []string{"WEBVTT", "Kind:", "Language:"}

// SimplifyTimestamp converts "HH:MM:SS.mmm" to "MM:SS". Values that are not
// three colon-separated fields are returned unchanged.
func SimplifyTimestamp(ts string) string {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return ts
	}
	sec, _, _ := strings.Cut(parts[2], ".")
	return parts[1] + ":" + sec
}

func isHeader(line string) bool {
	for _, p := range headerPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// Parse splits WebVTT text into blocks. Every text line is cleaned with
// profile and replaces the text collected so far for its cue, so only the
// last line of a rolling cue survives.
func Parse(raw string, profile Profile) []Block {
	var (
		blocks []Block
		time   string
		text   string
	)

	flush := func() {
		if time != "" && text != "" {
			blocks = append(blocks, Block{Time: time, Text: text})
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isHeader(line) {
			continue
		}

		if m := cueStart.FindStringSubmatch(line); m != nil {
			flush()
			time = SimplifyTimestamp(m[1])
			text = ""
			continue
		}

		text = CleanText(line, profile)
	}
	flush()

	return blocks
}
