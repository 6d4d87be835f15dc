package youtube

import (
	"regexp"
	"strings"
)

var (
	videoURLPattern = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|embed/|v/|shorts/|live/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	videoIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID returns the 11-character video ID from a watch, short,
// embed or youtu.be URL, or from a bare ID.
func ExtractVideoID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if m := videoURLPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if videoIDPattern.MatchString(ref) {
		return ref, nil
	}
	return "", ErrInvalidVideoID
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// IsShortsURL reports whether ref points at the shorts player.
func IsShortsURL(ref string) bool {
	return strings.Contains(strings.ToLower(ref), "shorts")
}
