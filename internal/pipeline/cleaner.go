package pipeline

import (
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
)

var (
	tagPattern         = regexp.MustCompile(`<[^>]*>`)
	urlPattern         = regexp.MustCompile(`https?://\S+`)
	parenPattern       = regexp.MustCompile(`\([^)]*\)`)
	horizontalSpace    = regexp.MustCompile(`[^\S\n]+`)
	spaceAroundNewline = regexp.MustCompile(` ?\n ?`)
	blankLineRun       = regexp.MustCompile(`\n{3,}`)

	emojiPattern = regexp.MustCompile(`[\x{1F300}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}` +
		`\x{1F000}-\x{1F02F}\x{1F0A0}-\x{1F0FF}\x{1F100}-\x{1F64F}\x{1F680}-\x{1F6FF}` +
		`\x{1F910}-\x{1F96B}\x{1F980}-\x{1F9E0}]`)
)

// rule is one text transform of the cleaner. Rules run in slice order.
type rule func(string) string

func remove(re *regexp.Regexp) rule {
	return func(s string) string { return re.ReplaceAllString(s, "") }
}

func removeEmoji(s string) string {
	s = emojiPattern.ReplaceAllString(s, "")
	if gomoji.ContainsEmoji(s) {
		s = gomoji.RemoveEmojis(s)
	}
	return s
}

// normalizeSpace collapses runs of horizontal whitespace, keeps at most one
// blank line between paragraphs and trims the result.
func normalizeSpace(s string) string {
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = spaceAroundNewline.ReplaceAllString(s, "\n")
	s = blankLineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

var profileRules = map[Profile][]rule{
	ProfileFull: {
		remove(tagPattern),
		remove(urlPattern),
		remove(parenPattern),
		removeEmoji,
		normalizeSpace,
	},
	ProfileMinimal: {
		remove(tagPattern),
		removeEmoji,
		strings.TrimSpace,
	},
}

// CleanText scrubs text with the rules of the given profile. An empty or
// unknown profile falls back to ProfileFull.
func CleanText(text string, profile Profile) string {
	rules, ok := profileRules[profile]
	if !ok {
		rules = profileRules[ProfileFull]
	}
	for _, r := range rules {
		text = r(text)
	}
	return text
}
