package config

import "strings"

// CJK language codes (first 3 chars of the code).
var cjkCodes = map[string]bool{
	"zho": true,
	"jpn": true,
	"kor": true,
	"chi": true,
	"zh":  true,
	"ja":  true,
	"ko":  true,
}

// IsCJK returns true if the language code represents Chinese, Japanese, or Korean.
func IsCJK(langCode string) bool {
	base := BaseLanguage(langCode)
	if len(base) > 3 {
		base = base[:3]
	}
	return cjkCodes[base]
}

// BaseLanguage strips the region or script suffix: "ko-KR" -> "ko", "zh_Hans" -> "zh".
func BaseLanguage(langCode string) string {
	code := strings.ToLower(strings.TrimSpace(langCode))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	return code
}

// LanguageCandidates returns the caption track keys worth trying for a
// requested language, most specific first.
func LanguageCandidates(langCode string) []string {
	code := strings.TrimSpace(langCode)
	if code == "" {
		return nil
	}
	out := []string{code}
	if base := BaseLanguage(code); base != code {
		out = append(out, base)
	}
	return out
}
