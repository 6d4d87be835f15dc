package youtube

import (
	"math/rand/v2"
	"net/http"
)

// Browser User-Agent strings for request spoofing.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
}

// RandomHeaders returns browser-like headers with a random User-Agent. The
// Accept-Language header follows lang so the watch page renders localized
// metadata.
func RandomHeaders(lang string) http.Header {
	h := make(http.Header)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])
	if lang == "" {
		lang = "en"
	}
	h.Set("Accept-Language", lang+",en;q=0.8")
	return h
}
