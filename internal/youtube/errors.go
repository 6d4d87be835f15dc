package youtube

// Error is a sentinel error returned by fetchers. Match with errors.Is.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidVideoID   = Error("invalid video ID")
	ErrNoCaptions       = Error("no captions available")
	ErrVideoUnavailable = Error("video unavailable")
	ErrTooManyRequests  = Error("too many requests")
	ErrExtractorMissing = Error("yt-dlp not found on PATH")
	ErrBodyTooLarge     = Error("response body too large")
)
