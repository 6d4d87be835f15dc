package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/way-po-int/subtitle-extractor/internal/config"

	"golang.org/x/net/html"
)

const defaultBaseURL = "https://www.youtube.com"

var playerResponseMarker = regexp.MustCompile(`ytInitialPlayerResponse\s*=\s*`)

// Web scrapes the watch page for metadata and caption tracks. It needs no
// external binary but cannot see comments, so PinnedComment is always nil.
type Web struct {
	Client  *Client
	BaseURL string
}

// NewWeb returns a Web fetcher using client, or a default client when nil.
func NewWeb(client *Client) *Web {
	if client == nil {
		client = NewClient(0)
	}
	return &Web{Client: client, BaseURL: defaultBaseURL}
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		VideoID          string `json:"videoId"`
		Title            string `json:"title"`
		LengthSeconds    string `json:"lengthSeconds"`
		Author           string `json:"author"`
		ShortDescription string `json:"shortDescription"`
	} `json:"videoDetails"`
	Microformat struct {
		Renderer struct {
			UploadDate  string `json:"uploadDate"`
			PublishDate string `json:"publishDate"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL string `json:"baseUrl"`
	Name    struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

func (t captionTrack) auto() bool {
	return t.Kind == "asr"
}

func (t captionTrack) displayName() string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	var parts []string
	for _, r := range t.Name.Runs {
		parts = append(parts, r.Text)
	}
	if len(parts) == 0 {
		return t.LanguageCode
	}
	return strings.Join(parts, "")
}

// needsPoToken reports tracks whose URL only works with a proof-of-origin token.
func (t captionTrack) needsPoToken() bool {
	return strings.Contains(t.BaseURL, "exp=xpe")
}

func (w *Web) page(ctx context.Context, id string) ([]byte, *playerResponse, error) {
	base := w.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	body, err := w.Client.Get(ctx, base+"/watch?v="+id)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch watch page: %w", err)
	}

	pr, err := parsePlayerResponse(body)
	if err != nil {
		return nil, nil, err
	}
	switch pr.PlayabilityStatus.Status {
	case "", "OK":
	default:
		return nil, nil, fmt.Errorf("%w: %s %s", ErrVideoUnavailable, pr.PlayabilityStatus.Status, pr.PlayabilityStatus.Reason)
	}
	return body, pr, nil
}

func parsePlayerResponse(page []byte) (*playerResponse, error) {
	loc := playerResponseMarker.FindIndex(page)
	if loc == nil {
		if bytes.Contains(page, []byte(`class="g-recaptcha"`)) {
			return nil, ErrTooManyRequests
		}
		return nil, fmt.Errorf("%w: player response not found", ErrVideoUnavailable)
	}

	var pr playerResponse
	dec := json.NewDecoder(bytes.NewReader(page[loc[1]:]))
	if err := dec.Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}
	return &pr, nil
}

// extractTitle returns the text of the first <title> element.
func extractTitle(page []byte) string {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return ""
	}

	var title string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = n.FirstChild.Data
				return
			}
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			f(c)
		}
	}

	f(doc)
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(title), "- YouTube"))
}

func (pr *playerResponse) videoInfo(ref, id string, page []byte) VideoInfo {
	seconds, _ := strconv.Atoi(pr.VideoDetails.LengthSeconds)
	vi := newVideoInfo(ref, id, seconds)

	if pr.VideoDetails.VideoID != "" {
		vi.VideoID = pr.VideoDetails.VideoID
	}
	if pr.VideoDetails.Title != "" {
		vi.Title = pr.VideoDetails.Title
	} else if t := extractTitle(page); t != "" {
		vi.Title = t
	}
	if pr.VideoDetails.Author != "" {
		vi.Uploader = pr.VideoDetails.Author
	}

	date := pr.Microformat.Renderer.UploadDate
	if date == "" {
		date = pr.Microformat.Renderer.PublishDate
	}
	if len(date) >= 10 {
		vi.UploadDate = strings.ReplaceAll(date[:10], "-", "")
	}

	vi.Description = pr.VideoDetails.ShortDescription
	if vi.Description == "" {
		vi.Description = "No description"
	}
	return vi
}

// pickTrack prefers manual tracks over automatic ones and the exact language
// over its base language.
func pickTrack(tracks []captionTrack, lang string, allowAuto bool) (captionTrack, bool) {
	candidates := config.LanguageCandidates(lang)
	passes := []bool{false}
	if allowAuto {
		passes = append(passes, true)
	}

	for _, auto := range passes {
		for _, code := range candidates {
			for _, t := range tracks {
				if t.auto() != auto || t.needsPoToken() {
					continue
				}
				if strings.EqualFold(t.LanguageCode, code) {
					return t, true
				}
			}
		}
	}
	return captionTrack{}, false
}

// Fetch retrieves metadata from the watch page and downloads the best
// matching caption track as WebVTT.
func (w *Web) Fetch(ctx context.Context, ref string, opts FetchOptions) (*FetchResult, error) {
	id, err := ExtractVideoID(ref)
	if err != nil {
		return nil, err
	}

	page, pr, err := w.page(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", id, err)
	}

	result := &FetchResult{Info: pr.videoInfo(ref, id, page)}

	track, ok := pickTrack(pr.Captions.Renderer.CaptionTracks, opts.Language, opts.AutoGenerated)
	if !ok {
		return result, nil
	}

	body, err := w.Client.Get(ctx, vttURL(track.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("download %s captions for %s: %w", track.LanguageCode, id, err)
	}
	result.Captions = string(body)
	result.Language = track.LanguageCode
	return result, nil
}

func vttURL(base string) string {
	if strings.Contains(base, "?") {
		return base + "&fmt=vtt"
	}
	return base + "?fmt=vtt"
}

// ListSubtitles returns the caption tracks advertised by the watch page.
func (w *Web) ListSubtitles(ctx context.Context, ref string) (*SubtitleList, error) {
	id, err := ExtractVideoID(ref)
	if err != nil {
		return nil, err
	}

	_, pr, err := w.page(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", id, err)
	}

	list := &SubtitleList{Manual: []SubtitleTrack{}, Automatic: []SubtitleTrack{}}
	for _, t := range pr.Captions.Renderer.CaptionTracks {
		st := SubtitleTrack{Lang: t.LanguageCode, Name: t.displayName(), Formats: []string{"vtt", "srv3", "json3"}}
		if t.auto() {
			list.Automatic = append(list.Automatic, st)
		} else {
			list.Manual = append(list.Manual, st)
		}
	}
	return list, nil
}
