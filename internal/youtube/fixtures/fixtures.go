package fixtures

import (
	"context"

	"github.com/way-po-int/subtitle-extractor/internal/youtube"

	"github.com/stretchr/testify/mock"
)

// MockFetcher implements youtube.Fetcher for testing.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, ref string, opts youtube.FetchOptions) (*youtube.FetchResult, error) {
	args := m.Called(ctx, ref, opts)
	res, _ := args.Get(0).(*youtube.FetchResult)
	return res, args.Error(1)
}

func (m *MockFetcher) ListSubtitles(ctx context.Context, ref string) (*youtube.SubtitleList, error) {
	args := m.Called(ctx, ref)
	list, _ := args.Get(0).(*youtube.SubtitleList)
	return list, args.Error(1)
}

// SampleVTT is a short rolling auto-caption track.
const SampleVTT = `WEBVTT
Kind: captions
Language: en

00:00:00.000 --> 00:00:02.000 align:start position:0%
hello<00:00:00.500><c> world</c>

00:00:02.000 --> 00:00:04.000 align:start position:0%
hello world
there<00:00:03.000><c> you</c><00:00:03.500><c> are</c>
`

// SampleResult returns a FetchResult for video id carrying SampleVTT.
func SampleResult(id string) *youtube.FetchResult {
	return &youtube.FetchResult{
		Info: youtube.VideoInfo{
			VideoID:        id,
			Title:          "Test Video: part 1/2",
			Duration:       125,
			DurationString: "02:05",
			VideoType:      "watch",
			Uploader:       "Test Channel",
			UploadDate:     "20240115",
			Description:    "Links https://example.com (sponsored) 🎉\n\nThanks for watching",
		},
		PinnedComment: &youtube.PinnedComment{Author: "@owner", Text: "<b>Pinned</b> note 😀"},
		Captions:      SampleVTT,
		Language:      "en",
	}
}
