package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/way-po-int/subtitle-extractor/internal/pipeline"
	"github.com/way-po-int/subtitle-extractor/internal/youtube"
)

// Options configures the worker.
type Options struct {
	Refs     []string
	Fetcher  youtube.Fetcher
	Fetch    youtube.FetchOptions
	Pipeline pipeline.Options

	// OutputPath overrides the file name when a single video is processed.
	OutputPath string
	OutputDir  string
	NoSave     bool
	Raw        bool
	SaveJSON   bool
	Header     bool
	Stdout     io.Writer

	NoAsync         bool
	MaxConcurrent   int
	MaxRetries      int
	RateLimitPerMin int
}

// Result is the outcome for one video. Err is set, and wraps
// youtube.ErrNoCaptions, when the video had no usable captions.
type Result struct {
	Index    int
	Ref      string
	VideoID  string
	Title    string
	Path     string
	JSONPath string
	Stats    Stats
	Err      error
}

// Run fetches, normalizes and writes every video in opts.Refs. Videos
// without captions are reported in their Result and do not fail the batch.
func Run(ctx context.Context, opts Options) ([]Result, error) {
	if err := opts.Pipeline.Validate(); err != nil {
		return nil, err
	}
	if opts.Fetcher == nil {
		return nil, errors.New("worker: no fetcher configured")
	}
	if len(opts.Refs) == 0 {
		return nil, errors.New("worker: no videos given")
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	var (
		results []Result
		err     error
	)
	if !opts.NoAsync && !opts.NoSave && len(opts.Refs) > 1 {
		results, err = processConcurrent(ctx, opts)
	} else {
		results, err = processSequential(ctx, opts)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
	return results, err
}

// processVideo runs one video through fetch, normalization and output.
func processVideo(ctx context.Context, index int, ref string, opts Options) (Result, error) {
	result := Result{Index: index, Ref: ref}

	res, err := opts.Fetcher.Fetch(ctx, ref, opts.Fetch)
	if err != nil {
		return result, err
	}
	result.VideoID = res.Info.VideoID
	result.Title = res.Info.Title

	slog.Info("fetched video",
		"video", res.Info.VideoID,
		"title", res.Info.Title,
		"type", res.Info.VideoType,
		"duration", res.Info.DurationString)

	transcript := res.Captions
	if !opts.Raw && transcript != "" {
		transcript, err = pipeline.Process(res.Captions, opts.Pipeline)
		if err != nil {
			return result, fmt.Errorf("process captions: %w", err)
		}
	}

	if opts.SaveJSON {
		result.JSONPath = jsonPath(opts, res.Info.VideoID)
		if err := saveJSON(result.JSONPath, newReport(res, transcript)); err != nil {
			return result, fmt.Errorf("write JSON report: %w", err)
		}
		slog.Info("report saved", "video", res.Info.VideoID, "path", result.JSONPath)
	}

	if transcript == "" {
		result.Err = fmt.Errorf("%s (%s): %w", res.Info.VideoID, opts.Fetch.Language, youtube.ErrNoCaptions)
		slog.Warn("no usable captions", "video", res.Info.VideoID, "lang", opts.Fetch.Language)
		return result, nil
	}

	content := transcript
	if opts.Header && !opts.Raw {
		content = metadataHeader(res.Info) + "\n" + transcript
	}
	result.Stats = computeStats(content, res.Language)

	if opts.NoSave {
		if _, err := fmt.Fprintln(opts.Stdout, content); err != nil {
			return result, fmt.Errorf("write output: %w", err)
		}
		return result, nil
	}

	result.Path = textPath(opts, res.Info)
	if err := writeFile(result.Path, []byte(content)); err != nil {
		return result, fmt.Errorf("write transcript: %w", err)
	}

	slog.Info("transcript saved",
		"video", res.Info.VideoID,
		"path", result.Path,
		"lines", result.Stats.Lines,
		"chars", result.Stats.Chars)
	return result, nil
}

// retryable reports whether a failed video is worth fetching again.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, youtube.ErrInvalidVideoID),
		errors.Is(err, youtube.ErrVideoUnavailable),
		errors.Is(err, youtube.ErrExtractorMissing),
		errors.Is(err, youtube.ErrBodyTooLarge),
		errors.Is(err, pipeline.ErrInvalidGroupSize):
		return false
	}
	return true
}
