package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/way-po-int/subtitle-extractor/internal/config"
	"github.com/way-po-int/subtitle-extractor/internal/worker"
	"github.com/way-po-int/subtitle-extractor/internal/youtube"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url|video-id>...",
	Short: "Fetch captions and write cleaned transcripts",
	Long: `Fetch the metadata and captions of one or more YouTube videos, normalize
the captions into a transcript and save it as <output-dir>/<title>.txt with a
metadata header.`,
	Example: `  subtitle-extractor fetch "https://www.youtube.com/watch?v=xxxxxxxxxxx"
  subtitle-extractor fetch "https://www.youtube.com/shorts/xxxxxxxxxxx" --lang ko
  subtitle-extractor fetch xxxxxxxxxxx --lang en --merge 5 --mode grouped
  subtitle-extractor fetch "https://youtu.be/xxxxxxxxxxx" --output result.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

var (
	fetchPipeline pipelineFlags

	language      string
	output        string
	outputDir     string
	noSave        bool
	raw           bool
	noAuto        bool
	saveJSON      bool
	backend       string
	noAsync       bool
	maxConcurrent int
	maxRetries    int
	rateLimit     int
	redisURL      string
	noCache       bool
)

func init() {
	defaults := config.Default()

	fetchPipeline.register(fetchCmd)
	fetchCmd.Flags().StringVarP(&language, "lang", "l", defaults.Fetch.Language, "caption language code")
	fetchCmd.Flags().StringVarP(&output, "output", "o", "", "output file path (single video only)")
	fetchCmd.Flags().StringVar(&outputDir, "output-dir", defaults.Output.Dir, "directory for transcripts named after the video title")
	fetchCmd.Flags().BoolVar(&noSave, "no-save", false, "print transcripts instead of saving them")
	fetchCmd.Flags().BoolVar(&raw, "raw", false, "output the unprocessed WebVTT")
	fetchCmd.Flags().BoolVar(&noAuto, "no-auto", false, "exclude automatic captions (manual only)")
	fetchCmd.Flags().BoolVar(&saveJSON, "json", defaults.Output.JSON, "also save <output-dir>/<video-id>/scrap_result.json")
	fetchCmd.Flags().StringVar(&backend, "backend", defaults.Fetch.Backend, "fetch backend: ytdlp, web")
	fetchCmd.Flags().BoolVar(&noAsync, "no-async", defaults.Worker.NoAsync, "process videos one at a time")
	fetchCmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", defaults.Worker.MaxConcurrent, "max videos processed in parallel")
	fetchCmd.Flags().IntVar(&maxRetries, "max-retries", defaults.Worker.MaxRetries, "max attempts per video")
	fetchCmd.Flags().IntVar(&rateLimit, "rate-limit", defaults.Worker.RateLimitPerMin, "video fetches per minute (0 = unlimited)")
	fetchCmd.Flags().StringVar(&redisURL, "redis-url", "", "Redis URL for the shared fetch cache")
	fetchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache")

	rootCmd.AddCommand(fetchCmd)
}

// applyFetchFlags overlays explicitly set flags on the loaded config.
func applyFetchFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("lang") {
		c.Fetch.Language = language
	}
	if flags.Changed("no-auto") {
		c.Fetch.AutoGenerated = !noAuto
	}
	if flags.Changed("backend") {
		c.Fetch.Backend = backend
	}
	if flags.Changed("output-dir") {
		c.Output.Dir = outputDir
	}
	if flags.Changed("json") {
		c.Output.JSON = saveJSON
	}
	if flags.Changed("no-async") {
		c.Worker.NoAsync = noAsync
	}
	if flags.Changed("max-concurrent") {
		c.Worker.MaxConcurrent = maxConcurrent
	}
	if flags.Changed("max-retries") {
		c.Worker.MaxRetries = maxRetries
	}
	if flags.Changed("rate-limit") {
		c.Worker.RateLimitPerMin = rateLimit
	}
	if flags.Changed("redis-url") {
		c.Cache.RedisURL = redisURL
	}
	if noCache {
		c.Cache.Enabled = false
	}
}

// newFetcher builds the configured backend, wrapped in the cache when enabled.
// The returned func releases cache resources.
func newFetcher(ctx context.Context, c *config.Config) (youtube.Fetcher, func(), error) {
	client := youtube.NewClient(c.Fetch.Timeout)
	client.Language = c.Fetch.Language

	var f youtube.Fetcher
	switch strings.ToLower(c.Fetch.Backend) {
	case "", "ytdlp", "yt-dlp":
		if !youtube.Available(c.Fetch.YtDlpPath) {
			slog.Warn("yt-dlp not found, falling back to web backend (no pinned comments)")
			f = youtube.NewWeb(client)
			break
		}
		f = youtube.NewYtDlp(c.Fetch.YtDlpPath, client)
	case "web":
		f = youtube.NewWeb(client)
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want ytdlp or web)", c.Fetch.Backend)
	}

	if !c.Cache.Enabled {
		return f, func() {}, nil
	}

	cache := youtube.NewCache(ctx, c.Cache.RedisURL, c.Cache.TTL, c.Cache.MaxEntries)
	cleanup := func() {
		hits, misses := cache.Stats()
		slog.Debug("cache stats", "hits", hits, "misses", misses)
		cache.Close()
	}
	return youtube.NewCached(f, cache), cleanup, nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	for _, ref := range args {
		if _, err := youtube.ExtractVideoID(ref); err != nil {
			return fmt.Errorf("%w: %s (supported: watch?v=ID, youtu.be/ID, shorts/ID, 11-character ID)", err, ref)
		}
	}
	if output != "" && len(args) > 1 {
		return errors.New("--output only applies to a single video; use --output-dir")
	}

	c := *cfg
	applyFetchFlags(cmd, &c)
	pipelineOpts := fetchPipeline.options(cmd, c.Pipeline)
	if err := pipelineOpts.Validate(); err != nil {
		return err
	}

	// Setup signal handling for graceful cancellation.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher, cleanup, err := newFetcher(ctx, &c)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := worker.Options{
		Refs:    args,
		Fetcher: fetcher,
		Fetch: youtube.FetchOptions{
			Language:      c.Fetch.Language,
			AutoGenerated: c.Fetch.AutoGenerated,
		},
		Pipeline:        pipelineOpts,
		OutputPath:      output,
		OutputDir:       c.Output.Dir,
		NoSave:          noSave,
		Raw:             raw,
		SaveJSON:        c.Output.JSON,
		Header:          c.Output.Header,
		Stdout:          cmd.OutOrStdout(),
		NoAsync:         c.Worker.NoAsync,
		MaxConcurrent:   c.Worker.MaxConcurrent,
		MaxRetries:      c.Worker.MaxRetries,
		RateLimitPerMin: c.Worker.RateLimitPerMin,
	}

	results, err := worker.Run(ctx, opts)
	if !quiet && !noSave {
		printSummary(results)
	}
	if err != nil {
		return err
	}

	if missing := countMissing(results); missing == len(results) {
		return fmt.Errorf("no captions found for language %q; try `list` to see available tracks", c.Fetch.Language)
	}
	return nil
}

func countMissing(results []worker.Result) int {
	n := 0
	for _, r := range results {
		if errors.Is(r.Err, youtube.ErrNoCaptions) {
			n++
		}
	}
	return n
}

func printSummary(results []worker.Result) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(os.Stderr, "%s %s %s\n", warnStyle.Render("!"), r.Title, mutedStyle.Render(r.Err.Error()))
		case r.Path != "":
			fmt.Fprintf(os.Stderr, "%s %s\n  %s\n", okStyle.Render("✔"), r.Title,
				mutedStyle.Render(fmt.Sprintf("%s | %d lines, %d chars, %d words", r.Path, r.Stats.Lines, r.Stats.Chars, r.Stats.Words)))
		}
	}
}
