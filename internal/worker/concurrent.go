package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// processConcurrent processes videos with bounded parallelism and rate limiting.
func processConcurrent(ctx context.Context, opts Options) ([]Result, error) {
	total := len(opts.Refs)
	slog.Info("starting concurrent processing",
		"videos", total,
		"max_concurrent", opts.MaxConcurrent,
		"rate_limit_rpm", opts.RateLimitPerMin)

	limit := rate.Inf
	if opts.RateLimitPerMin > 0 {
		// Rate limiter: tokens per second = RPM / 60.
		limit = rate.Limit(float64(opts.RateLimitPerMin) / 60.0)
	}
	limiter := rate.NewLimiter(limit, 1)

	var (
		mu      sync.Mutex
		results []Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxConcurrent)

	for i, ref := range opts.Refs {
		g.Go(func() error {
			var (
				result  Result
				lastErr error
			)

			// Retry loop with exponential backoff.
			for attempt := 0; attempt < opts.MaxRetries; attempt++ {
				if err := limiter.Wait(gctx); err != nil {
					return fmt.Errorf("rate limiter: %w", err)
				}

				slog.Info("processing video", "video", fmt.Sprintf("%d/%d", i+1, total), "ref", ref)

				r, err := processVideo(gctx, i, ref, opts)
				if err == nil {
					result = r
					lastErr = nil
					break
				}

				lastErr = err
				if !retryable(err) {
					break
				}
				if attempt < opts.MaxRetries-1 {
					backoff := 1 << uint(attempt) // 1s, 2s, 4s...
					slog.Warn("video failed, retrying",
						"video", i+1,
						"attempt", attempt+1,
						"backoff_sec", backoff,
						"err", err)

					timer := time.NewTimer(time.Duration(backoff) * time.Second)
					select {
					case <-gctx.Done():
						timer.Stop()
						return gctx.Err()
					case <-timer.C:
					}
				}
			}

			if lastErr != nil {
				return fmt.Errorf("video %d/%d (%s) failed: %w", i+1, total, ref, lastErr)
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()

			slog.Info("video completed", "video", fmt.Sprintf("%d/%d", i+1, total))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		mu.Lock()
		completedCount := len(results)
		mu.Unlock()

		if completedCount > 0 && ctx.Err() == nil {
			slog.Warn("concurrent processing partially failed, falling back to sequential",
				"completed", completedCount, "total", total, "err", err)
			return fallbackToSequential(ctx, opts, results)
		}
		return results, err
	}

	return results, nil
}

// fallbackToSequential retries the videos missing from completed one at a time.
func fallbackToSequential(ctx context.Context, opts Options, completed []Result) ([]Result, error) {
	slog.Info("falling back to sequential processing for remaining videos")

	done := make(map[int]bool)
	for _, r := range completed {
		done[r.Index] = true
	}

	for i, ref := range opts.Refs {
		if done[i] {
			continue
		}

		select {
		case <-ctx.Done():
			return completed, ctx.Err()
		default:
		}

		slog.Info("sequential fallback processing video", "video", fmt.Sprintf("%d/%d", i+1, len(opts.Refs)))

		r, err := processVideo(ctx, i, ref, opts)
		if err != nil {
			return completed, fmt.Errorf("sequential fallback video %d/%d (%s): %w", i+1, len(opts.Refs), ref, err)
		}
		completed = append(completed, r)
	}

	return completed, nil
}
