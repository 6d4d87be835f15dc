package worker

import (
	"context"
	"fmt"
	"log/slog"
)

// processSequential processes videos one at a time, stopping at the first failure.
func processSequential(ctx context.Context, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(opts.Refs))

	for i, ref := range opts.Refs {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		slog.Info("processing video",
			"video", fmt.Sprintf("%d/%d", i+1, len(opts.Refs)),
			"ref", ref)

		r, err := processVideo(ctx, i, ref, opts)
		if err != nil {
			return results, fmt.Errorf("video %d/%d (%s) failed: %w", i+1, len(opts.Refs), ref, err)
		}
		results = append(results, r)
	}

	return results, nil
}
