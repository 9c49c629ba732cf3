package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/alitto/pond/v2"
	"github.com/schollz/progressbar/v3"

	"github.com/peekknuf/opendataqa/internal/connectors"
)

func newProgressBar(w io.Writer, count int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

// processFiles runs fn over every file on a bounded worker pool and returns
// the results in file order. fn reports per-file failures in its result, so
// the only error is cancellation.
func processFiles[T any](ctx context.Context, files []connectors.FileMeta, workers int, bar *progressbar.ProgressBar, fn func(connectors.FileMeta) T) ([]T, error) {
	pool := pond.NewResultPool[T](workers)
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	for _, file := range files {
		group.SubmitErr(func() (T, error) {
			if err := ctx.Err(); err != nil {
				var zero T
				return zero, err
			}
			result := fn(file)
			_ = bar.Add(1)
			return result, nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to process files: %w", err)
	}
	_ = bar.Finish()
	return results, nil
}
