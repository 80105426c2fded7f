// Package pool runs independent units of work on a bounded number of
// goroutines.
package pool

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
)

// Policy decides what happens to outstanding tasks once one of them fails.
type Policy int

const (
	// FailFast cancels the context passed to outstanding tasks and skips tasks
	// that have not started.
	FailFast Policy = iota
	// WaitAll lets every task run to completion before the first error is
	// returned.
	WaitAll
)

// Options configures Map. The zero value runs runtime.NumCPU() workers with
// FailFast and no progress bar.
type Options struct {
	Workers  int
	Policy   Policy
	Progress bool
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// Map calls fn once for each item and returns the results in the order of
// items. The first error returned by fn is returned by Map, in which case the
// results are nil.
func Map[T, R any](ctx context.Context, items []T, opts Options, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))

	var bar *pb.ProgressBar
	if opts.Progress && len(items) > 0 {
		bar = pb.New(len(items))
		bar.Output = os.Stderr
		bar.Start()
		defer bar.Finish()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	taskCtx := gctx
	if opts.Policy == WaitAll {
		taskCtx = ctx
	}

	for i := range items {
		if opts.Policy == FailFast && gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if opts.Policy == FailFast {
				if err := taskCtx.Err(); err != nil {
					return err
				}
			}
			result, err := fn(taskCtx, items[i])
			if err != nil {
				return err
			}
			results[i] = result
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
