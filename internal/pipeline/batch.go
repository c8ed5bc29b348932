package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files processed at once when no
// concurrency is configured.
const DefaultConcurrency = 10

// BatchProcessor runs a fresh pipeline for each job, several at a time.
type BatchProcessor struct {
	pipelineFactory func() *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. pipelineFactory is called once
// per job so that steps never share state between files.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatchWithCallback executes every job and calls callback as each one
// finishes. A failing job records its error on the job and does not stop the
// others. The returned error is non-nil only when the context was cancelled.
//
// callback runs on the worker goroutine and must be safe for concurrent use.
// It may be nil.
func (bp *BatchProcessor) ProcessBatchWithCallback(ctx context.Context, jobs []*Job, callback func(job *Job, index int)) error {
	bp.logger.Debug("starting batch processing",
		"total_files", len(jobs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				if job.Err == nil {
					job.Err = ctx.Err()
				}
				return ctx.Err()
			default:
			}

			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				bp.logger.Warn("file failed",
					"path", job.Path,
					"error", err,
				)
			}
			if callback != nil {
				callback(job, i)
			}
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Debug("batch processing complete",
		"total_files", len(jobs),
		"elapsed", time.Since(startTime),
	)
	return err
}
