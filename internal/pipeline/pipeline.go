package pipeline

import (
	"context"
	"log/slog"
)

// Step is one stage of processing a Job.
type Step interface {
	// Do executes the step. Returning an error stops the pipeline.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps on job. Cancellation is checked before each step.
// The first error is recorded on job.Err and returned.
//
// Design decision: a failing step always stops the job. Every step consumes
// what the previous one produced (content, then findings, then rewritten
// content), so there is nothing useful a later step could do after a failure.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	p.logger.Debug("executing pipeline",
		"path", job.Path,
		"steps", p.StepNames(),
	)
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			if job.Err == nil {
				job.Err = ctx.Err()
			}
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"path", job.Path,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"path", job.Path,
				"error", err,
			)
			if job.Err == nil {
				job.Err = err
			}
			return err
		}

		job.PerformedSteps = append(job.PerformedSteps, step.Name())
	}
	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
