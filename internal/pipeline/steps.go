package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/i18nscan/internal/extract"
	"github.com/nao1215/i18nscan/internal/locale"
	"github.com/nao1215/i18nscan/internal/model"
	"github.com/nao1215/i18nscan/internal/rewrite"
	"github.com/nao1215/i18nscan/internal/source"
)

// ErrStepOrder is returned when a step runs before the step it depends on.
var ErrStepOrder = errors.New("step input is missing")

// ReasonKeyConflict is the Replacement reason for a finding whose key would
// replace a mapping in the locale file.
const ReasonKeyConflict = "key conflict"

// ReadStep loads the template file.
type ReadStep struct{}

// NewReadStep creates a ReadStep.
func NewReadStep() *ReadStep {
	return &ReadStep{}
}

// Name returns the step name.
func (s *ReadStep) Name() string {
	return "read"
}

// Do reads job.Path into job.Content and hashes it.
func (s *ReadStep) Do(_ context.Context, job *Job) error {
	content, err := source.Read(job.Path)
	if err != nil {
		return err
	}
	job.Content = content
	job.Hash = source.Hash(content)
	return nil
}

// ExtractStep collects findings from the job content.
type ExtractStep struct {
	parser extract.Parser
	logger *slog.Logger
}

// ExtractStepOption configures an ExtractStep.
type ExtractStepOption func(*ExtractStep)

// WithExtractLogger sets a custom logger for the extract step.
func WithExtractLogger(logger *slog.Logger) ExtractStepOption {
	return func(s *ExtractStep) {
		s.logger = logger
	}
}

// NewExtractStep creates an ExtractStep that parses with parser.
func NewExtractStep(parser extract.Parser, opts ...ExtractStepOption) *ExtractStep {
	s := &ExtractStep{
		parser: parser,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do extracts job.Findings from job.Content.
func (s *ExtractStep) Do(_ context.Context, job *Job) error {
	e, err := extract.New(s.parser, job.Options, extract.WithLogger(s.logger.With("path", job.Path)))
	if err != nil {
		return err
	}
	findings, err := e.Extract(job.Content)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", job.Path, err)
	}
	job.Findings = findings
	return nil
}

// RewriteStep generates keys for the job findings, stages them into the
// locale store and replaces the findings in the content.
type RewriteStep struct {
	store  *locale.Store
	locale string
	dryRun bool
	logger *slog.Logger
}

// RewriteStepOption configures a RewriteStep.
type RewriteStepOption func(*RewriteStep)

// WithRewriteLogger sets a custom logger for the rewrite step.
func WithRewriteLogger(logger *slog.Logger) RewriteStepOption {
	return func(s *RewriteStep) {
		s.logger = logger
	}
}

// WithDryRun marks results as dry runs.
func WithDryRun(dryRun bool) RewriteStepOption {
	return func(s *RewriteStep) {
		s.dryRun = dryRun
	}
}

// NewRewriteStep creates a RewriteStep staging keys for localeCode into store.
func NewRewriteStep(store *locale.Store, localeCode string, opts ...RewriteStepOption) *RewriteStep {
	s := &RewriteStep{
		store:  store,
		locale: localeCode,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *RewriteStep) Name() string {
	return "rewrite"
}

// Do fills job.Rewritten and job.Result.
func (s *RewriteStep) Do(_ context.Context, job *Job) error {
	if job.Hash == "" {
		return fmt.Errorf("%w: %s has not been read", ErrStepOrder, job.Path)
	}

	result := &model.ExchangeResult{
		Path:         job.Path,
		Keys:         make([]model.KeyValue, 0),
		Replacements: make([]model.Replacement, 0, len(job.Findings)),
		DryRun:       s.dryRun,
	}
	keys := locale.NewAllocator(job.Namespace, locale.WithReserved(func(key string) bool {
		return !s.store.CanSet(s.locale, key)
	}))
	rw := rewrite.New(job.Content)
	staged := make(map[string]bool)

	for i, f := range job.Findings {
		key := keys.Key(f.Text, i)
		rep := model.Replacement{
			Key:    key,
			Text:   f.Text,
			Kind:   f.Kind,
			Source: f.Source,
			Line:   f.Line,
		}

		var out rewrite.Outcome
		if !staged[key] && !s.store.CanSet(s.locale, key) {
			rep.Reason = ReasonKeyConflict
		} else {
			out = rw.Replace(f, key)
			rep.Replaced = out.Replaced()
			rep.Reason = rewrite.Reason(out.Err)
		}

		// Keys are staged for rewritten text and for kinds that are never
		// rewritten. Text that could not be located stages nothing.
		if !staged[key] && (rep.Replaced || errors.Is(out.Err, rewrite.ErrUnsupportedKind)) {
			if err := s.store.Set(s.locale, key, f.Text); err != nil {
				return fmt.Errorf("failed to stage %s: %w", key, err)
			}
			staged[key] = true
			result.Keys = append(result.Keys, model.KeyValue{Key: key, Value: f.Text})
			result.AddedKeyCount++
		}

		if rep.Replaced {
			result.ReplacedCount++
		} else {
			s.logger.Debug("finding not replaced",
				"path", job.Path, "key", key, "kind", f.Kind.String(), "reason", rep.Reason)
		}
		result.Replacements = append(result.Replacements, rep)
	}

	job.Rewritten = rw.Content()
	job.Result = result
	return nil
}

// WriteStep backs up and rewrites the template file.
type WriteStep struct {
	dryRun bool
	backup bool
	logger *slog.Logger
}

// WriteStepOption configures a WriteStep.
type WriteStepOption func(*WriteStep)

// WithWriteLogger sets a custom logger for the write step.
func WithWriteLogger(logger *slog.Logger) WriteStepOption {
	return func(s *WriteStep) {
		s.logger = logger
	}
}

// NewWriteStep creates a WriteStep. Nothing is written when dryRun is set;
// a backup is taken first when backup is set.
func NewWriteStep(dryRun, backup bool, opts ...WriteStepOption) *WriteStep {
	s := &WriteStep{
		dryRun: dryRun,
		backup: backup,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do writes job.Rewritten over job.Path when it differs from the original.
func (s *WriteStep) Do(_ context.Context, job *Job) error {
	if job.Result == nil {
		return fmt.Errorf("%w: %s has not been rewritten", ErrStepOrder, job.Path)
	}
	if s.dryRun || job.Rewritten == job.Content {
		return nil
	}

	if s.backup {
		backup, err := source.Backup(job.Path)
		if err != nil {
			return err
		}
		job.Result.BackupPath = backup
	}
	if err := source.Write(job.Path, job.Rewritten); err != nil {
		return err
	}
	s.logger.Info("rewrote template",
		"path", job.Path,
		"replaced", job.Result.ReplacedCount,
	)
	return nil
}
