package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nao1215/i18nscan/internal/config"
	"github.com/nao1215/i18nscan/internal/extract"
	"github.com/nao1215/i18nscan/internal/filter"
	"github.com/nao1215/i18nscan/internal/locale"
	"github.com/nao1215/i18nscan/internal/model"
	"github.com/nao1215/i18nscan/internal/pipeline"
	"github.com/nao1215/i18nscan/internal/source"
)

var (
	// ErrInvalidArgument is returned for an empty path, a missing path, or a
	// directory where a single file is required. Nothing is read or written.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingCapability is returned when no structural parser is
	// available. It is checked before any file is touched.
	ErrMissingCapability = extract.ErrNoParser
)

// Scanner runs find, exchange and auto operations.
type Scanner struct {
	cfg    *config.Config
	parser extract.Parser
	logger *slog.Logger
	newID  func() string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithParser replaces the structural parser. A nil parser makes every
// operation fail with ErrMissingCapability.
func WithParser(parser extract.Parser) Option {
	return func(s *Scanner) {
		s.parser = parser
	}
}

// WithLogger sets a custom logger for the scanner.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New creates a Scanner for cfg using the HTML parser.
func New(cfg *config.Config, opts ...Option) *Scanner {
	s := &Scanner{
		cfg:    cfg,
		parser: extract.NewHTMLParser(),
		logger: slog.Default(),
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindText returns the findings of the template at path.
func (s *Scanner) FindText(ctx context.Context, path string) (*model.FileReport, error) {
	if err := s.checkFile(path); err != nil {
		return nil, err
	}

	job, err := s.newJob(path)
	if err != nil {
		return nil, err
	}
	if err := s.findPipeline().Execute(ctx, job); err != nil {
		return nil, err
	}
	return job.FileReport(), nil
}

// FindStrings returns the distinct texts found in the template at path.
// It is the unstructured view of FindText.
func (s *Scanner) FindStrings(ctx context.Context, path string) ([]string, error) {
	report, err := s.FindText(ctx, path)
	if err != nil {
		return nil, err
	}
	return report.Texts(), nil
}

// Find scans root, a template file or a directory, and returns a report with
// one entry per file. Files are scanned BatchSize at a time. A file that
// cannot be read or parsed is reported with its error and does not stop the
// run. On cancellation the partial report is returned with the context error.
func (s *Scanner) Find(ctx context.Context, root string) (*model.RunReport, error) {
	files, err := s.expand(root)
	if err != nil {
		return nil, err
	}

	jobs := make([]*pipeline.Job, 0, len(files))
	for _, path := range files {
		job, err := s.newJob(path)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	report := model.NewRunReport(s.newID(), root)
	bp := pipeline.NewBatchProcessor(s.findPipeline,
		pipeline.WithConcurrency(s.cfg.BatchSize),
		pipeline.WithBatchLogger(s.logger),
	)
	var done atomic.Int64
	batchErr := bp.ProcessBatchWithCallback(ctx, jobs, func(job *pipeline.Job, _ int) {
		s.logger.Debug("file scanned",
			"path", job.Path,
			"findings", len(job.Findings),
			"done", done.Add(1),
			"total", len(jobs),
		)
	})

	for _, job := range jobs {
		report.AddFile(job.FileReport())
	}
	report.SortFiles()

	s.logger.Debug("find complete",
		"root", root,
		"files", len(report.Files),
		"findings", report.TotalFindings(),
	)
	return report, batchErr
}

// Exchange replaces the hardcoded text of the template at path with
// translation lookups and stages the texts into the locale file. With
// DryRun set the result is computed but nothing is written.
func (s *Scanner) Exchange(ctx context.Context, path string) (*model.ExchangeResult, error) {
	if err := s.checkFile(path); err != nil {
		return nil, err
	}
	return s.exchange(ctx, path)
}

// Auto runs Exchange on root, a template file or every matching template in
// a directory, in lexical order. Cancellation is honored between files and
// the results gathered so far are returned with the context error.
func (s *Scanner) Auto(ctx context.Context, root string) (*model.AutoResult, error) {
	files, err := s.expand(root)
	if err != nil {
		return nil, err
	}

	result := &model.AutoResult{Details: make([]*model.ExchangeResult, 0, len(files))}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		r, err := s.exchange(ctx, path)
		if err != nil {
			return result, err
		}
		result.Add(r)
	}

	s.logger.Debug("auto complete",
		"root", root,
		"files", result.FilesProcessed,
		"replaced", result.TotalReplaced,
		"keys", result.TotalKeys,
	)
	return result, nil
}

// exchange processes one file against a freshly loaded locale store and saves
// the store when keys were added.
func (s *Scanner) exchange(ctx context.Context, path string) (*model.ExchangeResult, error) {
	job, err := s.newJob(path)
	if err != nil {
		return nil, err
	}

	store, err := locale.Load(s.cfg.LocalePath)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(pipeline.WithLogger(s.logger))
	p.AddSteps(
		pipeline.NewReadStep(),
		pipeline.NewExtractStep(s.parser, pipeline.WithExtractLogger(s.logger)),
		pipeline.NewRewriteStep(store, s.cfg.Locale,
			pipeline.WithRewriteLogger(s.logger),
			pipeline.WithDryRun(s.cfg.DryRun),
		),
		pipeline.NewWriteStep(s.cfg.DryRun, s.cfg.Backup, pipeline.WithWriteLogger(s.logger)),
	)
	if err := p.Execute(ctx, job); err != nil {
		return nil, err
	}

	if !s.cfg.DryRun && job.Result.AddedKeyCount > 0 {
		if err := store.Save(); err != nil {
			return nil, err
		}
	}
	return job.Result, nil
}

// findPipeline builds the read and extract pipeline. Each batch worker gets its own.
func (s *Scanner) findPipeline() *pipeline.Pipeline {
	p := pipeline.New(pipeline.WithLogger(s.logger))
	p.AddSteps(
		pipeline.NewReadStep(),
		pipeline.NewExtractStep(s.parser, pipeline.WithExtractLogger(s.logger)),
	)
	return p
}

// newJob creates the job for path with the settings in effect for it.
func (s *Scanner) newJob(path string) (*pipeline.Job, error) {
	settings := s.cfg.SettingsFor(path)

	patterns, err := filter.CompilePatterns(settings.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	opts := extract.Options{
		Filter: filter.Options{
			MinLength:      settings.MinLength,
			IgnorePatterns: patterns,
		},
		ExtraAttrs:           settings.ExtraAttrs,
		ScanScriptCode:       settings.ScanScriptCode,
		ScanEmbeddedScripts:  settings.ScanEmbeddedScripts,
		StructuredDataPrefix: settings.StructuredDataPrefix,
	}

	namespace := settings.Namespace
	if s.cfg.NamespaceFromPath {
		namespace = locale.NamespaceFromPath(path, s.cfg.NamespaceBase)
	}
	return pipeline.NewJob(path, opts, namespace), nil
}

// checkFile validates a single-file operation before any I/O on its content.
func (s *Scanner) checkFile(path string) error {
	if s.parser == nil {
		return ErrMissingCapability
	}
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	exists, dir := source.Exists(path)
	if !exists {
		return fmt.Errorf("%w: %w: %s", ErrInvalidArgument, source.ErrNotFound, path)
	}
	if dir {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidArgument, path)
	}
	return nil
}

// expand validates root and resolves it to the files to process.
func (s *Scanner) expand(root string) ([]string, error) {
	if s.parser == nil {
		return nil, ErrMissingCapability
	}
	if root == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	files, err := source.Expand(root, s.cfg.FilePattern, s.cfg.Recursive)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		return nil, err
	}
	return files, nil
}
