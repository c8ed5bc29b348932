package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidMinLength is returned when the minimum length is below one.
	ErrInvalidMinLength = errors.New("invalid min length: must be at least 1")

	// ErrEmptyLocale is returned when no locale code is set.
	ErrEmptyLocale = errors.New("locale must not be empty")

	// ErrEmptyLocalePath is returned when no locale file is set.
	ErrEmptyLocalePath = errors.New("locale path must not be empty")

	// ErrInvalidIgnorePattern is returned when an ignore pattern is not a valid regular expression.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrInvalidFilePattern is returned when the file pattern is not a valid glob.
	ErrInvalidFilePattern = errors.New("invalid file pattern")

	// ErrInvalidPathPattern is returned when a configuration file path key is not a valid glob.
	ErrInvalidPathPattern = errors.New("invalid path pattern in configuration file")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrUnknownReportFormat is returned for a report format other than
	// text, json, markdown or sarif.
	ErrUnknownReportFormat = errors.New("unknown report format")
)
