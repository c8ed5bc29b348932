// Package log builds the slog loggers used by i18nscan.
//
// Findings are logged at debug level, and template files routinely carry
// credentials in data attributes and script blocks (API keys for maps,
// analytics tokens, publishable payment keys). RedactingHandler therefore
// masks attributes whose key names a secret or whose value looks like one,
// and truncates long string values so a single debug line stays readable.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("finding", "text", f.Text)           // logged as is
//	logger.Debug("attribute", "value", "AKIA...")     // masked
package log
