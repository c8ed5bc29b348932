package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaskValue replaces redacted values.
const MaskValue = "***REDACTED***"

// DefaultMaxValueLength is the rune length above which string values are truncated.
const DefaultMaxValueLength = 120

// truncationMarker ends a truncated value.
const truncationMarker = "…"

// sensitiveKeys are attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"password":      true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"access_token":  true,
	"private_key":   true,
	"client_secret": true,
	"credentials":   true,
}

// sensitiveKeywords mask any key containing them. The bare word "key" is
// not included because translation keys are logged under "key".
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential", "private",
}

// sensitivePatterns match values that are credentials regardless of key.
var sensitivePatterns = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	// Bearer and basic authorization values
	regexp.MustCompile(`(?i)^(?:bearer|basic)\s+\S+`),
	// AWS access key id
	regexp.MustCompile(`^(?:AKIA|ASIA)[0-9A-Z]{16}$`),
	// Google API key
	regexp.MustCompile(`^AIza[0-9A-Za-z_-]{35}$`),
	// Stripe secret, restricted and publishable keys
	regexp.MustCompile(`^(?:sk|rk|pk)_(?:live|test)_[0-9A-Za-z]{10,}$`),
	// GitHub tokens
	regexp.MustCompile(`^gh[pousr]_[0-9A-Za-z]{30,}$`),
	// Long opaque alphanumeric strings
	regexp.MustCompile(`^[A-Za-z0-9]{32,}$`),
	// PEM private keys
	regexp.MustCompile(`(?i)-----BEGIN.*PRIVATE KEY-----`),
}

// RedactingHandler wraps an slog.Handler, masking secret-looking attributes
// and truncating long string values before they reach the wrapped handler.
type RedactingHandler struct {
	handler  slog.Handler
	maxValue int
}

// NewRedactingHandler wraps handler. A nil handler wraps slog.Default().Handler().
// maxValue below one disables truncation.
func NewRedactingHandler(handler slog.Handler, maxValue int) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler, maxValue: maxValue}
}

// Enabled delegates to the wrapped handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it on.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redact(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a handler with the redacted attributes added.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redact(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redacted), maxValue: h.maxValue}
}

// WithGroup returns a handler that nests attributes under name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name), maxValue: h.maxValue}
}

func (h *RedactingHandler) redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			redacted[i] = h.redact(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}
	if a.Value.Kind() != slog.KindString {
		return a
	}
	value := a.Value.String()
	if IsSensitiveValue(value) {
		return slog.String(a.Key, MaskValue)
	}
	return slog.String(a.Key, Truncate(value, h.maxValue))
}

// IsSensitiveKey reports whether an attribute key names a secret.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if sensitiveKeys[lower] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether a value looks like a credential.
func IsSensitiveValue(value string) bool {
	value = strings.TrimSpace(value)
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// Truncate shortens s to max runes, marking the cut. max below one returns s.
func Truncate(s string, max int) string {
	if max < 1 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + truncationMarker
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger returns a text logger writing to w through a RedactingHandler.
// The level is Debug when verbose is set and Warn otherwise.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewRedactingHandler(text, DefaultMaxValueLength))
}

// NewJSONLogger is NewLogger with JSON output.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	j := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewRedactingHandler(j, DefaultMaxValueLength))
}
