package locale

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxKeyLength is the maximum rune length of a generated base key.
	MaxKeyLength = 50

	// minKeyLength is the shortest base key kept before falling back to an ordinal key.
	minKeyLength = 3

	// fallbackPrefix starts ordinal fallback keys such as "text_0".
	fallbackPrefix = "text_"

	// maxKeyAttempts bounds the suffixes tried for a colliding key.
	maxKeyAttempts = 100
)

var lower = cases.Lower(language.Und)

// GenerateKey derives a translation key from text.
//
// The text is lowercased, stripped of everything but letters, digits,
// whitespace and hyphens, and whitespace runs become single underscores.
// Keys shorter than three runes fall back to "text_<ordinal>". The namespace,
// when given, is prepended with a dot.
func GenerateKey(text, namespace string, ordinal int) string {
	key := BaseKey(text)
	if len([]rune(key)) < minKeyLength {
		key = fallbackPrefix + strconv.Itoa(ordinal)
	}
	if namespace != "" {
		key = namespace + "." + key
	}
	return key
}

// BaseKey returns the sanitized key for text without fallback or namespace.
// It may be empty.
func BaseKey(text string) string {
	var b strings.Builder
	space := false
	for _, r := range lower.String(text) {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
		default:
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte('_')
		}
		space = false
		b.WriteRune(r)
	}

	key := b.String()
	if runes := []rune(key); len(runes) > MaxKeyLength {
		key = string(runes[:MaxKeyLength])
	}
	return key
}

// Allocator hands out keys for the findings of one run. The same text always
// receives the same key; a different text whose key is already taken gets
// the ordinal appended.
//
// Design decision: We resolve collisions with the finding ordinal rather
// than a counter per base key, so a key depends only on the text and its
// position in the file and not on how many similar texts came before it.
// Keys the locale file cannot take (see WithReserved) are treated like keys
// owned by another text. We suffix rather than overwrite because:
// 1. A mapping in the locale file usually holds keys other templates use
// 2. Replacing it would break those lookups with no sign in the template diff
type Allocator struct {
	namespace string
	byText    map[string]string
	owner     map[string]string
	reserved  func(key string) bool
}

// AllocatorOption configures an Allocator.
type AllocatorOption func(*Allocator)

// WithReserved marks keys the allocator must never hand out, such as keys
// that would overwrite a mapping in the locale file.
func WithReserved(reserved func(key string) bool) AllocatorOption {
	return func(a *Allocator) {
		a.reserved = reserved
	}
}

// NewAllocator creates an Allocator for keys under namespace.
func NewAllocator(namespace string, opts ...AllocatorOption) *Allocator {
	a := &Allocator{
		namespace: namespace,
		byText:    make(map[string]string),
		owner:     make(map[string]string),
		reserved:  func(string) bool { return false },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the key for text, generating it on first use.
func (a *Allocator) Key(text string, ordinal int) string {
	if key, ok := a.byText[text]; ok {
		return key
	}

	base := GenerateKey(text, a.namespace, ordinal)
	key := ""
	for n := 0; n < maxKeyAttempts && key == ""; n++ {
		candidate := base
		switch n {
		case 0:
		case 1:
			candidate = base + "_" + strconv.Itoa(ordinal)
		default:
			candidate = base + "_" + strconv.Itoa(ordinal) + "_" + strconv.Itoa(n)
		}
		if _, taken := a.owner[candidate]; !taken && !a.reserved(candidate) {
			key = candidate
		}
	}
	if key == "" {
		// Every candidate is reserved, e.g. the namespace itself is a leaf.
		// The caller fails to stage it and reports the conflict.
		key = base
	}

	a.byText[text] = key
	if _, taken := a.owner[key]; !taken {
		a.owner[key] = text
	}
	return key
}

// Len returns the number of distinct keys handed out.
func (a *Allocator) Len() int {
	return len(a.owner)
}
