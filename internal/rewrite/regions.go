package rewrite

import (
	"regexp"
	"strings"
)

// region classifies a byte of template content.
type region uint8

const (
	regionText region = iota
	regionTag
	regionDirective
	regionComment
	regionScript
	regionStyle
)

var (
	directiveSpanPattern = regexp.MustCompile(`(?s)<%.*?%>`)
	commentSpanPattern   = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// layout maps every byte of content to the region it belongs to.
type layout struct {
	content string
	regions []region
}

func scanLayout(content string) *layout {
	l := &layout{content: content, regions: make([]region, len(content))}

	for _, m := range directiveSpanPattern.FindAllStringIndex(content, -1) {
		l.mark(m[0], m[1], regionDirective)
	}
	for _, m := range commentSpanPattern.FindAllStringIndex(content, -1) {
		if l.regions[m[0]] == regionText {
			l.markText(m[0], m[1], regionComment)
		}
	}

	for i := 0; i < len(content); i++ {
		if l.regions[i] != regionText || content[i] != '<' || !startsTag(content, i+1) {
			continue
		}
		end := l.tagEnd(i)
		l.markText(i, end, regionTag)

		name, closing := tagName(content[i+1 : end])
		if closing || (name != "script" && name != "style") || strings.HasSuffix(content[i:end], "/>") {
			i = end - 1
			continue
		}

		bodyEnd := len(content)
		if j := strings.Index(strings.ToLower(content[end:]), "</"+name); j >= 0 {
			bodyEnd = end + j
		}
		kind := regionScript
		if name == "style" {
			kind = regionStyle
		}
		l.markText(end, bodyEnd, kind)
		i = bodyEnd - 1
	}
	return l
}

func (l *layout) mark(start, end int, r region) {
	for i := start; i < end; i++ {
		l.regions[i] = r
	}
}

// markText marks only the bytes still classified as text.
func (l *layout) markText(start, end int, r region) {
	for i := start; i < end; i++ {
		if l.regions[i] == regionText {
			l.regions[i] = r
		}
	}
}

// tagEnd returns the offset just past the '>' closing the tag opened at
// start. Directives and quoted attribute values may contain '>'.
func (l *layout) tagEnd(start int) int {
	var quote byte
	for j := start + 1; j < len(l.content); j++ {
		if l.regions[j] == regionDirective {
			continue
		}
		c := l.content[j]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return j + 1
		}
	}
	return len(l.content)
}

// within reports whether every byte of [start, end) belongs to r.
func (l *layout) within(start, end int, r region) bool {
	if start < 0 || end > len(l.regions) || start >= end {
		return false
	}
	for i := start; i < end; i++ {
		if l.regions[i] != r {
			return false
		}
	}
	return true
}

// isolatedText reports whether [start, end) is the whole trimmed content of
// a text run, bounded on both sides by markup, directives or the file edges.
func (l *layout) isolatedText(start, end int) bool {
	if !l.within(start, end, regionText) {
		return false
	}
	for i := start - 1; i >= 0 && l.regions[i] == regionText; i-- {
		if !isSpace(l.content[i]) {
			return false
		}
	}
	for i := end; i < len(l.content) && l.regions[i] == regionText; i++ {
		if !isSpace(l.content[i]) {
			return false
		}
	}
	return true
}

func startsTag(content string, i int) bool {
	if i >= len(content) {
		return false
	}
	c := content[i]
	return c == '/' || c == '!' || c == '?' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// tagName returns the lowercased element name of a tag body such as
// "<script type=x>" and whether it is a closing tag.
func tagName(tag string) (string, bool) {
	tag = strings.TrimPrefix(tag, "<")
	closing := strings.HasPrefix(tag, "/")
	tag = strings.TrimPrefix(tag, "/")
	end := 0
	for end < len(tag) {
		c := tag[end]
		if c == '>' || c == '/' || isSpace(c) {
			break
		}
		end++
	}
	return strings.ToLower(tag[:end]), closing
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
