package rawtext

import (
	"strings"

	"golang.org/x/net/html"
)

// maxEntityLength bounds the bytes scanned for the ';' closing a character
// reference. The longest named reference is 33 bytes.
const maxEntityLength = 40

// Index returns the span of the first occurrence of text in raw at or after
// from, treating "\r\n" and a lone "\r" in raw as "\n" in text. Character
// references in raw only match their own spelling.
func Index(raw, text string, from int) (start, end int, ok bool) {
	return index(raw, text, from, false)
}

// IndexDecoded is Index for text decoded by an HTML parser: a character
// reference in raw also matches the characters it decodes to.
func IndexDecoded(raw, text string, from int) (start, end int, ok bool) {
	return index(raw, text, from, true)
}

func index(raw, text string, from int, entities bool) (int, int, bool) {
	if text == "" || from < 0 {
		return 0, 0, false
	}
	for i := from; i < len(raw); i++ {
		if end, ok := match(raw, i, text, entities); ok {
			return i, end, true
		}
	}
	return 0, 0, false
}

// match compares text against raw starting at offset at and returns the end
// offset of the raw span that spells text.
func match(raw string, at int, text string, entities bool) (int, bool) {
	i, j := at, 0
	for j < len(text) {
		if i >= len(raw) {
			return 0, false
		}
		c := raw[i]
		if c == '&' && entities {
			if ref := reference(raw, i); ref != "" && !strings.HasPrefix(text[j:], ref) {
				if decoded := html.UnescapeString(ref); decoded != ref && strings.HasPrefix(text[j:], decoded) {
					i += len(ref)
					j += len(decoded)
					continue
				}
			}
		}
		switch {
		case c == text[j]:
			i++
			j++
		case c == '\r' && text[j] == '\n':
			i++
			if i < len(raw) && raw[i] == '\n' {
				i++
			}
			j++
		default:
			return 0, false
		}
	}
	return i, true
}

// reference returns the character reference starting at raw[i], such as
// "&nbsp;" or "&#39;", or "" when raw[i] does not start one.
func reference(raw string, i int) string {
	limit := min(len(raw), i+maxEntityLength)
	semi := strings.IndexByte(raw[i+1:limit], ';')
	if semi <= 0 {
		return ""
	}
	return raw[i : i+1+semi+1]
}
