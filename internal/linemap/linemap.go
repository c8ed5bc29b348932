// Package linemap maps byte offsets in a file to 1-based line numbers.
package linemap

import "sort"

// NoOffset marks a position that could not be recovered.
const NoOffset = -1

// breakpoint records the byte offset at which a line starts.
type breakpoint struct {
	offset int
	line   int
}

// Map is an ordered index of line start offsets.
// It is built once per file and is read-only afterwards.
type Map struct {
	points []breakpoint
}

// Build scans content once and records the start offset of every line.
// Lines are terminated by "\n"; a preceding "\r" stays part of the line.
func Build(content string) *Map {
	m := &Map{points: make([]breakpoint, 0, 64)}
	if content == "" {
		return m
	}

	offset := 0
	line := 1
	for {
		m.points = append(m.points, breakpoint{offset: offset, line: line})
		next := indexByte(content, offset, '\n')
		if next < 0 || next+1 >= len(content) {
			break
		}
		offset = next + 1
		line++
	}
	return m
}

// indexByte returns the index of c in s at or after from, or -1.
func indexByte(s string, from int, c byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// Len returns the number of recorded lines.
func (m *Map) Len() int {
	return len(m.points)
}

// LineFor returns the line containing offset: the line of the greatest
// breakpoint whose offset is <= offset. It never fails; an empty map or an
// offset before the first breakpoint yields 1.
func (m *Map) LineFor(offset int) int {
	if m == nil || len(m.points) == 0 {
		return 1
	}
	// First breakpoint strictly after offset.
	i := sort.Search(len(m.points), func(i int) bool {
		return m.points[i].offset > offset
	})
	if i == 0 {
		return 1
	}
	return m.points[i-1].line
}

// Resolve is LineFor for optional positions: NoOffset (or any negative
// offset) is unmappable and yields nil.
func (m *Map) Resolve(offset int) *int {
	if offset < 0 {
		return nil
	}
	line := m.LineFor(offset)
	return &line
}
