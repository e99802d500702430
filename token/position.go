// Package token defines the lexical tokens shared by the JavaScript lexer,
// the JavaScript parser and the Gherkin front-end.
package token

import "fmt"

// Position locates a point in a Buffer by line, column and byte offset.
// Line and column are 1-based; offset is 0-based and measured in bytes.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Buffer holds source text plus the filename it came from, and resolves a
// byte offset back to a line/column pair on demand. Building the line-start
// table lazily keeps construction free for source that is never diagnosed.
type Buffer struct {
	Filename string
	Text     string

	lineStarts []int
}

// NewBuffer wraps source text with an optional filename used in diagnostics.
func NewBuffer(filename, text string) *Buffer {
	return &Buffer{Filename: filename, Text: text}
}

func (b *Buffer) ensureLineStarts() {
	if b.lineStarts != nil {
		return
	}
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i := 0; i < len(b.Text); i++ {
		if b.Text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	b.lineStarts = starts
}

// PositionFor resolves a byte offset into a Position. Offsets past the end
// of the buffer resolve to the final line/column, matching EOF tokens.
func (b *Buffer) PositionFor(offset int) Position {
	b.ensureLineStarts()

	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo + 1
	column := offset - b.lineStarts[lo] + 1
	return Position{Line: line, Column: column, Offset: offset}
}

// Slice returns the raw source text between two byte offsets, used by the
// parser and Gherkin front-end to preserve source spans verbatim (step
// text, template literal source, etc.) without re-synthesizing them.
func (b *Buffer) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(b.Text) {
		end = len(b.Text)
	}
	if start >= end {
		return ""
	}
	return b.Text[start:end]
}
