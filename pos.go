package eightebed

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

const eof = -1

// Location is a single point in the source text, tracked three ways:
// the 1-based line and column a human reads, and the 0-based byte
// cursor the lexer actually advances over.
type Location struct {
	Line   int
	Column int
	Cursor int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span is a half-open range [Start, End) of Locations, attached to
// every token and carried onto the AST nodes built from it so that
// every diagnostic can report where it came from.
type Span struct {
	Start Location
	End   Location
}

func NewSpan(start, end Location) Span {
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line && s.Start.Column == s.End.Column {
		return s.Start.String()
	}
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d..%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// LineIndex allows fast conversion from byte cursor offsets to
// line/column. It stores the start byte offset of each line
// (0-based); given a cursor it binary searches the line starts
// (O(log lines)) and computes the column as runes-since-lineStart+1.
//
// Construction is O(n) over the input and is intended to be built
// once per source file.
type LineIndex struct {
	input     []byte
	lineStart []int
}

func NewLineIndex(input []byte) *LineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &LineIndex{input: input, lineStart: lineStart}
}

func (li *LineIndex) LocationAt(cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(li.input) {
		cursor = len(li.input)
	}

	lineIdx := sort.Search(len(li.lineStart), func(i int) bool {
		return li.lineStart[i] > cursor
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := li.lineStart[lineIdx]
	col := utf8.RuneCount(li.input[lineStart:cursor]) + 1

	return Location{
		Line:   lineIdx + 1,
		Column: col,
		Cursor: cursor,
	}
}
