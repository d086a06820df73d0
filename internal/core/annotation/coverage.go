package annotation

import "unicode/utf8"

// ToLineEnd is a sentinel end column meaning "to the end of the line
// regardless of its length". Callers resolve it against the actual line.
const ToLineEnd = int(^uint(0) >> 1)

// Coverage is the covered column span of a range on one specific line.
type Coverage struct {
	IsCovered   bool
	StartColumn int
	EndColumn   int
}

// CoverageForLine computes which columns of the given line a range covers.
//
// For a single-line range on its line, columns pass through unchanged.
// For a multi-line range: the start line covers StartColumn to end of line,
// the end line covers column 1 to EndColumn, and interior lines are covered
// entirely. Lines outside [StartLine, EndLine] are not covered.
func CoverageForLine(r Range, line int) Coverage {
	if line < r.StartLine || line > r.EndLine {
		return Coverage{}
	}

	if r.IsSingleLine() {
		return Coverage{IsCovered: true, StartColumn: r.StartColumn, EndColumn: r.EndColumn}
	}

	switch line {
	case r.StartLine:
		return Coverage{IsCovered: true, StartColumn: r.StartColumn, EndColumn: ToLineEnd}
	case r.EndLine:
		return Coverage{IsCovered: true, StartColumn: 1, EndColumn: r.EndColumn}
	default:
		return Coverage{IsCovered: true, StartColumn: 1, EndColumn: ToLineEnd}
	}
}

// Indices is a zero-based half-open character index span within a line.
type Indices struct {
	Start   int
	End     int
	IsValid bool
}

// ColumnsToIndices converts 1-based columns into zero-based half-open rune
// indices within lineText. StartColumn at or below zero clamps to index 0;
// EndColumn (including the ToLineEnd sentinel) clamps to the line length.
//
// IsValid is false when the columns are inverted, the line is empty, or the
// start column lies beyond the line's end. Callers skip injection for invalid
// results instead of treating them as errors.
func ColumnsToIndices(lineText string, startCol, endCol int) Indices {
	length := utf8.RuneCountInString(lineText)

	start := startCol - 1
	if start < 0 {
		start = 0
	}

	end := length
	if endCol != ToLineEnd && endCol-1 < length {
		end = endCol - 1
	}
	if end < 0 {
		end = 0
	}

	if startCol > endCol || length == 0 || start >= length {
		return Indices{Start: start, End: end, IsValid: false}
	}

	return Indices{Start: start, End: end, IsValid: true}
}
