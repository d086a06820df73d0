// Package anchor captures content fingerprints for annotations and re-locates
// them after the underlying document changes.
package anchor

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/colonyops/margin/internal/core/annotation"
)

// DefaultContextWindow is the number of characters captured on each side of
// the selection.
const DefaultContextWindow = 32

// Reason explains a relocation outcome. Empty means a clean context match.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonLineFallback Reason = "line_fallback"
	ReasonNotFound     Reason = "not_found"
)

// Result is the outcome of a relocation attempt. When Found is false the
// caller keeps the annotation but must surface it as orphaned until the user
// acts; user data is never silently dropped.
type Result struct {
	Found  bool
	Range  annotation.Range
	Reason Reason
}

// HashText returns the SHA256 hex fingerprint used to disambiguate repeated
// selections.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Capture builds an immutable anchor for a range against the then-current
// content. window is the context size per side; zero uses the default.
func Capture(content string, rng annotation.Range, side annotation.Side, window int) annotation.Anchor {
	if window <= 0 {
		window = DefaultContextWindow
	}

	start, end := rangeOffsets(content, rng)
	selected := content[start:end]

	beforeStart := start - window
	if beforeStart < 0 {
		beforeStart = 0
	}
	afterEnd := end + window
	if afterEnd > len(content) {
		afterEnd = len(content)
	}

	return annotation.Anchor{
		Side:          side,
		SelectedText:  selected,
		TextHash:      HashText(selected),
		ContextBefore: content[beforeStart:start],
		ContextAfter:  content[end:afterEnd],
		OriginalLine:  rng.StartLine,
	}
}

// NeedsRelocation reports whether the stored range no longer points at the
// anchor's selected text in newContent.
func NeedsRelocation(newContent string, a annotation.Anchor, rng annotation.Range) bool {
	start, end := rangeOffsets(newContent, rng)
	if start < 0 || end > len(newContent) || start > end {
		return true
	}
	return newContent[start:end] != a.SelectedText
}

// Relocate re-finds the anchor's selection in newContent.
//
// The context path searches for contextBefore+selected+contextAfter (falling
// back to partial context near document edges) and succeeds only on a unique
// occurrence; multiple equally good matches deliberately fall through rather
// than guessing. The fallback path accepts the original line when it still
// contains the selected text verbatim.
func Relocate(newContent string, a annotation.Anchor) Result {
	if a.SelectedText == "" {
		return Result{Found: false, Reason: ReasonNotFound}
	}

	patterns := []struct {
		text   string
		selOff int // byte offset of the selection within the pattern
	}{
		{a.ContextBefore + a.SelectedText + a.ContextAfter, len(a.ContextBefore)},
		{a.ContextBefore + a.SelectedText, len(a.ContextBefore)},
		{a.SelectedText + a.ContextAfter, 0},
	}

	for _, p := range patterns {
		if p.text == a.SelectedText && (a.ContextBefore != "" || a.ContextAfter != "") {
			// Degenerate pattern; the bare selection is too ambiguous to
			// trust on the context path.
			continue
		}
		switch offs := findAll(newContent, p.text); len(offs) {
		case 0:
			continue
		case 1:
			selStart := offs[0] + p.selOff
			return Result{
				Found: true,
				Range: offsetRange(newContent, selStart, selStart+len(a.SelectedText)),
			}
		default:
			// Ambiguous; refuse to guess and fall back to the line check.
			return lineFallback(newContent, a)
		}
	}

	return lineFallback(newContent, a)
}

// lineFallback checks whether the line at the anchor's original position
// still contains the selected text.
func lineFallback(newContent string, a annotation.Anchor) Result {
	lines := strings.Split(newContent, "\n")
	if a.OriginalLine < 1 || a.OriginalLine > len(lines) {
		return Result{Found: false, Reason: ReasonNotFound}
	}

	line := lines[a.OriginalLine-1]
	idx := strings.Index(line, a.SelectedText)
	if idx < 0 || HashText(a.SelectedText) != a.TextHash {
		return Result{Found: false, Reason: ReasonNotFound}
	}

	startCol := utf8.RuneCountInString(line[:idx]) + 1
	endCol := startCol + utf8.RuneCountInString(a.SelectedText)
	return Result{
		Found: true,
		Range: annotation.Range{
			StartLine:   a.OriginalLine,
			StartColumn: startCol,
			EndLine:     a.OriginalLine,
			EndColumn:   endCol,
		},
		Reason: ReasonLineFallback,
	}
}

// findAll returns the byte offsets of every occurrence of pattern.
func findAll(content, pattern string) []int {
	if pattern == "" {
		return nil
	}
	var offs []int
	from := 0
	for {
		idx := strings.Index(content[from:], pattern)
		if idx < 0 {
			return offs
		}
		offs = append(offs, from+idx)
		from += idx + 1
	}
}

// rangeOffsets converts a 1-based line/column range into byte offsets within
// content. Out-of-bounds positions clamp to the content edges.
func rangeOffsets(content string, rng annotation.Range) (int, int) {
	lines := strings.Split(content, "\n")
	start := lineColToOffset(lines, rng.StartLine, rng.StartColumn)
	end := lineColToOffset(lines, rng.EndLine, rng.EndColumn)
	if end < start {
		end = start
	}
	return start, end
}

// lineColToOffset converts a 1-based line/column position to a byte offset.
func lineColToOffset(lines []string, line, col int) int {
	if line < 1 {
		return 0
	}

	offset := 0
	for i := 0; i < line-1 && i < len(lines); i++ {
		offset += len(lines[i]) + 1 // +1 for the newline
	}
	if line > len(lines) {
		return offset
	}

	text := lines[line-1]
	runeIdx := col - 1
	if runeIdx < 0 {
		runeIdx = 0
	}
	byteIdx := 0
	for i := 0; i < runeIdx && byteIdx < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[byteIdx:])
		byteIdx += size
	}
	return offset + byteIdx
}

// offsetRange converts a byte offset span back into a 1-based line/column
// range.
func offsetRange(content string, start, end int) annotation.Range {
	startLine, startCol := offsetToLineCol(content, start)
	endLine, endCol := offsetToLineCol(content, end)
	return annotation.Range{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}

// offsetToLineCol converts a byte offset into a 1-based line/column pair.
func offsetToLineCol(content string, offset int) (int, int) {
	if offset > len(content) {
		offset = len(content)
	}

	line := 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if content[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	col := utf8.RuneCountInString(content[lineStart:offset]) + 1
	return line, col
}
