// Package diff parses unified diff text and reconstructs per-side documents
// so diff annotations can anchor and relocate against one revision.
package diff

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/colonyops/margin/internal/core/annotation"
)

// Kind classifies a line in a unified diff.
type Kind int

const (
	KindContext Kind = iota // present in both revisions
	KindAdd                 // "+" line, new revision only
	KindDelete              // "-" line, old revision only
	KindHunk                // @@ ... @@ header
	KindFileHeader          // --- or +++ header
)

// Line is a single parsed diff line with per-side line numbers.
// OldLine/NewLine are 0 when the line does not exist on that side.
type Line struct {
	Kind    Kind
	Content string // without the +/-/space prefix
	OldLine int
	NewLine int
	Raw     string
}

// Hunk is the parsed metadata of a hunk header.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Section  string // optional text after the closing @@
}

// Parse parses unified diff text into lines, tracking old and new line
// numbers through hunks.
func Parse(patch string) ([]Line, error) {
	var (
		result  []Line
		oldLine int
		newLine int
		inHunk  bool
	)

	for _, raw := range strings.Split(patch, "\n") {
		if raw == "" {
			continue
		}

		if strings.HasPrefix(raw, "---") || strings.HasPrefix(raw, "+++") {
			result = append(result, Line{Kind: KindFileHeader, Content: raw, Raw: raw})
			continue
		}

		if strings.HasPrefix(raw, "@@") {
			hunk, err := parseHunk(raw)
			if err != nil {
				return nil, fmt.Errorf("parse hunk header: %w", err)
			}
			result = append(result, Line{
				Kind:    KindHunk,
				Content: raw,
				OldLine: hunk.OldStart,
				NewLine: hunk.NewStart,
				Raw:     raw,
			})
			oldLine = hunk.OldStart
			newLine = hunk.NewStart
			inHunk = true
			continue
		}

		if !inHunk {
			continue
		}

		content := raw[1:]
		switch raw[0] {
		case '+':
			result = append(result, Line{Kind: KindAdd, Content: content, NewLine: newLine, Raw: raw})
			newLine++
		case '-':
			result = append(result, Line{Kind: KindDelete, Content: content, OldLine: oldLine, Raw: raw})
			oldLine++
		case ' ':
			result = append(result, Line{Kind: KindContext, Content: content, OldLine: oldLine, NewLine: newLine, Raw: raw})
			oldLine++
			newLine++
		default:
			// Unknown prefix, skip.
		}
	}

	return result, nil
}

// parseHunk parses a header like "@@ -1,7 +1,8 @@ func name".
func parseHunk(raw string) (Hunk, error) {
	closeIdx := strings.Index(raw[2:], "@@")
	if closeIdx < 0 {
		return Hunk{}, fmt.Errorf("missing closing @@")
	}
	closeIdx += 2

	section := ""
	if closeIdx+2 < len(raw) {
		section = strings.TrimSpace(raw[closeIdx+2:])
	}

	parts := strings.Fields(strings.TrimSpace(raw[2:closeIdx]))
	if len(parts) != 2 {
		return Hunk{}, fmt.Errorf("expected 2 ranges, got %d", len(parts))
	}
	if !strings.HasPrefix(parts[0], "-") || !strings.HasPrefix(parts[1], "+") {
		return Hunk{}, fmt.Errorf("malformed ranges %q %q", parts[0], parts[1])
	}

	oldStart, oldCount, err := parseSpan(parts[0][1:])
	if err != nil {
		return Hunk{}, fmt.Errorf("old range: %w", err)
	}
	newStart, newCount, err := parseSpan(parts[1][1:])
	if err != nil {
		return Hunk{}, fmt.Errorf("new range: %w", err)
	}

	return Hunk{
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
		Section:  section,
	}, nil
}

// parseSpan parses "12,7" or "12" (count defaults to 1).
func parseSpan(s string) (start, count int, err error) {
	parts := strings.Split(s, ",")
	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse start: %w", err)
	}

	count = 1
	if len(parts) == 2 {
		count, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("parse count: %w", err)
		}
	} else if len(parts) > 2 {
		return 0, 0, fmt.Errorf("invalid span %q", s)
	}

	return start, count, nil
}

// SideView is one revision's text reconstructed from a diff. Only lines that
// appear in hunks are present; gaps between hunks are unknown.
type SideView struct {
	Side  annotation.Side
	lines map[int]string
	max   int
}

// NewSideView returns the reconstruction of one side of a parsed diff.
func NewSideView(lines []Line, side annotation.Side) SideView {
	view := SideView{Side: side, lines: make(map[int]string)}

	for _, l := range lines {
		var num int
		switch side {
		case annotation.SideOld:
			if l.Kind != KindDelete && l.Kind != KindContext {
				continue
			}
			num = l.OldLine
		case annotation.SideNew:
			if l.Kind != KindAdd && l.Kind != KindContext {
				continue
			}
			num = l.NewLine
		default:
			continue
		}

		view.lines[num] = l.Content
		if num > view.max {
			view.max = num
		}
	}

	return view
}

// LineText returns the text of a 1-indexed line, and whether the diff
// contains it.
func (v SideView) LineText(n int) (string, bool) {
	text, ok := v.lines[n]
	return text, ok
}

// MaxLine returns the highest line number present on this side.
func (v SideView) MaxLine() int { return v.max }

// LineNumbers returns the sorted line numbers present on this side.
func (v SideView) LineNumbers() []int {
	nums := make([]int, 0, len(v.lines))
	for n := range v.lines {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Content joins the side's lines into a single string for anchoring. Gaps
// between hunks become empty lines so line numbers stay aligned.
func (v SideView) Content() string {
	if v.max == 0 {
		return ""
	}

	out := make([]string, v.max)
	for n, text := range v.lines {
		out[n-1] = text
	}
	return strings.Join(out, "\n")
}
