package render

import (
	"fmt"
	"strings"

	"github.com/colonyops/margin/internal/core/annotation"
)

// Highlighter produces syntax-highlighted HTML for fenced code block content.
// Implementations are external collaborators; their output is consumed as raw
// HTML by SplitLines and must be well-formed.
type Highlighter interface {
	Highlight(code, lang string) (string, error)
}

// LineFragment is one rendered line of a document: well-formed HTML carrying
// a data-line wrapper. Fragments are ephemeral, produced per render pass.
type LineFragment struct {
	Line int // 1-indexed source line
	HTML string
}

// DocumentOptions controls a document render pass.
type DocumentOptions struct {
	IncludeResolved bool
	Highlighter     Highlighter // nil = escaped plaintext code blocks
}

// RenderDocument renders every line of content to HTML, routing fenced code
// blocks through the syntax highlighter and injecting highlight wrappers for
// each line covered by an annotation.
func RenderDocument(content string, comments []annotation.Annotation, opts DocumentOptions) []LineFragment {
	lines := strings.Split(content, "\n")
	base := renderLines(lines, opts.Highlighter)

	visible := annotation.FilterByStatus(comments, opts.IncludeResolved)
	groups := annotation.GroupByCoveredLines(visible)

	fragments := make([]LineFragment, len(lines))
	for i, src := range lines {
		lineNum := i + 1
		htmlLine := base[i]

		// Inject right-to-left so earlier splice points stay valid when a
		// line carries more than one annotation.
		for _, a := range annotation.SortByColumnDesc(groups[lineNum]) {
			cov := annotation.CoverageForLine(a.Range, lineNum)
			if !cov.IsCovered {
				continue
			}
			htmlLine = InjectHighlight(htmlLine, src, cov.StartColumn, cov.EndColumn, a.ID, a.Status.CSSClass())
		}

		fragments[i] = LineFragment{
			Line: lineNum,
			HTML: fmt.Sprintf(`<div class="line" data-line="%d">%s</div>`, lineNum, htmlLine),
		}
	}

	return fragments
}

// renderLines produces base HTML per source line: markdown outside fences,
// highlighter fragments inside. The fence state is threaded through the
// whole pass as a value.
func renderLines(lines []string, hl Highlighter) []string {
	base := make([]string, len(lines))

	var (
		st         FenceState
		blockStart int      // index of first code line in the open block
		blockLines []string // raw code lines of the open block
		blockLang  string
	)

	flushBlock := func() {
		if blockLines == nil {
			return
		}
		highlightCodeBlock(base, blockStart, blockLines, blockLang, hl)
		blockLines = nil
	}

	for i, src := range lines {
		line, next := RenderLine(i+1, src, st)
		base[i] = line.HTML

		switch line.Kind {
		case KindFenceOpen:
			blockStart = i + 1
			blockLines = []string{}
			blockLang = line.Lang
		case KindCode:
			if blockLines != nil {
				blockLines = append(blockLines, src)
			}
		case KindFenceClose:
			flushBlock()
		}

		st = next
	}

	// Unterminated fence at EOF still gets highlighted.
	flushBlock()

	return base
}

// highlightCodeBlock replaces the escaped fallback HTML of a code block's
// lines with the highlighter's per-line fragments. The block is highlighted
// as a whole so multi-line tokens carry consistent styling, then split back
// into balanced per-line fragments. On any mismatch the escaped fallback is
// kept.
func highlightCodeBlock(base []string, start int, codeLines []string, lang string, hl Highlighter) {
	if hl == nil || len(codeLines) == 0 {
		return
	}

	highlighted, err := hl.Highlight(strings.Join(codeLines, "\n"), lang)
	if err != nil {
		return
	}

	frags := SplitLines(strings.TrimSuffix(highlighted, "\n"))
	if len(frags) != len(codeLines) {
		return
	}

	for i, frag := range frags {
		base[start+i] = frag
	}
}
