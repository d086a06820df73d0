package render

import (
	"fmt"

	"github.com/colonyops/margin/internal/core/annotation"
)

// highlightOpen formats the opening highlight wrapper. The comment id and
// status class are consumed by the host to attach click handlers and gutter
// indicators.
func highlightOpen(annotationID, statusClass string) string {
	return fmt.Sprintf(`<span class="comment-highlight %s" data-comment-id="%s">`, statusClass, annotationID)
}

const highlightClose = "</span>"

// InjectHighlight wraps the covered column range of an already-rendered line
// in a highlight marker. linePlain is the source line's plain text the
// columns refer to; lineHTML is the rendered markup to splice into.
//
// Splice points are resolved through the plain<->HTML mapping, so the output
// never splits inside a tag or entity and is well-formed whenever lineHTML
// is. When the computed range is invalid, or the rendered text is too short
// to carry it, the whole line is wrapped instead so the annotation stays
// visually represented even on stale ranges.
func InjectHighlight(lineHTML, linePlain string, startCol, endCol int, annotationID, statusClass string) string {
	idx := annotation.ColumnsToIndices(linePlain, startCol, endCol)
	if !idx.IsValid {
		return wrapWhole(lineHTML, annotationID, statusClass)
	}

	m := BuildMapping(lineHTML)

	// The rendered text content can be shorter than the source line (inline
	// markdown markers do not survive rendering). Clamp, and fall back to a
	// whole-line wrap when the start is out of rendered range.
	start, end := idx.Start, idx.End
	if end > m.PlainLen() {
		end = m.PlainLen()
	}
	if start >= end || start >= m.PlainLen() {
		return wrapWhole(lineHTML, annotationID, statusClass)
	}

	cutStart := m.HTMLStart(start)
	cutEnd := m.HTMLEnd(end - 1)

	return lineHTML[:cutStart] +
		highlightOpen(annotationID, statusClass) +
		lineHTML[cutStart:cutEnd] +
		highlightClose +
		lineHTML[cutEnd:]
}

func wrapWhole(lineHTML, annotationID, statusClass string) string {
	return highlightOpen(annotationID, statusClass) + lineHTML + highlightClose
}
