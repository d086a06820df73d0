package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// FenceState is the renderer state carried across successive line renders.
// It is threaded explicitly by the caller; concurrent render passes must each
// keep an independent value.
type FenceState struct {
	InCodeBlock bool
	Lang        string
}

// LineKind classifies the output of a single line render.
type LineKind int

const (
	KindMarkdown   LineKind = iota // block or inline markdown
	KindFenceOpen                  // opening ``` delimiter
	KindFenceClose                 // closing ``` delimiter
	KindCode                       // raw line inside a fenced code block
)

// Line is the result of rendering one source line.
type Line struct {
	Kind LineKind
	HTML string
	Lang string // active code block language for KindFenceOpen/KindCode
}

// CheckboxState is the normalized tri-state of a checkbox list item.
type CheckboxState string

const (
	CheckboxUnchecked  CheckboxState = "unchecked"
	CheckboxInProgress CheckboxState = "in-progress"
	CheckboxChecked    CheckboxState = "checked"
)

var (
	fenceOpenPattern  = regexp.MustCompile("^```([A-Za-z0-9_+-]*)\\s*$")
	fenceClosePattern = regexp.MustCompile("^```\\s*$")
	headingPattern    = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	checkboxPattern   = regexp.MustCompile(`^(\s*)[-*+]\s+\[( |~|x|X)\]\s?(.*)$`)
	unorderedPattern  = regexp.MustCompile(`^(\s*)[-*+]\s+(.*)$`)
	orderedPattern    = regexp.MustCompile(`^(\s*)(\d+)\.\s+(.*)$`)
	blockquotePattern = regexp.MustCompile(`^>\s?(.*)$`)
	hrPattern         = regexp.MustCompile(`^(\s*)(-{3,}|\*{3,}|_{3,})\s*$`)

	inlineCodePattern   = regexp.MustCompile("`([^`]+)`")
	imagePattern        = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	linkPattern         = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	boldItalicPattern   = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	boldPattern         = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicStarPattern   = regexp.MustCompile(`\*([^*]+)\*`)
	italicUnderPattern  = regexp.MustCompile(`_([^_]+)_`)
	strikethroughRegex  = regexp.MustCompile(`~~(.+?)~~`)
	codePlaceholderExpr = regexp.MustCompile("\x00(\\d+)\x00")
)

// RenderLine turns one raw source line into HTML, advancing the fence state.
// lineNum is the 1-indexed source line number, emitted on stateful elements
// (checkboxes) so the host can re-apply toggles without re-parsing markdown.
//
// Inside a fenced block, lines are not markdown-processed: the caller routes
// code content through a syntax highlighter and consumes its HTML via
// SplitLines. The HTML returned here for KindCode is an escaped fallback.
func RenderLine(lineNum int, line string, st FenceState) (Line, FenceState) {
	trimmed := strings.TrimSpace(line)

	if st.InCodeBlock {
		if fenceClosePattern.MatchString(trimmed) {
			return Line{
				Kind: KindFenceClose,
				HTML: `<span class="md-fence">` + html.EscapeString(trimmed) + `</span>`,
			}, FenceState{}
		}
		return Line{
			Kind: KindCode,
			HTML: `<span class="code-line">` + html.EscapeString(line) + `</span>`,
			Lang: st.Lang,
		}, st
	}

	if m := fenceOpenPattern.FindStringSubmatch(trimmed); m != nil {
		lang := m[1]
		if lang == "" {
			lang = "plaintext"
		}
		next := FenceState{InCodeBlock: true, Lang: lang}
		return Line{
			Kind: KindFenceOpen,
			HTML: `<span class="md-fence">` + html.EscapeString(trimmed) + `</span>`,
			Lang: lang,
		}, next
	}

	return Line{Kind: KindMarkdown, HTML: renderBlock(lineNum, line)}, st
}

// renderBlock applies block-level markdown to a line outside code fences.
func renderBlock(lineNum int, line string) string {
	if m := headingPattern.FindStringSubmatch(line); m != nil {
		level := len(m[1])
		return fmt.Sprintf(`<span class="md-h%d">%s</span>`, level, renderInline(m[2]))
	}

	if m := checkboxPattern.FindStringSubmatch(line); m != nil {
		state := checkboxState(m[2])
		return fmt.Sprintf(
			`<span class="md-checkbox md-clickable" data-line="%d" data-state="%s"><span class="checkbox-box">[%s]</span> %s</span>`,
			lineNum, state, m[2], renderInline(m[3]),
		)
	}

	if hrPattern.MatchString(line) {
		return `<span class="md-hr"></span>`
	}

	if m := unorderedPattern.FindStringSubmatch(line); m != nil {
		return fmt.Sprintf(`<span class="md-list-item">%s&bull; %s</span>`, m[1], renderInline(m[2]))
	}

	if m := orderedPattern.FindStringSubmatch(line); m != nil {
		return fmt.Sprintf(`<span class="md-list-item md-ordered">%s%s. %s</span>`, m[1], m[2], renderInline(m[3]))
	}

	if m := blockquotePattern.FindStringSubmatch(line); m != nil {
		return `<span class="md-blockquote">` + renderInline(m[1]) + `</span>`
	}

	return renderInline(line)
}

// renderInline escapes a line's literal text and applies inline markdown.
// Inline code spans are extracted first so their content is exempt from
// further formatting.
func renderInline(text string) string {
	escaped := html.EscapeString(text)

	var codeSpans []string
	escaped = inlineCodePattern.ReplaceAllStringFunc(escaped, func(m string) string {
		inner := m[1 : len(m)-1]
		codeSpans = append(codeSpans, inner)
		return fmt.Sprintf("\x00%d\x00", len(codeSpans)-1)
	})

	escaped = imagePattern.ReplaceAllString(escaped, `<img class="md-image" src="$2" alt="$1"/>`)
	escaped = linkPattern.ReplaceAllString(escaped, `<a class="md-link" href="$2">$1</a>`)
	escaped = boldItalicPattern.ReplaceAllString(escaped, `<strong><em>$1</em></strong>`)
	escaped = boldPattern.ReplaceAllString(escaped, `<strong>$1</strong>`)
	escaped = italicStarPattern.ReplaceAllString(escaped, `<em>$1</em>`)
	escaped = italicUnderPattern.ReplaceAllString(escaped, `<em>$1</em>`)
	escaped = strikethroughRegex.ReplaceAllString(escaped, `<del>$1</del>`)

	escaped = codePlaceholderExpr.ReplaceAllStringFunc(escaped, func(m string) string {
		var idx int
		_, _ = fmt.Sscanf(m, "\x00%d\x00", &idx)
		return `<code class="md-code">` + codeSpans[idx] + `</code>`
	})

	return escaped
}

// checkboxState normalizes a checkbox marker character.
func checkboxState(marker string) CheckboxState {
	switch marker {
	case "~":
		return CheckboxInProgress
	case "x", "X":
		return CheckboxChecked
	default:
		return CheckboxUnchecked
	}
}

// CycleCheckbox advances the checkbox marker on a source line through the
// tri-state cycle unchecked -> in-progress -> checked -> unchecked. Lines
// without a checkbox marker are returned unchanged.
func CycleCheckbox(line string) string {
	m := checkboxPattern.FindStringSubmatchIndex(line)
	if m == nil {
		return line
	}

	// Submatch 2 is the marker character.
	start, end := m[4], m[5]
	var next string
	switch line[start:end] {
	case " ":
		next = "~"
	case "~":
		next = "x"
	default:
		next = " "
	}

	return line[:start] + next + line[end:]
}
