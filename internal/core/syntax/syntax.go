// Package syntax highlights fenced code block content as HTML using chroma.
// Its output feeds the render package's line splitter, so the formatter is
// configured to emit inline styles with no surrounding pre/code scaffolding.
package syntax

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "tokyonight-night"

// Chroma is a Highlighter backed by the chroma lexer/formatter pipeline.
type Chroma struct {
	style *chroma.Style
}

// New creates a highlighter for the named chroma style, falling back to the
// default style for unknown names.
func New(styleName string) *Chroma {
	style := styles.Get(styleName)
	if style == nil || style == styles.Fallback && styleName != "" {
		style = styles.Get(DefaultStyle)
	}
	if style == nil {
		style = styles.Fallback
	}
	return &Chroma{style: style}
}

// Highlight renders code as inline-styled HTML. Unknown languages fall back
// to the plaintext lexer, so Highlight only fails on formatter errors.
func (c *Chroma) Highlight(code, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", lang, err)
	}

	// PreventSurroundingPre keeps the output a flat run of spans: one text
	// line per source line, which is what SplitLines expects.
	formatter := html.New(
		html.WithClasses(false),
		html.PreventSurroundingPre(true),
	)

	var b strings.Builder
	if err := formatter.Format(&b, c.style, iterator); err != nil {
		return "", fmt.Errorf("format %s: %w", lang, err)
	}

	return b.String(), nil
}
