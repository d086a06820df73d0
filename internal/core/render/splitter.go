package render

import "strings"

// voidElements never take a closing tag and never enter the open-tag stack.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {},
	"track": {}, "wbr": {},
}

// openTag records a tag currently open while scanning, keeping its original
// raw form so it can be reopened with identical attributes.
type openTag struct {
	name string
	raw  string
}

// SplitLines splits html at newlines in its text content into independently
// well-formed fragments: one fragment per newline plus one. Tags open at a
// line boundary are closed in reverse order to terminate the fragment and
// reopened in original order at the start of the next. Blank lines still
// produce a (possibly empty) fragment.
//
// The input is assumed well-formed; the balance guarantee only holds under
// that assumption.
func SplitLines(html string) []string {
	var (
		fragments []string
		current   strings.Builder
		stack     []openTag
	)

	flush := func() {
		for i := len(stack) - 1; i >= 0; i-- {
			current.WriteString("</" + stack[i].name + ">")
		}
		fragments = append(fragments, current.String())
		current.Reset()
		for _, t := range stack {
			current.WriteString(t.raw)
		}
	}

	i := 0
	for i < len(html) {
		if html[i] == '<' {
			end := tagEnd(html, i)
			raw := html[i:end]
			name, kind := parseTag(raw)

			switch kind {
			case tagClose:
				// Pop the matching open tag; well-formed input closes in
				// reverse order of opening.
				for j := len(stack) - 1; j >= 0; j-- {
					if stack[j].name == name {
						stack = append(stack[:j], stack[j+1:]...)
						break
					}
				}
			case tagOpen:
				stack = append(stack, openTag{name: name, raw: raw})
			case tagSelfClosing:
				// Never stacked.
			}

			current.WriteString(raw)
			i = end
			continue
		}

		if html[i] == '\n' {
			flush()
			i++
			continue
		}

		current.WriteByte(html[i])
		i++
	}

	flush()
	return fragments
}

type tagKind int

const (
	tagOpen tagKind = iota
	tagClose
	tagSelfClosing
)

// parseTag extracts the lowercase tag name and classifies the raw tag.
func parseTag(raw string) (string, tagKind) {
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, "<"), ">")

	kind := tagOpen
	if strings.HasPrefix(inner, "/") {
		inner = inner[1:]
		kind = tagClose
	} else if strings.HasSuffix(inner, "/") {
		inner = strings.TrimSuffix(inner, "/")
		kind = tagSelfClosing
	}

	name := inner
	if idx := strings.IndexAny(inner, " \t\n"); idx >= 0 {
		name = inner[:idx]
	}
	name = strings.ToLower(name)

	if kind == tagOpen {
		if _, void := voidElements[name]; void {
			kind = tagSelfClosing
		}
	}

	return name, kind
}
