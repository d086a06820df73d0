// Package render turns document lines into annotated HTML fragments. All
// functions are pure; the only carried state is the fence state threaded
// explicitly by the caller.
package render

import "unicode/utf8"

// namedEntities are the HTML entities the mapper recognizes. Each contributes
// exactly one plain character however many HTML characters it spans.
var namedEntities = map[string]struct{}{
	"&amp;":  {},
	"&lt;":   {},
	"&gt;":   {},
	"&quot;": {},
	"&#039;": {},
	"&#39;":  {},
	"&apos;": {},
	"&nbsp;": {},
}

// Mapping indexes between plain-text character offsets and byte offsets in an
// HTML string containing tags and entities. For every plain index i,
// HTMLStart(i) and HTMLEnd(i) give the HTML byte range representing that one
// plain character: the whole entity span for entities, the single (possibly
// multi-byte) character otherwise. Tag markup contributes no plain characters.
type Mapping struct {
	starts []int
	ends   []int
}

// PlainLen returns the number of plain characters in the mapped HTML.
func (m Mapping) PlainLen() int { return len(m.starts) }

// HTMLStart returns the HTML byte offset where plain character i begins.
func (m Mapping) HTMLStart(i int) int { return m.starts[i] }

// HTMLEnd returns the HTML byte offset just past plain character i.
func (m Mapping) HTMLEnd(i int) int { return m.ends[i] }

// BuildMapping scans html left to right and builds the plain<->HTML index.
// Text between tags contributes one plain character per literal character;
// recognized entities contribute one plain character for their whole span; an
// ampersand not forming a known entity is treated as a literal character.
func BuildMapping(html string) Mapping {
	var m Mapping

	i := 0
	for i < len(html) {
		switch html[i] {
		case '<':
			// Skip tag markup entirely.
			end := tagEnd(html, i)
			i = end
		case '&':
			if span := entitySpan(html, i); span > 0 {
				m.starts = append(m.starts, i)
				m.ends = append(m.ends, i+span)
				i += span
				continue
			}
			m.starts = append(m.starts, i)
			m.ends = append(m.ends, i+1)
			i++
		default:
			_, size := utf8.DecodeRuneInString(html[i:])
			m.starts = append(m.starts, i)
			m.ends = append(m.ends, i+size)
			i += size
		}
	}

	return m
}

// tagEnd returns the byte offset just past the '>' closing the tag opened at
// start. An unterminated tag consumes the rest of the string.
func tagEnd(html string, start int) int {
	for i := start + 1; i < len(html); i++ {
		if html[i] == '>' {
			return i + 1
		}
	}
	return len(html)
}

// entitySpan returns the byte length of the recognized entity starting at i,
// or 0 if the ampersand does not begin a known entity. Numeric references
// (&#NN; and &#xHH;) are always recognized.
func entitySpan(html string, i int) int {
	// Entities are short; cap the scan for the terminating semicolon.
	limit := i + 10
	if limit > len(html) {
		limit = len(html)
	}

	for j := i + 1; j < limit; j++ {
		if html[j] != ';' {
			continue
		}
		candidate := html[i : j+1]
		if _, ok := namedEntities[candidate]; ok {
			return j + 1 - i
		}
		if isNumericEntity(candidate) {
			return j + 1 - i
		}
		return 0
	}
	return 0
}

// isNumericEntity reports whether s is a numeric character reference like
// &#123; or &#x1F;.
func isNumericEntity(s string) bool {
	if len(s) < 4 || s[0] != '&' || s[1] != '#' || s[len(s)-1] != ';' {
		return false
	}

	body := s[2 : len(s)-1]
	if body[0] == 'x' || body[0] == 'X' {
		body = body[1:]
		if body == "" {
			return false
		}
		for i := 0; i < len(body); i++ {
			c := body[i]
			if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
				return false
			}
		}
		return true
	}

	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return false
		}
	}
	return true
}
