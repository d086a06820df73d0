package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMappingPlainText(t *testing.T) {
	m := BuildMapping("hello")

	require.Equal(t, 5, m.PlainLen())
	assert.Equal(t, 0, m.HTMLStart(0))
	assert.Equal(t, 1, m.HTMLEnd(0))
	assert.Equal(t, 4, m.HTMLStart(4))
	assert.Equal(t, 5, m.HTMLEnd(4))
}

func TestBuildMappingSkipsTags(t *testing.T) {
	html := `<span class="x">ab</span>`
	m := BuildMapping(html)

	require.Equal(t, 2, m.PlainLen())
	assert.Equal(t, "a", html[m.HTMLStart(0):m.HTMLEnd(0)])
	assert.Equal(t, "b", html[m.HTMLStart(1):m.HTMLEnd(1)])
}

func TestBuildMappingEntities(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		plainLen int
		spans    []string
	}{
		{
			name:     "named entity is one plain char",
			html:     "a&amp;b",
			plainLen: 3,
			spans:    []string{"a", "&amp;", "b"},
		},
		{
			name:     "decimal numeric reference",
			html:     "x&#233;y",
			plainLen: 3,
			spans:    []string{"x", "&#233;", "y"},
		},
		{
			name:     "hex numeric reference",
			html:     "&#x1F;!",
			plainLen: 2,
			spans:    []string{"&#x1F;", "!"},
		},
		{
			name:     "lone ampersand is literal",
			html:     "a & b",
			plainLen: 5,
			spans:    []string{"a", " ", "&", " ", "b"},
		},
		{
			name:     "unknown entity falls back to literal ampersand",
			html:     "&bogus;",
			plainLen: 7,
			spans:    []string{"&", "b", "o", "g", "u", "s", ";"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildMapping(tt.html)
			require.Equal(t, tt.plainLen, m.PlainLen())
			for i, want := range tt.spans {
				assert.Equal(t, want, tt.html[m.HTMLStart(i):m.HTMLEnd(i)], "plain index %d", i)
			}
		})
	}
}

func TestBuildMappingMultibyte(t *testing.T) {
	html := "<b>é</b>"
	m := BuildMapping(html)

	require.Equal(t, 1, m.PlainLen())
	assert.Equal(t, "é", html[m.HTMLStart(0):m.HTMLEnd(0)])
}

func TestBuildMappingMixed(t *testing.T) {
	// "if a<b then" escaped and wrapped
	html := `<code>if a&lt;b</code> then`
	m := BuildMapping(html)

	// plain text is "if a<b then"
	require.Equal(t, 11, m.PlainLen())
	assert.Equal(t, "&lt;", html[m.HTMLStart(4):m.HTMLEnd(4)])
	assert.Equal(t, "t", html[m.HTMLStart(7):m.HTMLEnd(7)])
}
