package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLineFenceStateMachine(t *testing.T) {
	var st FenceState

	line, st := RenderLine(1, "```go", st)
	assert.Equal(t, KindFenceOpen, line.Kind)
	assert.Equal(t, "go", line.Lang)
	assert.True(t, st.InCodeBlock)
	assert.Equal(t, "go", st.Lang)

	line, st = RenderLine(2, "# not a heading", st)
	assert.Equal(t, KindCode, line.Kind, "markdown is inert inside a fence")
	assert.Contains(t, line.HTML, "# not a heading")
	assert.NotContains(t, line.HTML, "md-h1")

	line, st = RenderLine(3, "```", st)
	assert.Equal(t, KindFenceClose, line.Kind)
	assert.False(t, st.InCodeBlock)

	line, _ = RenderLine(4, "# real heading", st)
	assert.Equal(t, KindMarkdown, line.Kind)
	assert.Contains(t, line.HTML, "md-h1")
}

func TestRenderLineFenceWithoutLanguage(t *testing.T) {
	line, st := RenderLine(1, "```", FenceState{})

	assert.Equal(t, KindFenceOpen, line.Kind)
	assert.Equal(t, "plaintext", line.Lang)
	assert.True(t, st.InCodeBlock)
}

func TestRenderLineCodeEscapesHTML(t *testing.T) {
	st := FenceState{InCodeBlock: true, Lang: "go"}
	line, _ := RenderLine(2, "if a < b {", st)

	assert.Equal(t, KindCode, line.Kind)
	assert.Contains(t, line.HTML, "a &lt; b")
}

func TestRenderBlock(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		contains []string
	}{
		{
			name:     "heading levels",
			line:     "### Section",
			contains: []string{"md-h3", "Section"},
		},
		{
			name:     "unordered list",
			line:     "- item one",
			contains: []string{"md-list-item", "&bull;", "item one"},
		},
		{
			name:     "ordered list",
			line:     "2. second",
			contains: []string{"md-ordered", "2. second"},
		},
		{
			name:     "blockquote",
			line:     "> quoted text",
			contains: []string{"md-blockquote", "quoted text"},
		},
		{
			name:     "horizontal rule",
			line:     "---",
			contains: []string{"md-hr"},
		},
		{
			name:     "unchecked checkbox",
			line:     "- [ ] Todo item",
			contains: []string{"md-checkbox", `data-state="unchecked"`, `data-line="1"`, "[ ]", "Todo item"},
		},
		{
			name:     "in-progress checkbox",
			line:     "- [~] Halfway",
			contains: []string{`data-state="in-progress"`, "[~]"},
		},
		{
			name:     "checked checkbox",
			line:     "- [x] Done",
			contains: []string{`data-state="checked"`, "[x]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, _ := RenderLine(1, tt.line, FenceState{})
			require.Equal(t, KindMarkdown, line.Kind)
			for _, want := range tt.contains {
				assert.Contains(t, line.HTML, want)
			}
		})
	}
}

func TestRenderInline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bold",
			in:   "a **b** c",
			want: "a <strong>b</strong> c",
		},
		{
			name: "italic star",
			in:   "a *b* c",
			want: "a <em>b</em> c",
		},
		{
			name: "italic underscore",
			in:   "a _b_ c",
			want: "a <em>b</em> c",
		},
		{
			name: "bold italic",
			in:   "***b***",
			want: "<strong><em>b</em></strong>",
		},
		{
			name: "strikethrough",
			in:   "~~gone~~",
			want: "<del>gone</del>",
		},
		{
			name: "link",
			in:   "[site](https://example.com)",
			want: `<a class="md-link" href="https://example.com">site</a>`,
		},
		{
			name: "image",
			in:   "![alt](img.png)",
			want: `<img class="md-image" src="img.png" alt="alt"/>`,
		},
		{
			name: "inline code",
			in:   "use `go test` here",
			want: `use <code class="md-code">go test</code> here`,
		},
		{
			name: "inline code content exempt from formatting",
			in:   "`**raw**`",
			want: `<code class="md-code">**raw**</code>`,
		},
		{
			name: "literal html escaped",
			in:   "a <b> c",
			want: "a &lt;b&gt; c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderInline(tt.in))
		})
	}
}

func TestCycleCheckbox(t *testing.T) {
	line := "- [ ] Todo item"

	line = CycleCheckbox(line)
	assert.Equal(t, "- [~] Todo item", line)

	line = CycleCheckbox(line)
	assert.Equal(t, "- [x] Todo item", line)

	line = CycleCheckbox(line)
	assert.Equal(t, "- [ ] Todo item", line)
}

func TestCycleCheckboxNonCheckboxUnchanged(t *testing.T) {
	assert.Equal(t, "just text", CycleCheckbox("just text"))
	assert.Equal(t, "- plain list item", CycleCheckbox("- plain list item"))
}

func TestCycleCheckboxPreservesIndent(t *testing.T) {
	assert.Equal(t, "  - [~] nested", CycleCheckbox("  - [ ] nested"))
}
