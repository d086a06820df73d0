package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/margin/internal/core/annotation"
)

const samplePatch = `--- a/doc.md
+++ b/doc.md
@@ -1,4 +1,4 @@ intro
 # Title
-old paragraph
+new paragraph
+added line
 closing
`

func TestParse(t *testing.T) {
	lines, err := Parse(samplePatch)
	require.NoError(t, err)
	require.Len(t, lines, 8)

	assert.Equal(t, KindFileHeader, lines[0].Kind)
	assert.Equal(t, KindFileHeader, lines[1].Kind)

	hunk := lines[2]
	assert.Equal(t, KindHunk, hunk.Kind)
	assert.Equal(t, 1, hunk.OldLine)
	assert.Equal(t, 1, hunk.NewLine)

	title := lines[3]
	assert.Equal(t, KindContext, title.Kind)
	assert.Equal(t, "# Title", title.Content)
	assert.Equal(t, 1, title.OldLine)
	assert.Equal(t, 1, title.NewLine)

	deleted := lines[4]
	assert.Equal(t, KindDelete, deleted.Kind)
	assert.Equal(t, "old paragraph", deleted.Content)
	assert.Equal(t, 2, deleted.OldLine)
	assert.Equal(t, 0, deleted.NewLine)

	added := lines[5]
	assert.Equal(t, KindAdd, added.Kind)
	assert.Equal(t, "new paragraph", added.Content)
	assert.Equal(t, 0, added.OldLine)
	assert.Equal(t, 2, added.NewLine)

	added2 := lines[6]
	assert.Equal(t, 3, added2.NewLine)

	closing := lines[7]
	assert.Equal(t, KindContext, closing.Kind)
	assert.Equal(t, 3, closing.OldLine)
	assert.Equal(t, 4, closing.NewLine)
}

func TestParseMultipleHunks(t *testing.T) {
	patch := `@@ -1,2 +1,2 @@
 a
-b
+B
@@ -10,2 +10,2 @@
 x
-y
+Y
`
	lines, err := Parse(patch)
	require.NoError(t, err)

	// second hunk restarts numbering at its declared positions
	var second []Line
	for i, l := range lines {
		if l.Kind == KindHunk && l.OldLine == 10 {
			second = lines[i+1:]
			break
		}
	}
	require.NotEmpty(t, second)
	assert.Equal(t, 10, second[0].OldLine)
	assert.Equal(t, 10, second[0].NewLine)
	assert.Equal(t, 11, second[1].OldLine)
	assert.Equal(t, 11, second[2].NewLine)
}

func TestParseHunkHeader(t *testing.T) {
	hunk, err := parseHunk("@@ -1,7 +2,8 @@ func name")
	require.NoError(t, err)

	assert.Equal(t, Hunk{OldStart: 1, OldCount: 7, NewStart: 2, NewCount: 8, Section: "func name"}, hunk)
}

func TestParseHunkHeaderDefaultsCount(t *testing.T) {
	hunk, err := parseHunk("@@ -3 +4 @@")
	require.NoError(t, err)

	assert.Equal(t, 3, hunk.OldStart)
	assert.Equal(t, 1, hunk.OldCount)
	assert.Equal(t, 4, hunk.NewStart)
	assert.Equal(t, 1, hunk.NewCount)
}

func TestParseHunkHeaderMalformed(t *testing.T) {
	for _, raw := range []string{
		"@@ -1,7 +1,8",
		"@@ -1,a +1,8 @@",
		"@@ +1,8 -1,7 @@",
		"@@ -1,2,3 +1 @@",
	} {
		_, err := parseHunk(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseIgnoresContentOutsideHunks(t *testing.T) {
	patch := "diff --git a/x b/x\nindex 123..456\n@@ -1 +1 @@\n-a\n+b\n"
	lines, err := Parse(patch)
	require.NoError(t, err)

	require.Len(t, lines, 3)
	assert.Equal(t, KindHunk, lines[0].Kind)
}

func TestNewSideView(t *testing.T) {
	lines, err := Parse(samplePatch)
	require.NoError(t, err)

	oldView := NewSideView(lines, annotation.SideOld)
	newView := NewSideView(lines, annotation.SideNew)

	text, ok := oldView.LineText(2)
	require.True(t, ok)
	assert.Equal(t, "old paragraph", text)
	_, ok = oldView.LineText(4)
	assert.False(t, ok, "old side has three lines")

	text, ok = newView.LineText(2)
	require.True(t, ok)
	assert.Equal(t, "new paragraph", text)
	text, ok = newView.LineText(3)
	require.True(t, ok)
	assert.Equal(t, "added line", text)

	assert.Equal(t, 3, oldView.MaxLine())
	assert.Equal(t, 4, newView.MaxLine())
	assert.Equal(t, []int{1, 2, 3, 4}, newView.LineNumbers())
}

func TestSideViewContent(t *testing.T) {
	lines, err := Parse(samplePatch)
	require.NoError(t, err)

	newView := NewSideView(lines, annotation.SideNew)
	assert.Equal(t, "# Title\nnew paragraph\nadded line\nclosing", newView.Content())
}

func TestSideViewContentGapsBecomeEmptyLines(t *testing.T) {
	patch := "@@ -5,2 +5,2 @@\n a\n-b\n+B\n"
	lines, err := Parse(patch)
	require.NoError(t, err)

	view := NewSideView(lines, annotation.SideNew)
	content := view.Content()

	// lines 1-4 are unknown, so they pad as empty to keep numbering aligned
	assert.Equal(t, "\n\n\n\na\nB", content)
}

func TestSideViewEmpty(t *testing.T) {
	view := NewSideView(nil, annotation.SideNew)
	assert.Equal(t, "", view.Content())
	assert.Equal(t, 0, view.MaxLine())
	assert.Empty(t, view.LineNumbers())
}
