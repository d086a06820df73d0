package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/margin/internal/core/annotation"
)

const doc = "alpha\nbravo charlie\ndelta"

func charlieRange() annotation.Range {
	return annotation.Range{StartLine: 2, StartColumn: 7, EndLine: 2, EndColumn: 14}
}

func TestCapture(t *testing.T) {
	a := Capture(doc, charlieRange(), "", 4)

	assert.Equal(t, "charlie", a.SelectedText)
	assert.Equal(t, HashText("charlie"), a.TextHash)
	assert.Equal(t, "avo ", a.ContextBefore)
	assert.Equal(t, "\ndel", a.ContextAfter)
	assert.Equal(t, 2, a.OriginalLine)
}

func TestCaptureClampsAtDocumentEdges(t *testing.T) {
	content := "tiny"
	a := Capture(content, annotation.Range{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 5}, "", 100)

	assert.Equal(t, "tiny", a.SelectedText)
	assert.Empty(t, a.ContextBefore)
	assert.Empty(t, a.ContextAfter)
}

func TestCaptureDefaultWindow(t *testing.T) {
	a := Capture(doc, charlieRange(), "", 0)
	assert.Equal(t, "bravo ", a.ContextBefore[len(a.ContextBefore)-6:])
}

func TestNeedsRelocation(t *testing.T) {
	a := Capture(doc, charlieRange(), "", 8)

	assert.False(t, NeedsRelocation(doc, a, charlieRange()))
	assert.True(t, NeedsRelocation("inserted\n"+doc, a, charlieRange()))
	assert.True(t, NeedsRelocation("alpha", a, charlieRange()))
}

func TestRelocateUnchangedContentIsIdempotent(t *testing.T) {
	a := Capture(doc, charlieRange(), "", 8)

	res := Relocate(doc, a)

	require.True(t, res.Found)
	assert.Equal(t, ReasonNone, res.Reason)
	assert.Equal(t, charlieRange(), res.Range)
}

func TestRelocateAfterLinesInsertedAbove(t *testing.T) {
	a := Capture(doc, charlieRange(), "", 8)
	moved := "one new line\nanother\n" + doc

	res := Relocate(moved, a)

	require.True(t, res.Found)
	assert.Equal(t, ReasonNone, res.Reason)
	assert.Equal(t, annotation.Range{StartLine: 4, StartColumn: 7, EndLine: 4, EndColumn: 14}, res.Range)
}

func TestRelocateSelectionDeleted(t *testing.T) {
	a := Capture(doc, charlieRange(), "", 8)

	res := Relocate("alpha\ndelta", a)

	assert.False(t, res.Found)
	assert.Equal(t, ReasonNotFound, res.Reason)
}

func TestRelocateEmptySelection(t *testing.T) {
	res := Relocate(doc, annotation.Anchor{})

	assert.False(t, res.Found)
	assert.Equal(t, ReasonNotFound, res.Reason)
}

func TestRelocateContextDisambiguatesRepeatedText(t *testing.T) {
	content := "x dup y\nz dup w"
	a := annotation.Anchor{
		SelectedText:  "dup",
		TextHash:      HashText("dup"),
		ContextBefore: "z ",
		ContextAfter:  " w",
		OriginalLine:  2,
	}

	res := Relocate(content, a)

	require.True(t, res.Found)
	assert.Equal(t, ReasonNone, res.Reason)
	assert.Equal(t, annotation.Range{StartLine: 2, StartColumn: 3, EndLine: 2, EndColumn: 6}, res.Range)
}

func TestRelocateAmbiguousFallsBackToLine(t *testing.T) {
	content := "dup x\nother\ndup y"
	a := annotation.Anchor{
		SelectedText: "dup",
		TextHash:     HashText("dup"),
		OriginalLine: 1,
	}

	res := Relocate(content, a)

	require.True(t, res.Found)
	assert.Equal(t, ReasonLineFallback, res.Reason)
	assert.Equal(t, annotation.Range{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 4}, res.Range)
}

func TestRelocateAmbiguousWithoutLineMatchIsNotFound(t *testing.T) {
	content := "dup x\nother\ndup y"
	a := annotation.Anchor{
		SelectedText: "dup",
		TextHash:     HashText("dup"),
		OriginalLine: 2, // "other" does not contain the selection
	}

	res := Relocate(content, a)

	assert.False(t, res.Found)
	assert.Equal(t, ReasonNotFound, res.Reason)
}

func TestRelocateLineFallbackWhenContextRewritten(t *testing.T) {
	a := annotation.Anchor{
		SelectedText:  "bar",
		TextHash:      HashText("bar"),
		ContextBefore: "foo ",
		ContextAfter:  " baz",
		OriginalLine:  1,
	}

	res := Relocate("xxx bar yyy", a)

	require.True(t, res.Found)
	assert.Equal(t, ReasonLineFallback, res.Reason)
	assert.Equal(t, annotation.Range{StartLine: 1, StartColumn: 5, EndLine: 1, EndColumn: 8}, res.Range)
}

func TestRelocateOriginalLineBeyondDocument(t *testing.T) {
	a := annotation.Anchor{
		SelectedText: "gone",
		TextHash:     HashText("gone"),
		OriginalLine: 50,
	}

	res := Relocate("short\ndoc", a)

	assert.False(t, res.Found)
	assert.Equal(t, ReasonNotFound, res.Reason)
}

func TestHashText(t *testing.T) {
	assert.Equal(t, HashText("same"), HashText("same"))
	assert.NotEqual(t, HashText("same"), HashText("different"))
	assert.Len(t, HashText("x"), 64)
}
