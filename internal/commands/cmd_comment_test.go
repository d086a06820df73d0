package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/margin/internal/core/annotation"
)

const commentTestPatch = `--- a/doc.md
+++ b/doc.md
@@ -1,3 +1,3 @@
 alpha
-bravo OLD charlie
+bravo NEW charlie
 delta
`

func TestSideContent(t *testing.T) {
	oldContent, err := sideContent(commentTestPatch, annotation.SideOld)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbravo OLD charlie\ndelta", oldContent)

	newContent, err := sideContent(commentTestPatch, annotation.SideNew)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbravo NEW charlie\ndelta", newContent)
}

func TestSideContentInvalidSide(t *testing.T) {
	_, err := sideContent(commentTestPatch, "both")
	assert.Error(t, err)
}

func TestCaptureContentPlainReadsWorkingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("working copy"), 0o644))

	cmd := &CommentCmd{file: path}
	content, err := cmd.captureContent(path)
	require.NoError(t, err)
	assert.Equal(t, "working copy", content)
}

func TestCaptureContentSideReadsPatchRevision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	patchPath := filepath.Join(dir, "change.patch")

	// the working file already holds the new revision; an old-side comment
	// must still capture the old side's text
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbravo NEW charlie\ndelta"), 0o644))
	require.NoError(t, os.WriteFile(patchPath, []byte(commentTestPatch), 0o644))

	cmd := &CommentCmd{file: path, side: "old", patch: patchPath}
	content, err := cmd.captureContent(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbravo OLD charlie\ndelta", content)
}

func TestCaptureContentSideWithoutPatch(t *testing.T) {
	cmd := &CommentCmd{file: "doc.md", side: "old"}
	_, err := cmd.captureContent("doc.md")
	assert.ErrorContains(t, err, "--patch")
}

func TestCaptureContentPatchWithoutSide(t *testing.T) {
	cmd := &CommentCmd{file: "doc.md", patch: "change.patch"}
	_, err := cmd.captureContent("doc.md")
	assert.ErrorContains(t, err, "--side")
}
