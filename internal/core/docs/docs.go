// Package docs discovers annotatable documents under a root directory.
package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Document is a discovered reviewable file.
type Document struct {
	Path    string // absolute path
	RelPath string // relative to the discovery root
	ModTime time.Time
}

// annotatable file extensions.
var extensions = map[string]struct{}{
	".md":  {},
	".txt": {},
}

// Discover walks root and returns markdown and text documents, newest first.
// ignoreGlobs are doublestar patterns matched against the relative path.
func Discover(root string, ignoreGlobs []string) ([]Document, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return []Document{}, nil
	}

	var found []Document

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		if _, ok := extensions[filepath.Ext(path)]; !ok {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if ignored(relPath, ignoreGlobs) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		found = append(found, Document{
			Path:    path,
			RelPath: relPath,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].ModTime.After(found[j].ModTime)
	})

	return found, nil
}

// ignored reports whether relPath matches any ignore glob. Invalid patterns
// never match.
func ignored(relPath string, globs []string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// ContentHash returns the SHA256 hex of document content. Stored alongside
// annotations so a changed document triggers relocation before render.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// SplitLines splits content into lines without the trailing newline artifact.
func SplitLines(content string) []string {
	return strings.Split(strings.TrimRight(content, "\n"), "\n")
}
