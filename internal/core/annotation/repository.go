package annotation

import (
	"context"
	"errors"
)

// Sentinel errors for annotation persistence.
var (
	ErrNotFound = errors.New("annotation not found")
)

// Repository defines persistence operations for annotations. The engine
// itself never performs file I/O; commands load snapshots through this
// interface and write back the results of pure collection operations.
type Repository interface {
	// Save inserts or replaces an annotation.
	Save(ctx context.Context, a Annotation) error

	// Get returns the annotation with the given id.
	// Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (Annotation, error)

	// ListByFile returns all annotations for a file path sorted by
	// (start line, start column).
	ListByFile(ctx context.Context, filePath string) ([]Annotation, error)

	// ListFiles returns the distinct file paths that have annotations,
	// with per-file counts.
	ListFiles(ctx context.Context) (map[string]int, error)

	// ReplaceForFile atomically replaces a file's annotation set. Used to
	// persist the output of copy-on-write collection operations.
	ReplaceForFile(ctx context.Context, filePath string, list []Annotation) error

	// Delete removes an annotation. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// ContentHash returns the stored document hash for a file path, empty
	// when no annotations exist for it.
	ContentHash(ctx context.Context, filePath string) (string, error)

	// SetContentHash records the document hash annotations were last
	// anchored against.
	SetContentHash(ctx context.Context, filePath, hash string) error
}
