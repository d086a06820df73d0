// Package stores provides sqlite-backed persistence for annotations.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/margin/internal/core/annotation"
	"github.com/colonyops/margin/internal/data/db"
)

// AnnotationStore implements annotation.Repository using SQLite.
type AnnotationStore struct {
	db *db.DB
}

var _ annotation.Repository = (*AnnotationStore)(nil)

// NewAnnotationStore creates a new SQLite-backed annotation store.
func NewAnnotationStore(db *db.DB) *AnnotationStore {
	return &AnnotationStore{db: db}
}

const annotationColumns = `id, file_path, side, start_line, start_column, end_line, end_column,
	selected_text, body, status, author, tags, orphaned, created_at, updated_at,
	anchor_side, anchor_text, anchor_hash, anchor_before, anchor_after, anchor_line`

// Save inserts or replaces an annotation.
func (s *AnnotationStore) Save(ctx context.Context, a annotation.Annotation) error {
	query := `INSERT OR REPLACE INTO annotations (` + annotationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Conn().ExecContext(ctx, query, annotationArgs(a)...)
	if err != nil {
		return fmt.Errorf("failed to save annotation: %w", err)
	}
	return nil
}

// Get returns the annotation with the given id.
func (s *AnnotationStore) Get(ctx context.Context, id string) (annotation.Annotation, error) {
	query := `SELECT ` + annotationColumns + ` FROM annotations WHERE id = ?`

	row := s.db.Conn().QueryRowContext(ctx, query, id)
	a, err := scanAnnotation(row)
	if IsNotFoundError(err) {
		return annotation.Annotation{}, annotation.ErrNotFound
	}
	if err != nil {
		return annotation.Annotation{}, fmt.Errorf("failed to get annotation: %w", err)
	}
	return a, nil
}

// ListByFile returns all annotations for a file path sorted by start position.
func (s *AnnotationStore) ListByFile(ctx context.Context, filePath string) ([]annotation.Annotation, error) {
	query := `SELECT ` + annotationColumns + ` FROM annotations
		WHERE file_path = ? ORDER BY start_line, start_column`

	rows, err := s.db.Conn().QueryContext(ctx, query, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var list []annotation.Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate annotations: %w", err)
	}

	return list, nil
}

// ListFiles returns the distinct annotated file paths with per-file counts.
func (s *AnnotationStore) ListFiles(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT file_path, COUNT(*) FROM annotations GROUP BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotated files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var path string
		var count int
		if err := rows.Scan(&path, &count); err != nil {
			return nil, fmt.Errorf("failed to scan file count: %w", err)
		}
		counts[path] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate file counts: %w", err)
	}

	return counts, nil
}

// busyRetries bounds retries of the replace transaction when a concurrent
// writer holds the database lock past the busy timeout.
const busyRetries = 3

// ReplaceForFile atomically replaces a file's annotation set.
func (s *AnnotationStore) ReplaceForFile(ctx context.Context, filePath string, list []annotation.Annotation) error {
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		err = s.db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM annotations WHERE file_path = ?`, filePath); err != nil {
				return fmt.Errorf("failed to clear annotations: %w", err)
			}

			query := `INSERT INTO annotations (` + annotationColumns + `)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
			for _, a := range list {
				if _, err := tx.ExecContext(ctx, query, annotationArgs(a)...); err != nil {
					return fmt.Errorf("failed to insert annotation: %w", err)
				}
			}
			return nil
		})
		if !IsBusyError(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}

// Delete removes an annotation. Unknown ids are a no-op.
func (s *AnnotationStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.Conn().ExecContext(ctx, `DELETE FROM annotations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}
	return nil
}

// ContentHash returns the stored document hash for a file path.
func (s *AnnotationStore) ContentHash(ctx context.Context, filePath string) (string, error) {
	var hash string
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT content_hash FROM document_hashes WHERE file_path = ?`, filePath).Scan(&hash)
	if IsNotFoundError(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get content hash: %w", err)
	}
	return hash, nil
}

// SetContentHash records the document hash annotations were last anchored
// against.
func (s *AnnotationStore) SetContentHash(ctx context.Context, filePath, hash string) error {
	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT OR REPLACE INTO document_hashes (file_path, content_hash, updated_at) VALUES (?, ?, ?)`,
		filePath, hash, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to set content hash: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanAnnotation.
type scanner interface {
	Scan(dest ...any) error
}

// annotationArgs flattens an annotation into insert arguments matching
// annotationColumns order.
func annotationArgs(a annotation.Annotation) []any {
	var (
		anchorSide   sql.NullString
		anchorText   sql.NullString
		anchorHash   sql.NullString
		anchorBefore sql.NullString
		anchorAfter  sql.NullString
		anchorLine   sql.NullInt64
	)
	if a.Anchor != nil {
		anchorSide = sql.NullString{String: string(a.Anchor.Side), Valid: true}
		anchorText = sql.NullString{String: a.Anchor.SelectedText, Valid: true}
		anchorHash = sql.NullString{String: a.Anchor.TextHash, Valid: true}
		anchorBefore = sql.NullString{String: a.Anchor.ContextBefore, Valid: true}
		anchorAfter = sql.NullString{String: a.Anchor.ContextAfter, Valid: true}
		anchorLine = sql.NullInt64{Int64: int64(a.Anchor.OriginalLine), Valid: true}
	}

	return []any{
		a.ID,
		a.FilePath,
		string(a.Side),
		a.Range.StartLine,
		a.Range.StartColumn,
		a.Range.EndLine,
		a.Range.EndColumn,
		a.SelectedText,
		a.Body,
		a.Status.String(),
		a.Author,
		strings.Join(a.Tags, ","),
		boolToInt(a.Orphaned),
		a.CreatedAt.UnixNano(),
		a.UpdatedAt.UnixNano(),
		anchorSide,
		anchorText,
		anchorHash,
		anchorBefore,
		anchorAfter,
		anchorLine,
	}
}

// scanAnnotation reads one row in annotationColumns order.
func scanAnnotation(row scanner) (annotation.Annotation, error) {
	var (
		a            annotation.Annotation
		side         string
		status       string
		tags         string
		orphaned     int
		createdAt    int64
		updatedAt    int64
		anchorSide   sql.NullString
		anchorText   sql.NullString
		anchorHash   sql.NullString
		anchorBefore sql.NullString
		anchorAfter  sql.NullString
		anchorLine   sql.NullInt64
	)

	err := row.Scan(
		&a.ID,
		&a.FilePath,
		&side,
		&a.Range.StartLine,
		&a.Range.StartColumn,
		&a.Range.EndLine,
		&a.Range.EndColumn,
		&a.SelectedText,
		&a.Body,
		&status,
		&a.Author,
		&tags,
		&orphaned,
		&createdAt,
		&updatedAt,
		&anchorSide,
		&anchorText,
		&anchorHash,
		&anchorBefore,
		&anchorAfter,
		&anchorLine,
	)
	if err != nil {
		return annotation.Annotation{}, err
	}

	a.Side = annotation.Side(side)
	a.Status = annotation.ParseStatus(status)
	if tags != "" {
		a.Tags = strings.Split(tags, ",")
	}
	a.Orphaned = orphaned != 0
	a.CreatedAt = time.Unix(0, createdAt)
	a.UpdatedAt = time.Unix(0, updatedAt)

	if anchorText.Valid {
		a.Anchor = &annotation.Anchor{
			Side:          annotation.Side(anchorSide.String),
			SelectedText:  anchorText.String,
			TextHash:      anchorHash.String,
			ContextBefore: anchorBefore.String,
			ContextAfter:  anchorAfter.String,
			OriginalLine:  int(anchorLine.Int64),
		}
	}

	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
