// Package margin wires the annotation engine to persistence and exposes the
// application service consumed by commands.
package margin

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/margin/internal/core/anchor"
	"github.com/colonyops/margin/internal/core/annotation"
	"github.com/colonyops/margin/internal/core/config"
	"github.com/colonyops/margin/internal/core/docs"
	"github.com/colonyops/margin/internal/core/render"
)

// App aggregates the shared dependencies commands need.
type App struct {
	Config  *config.Config
	Service *AnnotationService
}

// AnnotationService coordinates annotation CRUD, anchoring, and relocation.
type AnnotationService struct {
	repo          annotation.Repository
	contextWindow int
	logger        zerolog.Logger
}

// NewAnnotationService creates the service.
func NewAnnotationService(repo annotation.Repository, contextWindow int, logger zerolog.Logger) *AnnotationService {
	return &AnnotationService{
		repo:          repo,
		contextWindow: contextWindow,
		logger:        logger,
	}
}

// CreateOptions describes a new annotation.
type CreateOptions struct {
	FilePath string
	Range    annotation.Range
	Side     annotation.Side // empty for plain documents
	Body     string
	Author   string
	Tags     []string
	Status   annotation.Status
}

// Create adds an annotation against the current content, capturing its
// selected text and, for diff annotations, an anchor.
func (s *AnnotationService) Create(ctx context.Context, content string, opts CreateOptions) (annotation.Annotation, error) {
	if !opts.Range.IsValid() {
		return annotation.Annotation{}, fmt.Errorf("invalid range %+v", opts.Range)
	}

	captured := anchor.Capture(content, opts.Range, opts.Side, s.contextWindow)
	now := time.Now()

	a := annotation.Annotation{
		ID:           uuid.NewString(),
		FilePath:     opts.FilePath,
		Range:        opts.Range,
		Side:         opts.Side,
		SelectedText: captured.SelectedText,
		Body:         opts.Body,
		Status:       opts.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
		Author:       opts.Author,
		Tags:         opts.Tags,
	}
	if opts.Side != "" {
		a.Anchor = &captured
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return annotation.Annotation{}, fmt.Errorf("save annotation: %w", err)
	}
	if err := s.repo.SetContentHash(ctx, opts.FilePath, docs.ContentHash(content)); err != nil {
		return annotation.Annotation{}, fmt.Errorf("record content hash: %w", err)
	}

	s.logger.Debug().
		Str("id", a.ID).
		Str("file", a.FilePath).
		Int("start_line", a.Range.StartLine).
		Msg("annotation created")

	return a, nil
}

// List returns a file's annotations.
func (s *AnnotationService) List(ctx context.Context, filePath string) ([]annotation.Annotation, error) {
	return s.repo.ListByFile(ctx, filePath)
}

// ListFiles returns annotated file paths with counts.
func (s *AnnotationService) ListFiles(ctx context.Context) (map[string]int, error) {
	return s.repo.ListFiles(ctx)
}

// SetStatus updates one annotation's status.
func (s *AnnotationService) SetStatus(ctx context.Context, filePath, id string, status annotation.Status) error {
	list, err := s.repo.ListByFile(ctx, filePath)
	if err != nil {
		return fmt.Errorf("list annotations: %w", err)
	}
	if _, ok := annotation.FindByID(list, id); !ok {
		return annotation.ErrNotFound
	}
	return s.replace(ctx, filePath, annotation.UpdateStatus(list, id, status))
}

// UpdateBody updates one annotation's comment text.
func (s *AnnotationService) UpdateBody(ctx context.Context, filePath, id, body string) error {
	list, err := s.repo.ListByFile(ctx, filePath)
	if err != nil {
		return fmt.Errorf("list annotations: %w", err)
	}
	if _, ok := annotation.FindByID(list, id); !ok {
		return annotation.ErrNotFound
	}
	return s.replace(ctx, filePath, annotation.UpdateBody(list, id, body))
}

// Delete removes an annotation.
func (s *AnnotationService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ResolveAll resolves every annotation on a file.
func (s *AnnotationService) ResolveAll(ctx context.Context, filePath string) error {
	list, err := s.repo.ListByFile(ctx, filePath)
	if err != nil {
		return fmt.Errorf("list annotations: %w", err)
	}
	return s.replace(ctx, filePath, annotation.ResolveAll(list))
}

// Reconcile re-anchors a file's annotations against its current content when
// the stored content hash no longer matches. Annotations whose anchors cannot
// be re-found are kept but flagged orphaned; user data is never dropped.
func (s *AnnotationService) Reconcile(ctx context.Context, filePath, content string) ([]annotation.Annotation, error) {
	list, err := s.repo.ListByFile(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	currentHash := docs.ContentHash(content)
	storedHash, err := s.repo.ContentHash(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("get content hash: %w", err)
	}
	if storedHash == currentHash {
		return list, nil
	}

	updated := make([]annotation.Annotation, len(list))
	copy(updated, list)

	for i := range updated {
		a := &updated[i]

		anc := a.Anchor
		if anc == nil {
			// Plain document annotations get an ad-hoc anchor derived from
			// the stored selection snapshot.
			anc = &annotation.Anchor{
				SelectedText: a.SelectedText,
				TextHash:     anchor.HashText(a.SelectedText),
				OriginalLine: a.Range.StartLine,
			}
		}

		if !anchor.NeedsRelocation(content, *anc, a.Range) {
			a.Orphaned = false
			continue
		}

		res := anchor.Relocate(content, *anc)
		if !res.Found {
			a.Orphaned = true
			s.logger.Warn().Str("id", a.ID).Str("file", filePath).Msg("annotation orphaned")
			continue
		}

		a.Range = res.Range
		a.Orphaned = false
		s.logger.Debug().
			Str("id", a.ID).
			Str("reason", string(res.Reason)).
			Int("line", res.Range.StartLine).
			Msg("annotation relocated")
	}

	if err := s.replace(ctx, filePath, updated); err != nil {
		return nil, err
	}
	if err := s.repo.SetContentHash(ctx, filePath, currentHash); err != nil {
		return nil, fmt.Errorf("record content hash: %w", err)
	}

	return updated, nil
}

// ReconcileSide re-anchors one diff side's annotations against that side's
// reconstructed content. Annotations on the other side are left untouched.
// Diff content is transient, so no stored hash gates the relocation pass.
func (s *AnnotationService) ReconcileSide(ctx context.Context, filePath string, side annotation.Side, content string) ([]annotation.Annotation, error) {
	list, err := s.repo.ListByFile(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}

	updated := make([]annotation.Annotation, len(list))
	copy(updated, list)

	var sideAnnotations []annotation.Annotation
	changed := false

	for i := range updated {
		a := &updated[i]
		if a.Side != side || a.Anchor == nil {
			if a.Side == side {
				sideAnnotations = append(sideAnnotations, *a)
			}
			continue
		}

		if anchor.NeedsRelocation(content, *a.Anchor, a.Range) {
			res := anchor.Relocate(content, *a.Anchor)
			if res.Found {
				a.Range = res.Range
				a.Orphaned = false
			} else {
				a.Orphaned = true
			}
			changed = true
		}
		sideAnnotations = append(sideAnnotations, *a)
	}

	if changed {
		if err := s.replace(ctx, filePath, updated); err != nil {
			return nil, err
		}
	}

	return sideAnnotations, nil
}

// RenderFile loads a document, reconciles its annotations, and renders it to
// per-line HTML fragments.
func (s *AnnotationService) RenderFile(ctx context.Context, filePath string, opts render.DocumentOptions) ([]render.LineFragment, []annotation.Annotation, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read document: %w", err)
	}
	content := string(raw)

	list, err := s.Reconcile(ctx, filePath, content)
	if err != nil {
		return nil, nil, err
	}

	return render.RenderDocument(content, list, opts), list, nil
}

func (s *AnnotationService) replace(ctx context.Context, filePath string, list []annotation.Annotation) error {
	if err := s.repo.ReplaceForFile(ctx, filePath, list); err != nil {
		return fmt.Errorf("replace annotations: %w", err)
	}
	return nil
}
