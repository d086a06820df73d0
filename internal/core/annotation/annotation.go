// Package annotation defines the data model for document annotations and the
// pure operations over annotation collections.
package annotation

import "time"

// Side identifies which revision of a diff an annotation belongs to.
// Empty for plain document annotations.
type Side string

const (
	SideOld Side = "old" // deletions ("-" lines)
	SideNew Side = "new" // additions ("+" lines)
)

// Status represents the review state of an annotation.
type Status int

const (
	StatusOpen Status = iota
	StatusPending
	StatusResolved
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// CSSClass returns the highlight class emitted for this status.
// The switch is exhaustive over the closed enum so a new status is a
// compile-visible change everywhere it is consumed.
func (s Status) CSSClass() string {
	switch s {
	case StatusOpen:
		return "status-open"
	case StatusPending:
		return "status-pending"
	case StatusResolved:
		return "status-resolved"
	default:
		return "status-open"
	}
}

// ParseStatus converts a stored string back into a Status.
// Unrecognized values map to StatusOpen.
func ParseStatus(s string) Status {
	switch s {
	case "pending":
		return StatusPending
	case "resolved":
		return StatusResolved
	default:
		return StatusOpen
	}
}

// Range is a 1-based line/column selection. Columns are half-open:
// [StartColumn-1, EndColumn-1) in zero-based character offsets.
// StartLine == EndLine is a single-line range.
type Range struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// IsSingleLine returns true when the range covers exactly one line.
func (r Range) IsSingleLine() bool {
	return r.StartLine == r.EndLine
}

// IsValid checks the structural range invariant: StartLine <= EndLine, and
// StartColumn <= EndColumn when the range is on a single line.
func (r Range) IsValid() bool {
	if r.StartLine > r.EndLine {
		return false
	}
	if r.StartLine == r.EndLine && r.StartColumn > r.EndColumn {
		return false
	}
	return true
}

// DiffRange is the diff variant of Range. Line numbers are stored per side;
// the unused pair is zero.
type DiffRange struct {
	Side         Side
	OldStartLine int
	OldEndLine   int
	NewStartLine int
	NewEndLine   int
	StartColumn  int
	EndColumn    int
}

// Range collapses the diff range to the plain range for its active side.
func (d DiffRange) Range() Range {
	if d.Side == SideOld {
		return Range{
			StartLine:   d.OldStartLine,
			StartColumn: d.StartColumn,
			EndLine:     d.OldEndLine,
			EndColumn:   d.EndColumn,
		}
	}
	return Range{
		StartLine:   d.NewStartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.NewEndLine,
		EndColumn:   d.EndColumn,
	}
}

// NewDiffRange builds a DiffRange from a plain range on the given side.
func NewDiffRange(side Side, r Range) DiffRange {
	d := DiffRange{Side: side, StartColumn: r.StartColumn, EndColumn: r.EndColumn}
	if side == SideOld {
		d.OldStartLine = r.StartLine
		d.OldEndLine = r.EndLine
	} else {
		d.NewStartLine = r.StartLine
		d.NewEndLine = r.EndLine
	}
	return d
}

// Anchor is a content-derived fingerprint captured at annotation creation time.
// It lets an annotation be re-located after the underlying document changes.
// Anchors are immutable once created; relocation only derives fresh ranges.
type Anchor struct {
	Side          Side
	SelectedText  string
	TextHash      string // SHA256 hex of SelectedText
	ContextBefore string // text window immediately preceding the selection
	ContextAfter  string // text window immediately following the selection
	OriginalLine  int    // 1-indexed start line at capture time
}

// Annotation is a user comment bound to a range of a document.
type Annotation struct {
	ID           string // UUID
	FilePath     string
	Range        Range
	Side         Side // empty for plain document annotations
	SelectedText string
	Body         string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Author       string
	Tags         []string
	Anchor       *Anchor // diff annotations only
	Orphaned     bool    // set when relocation could not re-find the selection
}
