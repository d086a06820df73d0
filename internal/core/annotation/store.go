package annotation

import (
	"sort"
	"time"
)

// Collection operations are copy-on-write: every function returns a new slice
// and never mutates its input. Mutations on an unknown id return the input
// unchanged rather than erroring.

// FilterByStatus returns annotations visible under the given resolved-filter.
// When includeResolved is false, resolved annotations are dropped.
func FilterByStatus(list []Annotation, includeResolved bool) []Annotation {
	out := make([]Annotation, 0, len(list))
	for _, a := range list {
		if !includeResolved && a.Status == StatusResolved {
			continue
		}
		out = append(out, a)
	}
	return out
}

// SortByLine returns a copy sorted by (StartLine, StartColumn) ascending.
func SortByLine(list []Annotation) []Annotation {
	out := make([]Annotation, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Range.StartLine != out[j].Range.StartLine {
			return out[i].Range.StartLine < out[j].Range.StartLine
		}
		return out[i].Range.StartColumn < out[j].Range.StartColumn
	})
	return out
}

// SortByColumnDesc returns a copy sorted by StartColumn descending. Applying
// in-place text edits right-to-left within a line keeps not-yet-processed
// column offsets valid.
func SortByColumnDesc(list []Annotation) []Annotation {
	out := make([]Annotation, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Range.StartColumn > out[j].Range.StartColumn
	})
	return out
}

// GroupByStartLine indexes annotations by their first line only.
func GroupByStartLine(list []Annotation) map[int][]Annotation {
	groups := make(map[int][]Annotation)
	for _, a := range list {
		groups[a.Range.StartLine] = append(groups[a.Range.StartLine], a)
	}
	return groups
}

// GroupByCoveredLines indexes annotations by every line in their range.
// A line covered by two overlapping multi-line annotations maps to both.
func GroupByCoveredLines(list []Annotation) map[int][]Annotation {
	groups := make(map[int][]Annotation)
	for _, a := range list {
		for line := a.Range.StartLine; line <= a.Range.EndLine; line++ {
			groups[line] = append(groups[line], a)
		}
	}
	return groups
}

// CommentsForLine returns the annotations registered against a line.
func CommentsForLine(groups map[int][]Annotation, line int) []Annotation {
	return groups[line]
}

// BlockHasComments reports whether any line in [startLine, endLine] has a
// visible annotation.
func BlockHasComments(startLine, endLine int, groups map[int][]Annotation, includeResolved bool) bool {
	for line := startLine; line <= endLine; line++ {
		for _, a := range groups[line] {
			if !includeResolved && a.Status == StatusResolved {
				continue
			}
			return true
		}
	}
	return false
}

// CountByStatus tallies annotations per status.
func CountByStatus(list []Annotation) map[Status]int {
	counts := make(map[Status]int)
	for _, a := range list {
		counts[a.Status]++
	}
	return counts
}

// FindByID returns the annotation with the given id, or false.
func FindByID(list []Annotation, id string) (Annotation, bool) {
	for _, a := range list {
		if a.ID == id {
			return a, true
		}
	}
	return Annotation{}, false
}

// UpdateStatus returns a copy with the matching annotation's status changed
// and its UpdatedAt refreshed.
func UpdateStatus(list []Annotation, id string, status Status) []Annotation {
	return updateByID(list, id, func(a Annotation) Annotation {
		a.Status = status
		a.UpdatedAt = time.Now()
		return a
	})
}

// UpdateBody returns a copy with the matching annotation's body changed and
// its UpdatedAt refreshed.
func UpdateBody(list []Annotation, id string, body string) []Annotation {
	return updateByID(list, id, func(a Annotation) Annotation {
		a.Body = body
		a.UpdatedAt = time.Now()
		return a
	})
}

// Delete returns a copy without the matching annotation.
func Delete(list []Annotation, id string) []Annotation {
	out := make([]Annotation, 0, len(list))
	for _, a := range list {
		if a.ID == id {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ResolveAll returns a copy with every open or pending annotation resolved.
func ResolveAll(list []Annotation) []Annotation {
	now := time.Now()
	out := make([]Annotation, len(list))
	copy(out, list)
	for i := range out {
		if out[i].Status != StatusResolved {
			out[i].Status = StatusResolved
			out[i].UpdatedAt = now
		}
	}
	return out
}

func updateByID(list []Annotation, id string, fn func(Annotation) Annotation) []Annotation {
	out := make([]Annotation, len(list))
	copy(out, list)
	for i := range out {
		if out[i].ID == id {
			out[i] = fn(out[i])
			break
		}
	}
	return out
}
