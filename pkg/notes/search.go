package notes

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/inkwell/pkg/core"
)

// Search filters the current list by a case-insensitive substring of the
// title, content or tag. It never mutates the list; an empty term returns
// the whole list in order.
func (s *Store) Search(term string) []core.Note {
	return Filter(s.Notes(), term)
}

// Filter is the pure form of Search.
func Filter(notes []core.Note, term string) []core.Note {
	needle := strings.ToLower(term)
	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if needle == "" ||
			strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Content), needle) ||
			strings.Contains(strings.ToLower(n.Tag), needle) {
			out = append(out, n)
		}
	}
	return out
}

// FilterTag keeps notes whose tag matches a glob pattern such as "work/*" or
// "**/draft". An empty pattern keeps everything.
func (s *Store) FilterTag(pattern string) ([]core.Note, error) {
	notes := s.Notes()
	if pattern == "" {
		return notes, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, &core.ValidationError{Field: "tag", Message: "invalid tag pattern " + pattern}
	}

	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if n.Tag == "" {
			continue
		}
		if ok, _ := doublestar.Match(pattern, n.Tag); ok {
			out = append(out, n)
		}
	}
	return out, nil
}
