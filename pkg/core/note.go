package core

import (
	"fmt"
	"strings"
	"time"
)

// Color is the highlight color attached to a note.
type Color string

const (
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorTeal   Color = "teal"
)

// DefaultColor is used when a draft or a server record carries no color.
const DefaultColor = ColorOrange

// Colors lists every supported color in picker order.
var Colors = []Color{ColorOrange, ColorYellow, ColorGreen, ColorRed, ColorPurple, ColorTeal}

// Valid reports whether c is one of the supported colors.
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// ParseColor maps a user supplied name to a Color. Empty input yields DefaultColor.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultColor, nil
	}
	c := Color(s)
	if !c.Valid() {
		return "", &ValidationError{Field: "color", Message: fmt.Sprintf("unknown color %q", s)}
	}
	return c, nil
}

// Note is the central entity of the domain.
// It is the canonical record as returned by the server.
type Note struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Color     Color      `json:"color,omitempty"`
	Tag       string     `json:"tag,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Normalize fills defaults the server may leave out.
func (n Note) Normalize() Note {
	if n.Color == "" {
		n.Color = DefaultColor
	}
	return n
}

// Draft is the user-editable part of a note, sent on create and update.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Color   Color  `json:"color,omitempty"`
	Tag     string `json:"tag,omitempty"`
}

// DraftOf seeds a draft from an existing note, as an edit form does.
func DraftOf(n Note) Draft {
	return Draft{Title: n.Title, Content: n.Content, Color: n.Color, Tag: n.Tag}
}

// Clean returns the draft with whitespace trimmed and the default color applied.
func (d Draft) Clean() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Tag = strings.TrimSpace(d.Tag)
	if d.Color == "" {
		d.Color = DefaultColor
	}
	return d
}

// Validate rejects drafts that would create an empty note.
// A note needs a title or content once whitespace is trimmed.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Field: "note", Message: "Please add a title or content"}
	}
	if d.Color != "" && !d.Color.Valid() {
		return &ValidationError{Field: "color", Message: fmt.Sprintf("unknown color %q", d.Color)}
	}
	return nil
}
