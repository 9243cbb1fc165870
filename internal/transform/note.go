package transform

import (
	"math"

	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/geom"
)

// Sticky-note layout constants. The composition rule in LayoutHeight must
// stay stable: renderers reproduce the same padding and clamps to get
// pixel parity with the computed bounds.
const (
	NoteMinWidth    = 120.0
	NoteMaxWidth    = 600.0
	NoteMinHeight   = 80.0
	NoteMinFontSize = 10.0
	NoteMaxFontSize = 72.0

	notePaddingX = 24.0 // total horizontal padding (12 per side)
	notePaddingY = 24.0 // total vertical padding
	noteBlockGap = 8.0  // gap between title and content blocks
)

// Defaults for freshly created notes.
const (
	DefaultNoteWidth      = 200.0
	DefaultNoteFontSize   = 16.0
	DefaultNoteBackground = "#fff9c4"
)

// LayoutHeight computes the derived height of a note: title block (bold,
// fontSize) plus content block (fontSize-2, floored at NoteMinFontSize)
// plus padding and the inter-block gap, floored at NoteMinHeight. Pure:
// identical inputs yield identical output.
func LayoutHeight(m TextMeasurer, title, content string, fontSize, width float64) float64 {
	avail := width - notePaddingX
	if avail < 1 {
		avail = 1
	}

	h := notePaddingY
	hasTitle := title != ""

	if hasTitle {
		_, th := m.MeasureText(title, fontSize, avail, true)
		h += th
	}
	if content != "" {
		contentFont := math.Max(fontSize-2, NoteMinFontSize)
		_, ch := m.MeasureText(content, contentFont, avail, false)
		if hasTitle {
			h += noteBlockGap
		}
		h += ch
	}

	return math.Max(h, NoteMinHeight)
}

// resizeNote implements the note-specific resize coupling. Horizontal-only
// handles change width and reflow the height at a fixed font size; corner
// and vertical handles use the font size as the free variable, scaling it
// (and the width) by the height ratio before reflowing.
func resizeNote(el *element.Element, oldBounds geom.Rect, handle element.HandleKind, newBounds geom.Rect, m TextMeasurer) *element.Element {
	if el.Note == nil || m == nil {
		return el
	}

	out := el.Clone()
	out.Selected = el.Selected
	note := out.Note

	if horizontalOnly(handle) {
		note.Width = clamp(newBounds.Width, NoteMinWidth, NoteMaxWidth)
		note.Height = LayoutHeight(m, note.Title, note.Content, note.FontSize, note.Width)
		out.Position = anchoredPosition(oldBounds, handle, note.Width, note.Height)
		return out
	}

	if oldBounds.Height <= 0 {
		return el
	}
	ratio := newBounds.Height / oldBounds.Height

	note.FontSize = clamp(note.FontSize*ratio, NoteMinFontSize, NoteMaxFontSize)
	note.Width = clamp(note.Width*ratio, NoteMinWidth, NoteMaxWidth)
	note.Height = LayoutHeight(m, note.Title, note.Content, note.FontSize, note.Width)
	out.Position = anchoredPosition(oldBounds, handle, note.Width, note.Height)
	return out
}

// ReflowNote recomputes a note's derived height after a content, title,
// font-size or color edit.
func ReflowNote(el *element.Element, m TextMeasurer) *element.Element {
	if el.Kind != element.KindNote || el.Note == nil || m == nil {
		return el
	}
	out := el.Clone()
	out.Selected = el.Selected
	out.Note.Width = clamp(out.Note.Width, NoteMinWidth, NoteMaxWidth)
	out.Note.Height = LayoutHeight(m, out.Note.Title, out.Note.Content, out.Note.FontSize, out.Note.Width)
	return out
}
