package canvas

import (
	"fmt"
	"log/slog"

	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/geom"
	"github.com/easelhq/easel/internal/transform"
)

// Creation entry points consumed by the chrome layer. Every operation is
// all-or-nothing: a collaborator failure leaves the element list
// untouched and is returned as a discrete error.

// AddText inserts a text element at pos, sized by the text measurement
// collaborator. Returns the new element's id.
func (e *Engine) AddText(text string, pos geom.Point) (string, error) {
	if text == "" {
		return "", fmt.Errorf("empty text")
	}

	w, h := e.measurer.MeasureText(text, 18, 0, false)
	el := &element.Element{
		ID:       newElementID(),
		Kind:     element.KindText,
		Position: pos,
		Text: &element.Text{
			Content:  text,
			Color:    e.penColor,
			FontSize: 18,
			Width:    w,
			Height:   h,
		},
	}

	e.commitNew(el)
	return el.ID, nil
}

// AddMedia inserts an image, video or gif element at pos. The natural
// size comes from the media resolver; a resolver failure mutates nothing.
func (e *Engine) AddMedia(kind element.Kind, pos geom.Point, sourceRef string) (string, error) {
	if e.media == nil {
		return "", ErrNoMediaResolver
	}

	w, h, err := e.media.NaturalSize(sourceRef)
	if err != nil {
		return "", fmt.Errorf("resolve media %q: %w", sourceRef, err)
	}

	el := &element.Element{ID: newElementID(), Kind: kind, Position: pos}
	switch kind {
	case element.KindImage:
		el.Image = &element.Image{Handle: sourceRef, Width: w, Height: h}
	case element.KindVideo:
		el.Video = &element.Video{Handle: sourceRef, Width: w, Height: h}
	case element.KindGif:
		el.Gif = &element.Gif{URL: sourceRef, Width: w, Height: h}
	default:
		return "", ErrUnknownMedia
	}

	e.commitNew(el)
	return el.ID, nil
}

// AddNote creates an empty sticky note at pos with the default width and
// font; its height starts at the layout minimum.
func (e *Engine) AddNote(pos geom.Point) string {
	el := &element.Element{
		ID:       newElementID(),
		Kind:     element.KindNote,
		Position: pos,
		Note: &element.Note{
			Background: transform.DefaultNoteBackground,
			FontSize:   transform.DefaultNoteFontSize,
			Width:      transform.DefaultNoteWidth,
			Height:     transform.LayoutHeight(e.measurer, "", "", transform.DefaultNoteFontSize, transform.DefaultNoteWidth),
		},
	}

	e.commitNew(el)
	return el.ID
}

// commitNew checkpoints, appends and selects a freshly created element.
func (e *Engine) commitNew(el *element.Element) {
	e.hist.Checkpoint(e.elements)
	e.elements = append(e.elements, el)
	e.selectOnly(el.ID)
	e.notify()
}

// UpdateNoteContent replaces a note's title and content and reflows its
// height. A stale or non-note id is a logged no-op.
func (e *Engine) UpdateNoteContent(id, title, content string) {
	el := e.byID(id)
	if el == nil || el.Kind != element.KindNote {
		slog.Debug("note content update on missing note", "id", id)
		return
	}

	e.hist.Checkpoint(e.elements)
	next := el.ApplyChanges(element.Changes{Title: &title, Content: &content})
	e.replace(transform.ReflowNote(next, e.measurer))
	e.notify()
}

// SetNoteColor sets a note's background color.
func (e *Engine) SetNoteColor(id, color string) {
	el := e.byID(id)
	if el == nil || el.Kind != element.KindNote {
		slog.Debug("color change on missing note", "id", id)
		return
	}
	if el.Note.Background == color {
		return
	}

	e.hist.Checkpoint(e.elements)
	e.replace(el.ApplyChanges(element.Changes{Background: &color}))
	e.notify()
}

// TogglePin flips a note's pinned flag.
func (e *Engine) TogglePin(id string) {
	el := e.byID(id)
	if el == nil || el.Kind != element.KindNote {
		slog.Debug("pin toggle on missing note", "id", id)
		return
	}

	pinned := !el.Note.Pinned
	e.hist.Checkpoint(e.elements)
	e.replace(el.ApplyChanges(element.Changes{Pinned: &pinned}))
	e.notify()
}
