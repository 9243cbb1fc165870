package element

import "github.com/easelhq/easel/internal/geom"

// Changes is a partial update. Nil fields are left alone; fields that do
// not apply to the element's variant are silently ignored.
type Changes struct {
	Position *geom.Point
	Rotation *float64

	Color       *string  // Pen, Text
	StrokeWidth *float64 // Pen
	Content     *string  // Text, Note
	FontSize    *float64 // Text, Note
	Title       *string  // Note
	Background  *string  // Note
	Pinned      *bool    // Note
	Playing     *bool    // Video
	Brightness  *float64 // Image
	Contrast    *float64 // Image
}

// ApplyChanges returns a new element with the applicable changes applied.
// The receiver is not mutated.
func (e *Element) ApplyChanges(ch Changes) *Element {
	out := e.Clone()
	out.Selected = e.Selected

	if ch.Position != nil {
		out.Position = *ch.Position
	}
	if ch.Rotation != nil {
		out.Rotation = *ch.Rotation
	}

	switch out.Kind {
	case KindPen:
		if out.Pen == nil {
			break
		}
		if ch.Color != nil {
			out.Pen.Color = *ch.Color
		}
		if ch.StrokeWidth != nil {
			out.Pen.StrokeWidth = *ch.StrokeWidth
		}
	case KindText:
		if out.Text == nil {
			break
		}
		if ch.Color != nil {
			out.Text.Color = *ch.Color
		}
		if ch.Content != nil {
			out.Text.Content = *ch.Content
		}
		if ch.FontSize != nil {
			out.Text.FontSize = *ch.FontSize
		}
	case KindImage:
		if out.Image == nil {
			break
		}
		if ch.Brightness != nil {
			out.Image.Brightness = *ch.Brightness
		}
		if ch.Contrast != nil {
			out.Image.Contrast = *ch.Contrast
		}
	case KindVideo:
		if out.Video == nil {
			break
		}
		if ch.Playing != nil {
			out.Video.Playing = *ch.Playing
		}
	case KindNote:
		if out.Note == nil {
			break
		}
		if ch.Title != nil {
			out.Note.Title = *ch.Title
		}
		if ch.Content != nil {
			out.Note.Content = *ch.Content
		}
		if ch.FontSize != nil {
			out.Note.FontSize = *ch.FontSize
		}
		if ch.Background != nil {
			out.Note.Background = *ch.Background
		}
		if ch.Pinned != nil {
			out.Note.Pinned = *ch.Pinned
		}
	}

	return out
}
