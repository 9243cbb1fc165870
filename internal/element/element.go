// Package element defines the tagged-variant drawing element model: the
// typed payloads, derived bounds, hit testing, deep cloning and
// field-wise updates used by the canvas engine and the transform engine.
package element

import (
	"math"

	"github.com/easelhq/easel/internal/geom"
)

// Kind discriminates the element variants.
type Kind string

const (
	KindPen   Kind = "pen"
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindGif   Kind = "gif"
	KindNote  Kind = "note"
)

// PenHitSlop is the extra tolerance (beyond half the stroke width) used
// when testing a point against a stroke's segments.
const PenHitSlop = 6.0

// Element is one addressable object on the canvas. Exactly one payload
// pointer is non-nil and it matches Kind.
type Element struct {
	ID       string     `json:"id"`
	Kind     Kind       `json:"kind"`
	Position geom.Point `json:"position"`
	Rotation float64    `json:"rotation,omitempty"` // radians, about the bounds center
	Selected bool       `json:"-"`                  // transient UI flag, never persisted

	Pen   *Pen   `json:"pen,omitempty"`
	Text  *Text  `json:"text,omitempty"`
	Image *Image `json:"image,omitempty"`
	Video *Video `json:"video,omitempty"`
	Gif   *Gif   `json:"gif,omitempty"`
	Note  *Note  `json:"note,omitempty"`
}

// Pen is a freehand stroke. Points are authoritative for its bounds;
// Position is kept in sync with the bounds origin on move.
type Pen struct {
	Points      []geom.Point `json:"points"`
	Color       string       `json:"color"`
	StrokeWidth float64      `json:"strokeWidth"`
}

// Text holds a text run. Width/Height cache the last measurement from the
// text collaborator; bounds are derived from them, not settable directly.
type Text struct {
	Content  string  `json:"content"`
	Color    string  `json:"color"`
	FontSize float64 `json:"fontSize"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Image references an uploaded raster asset by opaque handle.
type Image struct {
	Handle     string  `json:"handle"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Brightness float64 `json:"brightness,omitempty"`
	Contrast   float64 `json:"contrast,omitempty"`
}

// Video references a playback controller by opaque handle.
type Video struct {
	Handle  string  `json:"handle"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Playing bool    `json:"playing"`
}

// Gif is an animated image loaded from a URL.
type Gif struct {
	URL        string  `json:"url"`
	PreviewURL string  `json:"previewUrl,omitempty"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Note is a sticky note. Height is derived from the text content via
// transform.LayoutHeight and must not be set independently.
type Note struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Background string  `json:"background"`
	Pinned     bool    `json:"pinned"`
	FontSize   float64 `json:"fontSize"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Bounds returns the axis-aligned box enclosing the element's un-rotated
// geometry. A variant that cannot produce valid bounds reports a
// degenerate rect at Position with zero size.
func (e *Element) Bounds() geom.Rect {
	switch e.Kind {
	case KindPen:
		if e.Pen == nil || len(e.Pen.Points) == 0 {
			return geom.Rect{X: e.Position.X, Y: e.Position.Y}
		}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range e.Pen.Points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
		box := geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
		return box.Inflate(e.Pen.StrokeWidth / 2)

	case KindText:
		if e.Text == nil {
			return geom.Rect{X: e.Position.X, Y: e.Position.Y}
		}
		return geom.Rect{X: e.Position.X, Y: e.Position.Y, Width: e.Text.Width, Height: e.Text.Height}

	case KindImage:
		if e.Image == nil {
			return geom.Rect{X: e.Position.X, Y: e.Position.Y}
		}
		return geom.Rect{X: e.Position.X, Y: e.Position.Y, Width: e.Image.Width, Height: e.Image.Height}

	case KindVideo:
		if e.Video == nil {
			return geom.Rect{X: e.Position.X, Y: e.Position.Y}
		}
		return geom.Rect{X: e.Position.X, Y: e.Position.Y, Width: e.Video.Width, Height: e.Video.Height}

	case KindGif:
		if e.Gif == nil {
			return geom.Rect{X: e.Position.X, Y: e.Position.Y}
		}
		return geom.Rect{X: e.Position.X, Y: e.Position.Y, Width: e.Gif.Width, Height: e.Gif.Height}

	case KindNote:
		if e.Note == nil {
			return geom.Rect{X: e.Position.X, Y: e.Position.Y}
		}
		return geom.Rect{X: e.Position.X, Y: e.Position.Y, Width: e.Note.Width, Height: e.Note.Height}
	}

	return geom.Rect{X: e.Position.X, Y: e.Position.Y}
}

// ContainsPoint reports whether p hits the element. Hit testing uses the
// un-rotated bounds; Rotation is a render-time transform only. Pen strokes
// additionally require proximity to an actual segment so sparse strokes
// are not selected by their box corners.
func (e *Element) ContainsPoint(p geom.Point) bool {
	bounds := e.Bounds()

	if e.Kind != KindPen {
		if bounds.IsEmpty() {
			return false
		}
		return bounds.Contains(p)
	}

	if e.Pen == nil || len(e.Pen.Points) == 0 {
		return false
	}

	slop := e.Pen.StrokeWidth/2 + PenHitSlop
	if !bounds.Inflate(PenHitSlop).Contains(p) {
		return false
	}

	pts := e.Pen.Points
	if len(pts) == 1 {
		return p.Dist(pts[0]) <= slop
	}
	for i := 0; i < len(pts)-1; i++ {
		if geom.DistToSegment(p, pts[i], pts[i+1]) <= slop {
			return true
		}
	}
	return false
}

// Clone returns an independent deep copy with Selected reset. The ID is
// preserved so undo snapshots restore the same identities.
func (e *Element) Clone() *Element {
	c := *e
	c.Selected = false

	switch {
	case e.Pen != nil:
		pen := *e.Pen
		pen.Points = make([]geom.Point, len(e.Pen.Points))
		copy(pen.Points, e.Pen.Points)
		c.Pen = &pen
	case e.Text != nil:
		text := *e.Text
		c.Text = &text
	case e.Image != nil:
		img := *e.Image
		c.Image = &img
	case e.Video != nil:
		vid := *e.Video
		c.Video = &vid
	case e.Gif != nil:
		gif := *e.Gif
		c.Gif = &gif
	case e.Note != nil:
		note := *e.Note
		c.Note = &note
	}

	return &c
}

// CloneList deep-copies a whole element list.
func CloneList(els []*Element) []*Element {
	out := make([]*Element, len(els))
	for i, e := range els {
		out[i] = e.Clone()
	}
	return out
}
