// Package transform holds the pure element transforms: move, anchored
// resize and rotation, plus the sticky-note reflow rule. Every function
// returns a new element and leaves its input untouched.
package transform

import (
	"math"

	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/geom"
)

// MinElementSize is the smallest width/height a generic element can be
// resized to.
const MinElementSize = 20.0

// Text font-size clamp applied when a resize scales a text element.
const (
	MinTextFontSize = 8.0
	MaxTextFontSize = 200.0
)

// TextMeasurer is the external text-layout collaborator. It returns the
// laid-out size of text at the given font size, wrapped at maxWidth
// (maxWidth <= 0 means no wrapping).
type TextMeasurer interface {
	MeasureText(text string, fontSize, maxWidth float64, bold bool) (w, h float64)
}

// MoveBy returns el translated by delta. Pen strokes translate all their
// points, since the points are authoritative for a stroke's bounds.
func MoveBy(el *element.Element, delta geom.Point) *element.Element {
	out := el.Clone()
	out.Selected = el.Selected
	out.Position = out.Position.Add(delta)

	if out.Kind == element.KindPen && out.Pen != nil {
		for i, p := range out.Pen.Points {
			out.Pen.Points[i] = p.Add(delta)
		}
	}
	return out
}

// Rotate returns el with the new rotation (radians). Bounds are the
// axis-aligned pre-rotation box and are unchanged; the renderer rotates
// about the bounds center.
func Rotate(el *element.Element, newRotation float64) *element.Element {
	out := el.Clone()
	out.Selected = el.Selected
	out.Rotation = newRotation
	return out
}

// Resize returns el resized by dragging the given handle to pointer. The
// bounds point opposite the handle stays fixed and the result is clamped
// to the variant's minimum size. Degenerate bounds and the rotate handle
// short-circuit to a no-op.
func Resize(el *element.Element, handle element.HandleKind, pointer geom.Point, m TextMeasurer) *element.Element {
	bounds := el.Bounds()
	if bounds.IsEmpty() || handle == element.HandleRotate {
		return el
	}

	newBounds := dragEdges(bounds, handle, pointer, MinElementSize)

	switch el.Kind {
	case element.KindNote:
		return resizeNote(el, bounds, handle, newBounds, m)
	case element.KindText:
		return resizeText(el, bounds, handle, newBounds)
	case element.KindPen:
		return resizePen(el, bounds, handle, newBounds)
	default:
		return resizeBox(el, newBounds)
	}
}

// dragEdges projects pointer onto the edges implicated by handle and
// clamps the result to minSize while keeping the opposite edges fixed.
func dragEdges(bounds geom.Rect, handle element.HandleKind, pointer geom.Point, minSize float64) geom.Rect {
	left := bounds.X
	top := bounds.Y
	right := bounds.X + bounds.Width
	bottom := bounds.Y + bounds.Height

	if movesLeft(handle) {
		left = math.Min(pointer.X, right-minSize)
	}
	if movesRight(handle) {
		right = math.Max(pointer.X, left+minSize)
	}
	if movesTop(handle) {
		top = math.Min(pointer.Y, bottom-minSize)
	}
	if movesBottom(handle) {
		bottom = math.Max(pointer.Y, top+minSize)
	}

	return geom.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

func movesLeft(h element.HandleKind) bool {
	return h == element.HandleTopLeft || h == element.HandleMiddleLeft || h == element.HandleBottomLeft
}

func movesRight(h element.HandleKind) bool {
	return h == element.HandleTopRight || h == element.HandleMiddleRight || h == element.HandleBottomRight
}

func movesTop(h element.HandleKind) bool {
	return h == element.HandleTopLeft || h == element.HandleTopMiddle || h == element.HandleTopRight
}

func movesBottom(h element.HandleKind) bool {
	return h == element.HandleBottomLeft || h == element.HandleBottomMiddle || h == element.HandleBottomRight
}

func horizontalOnly(h element.HandleKind) bool {
	return h == element.HandleMiddleLeft || h == element.HandleMiddleRight
}

// resizeBox applies the new bounds directly to a size-carrying variant
// (Image, Video, Gif).
func resizeBox(el *element.Element, newBounds geom.Rect) *element.Element {
	out := el.Clone()
	out.Selected = el.Selected
	out.Position = geom.Pt(newBounds.X, newBounds.Y)

	switch {
	case out.Image != nil:
		out.Image.Width = newBounds.Width
		out.Image.Height = newBounds.Height
	case out.Video != nil:
		out.Video.Width = newBounds.Width
		out.Video.Height = newBounds.Height
	case out.Gif != nil:
		out.Gif.Width = newBounds.Width
		out.Gif.Height = newBounds.Height
	}
	return out
}

// resizePen scales the stroke's points about the fixed anchor by the
// per-axis bounds ratios. Stroke width is unchanged.
func resizePen(el *element.Element, oldBounds geom.Rect, handle element.HandleKind, newBounds geom.Rect) *element.Element {
	if el.Pen == nil || oldBounds.Width <= 0 || oldBounds.Height <= 0 {
		return el
	}

	sx := newBounds.Width / oldBounds.Width
	sy := newBounds.Height / oldBounds.Height
	anchor := anchorPoint(oldBounds, handle)

	out := el.Clone()
	out.Selected = el.Selected
	for i, p := range out.Pen.Points {
		out.Pen.Points[i] = geom.Pt(anchor.X+(p.X-anchor.X)*sx, anchor.Y+(p.Y-anchor.Y)*sy)
	}
	b := out.Bounds()
	out.Position = geom.Pt(b.X, b.Y)
	return out
}

// resizeText scales the font size by the height ratio and re-measures.
// Width is derived from content, so horizontal-only handles are no-ops.
func resizeText(el *element.Element, oldBounds geom.Rect, handle element.HandleKind, newBounds geom.Rect) *element.Element {
	return resizeTextMeasured(el, oldBounds, handle, newBounds)
}

func resizeTextMeasured(el *element.Element, oldBounds geom.Rect, handle element.HandleKind, newBounds geom.Rect) *element.Element {
	if el.Text == nil || horizontalOnly(handle) || oldBounds.Height <= 0 {
		return el
	}

	ratio := newBounds.Height / oldBounds.Height
	fontSize := clamp(el.Text.FontSize*ratio, MinTextFontSize, MaxTextFontSize)

	out := el.Clone()
	out.Selected = el.Selected
	out.Text.FontSize = fontSize
	out.Text.Width = oldBounds.Width * ratio
	out.Text.Height = oldBounds.Height * ratio
	out.Position = anchoredPosition(oldBounds, handle, out.Text.Width, out.Text.Height)
	return out
}

// RemeasureText refreshes a text element's cached layout size from the
// measurement collaborator. Used after content or font-size edits.
func RemeasureText(el *element.Element, m TextMeasurer) *element.Element {
	if el.Kind != element.KindText || el.Text == nil || m == nil {
		return el
	}
	out := el.Clone()
	out.Selected = el.Selected
	out.Text.Width, out.Text.Height = m.MeasureText(out.Text.Content, out.Text.FontSize, 0, false)
	return out
}

// anchorPoint returns the point on bounds opposite the dragged handle,
// which stays fixed through the resize.
func anchorPoint(bounds geom.Rect, handle element.HandleKind) geom.Point {
	x := bounds.X // fixed when the right side moves
	if movesLeft(handle) {
		x = bounds.X + bounds.Width
	}
	y := bounds.Y
	if movesTop(handle) {
		y = bounds.Y + bounds.Height
	}
	return geom.Pt(x, y)
}

// anchoredPosition recomputes the top-left position so the anchor point
// opposite the handle is unchanged under the new size.
func anchoredPosition(oldBounds geom.Rect, handle element.HandleKind, newW, newH float64) geom.Point {
	x := oldBounds.X
	if movesLeft(handle) {
		x = oldBounds.X + oldBounds.Width - newW
	}
	y := oldBounds.Y
	if movesTop(handle) {
		y = oldBounds.Y + oldBounds.Height - newH
	}
	return geom.Pt(x, y)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
