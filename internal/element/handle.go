package element

import "github.com/easelhq/easel/internal/geom"

// HandleKind identifies one of the interactive hotspots shown around a
// single selected element: eight resize handles plus the rotate handle.
type HandleKind string

const (
	HandleTopLeft      HandleKind = "topLeft"
	HandleTopMiddle    HandleKind = "topMiddle"
	HandleTopRight     HandleKind = "topRight"
	HandleMiddleLeft   HandleKind = "middleLeft"
	HandleMiddleRight  HandleKind = "middleRight"
	HandleBottomLeft   HandleKind = "bottomLeft"
	HandleBottomMiddle HandleKind = "bottomMiddle"
	HandleBottomRight  HandleKind = "bottomRight"
	HandleRotate       HandleKind = "rotate"
)

// handleOrder is the hit-test priority: rotate first, then corners, then
// edge midpoints, so overlapping hotspots on small elements resolve to
// the more specific handle.
var handleOrder = []HandleKind{
	HandleRotate,
	HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight,
	HandleTopMiddle, HandleBottomMiddle, HandleMiddleLeft, HandleMiddleRight,
}

// HandleCenters returns the center point of each handle for the given
// bounds. The rotate handle sits 2×handleSize above the top middle.
func HandleCenters(bounds geom.Rect, handleSize float64) map[HandleKind]geom.Point {
	left := bounds.X
	right := bounds.X + bounds.Width
	top := bounds.Y
	bottom := bounds.Y + bounds.Height
	midX := bounds.X + bounds.Width/2
	midY := bounds.Y + bounds.Height/2

	return map[HandleKind]geom.Point{
		HandleTopLeft:      {X: left, Y: top},
		HandleTopMiddle:    {X: midX, Y: top},
		HandleTopRight:     {X: right, Y: top},
		HandleMiddleLeft:   {X: left, Y: midY},
		HandleMiddleRight:  {X: right, Y: midY},
		HandleBottomLeft:   {X: left, Y: bottom},
		HandleBottomMiddle: {X: midX, Y: bottom},
		HandleBottomRight:  {X: right, Y: bottom},
		HandleRotate:       {X: midX, Y: top - 2*handleSize},
	}
}

// CalculateHandles returns the handle rectangles for the given bounds,
// each a square of side handleSize centered on the handle point. The map
// is empty for degenerate bounds or bounds too small to carry handles.
// handleSize is expected pre-scaled by the inverse view zoom so handles
// keep a constant screen size.
func CalculateHandles(bounds geom.Rect, handleSize float64) map[HandleKind]geom.Rect {
	if bounds.IsEmpty() || handleSize <= 0 {
		return map[HandleKind]geom.Rect{}
	}
	if bounds.Width < handleSize || bounds.Height < handleSize {
		return map[HandleKind]geom.Rect{}
	}

	centers := HandleCenters(bounds, handleSize)
	handles := make(map[HandleKind]geom.Rect, len(centers))
	for kind, c := range centers {
		handles[kind] = geom.SquareAt(c, handleSize)
	}
	return handles
}

// HandleAt hit-tests the handles of bounds against p using a generous
// touch target of 2×handleSize per handle. Returns false when no handle
// is hit or the bounds cannot carry handles.
func HandleAt(bounds geom.Rect, handleSize float64, p geom.Point) (HandleKind, bool) {
	if len(CalculateHandles(bounds, handleSize)) == 0 {
		return "", false
	}

	centers := HandleCenters(bounds, handleSize)
	for _, kind := range handleOrder {
		if geom.SquareAt(centers[kind], handleSize*2).Contains(p) {
			return kind, true
		}
	}
	return "", false
}
