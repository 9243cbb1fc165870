package element

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/easelhq/easel/internal/geom"
)

func TestCalculateHandles(t *testing.T) {
	bounds := geom.Rect{X: 0, Y: 0, Width: 100, Height: 60}
	handles := CalculateHandles(bounds, 10)

	assert.Len(t, handles, 9)

	assert.Equal(t, geom.Pt(0, 0), handles[HandleTopLeft].Center())
	assert.Equal(t, geom.Pt(50, 0), handles[HandleTopMiddle].Center())
	assert.Equal(t, geom.Pt(100, 0), handles[HandleTopRight].Center())
	assert.Equal(t, geom.Pt(0, 30), handles[HandleMiddleLeft].Center())
	assert.Equal(t, geom.Pt(100, 30), handles[HandleMiddleRight].Center())
	assert.Equal(t, geom.Pt(0, 60), handles[HandleBottomLeft].Center())
	assert.Equal(t, geom.Pt(50, 60), handles[HandleBottomMiddle].Center())
	assert.Equal(t, geom.Pt(100, 60), handles[HandleBottomRight].Center())

	// Rotate handle sits 2×handleSize above the top middle.
	assert.Equal(t, geom.Pt(50, -20), handles[HandleRotate].Center())

	for _, r := range handles {
		assert.Equal(t, 10.0, r.Width)
		assert.Equal(t, 10.0, r.Height)
	}
}

func TestCalculateHandlesDegenerate(t *testing.T) {
	assert.Empty(t, CalculateHandles(geom.Rect{}, 10))
	assert.Empty(t, CalculateHandles(geom.Rect{Width: 100, Height: 100}, 0))
	// Bounds narrower than the handle itself carry no handles.
	assert.Empty(t, CalculateHandles(geom.Rect{Width: 5, Height: 100}, 10))
	assert.Empty(t, CalculateHandles(geom.Rect{Width: 100, Height: 5}, 10))
}

func TestHandleAt(t *testing.T) {
	bounds := geom.Rect{X: 0, Y: 0, Width: 100, Height: 60}

	kind, ok := HandleAt(bounds, 10, geom.Pt(100, 60))
	assert.True(t, ok)
	assert.Equal(t, HandleBottomRight, kind)

	// The touch target is 2× the handle size.
	kind, ok = HandleAt(bounds, 10, geom.Pt(108, 52))
	assert.True(t, ok)
	assert.Equal(t, HandleBottomRight, kind)

	kind, ok = HandleAt(bounds, 10, geom.Pt(50, -20))
	assert.True(t, ok)
	assert.Equal(t, HandleRotate, kind)

	_, ok = HandleAt(bounds, 10, geom.Pt(50, 30))
	assert.False(t, ok, "center of the element is not a handle")

	_, ok = HandleAt(geom.Rect{}, 10, geom.Pt(0, 0))
	assert.False(t, ok)
}
