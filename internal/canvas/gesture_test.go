package canvas

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/geom"
)

func (f *fixture) tap(p geom.Point) {
	f.eng.PointerDown(p)
	f.eng.PointerUp(p)
}

func TestDrawStrokeCommits(t *testing.T) {
	f := newFixture()
	f.eng.SetTool(ToolPen)
	f.eng.SetPenStyle("#f00", 4)

	f.eng.PointerDown(geom.Pt(0, 0))
	require.NotNil(t, f.eng.InProgressStroke())
	f.eng.PointerMove(geom.Pt(10, 0))
	f.eng.PointerMove(geom.Pt(10, 10))
	f.eng.PointerUp(geom.Pt(10, 10))

	assert.Nil(t, f.eng.InProgressStroke())
	els := f.eng.Elements()
	require.Len(t, els, 1)
	assert.Equal(t, element.KindPen, els[0].Kind)
	// min/max box over the points, inflated by half the stroke width.
	assert.Equal(t, geom.Rect{X: -2, Y: -2, Width: 14, Height: 14}, els[0].Bounds())
	assert.True(t, f.eng.CanUndo(), "a committed stroke is one undo entry")
}

func TestSubTwoPointStrokeDiscarded(t *testing.T) {
	f := newFixture()
	f.eng.SetTool(ToolPen)

	f.eng.PointerDown(geom.Pt(5, 5))
	f.eng.PointerUp(geom.Pt(5, 5))

	assert.Empty(t, f.eng.Elements())
	assert.False(t, f.eng.CanUndo(), "a discarded stroke leaves no history entry")
}

func TestPointerCancelDiscardsStroke(t *testing.T) {
	f := newFixture()
	f.eng.SetTool(ToolPen)

	f.eng.PointerDown(geom.Pt(0, 0))
	f.eng.PointerMove(geom.Pt(10, 0))
	f.eng.PointerMove(geom.Pt(20, 0))
	f.eng.PointerCancel()

	assert.Nil(t, f.eng.InProgressStroke())
	assert.Empty(t, f.eng.Elements())
}

func TestTapSelectsTopmost(t *testing.T) {
	f := newFixture()
	bottom := f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	top := f.addImage("asset_b", geom.Pt(50, 50), 100, 100)
	f.eng.ClearSelection()

	// Overlap region: the later (topmost) element wins.
	f.tap(geom.Pt(75, 75))
	assert.Equal(t, []string{top}, f.eng.SelectedIDs())
	assert.True(t, f.eng.ShowTools())

	f.tap(geom.Pt(10, 10))
	assert.Equal(t, []string{bottom}, f.eng.SelectedIDs())

	// Empty canvas clears the selection.
	f.tap(geom.Pt(500, 500))
	assert.Empty(t, f.eng.SelectedIDs())
	assert.False(t, f.eng.ShowTools())
}

func TestTapDoesNotMove(t *testing.T) {
	f := newFixture()
	f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	f.eng.ClearSelection()

	f.eng.PointerDown(geom.Pt(50, 50))
	// A wobble below the threshold must not arm the move.
	f.eng.PointerMove(geom.Pt(53, 53))
	f.eng.PointerUp(geom.Pt(53, 53))

	assert.Equal(t, geom.Pt(0, 0), f.eng.Elements()[0].Position)
	assert.False(t, f.eng.CanUndo())
}

func TestLongPressArmsMove(t *testing.T) {
	f := newFixture()
	f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	f.eng.ClearSelection()

	f.eng.PointerDown(geom.Pt(50, 50))
	f.sched.advance(LongPressDelay + 10*time.Millisecond)
	f.eng.PointerMove(geom.Pt(55, 58))
	f.eng.PointerUp(geom.Pt(55, 58))

	assert.Equal(t, geom.Pt(5, 8), f.eng.Elements()[0].Position)
	assert.True(t, f.eng.CanUndo())

	f.eng.Undo()
	assert.Equal(t, geom.Pt(0, 0), f.eng.Elements()[0].Position)
}

func TestDragPastThresholdArmsImmediately(t *testing.T) {
	f := newFixture()
	f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	f.eng.ClearSelection()

	f.eng.PointerDown(geom.Pt(50, 50))
	// Travel beyond the cancel threshold before the timer fires: the move
	// is armed at once and the timer is dead.
	f.eng.PointerMove(geom.Pt(70, 50))
	f.eng.PointerMove(geom.Pt(80, 50))
	f.eng.PointerUp(geom.Pt(80, 50))

	assert.Equal(t, geom.Pt(30, 0), f.eng.Elements()[0].Position)

	// A late timer fire must not resurrect the gesture.
	f.sched.advance(LongPressDelay * 2)
	assert.Equal(t, geom.Pt(30, 0), f.eng.Elements()[0].Position)
}

func TestMoveIsOneUndoEntry(t *testing.T) {
	f := newFixture()
	f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	f.eng.ClearSelection()

	f.eng.PointerDown(geom.Pt(50, 50))
	f.sched.advance(LongPressDelay)
	for i := 1; i <= 20; i++ {
		f.eng.PointerMove(geom.Pt(50+float64(i), 50))
	}
	f.eng.PointerUp(geom.Pt(70, 50))

	// One undo steps over the whole drag, not twenty ticks of it.
	f.eng.Undo()
	assert.Equal(t, geom.Pt(0, 0), f.eng.Elements()[0].Position)
}

func TestResizeGesture(t *testing.T) {
	f := newFixture()
	id := f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	f.eng.SetHandleSize(10)
	require.Equal(t, []string{id}, f.eng.SelectedIDs())

	// Press the bottom-right handle and drag it outward.
	f.eng.PointerDown(geom.Pt(100, 100))
	f.eng.PointerMove(geom.Pt(150, 120))
	f.eng.PointerUp(geom.Pt(150, 120))

	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 150, Height: 120}, f.eng.Elements()[0].Bounds())

	f.eng.Undo()
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}, f.eng.Elements()[0].Bounds())
}

func TestRotateGesture(t *testing.T) {
	f := newFixture()
	f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	f.eng.SetHandleSize(10)

	// Rotate handle sits at (50, -20); center is (50, 50).
	f.eng.PointerDown(geom.Pt(50, -20))
	f.eng.PointerMove(geom.Pt(120, 50))
	f.eng.PointerUp(geom.Pt(120, 50))

	el := f.eng.Elements()[0]
	assert.InDelta(t, math.Pi/2, geom.NormalizeAngle(el.Rotation), 1e-9)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}, el.Bounds(),
		"bounds stay axis-aligned and unchanged under rotation")
	assert.True(t, f.eng.CanUndo())
}

func TestVideoTapTogglesPlayback(t *testing.T) {
	f := newFixture()
	f.media.sizes["vid_1"] = [2]float64{320, 240}
	id, err := f.eng.AddMedia(element.KindVideo, geom.Pt(0, 0), "vid_1")
	require.NoError(t, err)
	f.eng.ClearSelection()

	// First tap selects only.
	f.tap(geom.Pt(100, 100))
	require.Equal(t, []string{id}, f.eng.SelectedIDs())
	assert.False(t, f.eng.Elements()[0].Video.Playing)

	// Tapping the already-selected video toggles playback.
	f.tap(geom.Pt(100, 100))
	assert.True(t, f.eng.Elements()[0].Video.Playing)
	assert.True(t, f.media.playing["vid_1"])

	f.tap(geom.Pt(100, 100))
	assert.False(t, f.eng.Elements()[0].Video.Playing)
	assert.Equal(t, 2, f.media.playOps)
}

func TestNoteDoubleTapOpensEditorOncePerPair(t *testing.T) {
	f := newFixture()
	id := f.eng.AddNote(geom.Pt(0, 0)) // selected on creation

	center := geom.Pt(100, 40)
	f.tap(center)
	f.sched.advance(100 * time.Millisecond)
	f.tap(center)

	assert.Equal(t, []string{id}, f.editor.opened, "exactly one edit call per tap pair")

	// The pair consumed the tap state: two more taps are needed.
	f.sched.advance(50 * time.Millisecond)
	f.tap(center)
	f.sched.advance(100 * time.Millisecond)
	f.tap(center)
	assert.Equal(t, []string{id, id}, f.editor.opened)
}

func TestNoteSlowTapsDoNotOpenEditor(t *testing.T) {
	f := newFixture()
	f.eng.AddNote(geom.Pt(0, 0))

	center := geom.Pt(100, 40)
	f.tap(center)
	f.sched.advance(DoubleTapWindow + time.Millisecond)
	f.tap(center)

	assert.Empty(t, f.editor.opened)
}

func TestSecondPointerSuppressesGesture(t *testing.T) {
	f := newFixture()
	f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	f.eng.ClearSelection()

	f.eng.PointerDown(geom.Pt(50, 50))
	f.eng.PointerDown(geom.Pt(200, 200)) // second finger: camera territory
	f.eng.PointerMove(geom.Pt(90, 90))
	f.eng.PointerUp(geom.Pt(90, 90))
	f.eng.PointerUp(geom.Pt(200, 200))

	assert.Equal(t, geom.Pt(0, 0), f.eng.Elements()[0].Position, "multi-touch never moves elements")
}

func TestCameraActiveIgnoresPointerDown(t *testing.T) {
	f := newFixture()
	f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	f.eng.ClearSelection()
	f.eng.SetCameraActive(true)

	f.eng.PointerDown(geom.Pt(50, 50))
	f.eng.PointerMove(geom.Pt(90, 90))
	f.eng.PointerUp(geom.Pt(90, 90))

	assert.Empty(t, f.eng.SelectedIDs())
	assert.Equal(t, geom.Pt(0, 0), f.eng.Elements()[0].Position)
}

func TestStaleGestureTargetIsSafe(t *testing.T) {
	f := newFixture()
	f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	f.eng.ClearSelection()

	f.eng.PointerDown(geom.Pt(50, 50))
	f.sched.advance(LongPressDelay)

	// The element disappears mid-gesture (e.g. a remote delete).
	f.eng.DeleteSelected()

	f.eng.PointerMove(geom.Pt(90, 90))
	f.eng.PointerUp(geom.Pt(90, 90))
	assert.Empty(t, f.eng.Elements())
}

func TestSetToolDiscardsInProgressStroke(t *testing.T) {
	f := newFixture()
	f.eng.SetTool(ToolPen)
	f.eng.PointerDown(geom.Pt(0, 0))
	f.eng.PointerMove(geom.Pt(10, 0))

	f.eng.SetTool(ToolSelect)
	assert.Nil(t, f.eng.InProgressStroke())
	assert.Empty(t, f.eng.Elements())
}

func TestHandlesQuery(t *testing.T) {
	f := newFixture()
	f.addImage("asset_a", geom.Pt(0, 0), 100, 100)
	f.eng.SetHandleSize(10)

	handles := f.eng.Handles()
	assert.Len(t, handles, 9)

	f.eng.ClearSelection()
	assert.Empty(t, f.eng.Handles())
}
