package canvas

import (
	"log/slog"
	"time"

	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/geom"
	"github.com/easelhq/easel/internal/transform"
)

// Gesture disambiguation constants.
const (
	// LongPressDelay is how long a press must hold still before a move is
	// armed; a shorter press is a plain tap.
	LongPressDelay = 200 * time.Millisecond

	// DragCancelThreshold is the travel (logical units) past which the
	// long-press timer is abandoned and the move is armed immediately.
	DragCancelThreshold = 10.0

	// DoubleTapWindow is the maximum gap between two qualifying taps on a
	// selected note to open content editing.
	DoubleTapWindow = 500 * time.Millisecond
)

type phase int

const (
	phaseIdle phase = iota
	phaseArmedMove
	phaseMoving
	phaseResizing
	phaseRotating
	phaseDrawing
)

// gestureState is the transient interaction state. It is zeroed on every
// terminal transition; the timer is cancelled at the same point so a
// stale callback can never race a live gesture.
type gestureState struct {
	phase        phase
	pointers     int
	cameraActive bool

	activeID     string
	activeHandle element.HandleKind
	angleOffset  float64 // atan2(press - center) - rotation at press time
	pressStart   geom.Point
	last         geom.Point

	wasSelectedAtDown bool
	checkpointed      bool

	cancelTimer CancelFunc
	timerGen    uint64

	lastTapID string
	lastTapAt time.Time
}

func (e *Engine) resetGesture() {
	g := &e.gesture
	e.cancelLongPress()
	g.phase = phaseIdle
	g.activeID = ""
	g.activeHandle = ""
	g.angleOffset = 0
	g.wasSelectedAtDown = false
	g.checkpointed = false
}

func (e *Engine) cancelLongPress() {
	g := &e.gesture
	g.timerGen++
	if g.cancelTimer != nil {
		g.cancelTimer()
		g.cancelTimer = nil
	}
}

// ensureCheckpoint lazily captures the pre-action state on the first
// effective delta of a gesture, so taps and no-op drags never touch
// history or clear the redo stack.
func (e *Engine) ensureCheckpoint() {
	if e.gesture.checkpointed {
		return
	}
	e.hist.Checkpoint(e.elements)
	e.gesture.checkpointed = true
}

// PointerDown feeds a pointer-down at p (canvas coordinates).
func (e *Engine) PointerDown(p geom.Point) {
	g := &e.gesture
	g.pointers++

	// Multi-touch is reserved for the external camera collaborator; a
	// second pointer also kills a pending single-pointer gesture.
	if g.pointers > 1 || g.cameraActive {
		if g.phase == phaseArmedMove {
			e.resetGesture()
		} else {
			e.cancelLongPress()
		}
		return
	}

	switch e.tool {
	case ToolPen:
		e.beginStroke(p)
	default:
		e.downSelect(p)
	}
}

// PointerMove feeds a pointer-move at p.
func (e *Engine) PointerMove(p geom.Point) {
	g := &e.gesture
	if g.pointers > 1 {
		return
	}

	switch g.phase {
	case phaseArmedMove:
		if p.Dist(g.pressStart) > DragCancelThreshold {
			// Intent is unambiguous: drag wins over the long-press delay.
			e.cancelLongPress()
			g.phase = phaseMoving
			e.applyMove(p)
		}
	case phaseMoving:
		e.applyMove(p)
	case phaseResizing:
		e.applyResize(p)
	case phaseRotating:
		e.applyRotate(p)
	case phaseDrawing:
		e.appendStrokePoint(p)
	}
}

// PointerUp feeds a pointer-up at p. The gesture finalizes when the last
// active pointer lifts.
func (e *Engine) PointerUp(p geom.Point) {
	g := &e.gesture
	if g.pointers > 0 {
		g.pointers--
	}
	if g.pointers > 0 {
		return
	}

	switch g.phase {
	case phaseArmedMove:
		e.handleTap()
	case phaseDrawing:
		e.finishStroke()
	case phaseMoving, phaseResizing, phaseRotating:
		// Deltas were applied and checkpointed as they arrived; lifting
		// the pointer just commits the current state.
	}
	e.resetGesture()
}

// PointerCancel aborts the interaction: an in-progress stroke is
// discarded, move/resize/rotate keep their last applied state.
func (e *Engine) PointerCancel() {
	g := &e.gesture
	g.pointers = 0

	if g.phase == phaseDrawing && e.stroke != nil {
		e.stroke = nil
		e.notify()
	}
	e.resetGesture()
}

// --- pointer-down handling, select tool ---

func (e *Engine) downSelect(p geom.Point) {
	g := &e.gesture

	// With exactly one selection, its handles get first claim on the
	// press.
	if id, ok := e.sel.Only(); ok {
		if el := e.byID(id); el != nil {
			if h, hit := element.HandleAt(el.Bounds(), e.handleSize, p); hit {
				g.activeID = id
				g.last = p
				if h == element.HandleRotate {
					center := el.Bounds().Center()
					g.angleOffset = center.AngleTo(p) - el.Rotation
					g.phase = phaseRotating
				} else {
					g.activeHandle = h
					g.phase = phaseResizing
				}
				return
			}
		}
	}

	// Body hit test, topmost first.
	for i := len(e.elements) - 1; i >= 0; i-- {
		el := e.elements[i]
		if !el.ContainsPoint(p) {
			continue
		}
		g.wasSelectedAtDown = e.sel.Has(el.ID)
		g.activeID = el.ID
		g.pressStart = p
		g.last = p
		g.phase = phaseArmedMove
		e.startLongPress()
		e.selectOnly(el.ID)
		e.notify()
		return
	}

	e.ClearSelection()
}

func (e *Engine) startLongPress() {
	g := &e.gesture
	e.cancelLongPress()
	gen := g.timerGen
	g.cancelTimer = e.sched.Schedule(LongPressDelay, func() {
		e.onLongPress(gen)
	})
}

func (e *Engine) onLongPress(gen uint64) {
	g := &e.gesture
	if gen != g.timerGen || g.phase != phaseArmedMove {
		// Stale fire; the state machine already moved on.
		return
	}
	g.cancelTimer = nil
	g.phase = phaseMoving
}

// --- drag application ---

func (e *Engine) applyMove(p geom.Point) {
	g := &e.gesture
	el := e.byID(g.activeID)
	if el == nil {
		slog.Debug("move target vanished", "id", g.activeID)
		e.resetGesture()
		return
	}

	delta := p.Sub(g.last)
	if delta.X == 0 && delta.Y == 0 {
		return
	}

	e.ensureCheckpoint()
	e.replace(transform.MoveBy(el, delta))
	g.last = p
	e.notify()
}

func (e *Engine) applyResize(p geom.Point) {
	g := &e.gesture
	el := e.byID(g.activeID)
	if el == nil {
		slog.Debug("resize target vanished", "id", g.activeID)
		e.resetGesture()
		return
	}

	next := transform.Resize(el, g.activeHandle, p, e.measurer)
	if next == el {
		return
	}
	e.ensureCheckpoint()
	e.replace(next)
	e.notify()
}

func (e *Engine) applyRotate(p geom.Point) {
	g := &e.gesture
	el := e.byID(g.activeID)
	if el == nil {
		slog.Debug("rotate target vanished", "id", g.activeID)
		e.resetGesture()
		return
	}

	center := el.Bounds().Center()
	newRotation := center.AngleTo(p) - g.angleOffset
	if newRotation == el.Rotation {
		return
	}

	e.ensureCheckpoint()
	e.replace(transform.Rotate(el, newRotation))
	e.notify()
}

// --- tap handling ---

func (e *Engine) handleTap() {
	g := &e.gesture
	el := e.byID(g.activeID)
	if el == nil || !g.wasSelectedAtDown {
		return
	}

	switch el.Kind {
	case element.KindVideo:
		e.toggleVideoPlayback(el)
	case element.KindNote:
		now := e.sched.Now()
		if g.lastTapID == el.ID && now.Sub(g.lastTapAt) <= DoubleTapWindow {
			g.lastTapID = ""
			if e.noteEditor != nil {
				e.noteEditor.EditNote(el.ID)
			}
		} else {
			g.lastTapID = el.ID
			g.lastTapAt = now
		}
	}
}

func (e *Engine) toggleVideoPlayback(el *element.Element) {
	if el.Video == nil {
		return
	}
	playing := !el.Video.Playing
	next := el.ApplyChanges(element.Changes{Playing: &playing})
	e.replace(next)
	if e.media != nil {
		e.media.SetPlaying(next.Video.Handle, playing)
	}
	e.notify()
}

// --- pen tool / stroke lifecycle ---

func (e *Engine) beginStroke(p geom.Point) {
	e.gesture.phase = phaseDrawing
	e.stroke = &element.Element{
		ID:       newElementID(),
		Kind:     element.KindPen,
		Position: p,
		Pen: &element.Pen{
			Points:      []geom.Point{p},
			Color:       e.penColor,
			StrokeWidth: e.penWidth,
		},
	}
	e.notify()
}

func (e *Engine) appendStrokePoint(p geom.Point) {
	if e.stroke == nil || e.stroke.Pen == nil {
		return
	}
	e.stroke.Pen.Points = append(e.stroke.Pen.Points, p)
	e.notify()
}

// finishStroke commits the in-progress stroke, discarding degenerate
// strokes of fewer than two points.
func (e *Engine) finishStroke() {
	s := e.stroke
	e.stroke = nil
	if s == nil {
		return
	}
	if s.Pen == nil || len(s.Pen.Points) < 2 {
		e.notify()
		return
	}

	b := s.Bounds()
	s.Position = geom.Pt(b.X, b.Y)
	e.hist.Checkpoint(e.elements)
	e.elements = append(e.elements, s)
	e.notify()
}
