// Package canvas implements the interaction engine for the infinite
// drawing canvas: it owns the ordered element list, the in-progress
// stroke, selection, undo/redo history and the gesture state machine
// that turns raw pointer events into element mutations.
//
// The engine is single-threaded by contract: the host delivers pointer
// events, commands and scheduler callbacks on one goroutine and reads a
// consistent snapshot after each change notification.
package canvas

import (
	"errors"
	"log/slog"

	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/geom"
	"github.com/easelhq/easel/internal/history"
	"github.com/easelhq/easel/internal/typeid"
)

// Tool selects how pointer events are interpreted.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolPen    Tool = "pen"
)

// DefaultHandleSize is the handle side length before the host rescales it
// for the current view zoom.
const DefaultHandleSize = 12.0

var (
	ErrNoMediaResolver = errors.New("no media resolver configured")
	ErrUnknownMedia    = errors.New("kind is not a media variant")
)

// Config carries the engine's external collaborators. Zero values get
// safe defaults: an approximate text measurer, a real-time scheduler, and
// no-op media/note-editor ports.
type Config struct {
	Measurer   TextMeasurer
	Media      MediaResolver
	NoteEditor NoteEditor
	Scheduler  Scheduler
	Depth      int // history depth, DefaultDepth when 0
}

// Engine owns the canonical canvas state. Construct with NewEngine and
// pass by reference into the host; there is no process-wide instance.
type Engine struct {
	elements []*element.Element
	stroke   *element.Element // in-progress pen stroke, nil when idle
	sel      *Selection
	hist     *history.Stack
	depth    int

	measurer   TextMeasurer
	media      MediaResolver
	noteEditor NoteEditor
	sched      Scheduler

	tool       Tool
	penColor   string
	penWidth   float64
	handleSize float64

	gesture gestureState

	subs   map[int]func()
	nextID int
}

// NewEngine constructs an engine with an empty canvas.
func NewEngine(cfg Config) *Engine {
	if cfg.Measurer == nil {
		cfg.Measurer = approxMeasurer{}
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = timerScheduler{}
	}

	return &Engine{
		sel:        newSelection(),
		hist:       history.NewWithDepth(depthOrDefault(cfg.Depth)),
		depth:      depthOrDefault(cfg.Depth),
		measurer:   cfg.Measurer,
		media:      cfg.Media,
		noteEditor: cfg.NoteEditor,
		sched:      cfg.Scheduler,
		tool:       ToolSelect,
		penColor:   "#1a1a2e",
		penWidth:   4,
		handleSize: DefaultHandleSize,
		subs:       make(map[int]func()),
	}
}

func depthOrDefault(d int) int {
	if d <= 0 {
		return history.DefaultDepth
	}
	return d
}

// --- Change notification ---

// Subscribe registers fn to run after every mutation. The returned func
// unsubscribes it.
func (e *Engine) Subscribe(fn func()) func() {
	e.nextID++
	id := e.nextID
	e.subs[id] = fn
	return func() { delete(e.subs, id) }
}

func (e *Engine) notify() {
	for _, fn := range e.subs {
		fn()
	}
}

// --- Queries ---

// Elements returns the committed element list in z-order (later entries
// render on top). Callers must treat it as read-only.
func (e *Engine) Elements() []*element.Element { return e.elements }

// InProgressStroke returns the stroke currently being drawn, or nil. It
// is not part of the committed list and never hit-tested.
func (e *Engine) InProgressStroke() *element.Element { return e.stroke }

// SelectedIDs returns the selected element ids.
func (e *Engine) SelectedIDs() []string { return e.sel.IDs() }

// ShowTools reports whether contextual tools should be shown.
func (e *Engine) ShowTools() bool { return e.sel.ShowTools() }

// Tool returns the active tool.
func (e *Engine) Tool() Tool { return e.tool }

// CanUndo reports whether history holds an undo snapshot.
func (e *Engine) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether history holds a redo snapshot.
func (e *Engine) CanRedo() bool { return e.hist.CanRedo() }

// Handles returns the handle rectangles for the single selected element,
// or an empty map when zero or several elements are selected.
func (e *Engine) Handles() map[element.HandleKind]geom.Rect {
	id, ok := e.sel.Only()
	if !ok {
		return map[element.HandleKind]geom.Rect{}
	}
	el := e.byID(id)
	if el == nil {
		return map[element.HandleKind]geom.Rect{}
	}
	return element.CalculateHandles(el.Bounds(), e.handleSize)
}

// --- Settings ---

// SetTool switches the active tool. An in-progress stroke is discarded.
func (e *Engine) SetTool(t Tool) {
	if t != ToolSelect && t != ToolPen {
		return
	}
	if e.tool == t {
		return
	}
	e.stroke = nil
	e.resetGesture()
	e.tool = t
	e.notify()
}

// SetPenStyle sets the color and stroke width for new strokes.
func (e *Engine) SetPenStyle(color string, width float64) {
	if color != "" {
		e.penColor = color
	}
	if width > 0 {
		e.penWidth = width
	}
}

// SetHandleSize installs the handle side length, pre-scaled by the host
// with the inverse view zoom so handles keep a constant screen size.
func (e *Engine) SetHandleSize(s float64) {
	if s > 0 {
		e.handleSize = s
	}
}

// SetCameraActive tells the engine the external pan/zoom collaborator is
// driving the view. Pointer-downs are ignored while active and a pending
// long-press is abandoned.
func (e *Engine) SetCameraActive(active bool) {
	e.gesture.cameraActive = active
	if active && e.gesture.phase == phaseArmedMove {
		e.resetGesture()
	}
}

// --- Element lookup / mutation helpers ---

func (e *Engine) byID(id string) *element.Element {
	for _, el := range e.elements {
		if el.ID == id {
			return el
		}
	}
	return nil
}

func (e *Engine) indexOf(id string) int {
	for i, el := range e.elements {
		if el.ID == id {
			return i
		}
	}
	return -1
}

// replace swaps the element with next's id for next, preserving list
// position. A missing id is a defensive no-op (the element may have been
// deleted while a gesture was in flight).
func (e *Engine) replace(next *element.Element) bool {
	i := e.indexOf(next.ID)
	if i < 0 {
		slog.Debug("replace on missing element", "id", next.ID)
		return false
	}
	e.elements[i] = next
	return true
}

func (e *Engine) selectOnly(id string) {
	for _, el := range e.elements {
		el.Selected = el.ID == id
	}
	e.sel.Select(id)
}

// ClearSelection deselects everything and hides the tools.
func (e *Engine) ClearSelection() {
	changed := e.sel.Len() > 0
	for _, el := range e.elements {
		el.Selected = false
	}
	e.sel.Clear()
	if changed {
		e.notify()
	}
}

// Select selects the given element, if present.
func (e *Engine) Select(id string) {
	if e.byID(id) == nil {
		slog.Debug("select on missing element", "id", id)
		return
	}
	e.selectOnly(id)
	e.notify()
}

// --- History ---

// Undo restores the most recent snapshot. A no-op on empty history. The
// live selection is cleared because restored ids may no longer match it.
func (e *Engine) Undo() {
	restored, ok := e.hist.Undo(e.elements)
	if !ok {
		return
	}
	e.resetGesture()
	e.elements = restored
	e.sel.Clear()
	e.notify()
}

// Redo is the mirror of Undo.
func (e *Engine) Redo() {
	restored, ok := e.hist.Redo(e.elements)
	if !ok {
		return
	}
	e.resetGesture()
	e.elements = restored
	e.sel.Clear()
	e.notify()
}

// --- Batch operations on the selection ---

// DeleteSelected removes all selected elements.
func (e *Engine) DeleteSelected() {
	if e.sel.Len() == 0 {
		return
	}
	e.hist.Checkpoint(e.elements)

	kept := e.elements[:0]
	for _, el := range e.elements {
		if !e.sel.Has(el.ID) {
			kept = append(kept, el)
		}
	}
	e.elements = kept
	e.sel.Clear()
	e.resetGesture()
	e.notify()
}

// BringForward moves every selected element one step toward the top of
// the z-order.
func (e *Engine) BringForward() {
	if !e.canShiftUp() {
		return
	}
	e.hist.Checkpoint(e.elements)
	for i := len(e.elements) - 2; i >= 0; i-- {
		if e.sel.Has(e.elements[i].ID) && !e.sel.Has(e.elements[i+1].ID) {
			e.elements[i], e.elements[i+1] = e.elements[i+1], e.elements[i]
		}
	}
	e.notify()
}

// SendBackward moves every selected element one step toward the bottom.
func (e *Engine) SendBackward() {
	if !e.canShiftDown() {
		return
	}
	e.hist.Checkpoint(e.elements)
	for i := 1; i < len(e.elements); i++ {
		if e.sel.Has(e.elements[i].ID) && !e.sel.Has(e.elements[i-1].ID) {
			e.elements[i], e.elements[i-1] = e.elements[i-1], e.elements[i]
		}
	}
	e.notify()
}

func (e *Engine) canShiftUp() bool {
	for i := 0; i < len(e.elements)-1; i++ {
		if e.sel.Has(e.elements[i].ID) && !e.sel.Has(e.elements[i+1].ID) {
			return true
		}
	}
	return false
}

func (e *Engine) canShiftDown() bool {
	for i := 1; i < len(e.elements); i++ {
		if e.sel.Has(e.elements[i].ID) && !e.sel.Has(e.elements[i-1].ID) {
			return true
		}
	}
	return false
}

// --- Load / snapshot (persistence collaborator boundary) ---

// LoadElements replaces the canvas content, resetting history, selection
// and any in-flight gesture. Used when a host restores a saved board.
func (e *Engine) LoadElements(els []*element.Element) {
	e.resetGesture()
	e.stroke = nil
	e.elements = element.CloneList(els)
	e.sel.Clear()
	e.hist = history.NewWithDepth(e.depth)
	e.notify()
}

// Snapshot returns an independent deep copy of the committed list, safe
// to hand to a persistence collaborator.
func (e *Engine) Snapshot() []*element.Element {
	return element.CloneList(e.elements)
}

// newElementID is a seam for tests that want deterministic ids.
var newElementID = typeid.NewElementID
