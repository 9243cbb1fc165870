package canvas

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/geom"
	"github.com/easelhq/easel/internal/transform"
)

// fakeScheduler delivers timer callbacks synchronously from advance, the
// way a host event loop would.
type fakeScheduler struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Unix(1000, 0)}
}

func (s *fakeScheduler) Now() time.Time { return s.now }

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := &fakeTimer{at: s.now.Add(d), fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.stopped = true }
}

func (s *fakeScheduler) advance(d time.Duration) {
	s.now = s.now.Add(d)
	for _, t := range s.timers {
		if !t.stopped && !t.fired && !t.at.After(s.now) {
			t.fired = true
			t.fn()
		}
	}
}

type fakeMedia struct {
	sizes    map[string][2]float64
	playing  map[string]bool
	playOps  int
	failNext error
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{sizes: map[string][2]float64{}, playing: map[string]bool{}}
}

func (m *fakeMedia) NaturalSize(ref string) (float64, float64, error) {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return 0, 0, err
	}
	s, ok := m.sizes[ref]
	if !ok {
		return 0, 0, errors.New("unknown media ref")
	}
	return s[0], s[1], nil
}

func (m *fakeMedia) SetPlaying(handle string, playing bool) {
	m.playing[handle] = playing
	m.playOps++
}

type fakeEditor struct {
	opened []string
}

func (f *fakeEditor) EditNote(id string) { f.opened = append(f.opened, id) }

type fixture struct {
	eng    *Engine
	sched  *fakeScheduler
	media  *fakeMedia
	editor *fakeEditor
}

func newFixture() *fixture {
	f := &fixture{
		sched:  newFakeScheduler(),
		media:  newFakeMedia(),
		editor: &fakeEditor{},
	}
	f.eng = NewEngine(Config{
		Media:      f.media,
		NoteEditor: f.editor,
		Scheduler:  f.sched,
	})
	return f
}

// addImage inserts a media element directly through the creation API.
func (f *fixture) addImage(ref string, pos geom.Point, w, h float64) string {
	f.media.sizes[ref] = [2]float64{w, h}
	id, err := f.eng.AddMedia(element.KindImage, pos, ref)
	if err != nil {
		panic(err)
	}
	return id
}

func TestAddMediaUsesNaturalSize(t *testing.T) {
	f := newFixture()
	id := f.addImage("asset_1", geom.Pt(10, 20), 640, 480)

	els := f.eng.Elements()
	require.Len(t, els, 1)
	assert.Equal(t, id, els[0].ID)
	assert.Equal(t, geom.Rect{X: 10, Y: 20, Width: 640, Height: 480}, els[0].Bounds())
	assert.Equal(t, []string{id}, f.eng.SelectedIDs(), "creation selects the new element")
	assert.True(t, f.eng.ShowTools())
}

func TestAddMediaFailureMutatesNothing(t *testing.T) {
	f := newFixture()
	f.media.failNext = errors.New("decode failed")

	_, err := f.eng.AddMedia(element.KindImage, geom.Pt(0, 0), "asset_x")
	require.Error(t, err)
	assert.Empty(t, f.eng.Elements())
	assert.False(t, f.eng.CanUndo(), "a failed creation must not leave a history entry")
}

func TestAddMediaWithoutResolver(t *testing.T) {
	eng := NewEngine(Config{Scheduler: newFakeScheduler()})
	_, err := eng.AddMedia(element.KindVideo, geom.Pt(0, 0), "asset_1")
	assert.ErrorIs(t, err, ErrNoMediaResolver)
}

func TestAddNoteStartsAtMinHeight(t *testing.T) {
	f := newFixture()
	id := f.eng.AddNote(geom.Pt(0, 0))

	els := f.eng.Elements()
	require.Len(t, els, 1)
	require.Equal(t, id, els[0].ID)
	assert.Equal(t, transform.DefaultNoteWidth, els[0].Note.Width)
	assert.Equal(t, transform.NoteMinHeight, els[0].Note.Height)
}

func TestUpdateNoteContentReflows(t *testing.T) {
	f := newFixture()
	id := f.eng.AddNote(geom.Pt(0, 0))

	long := "this note has a fairly long body that wraps over several lines once the available width runs out entirely"
	f.eng.UpdateNoteContent(id, "title", long)

	note := f.eng.Elements()[0].Note
	want := transform.LayoutHeight(approxMeasurer{}, "title", long, note.FontSize, note.Width)
	assert.Equal(t, want, note.Height)
	assert.Greater(t, note.Height, transform.NoteMinHeight)

	// Stale ids are safe no-ops.
	f.eng.UpdateNoteContent("el_gone", "x", "y")
}

func TestSetNoteColorAndTogglePin(t *testing.T) {
	f := newFixture()
	id := f.eng.AddNote(geom.Pt(0, 0))

	f.eng.SetNoteColor(id, "#bbdefb")
	assert.Equal(t, "#bbdefb", f.eng.Elements()[0].Note.Background)

	f.eng.TogglePin(id)
	assert.True(t, f.eng.Elements()[0].Note.Pinned)
	f.eng.TogglePin(id)
	assert.False(t, f.eng.Elements()[0].Note.Pinned)
}

func TestAddText(t *testing.T) {
	f := newFixture()
	id, err := f.eng.AddText("hello", geom.Pt(5, 5))
	require.NoError(t, err)

	els := f.eng.Elements()
	require.Len(t, els, 1)
	assert.Equal(t, id, els[0].ID)
	assert.False(t, els[0].Bounds().IsEmpty(), "text bounds come from the measurer")

	_, err = f.eng.AddText("", geom.Pt(0, 0))
	assert.Error(t, err)
}

func TestUndoOnFreshEngineIsNoop(t *testing.T) {
	f := newFixture()
	f.eng.Undo()
	f.eng.Redo()
	assert.Empty(t, f.eng.Elements())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	f := newFixture()
	id := f.addImage("asset_1", geom.Pt(0, 0), 10, 10)

	f.eng.Undo()
	assert.Empty(t, f.eng.Elements())
	assert.Empty(t, f.eng.SelectedIDs(), "undo clears the live selection")
	assert.False(t, f.eng.ShowTools())

	f.eng.Redo()
	require.Len(t, f.eng.Elements(), 1)
	assert.Equal(t, id, f.eng.Elements()[0].ID)
}

func TestDeleteSelected(t *testing.T) {
	f := newFixture()
	f.addImage("asset_1", geom.Pt(0, 0), 10, 10)
	id2 := f.addImage("asset_2", geom.Pt(50, 50), 10, 10)

	f.eng.Select(id2)
	f.eng.DeleteSelected()

	require.Len(t, f.eng.Elements(), 1)
	assert.Empty(t, f.eng.SelectedIDs())
	assert.False(t, f.eng.ShowTools())

	f.eng.Undo()
	assert.Len(t, f.eng.Elements(), 2)
}

func TestDeleteNothingSelectedIsNoop(t *testing.T) {
	f := newFixture()
	f.addImage("asset_1", geom.Pt(0, 0), 10, 10)
	f.eng.ClearSelection()

	before := f.eng.CanUndo()
	f.eng.DeleteSelected()
	assert.Len(t, f.eng.Elements(), 1)
	assert.Equal(t, before, f.eng.CanUndo())
}

func TestIDUniquenessAcrossHistory(t *testing.T) {
	f := newFixture()
	f.addImage("asset_1", geom.Pt(0, 0), 10, 10)
	id2 := f.addImage("asset_2", geom.Pt(50, 50), 10, 10)
	f.eng.AddNote(geom.Pt(100, 100))

	f.eng.Select(id2)
	f.eng.DeleteSelected()
	f.eng.Undo()
	f.eng.Redo()
	f.eng.Undo()

	seen := map[string]bool{}
	for _, el := range f.eng.Elements() {
		assert.False(t, seen[el.ID], "duplicate id %s", el.ID)
		seen[el.ID] = true
	}
}

func TestZOrder(t *testing.T) {
	f := newFixture()
	a := f.addImage("asset_a", geom.Pt(0, 0), 10, 10)
	b := f.addImage("asset_b", geom.Pt(0, 0), 10, 10)
	c := f.addImage("asset_c", geom.Pt(0, 0), 10, 10)

	order := func() []string {
		ids := make([]string, 0, 3)
		for _, el := range f.eng.Elements() {
			ids = append(ids, el.ID)
		}
		return ids
	}

	f.eng.Select(a)
	f.eng.BringForward()
	assert.Equal(t, []string{b, a, c}, order())

	f.eng.BringForward()
	assert.Equal(t, []string{b, c, a}, order())

	// Already on top: no-op, no history entry.
	undoDepth := f.eng.CanUndo()
	f.eng.BringForward()
	assert.Equal(t, []string{b, c, a}, order())
	assert.Equal(t, undoDepth, f.eng.CanUndo())

	f.eng.SendBackward()
	assert.Equal(t, []string{b, a, c}, order())
}

func TestSubscribeNotify(t *testing.T) {
	f := newFixture()

	calls := 0
	unsub := f.eng.Subscribe(func() { calls++ })

	f.eng.AddNote(geom.Pt(0, 0))
	assert.Positive(t, calls)

	seen := calls
	unsub()
	f.eng.AddNote(geom.Pt(50, 50))
	assert.Equal(t, seen, calls)
}

func TestSelectionInvariant(t *testing.T) {
	s := newSelection()
	assert.False(t, s.ShowTools())

	s.Select("el_1")
	assert.True(t, s.ShowTools())

	s.Clear()
	assert.Empty(t, s.IDs())
	assert.False(t, s.ShowTools())
}

func TestDeleteSelectedHidesTools(t *testing.T) {
	f := newFixture()
	f.addImage("asset_1", geom.Pt(0, 0), 100, 100)
	require.True(t, f.eng.ShowTools())

	f.eng.DeleteSelected()
	assert.Empty(t, f.eng.SelectedIDs())
	assert.False(t, f.eng.ShowTools(), "tools never outlive the selection")
}

func TestLoadElementsResetsState(t *testing.T) {
	f := newFixture()
	f.addImage("asset_1", geom.Pt(0, 0), 10, 10)

	snap := f.eng.Snapshot()
	f.eng.AddNote(geom.Pt(5, 5))

	f.eng.LoadElements(snap)
	assert.Len(t, f.eng.Elements(), 1)
	assert.Empty(t, f.eng.SelectedIDs())
	assert.False(t, f.eng.CanUndo(), "loading a board resets history")

	// The loaded list must not alias the caller's snapshot.
	snap[0].Position = geom.Pt(99, 99)
	assert.Equal(t, geom.Pt(0, 0), f.eng.Elements()[0].Position)
}
