package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easelhq/easel/internal/element"
	"github.com/easelhq/easel/internal/geom"
)

func note(id, title string) *element.Element {
	return &element.Element{
		ID:   id,
		Kind: element.KindNote,
		Note: &element.Note{Title: title, Width: 200, Height: 80, FontSize: 16},
	}
}

func TestUndoRedoInverse(t *testing.T) {
	s := New()
	before := []*element.Element{note("el_1", "v1")}

	pushed := s.Checkpoint(before)
	require.True(t, pushed)

	after := []*element.Element{note("el_1", "v2")}

	restored, ok := s.Undo(after)
	require.True(t, ok)
	assert.Equal(t, "v1", restored[0].Note.Title)

	redone, ok := s.Redo(restored)
	require.True(t, ok)
	assert.Equal(t, "v2", redone[0].Note.Title)
}

func TestUndoEmptyIsNoop(t *testing.T) {
	s := New()
	_, ok := s.Undo(nil)
	assert.False(t, ok)
	_, ok = s.Redo(nil)
	assert.False(t, ok)
}

func TestCheckpointDedupesIdenticalState(t *testing.T) {
	s := New()
	els := []*element.Element{note("el_1", "same")}

	assert.True(t, s.Checkpoint(els))
	assert.False(t, s.Checkpoint(els), "identical snapshot must be skipped")
	assert.Equal(t, 1, s.Len())

	// Selection is transient: it must not distinguish snapshots.
	selected := element.CloneList(els)
	selected[0].Selected = true
	assert.False(t, s.Checkpoint(selected))
}

func TestCheckpointClearsRedo(t *testing.T) {
	s := New()
	s.Checkpoint([]*element.Element{note("el_1", "v1")})
	_, ok := s.Undo([]*element.Element{note("el_1", "v2")})
	require.True(t, ok)
	require.True(t, s.CanRedo())

	s.Checkpoint([]*element.Element{note("el_1", "v3")})
	assert.False(t, s.CanRedo())
}

func TestDepthBound(t *testing.T) {
	s := NewWithDepth(3)
	for i := 0; i < 10; i++ {
		s.Checkpoint([]*element.Element{note("el_1", fmt.Sprintf("v%d", i))})
	}
	assert.Equal(t, 3, s.Len())

	// The newest snapshots survive; the oldest were evicted.
	restored, _ := s.Undo(nil)
	assert.Equal(t, "v9", restored[0].Note.Title)
}

func TestSnapshotsAreIndependent(t *testing.T) {
	s := New()
	live := []*element.Element{note("el_1", "original")}
	s.Checkpoint(live)

	// Mutating the live list after the checkpoint must not leak into the
	// stored snapshot.
	live[0].Note.Title = "mutated"
	live[0].Position = geom.Pt(50, 50)

	restored, ok := s.Undo(live)
	require.True(t, ok)
	assert.Equal(t, "original", restored[0].Note.Title)
	assert.Equal(t, geom.Pt(0, 0), restored[0].Position)
}
