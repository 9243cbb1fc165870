// Package history provides the bounded undo/redo stacks for the canvas.
// Each entry is an independent deep-cloned snapshot of the full element
// list, so later mutation of live elements cannot corrupt history.
package history

import (
	"encoding/json"
	"hash/fnv"
	"log/slog"

	"github.com/easelhq/easel/internal/element"
)

// DefaultDepth is the maximum number of snapshots kept per stack. The
// oldest entries are evicted from the front when the bound is exceeded.
const DefaultDepth = 50

type entry struct {
	elements []*element.Element
	sig      uint64
}

// Stack holds the undo and redo snapshot stacks.
type Stack struct {
	undo  []entry
	redo  []entry
	depth int
}

// New returns a stack bounded at DefaultDepth.
func New() *Stack {
	return NewWithDepth(DefaultDepth)
}

// NewWithDepth returns a stack bounded at the given depth (minimum 1).
func NewWithDepth(depth int) *Stack {
	if depth < 1 {
		depth = 1
	}
	return &Stack{depth: depth}
}

// Checkpoint saves a deep clone of els onto the undo stack and clears the
// redo stack. A checkpoint structurally identical to the current top is
// skipped, so no-op drags do not produce redundant history entries.
// Reports whether an entry was pushed.
func (s *Stack) Checkpoint(els []*element.Element) bool {
	snap := entry{elements: element.CloneList(els), sig: signature(els)}

	if n := len(s.undo); n > 0 && s.undo[n-1].sig == snap.sig {
		return false
	}

	s.undo = append(s.undo, snap)
	if len(s.undo) > s.depth {
		s.undo = s.undo[1:]
	}
	s.redo = nil
	return true
}

// Undo exchanges the live list for the most recent snapshot: current is
// cloned onto the redo stack and the popped snapshot is returned as the
// new live list. Returns ok=false on an empty stack (no-op).
func (s *Stack) Undo(current []*element.Element) ([]*element.Element, bool) {
	n := len(s.undo)
	if n == 0 {
		return nil, false
	}

	s.redo = append(s.redo, entry{elements: element.CloneList(current), sig: signature(current)})
	if len(s.redo) > s.depth {
		s.redo = s.redo[1:]
	}

	top := s.undo[n-1]
	s.undo = s.undo[:n-1]
	return top.elements, true
}

// Redo is the mirror of Undo.
func (s *Stack) Redo(current []*element.Element) ([]*element.Element, bool) {
	n := len(s.redo)
	if n == 0 {
		return nil, false
	}

	s.undo = append(s.undo, entry{elements: element.CloneList(current), sig: signature(current)})
	if len(s.undo) > s.depth {
		s.undo = s.undo[1:]
	}

	top := s.redo[n-1]
	s.redo = s.redo[:n-1]
	return top.elements, true
}

// CanUndo reports whether an undo snapshot is available.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// Len returns the current undo depth.
func (s *Stack) Len() int { return len(s.undo) }

// signature computes a cheap structural fingerprint of an element list.
// Selected is excluded from the JSON encoding, so transient selection
// never distinguishes two snapshots.
func signature(els []*element.Element) uint64 {
	h := fnv.New64a()
	for _, e := range els {
		data, err := json.Marshal(e)
		if err != nil {
			// Should be unreachable: element payloads are plain data.
			slog.Warn("signature marshal failed", "id", e.ID, "error", err)
			continue
		}
		h.Write(data)
		h.Write([]byte{0})
	}
	return h.Sum64()
}
