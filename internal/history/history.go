// Package history records byte edits so they can be undone and redone
// in LIFO order.
package history

import "overhex/internal/buffer"

// Entry is a single recorded edit. Entries are immutable once pushed.
type Entry struct {
	Offset int64
	Old    byte
	New    byte
}

// History owns the undo and redo stacks for one buffer. Recording a
// fresh edit invalidates everything on the redo stack.
type History struct {
	undo []Entry
	redo []Entry
}

func New() *History {
	return &History{}
}

// Record pushes an edit onto the undo stack and clears the redo stack.
func (h *History) Record(offset int64, oldVal, newVal byte) {
	h.undo = append(h.undo, Entry{Offset: offset, Old: oldVal, New: newVal})
	h.redo = nil
}

// Undo reverts the most recent edit against buf. If the old value
// matches the pristine original at that offset the overlay entry is
// discarded rather than rewritten, so the overlay only keeps true
// differences. Returns false when there is nothing to undo.
func (h *History) Undo(buf *buffer.Buffer) (Entry, bool) {
	if len(h.undo) == 0 {
		return Entry{}, false
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)

	if orig, err := buf.OriginalAt(e.Offset); err == nil && orig == e.Old {
		buf.Discard(e.Offset)
	} else {
		buf.SetByte(e.Offset, e.Old)
	}
	return e, true
}

// Redo reapplies the most recently undone edit against buf. Returns
// false when there is nothing to redo.
func (h *History) Redo(buf *buffer.Buffer) (Entry, bool) {
	if len(h.redo) == 0 {
		return Entry{}, false
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)

	buf.SetByte(e.Offset, e.New)
	return e, true
}

func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Reset discards both stacks. Called on load and after a successful
// save, which makes pre-save edits permanently non-undoable.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}
