package history

import (
	"testing"

	"overhex/internal/buffer"
)

func TestUndoRedo(t *testing.T) {
	b := buffer.New()
	b.Load([]byte{0x00, 0x01, 0x02, 0x03})
	h := New()

	old, _ := b.ByteAt(1)
	h.Record(1, old, 0xFF)
	b.SetByte(1, 0xFF)

	if v, _ := b.ByteAt(1); v != 0xFF {
		t.Fatalf("expected 0xFF, got %02X", v)
	}
	if b.ModifiedCount() != 1 {
		t.Fatalf("expected 1 modified, got %d", b.ModifiedCount())
	}

	e, ok := h.Undo(b)
	if !ok {
		t.Fatal("expected undo to succeed")
	}
	if e.Offset != 1 || e.Old != 0x01 || e.New != 0xFF {
		t.Errorf("unexpected entry: %+v", e)
	}
	if v, _ := b.ByteAt(1); v != 0x01 {
		t.Errorf("expected 0x01 after undo, got %02X", v)
	}
	if b.ModifiedCount() != 0 {
		t.Errorf("expected overlay cleaned after undo, got %d", b.ModifiedCount())
	}

	if _, ok := h.Redo(b); !ok {
		t.Fatal("expected redo to succeed")
	}
	if v, _ := b.ByteAt(1); v != 0xFF {
		t.Errorf("expected 0xFF after redo, got %02X", v)
	}
	if b.ModifiedCount() != 1 {
		t.Errorf("expected 1 modified after redo, got %d", b.ModifiedCount())
	}
}

func TestUndoEmptyStack(t *testing.T) {
	b := buffer.New()
	b.Load([]byte{0x00})
	h := New()

	if _, ok := h.Undo(b); ok {
		t.Error("expected undo on empty stack to report false")
	}
	if _, ok := h.Redo(b); ok {
		t.Error("expected redo on empty stack to report false")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	b := buffer.New()
	b.Load([]byte{0x00})
	h := New()

	h.Record(0, 0x00, 0x11)
	b.SetByte(0, 0x11)
	h.Undo(b)

	if !h.CanRedo() {
		t.Fatal("expected redo available after undo")
	}

	h.Record(0, 0x00, 0x22)
	b.SetByte(0, 0x22)

	if h.CanRedo() {
		t.Error("expected fresh edit to clear redo stack")
	}
}

func TestUndoRestoresIntermediateValue(t *testing.T) {
	// Two edits at the same offset: undoing the second restores the
	// first edit's value via the overlay, not the original.
	b := buffer.New()
	b.Load([]byte{0x00})
	h := New()

	h.Record(0, 0x00, 0xA0)
	b.SetByte(0, 0xA0)
	h.Record(0, 0xA0, 0xA5)
	b.SetByte(0, 0xA5)

	h.Undo(b)
	if v, _ := b.ByteAt(0); v != 0xA0 {
		t.Errorf("expected 0xA0, got %02X", v)
	}
	if !b.IsModified(0) {
		t.Error("expected overlay entry for intermediate value")
	}

	h.Undo(b)
	if v, _ := b.ByteAt(0); v != 0x00 {
		t.Errorf("expected original 0x00, got %02X", v)
	}
	if b.IsModified(0) {
		t.Error("expected overlay cleaned when back at original")
	}
}

func TestUndoLIFOOrder(t *testing.T) {
	b := buffer.New()
	b.Load([]byte{0x00, 0x01, 0x02})
	h := New()

	h.Record(0, 0x00, 0x10)
	b.SetByte(0, 0x10)
	h.Record(2, 0x02, 0x30)
	b.SetByte(2, 0x30)

	e, _ := h.Undo(b)
	if e.Offset != 2 {
		t.Errorf("expected most recent edit (offset 2) first, got %d", e.Offset)
	}
	e, _ = h.Undo(b)
	if e.Offset != 0 {
		t.Errorf("expected offset 0 second, got %d", e.Offset)
	}
}

func TestReset(t *testing.T) {
	b := buffer.New()
	b.Load([]byte{0x00})
	h := New()

	h.Record(0, 0x00, 0x11)
	b.SetByte(0, 0x11)
	h.Undo(b)
	h.Reset()

	if h.CanUndo() || h.CanRedo() {
		t.Error("expected both stacks empty after reset")
	}
}
