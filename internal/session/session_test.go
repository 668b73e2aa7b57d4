package session

import (
	"bytes"
	"errors"
	"testing"
)

func TestLoadResetsState(t *testing.T) {
	s := New()
	s.Load([]byte{0x00, 0x01, 0x02})
	s.SetCursor(2)
	s.EditDigit(0xA)
	s.Select(0, 1)

	s.Load([]byte{0x10, 0x20})

	if s.Pos() != 0 {
		t.Errorf("expected cursor 0 after load, got %d", s.Pos())
	}
	if s.Parity() != HighPending {
		t.Error("expected HighPending parity after load")
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("expected history cleared on load")
	}
	if _, _, ok := s.Selection(); ok {
		t.Error("expected selection cleared on load")
	}
	if s.Buffer().ModifiedCount() != 0 {
		t.Error("expected clean overlay after load")
	}
}

func TestMoveCursorClamps(t *testing.T) {
	s := New()
	s.Load([]byte{0x00, 0x01, 0x02, 0x03})

	s.MoveCursor(-10)
	if s.Pos() != 0 {
		t.Errorf("expected clamp to 0, got %d", s.Pos())
	}
	s.MoveCursor(100)
	if s.Pos() != 3 {
		t.Errorf("expected clamp to 3, got %d", s.Pos())
	}
}

func TestNibbleEntry(t *testing.T) {
	// Cursor at offset 2 holding 0x02, hex mode, HighPending.
	s := New()
	s.Load([]byte{0x00, 0x01, 0x02, 0x03})
	s.SetCursor(2)

	if err := s.EditDigit(0xA); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Buffer().ByteAt(2); v != 0xA2 {
		t.Errorf("expected 0xA2, got %02X", v)
	}
	if s.Pos() != 2 {
		t.Errorf("expected cursor to stay at 2, got %d", s.Pos())
	}
	if s.Parity() != LowPending {
		t.Error("expected LowPending after high nibble")
	}

	if err := s.EditDigit(0x5); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Buffer().ByteAt(2); v != 0xA5 {
		t.Errorf("expected 0xA5, got %02X", v)
	}
	if s.Pos() != 3 {
		t.Errorf("expected cursor to advance to 3, got %d", s.Pos())
	}
	if s.Parity() != HighPending {
		t.Error("expected HighPending after byte completed")
	}
}

func TestNavigationResetsParity(t *testing.T) {
	s := New()
	s.Load([]byte{0x00, 0x01})

	s.EditDigit(0xF)
	if s.Parity() != LowPending {
		t.Fatal("expected LowPending after one digit")
	}
	s.MoveCursor(1)
	if s.Parity() != HighPending {
		t.Error("expected parity reset on navigation")
	}
}

func TestPerNibbleUndoGranularity(t *testing.T) {
	s := New()
	s.Load([]byte{0x02})

	s.EditDigit(0xA) // 0xA2
	s.EditDigit(0x5) // 0xA5

	if !s.Undo() {
		t.Fatal("expected undo")
	}
	if v, _ := s.Buffer().ByteAt(0); v != 0xA2 {
		t.Errorf("expected low-nibble edit undone first: want 0xA2, got %02X", v)
	}
	if !s.Undo() {
		t.Fatal("expected undo")
	}
	if v, _ := s.Buffer().ByteAt(0); v != 0x02 {
		t.Errorf("expected original 0x02, got %02X", v)
	}
	if s.Buffer().ModifiedCount() != 0 {
		t.Error("expected clean overlay after undoing everything")
	}

	if !s.Redo() {
		t.Fatal("expected redo")
	}
	if v, _ := s.Buffer().ByteAt(0); v != 0xA2 {
		t.Errorf("expected 0xA2 after redo, got %02X", v)
	}
	if s.Buffer().ModifiedCount() != 1 {
		t.Errorf("expected 1 modified after redo, got %d", s.Buffer().ModifiedCount())
	}
}

func TestEditCharAscii(t *testing.T) {
	s := New()
	s.Load([]byte{0x00, 0x00, 0x00})
	s.SetMode(ModeAscii)

	if err := s.EditChar('H'); err != nil {
		t.Fatal(err)
	}
	if err := s.EditChar('i'); err != nil {
		t.Fatal(err)
	}

	if v, _ := s.Buffer().ByteAt(0); v != 'H' {
		t.Errorf("expected 'H', got %02X", v)
	}
	if v, _ := s.Buffer().ByteAt(1); v != 'i' {
		t.Errorf("expected 'i', got %02X", v)
	}
	if s.Pos() != 2 {
		t.Errorf("expected cursor at 2, got %d", s.Pos())
	}

	// Each character is its own history entry
	s.Undo()
	if v, _ := s.Buffer().ByteAt(1); v != 0x00 {
		t.Errorf("expected second char undone, got %02X", v)
	}
	if v, _ := s.Buffer().ByteAt(0); v != 'H' {
		t.Errorf("expected first char intact, got %02X", v)
	}
}

func TestModeEnforcement(t *testing.T) {
	s := New()
	s.Load([]byte{0x00})

	if err := s.EditChar('x'); !errors.Is(err, ErrWrongMode) {
		t.Errorf("expected ErrWrongMode in hex mode, got %v", err)
	}
	s.SetMode(ModeAscii)
	if err := s.EditDigit(0x1); !errors.Is(err, ErrWrongMode) {
		t.Errorf("expected ErrWrongMode in ascii mode, got %v", err)
	}
}

func TestEditEmptyBuffer(t *testing.T) {
	s := New()
	if err := s.EditDigit(0x1); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("expected ErrEmptyBuffer, got %v", err)
	}
}

func TestSelectionSurvivesNavigation(t *testing.T) {
	s := New()
	s.Load([]byte{0x00, 0x01, 0x02, 0x03})

	s.Select(1, 2)
	s.MoveCursor(1)

	start, end, ok := s.Selection()
	if !ok || start != 1 || end != 2 {
		t.Errorf("expected selection (1,2) to survive navigation, got (%d,%d,%v)", start, end, ok)
	}

	s.ClearSelection()
	if _, _, ok := s.Selection(); ok {
		t.Error("expected selection cleared")
	}
}

func TestSelectSwapsReversedRange(t *testing.T) {
	s := New()
	s.Load([]byte{0x00, 0x01, 0x02})

	s.Select(2, 0)
	start, end, _ := s.Selection()
	if start != 0 || end != 2 {
		t.Errorf("expected normalized (0,2), got (%d,%d)", start, end)
	}
}

func TestSaveCompaction(t *testing.T) {
	s := New()
	s.Load([]byte{0x00, 0x01})
	s.EditDigit(0xF) // offset 0 -> 0xF0

	var sunk []byte
	err := s.Save(func(data []byte) error {
		sunk = data
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(sunk, []byte{0xF0, 0x01}) {
		t.Errorf("unexpected sink data: %v", sunk)
	}
	if s.Buffer().ModifiedCount() != 0 {
		t.Error("expected overlay compacted after save")
	}
	if s.CanUndo() {
		t.Error("expected history discarded after save")
	}
	if v, _ := s.Buffer().OriginalAt(0); v != 0xF0 {
		t.Errorf("expected new original 0xF0, got %02X", v)
	}
}

func TestSaveSinkFailureLeavesState(t *testing.T) {
	s := New()
	s.Load([]byte{0x00})
	s.EditDigit(0xA)

	sinkErr := errors.New("disk full")
	if err := s.Save(func([]byte) error { return sinkErr }); !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error surfaced, got %v", err)
	}

	if s.Buffer().ModifiedCount() != 1 {
		t.Error("expected overlay untouched after sink failure")
	}
	if !s.CanUndo() {
		t.Error("expected history untouched after sink failure")
	}
}

func TestUndoMovesCursor(t *testing.T) {
	s := New()
	s.Load([]byte{0x00, 0x01, 0x02})
	s.SetCursor(1)
	s.EditDigit(0xA)
	s.SetCursor(2)

	s.Undo()
	if s.Pos() != 1 {
		t.Errorf("expected cursor at undone offset 1, got %d", s.Pos())
	}
	if s.Parity() != HighPending {
		t.Error("expected parity reset after undo")
	}
}
