// Package session ties a buffer, its edit history and a cursor into a
// single editing session. It is the only component that issues
// mutations against the buffer, and every mutation goes through the
// history so it can be undone.
package session

import (
	"errors"

	"overhex/internal/buffer"
	"overhex/internal/history"
)

var (
	// ErrWrongMode indicates an edit call that does not match the
	// session's current edit mode.
	ErrWrongMode = errors.New("edit does not match current mode")

	// ErrEmptyBuffer indicates an edit against a zero-length buffer.
	ErrEmptyBuffer = errors.New("buffer is empty")
)

// Parity tracks which half of the current byte the next hex keystroke
// edits.
type Parity int

const (
	HighPending Parity = iota
	LowPending
)

// EditMode selects how keystrokes are turned into byte values.
type EditMode int

const (
	ModeHex EditMode = iota
	ModeAscii
)

// Session is a caller-owned editing session over one buffer. Multiple
// sessions over independent buffers can coexist; there is no shared
// state.
type Session struct {
	buf  *buffer.Buffer
	hist *history.History

	pos    int64
	parity Parity
	mode   EditMode

	selActive bool
	selStart  int64
	selEnd    int64
}

func New() *Session {
	return &Session{
		buf:  buffer.New(),
		hist: history.New(),
	}
}

// Load replaces the buffer contents and resets history, cursor, nibble
// parity and selection. The previous state is only replaced once the
// caller actually has the bytes, so a failed fetch never half-applies.
func (s *Session) Load(data []byte) {
	s.buf.Load(data)
	s.hist.Reset()
	s.pos = 0
	s.parity = HighPending
	s.selActive = false
}

// Buffer exposes read access for rendering and search.
func (s *Session) Buffer() *buffer.Buffer {
	return s.buf
}

func (s *Session) Pos() int64 {
	return s.pos
}

func (s *Session) Parity() Parity {
	return s.parity
}

func (s *Session) Mode() EditMode {
	return s.mode
}

// SetMode switches between hex and ascii entry. Parity resets because
// a half-entered byte does not carry across modes.
func (s *Session) SetMode(mode EditMode) {
	s.mode = mode
	s.parity = HighPending
}

// MoveCursor shifts the cursor by delta, clamped to [0, Len()-1].
// Navigation lands on a fresh byte boundary, so parity resets; the
// selection is left alone (only explicit actions change it).
func (s *Session) MoveCursor(delta int64) {
	s.SetCursor(s.pos + delta)
}

// SetCursor is the absolute form of MoveCursor.
func (s *Session) SetCursor(pos int64) {
	maxPos := s.buf.Len() - 1
	if maxPos < 0 {
		maxPos = 0
	}
	if pos < 0 {
		pos = 0
	}
	if pos > maxPos {
		pos = maxPos
	}
	s.pos = pos
	s.parity = HighPending
}

// EditDigit applies one hex keystroke at the cursor. The first digit
// replaces the high nibble and keeps the cursor in place; the second
// replaces the low nibble and advances to the next byte. Each digit is
// recorded as its own history entry.
func (s *Session) EditDigit(nibble byte) error {
	if s.mode != ModeHex {
		return ErrWrongMode
	}
	if s.buf.Len() == 0 {
		return ErrEmptyBuffer
	}
	cur, err := s.buf.ByteAt(s.pos)
	if err != nil {
		return err
	}
	nibble &= 0x0F

	if s.parity == HighPending {
		newByte := nibble<<4 | cur&0x0F
		s.hist.Record(s.pos, cur, newByte)
		if err := s.buf.SetByte(s.pos, newByte); err != nil {
			return err
		}
		s.parity = LowPending
		return nil
	}

	newByte := cur&0xF0 | nibble
	s.hist.Record(s.pos, cur, newByte)
	if err := s.buf.SetByte(s.pos, newByte); err != nil {
		return err
	}
	s.MoveCursor(1)
	return nil
}

// EditChar writes one character's byte value at the cursor and
// advances.
func (s *Session) EditChar(ch byte) error {
	if s.mode != ModeAscii {
		return ErrWrongMode
	}
	if s.buf.Len() == 0 {
		return ErrEmptyBuffer
	}
	cur, err := s.buf.ByteAt(s.pos)
	if err != nil {
		return err
	}
	s.hist.Record(s.pos, cur, ch)
	if err := s.buf.SetByte(s.pos, ch); err != nil {
		return err
	}
	s.MoveCursor(1)
	return nil
}

// Undo reverts the most recent edit and moves the cursor to the
// affected offset.
func (s *Session) Undo() bool {
	e, ok := s.hist.Undo(s.buf)
	if !ok {
		return false
	}
	s.SetCursor(e.Offset)
	return true
}

// Redo reapplies the most recently undone edit and moves the cursor to
// the affected offset.
func (s *Session) Redo() bool {
	e, ok := s.hist.Redo(s.buf)
	if !ok {
		return false
	}
	s.SetCursor(e.Offset)
	return true
}

func (s *Session) CanUndo() bool {
	return s.hist.CanUndo()
}

func (s *Session) CanRedo() bool {
	return s.hist.CanRedo()
}

// Select marks an inclusive offset range, swapping the ends if given
// backwards.
func (s *Session) Select(start, end int64) {
	if start > end {
		start, end = end, start
	}
	s.selActive = true
	s.selStart = start
	s.selEnd = end
}

func (s *Session) ClearSelection() {
	s.selActive = false
}

func (s *Session) Selection() (start, end int64, ok bool) {
	if !s.selActive {
		return 0, 0, false
	}
	return s.selStart, s.selEnd, true
}

// Save materializes the buffer and hands the bytes to sink. Compaction
// happens only after the sink returns nil: the materialized bytes
// become the new original, the overlay empties, and the edit history
// is discarded. A sink failure leaves everything untouched.
func (s *Session) Save(sink func([]byte) error) error {
	data := s.buf.Materialize()
	if err := sink(data); err != nil {
		return err
	}
	s.buf.Commit(data)
	s.hist.Reset()
	return nil
}
