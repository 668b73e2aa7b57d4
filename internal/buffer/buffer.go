// Package buffer implements a fixed-length binary buffer as a sparse
// overlay of edits over an immutable original byte sequence.
package buffer

import "errors"

// ErrOutOfRange indicates an offset outside [0, Len()).
var ErrOutOfRange = errors.New("offset out of range")

// Buffer is a mutable view over an immutable original byte sequence.
// Edits never change the original; they live in a sparse overlay keyed
// by offset. The length is fixed for the life of a load.
type Buffer struct {
	original []byte
	overlay  map[int64]byte
}

func New() *Buffer {
	return &Buffer{
		original: make([]byte, 0),
		overlay:  make(map[int64]byte),
	}
}

// Load replaces the buffer contents. The input is copied, so the caller
// may reuse its slice. A nil input loads an empty buffer.
func (b *Buffer) Load(data []byte) {
	b.original = make([]byte, len(data))
	copy(b.original, data)
	b.overlay = make(map[int64]byte)
}

func (b *Buffer) Len() int64 {
	return int64(len(b.original))
}

// ByteAt returns the effective byte at offset: the overlay value if the
// offset was edited, the original value otherwise.
func (b *Buffer) ByteAt(offset int64) (byte, error) {
	if offset < 0 || offset >= b.Len() {
		return 0, ErrOutOfRange
	}
	if v, ok := b.overlay[offset]; ok {
		return v, nil
	}
	return b.original[offset], nil
}

// OriginalAt returns the pristine byte at offset, ignoring the overlay.
func (b *Buffer) OriginalAt(offset int64) (byte, error) {
	if offset < 0 || offset >= b.Len() {
		return 0, ErrOutOfRange
	}
	return b.original[offset], nil
}

// SetByte writes an overlay entry at offset. The entry is written even
// when value equals the original byte; only an undo removes entries
// that revert to the original.
func (b *Buffer) SetByte(offset int64, value byte) error {
	if offset < 0 || offset >= b.Len() {
		return ErrOutOfRange
	}
	b.overlay[offset] = value
	return nil
}

// Discard drops the overlay entry at offset, restoring the original
// byte as the effective value. Discarding an untouched offset is a
// no-op.
func (b *Buffer) Discard(offset int64) {
	delete(b.overlay, offset)
}

// IsModified reports whether offset has an overlay entry.
func (b *Buffer) IsModified(offset int64) bool {
	_, ok := b.overlay[offset]
	return ok
}

// ModifiedCount returns the number of overlay entries.
func (b *Buffer) ModifiedCount() int {
	return len(b.overlay)
}

// Materialize returns a fresh byte slice with every overlay entry
// applied over the original. Buffer state is not changed.
func (b *Buffer) Materialize() []byte {
	out := make([]byte, len(b.original))
	copy(out, b.original)
	for off, v := range b.overlay {
		out[off] = v
	}
	return out
}

// Commit installs data as the new original and clears the overlay.
// Callers pass the result of Materialize once the save sink has
// confirmed the write.
func (b *Buffer) Commit(data []byte) {
	b.Load(data)
}
