// Package search scans a byte source for a needle pattern. Reads go
// through the Source interface, so searching a buffer with unsaved
// edits matches against the effective bytes, not the originals.
package search

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyNeedle indicates a search was refused because the needle
	// encodes to zero bytes.
	ErrEmptyNeedle = errors.New("empty search pattern")

	// ErrOddLength indicates a hex needle with an odd number of digits.
	ErrOddLength = errors.New("hex pattern has odd length")

	// ErrBadDigit indicates a non-hex character in a hex needle.
	ErrBadDigit = errors.New("hex pattern contains a non-hex digit")
)

// Mode selects how needle input text is encoded to bytes.
type Mode int

const (
	// ModeText encodes the input as its UTF-8 bytes.
	ModeText Mode = iota
	// ModeHex parses the input as pairs of hex digits, ignoring
	// whitespace.
	ModeHex
)

// Needle is an encoded search pattern.
type Needle []byte

// NewNeedle encodes input according to mode. Hex input may contain
// spaces, tabs and newlines between digits; after stripping them the
// digit count must be even.
func NewNeedle(mode Mode, input string) (Needle, error) {
	var n Needle
	switch mode {
	case ModeHex:
		s := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				return -1
			}
			return r
		}, input)
		if len(s)%2 != 0 {
			return nil, ErrOddLength
		}
		n = make(Needle, 0, len(s)/2)
		for i := 0; i < len(s); i += 2 {
			hi, ok1 := hexDigit(s[i])
			lo, ok2 := hexDigit(s[i+1])
			if !ok1 || !ok2 {
				return nil, ErrBadDigit
			}
			n = append(n, hi<<4|lo)
		}
	default:
		n = Needle(input)
	}
	if len(n) == 0 {
		return nil, ErrEmptyNeedle
	}
	return n, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Source is the read surface search scans over. *buffer.Buffer
// satisfies it.
type Source interface {
	Len() int64
	ByteAt(offset int64) (byte, error)
}

// FindForward returns the lowest offset >= from where needle matches
// byte-for-byte, or false if there is none. The scan does not wrap
// past the end of the source.
func FindForward(src Source, needle Needle, from int64) (int64, bool) {
	if len(needle) == 0 {
		return 0, false
	}
	if from < 0 {
		from = 0
	}
	last := src.Len() - int64(len(needle))
	for i := from; i <= last; i++ {
		if matchAt(src, needle, i) {
			return i, true
		}
	}
	return 0, false
}

// FindBackward returns the highest offset <= from where needle matches,
// or false if there is none. A negative from means "from the end". The
// scan does not wrap past the start of the source.
func FindBackward(src Source, needle Needle, from int64) (int64, bool) {
	if len(needle) == 0 {
		return 0, false
	}
	last := src.Len() - int64(len(needle))
	if from < 0 || from > last {
		from = last
	}
	for i := from; i >= 0; i-- {
		if matchAt(src, needle, i) {
			return i, true
		}
	}
	return 0, false
}

// Count returns the number of offsets where needle matches.
func Count(src Source, needle Needle) int {
	if len(needle) == 0 {
		return 0
	}
	count := 0
	last := src.Len() - int64(len(needle))
	for i := int64(0); i <= last; i++ {
		if matchAt(src, needle, i) {
			count++
		}
	}
	return count
}

func matchAt(src Source, needle Needle, at int64) bool {
	for j := 0; j < len(needle); j++ {
		b, err := src.ByteAt(at + int64(j))
		if err != nil || b != needle[j] {
			return false
		}
	}
	return true
}
