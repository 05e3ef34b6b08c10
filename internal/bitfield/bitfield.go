// Package bitfield describes named sub-ranges of bits inside a register word.
package bitfield

import "math/bits"

// Field is a contiguous run of bits in a 16-bit register word.
//
// Get and Set do no bounds checking on values: Set silently truncates
// anything that does not fit under Mask.
type Field struct {
	Shift uint8
	Mask  uint16
}

// New returns the field of width bits starting at shift.
func New(shift, width uint8) Field {
	return Field{Shift: shift, Mask: uint16((1<<width)-1) << shift}
}

// Bit returns the single-bit field at position n.
func Bit(n uint8) Field {
	return New(n, 1)
}

// Get extracts the field value from word.
func (f Field) Get(word uint16) uint16 {
	return (word & f.Mask) >> f.Shift
}

// Set returns v positioned inside the field, ready to be OR-ed into a word.
func (f Field) Set(v uint16) uint16 {
	return (v << f.Shift) & f.Mask
}

// Update replaces the field bits of word with v.
func (f Field) Update(word, v uint16) uint16 {
	return word&^f.Mask | f.Set(v)
}

// IsSet reports whether any bit of the field is set in word.
func (f Field) IsSet(word uint16) bool {
	return word&f.Mask != 0
}

// Width is the number of bits covered by the field.
func (f Field) Width() int {
	return bits.OnesCount16(f.Mask)
}

// Max is the largest value the field can hold.
func (f Field) Max() uint16 {
	return f.Mask >> f.Shift
}
