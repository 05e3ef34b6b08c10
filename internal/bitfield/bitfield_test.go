package bitfield

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestNew(t *testing.T) {
	assert.Equal(t, New(0, 1), Field{Shift: 0, Mask: 0x0001})
	assert.Equal(t, New(1, 2), Field{Shift: 1, Mask: 0x0006})
	assert.Equal(t, New(0, 7), Field{Shift: 0, Mask: 0x007f})
	assert.Equal(t, New(15, 1), Field{Shift: 15, Mask: 0x8000})
	assert.Equal(t, New(0, 16), Field{Shift: 0, Mask: 0xffff})
}

func TestRoundTrip(t *testing.T) {
	fields := []Field{New(0, 1), New(1, 1), New(1, 2), New(0, 6), New(0, 7), New(4, 5), New(15, 1)}
	for _, f := range fields {
		for v := uint16(0); v <= f.Max(); v++ {
			assert.Equal(t, f.Get(f.Set(v)), v, "field %+v value %d", f, v)
		}
	}
}

func TestSetTruncates(t *testing.T) {
	f := New(1, 2)
	for _, v := range []uint16{4, 7, 0xff, 0xffff} {
		got := f.Set(v)
		assert.Equal(t, got&^f.Mask, uint16(0), "value %#x leaked outside mask", v)
	}
	assert.Equal(t, f.Set(5), uint16(0x2))
}

func TestUpdate(t *testing.T) {
	f := New(4, 4)
	assert.Equal(t, f.Update(0xffff, 0x3), uint16(0xff3f))
	assert.Equal(t, f.Update(0x0000, 0xa), uint16(0x00a0))
}

func TestWidth(t *testing.T) {
	assert.Equal(t, New(1, 2).Width(), 2)
	assert.Equal(t, Bit(6).Width(), 1)
	assert.Equal(t, New(0, 6).Max(), uint16(63))
	assert.Assert(t, Bit(3).IsSet(0x08))
	assert.Assert(t, !Bit(3).IsSet(0xf7))
}
