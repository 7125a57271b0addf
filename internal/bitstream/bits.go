// Package bitstream provides a small LSB-first bit cursor over a byte slice.
//
// It plays the same role in this module that internal/bits plays in the
// teacher's FLAC decoder: a leaf package with no knowledge of the container
// format, consumed by the format-specific decoder above it. Unlike FLAC's
// Rice/unary codes (MSB-first, see github.com/icza/bitio), the Microsoft
// Agent compression scheme packs bits LSB-first within each byte, so the
// two packages are not interchangeable; see DESIGN.md for why bitio itself
// isn't wired in here instead.
package bitstream

// Bits is a cursor over a byte slice that yields bits least-significant-bit
// first within each byte, consuming bytes in buffer order.
type Bits struct {
	data []byte
	pos  int // index of the next byte to read from
	bit  int // index of the next bit to read within data[pos], 0..7
}

// New returns a Bits cursor over data.
func New(data []byte) *Bits {
	return &Bits{data: data}
}

// PopBit returns the next bit and advances the cursor, or reports ok=false
// once the underlying bytes are exhausted.
func (b *Bits) PopBit() (bit bool, ok bool) {
	if b.pos >= len(b.data) {
		return false, false
	}
	v := (b.data[b.pos] >> uint(b.bit)) & 1
	b.bit++
	if b.bit > 7 {
		b.bit = 0
		b.pos++
	}
	return v == 1, true
}

// PopBits assembles an n-bit unsigned integer (n <= 32) from the next n
// bits, least-significant bit first: the first bit popped becomes bit 0 of
// the result, the second bit 1, and so on.
func (b *Bits) PopBits(n int) (value uint32, ok bool) {
	for shift := 0; shift < n; shift++ {
		bit, ok := b.PopBit()
		if !ok {
			return 0, false
		}
		if bit {
			value |= 1 << uint(shift)
		}
	}
	return value, true
}

// PopByte reads the next 8 bits as an unsigned byte.
func (b *Bits) PopByte() (byte, bool) {
	v, ok := b.PopBits(8)
	if !ok {
		return 0, false
	}
	return byte(v), true
}
