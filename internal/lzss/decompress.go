// Package lzss implements the LZ77-style byte decompressor used for
// compressed ACS image payloads.
//
// See: https://uploads.s.zeid.me/ms-agent-format-spec.html#Compression
package lzss

import (
	"fmt"

	"github.com/msagent/acs/internal/bitstream"
)

// Kind identifies the category of a decompression Error.
type Kind int

// Decompression error kinds.
const (
	// KindUnexpectedEOF is returned when a token is only partially present in
	// the input.
	KindUnexpectedEOF Kind = iota
	// KindMissingLeadingZero is returned when the input's first byte is not
	// 0x00.
	KindMissingLeadingZero
	// KindMalformedLengthEncoding is returned when a length code's run of
	// leading 1-bits continues past 11 (a 12th consecutive 1-bit).
	KindMalformedLengthEncoding
	// KindInvalidBackReference is returned when a back-reference's resolved
	// offset exceeds the number of bytes produced so far.
	KindInvalidBackReference
)

// Error is the error taxonomy for image decompression.
type Error struct {
	kind Kind
}

func (e *Error) Error() string {
	switch e.kind {
	case KindUnexpectedEOF:
		return "acs/lzss: unexpected end of input"
	case KindMissingLeadingZero:
		return "acs/lzss: missing leading zero byte"
	case KindMalformedLengthEncoding:
		return "acs/lzss: malformed length encoding"
	case KindInvalidBackReference:
		return "acs/lzss: invalid back-reference offset"
	default:
		return fmt.Sprintf("acs/lzss: unknown error (%d)", e.kind)
	}
}

// Kind reports the category of err, for callers that want to branch on it.
func (e *Error) Kind() Kind { return e.kind }

var (
	errUnexpectedEOF           = &Error{kind: KindUnexpectedEOF}
	errMissingLeadingZero      = &Error{kind: KindMissingLeadingZero}
	errMalformedLengthEncoding = &Error{kind: KindMalformedLengthEncoding}
	errInvalidBackReference    = &Error{kind: KindInvalidBackReference}
)

// offsetTier describes one of the four variable-width back-reference offset
// encodings, selected by the count of consecutive leading 1-bits preceding
// the offset's own bits.
type offsetTier struct {
	bits   int
	addend uint32
}

// offsetTiers is indexed by the count of leading 1-bits (0..3) seen before
// the offset encoding itself.
var offsetTiers = [4]offsetTier{
	{bits: 6, addend: 1},
	{bits: 9, addend: 65},
	{bits: 12, addend: 577},
	{bits: 20, addend: 4673},
}

// endOfStreamMarker is the raw 20-bit value that, in tier 3, terminates the
// stream instead of encoding an offset.
const endOfStreamMarker = 0xFFFFF

// Decompress fully materializes the uncompressed byte stream encoded by
// data. The first byte of data must be 0x00; the stream is then a sequence
// of control-bit-prefixed literal bytes and back-references, terminated
// either by exhausting the input or by the tier-3 end-of-stream token.
func Decompress(data []byte) ([]byte, error) {
	bits := bitstream.New(data)

	lead, ok := bits.PopByte()
	if !ok {
		return nil, errUnexpectedEOF
	}
	if lead != 0x00 {
		return nil, errMissingLeadingZero
	}

	var out []byte
	for {
		control, ok := bits.PopBit()
		if !ok {
			// Clean end of stream: no more tokens to decode.
			break
		}

		if !control {
			b, ok := bits.PopByte()
			if !ok {
				return nil, errUnexpectedEOF
			}
			out = append(out, b)
			continue
		}

		done, err := decodeBackReference(bits, &out)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return out, nil
}

// decodeBackReference decodes one back-reference token (offset tier,
// optional end-of-stream marker, length, and the resulting copy) and
// appends the copied bytes to *out. done is true when the token was the
// tier-3 end-of-stream marker, in which case no bytes are copied.
func decodeBackReference(bits *bitstream.Bits, out *[]byte) (done bool, err error) {
	tierIdx := 0
	for tierIdx < 3 {
		bit, ok := bits.PopBit()
		if !ok {
			return false, errUnexpectedEOF
		}
		if !bit {
			break
		}
		tierIdx++
	}
	tier := offsetTiers[tierIdx]

	n, ok := bits.PopBits(tier.bits)
	if !ok {
		return false, errUnexpectedEOF
	}

	length := 2
	if tierIdx == 3 {
		if n == endOfStreamMarker {
			return true, nil
		}
		length = 3
	}

	off := n + tier.addend
	if int(off) > len(*out) {
		return false, errInvalidBackReference
	}

	extra, err := decodeLength(bits)
	if err != nil {
		return false, err
	}
	length += extra

	src := len(*out) - int(off)
	for i := 0; i < length; i++ {
		*out = append(*out, (*out)[src+i])
	}
	return false, nil
}

// decodeLength decodes the Elias-gamma-like length suffix: a run of up to 11
// leading 1-bits (terminated by a 0-bit; a 12th 1-bit is malformed)
// followed by that many extra bits, contributing (2^run - 1) + extra to the
// total copy length.
func decodeLength(bits *bitstream.Bits) (int, error) {
	run := 0
	for i := 0; i < 12; i++ {
		bit, ok := bits.PopBit()
		if !ok {
			return 0, errUnexpectedEOF
		}
		if i == 11 {
			if bit {
				return 0, errMalformedLengthEncoding
			}
			break
		}
		if !bit {
			break
		}
		run++
	}

	extra, ok := bits.PopBits(run)
	if !ok {
		return 0, errUnexpectedEOF
	}
	return (1<<uint(run) - 1) + int(extra), nil
}
