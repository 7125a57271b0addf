// Package reader provides a bounded, seekable cursor over an in-memory ACS
// byte buffer, along with the little-endian primitive reads and
// length-prefixed UTF-16LE string decoding the ACS format uses throughout.
package reader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mewkiz/pkg/readerutil"
	"golang.org/x/text/encoding/unicode"
)

// Error is the error taxonomy for primitive reads over the file buffer.
type Error struct {
	kind Kind
	sig  uint32
	off  uint32
	size uint32
}

// Kind identifies the category of a reader Error.
type Kind int

// Reader error kinds.
const (
	// KindUnexpectedEOF is returned when a read would pass the end of the
	// buffer.
	KindUnexpectedEOF Kind = iota
	// KindInvalidSignature is returned when the leading magic number does not
	// match the expected ACS signature.
	KindInvalidSignature
	// KindInvalidOffset is reserved for callers that wish to pre-validate a
	// Locator before seeking to it; the cursor itself never returns it.
	KindInvalidOffset
	// KindInvalidUTF16 is returned when a length-prefixed string is not valid
	// UTF-16.
	KindInvalidUTF16
)

func (e *Error) Error() string {
	switch e.kind {
	case KindUnexpectedEOF:
		return "acs/reader: unexpected end of file"
	case KindInvalidSignature:
		return fmt.Sprintf("acs/reader: invalid signature: 0x%08X", e.sig)
	case KindInvalidOffset:
		return fmt.Sprintf("acs/reader: invalid offset %d with size %d", e.off, e.size)
	case KindInvalidUTF16:
		return "acs/reader: invalid UTF-16 string"
	default:
		return "acs/reader: unknown error"
	}
}

// Kind reports the category of err, for callers that want to branch on it.
func (e *Error) Kind() Kind { return e.kind }

// Signature returns the invalid signature value for a KindInvalidSignature
// error.
func (e *Error) Signature() uint32 { return e.sig }

var errUnexpectedEOF = &Error{kind: KindUnexpectedEOF}

func errInvalidSignature(sig uint32) error {
	return &Error{kind: KindInvalidSignature, sig: sig}
}

func errInvalidOffset(off, size uint32) error {
	return &Error{kind: KindInvalidOffset, off: off, size: size}
}

var errInvalidUTF16 = &Error{kind: KindInvalidUTF16}

// Locator is an absolute byte range into the file image. A zero Size means
// the section is absent; callers must skip it.
type Locator struct {
	Offset uint32
	Size   uint32
}

// Empty reports whether the locator names an absent section.
func (l Locator) Empty() bool { return l.Size == 0 }

// utf16LE decodes length-prefixed UTF-16LE strings. Shared across
// Cursor instances since golang.org/x/text decoders are safe for concurrent
// Bytes/NewDecoder use but not for concurrent use of the same Decoder value.
var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Cursor is a bounded, seekable reader over a complete ACS file image. All
// multi-byte integers are little-endian. Reads past the end of the buffer
// fail with an UnexpectedEOF error rather than panicking.
type Cursor struct {
	data []byte
	r    *bytes.Reader
}

// New returns a Cursor over data. The Cursor does not copy data; the caller
// must keep it alive and must not mutate it for the lifetime of the Cursor.
func New(data []byte) *Cursor {
	return &Cursor{data: data, r: bytes.NewReader(data)}
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.data) }

// Position returns the current absolute read offset.
func (c *Cursor) Position() uint64 {
	return uint64(c.r.Size()) - uint64(c.r.Len())
}

// Seek moves the cursor to an absolute byte offset. Seeking past the end of
// the buffer is permitted; the next read will fail with UnexpectedEOF.
func (c *Cursor) Seek(pos uint64) {
	// bytes.Reader.Seek only fails for negative resulting offsets, which pos
	// (a uint64) can never produce.
	_, _ = c.r.Seek(int64(pos), io.SeekStart)
}

func (c *Cursor) readFull(buf []byte) error {
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return errUnexpectedEOF
	}
	return nil
}

// ReadSignature reads a little-endian u32 and checks it against expected,
// returning a KindInvalidSignature error if it doesn't match.
func (c *Cursor) ReadSignature(expected uint32) error {
	sig, err := c.ReadU32()
	if err != nil {
		return err
	}
	if sig != expected {
		return errInvalidSignature(sig)
	}
	return nil
}

// ReadU8 reads an unsigned 8-bit integer.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := readerutil.ReadByte(c.r)
	if err != nil {
		return 0, errUnexpectedEOF
	}
	return b, nil
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func (c *Cursor) ReadU16() (uint16, error) {
	var buf [2]byte
	if err := c.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// ReadI16 reads a little-endian signed 16-bit integer.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func (c *Cursor) ReadU32() (uint32, error) {
	var buf [4]byte
	if err := c.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadI32 reads a little-endian signed 32-bit integer.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadBytes reads and returns the next n raw bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := c.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadGUID reads a raw 16-byte GUID. The bytes are opaque; only a textual
// renderer (see the root package's GUID type) interprets byte order.
func (c *Cursor) ReadGUID() (guid [16]byte, err error) {
	if err := c.readFull(guid[:]); err != nil {
		return [16]byte{}, err
	}
	return guid, nil
}

// ReadLocator reads a {offset: u32, size: u32} pair.
func (c *Cursor) ReadLocator() (Locator, error) {
	offset, err := c.ReadU32()
	if err != nil {
		return Locator{}, err
	}
	size, err := c.ReadU32()
	if err != nil {
		return Locator{}, err
	}
	return Locator{Offset: offset, Size: size}, nil
}

// ReadString reads a length-prefixed UTF-16LE string: a u32 character count
// (not including the terminator) followed by (count+1) UTF-16LE code units,
// the last of which is a discarded null terminator. A zero count yields the
// empty string and consumes no further bytes.
func (c *Cursor) ReadString() (string, error) {
	count, err := c.ReadU32()
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", nil
	}
	raw, err := c.ReadBytes(int(count+1) * 2)
	if err != nil {
		return "", err
	}
	// Drop the trailing null terminator code unit before decoding; only the
	// first count*2 bytes are actual character data.
	payload := raw[:int(count)*2]
	decoded, err := utf16LE.NewDecoder().String(string(payload))
	if err != nil {
		return "", errInvalidUTF16
	}
	if !utf8Valid(decoded) {
		return "", errInvalidUTF16
	}
	return decoded, nil
}

// utf8Valid guards against the x/text decoder's lenient handling of
// unpaired surrogates, which it otherwise replaces with U+FFFD rather than
// failing: ACS strings are expected to be well-formed UTF-16.
func utf8Valid(s string) bool {
	for _, r := range s {
		if r == '�' {
			return false
		}
	}
	return true
}
