package reader_test

import (
	"testing"

	"github.com/msagent/acs/internal/reader"
)

func TestReadPrimitives(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	c := reader.New(data)

	if got, err := c.ReadU8(); err != nil || got != 0x01 {
		t.Fatalf("ReadU8: got (0x%X, %v), want (0x01, nil)", got, err)
	}
	if got, err := c.ReadU16(); err != nil || got != 0x0302 {
		t.Fatalf("ReadU16: got (0x%X, %v), want (0x0302, nil)", got, err)
	}
	if got, err := c.ReadU32(); err != nil || got != 0x07060504 {
		t.Fatalf("ReadU32: got (0x%X, %v), want (0x07060504, nil)", got, err)
	}
}

func TestReadString(t *testing.T) {
	data := []byte{
		0x02, 0x00, 0x00, 0x00, // length = 2 characters
		0x48, 0x00, // 'H'
		0x69, 0x00, // 'i'
		0x00, 0x00, // null terminator
	}
	c := reader.New(data)
	got, err := c.ReadString()
	if err != nil {
		t.Fatalf("ReadString: unexpected error: %v", err)
	}
	if got != "Hi" {
		t.Fatalf("ReadString: got %q, want %q", got, "Hi")
	}
}

func TestReadEmptyString(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00}
	c := reader.New(data)
	got, err := c.ReadString()
	if err != nil {
		t.Fatalf("ReadString: unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("ReadString: got %q, want empty string", got)
	}
}

func TestReadUnexpectedEOF(t *testing.T) {
	data := []byte{0x01, 0x02}
	c := reader.New(data)
	if _, err := c.ReadU32(); err == nil {
		t.Fatalf("ReadU32 over a 2-byte buffer should fail")
	}
}

func TestReadSignature(t *testing.T) {
	data := []byte{0xC3, 0xAB, 0xCD, 0xAB} // 0xABCDABC3 little-endian
	c := reader.New(data)
	if err := c.ReadSignature(0xABCDABC3); err != nil {
		t.Fatalf("ReadSignature: unexpected error: %v", err)
	}

	c = reader.New(data)
	err := c.ReadSignature(0x12345678)
	if err == nil {
		t.Fatalf("expected an error for a mismatched signature")
	}
	rerr, ok := err.(*reader.Error)
	if !ok {
		t.Fatalf("expected a *reader.Error, got %T", err)
	}
	if rerr.Kind() != reader.KindInvalidSignature {
		t.Fatalf("got kind %v, want KindInvalidSignature", rerr.Kind())
	}
	if rerr.Signature() != 0xABCDABC3 {
		t.Fatalf("got signature 0x%X, want 0xABCDABC3", rerr.Signature())
	}
}

func TestReadLocator(t *testing.T) {
	data := []byte{0x10, 0x00, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00}
	c := reader.New(data)
	loc, err := c.ReadLocator()
	if err != nil {
		t.Fatalf("ReadLocator: unexpected error: %v", err)
	}
	if loc.Offset != 0x10 || loc.Size != 0x20 {
		t.Fatalf("ReadLocator: got %+v, want {Offset:0x10 Size:0x20}", loc)
	}
	if loc.Empty() {
		t.Fatalf("locator with nonzero size should not be Empty")
	}
	if (reader.Locator{}).Empty() != true {
		t.Fatalf("zero-value locator should be Empty")
	}
}

func TestSeek(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	c := reader.New(data)
	c.Seek(2)
	got, err := c.ReadU16()
	if err != nil {
		t.Fatalf("ReadU16 after Seek: unexpected error: %v", err)
	}
	if got != 0x0403 {
		t.Fatalf("ReadU16 after Seek: got 0x%X, want 0x0403", got)
	}
}
