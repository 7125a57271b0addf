package acs_test

import (
	"encoding/binary"
	"testing"

	"github.com/msagent/acs"
)

// fixtureBuilder assembles a minimal but structurally valid ACS byte image
// for exercising Open end-to-end without a real captured .acs file. Layout
// (byte offsets): header [0,36), character info [36,120), localized info
// [120,156), animation list [156,182), animation info [182,221), image list
// [221,237), image info [237,259), audio list [259,275), audio data
// [275,319).
type fixtureBuilder struct {
	buf []byte
}

func (f *fixtureBuilder) u8(v uint8)   { f.buf = append(f.buf, v) }
func (f *fixtureBuilder) u16(v uint16) { f.buf = appendU16(f.buf, v) }
func (f *fixtureBuilder) i16(v int16)  { f.buf = appendU16(f.buf, uint16(v)) }
func (f *fixtureBuilder) u32(v uint32) { f.buf = appendU32(f.buf, v) }
func (f *fixtureBuilder) bytes(b []byte) { f.buf = append(f.buf, b...) }

func (f *fixtureBuilder) str(s string) {
	runes := []rune(s)
	f.u32(uint32(len(runes)))
	if len(runes) == 0 {
		return
	}
	for _, r := range runes {
		f.u16(uint16(r))
	}
	f.u16(0) // null terminator
}

func (f *fixtureBuilder) locator(offset, size uint32) {
	f.u32(offset)
	f.u32(size)
}

func appendU16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func minimalWAV() []byte {
	f := &fixtureBuilder{}
	f.bytes([]byte("RIFF"))
	f.u32(36)
	f.bytes([]byte("WAVE"))
	f.bytes([]byte("fmt "))
	f.u32(16)
	f.u16(1)     // PCM
	f.u16(1)     // mono
	f.u32(8000)  // sample rate
	f.u32(16000) // byte rate
	f.u16(2)     // block align
	f.u16(16)    // bits per sample
	f.bytes([]byte("data"))
	f.u32(0)
	return f.buf
}

// buildFixture assembles the file described in fixtureBuilder's doc comment.
func buildFixture(t *testing.T) []byte {
	t.Helper()

	const (
		charInfoOffset     = 36
		localizedOffset    = 120
		animListOffset     = 156
		animInfoOffset     = 182
		imageListOffset    = 221
		imageInfoOffset    = 237
		audioListOffset    = 259
		audioDataOffset    = 275
	)

	f := &fixtureBuilder{}

	// Header.
	f.u32(0xABCDABC3)
	f.locator(charInfoOffset, 84)
	f.locator(animListOffset, 26)
	f.locator(imageListOffset, 16)
	f.locator(audioListOffset, 16)

	// Character info.
	f.u16(1) // minor version
	f.u16(1) // major version
	f.locator(localizedOffset, 36)
	f.bytes(make([]byte, 16)) // GUID
	f.u16(2)                  // width
	f.u16(2)                  // height
	f.u8(0)                   // transparent color index
	f.u32(0)                  // flags: no voice info
	f.u16(2)                  // anim set major
	f.u16(0)                  // anim set minor
	// Balloon info.
	f.u8(4) // num lines
	f.u8(40)
	f.u8(0)
	f.u8(0)
	f.u8(0)
	f.u8(0) // fg RGB + reserved
	f.u8(255)
	f.u8(255)
	f.u8(255)
	f.u8(0) // bg RGB + reserved
	f.u8(0)
	f.u8(0)
	f.u8(0)
	f.u8(0) // border RGB + reserved
	f.str("")
	f.u32(12) // font height
	f.u32(0)  // font weight (reinterpreted as i32, 0 either way)
	f.u8(0)   // font italic
	f.u8(0)   // font charset
	// Palette: 2 entries, stored B,G,R,reserved.
	f.u32(2)
	f.u8(30)
	f.u8(20)
	f.u8(10)
	f.u8(0) // index 0
	f.u8(50)
	f.u8(100)
	f.u8(200)
	f.u8(0) // index 1
	f.u8(0) // no tray icon
	f.u16(0) // no states

	if len(f.buf) != localizedOffset {
		t.Fatalf("character info section: got length %d, want %d", len(f.buf)-charInfoOffset, localizedOffset-charInfoOffset)
	}

	// Localized info.
	f.u16(1) // 1 entry
	f.u16(0x0409)
	f.str("Test")
	f.str("Desc")
	f.str("")

	if len(f.buf) != animListOffset {
		t.Fatalf("localized info section: got end offset %d, want %d", len(f.buf), animListOffset)
	}

	// Animation list: one entry "Wave".
	f.u32(1)
	f.str("Wave")
	f.locator(animInfoOffset, 39)

	if len(f.buf) != animInfoOffset {
		t.Fatalf("animation list section: got end offset %d, want %d", len(f.buf), animInfoOffset)
	}

	// Animation info: one frame showing image 0.
	f.str("Wave")
	f.u8(0) // transition type: none
	f.str("")
	f.u16(1) // frame count
	f.u16(1) // image count
	f.u32(0) // image index
	f.i16(0) // x
	f.i16(0) // y
	f.i16(-1) // sound index
	f.u16(10) // duration (hundredths of a second)
	f.i16(-1) // exit branch
	f.u8(0)   // branch count
	f.u8(0)   // overlay count

	if len(f.buf) != imageListOffset {
		t.Fatalf("animation info section: got end offset %d, want %d", len(f.buf), imageListOffset)
	}

	// Image list: one entry.
	f.u32(1)
	f.locator(imageInfoOffset, 22)
	f.u32(0) // checksum

	if len(f.buf) != imageInfoOffset {
		t.Fatalf("image list section: got end offset %d, want %d", len(f.buf), imageInfoOffset)
	}

	// Image info: 2x2 uncompressed, row-padded to 4 bytes.
	f.u8(0) // reserved
	f.u16(2)
	f.u16(2)
	f.u8(0) // not compressed
	f.bytes([]byte{1, 1, 0, 0, 0, 0, 0, 0})
	f.u32(0) // region compressed size
	f.u32(0) // region uncompressed size

	if len(f.buf) != audioListOffset {
		t.Fatalf("image info section: got end offset %d, want %d", len(f.buf), audioListOffset)
	}

	// Audio list: one entry.
	f.u32(1)
	f.locator(audioDataOffset, 44)
	f.u32(0) // checksum

	if len(f.buf) != audioDataOffset {
		t.Fatalf("audio list section: got end offset %d, want %d", len(f.buf), audioDataOffset)
	}

	f.bytes(minimalWAV())

	return f.buf
}

func TestOpenAndCharacterInfo(t *testing.T) {
	core, err := acs.Open(buildFixture(t))
	if err != nil {
		t.Fatalf("Open: unexpected error: %v", err)
	}

	info := core.CharacterInfo()
	if info.Width != 2 || info.Height != 2 {
		t.Fatalf("got dimensions %dx%d, want 2x2", info.Width, info.Height)
	}
	if info.Name() != "Test" {
		t.Fatalf("got name %q, want %q", info.Name(), "Test")
	}
	if info.Description() != "Desc" {
		t.Fatalf("got description %q, want %q", info.Description(), "Desc")
	}
	if len(info.Palette) != 2 {
		t.Fatalf("got %d palette entries, want 2", len(info.Palette))
	}
	if info.Palette[1] != [3]uint8{200, 100, 50} {
		t.Fatalf("got palette[1] %v, want {200 100 50}", info.Palette[1])
	}
}

func TestAnimationNamesAndLookup(t *testing.T) {
	core, err := acs.Open(buildFixture(t))
	if err != nil {
		t.Fatalf("Open: unexpected error: %v", err)
	}

	names := core.AnimationNames()
	if len(names) != 1 || names[0] != "Wave" {
		t.Fatalf("got animation names %v, want [Wave]", names)
	}

	anim, err := core.Animation("wAVE") // case-insensitive lookup
	if err != nil {
		t.Fatalf("Animation: unexpected error: %v", err)
	}
	if len(anim.Frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(anim.Frames))
	}
	if anim.TransitionType != acs.TransitionNone {
		t.Fatalf("got transition type %v, want none", anim.TransitionType)
	}

	if _, err := core.Animation("missing"); err == nil {
		t.Fatalf("expected an error looking up a nonexistent animation")
	}
}

func TestImageDecoding(t *testing.T) {
	core, err := acs.Open(buildFixture(t))
	if err != nil {
		t.Fatalf("Open: unexpected error: %v", err)
	}

	if got := core.ImageCount(); got != 1 {
		t.Fatalf("got %d images, want 1", got)
	}

	img, err := core.Image(0)
	if err != nil {
		t.Fatalf("Image: unexpected error: %v", err)
	}
	if img.Width != 2 || img.Height != 2 {
		t.Fatalf("got image dimensions %dx%d, want 2x2", img.Width, img.Height)
	}

	// Storage row 0 ([1,1,0,0]) is the bottom-up file's first row, which
	// becomes the bottom (last) output row; storage row 1 ([0,0,0,0],
	// transparent) becomes the top (first) output row.
	top := img.Data[0:8]
	for i := 0; i < 8; i++ {
		if top[i] != 0 {
			t.Fatalf("top row byte %d: got %d, want 0 (transparent)", i, top[i])
		}
	}
	bottom := img.Data[8:16]
	want := []byte{200, 100, 50, 255, 200, 100, 50, 255}
	for i, w := range want {
		if bottom[i] != w {
			t.Fatalf("bottom row byte %d: got %d, want %d", i, bottom[i], w)
		}
	}

	if _, err := core.Image(5); err == nil {
		t.Fatalf("expected an error for an out-of-range image index")
	}
}

func TestRenderFrame(t *testing.T) {
	core, err := acs.Open(buildFixture(t))
	if err != nil {
		t.Fatalf("Open: unexpected error: %v", err)
	}

	frame, err := core.RenderFrame("Wave", 0)
	if err != nil {
		t.Fatalf("RenderFrame: unexpected error: %v", err)
	}
	if frame.Width != 2 || frame.Height != 2 {
		t.Fatalf("got rendered frame dimensions %dx%d, want 2x2", frame.Width, frame.Height)
	}

	if _, err := core.RenderFrame("Wave", 7); err == nil {
		t.Fatalf("expected an error for an out-of-range frame index")
	}
	if _, err := core.RenderFrame("missing", 0); err == nil {
		t.Fatalf("expected an error for a nonexistent animation")
	}
}

func TestSoundDecoding(t *testing.T) {
	core, err := acs.Open(buildFixture(t))
	if err != nil {
		t.Fatalf("Open: unexpected error: %v", err)
	}

	if got := core.SoundCount(); got != 1 {
		t.Fatalf("got %d sounds, want 1", got)
	}

	sound, err := core.Sound(0)
	if err != nil {
		t.Fatalf("Sound: unexpected error: %v", err)
	}
	if len(sound.Data) != 44 {
		t.Fatalf("got %d bytes of WAV data, want 44", len(sound.Data))
	}

	if _, err := core.Sound(3); err == nil {
		t.Fatalf("expected an error for an out-of-range sound index")
	}
}

func TestOpenRejectsBadSignature(t *testing.T) {
	data := buildFixture(t)
	data[0] = 0x00 // corrupt the signature
	if _, err := acs.Open(data); err == nil {
		t.Fatalf("expected an error opening a file with an invalid signature")
	}
}
