package acs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the category of a facade-level Error.
type Kind int

// Facade error kinds.
const (
	// KindReader wraps an error from the low-level cursor (internal/reader).
	KindReader Kind = iota
	// KindDecompression wraps an error from the image decompressor
	// (internal/lzss).
	KindDecompression
	// KindInvalidImageIndex is returned by Image for an out-of-range image
	// index, and by RenderFrame when a frame refers to such an image.
	KindInvalidImageIndex
	// KindInvalidFrameIndex is returned by RenderFrame for an out-of-range
	// frame index within an otherwise valid animation. See DESIGN.md for why
	// this is distinct from KindInvalidImageIndex, which the reference
	// implementation reused for both cases.
	KindInvalidFrameIndex
	// KindInvalidSoundIndex is returned by Sound for an out-of-range index.
	KindInvalidSoundIndex
	// KindAnimationNotFound is returned when no animation matches a
	// case-insensitive name lookup.
	KindAnimationNotFound
	// KindInvalidAudio is returned by Sound when the stored audio locator
	// does not point at a well-formed WAV container.
	KindInvalidAudio
)

// Error is the facade-level error type returned from every exported Core
// method. It wraps the lower-layer reader/decompression taxonomies where
// applicable, preserving their cause chain.
type Error struct {
	kind  Kind
	index int
	name  string
	cause error
}

func (e *Error) Error() string {
	switch e.kind {
	case KindReader:
		return fmt.Sprintf("acs: reader error: %v", e.cause)
	case KindDecompression:
		return fmt.Sprintf("acs: decompression error: %v", e.cause)
	case KindInvalidImageIndex:
		return fmt.Sprintf("acs: invalid image index: %d", e.index)
	case KindInvalidFrameIndex:
		return fmt.Sprintf("acs: invalid frame index: %d", e.index)
	case KindInvalidSoundIndex:
		return fmt.Sprintf("acs: invalid sound index: %d", e.index)
	case KindAnimationNotFound:
		return fmt.Sprintf("acs: animation not found: %q", e.name)
	case KindInvalidAudio:
		return fmt.Sprintf("acs: %v", e.cause)
	default:
		return "acs: unknown error"
	}
}

// Unwrap exposes the wrapped cause, if any, so errors.Is/errors.As see
// through to the reader/decompression taxonomies.
func (e *Error) Unwrap() error { return e.cause }

// Kind reports the category of err.
func (e *Error) Kind() Kind { return e.kind }

func errReader(cause error) error {
	return &Error{kind: KindReader, cause: errors.Wrap(cause, "reading ACS structure")}
}

func errDecompression(cause error) error {
	return &Error{kind: KindDecompression, cause: errors.Wrap(cause, "decompressing image payload")}
}

func errInvalidImageIndex(index int) error {
	return &Error{kind: KindInvalidImageIndex, index: index}
}

func errInvalidFrameIndex(index int) error {
	return &Error{kind: KindInvalidFrameIndex, index: index}
}

func errInvalidSoundIndex(index int) error {
	return &Error{kind: KindInvalidSoundIndex, index: index}
}

func errAnimationNotFound(name string) error {
	return &Error{kind: KindAnimationNotFound, name: name}
}

func errInvalidAudio(cause error) error {
	return &Error{kind: KindInvalidAudio, cause: cause}
}
