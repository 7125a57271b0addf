package acs

import (
	"bytes"

	"github.com/go-audio/wav"
)

// decodeAudio returns the raw audio bytes verbatim as a Sound. The bytes
// are sniffed with a WAV decoder purely to confirm the clip is a
// well-formed RIFF/WAVE container; this package never re-encodes, resamples,
// or otherwise alters the bytes, and performs no playback.
func decodeAudio(raw []byte) (Sound, error) {
	dec := wav.NewDecoder(bytes.NewReader(raw))
	if !dec.IsValidFile() {
		return Sound{}, errInvalidAudio(errNotAValidWAVFile)
	}
	return Sound{Data: raw}, nil
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

var errNotAValidWAVFile = simpleError("not a valid WAV file")
