// Package acs parses Microsoft Agent Character (ACS) files: the binary
// container format used by Microsoft Agent 2.0 characters such as Bonzi,
// Clippit, and Merlin. It decodes character metadata, animations, images,
// and audio clips; it does not render or schedule animation playback,
// synthesize speech, or play audio.
package acs

import (
	"github.com/msagent/acs/internal/reader"
)

// animationSlot tracks one entry from the animation directory along with
// its lazily-decoded contents (Uncached while cached is nil, Cached after
// the first successful decode). Animations are the only cached values;
// images and audio clips are re-read on every request.
type animationSlot struct {
	name   string
	offset uint32
	cached *Animation
}

// Core is a parsed ACS file. It holds the full file image in memory and
// decodes animations, images, and audio clips lazily, on first request.
// A Core is not safe for concurrent use without external synchronization.
type Core struct {
	data       []byte
	header     header
	character  CharacterInfo
	animations []animationSlot
	images     []imageEntry
	audio      []audioEntry
}

// Open parses an ACS file from its complete byte image. The returned Core
// retains data; the caller must not mutate it afterward.
func Open(data []byte) (*Core, error) {
	c := reader.New(data)

	hdr, err := parseHeader(c)
	if err != nil {
		return nil, errReader(err)
	}

	character, err := parseCharacterInfo(c, hdr.CharacterInfo.Offset)
	if err != nil {
		return nil, errReader(err)
	}

	rawAnimations, err := parseAnimationList(c, hdr.AnimationInfo)
	if err != nil {
		return nil, errReader(err)
	}
	animations := make([]animationSlot, len(rawAnimations))
	for i, a := range rawAnimations {
		animations[i] = animationSlot{name: a.name, offset: a.offset}
	}

	images, err := parseImageList(c, hdr.ImageInfo)
	if err != nil {
		return nil, errReader(err)
	}

	audio, err := parseAudioList(c, hdr.AudioInfo)
	if err != nil {
		return nil, errReader(err)
	}

	return &Core{
		data:       data,
		header:     hdr,
		character:  character,
		animations: animations,
		images:     images,
		audio:      audio,
	}, nil
}

// CharacterInfo returns the character's metadata.
func (core *Core) CharacterInfo() *CharacterInfo {
	return &core.character
}

// States returns the character's state groupings.
func (core *Core) States() []State {
	return core.character.States
}

// AnimationNames returns every animation name, in file order.
func (core *Core) AnimationNames() []string {
	names := make([]string, len(core.animations))
	for i, a := range core.animations {
		names[i] = a.name
	}
	return names
}

func (core *Core) findAnimation(name string) int {
	for i, a := range core.animations {
		if equalFoldASCII(a.name, name) {
			return i
		}
	}
	return -1
}

// Animation returns the named animation, decoding and caching it on first
// request. Lookup is case-insensitive. A prior decode failure is not
// cached; the next call retries the read.
func (core *Core) Animation(name string) (*Animation, error) {
	idx := core.findAnimation(name)
	if idx < 0 {
		return nil, errAnimationNotFound(name)
	}
	return core.loadAnimation(idx)
}

func (core *Core) loadAnimation(idx int) (*Animation, error) {
	if core.animations[idx].cached != nil {
		return core.animations[idx].cached, nil
	}
	c := reader.New(core.data)
	anim, err := parseAnimationInfo(c, core.animations[idx].offset)
	if err != nil {
		return nil, errReader(err)
	}
	core.animations[idx].cached = &anim
	return &anim, nil
}

// ImageCount returns the number of images in the file.
func (core *Core) ImageCount() int { return len(core.images) }

// Image decodes and returns the image at index, fully materialized as a
// top-down RGBA bitmap. Images are not cached; each call re-reads and
// re-decodes from the file image.
func (core *Core) Image(index int) (Image, error) {
	if index < 0 || index >= len(core.images) {
		return Image{}, errInvalidImageIndex(index)
	}
	entry := core.images[index]
	c := reader.New(core.data)
	raw, err := parseImageInfo(c, entry.offset)
	if err != nil {
		return Image{}, errReader(err)
	}
	return decodeImage(raw, core.character.Palette, core.character.TransparentColor)
}

// SoundCount returns the number of audio clips in the file.
func (core *Core) SoundCount() int { return len(core.audio) }

// Sound returns the raw WAV bytes of the audio clip at index, verbatim.
func (core *Core) Sound(index int) (Sound, error) {
	if index < 0 || index >= len(core.audio) {
		return Sound{}, errInvalidSoundIndex(index)
	}
	entry := core.audio[index]
	c := reader.New(core.data)
	c.Seek(uint64(entry.offset))
	raw, err := c.ReadBytes(int(entry.size))
	if err != nil {
		return Sound{}, errReader(err)
	}
	return decodeAudio(raw)
}

// RenderFrame decodes the named animation (if not already cached) and
// composites the requested frame's images into a single top-down RGBA
// bitmap sized to the character's canvas.
func (core *Core) RenderFrame(animationName string, frameIndex int) (Image, error) {
	idx := core.findAnimation(animationName)
	if idx < 0 {
		return Image{}, errAnimationNotFound(animationName)
	}
	anim, err := core.loadAnimation(idx)
	if err != nil {
		return Image{}, err
	}
	if frameIndex < 0 || frameIndex >= len(anim.Frames) {
		return Image{}, errInvalidFrameIndex(frameIndex)
	}
	return core.compositeFrame(&anim.Frames[frameIndex])
}

// equalFoldASCII reports whether a and b are equal under ASCII
// case-folding, matching the case-insensitive animation name lookup the
// format's browsers perform.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
