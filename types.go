package acs

// header is the parsed ACS file header: the fixed-size table of locators
// pointing at the four top-level sections.
type header struct {
	CharacterInfo locatorPair
	AnimationInfo locatorPair
	ImageInfo     locatorPair
	AudioInfo     locatorPair
}

// locatorPair mirrors internal/reader.Locator; kept as a plain struct here
// so the root package's parse functions don't leak the internal type through
// exported signatures.
type locatorPair struct {
	Offset uint32
	Size   uint32
}

func (l locatorPair) empty() bool { return l.Size == 0 }

// LocalizedInfo is one language-specific name/description/extra-data triple
// from the character's localized info table.
type LocalizedInfo struct {
	LangID      uint16
	Name        string
	Description string
	ExtraData   string
}

// VoiceExtraData holds the optional extended voice descriptor fields.
type VoiceExtraData struct {
	LangID      uint16
	LangDialect string
	Gender      uint16
	Age         uint16
	Style       string
}

// VoiceDescriptor describes the character's preferred text-to-speech engine
// and voice. This package only extracts these fields; it performs no speech
// synthesis.
type VoiceDescriptor struct {
	TTSEngineID GUID
	TTSModeID   GUID
	Speed       uint32
	Pitch       uint16
	ExtraData   *VoiceExtraData
}

// BalloonDescriptor describes the speech balloon's text layout and colors.
type BalloonDescriptor struct {
	NumLines      uint8
	CharsPerLine  uint8
	ForegroundRGB [3]uint8
	BackgroundRGB [3]uint8
	BorderRGB     [3]uint8
	FontName      string
	FontHeight    int32
	FontWeight    int32
	FontItalic    bool
	FontCharset   uint8
}

// TrayIcon holds the character's raw system-tray bitmap resources, verbatim.
// This package does not interpret or render them.
type TrayIcon struct {
	MonoBitmap  []byte
	ColorBitmap []byte
}

// State groups a named set of animations, as shown in the Microsoft Agent
// control's state menu.
type State struct {
	Name       string
	Animations []string
}

// CharacterInfo is the character's metadata: display name, canvas
// dimensions, palette, voice/balloon descriptors, and states.
type CharacterInfo struct {
	MinorVersion      uint16
	MajorVersion      uint16
	AnimationSetMajor uint16
	AnimationSetMinor uint16
	GUID              GUID
	Width             uint16
	Height            uint16
	TransparentColor  uint8
	Flags             uint32
	LocalizedInfo     []LocalizedInfo
	Voice             *VoiceDescriptor
	Balloon           BalloonDescriptor
	Palette           [][3]uint8
	TrayIcon          *TrayIcon
	States            []State
}

// Name returns the first localized display name, or the empty string if the
// character carries no localized info.
func (c *CharacterInfo) Name() string {
	if len(c.LocalizedInfo) == 0 {
		return ""
	}
	return c.LocalizedInfo[0].Name
}

// Description returns the first localized description, or the empty string.
func (c *CharacterInfo) Description() string {
	if len(c.LocalizedInfo) == 0 {
		return ""
	}
	return c.LocalizedInfo[0].Description
}

// TransitionType describes how an animation behaves once its last frame
// plays out.
type TransitionType int

// Transition kinds.
const (
	TransitionNone TransitionType = iota
	TransitionReturnAnimation
	TransitionExitBranch
)

func transitionTypeFromByte(b uint8) TransitionType {
	switch b {
	case 1:
		return TransitionReturnAnimation
	case 2:
		return TransitionExitBranch
	default:
		return TransitionNone
	}
}

func (t TransitionType) String() string {
	switch t {
	case TransitionReturnAnimation:
		return "return-animation"
	case TransitionExitBranch:
		return "exit-branch"
	default:
		return "none"
	}
}

// OverlayType identifies a mouth-shape overlay used for lip-sync during
// speech. OverlayUnknown stands for any raw value this package doesn't name;
// the raw value itself is kept in Overlay.RawType.
type OverlayType int

// Overlay kinds, matching the Microsoft Agent mouth-shape set.
const (
	OverlayMouthClosed OverlayType = iota
	OverlayMouthWide1
	OverlayMouthWide2
	OverlayMouthWide3
	OverlayMouthWide4
	OverlayMouthMedium
	OverlayMouthNarrow
	OverlayUnknown
)

func overlayTypeFromByte(b uint8) (OverlayType, uint8) {
	switch b {
	case 0:
		return OverlayMouthClosed, 0
	case 1:
		return OverlayMouthWide1, 0
	case 2:
		return OverlayMouthWide2, 0
	case 3:
		return OverlayMouthWide3, 0
	case 4:
		return OverlayMouthWide4, 0
	case 5:
		return OverlayMouthMedium, 0
	case 6:
		return OverlayMouthNarrow, 0
	default:
		return OverlayUnknown, b
	}
}

func (t OverlayType) String() string {
	switch t {
	case OverlayMouthClosed:
		return "mouth-closed"
	case OverlayMouthWide1:
		return "mouth-wide-1"
	case OverlayMouthWide2:
		return "mouth-wide-2"
	case OverlayMouthWide3:
		return "mouth-wide-3"
	case OverlayMouthWide4:
		return "mouth-wide-4"
	case OverlayMouthMedium:
		return "mouth-medium"
	case OverlayMouthNarrow:
		return "mouth-narrow"
	default:
		return "unknown"
	}
}

// FrameImage places one still image at an offset within a frame.
type FrameImage struct {
	ImageIndex int
	X, Y       int16
}

// Branch is a weighted jump target evaluated when a frame exits via branch
// selection rather than simply advancing.
type Branch struct {
	FrameIndex  int
	Probability uint16
}

// Overlay places a mouth-shape image on top of a frame, optionally
// replacing (rather than compositing over) the frame's own imagery. This
// package does not interpret the overlay's own region mask.
type Overlay struct {
	Type           OverlayType
	RawType        uint8 // populated when Type == OverlayUnknown
	ReplaceEnabled bool
	ImageIndex     int
	X, Y           int16
	Width, Height  uint16
}

// Frame is one step of an animation: the still images composited to produce
// it, its display duration, an optional sound cue, and the branching rules
// that determine the next frame.
type Frame struct {
	Images     []FrameImage
	DurationMS uint32
	SoundIndex int // -1 if the frame plays no sound
	ExitBranch int // -1 if the frame has no exit branch
	Branches   []Branch
	Overlays   []Overlay
}

// Animation is a named sequence of frames.
type Animation struct {
	Name            string
	Frames          []Frame
	ReturnAnimation string // empty if the animation has no return target
	TransitionType  TransitionType
}

// Image is a fully decoded, top-down RGBA bitmap.
type Image struct {
	Width, Height uint32
	// Data holds Width*Height*4 bytes, row-major, top-down.
	Data []byte
}

// Sound is a raw WAV-encoded audio clip, returned verbatim. This package
// performs no audio decoding or playback.
type Sound struct {
	Data []byte
}
