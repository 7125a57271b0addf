package acs

import (
	"github.com/msagent/acs/internal/reader"
)

// acsSignature is the magic number at the start of every ACS file.
const acsSignature = 0xABCDABC3

// voiceInfoFlag marks bit 5 of the character flags field. Despite the
// format's own documentation describing bit 4, observed files only ever set
// voice info presence via bit 5; this package follows the observed files.
const voiceInfoFlag = 0x20

func toLocatorPair(l reader.Locator) locatorPair {
	return locatorPair{Offset: l.Offset, Size: l.Size}
}

func parseHeader(c *reader.Cursor) (header, error) {
	if err := c.ReadSignature(acsSignature); err != nil {
		return header{}, err
	}

	charInfo, err := c.ReadLocator()
	if err != nil {
		return header{}, err
	}
	animInfo, err := c.ReadLocator()
	if err != nil {
		return header{}, err
	}
	imgInfo, err := c.ReadLocator()
	if err != nil {
		return header{}, err
	}
	audioInfo, err := c.ReadLocator()
	if err != nil {
		return header{}, err
	}

	return header{
		CharacterInfo: toLocatorPair(charInfo),
		AnimationInfo: toLocatorPair(animInfo),
		ImageInfo:     toLocatorPair(imgInfo),
		AudioInfo:     toLocatorPair(audioInfo),
	}, nil
}

// parseCharacterInfo reads the character info block at offset, including
// the separately-located localized info table.
func parseCharacterInfo(c *reader.Cursor, offset uint32) (CharacterInfo, error) {
	c.Seek(uint64(offset))

	minorVersion, err := c.ReadU16()
	if err != nil {
		return CharacterInfo{}, err
	}
	majorVersion, err := c.ReadU16()
	if err != nil {
		return CharacterInfo{}, err
	}

	localizedInfoLocator, err := c.ReadLocator()
	if err != nil {
		return CharacterInfo{}, err
	}

	guid, err := c.ReadGUID()
	if err != nil {
		return CharacterInfo{}, err
	}
	width, err := c.ReadU16()
	if err != nil {
		return CharacterInfo{}, err
	}
	height, err := c.ReadU16()
	if err != nil {
		return CharacterInfo{}, err
	}
	transparentColor, err := c.ReadU8()
	if err != nil {
		return CharacterInfo{}, err
	}
	flags, err := c.ReadU32()
	if err != nil {
		return CharacterInfo{}, err
	}

	animSetMajor, err := c.ReadU16()
	if err != nil {
		return CharacterInfo{}, err
	}
	animSetMinor, err := c.ReadU16()
	if err != nil {
		return CharacterInfo{}, err
	}

	var voice *VoiceDescriptor
	if flags&voiceInfoFlag != 0 {
		v, err := parseVoiceInfo(c)
		if err != nil {
			return CharacterInfo{}, err
		}
		voice = &v
	}

	balloon, err := parseBalloonInfo(c)
	if err != nil {
		return CharacterInfo{}, err
	}

	palette, err := parsePalette(c)
	if err != nil {
		return CharacterInfo{}, err
	}

	hasTrayIcon, err := c.ReadU8()
	if err != nil {
		return CharacterInfo{}, err
	}
	var trayIcon *TrayIcon
	if hasTrayIcon != 0 {
		t, err := parseTrayIcon(c)
		if err != nil {
			return CharacterInfo{}, err
		}
		trayIcon = &t
	}

	stateCount, err := c.ReadU16()
	if err != nil {
		return CharacterInfo{}, err
	}
	states := make([]State, 0, stateCount)
	for i := 0; i < int(stateCount); i++ {
		s, err := parseStateInfo(c)
		if err != nil {
			return CharacterInfo{}, err
		}
		states = append(states, s)
	}

	var localizedInfo []LocalizedInfo
	if !localizedInfoLocator.empty() {
		localizedInfo, err = parseLocalizedInfoList(c, localizedInfoLocator)
		if err != nil {
			return CharacterInfo{}, err
		}
	}

	return CharacterInfo{
		MinorVersion:      minorVersion,
		MajorVersion:      majorVersion,
		AnimationSetMajor: animSetMajor,
		AnimationSetMinor: animSetMinor,
		GUID:              GUID(guid),
		Width:             width,
		Height:            height,
		TransparentColor:  transparentColor,
		Flags:             flags,
		LocalizedInfo:     localizedInfo,
		Voice:             voice,
		Balloon:           balloon,
		Palette:           palette,
		TrayIcon:          trayIcon,
		States:            states,
	}, nil
}

func parseLocalizedInfoList(c *reader.Cursor, loc locatorPair) ([]LocalizedInfo, error) {
	c.Seek(uint64(loc.Offset))
	count, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	list := make([]LocalizedInfo, 0, count)
	for i := 0; i < int(count); i++ {
		langID, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		name, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		description, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		extraData, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		list = append(list, LocalizedInfo{
			LangID:      langID,
			Name:        name,
			Description: description,
			ExtraData:   extraData,
		})
	}
	return list, nil
}

func parseVoiceInfo(c *reader.Cursor) (VoiceDescriptor, error) {
	ttsEngineID, err := c.ReadGUID()
	if err != nil {
		return VoiceDescriptor{}, err
	}
	ttsModeID, err := c.ReadGUID()
	if err != nil {
		return VoiceDescriptor{}, err
	}
	speed, err := c.ReadU32()
	if err != nil {
		return VoiceDescriptor{}, err
	}
	pitch, err := c.ReadU16()
	if err != nil {
		return VoiceDescriptor{}, err
	}
	extraDataExists, err := c.ReadU8()
	if err != nil {
		return VoiceDescriptor{}, err
	}

	var extra *VoiceExtraData
	if extraDataExists != 0 {
		langID, err := c.ReadU16()
		if err != nil {
			return VoiceDescriptor{}, err
		}
		langDialect, err := c.ReadString()
		if err != nil {
			return VoiceDescriptor{}, err
		}
		gender, err := c.ReadU16()
		if err != nil {
			return VoiceDescriptor{}, err
		}
		age, err := c.ReadU16()
		if err != nil {
			return VoiceDescriptor{}, err
		}
		style, err := c.ReadString()
		if err != nil {
			return VoiceDescriptor{}, err
		}
		extra = &VoiceExtraData{
			LangID:      langID,
			LangDialect: langDialect,
			Gender:      gender,
			Age:         age,
			Style:       style,
		}
	}

	return VoiceDescriptor{
		TTSEngineID: GUID(ttsEngineID),
		TTSModeID:   GUID(ttsModeID),
		Speed:       speed,
		Pitch:       pitch,
		ExtraData:   extra,
	}, nil
}

func parseBalloonInfo(c *reader.Cursor) (BalloonDescriptor, error) {
	numLines, err := c.ReadU8()
	if err != nil {
		return BalloonDescriptor{}, err
	}
	charsPerLine, err := c.ReadU8()
	if err != nil {
		return BalloonDescriptor{}, err
	}
	fg, err := readRGBQuadRGB(c)
	if err != nil {
		return BalloonDescriptor{}, err
	}
	bg, err := readRGBQuadRGB(c)
	if err != nil {
		return BalloonDescriptor{}, err
	}
	border, err := readRGBQuadRGB(c)
	if err != nil {
		return BalloonDescriptor{}, err
	}
	fontName, err := c.ReadString()
	if err != nil {
		return BalloonDescriptor{}, err
	}
	fontHeight, err := c.ReadI32()
	if err != nil {
		return BalloonDescriptor{}, err
	}
	fontWeight, err := c.ReadI32()
	if err != nil {
		return BalloonDescriptor{}, err
	}
	fontItalic, err := c.ReadU8()
	if err != nil {
		return BalloonDescriptor{}, err
	}
	fontCharset, err := c.ReadU8()
	if err != nil {
		return BalloonDescriptor{}, err
	}

	return BalloonDescriptor{
		NumLines:      numLines,
		CharsPerLine:  charsPerLine,
		ForegroundRGB: fg,
		BackgroundRGB: bg,
		BorderRGB:     border,
		FontName:      fontName,
		FontHeight:    fontHeight,
		FontWeight:    fontWeight,
		FontItalic:    fontItalic != 0,
		FontCharset:   fontCharset,
	}, nil
}

// readRGBQuadRGB reads an RGBQUAD-shaped field (R, G, B, reserved, each one
// byte) and discards the reserved byte. The balloon's colors are stored in
// plain R,G,B order, unlike the main palette's B,G,R order.
func readRGBQuadRGB(c *reader.Cursor) ([3]uint8, error) {
	r, err := c.ReadU8()
	if err != nil {
		return [3]uint8{}, err
	}
	g, err := c.ReadU8()
	if err != nil {
		return [3]uint8{}, err
	}
	b, err := c.ReadU8()
	if err != nil {
		return [3]uint8{}, err
	}
	if _, err := c.ReadU8(); err != nil {
		return [3]uint8{}, err
	}
	return [3]uint8{r, g, b}, nil
}

func parsePalette(c *reader.Cursor) ([][3]uint8, error) {
	count, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	palette := make([][3]uint8, 0, count)
	for i := 0; i < int(count); i++ {
		b, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		g, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		r, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		if _, err := c.ReadU8(); err != nil { // reserved
			return nil, err
		}
		palette = append(palette, [3]uint8{r, g, b})
	}
	return palette, nil
}

func parseTrayIcon(c *reader.Cursor) (TrayIcon, error) {
	monoSize, err := c.ReadU32()
	if err != nil {
		return TrayIcon{}, err
	}
	mono, err := c.ReadBytes(int(monoSize))
	if err != nil {
		return TrayIcon{}, err
	}
	colorSize, err := c.ReadU32()
	if err != nil {
		return TrayIcon{}, err
	}
	color, err := c.ReadBytes(int(colorSize))
	if err != nil {
		return TrayIcon{}, err
	}
	return TrayIcon{MonoBitmap: mono, ColorBitmap: color}, nil
}

func parseStateInfo(c *reader.Cursor) (State, error) {
	name, err := c.ReadString()
	if err != nil {
		return State{}, err
	}
	count, err := c.ReadU16()
	if err != nil {
		return State{}, err
	}
	animations := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		a, err := c.ReadString()
		if err != nil {
			return State{}, err
		}
		animations = append(animations, a)
	}
	return State{Name: name, Animations: animations}, nil
}

// animationEntry pairs an animation's name with the offset of its (lazily
// loaded) animation info block.
type animationEntry struct {
	name   string
	offset uint32
}

func parseAnimationList(c *reader.Cursor, loc locatorPair) ([]animationEntry, error) {
	c.Seek(uint64(loc.Offset))
	count, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	entries := make([]animationEntry, 0, count)
	for i := 0; i < int(count); i++ {
		name, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		entryLoc, err := c.ReadLocator()
		if err != nil {
			return nil, err
		}
		entries = append(entries, animationEntry{name: name, offset: entryLoc.Offset})
	}
	return entries, nil
}

func parseAnimationInfo(c *reader.Cursor, offset uint32) (Animation, error) {
	c.Seek(uint64(offset))

	name, err := c.ReadString()
	if err != nil {
		return Animation{}, err
	}
	transitionByte, err := c.ReadU8()
	if err != nil {
		return Animation{}, err
	}
	returnAnimation, err := c.ReadString()
	if err != nil {
		return Animation{}, err
	}

	frameCount, err := c.ReadU16()
	if err != nil {
		return Animation{}, err
	}
	frames := make([]Frame, 0, frameCount)
	for i := 0; i < int(frameCount); i++ {
		f, err := parseFrameInfo(c)
		if err != nil {
			return Animation{}, err
		}
		frames = append(frames, f)
	}

	return Animation{
		Name:            name,
		Frames:          frames,
		ReturnAnimation: returnAnimation,
		TransitionType:  transitionTypeFromByte(transitionByte),
	}, nil
}

func parseFrameInfo(c *reader.Cursor) (Frame, error) {
	imageCount, err := c.ReadU16()
	if err != nil {
		return Frame{}, err
	}
	images := make([]FrameImage, 0, imageCount)
	for i := 0; i < int(imageCount); i++ {
		imageIndex, err := c.ReadU32()
		if err != nil {
			return Frame{}, err
		}
		x, err := c.ReadI16()
		if err != nil {
			return Frame{}, err
		}
		y, err := c.ReadI16()
		if err != nil {
			return Frame{}, err
		}
		images = append(images, FrameImage{ImageIndex: int(imageIndex), X: x, Y: y})
	}

	soundIndex, err := c.ReadI16()
	if err != nil {
		return Frame{}, err
	}
	duration, err := c.ReadU16()
	if err != nil {
		return Frame{}, err
	}
	exitBranch, err := c.ReadI16()
	if err != nil {
		return Frame{}, err
	}

	branchCount, err := c.ReadU8()
	if err != nil {
		return Frame{}, err
	}
	branches := make([]Branch, 0, branchCount)
	for i := 0; i < int(branchCount); i++ {
		frameIndex, err := c.ReadU16()
		if err != nil {
			return Frame{}, err
		}
		probability, err := c.ReadU16()
		if err != nil {
			return Frame{}, err
		}
		branches = append(branches, Branch{FrameIndex: int(frameIndex), Probability: probability})
	}

	overlayCount, err := c.ReadU8()
	if err != nil {
		return Frame{}, err
	}
	overlays := make([]Overlay, 0, overlayCount)
	for i := 0; i < int(overlayCount); i++ {
		o, err := parseOverlayInfo(c)
		if err != nil {
			return Frame{}, err
		}
		overlays = append(overlays, o)
	}

	soundIdx := -1
	if soundIndex >= 0 {
		soundIdx = int(soundIndex)
	}
	exitBranchIdx := -1
	if exitBranch >= 0 {
		exitBranchIdx = int(exitBranch)
	}

	return Frame{
		Images:     images,
		DurationMS: uint32(duration) * 10, // stored in hundredths of a second
		SoundIndex: soundIdx,
		ExitBranch: exitBranchIdx,
		Branches:   branches,
		Overlays:   overlays,
	}, nil
}

// parseOverlayInfo follows the field order the format actually uses, which
// places the reserved byte and has-region flag before the offset/size
// fields rather than after them as summarized elsewhere.
func parseOverlayInfo(c *reader.Cursor) (Overlay, error) {
	overlayType, err := c.ReadU8()
	if err != nil {
		return Overlay{}, err
	}
	replaceEnabled, err := c.ReadU8()
	if err != nil {
		return Overlay{}, err
	}
	imageIndex, err := c.ReadU16()
	if err != nil {
		return Overlay{}, err
	}
	if _, err := c.ReadU8(); err != nil { // reserved, observed always 0x00
		return Overlay{}, err
	}
	hasRegion, err := c.ReadU8()
	if err != nil {
		return Overlay{}, err
	}
	x, err := c.ReadI16()
	if err != nil {
		return Overlay{}, err
	}
	y, err := c.ReadI16()
	if err != nil {
		return Overlay{}, err
	}
	width, err := c.ReadU16()
	if err != nil {
		return Overlay{}, err
	}
	height, err := c.ReadU16()
	if err != nil {
		return Overlay{}, err
	}

	if hasRegion != 0 {
		size, err := c.ReadU32()
		if err != nil {
			return Overlay{}, err
		}
		// Region masks describe which area of the overlay participates in
		// hit-testing; interpreting them is out of scope here.
		if _, err := c.ReadBytes(int(size)); err != nil {
			return Overlay{}, err
		}
	}

	t, raw := overlayTypeFromByte(overlayType)
	return Overlay{
		Type:           t,
		RawType:        raw,
		ReplaceEnabled: replaceEnabled != 0,
		ImageIndex:     int(imageIndex),
		X:              x,
		Y:              y,
		Width:          width,
		Height:         height,
	}, nil
}

// imageEntry pairs an image's locator with its stored checksum. The
// checksum is not verified.
type imageEntry struct {
	offset   uint32
	size     uint32
	checksum uint32
}

func parseImageList(c *reader.Cursor, loc locatorPair) ([]imageEntry, error) {
	c.Seek(uint64(loc.Offset))
	count, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	entries := make([]imageEntry, 0, count)
	for i := 0; i < int(count); i++ {
		entryLoc, err := c.ReadLocator()
		if err != nil {
			return nil, err
		}
		checksum, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		entries = append(entries, imageEntry{offset: entryLoc.Offset, size: entryLoc.Size, checksum: checksum})
	}
	return entries, nil
}

// rawImageInfo is the on-disk image record, before decompression and
// palette application.
type rawImageInfo struct {
	width        uint16
	height       uint16
	isCompressed bool
	data         []byte
}

func parseImageInfo(c *reader.Cursor, offset uint32) (rawImageInfo, error) {
	c.Seek(uint64(offset))

	if _, err := c.ReadU8(); err != nil { // reserved
		return rawImageInfo{}, err
	}
	width, err := c.ReadU16()
	if err != nil {
		return rawImageInfo{}, err
	}
	height, err := c.ReadU16()
	if err != nil {
		return rawImageInfo{}, err
	}
	isCompressedByte, err := c.ReadU8()
	if err != nil {
		return rawImageInfo{}, err
	}
	isCompressed := isCompressedByte != 0

	rowWidth := (int(width) + 3) &^ 3
	dataSize := rowWidth * int(height)

	var data []byte
	if isCompressed {
		compressedSize, err := c.ReadU32()
		if err != nil {
			return rawImageInfo{}, err
		}
		data, err = c.ReadBytes(int(compressedSize))
		if err != nil {
			return rawImageInfo{}, err
		}
	} else {
		data, err = c.ReadBytes(dataSize)
		if err != nil {
			return rawImageInfo{}, err
		}
	}

	// The region mask (hit-testing geometry) follows; this package has no
	// use for it and does not retain it, but must still consume its bytes
	// to leave the cursor correctly positioned for any subsequent read.
	regionCompressedSize, err := c.ReadU32()
	if err != nil {
		return rawImageInfo{}, err
	}
	if _, err := c.ReadU32(); err != nil { // region uncompressed size
		return rawImageInfo{}, err
	}
	if regionCompressedSize > 0 {
		if _, err := c.ReadBytes(int(regionCompressedSize)); err != nil {
			return rawImageInfo{}, err
		}
	}

	return rawImageInfo{
		width:        width,
		height:       height,
		isCompressed: isCompressed,
		data:         data,
	}, nil
}

// audioEntry pairs an audio clip's locator with its stored checksum.
type audioEntry struct {
	offset   uint32
	size     uint32
	checksum uint32
}

func parseAudioList(c *reader.Cursor, loc locatorPair) ([]audioEntry, error) {
	c.Seek(uint64(loc.Offset))
	count, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	entries := make([]audioEntry, 0, count)
	for i := 0; i < int(count); i++ {
		entryLoc, err := c.ReadLocator()
		if err != nil {
			return nil, err
		}
		checksum, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		entries = append(entries, audioEntry{offset: entryLoc.Offset, size: entryLoc.Size, checksum: checksum})
	}
	return entries, nil
}
