package acs

import "github.com/msagent/acs/internal/lzss"

// decodeImage turns a raw on-disk image record into a top-down RGBA bitmap,
// decompressing it first if needed and resolving each palette-indexed pixel
// through the character's palette and transparent color index.
func decodeImage(raw rawImageInfo, palette [][3]uint8, transparentColor uint8) (Image, error) {
	pixels := raw.data
	if raw.isCompressed {
		decoded, err := lzss.Decompress(raw.data)
		if err != nil {
			return Image{}, errDecompression(err)
		}
		pixels = decoded
	}

	rowWidth := (int(raw.width) + 3) &^ 3
	width, height := int(raw.width), int(raw.height)

	rgba := make([]byte, 0, width*height*4)
	// ACS stores rows bottom-up; walk them in reverse to produce a top-down
	// bitmap.
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			idx := y*rowWidth + x
			if idx >= len(pixels) {
				rgba = append(rgba, 0, 0, 0, 0)
				continue
			}
			colorIndex := int(pixels[idx])
			switch {
			case colorIndex == int(transparentColor):
				rgba = append(rgba, 0, 0, 0, 0)
			case colorIndex < len(palette):
				c := palette[colorIndex]
				rgba = append(rgba, c[0], c[1], c[2], 255)
			default:
				rgba = append(rgba, 0, 0, 0, 255)
			}
		}
	}

	return Image{Width: uint32(width), Height: uint32(height), Data: rgba}, nil
}
