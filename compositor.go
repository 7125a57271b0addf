package acs

// compositeFrame paints a frame's images onto a canvas sized to the
// character's declared width and height. Images are painted in reverse
// declaration order, so the first-declared image ends up on top; each
// paint is an opaque replacement of destination pixels, gated on the
// source pixel's alpha, not an alpha blend.
func (core *Core) compositeFrame(frame *Frame) (Image, error) {
	width := uint32(core.character.Width)
	height := uint32(core.character.Height)

	canvas := make([]byte, width*height*4)

	for i := len(frame.Images) - 1; i >= 0; i-- {
		fi := frame.Images[i]
		img, err := core.Image(fi.ImageIndex)
		if err != nil {
			return Image{}, err
		}
		blit(canvas, width, height, img, int32(fi.X), int32(fi.Y))
	}

	return Image{Width: width, Height: height, Data: canvas}, nil
}

// blit paints src onto dst (laid out width x height, RGBA) at (dstX, dstY),
// replacing destination pixels wherever the source pixel's alpha is
// non-zero and the destination coordinate falls on the canvas.
func blit(dst []byte, width, height uint32, src Image, dstX, dstY int32) {
	for y := uint32(0); y < src.Height; y++ {
		ty := dstY + int32(y)
		if ty < 0 || ty >= int32(height) {
			continue
		}
		for x := uint32(0); x < src.Width; x++ {
			tx := dstX + int32(x)
			if tx < 0 || tx >= int32(width) {
				continue
			}
			srcIdx := (y*src.Width + x) * 4
			alpha := src.Data[srcIdx+3]
			if alpha == 0 {
				continue
			}
			dstIdx := (uint32(ty)*width + uint32(tx)) * 4
			dst[dstIdx] = src.Data[srcIdx]
			dst[dstIdx+1] = src.Data[srcIdx+1]
			dst[dstIdx+2] = src.Data[srcIdx+2]
			dst[dstIdx+3] = alpha
		}
	}
}
