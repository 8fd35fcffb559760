package texture

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/bmp"
)

// Compile-time interface check.
var _ image.Image = (*textureImage)(nil)

// textureImage adapts a Texture2D to image.Image. Rows are flipped so that
// texel row 0 (the bottom of the render target) ends up at the bottom of
// the image.
type textureImage struct {
	tex *Texture2D
}

func (m textureImage) ColorModel() color.Model { return color.NRGBAModel }

func (m textureImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.tex.Width(), m.tex.Height())
}

func clamp255(f float32) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f * 255)
}

func (m textureImage) At(x, y int) color.Color {
	ty := m.tex.Height() - y - 1
	c := m.tex.TexelRGBA(x, ty)
	return color.NRGBA{
		R: clamp255(c.X),
		G: clamp255(c.Y),
		B: clamp255(c.Z),
		A: 255,
	}
}

// Image returns an 8-bit view of the texture suitable for encoding. Float
// channels are clamped into [0, 255]; a depth texture renders as grayscale.
func (t *Texture2D) Image() image.Image {
	return textureImage{tex: t}
}

// SaveBMP writes the texture as an 8-bit-per-channel bitmap file.
func SaveBMP(filename string, t *Texture2D) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("texture: save %s: %w", filename, err)
	}
	defer f.Close()
	if err := bmp.Encode(f, t.Image()); err != nil {
		return fmt.Errorf("texture: encode %s: %w", filename, err)
	}
	return nil
}
