// Package texture provides typed 2D texel stores, samplers with
// nearest/bilinear filtering, and image export for render targets.
package texture

import (
	"encoding/binary"
	"math"

	"github.com/soypat/glgl/math/ms3"

	"github.com/gogpu/softpipe/f32"
)

// Format enumerates the supported texel layouts, a small subset of the
// DXGI format list.
type Format int

// Texel formats.
const (
	FormatUnknown Format = iota
	FormatR32G32B32A32Float
	FormatR32G32B32A32Uint
	FormatR32G32B32Float
	FormatR32G32B32Uint
	FormatR8G8B8A8Uint
	FormatR8G8B8Uint
	FormatB8G8R8Uint
	FormatD32Float
)

func (f Format) String() string {
	switch f {
	case FormatR32G32B32A32Float:
		return "R32G32B32A32_FLOAT"
	case FormatR32G32B32A32Uint:
		return "R32G32B32A32_UINT"
	case FormatR32G32B32Float:
		return "R32G32B32_FLOAT"
	case FormatR32G32B32Uint:
		return "R32G32B32_UINT"
	case FormatR8G8B8A8Uint:
		return "R8G8B8A8_UINT"
	case FormatR8G8B8Uint:
		return "R8G8B8_UINT"
	case FormatB8G8R8Uint:
		return "B8G8R8_UINT"
	case FormatD32Float:
		return "D32_FLOAT"
	default:
		return "UNKNOWN"
	}
}

// TexelSize returns the byte width of one texel.
func (f Format) TexelSize() int {
	switch f {
	case FormatR32G32B32A32Float, FormatR32G32B32A32Uint:
		return 16
	case FormatR32G32B32Float, FormatR32G32B32Uint:
		return 12
	case FormatR8G8B8A8Uint:
		return 4
	case FormatR8G8B8Uint, FormatB8G8R8Uint:
		return 3
	case FormatD32Float:
		return 4
	default:
		return 0
	}
}

// Texture2D is a raw texel buffer with a format and a size. The storage may
// be owned (allocated by New or Resize) or borrowed from the host
// (NewWithStorage); the texture never copies it.
type Texture2D struct {
	format Format
	width  int
	height int
	data   []byte
}

// New allocates a texture of the given format and size.
func New(format Format, width, height int) *Texture2D {
	return &Texture2D{
		format: format,
		width:  width,
		height: height,
		data:   make([]byte, width*height*format.TexelSize()),
	}
}

// NewWithStorage returns a texture viewing host-supplied storage. The
// caller keeps ownership of data.
func NewWithStorage(format Format, width, height int, data []byte) *Texture2D {
	return &Texture2D{format: format, width: width, height: height, data: data}
}

// Format returns the texel format.
func (t *Texture2D) Format() Format { return t.format }

// Width returns the texture width in texels.
func (t *Texture2D) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture2D) Height() int { return t.height }

// Data returns the backing storage, nil for a storageless texture.
func (t *Texture2D) Data() []byte { return t.data }

// SetStorage replaces the backing storage.
func (t *Texture2D) SetStorage(data []byte) { t.data = data }

// Resize reallocates owned storage for the new dimensions. Prior contents
// are lost.
func (t *Texture2D) Resize(width, height int) {
	if t.width == width && t.height == height && t.data != nil {
		return
	}
	t.width = width
	t.height = height
	t.data = make([]byte, width*height*t.format.TexelSize())
}

// TexelBytes returns the storage window of the texel at (x, y).
func (t *Texture2D) TexelBytes(x, y int) []byte {
	size := t.format.TexelSize()
	off := (x + t.width*y) * size
	return t.data[off : off+size]
}

// WriteTexel copies one texel into (x, y).
func (t *Texture2D) WriteTexel(x, y int, src []byte) {
	copy(t.TexelBytes(x, y), src[:t.format.TexelSize()])
}

func getF32(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
}

func putF32(b []byte, i int, f float32) {
	binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
}

func getU32(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[4*i:])
}

// Float returns the single float channel at (x, y). Meaningful for
// FormatD32Float.
func (t *Texture2D) Float(x, y int) float32 {
	return getF32(t.TexelBytes(x, y), 0)
}

// SetFloat writes the single float channel at (x, y).
func (t *Texture2D) SetFloat(x, y int, f float32) {
	putF32(t.TexelBytes(x, y), 0, f)
}

// Float3 returns the three float channels at (x, y). Meaningful for
// FormatR32G32B32Float.
func (t *Texture2D) Float3(x, y int) ms3.Vec {
	b := t.TexelBytes(x, y)
	return ms3.Vec{X: getF32(b, 0), Y: getF32(b, 1), Z: getF32(b, 2)}
}

// SetFloat3 writes the three float channels at (x, y).
func (t *Texture2D) SetFloat3(x, y int, v ms3.Vec) {
	b := t.TexelBytes(x, y)
	putF32(b, 0, v.X)
	putF32(b, 1, v.Y)
	putF32(b, 2, v.Z)
}

// FillFloat sets every texel's single float channel.
func (t *Texture2D) FillFloat(f float32) {
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			t.SetFloat(x, y, f)
		}
	}
}

// FillFloat3 sets every texel's three float channels.
func (t *Texture2D) FillFloat3(v ms3.Vec) {
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			t.SetFloat3(x, y, v)
		}
	}
}

// TexelRGBA reads the texel at (x, y) as a float4 color. Integer formats
// are normalized by 255, three-channel formats read alpha as 1, B8G8R8 is
// reordered to RGB, and D32 replicates the depth value into all channels.
func (t *Texture2D) TexelRGBA(x, y int) f32.Vec4 {
	b := t.TexelBytes(x, y)
	switch t.format {
	case FormatR32G32B32A32Float:
		return f32.Vec4{X: getF32(b, 0), Y: getF32(b, 1), Z: getF32(b, 2), W: getF32(b, 3)}
	case FormatR32G32B32A32Uint:
		return f32.Vec4{
			X: float32(getU32(b, 0)) / 255,
			Y: float32(getU32(b, 1)) / 255,
			Z: float32(getU32(b, 2)) / 255,
			W: float32(getU32(b, 3)) / 255,
		}
	case FormatR32G32B32Float:
		return f32.Vec4{X: getF32(b, 0), Y: getF32(b, 1), Z: getF32(b, 2), W: 1}
	case FormatR32G32B32Uint:
		return f32.Vec4{
			X: float32(getU32(b, 0)) / 255,
			Y: float32(getU32(b, 1)) / 255,
			Z: float32(getU32(b, 2)) / 255,
			W: 1,
		}
	case FormatR8G8B8A8Uint:
		return f32.Vec4{
			X: float32(b[0]) / 255,
			Y: float32(b[1]) / 255,
			Z: float32(b[2]) / 255,
			W: float32(b[3]) / 255,
		}
	case FormatR8G8B8Uint:
		return f32.Vec4{X: float32(b[0]) / 255, Y: float32(b[1]) / 255, Z: float32(b[2]) / 255, W: 1}
	case FormatB8G8R8Uint:
		return f32.Vec4{X: float32(b[2]) / 255, Y: float32(b[1]) / 255, Z: float32(b[0]) / 255, W: 1}
	case FormatD32Float:
		d := getF32(b, 0)
		return f32.Vec4{X: d, Y: d, Z: d, W: d}
	default:
		return f32.Vec4{}
	}
}
