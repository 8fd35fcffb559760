package texture

import (
	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"

	"github.com/gogpu/softpipe/f32"
)

// FilterMode selects the texel reconstruction filter.
type FilterMode int

// Filter modes. The mipmap variants are declared for completeness; sampling
// with them yields zero until mip chains exist (computing the required
// derivatives is out of scope).
const (
	FilterNearest FilterMode = iota
	FilterLinear
	FilterNearestMipmapNearest
	FilterLinearMipmapNearest
	FilterNearestMipmapLinear
	FilterLinearMipmapLinear
)

// AddressMode selects how texel coordinates outside the texture are
// resolved, independently per axis.
type AddressMode int

// Address modes.
const (
	// AddressWrap repeats the texture.
	AddressWrap AddressMode = iota
	// AddressMirror repeats the texture, flipping every other copy.
	AddressMirror
	// AddressClamp extends the edge texels.
	AddressClamp
	// AddressBorder reads zero outside the texture.
	AddressBorder
)

// Sampler2D pairs a filter mode with per-axis address modes.
type Sampler2D struct {
	Filter   FilterMode
	AddressU AddressMode
	AddressV AddressMode
}

// resolve maps texel coordinate i onto [0, n) per the address mode. The
// second result is false when the border rule applies, meaning the fetch
// reads zero instead of a texel.
func resolve(i, n int, mode AddressMode) (int, bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch mode {
	case AddressWrap:
		i %= n
		if i < 0 {
			i += n
		}
		return i, true
	case AddressMirror:
		period := 2 * n
		i %= period
		if i < 0 {
			i += period
		}
		if i >= n {
			i = period - 1 - i
		}
		return i, true
	case AddressClamp:
		if i < 0 {
			return 0, true
		}
		return n - 1, true
	default: // AddressBorder
		return 0, false
	}
}

// fetch reads one texel with addressing applied.
func fetch(tex *Texture2D, samp Sampler2D, x, y int) f32.Vec4 {
	x, okX := resolve(x, tex.Width(), samp.AddressU)
	y, okY := resolve(y, tex.Height(), samp.AddressV)
	if !okX || !okY {
		return f32.Vec4{}
	}
	return tex.TexelRGBA(x, y)
}

func sampleNearest(tex *Texture2D, samp Sampler2D, u, v float32) f32.Vec4 {
	uf := u*float32(tex.Width()) - 0.5
	vf := v*float32(tex.Height()) - 0.5
	return fetch(tex, samp, int(math.Round(uf)), int(math.Round(vf)))
}

func sampleBilinear(tex *Texture2D, samp Sampler2D, u, v float32) f32.Vec4 {
	uf := u*float32(tex.Width()) - 0.5
	vf := v*float32(tex.Height()) - 0.5

	x := int(math.Floor(uf))
	y := int(math.Floor(vf))
	ur := uf - math.Floor(uf)
	vr := vf - math.Floor(vf)

	lb := fetch(tex, samp, x, y)
	rb := fetch(tex, samp, x+1, y)
	lt := fetch(tex, samp, x, y+1)
	rt := fetch(tex, samp, x+1, y+1)

	bottom := f32.Add(f32.Scale(1-ur, lb), f32.Scale(ur, rb))
	top := f32.Add(f32.Scale(1-ur, lt), f32.Scale(ur, rt))
	return f32.Add(f32.Scale(1-vr, bottom), f32.Scale(vr, top))
}

// Sample fetches a filtered texel at the given uv coordinate. A texture
// without storage samples as zero, as do the unimplemented mipmap filter
// modes.
func Sample(tex *Texture2D, samp Sampler2D, uv ms2.Vec) f32.Vec4 {
	if tex == nil || tex.Data() == nil {
		return f32.Vec4{}
	}
	switch samp.Filter {
	case FilterNearest:
		return sampleNearest(tex, samp, uv.X, uv.Y)
	case FilterLinear:
		return sampleBilinear(tex, samp, uv.X, uv.Y)
	default:
		return f32.Vec4{}
	}
}
