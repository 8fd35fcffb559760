package softpipe

import (
	"fmt"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"

	"github.com/gogpu/softpipe/internal/geom"
)

// Rasterizer turns triangles into pixel records. It consumes vertex indices
// from the primitive assembler, fetches the corresponding post-vertex-shader
// records from a StreamBuffer view, walks the covered samples, and emits one
// record per interior sample with every attribute interpolated from the
// triangle's barycentric weights.
//
// The rasterizer's output ports are not fixed: AdjustOutputPorts rebuilds
// them as a copy of the downstream pixel program's input ports, which is
// what allows interpolation of arbitrary attribute schemas.
//
// Mode: asymmetric. Indices are accumulated three at a time; the pixels of
// the current triangle are drained before the next triangle is accepted.
type Rasterizer struct {
	Component

	width  int
	height int

	vsOut      StreamBuffer
	posChannel int

	inVtxIdx *Value

	triIndices [3]uint32
	triCount   int
	tri        geom.Triangle
	pending    []ms2.Vec
	processed  int
}

// NewRasterizer returns a rasterizer with a 1x1 target.
func NewRasterizer() *Rasterizer {
	r := &Rasterizer{
		Component: newComponent("rasterizer"),
		width:     1,
		height:    1,
	}
	loc, _ := r.AddPort(Input, "vtx_index", TypeUint, SVVertexIndex)
	r.inVtxIdx = r.PortValue(Input, loc)
	return r
}

// Resize sets the target dimensions the sample grid maps onto.
func (r *Rasterizer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the target width.
func (r *Rasterizer) Width() int { return r.width }

// Height returns the target height.
func (r *Rasterizer) Height() int { return r.height }

// BindVSOutput takes a buffer view over the vertex shader's output stream
// and applies the perspective divide to every vertex position in place:
// x, y and z are divided by w, w is left unchanged. The stream must carry
// an SV_Position channel of type float4.
func (r *Rasterizer) BindVSOutput(f *FifoStream) error {
	buf := NewStreamBuffer(f)
	layout := buf.Layout()

	ch := layout.FieldIndex(SVPosition)
	if ch == layout.NumFields() {
		return fmt.Errorf("%s: %w: vertex shader output lacks SV_Position", r.Name(), ErrConfig)
	}
	if layout.FieldType(ch) != TypeFloat4 {
		return fmt.Errorf("%s: %w: SV_Position is %s, want float4",
			r.Name(), ErrTypeMismatch, layout.FieldType(ch))
	}

	r.vsOut = buf
	r.posChannel = ch
	r.triCount = 0
	r.pending = nil
	r.processed = 0

	for i := 0; i < buf.Len(); i++ {
		v := buf.At(i).Field(ch)
		pos := v.Vec4()
		pos.X /= pos.W
		pos.Y /= pos.W
		pos.Z /= pos.W
		v.SetVec4(pos)
	}
	return nil
}

// AdjustOutputPorts replaces the rasterizer's output ports with a copy of
// next's input ports, in order, so that downstream records receive exactly
// the attributes the next stage declares.
func (r *Rasterizer) AdjustOutputPorts(next *Component) error {
	r.ClearPorts(Output)
	for loc := 0; loc < next.NumPorts(Input); loc++ {
		_, err := r.AddPort(Output,
			next.PortName(Input, loc),
			next.PortType(Input, loc),
			next.PortSemantic(Input, loc))
		if err != nil {
			return err
		}
	}
	return nil
}

// rasterize walks the sample grid covered by the triangle va/vb/vc (in NDC,
// after perspective divide) and returns the interior samples in row-major
// order. Samples sit on the odd integer grid of the doubled target
// resolution, so each maps to the center of one target pixel.
func (r *Rasterizer) rasterize(va, vb, vc ms2.Vec) []ms2.Vec {
	r.tri = geom.NewTriangle(va, vb, vc)

	w := float32(r.width)
	h := float32(r.height)

	// Viewport-box culling: clamp the NDC bounding box to [-1, 1]^2.
	clampNDC := func(v float32) float32 { return math.Max(-1, math.Min(1, v)) }
	lo := ms2.MinElem(va, ms2.MinElem(vb, vc))
	hi := ms2.MaxElem(va, ms2.MaxElem(vb, vc))
	box := ms2.Box{
		Min: ms2.Vec{X: clampNDC(lo.X), Y: clampNDC(lo.Y)},
		Max: ms2.Vec{X: clampNDC(hi.X), Y: clampNDC(hi.Y)},
	}

	xmin := int(math.Floor(box.Min.X * w))
	xmax := int(math.Ceil(box.Max.X * w))
	ymin := int(math.Floor(box.Min.Y * h))
	ymax := int(math.Ceil(box.Max.Y * h))

	var pixels []ms2.Vec
	for y := geom.FloorDiv(ymin, 2)*2 + 1; y < ymax; y += 2 {
		for x := geom.FloorDiv(xmin, 2)*2 + 1; x < xmax; x += 2 {
			p := ms2.Vec{X: float32(x) / w, Y: float32(y) / h}
			if r.tri.Contains(p) {
				pixels = append(pixels, p)
			}
		}
	}
	return pixels
}

// OneInOneOut reports the stage mode.
func (r *Rasterizer) OneInOneOut() bool { return false }

// RunOne is not supported in asymmetric mode.
func (r *Rasterizer) RunOne() error { return ErrStageMode }

// ConsumeOneInput accumulates one vertex index. The third index of a
// triangle triggers setup and the pixel walk; the driver's back-pressure
// guarantees no pixels of a previous triangle are still pending.
func (r *Rasterizer) ConsumeOneInput() error {
	r.triIndices[r.triCount] = r.inVtxIdx.Uint()
	r.triCount++
	if r.triCount < 3 {
		return nil
	}
	r.triCount = 0

	if r.HasPendingOutput() {
		return fmt.Errorf("%w: triangle accepted with pixels pending", ErrStageMode)
	}
	for _, idx := range r.triIndices {
		if int(idx) >= r.vsOut.Len() {
			return fmt.Errorf("%w: vertex index %d beyond vertex count %d",
				ErrConfig, idx, r.vsOut.Len())
		}
	}

	vaField := r.vsOut.At(int(r.triIndices[0])).Field(r.posChannel)
	vbField := r.vsOut.At(int(r.triIndices[1])).Field(r.posChannel)
	vcField := r.vsOut.At(int(r.triIndices[2])).Field(r.posChannel)
	va := vaField.Vec4()
	vb := vbField.Vec4()
	vc := vcField.Vec4()

	r.pending = r.rasterize(
		ms2.Vec{X: va.X, Y: va.Y},
		ms2.Vec{X: vb.X, Y: vb.Y},
		ms2.Vec{X: vc.X, Y: vc.Y},
	)
	r.processed = 0
	return nil
}

// HasPendingOutput reports whether pixels of the current triangle remain
// unemitted.
func (r *Rasterizer) HasPendingOutput() bool {
	return r.processed < len(r.pending)
}

// ProduceOneOutput emits the next pending pixel: every output port is
// filled by barycentric interpolation of the matching vertex attribute.
// The position flows through here like any other attribute, via the
// SV_Position output port. Output ports whose semantic the vertex shader
// does not emit are zero-filled.
func (r *Rasterizer) ProduceOneOutput() error {
	pixel := r.pending[r.processed]
	r.processed++

	bc := r.tri.Barycentric(pixel)
	layout := r.vsOut.Layout()

	ea := r.vsOut.At(int(r.triIndices[0]))
	eb := r.vsOut.At(int(r.triIndices[1]))
	ec := r.vsOut.At(int(r.triIndices[2]))

	for loc := 0; loc < r.NumPorts(Output); loc++ {
		out := r.PortValue(Output, loc)
		ch := layout.FieldIndex(r.PortSemantic(Output, loc))
		if ch == layout.NumFields() {
			out.Zero()
			continue
		}
		if layout.FieldType(ch) != r.PortType(Output, loc) {
			return fmt.Errorf("%w: attribute %s is %s upstream, %s downstream",
				ErrTypeMismatch, r.PortSemantic(Output, loc), layout.FieldType(ch), r.PortType(Output, loc))
		}

		av := ea.Field(ch)
		bv := eb.Field(ch)
		cv := ec.Field(ch)
		if err := Interpolate3(out, &av, bc.U, &bv, bc.V, &cv, bc.W); err != nil {
			return err
		}
	}
	return nil
}
