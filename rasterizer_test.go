package softpipe

import (
	"errors"
	"testing"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"

	"github.com/gogpu/softpipe/f32"
)

// newVSOutStream builds a vertex-shader output stream carrying clip-space
// positions (and optionally colors) for the given vertices.
func newVSOutStream(t *testing.T, positions []f32.Vec4, colors [][3]float32) *FifoStream {
	t.Helper()
	var f FifoStream
	if _, err := f.AddChannel(SVPosition, TypeFloat4); err != nil {
		t.Fatal(err)
	}
	if colors != nil {
		if _, err := f.AddChannel(Color0, TypeFloat3); err != nil {
			t.Fatal(err)
		}
	}
	f.SetCapacity(len(positions))
	for i, p := range positions {
		rec, err := f.Push()
		if err != nil {
			t.Fatal(err)
		}
		pos := ValueOf(TypeFloat4, rec.ChannelBytes(0))
		pos.SetVec4(p)
		if colors != nil {
			col := ValueOf(TypeFloat3, rec.ChannelBytes(1))
			col.SetVec3(ms3.Vec{X: colors[i][0], Y: colors[i][1], Z: colors[i][2]})
		}
	}
	return &f
}

func TestBindVSOutputPerspectiveDivide(t *testing.T) {
	f := newVSOutStream(t, []f32.Vec4{
		{X: 2, Y: 4, Z: 6, W: 2},
		{X: 1, Y: 1, Z: 1, W: 1},
	}, nil)

	r := NewRasterizer()
	r.Resize(4, 4)
	if err := r.BindVSOutput(f); err != nil {
		t.Fatalf("BindVSOutput: %v", err)
	}

	buf := NewStreamBuffer(f)
	field0 := buf.At(0).Field(0)
	got := field0.Vec4()
	want := f32.Vec4{X: 1, Y: 2, Z: 3, W: 2}
	if got != want {
		t.Errorf("divided position = %v, want %v", got, want)
	}

	// Pre-divided input (w = 1) is unchanged.
	field1 := buf.At(1).Field(0)
	got = field1.Vec4()
	want = f32.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	if got != want {
		t.Errorf("w=1 position changed: %v", got)
	}
}

func TestBindVSOutputMissingPosition(t *testing.T) {
	var f FifoStream
	f.AddChannel(Color0, TypeFloat3)
	f.SetCapacity(1)

	r := NewRasterizer()
	if err := r.BindVSOutput(&f); !errors.Is(err, ErrConfig) {
		t.Errorf("BindVSOutput without SV_Position = %v, want ErrConfig", err)
	}
}

func TestBindVSOutputWrongPositionType(t *testing.T) {
	var f FifoStream
	f.AddChannel(SVPosition, TypeFloat3)
	f.SetCapacity(1)

	r := NewRasterizer()
	if err := r.BindVSOutput(&f); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("BindVSOutput with float3 position = %v, want ErrTypeMismatch", err)
	}
}

func TestAdjustOutputPortsMirror(t *testing.T) {
	next := newComponent("pixel-shader")
	next.AddPort(Input, "posClip", TypeFloat4, SVPosition)
	next.AddPort(Input, "color", TypeFloat3, Color0)
	next.AddPort(Input, "uv", TypeFloat2, Texcoord0)

	r := NewRasterizer()
	if err := r.AdjustOutputPorts(&next); err != nil {
		t.Fatalf("AdjustOutputPorts: %v", err)
	}

	if r.NumPorts(Output) != next.NumPorts(Input) {
		t.Fatalf("output ports = %d, want %d", r.NumPorts(Output), next.NumPorts(Input))
	}
	for i := 0; i < next.NumPorts(Input); i++ {
		if r.PortName(Output, i) != next.PortName(Input, i) ||
			r.PortType(Output, i) != next.PortType(Input, i) ||
			r.PortSemantic(Output, i) != next.PortSemantic(Input, i) {
			t.Errorf("port %d mismatch: %q/%s/%s vs %q/%s/%s", i,
				r.PortName(Output, i), r.PortType(Output, i), r.PortSemantic(Output, i),
				next.PortName(Input, i), next.PortType(Input, i), next.PortSemantic(Input, i))
		}
	}

	// Re-adjusting replaces, not appends.
	if err := r.AdjustOutputPorts(&next); err != nil {
		t.Fatalf("second AdjustOutputPorts: %v", err)
	}
	if r.NumPorts(Output) != next.NumPorts(Input) {
		t.Errorf("re-adjust accumulated ports: %d", r.NumPorts(Output))
	}
}

// rasterizeTriangleIndices drives the rasterizer over one triangle and
// returns its pixel-shader input stream.
func rasterizeTriangleIndices(t *testing.T, r *Rasterizer, vsOut *FifoStream) *FifoStream {
	t.Helper()

	next := newComponent("pixel-shader")
	next.AddPort(Input, "posClip", TypeFloat4, SVPosition)
	if vsOut.ChannelIndex(Color0) != vsOut.NumChannels() {
		next.AddPort(Input, "color", TypeFloat3, Color0)
	}
	if err := r.AdjustOutputPorts(&next); err != nil {
		t.Fatal(err)
	}

	indices := newUintStream(t, 3)
	pushUint(t, indices, 0)
	pushUint(t, indices, 1)
	pushUint(t, indices, 2)

	var psIn FifoStream
	if err := initStream(&psIn, &next, Input); err != nil {
		t.Fatal(err)
	}
	psIn.SetCapacity(1 << 12)

	for !indices.Empty() || r.HasPendingOutput() {
		if err := runStage(r, indices, &psIn); err != nil {
			t.Fatalf("runStage: %v", err)
		}
	}
	return &psIn
}

func TestRasterizerSingleTriangle(t *testing.T) {
	// Identity-transform triangle covering the lower half of the viewport.
	f := newVSOutStream(t, []f32.Vec4{
		{X: -1, Y: -1, Z: 0, W: 1},
		{X: 1, Y: -1, Z: 0, W: 1},
		{X: 0, Y: 1, Z: 0, W: 1},
	}, nil)

	r := NewRasterizer()
	r.Resize(4, 4)
	if err := r.BindVSOutput(f); err != nil {
		t.Fatal(err)
	}

	psIn := rasterizeTriangleIndices(t, r, f)

	// The 4x4 target has samples at NDC (odd/4, odd/4); 8 of the 16 fall
	// strictly inside this triangle.
	if psIn.Len() != 8 {
		t.Fatalf("pixel count = %d, want 8", psIn.Len())
	}

	// Every emitted position must be inside the NDC viewport and carry the
	// interpolated z = 0.
	for !psIn.Empty() {
		rec, _ := psIn.Front()
		posVal := ValueOf(TypeFloat4, rec.ChannelBytes(0))
		pos := posVal.Vec4()
		if pos.X < -1 || pos.X > 1 || pos.Y < -1 || pos.Y > 1 {
			t.Errorf("pixel position outside NDC: %v", pos)
		}
		if math.Abs(pos.Z) > 1e-6 {
			t.Errorf("pixel z = %v, want 0", pos.Z)
		}
		psIn.Pop()
	}
}

func TestRasterizerInterpolatesAttributes(t *testing.T) {
	// Red, green, blue corners: every interior pixel's color channels sum
	// to ~1 because the barycentric weights do.
	f := newVSOutStream(t, []f32.Vec4{
		{X: -1, Y: -1, Z: 0, W: 1},
		{X: 1, Y: -1, Z: 0, W: 1},
		{X: 0, Y: 1, Z: 0, W: 1},
	}, [][3]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	})

	r := NewRasterizer()
	r.Resize(16, 16)
	if err := r.BindVSOutput(f); err != nil {
		t.Fatal(err)
	}

	psIn := rasterizeTriangleIndices(t, r, f)
	if psIn.Empty() {
		t.Fatal("no pixels emitted")
	}
	for !psIn.Empty() {
		rec, _ := psIn.Front()
		colVal := ValueOf(TypeFloat3, rec.ChannelBytes(1))
		col := colVal.Vec3()
		sum := col.X + col.Y + col.Z
		if math.Abs(sum-1) > 1e-4 {
			t.Errorf("interpolated color sums to %v, want 1", sum)
		}
		if col.X <= 0 || col.Y <= 0 || col.Z <= 0 {
			t.Errorf("interior color has non-positive channel: %v", col)
		}
		psIn.Pop()
	}
}

func TestRasterizerZeroFillsMissingAttributes(t *testing.T) {
	f := newVSOutStream(t, []f32.Vec4{
		{X: -1, Y: -1, Z: 0, W: 1},
		{X: 1, Y: -1, Z: 0, W: 1},
		{X: 0, Y: 1, Z: 0, W: 1},
	}, nil)

	r := NewRasterizer()
	r.Resize(4, 4)
	if err := r.BindVSOutput(f); err != nil {
		t.Fatal(err)
	}

	// The downstream stage wants a Texcoord0 the vertex stage never emits.
	next := newComponent("pixel-shader")
	next.AddPort(Input, "posClip", TypeFloat4, SVPosition)
	next.AddPort(Input, "uv", TypeFloat2, Texcoord0)
	if err := r.AdjustOutputPorts(&next); err != nil {
		t.Fatal(err)
	}

	indices := newUintStream(t, 3)
	pushUint(t, indices, 0)
	pushUint(t, indices, 1)
	pushUint(t, indices, 2)

	var psIn FifoStream
	if err := initStream(&psIn, &next, Input); err != nil {
		t.Fatal(err)
	}
	psIn.SetCapacity(64)
	for !indices.Empty() || r.HasPendingOutput() {
		if err := runStage(r, indices, &psIn); err != nil {
			t.Fatalf("runStage: %v", err)
		}
	}

	if psIn.Empty() {
		t.Fatal("no pixels emitted")
	}
	for !psIn.Empty() {
		rec, _ := psIn.Front()
		uvVal := ValueOf(TypeFloat2, rec.ChannelBytes(1))
		uv := uvVal.Vec2()
		if uv.X != 0 || uv.Y != 0 {
			t.Errorf("missing attribute interpolated to %v, want zero", uv)
		}
		psIn.Pop()
	}
}

func TestRasterizerCulledTriangleEmitsNothing(t *testing.T) {
	// Entirely left of the viewport; the clamped bounding box is empty.
	f := newVSOutStream(t, []f32.Vec4{
		{X: -5, Y: -1, Z: 0, W: 1},
		{X: -3, Y: -1, Z: 0, W: 1},
		{X: -4, Y: 1, Z: 0, W: 1},
	}, nil)

	r := NewRasterizer()
	r.Resize(4, 4)
	if err := r.BindVSOutput(f); err != nil {
		t.Fatal(err)
	}
	psIn := rasterizeTriangleIndices(t, r, f)
	if psIn.Len() != 0 {
		t.Errorf("off-screen triangle emitted %d pixels", psIn.Len())
	}
}

func TestRasterizerIndexOutOfRange(t *testing.T) {
	f := newVSOutStream(t, []f32.Vec4{
		{X: 0, Y: 0, Z: 0, W: 1},
	}, nil)

	r := NewRasterizer()
	r.Resize(4, 4)
	if err := r.BindVSOutput(f); err != nil {
		t.Fatal(err)
	}
	next := newComponent("pixel-shader")
	next.AddPort(Input, "posClip", TypeFloat4, SVPosition)
	r.AdjustOutputPorts(&next)

	indices := newUintStream(t, 3)
	pushUint(t, indices, 0)
	pushUint(t, indices, 0)
	pushUint(t, indices, 7)

	var psIn FifoStream
	initStream(&psIn, &next, Input)
	psIn.SetCapacity(16)

	err := runStage(r, indices, &psIn)
	if !errors.Is(err, ErrConfig) {
		t.Errorf("out-of-range index err = %v, want ErrConfig", err)
	}
}
