package softpipe

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/soypat/glgl/math/ms3"
)

// pushPixel appends one shaded pixel (NDC position + color) to a stream
// shaped like a pixel shader's output.
func pushPixel(t *testing.T, f *FifoStream, pos, col ms3.Vec) {
	t.Helper()
	rec, err := f.Push()
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	p := ValueOf(TypeFloat3, rec.ChannelBytes(0))
	p.SetVec3(pos)
	c := ValueOf(TypeFloat3, rec.ChannelBytes(1))
	c.SetVec3(col)
}

func newPSOutStream(t *testing.T, capacity int) *FifoStream {
	t.Helper()
	var f FifoStream
	if _, err := f.AddChannel(SVPosition, TypeFloat3); err != nil {
		t.Fatal(err)
	}
	if _, err := f.AddChannel(SVTarget, TypeFloat3); err != nil {
		t.Fatal(err)
	}
	f.SetCapacity(capacity)
	return &f
}

func mergePixels(t *testing.T, om *OutputMerger, f *FifoStream) {
	t.Helper()
	var sink FifoStream
	sink.SetCapacity(1)
	if err := runStage(om, f, &sink); err != nil {
		t.Fatalf("runStage: %v", err)
	}
	if !f.Empty() {
		t.Fatalf("merger left %d pixels unconsumed", f.Len())
	}
}

func TestOutputMergerScreenMapping(t *testing.T) {
	om := NewOutputMerger()
	om.Resize(4, 4)

	f := newPSOutStream(t, 4)
	// NDC (0.25, -0.25) is the sample for target pixel (2, 1).
	pushPixel(t, f, ms3.Vec{X: 0.25, Y: -0.25, Z: 0}, ms3.Vec{X: 1, Y: 1, Z: 1})
	mergePixels(t, om, f)

	if got := om.ColorTarget().Float3(2, 1); got != (ms3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("color at (2,1) = %v, want white", got)
	}
	if got := om.DepthTarget().Float(2, 1); got != 0.5 {
		t.Errorf("depth at (2,1) = %v, want 0.5 (z=0 remapped)", got)
	}
	if got := om.ColorTarget().Float3(0, 0); got != (ms3.Vec{}) {
		t.Errorf("untouched pixel written: %v", got)
	}
}

func TestOutputMergerDepthRemapClamps(t *testing.T) {
	om := NewOutputMerger()
	om.Resize(2, 2)

	f := newPSOutStream(t, 2)
	// z below -1 would remap above 1 without the clamp.
	pushPixel(t, f, ms3.Vec{X: -0.5, Y: -0.5, Z: -3}, ms3.Vec{X: 1})
	mergePixels(t, om, f)

	if got := om.DepthTarget().Float(0, 0); got != 1 {
		t.Errorf("depth = %v, want clamp to 1", got)
	}
}

func TestOutputMergerDepthTest(t *testing.T) {
	om := NewOutputMerger()
	om.Resize(2, 2)

	pos := ms3.Vec{X: -0.5, Y: -0.5, Z: 0} // pixel (0, 0), depth 0.5
	near := ms3.Vec{X: -0.5, Y: -0.5, Z: -1}
	far := ms3.Vec{X: -0.5, Y: -0.5, Z: 1}

	f := newPSOutStream(t, 8)
	pushPixel(t, f, pos, ms3.Vec{X: 1})       // red at depth 0.5
	pushPixel(t, f, far, ms3.Vec{Y: 1})       // green at depth 0: fails
	pushPixel(t, f, near, ms3.Vec{Z: 1})      // blue at depth 1: passes
	pushPixel(t, f, pos, ms3.Vec{X: 1, Y: 1}) // yellow at 0.5 again: fails
	mergePixels(t, om, f)

	if got := om.ColorTarget().Float3(0, 0); got != (ms3.Vec{Z: 1}) {
		t.Errorf("color after depth contest = %v, want blue", got)
	}
	if got := om.DepthTarget().Float(0, 0); got != 1 {
		t.Errorf("depth after contest = %v, want max remapped 1", got)
	}
}

func TestOutputMergerCompareFunctions(t *testing.T) {
	cases := []struct {
		cmp  gputypes.CompareFunction
		pass bool
	}{
		{gputypes.CompareFunctionNever, false},
		{gputypes.CompareFunctionAlways, true},
		{gputypes.CompareFunctionLess, false},    // 0.5 < 0 is false
		{gputypes.CompareFunctionGreater, true},  // 0.5 > 0
		{gputypes.CompareFunctionNotEqual, true}, // 0.5 != 0
	}
	for _, tc := range cases {
		om := NewOutputMerger()
		om.Resize(2, 2)
		om.SetDepthCompare(tc.cmp)

		f := newPSOutStream(t, 1)
		pushPixel(t, f, ms3.Vec{X: -0.5, Y: -0.5, Z: 0}, ms3.Vec{X: 1})
		mergePixels(t, om, f)

		wrote := om.ColorTarget().Float3(0, 0) == ms3.Vec{X: 1}
		if wrote != tc.pass {
			t.Errorf("compare %v: wrote=%v, want %v", tc.cmp, wrote, tc.pass)
		}
	}
}

func TestOutputMergerClearValues(t *testing.T) {
	om := NewOutputMerger()
	om.Resize(2, 2)
	om.SetClearValue(gputypes.Color{R: 0.5, G: 0.25, B: 1}, 0.75)
	om.Clear()

	if got := om.ColorTarget().Float3(1, 1); got != (ms3.Vec{X: 0.5, Y: 0.25, Z: 1}) {
		t.Errorf("cleared color = %v", got)
	}
	if got := om.DepthTarget().Float(0, 1); got != 0.75 {
		t.Errorf("cleared depth = %v", got)
	}
}

func TestOutputMergerDiscardsOffTarget(t *testing.T) {
	om := NewOutputMerger()
	om.Resize(2, 2)

	f := newPSOutStream(t, 1)
	// NDC x = 1 rounds to the column just past the target; the sample must
	// be discarded, not wrapped or crash.
	pushPixel(t, f, ms3.Vec{X: 1, Y: 0, Z: 0}, ms3.Vec{X: 1})
	mergePixels(t, om, f)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := om.ColorTarget().Float3(x, y); got != (ms3.Vec{}) {
				t.Errorf("off-target sample written at (%d,%d): %v", x, y, got)
			}
		}
	}
}
