package softpipe

import (
	math "github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"github.com/soypat/glgl/math/ms3"

	"github.com/gogpu/softpipe/texture"
)

// OutputMerger is the pipeline sink: it consumes shaded pixels, performs
// the early depth test and updates the color and depth targets. NDC z is
// remapped to depth d = -(z-1)/2, clamped to [0, 1], so larger depth values
// are closer; the default comparison keeps the greater value.
//
// Mode: asymmetric with no pending output ever.
type OutputMerger struct {
	Component

	width  int
	height int

	color *texture.Texture2D
	depth *texture.Texture2D

	inPos   *Value
	inColor *Value

	depthCompare gputypes.CompareFunction
	clearColor   gputypes.Color
	clearDepth   float32
}

// NewOutputMerger returns a merger with no targets; Resize allocates them.
func NewOutputMerger() *OutputMerger {
	om := &OutputMerger{
		Component:    newComponent("output-merger"),
		depthCompare: gputypes.CompareFunctionGreater,
	}
	loc, _ := om.AddPort(Input, "position", TypeFloat3, SVPosition)
	om.inPos = om.PortValue(Input, loc)
	loc, _ = om.AddPort(Input, "color", TypeFloat3, SVTarget)
	om.inColor = om.PortValue(Input, loc)
	return om
}

// Resize allocates color and depth targets for the new dimensions and
// clears them.
func (om *OutputMerger) Resize(width, height int) {
	if om.width == width && om.height == height && om.color != nil {
		return
	}
	om.width = width
	om.height = height
	om.color = texture.New(texture.FormatR32G32B32Float, width, height)
	om.depth = texture.New(texture.FormatD32Float, width, height)
	om.Clear()
}

// Width returns the target width.
func (om *OutputMerger) Width() int { return om.width }

// Height returns the target height.
func (om *OutputMerger) Height() int { return om.height }

// ColorTarget returns the color render target.
func (om *OutputMerger) ColorTarget() *texture.Texture2D { return om.color }

// DepthTarget returns the depth render target.
func (om *OutputMerger) DepthTarget() *texture.Texture2D { return om.depth }

// SetDepthCompare selects the depth test comparison. The default,
// gputypes.CompareFunctionGreater, matches the depth remap where 1 is near.
func (om *OutputMerger) SetDepthCompare(cmp gputypes.CompareFunction) {
	om.depthCompare = cmp
}

// SetClearValue sets the color and depth the targets are cleared to.
func (om *OutputMerger) SetClearValue(c gputypes.Color, depth float32) {
	om.clearColor = c
	om.clearDepth = depth
}

// Clear resets both targets to the clear values.
func (om *OutputMerger) Clear() {
	if om.color == nil {
		return
	}
	om.color.FillFloat3(ms3.Vec{
		X: float32(om.clearColor.R),
		Y: float32(om.clearColor.G),
		Z: float32(om.clearColor.B),
	})
	om.depth.FillFloat(om.clearDepth)
}

func (om *OutputMerger) depthPasses(d, stored float32) bool {
	switch om.depthCompare {
	case gputypes.CompareFunctionNever:
		return false
	case gputypes.CompareFunctionLess:
		return d < stored
	case gputypes.CompareFunctionEqual:
		return d == stored
	case gputypes.CompareFunctionLessEqual:
		return d <= stored
	case gputypes.CompareFunctionGreater:
		return d > stored
	case gputypes.CompareFunctionNotEqual:
		return d != stored
	case gputypes.CompareFunctionGreaterEqual:
		return d >= stored
	case gputypes.CompareFunctionAlways:
		return true
	default:
		return false
	}
}

// OneInOneOut reports the stage mode.
func (om *OutputMerger) OneInOneOut() bool { return false }

// RunOne is not supported in asymmetric mode.
func (om *OutputMerger) RunOne() error { return ErrStageMode }

// ConsumeOneInput maps one shaded pixel to the target grid, runs the depth
// test and, on pass, stores depth and color. Samples that land outside the
// targets are discarded.
func (om *OutputMerger) ConsumeOneInput() error {
	pos := om.inPos.Vec3()
	col := om.inColor.Vec3()

	// Sample coordinates sit on the odd grid of the doubled resolution, so
	// the rounded values are odd and the halving below cannot alias two
	// samples onto one pixel.
	sx := (int(math.Round(pos.X*float32(om.width))) + om.width) / 2
	sy := (int(math.Round(pos.Y*float32(om.height))) + om.height) / 2
	if sx < 0 || sx >= om.width || sy < 0 || sy >= om.height {
		Logger().Warn("sample outside target discarded", "x", sx, "y", sy)
		return nil
	}

	// Map z in [-1, 1] to depth in [1, 0] reversed: 1 is near.
	d := -(pos.Z - 1) / 2
	d = math.Max(0, math.Min(1, d))

	if om.depthPasses(d, om.depth.Float(sx, sy)) {
		om.depth.SetFloat(sx, sy, d)
		om.color.SetFloat3(sx, sy, col)
	}
	return nil
}

// HasPendingOutput always reports false: the merger is a sink.
func (om *OutputMerger) HasPendingOutput() bool { return false }

// ProduceOneOutput is never valid on a sink.
func (om *OutputMerger) ProduceOneOutput() error { return ErrStageMode }

// PresentToBMP writes the color and depth targets to fb_color.bmp and
// fb_depth.bmp in the working directory.
func (om *OutputMerger) PresentToBMP() error {
	if err := texture.SaveBMP("fb_color.bmp", om.color); err != nil {
		return err
	}
	return texture.SaveBMP("fb_depth.bmp", om.depth)
}
