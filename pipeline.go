package softpipe

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/softpipe/texture"
)

// DefaultStreamCapacity is the default record capacity of the intermediate
// FIFO streams between the primitive assembler, rasterizer, pixel shader
// and output merger.
const DefaultStreamCapacity = 1 << 20

// Pipeline wires the six stages together and drives a draw call to
// completion. Configuration (buffers, programs, target size) is applied
// through setters; DrawIndexed validates it, builds the inter-stage stream
// schemas from the stages' ports, and runs the drain loop.
type Pipeline struct {
	ia   InputAssembler
	pa   *PrimitiveAssembler
	vs   *ShaderProcessor
	ps   *ShaderProcessor
	rast *Rasterizer
	om   *OutputMerger

	vsIn VertexStream
	paIn IndexStream

	vsOut FifoStream
	paOut FifoStream
	psIn  FifoStream
	psOut FifoStream
	sink  FifoStream

	streamCap int
}

// New returns a pipeline with a 1024x768 target and default stream
// capacities. Programs and buffers must be bound before drawing.
func New() *Pipeline {
	p := &Pipeline{
		pa:        NewPrimitiveAssembler(),
		vs:        NewShaderProcessor("vertex-shader"),
		ps:        NewShaderProcessor("pixel-shader"),
		rast:      NewRasterizer(),
		om:        NewOutputMerger(),
		streamCap: DefaultStreamCapacity,
	}
	p.rast.Resize(1024, 768)
	p.om.Resize(1024, 768)
	return p
}

// SetVertexBufferChannel binds one vertex attribute channel: the semantic
// it carries, the host buffer, a byte offset of the first element and the
// stride between consecutive elements.
func (p *Pipeline) SetVertexBufferChannel(sem Semantic, data []byte, offset, stride int) {
	p.ia.SetVertexBufferChannel(sem, data, offset, stride)
}

// SetVertexBufferLength sets the vertex count of the bound channels.
func (p *Pipeline) SetVertexBufferLength(n int) {
	p.ia.SetVertexBufferLength(n)
}

// SetIndexBuffer binds the index buffer. Indices are little-endian unsigned
// 32-bit values when stride is 4.
func (p *Pipeline) SetIndexBuffer(data []byte, offset, stride, length int) {
	p.ia.SetIndexBuffer(data, offset, stride, length)
}

// SetVSProgram attaches the vertex program.
func (p *Pipeline) SetVSProgram(prog *Program) error {
	return p.vs.Attach(prog)
}

// SetPSProgram attaches the pixel program.
func (p *Pipeline) SetPSProgram(prog *Program) error {
	return p.ps.Attach(prog)
}

// SetTargetSize resizes the render targets and the rasterizer sample grid.
func (p *Pipeline) SetTargetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: target size %dx%d", ErrConfig, width, height)
	}
	p.rast.Resize(width, height)
	p.om.Resize(width, height)
	return nil
}

// SetTopology selects the primitive topology for the assembler.
func (p *Pipeline) SetTopology(t gputypes.PrimitiveTopology) error {
	return p.pa.SetTopology(t)
}

// SetDepthCompare selects the output merger's depth test comparison.
func (p *Pipeline) SetDepthCompare(cmp gputypes.CompareFunction) {
	p.om.SetDepthCompare(cmp)
}

// SetClearValue sets the color and depth used by Clear.
func (p *Pipeline) SetClearValue(c gputypes.Color, depth float32) {
	p.om.SetClearValue(c, depth)
}

// SetStreamCapacity overrides the capacity of the intermediate streams.
// Smaller capacities exercise back-pressure harder; the result of a draw
// does not depend on the value.
func (p *Pipeline) SetStreamCapacity(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: stream capacity %d", ErrConfig, n)
	}
	p.streamCap = n
	return nil
}

// Clear resets the render targets to the clear values.
func (p *Pipeline) Clear() {
	p.om.Clear()
}

// ColorTarget returns the color render target.
func (p *Pipeline) ColorTarget() *texture.Texture2D {
	return p.om.ColorTarget()
}

// DepthTarget returns the depth render target.
func (p *Pipeline) DepthTarget() *texture.Texture2D {
	return p.om.DepthTarget()
}

// initStream rebuilds a FIFO's channel schema from one port direction of a
// component.
func initStream(f *FifoStream, c *Component, dir PortDir) error {
	f.ResetChannels()
	for loc := 0; loc < c.NumPorts(dir); loc++ {
		if _, err := f.AddChannel(c.PortSemantic(dir, loc), c.PortType(dir, loc)); err != nil {
			return fmt.Errorf("%s %s stream: %w", c.Name(), dir, err)
		}
	}
	return nil
}

// setupComponents builds the stream wiring for one draw:
//
//	[VB adapter] -> vsIn  -> [vertex shader]      -> vsOut
//	[IB adapter] -> paIn  -> [primitive assembler] -> paOut
//	paOut -> [rasterizer] -> psIn -> [pixel shader] -> psOut -> [output merger]
func (p *Pipeline) setupComponents(start, count int) error {
	if p.vs.Program() == nil {
		return fmt.Errorf("%w: no vertex program bound", ErrConfig)
	}
	if p.ps.Program() == nil {
		return fmt.Errorf("%w: no pixel program bound", ErrConfig)
	}

	p.ia.SetupVertexStream(&p.vsIn)
	p.ia.SetupIndexStreamRange(&p.paIn, start, count)

	if err := initStream(&p.vsOut, &p.vs.Component, Output); err != nil {
		return err
	}
	p.vsOut.SetCapacity(p.vsIn.Len())

	if err := initStream(&p.paOut, &p.pa.Component, Output); err != nil {
		return err
	}
	p.paOut.SetCapacity(p.streamCap)

	if err := initStream(&p.psIn, &p.ps.Component, Input); err != nil {
		return err
	}
	p.psIn.SetCapacity(p.streamCap)

	if err := initStream(&p.psOut, &p.ps.Component, Output); err != nil {
		return err
	}
	p.psOut.SetCapacity(p.streamCap)

	p.sink.ResetChannels()
	p.sink.SetCapacity(1)
	return nil
}

// DrawIndexed draws every index in the bound index buffer.
func (p *Pipeline) DrawIndexed() error {
	return p.draw(0, p.ia.indexLen)
}

// DrawIndexedRange draws count indices starting at start.
func (p *Pipeline) DrawIndexedRange(start, count int) error {
	if start < 0 || count < 0 || start+count > p.ia.indexLen {
		return fmt.Errorf("%w: index range [%d, %d) of %d", ErrConfig, start, start+count, p.ia.indexLen)
	}
	return p.draw(start, count)
}

func (p *Pipeline) draw(start, count int) error {
	if err := p.setupComponents(start, count); err != nil {
		return err
	}

	// The vertex shader is one-in-one-out and its output stream holds the
	// whole vertex count, so a single pass drains the vertex stream.
	if err := runStage(p.vs, &p.vsIn, &p.vsOut); err != nil {
		return err
	}
	if !p.vsIn.Empty() {
		return fmt.Errorf("%s: %w: vertex stream not drained", p.vs.Name(), ErrStreamOverflow)
	}

	if err := p.rast.BindVSOutput(&p.vsOut); err != nil {
		return err
	}
	if err := p.rast.AdjustOutputPorts(&p.ps.Component); err != nil {
		return err
	}

	// Drain loop: run every stage until no stage holds pending output and
	// all intermediate streams are empty. Each iteration consumes at least
	// one record from a non-empty stream or shrinks some pending set, so
	// the loop terminates.
	for p.pa.HasPendingOutput() ||
		p.rast.HasPendingOutput() ||
		p.ps.HasPendingOutput() ||
		p.om.HasPendingOutput() ||
		!p.paIn.Empty() || !p.paOut.Empty() || !p.psIn.Empty() || !p.psOut.Empty() {

		if err := runStage(p.pa, &p.paIn, &p.paOut); err != nil {
			return err
		}
		if err := runStage(p.rast, &p.paOut, &p.psIn); err != nil {
			return err
		}
		if err := runStage(p.ps, &p.psIn, &p.psOut); err != nil {
			return err
		}
		if err := runStage(p.om, &p.psOut, &p.sink); err != nil {
			return err
		}
	}

	m := p.Metrics()
	Logger().Debug("draw complete",
		"indices", count,
		"vertices", m.VertexShader.Consumed,
		"pixels", m.OutputMerger.Consumed)
	return nil
}

// Present writes the render targets to fb_color.bmp and fb_depth.bmp.
func (p *Pipeline) Present() error {
	return p.om.PresentToBMP()
}

// StageMetrics is one stage's record counters.
type StageMetrics struct {
	Consumed uint64
	Produced uint64
}

// Metrics is a read-only snapshot of all stage counters. Counters
// accumulate across draws.
type Metrics struct {
	VertexShader       StageMetrics
	PrimitiveAssembler StageMetrics
	Rasterizer         StageMetrics
	PixelShader        StageMetrics
	OutputMerger       StageMetrics
}

// Metrics returns the current stage counters.
func (p *Pipeline) Metrics() Metrics {
	snap := func(c *Component) StageMetrics {
		return StageMetrics{Consumed: c.Consumed(), Produced: c.Produced()}
	}
	return Metrics{
		VertexShader:       snap(&p.vs.Component),
		PrimitiveAssembler: snap(&p.pa.Component),
		Rasterizer:         snap(&p.rast.Component),
		PixelShader:        snap(&p.ps.Component),
		OutputMerger:       snap(&p.om.Component),
	}
}
