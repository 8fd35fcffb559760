package softpipe

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// PrimitiveAssembler groups vertex indices into primitives. With a
// triangle-list topology every index passes through unchanged and the
// rasterizer regroups them in threes, so the stage is one-in-one-out.
// Strip topologies would need to re-emit shared indices and therefore an
// asymmetric mode; they are not supported yet.
type PrimitiveAssembler struct {
	Component

	topology gputypes.PrimitiveTopology
	inIndex  *Value
	outIndex *Value
}

// NewPrimitiveAssembler returns an assembler configured for triangle lists.
func NewPrimitiveAssembler() *PrimitiveAssembler {
	pa := &PrimitiveAssembler{
		Component: newComponent("primitive-assembler"),
		topology:  gputypes.PrimitiveTopologyTriangleList,
	}
	loc, _ := pa.AddPort(Input, "index", TypeUint, SVVertexIndex)
	pa.inIndex = pa.PortValue(Input, loc)
	loc, _ = pa.AddPort(Output, "index", TypeUint, SVVertexIndex)
	pa.outIndex = pa.PortValue(Output, loc)
	return pa
}

// SetTopology selects the primitive topology. Only
// gputypes.PrimitiveTopologyTriangleList is supported.
func (pa *PrimitiveAssembler) SetTopology(t gputypes.PrimitiveTopology) error {
	if t != gputypes.PrimitiveTopologyTriangleList {
		return fmt.Errorf("%s: %w: topology %v", pa.Name(), ErrConfig, t)
	}
	pa.topology = t
	return nil
}

// Topology returns the configured primitive topology.
func (pa *PrimitiveAssembler) Topology() gputypes.PrimitiveTopology {
	return pa.topology
}

// OneInOneOut reports the stage mode.
func (pa *PrimitiveAssembler) OneInOneOut() bool { return true }

// RunOne forwards one vertex index.
func (pa *PrimitiveAssembler) RunOne() error {
	pa.outIndex.SetUint(pa.inIndex.Uint())
	return nil
}

// ConsumeOneInput is not supported in one-in-one-out mode.
func (pa *PrimitiveAssembler) ConsumeOneInput() error { return ErrStageMode }

// HasPendingOutput always reports false.
func (pa *PrimitiveAssembler) HasPendingOutput() bool { return false }

// ProduceOneOutput is not supported in one-in-one-out mode.
func (pa *PrimitiveAssembler) ProduceOneOutput() error { return ErrStageMode }
