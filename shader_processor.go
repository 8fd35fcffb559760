package softpipe

import "fmt"

// ShaderProcessor wraps a Program as a pipeline stage. Attaching a program
// rebuilds the processor's ports from the program's input and output symbol
// sections, so the stage's schema always mirrors the program's.
//
// Mode: one-in-one-out. Each invocation copies the bound input record into
// the program's input storage, runs the entry function, and copies the
// program's output storage into the bound output record.
type ShaderProcessor struct {
	Component

	prog      *Program
	shaderIn  []*Value
	shaderOut []*Value
}

// NewShaderProcessor returns a processor with no attached program. The name
// identifies the stage in errors ("vertex-shader", "pixel-shader").
func NewShaderProcessor(name string) *ShaderProcessor {
	return &ShaderProcessor{Component: newComponent(name)}
}

// Attach binds a program, replacing all existing ports with ports mirroring
// the program's input and output symbols.
func (sp *ShaderProcessor) Attach(p *Program) error {
	if p == nil {
		return fmt.Errorf("%s: %w: nil program", sp.Name(), ErrConfig)
	}

	sp.ClearPorts(Input)
	sp.ClearPorts(Output)
	sp.shaderIn = sp.shaderIn[:0]
	sp.shaderOut = sp.shaderOut[:0]

	for _, sym := range p.Symbols(SectionInput) {
		if _, err := sp.AddPort(Input, sym.Name, sym.Type, sym.Semantic); err != nil {
			return err
		}
		sp.shaderIn = append(sp.shaderIn, sym.Value())
	}
	for _, sym := range p.Symbols(SectionOutput) {
		if _, err := sp.AddPort(Output, sym.Name, sym.Type, sym.Semantic); err != nil {
			return err
		}
		sp.shaderOut = append(sp.shaderOut, sym.Value())
	}

	sp.prog = p
	return nil
}

// Program returns the attached program, nil if none.
func (sp *ShaderProcessor) Program() *Program {
	return sp.prog
}

// OneInOneOut reports the stage mode.
func (sp *ShaderProcessor) OneInOneOut() bool { return true }

// RunOne consumes the bound input record and produces the bound output
// record through one program invocation. Input ports left unbound (optional
// attributes missing upstream) have the program's input storage zeroed
// before the call; write-back of unbound outputs is skipped.
func (sp *ShaderProcessor) RunOne() error {
	if sp.prog == nil {
		return fmt.Errorf("%w: no program attached", ErrConfig)
	}

	for i := range sp.shaderIn {
		port := sp.PortValue(Input, i)
		if !port.Bound() {
			sp.shaderIn[i].Zero()
			continue
		}
		sp.shaderIn[i].Write(port.Bytes())
	}

	sp.prog.execute()

	for i := range sp.shaderOut {
		sp.PortValue(Output, i).Write(sp.shaderOut[i].Bytes())
	}
	return nil
}

// ConsumeOneInput is not supported in one-in-one-out mode.
func (sp *ShaderProcessor) ConsumeOneInput() error { return ErrStageMode }

// HasPendingOutput always reports false.
func (sp *ShaderProcessor) HasPendingOutput() bool { return false }

// ProduceOneOutput is not supported in one-in-one-out mode.
func (sp *ShaderProcessor) ProduceOneOutput() error { return ErrStageMode }
