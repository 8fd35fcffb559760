package softpipe

import "fmt"

// Section selects one of a program's symbol tables.
type Section int

// Program sections.
const (
	// SectionInput holds the per-element inputs filled by the pipeline
	// before each invocation.
	SectionInput Section = iota
	// SectionOutput holds the per-element outputs read back by the
	// pipeline after each invocation.
	SectionOutput
	// SectionConstant holds the uniforms bound once per draw by the host.
	SectionConstant

	numSections
)

// Symbol is one declared program variable: a name, a scalar type, a
// semantic, and a value bound to program-owned storage.
type Symbol struct {
	Name     string
	Type     ScalarType
	Semantic Semantic

	value *Value
}

// Value returns the symbol's storage reference.
func (s Symbol) Value() *Value { return s.value }

// Program is a shader: three symbol sections plus a zero-argument entry
// function. The entry function reads the input section, writes the output
// section, and may read constants; all three live inside the Program
// instance, so multiple programs never share state.
//
// A program is built by declaring symbols and capturing the returned value
// references in the entry closure:
//
//	p := softpipe.NewProgram()
//	inPos, _ := p.DeclareInput("position", softpipe.TypeFloat3, softpipe.Position0)
//	outClip, _ := p.DeclareOutput("posClip", softpipe.TypeFloat4, softpipe.SVPosition)
//	mvp, _ := p.DeclareConstant("mWorldViewProj", softpipe.TypeFloat4x4)
//	p.SetMain(func() {
//		outClip.SetVec4(f32.MulVec4(mvp.Mat4(), f32.FromVec3(inPos.Vec3(), 1)))
//	})
type Program struct {
	symbols [numSections][]Symbol
	entry   func()
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{}
}

func (p *Program) declare(sec Section, name string, typ ScalarType, sem Semantic) (*Value, error) {
	width, err := typ.Size()
	if err != nil {
		return nil, fmt.Errorf("symbol %q: %w", name, err)
	}
	v := NewValue(typ)
	v.Bind(make([]byte, width))
	p.symbols[sec] = append(p.symbols[sec], Symbol{
		Name:     name,
		Type:     typ,
		Semantic: sem,
		value:    v,
	})
	return v, nil
}

// DeclareInput adds an input symbol and returns its storage reference for
// use inside the entry function.
func (p *Program) DeclareInput(name string, typ ScalarType, sem Semantic) (*Value, error) {
	return p.declare(SectionInput, name, typ, sem)
}

// DeclareOutput adds an output symbol and returns its storage reference.
func (p *Program) DeclareOutput(name string, typ ScalarType, sem Semantic) (*Value, error) {
	return p.declare(SectionOutput, name, typ, sem)
}

// DeclareConstant adds a constant symbol and returns its storage reference.
// Constants carry no semantic; the host binds them by name via Constant.
func (p *Program) DeclareConstant(name string, typ ScalarType) (*Value, error) {
	return p.declare(SectionConstant, name, typ, Semantic{})
}

// SetMain sets the entry function.
func (p *Program) SetMain(fn func()) {
	p.entry = fn
}

// Symbols returns the symbol list of a section.
func (p *Program) Symbols(sec Section) []Symbol {
	return p.symbols[sec]
}

// Constant returns the storage reference of the named constant, the handle
// the host uses to bind uniforms before a draw.
func (p *Program) Constant(name string) (*Value, error) {
	for _, s := range p.symbols[SectionConstant] {
		if s.Name == name {
			return s.value, nil
		}
	}
	return nil, fmt.Errorf("%w: no constant named %q", ErrUnknownPort, name)
}

func (p *Program) execute() {
	if p.entry != nil {
		p.entry()
	}
}
