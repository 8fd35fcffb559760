package softpipe

import (
	"errors"
	"testing"

	"github.com/soypat/glgl/math/ms3"
)

func TestProgramSymbolSections(t *testing.T) {
	p := NewProgram()
	if _, err := p.DeclareInput("position", TypeFloat3, Position0); err != nil {
		t.Fatalf("DeclareInput: %v", err)
	}
	if _, err := p.DeclareOutput("posClip", TypeFloat4, SVPosition); err != nil {
		t.Fatalf("DeclareOutput: %v", err)
	}
	if _, err := p.DeclareConstant("mWorldViewProj", TypeFloat4x4); err != nil {
		t.Fatalf("DeclareConstant: %v", err)
	}

	if n := len(p.Symbols(SectionInput)); n != 1 {
		t.Errorf("input symbols = %d, want 1", n)
	}
	sym := p.Symbols(SectionOutput)[0]
	if sym.Name != "posClip" || sym.Type != TypeFloat4 || sym.Semantic != SVPosition {
		t.Errorf("output symbol = %+v", sym)
	}
	if sym.Value() == nil || !sym.Value().Bound() {
		t.Error("symbol storage not allocated")
	}
}

func TestProgramConstantBinding(t *testing.T) {
	p := NewProgram()
	p.DeclareConstant("cLightPos", TypeFloat3)

	c, err := p.Constant("cLightPos")
	if err != nil {
		t.Fatalf("Constant: %v", err)
	}
	c.SetVec3(ms3.Vec{X: 8, Y: 8, Z: 5})
	if got := c.Vec3(); got != (ms3.Vec{X: 8, Y: 8, Z: 5}) {
		t.Errorf("constant read back %v", got)
	}

	if _, err := p.Constant("missing"); !errors.Is(err, ErrUnknownPort) {
		t.Errorf("missing constant err = %v, want ErrUnknownPort", err)
	}
}

func TestProgramRejectsHalfSymbols(t *testing.T) {
	p := NewProgram()
	if _, err := p.DeclareInput("h", TypeHalf, Texcoord0); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("half symbol err = %v, want ErrUnsupportedType", err)
	}
}

func TestShaderProcessorAttachMirrorsSymbols(t *testing.T) {
	p := NewProgram()
	p.DeclareInput("position", TypeFloat3, Position0)
	p.DeclareInput("normal", TypeFloat3, Normal0)
	p.DeclareOutput("posClip", TypeFloat4, SVPosition)

	sp := NewShaderProcessor("vertex-shader")
	if err := sp.Attach(p); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if sp.NumPorts(Input) != 2 || sp.NumPorts(Output) != 1 {
		t.Fatalf("ports = %d/%d, want 2/1", sp.NumPorts(Input), sp.NumPorts(Output))
	}
	if sp.PortName(Input, 1) != "normal" || sp.PortSemantic(Input, 1) != Normal0 {
		t.Errorf("input port 1 = %q %s", sp.PortName(Input, 1), sp.PortSemantic(Input, 1))
	}
	if sp.PortType(Output, 0) != TypeFloat4 {
		t.Errorf("output port type = %s", sp.PortType(Output, 0))
	}

	// Re-attaching a different program replaces the schema.
	p2 := NewProgram()
	p2.DeclareInput("uv", TypeFloat2, Texcoord0)
	if err := sp.Attach(p2); err != nil {
		t.Fatalf("re-Attach: %v", err)
	}
	if sp.NumPorts(Input) != 1 || sp.NumPorts(Output) != 0 {
		t.Errorf("after re-attach: %d/%d, want 1/0", sp.NumPorts(Input), sp.NumPorts(Output))
	}
}

func TestShaderProcessorAttachNil(t *testing.T) {
	sp := NewShaderProcessor("vertex-shader")
	if err := sp.Attach(nil); !errors.Is(err, ErrConfig) {
		t.Errorf("Attach(nil) = %v, want ErrConfig", err)
	}
}

func TestShaderProcessorRunOne(t *testing.T) {
	// Program: out = in * 3.
	p := NewProgram()
	in, _ := p.DeclareInput("x", TypeFloat, Color0)
	out, _ := p.DeclareOutput("y", TypeFloat, Color1)
	p.SetMain(func() {
		out.SetFloat(3 * in.Float())
	})

	sp := NewShaderProcessor("shader")
	if err := sp.Attach(p); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	var inStream, outStream FifoStream
	inStream.AddChannel(Color0, TypeFloat)
	inStream.SetCapacity(2)
	outStream.AddChannel(Color1, TypeFloat)
	outStream.SetCapacity(2)

	for _, v := range []float32{2, 5} {
		rec, _ := inStream.Push()
		val := ValueOf(TypeFloat, rec.ChannelBytes(0))
		val.SetFloat(v)
	}

	if err := runStage(sp, &inStream, &outStream); err != nil {
		t.Fatalf("runStage: %v", err)
	}

	want := []float32{6, 15}
	for _, w := range want {
		rec, err := outStream.Front()
		if err != nil {
			t.Fatalf("Front: %v", err)
		}
		val := ValueOf(TypeFloat, rec.ChannelBytes(0))
		if val.Float() != w {
			t.Errorf("shader output = %v, want %v", val.Float(), w)
		}
		outStream.Pop()
	}
}

func TestShaderProcessorUnboundInputReadsZero(t *testing.T) {
	p := NewProgram()
	in, _ := p.DeclareInput("uv", TypeFloat2, Texcoord0)
	out, _ := p.DeclareOutput("y", TypeFloat, Color0)
	p.SetMain(func() {
		out.SetFloat(in.Vec2().X + in.Vec2().Y)
	})
	// Poison the program-side storage: the processor must zero it when the
	// port is unbound.
	in.SetFloat(99)

	sp := NewShaderProcessor("shader")
	sp.Attach(p)

	var inStream, outStream FifoStream
	inStream.AddChannel(Color3, TypeFloat) // no texcoord channel
	inStream.SetCapacity(1)
	outStream.AddChannel(Color0, TypeFloat)
	outStream.SetCapacity(1)
	rec, _ := inStream.Push()
	_ = rec

	if err := runStage(sp, &inStream, &outStream); err != nil {
		t.Fatalf("runStage: %v", err)
	}
	orec, _ := outStream.Front()
	val := ValueOf(TypeFloat, orec.ChannelBytes(0))
	if val.Float() != 0 {
		t.Errorf("shader saw stale input: output = %v, want 0", val.Float())
	}
}
