package softpipe

import "strconv"

// SemanticName classifies the role of a port or stream channel.
type SemanticName uint8

// Semantic name classes.
const (
	SemanticInvalid SemanticName = iota
	SemanticPosition
	SemanticColor
	SemanticNormal
	SemanticTexcoord
	// SemanticSystemValue marks semantics produced or consumed by the
	// fixed-function stages themselves. A port carrying a system-value
	// semantic is required; all other ports are optional.
	SemanticSystemValue
)

func (n SemanticName) String() string {
	switch n {
	case SemanticPosition:
		return "POSITION"
	case SemanticColor:
		return "COLOR"
	case SemanticNormal:
		return "NORMAL"
	case SemanticTexcoord:
		return "TEXCOORD"
	case SemanticSystemValue:
		return "SV"
	default:
		return "INVALID"
	}
}

// Semantic identifies the role of a port or channel as a (name, index) pair.
// Stages match ports to stream channels by semantic equality rather than by
// position, so attribute order never matters across stage boundaries.
// The zero value is the invalid semantic.
type Semantic struct {
	Name  SemanticName
	Index uint32
}

// The distinguished user-attribute semantics.
var (
	Position0 = Semantic{SemanticPosition, 0}
	Position1 = Semantic{SemanticPosition, 1}
	Position2 = Semantic{SemanticPosition, 2}
	Position3 = Semantic{SemanticPosition, 3}

	Color0 = Semantic{SemanticColor, 0}
	Color1 = Semantic{SemanticColor, 1}
	Color2 = Semantic{SemanticColor, 2}
	Color3 = Semantic{SemanticColor, 3}

	Normal0 = Semantic{SemanticNormal, 0}
	Normal1 = Semantic{SemanticNormal, 1}
	Normal2 = Semantic{SemanticNormal, 2}
	Normal3 = Semantic{SemanticNormal, 3}

	Texcoord0 = Semantic{SemanticTexcoord, 0}
	Texcoord1 = Semantic{SemanticTexcoord, 1}
	Texcoord2 = Semantic{SemanticTexcoord, 2}
	Texcoord3 = Semantic{SemanticTexcoord, 3}
)

// The system-value semantics.
var (
	// SVPosition is the clip-space position emitted by the vertex program,
	// required by the rasterizer.
	SVPosition = Semantic{SemanticSystemValue, 1}
	// SVDepth is the depth output of the pixel program.
	SVDepth = Semantic{SemanticSystemValue, 2}
	// SVTarget is the color output of the pixel program.
	SVTarget = Semantic{SemanticSystemValue, 3}
	// SVVertexIndex is the vertex index flowing from the index buffer
	// through the primitive assembler into the rasterizer.
	SVVertexIndex = Semantic{SemanticSystemValue, 4}
)

// IsSystemValue reports whether s marks a required port.
func (s Semantic) IsSystemValue() bool {
	return s.Name == SemanticSystemValue
}

func (s Semantic) String() string {
	if s.Name == SemanticSystemValue {
		switch s {
		case SVPosition:
			return "SV_Position"
		case SVDepth:
			return "SV_Depth"
		case SVTarget:
			return "SV_Target"
		case SVVertexIndex:
			return "SV_VertexIndex"
		}
	}
	return s.Name.String() + strconv.FormatUint(uint64(s.Index), 10)
}
