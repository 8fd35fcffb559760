package softpipe

import "fmt"

// ScalarType enumerates the data types a port, stream channel or shader
// symbol can carry.
type ScalarType uint8

// Scalar types.
const (
	TypeUnknown ScalarType = iota
	TypeFloat
	TypeFloat2
	TypeFloat3
	TypeFloat4
	TypeFloat4x4
	// TypeHalf is reserved. It has no storage layout and no arithmetic;
	// schema registration rejects it.
	TypeHalf
	TypeDouble
	TypeInt
	TypeUint
	// TypeSampler2D and TypeTexture2D are carried by reference (see
	// Value.Ref); their sizes below are nominal descriptor sizes.
	TypeSampler2D
	TypeTexture2D
)

func (t ScalarType) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeFloat2:
		return "float2"
	case TypeFloat3:
		return "float3"
	case TypeFloat4:
		return "float4"
	case TypeFloat4x4:
		return "float4x4"
	case TypeHalf:
		return "half"
	case TypeDouble:
		return "double"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeSampler2D:
		return "sampler2D"
	case TypeTexture2D:
		return "texture2D"
	default:
		return "unknown"
	}
}

// Size returns the byte width of t within a packed record.
// Half and Unknown have no layout and yield ErrUnsupportedType.
func (t ScalarType) Size() (int, error) {
	switch t {
	case TypeFloat:
		return 4, nil
	case TypeFloat2:
		return 8, nil
	case TypeFloat3:
		return 12, nil
	case TypeFloat4:
		return 16, nil
	case TypeFloat4x4:
		return 64, nil
	case TypeDouble:
		return 8, nil
	case TypeInt, TypeUint:
		return 4, nil
	case TypeSampler2D:
		return 12, nil
	case TypeTexture2D:
		return 24, nil
	default:
		return 0, fmt.Errorf("%w: %s has no size", ErrUnsupportedType, t)
	}
}

// sizeOf is the internal variant of Size for types that already passed
// schema registration. Unsupported types report zero width.
func sizeOf(t ScalarType) int {
	n, _ := t.Size()
	return n
}

// interpolable reports whether values of type t support the weighted-sum
// arithmetic used by attribute interpolation.
func (t ScalarType) interpolable() bool {
	switch t {
	case TypeFloat, TypeFloat2, TypeFloat3, TypeFloat4, TypeDouble, TypeInt, TypeUint:
		return true
	default:
		return false
	}
}
