// Package f32 provides the 4-component float32 vector used for homogeneous
// clip-space positions, plus its interaction with ms3 matrices.
//
// The 2D and 3D vector types come from glgl's math packages (ms2, ms3);
// those have no homogeneous 4-vector, so softpipe carries its own.
package f32

import "github.com/soypat/glgl/math/ms3"

// Vec4 is a 4D vector. X, Y, Z, W are laid out in that order.
type Vec4 struct {
	X, Y, Z, W float32
}

// Vec3 returns the X, Y, Z components of v as an ms3 vector.
func (v Vec4) Vec3() ms3.Vec {
	return ms3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// FromVec3 extends a 3D vector to homogeneous coordinates with the given w.
func FromVec3(v ms3.Vec, w float32) Vec4 {
	return Vec4{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

// Add returns the sum of two vectors.
func Add(a, b Vec4) Vec4 {
	return Vec4{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z, W: a.W + b.W}
}

// Scale returns the vector p scaled by f.
func Scale(f float32, p Vec4) Vec4 {
	return Vec4{X: f * p.X, Y: f * p.Y, Z: f * p.Z, W: f * p.W}
}

// MulVec4 multiplies a row-major 4x4 matrix with a column vector.
func MulVec4(m ms3.Mat4, v Vec4) Vec4 {
	e := m.Array()
	return Vec4{
		X: e[0]*v.X + e[1]*v.Y + e[2]*v.Z + e[3]*v.W,
		Y: e[4]*v.X + e[5]*v.Y + e[6]*v.Z + e[7]*v.W,
		Z: e[8]*v.X + e[9]*v.Y + e[10]*v.Z + e[11]*v.W,
		W: e[12]*v.X + e[13]*v.Y + e[14]*v.Z + e[15]*v.W,
	}
}
