package softpipe

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"

	"github.com/gogpu/softpipe/f32"
)

// Value is a typed reference into record storage. It pairs a scalar type tag
// with a byte window into some external storage (a stream record, a shader
// symbol slot, a host buffer). An unbound Value reads as the zero value of
// its type and silently ignores writes; consumers that care must check
// Bound.
//
// Sampler2D and Texture2D values are carried by reference instead of by
// bytes; see Ref and SetRef.
type Value struct {
	typ ScalarType
	buf []byte
	ref any
}

// NewValue returns an unbound value of the given type.
func NewValue(t ScalarType) *Value {
	return &Value{typ: t}
}

// ValueOf returns a value of type t bound to buf.
func ValueOf(t ScalarType, buf []byte) Value {
	return Value{typ: t, buf: buf}
}

// Type returns the scalar type tag.
func (v *Value) Type() ScalarType { return v.typ }

// Bind retargets the value at buf. Pass nil to unbind.
func (v *Value) Bind(buf []byte) { v.buf = buf }

// Bound reports whether the value references storage.
func (v *Value) Bound() bool { return v.buf != nil }

// Bytes returns the referenced storage window, nil when unbound.
func (v *Value) Bytes() []byte { return v.buf }

// Write copies the type width worth of bytes from src into the referenced
// storage. It is a no-op when the value is unbound or src is nil.
func (v *Value) Write(src []byte) {
	if v.buf == nil || src == nil {
		return
	}
	copy(v.buf[:sizeOf(v.typ)], src[:sizeOf(v.typ)])
}

// Zero clears the referenced storage to the zero value of the type.
func (v *Value) Zero() {
	if v.buf == nil {
		return
	}
	n := sizeOf(v.typ)
	for i := 0; i < n; i++ {
		v.buf[i] = 0
	}
}

// Ref returns the boxed reference of a sampler or texture value.
func (v *Value) Ref() any { return v.ref }

// SetRef boxes a reference value (a *texture.Texture2D or a
// texture.Sampler2D).
func (v *Value) SetRef(r any) { v.ref = r }

func (v *Value) f32At(i int) float32 {
	if v.buf == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(v.buf[4*i:]))
}

func (v *Value) setF32At(i int, f float32) {
	if v.buf == nil {
		return
	}
	binary.LittleEndian.PutUint32(v.buf[4*i:], math.Float32bits(f))
}

// Float reads the value as a float.
func (v *Value) Float() float32 { return v.f32At(0) }

// SetFloat writes a float.
func (v *Value) SetFloat(f float32) { v.setF32At(0, f) }

// Vec2 reads the value as a float2.
func (v *Value) Vec2() ms2.Vec {
	return ms2.Vec{X: v.f32At(0), Y: v.f32At(1)}
}

// SetVec2 writes a float2.
func (v *Value) SetVec2(p ms2.Vec) {
	v.setF32At(0, p.X)
	v.setF32At(1, p.Y)
}

// Vec3 reads the value as a float3.
func (v *Value) Vec3() ms3.Vec {
	return ms3.Vec{X: v.f32At(0), Y: v.f32At(1), Z: v.f32At(2)}
}

// SetVec3 writes a float3.
func (v *Value) SetVec3(p ms3.Vec) {
	v.setF32At(0, p.X)
	v.setF32At(1, p.Y)
	v.setF32At(2, p.Z)
}

// Vec4 reads the value as a float4.
func (v *Value) Vec4() f32.Vec4 {
	return f32.Vec4{X: v.f32At(0), Y: v.f32At(1), Z: v.f32At(2), W: v.f32At(3)}
}

// SetVec4 writes a float4.
func (v *Value) SetVec4(p f32.Vec4) {
	v.setF32At(0, p.X)
	v.setF32At(1, p.Y)
	v.setF32At(2, p.Z)
	v.setF32At(3, p.W)
}

// Mat4 reads the value as a row-major float4x4.
func (v *Value) Mat4() ms3.Mat4 {
	var e [16]float32
	for i := range e {
		e[i] = v.f32At(i)
	}
	return ms3.NewMat4(e[:])
}

// SetMat4 writes a row-major float4x4.
func (v *Value) SetMat4(m ms3.Mat4) {
	e := m.Array()
	for i, f := range e {
		v.setF32At(i, f)
	}
}

// Double reads the value as a double.
func (v *Value) Double() float64 {
	if v.buf == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.buf))
}

// SetDouble writes a double.
func (v *Value) SetDouble(f float64) {
	if v.buf == nil {
		return
	}
	binary.LittleEndian.PutUint64(v.buf, math.Float64bits(f))
}

// Int reads the value as a signed integer.
func (v *Value) Int() int32 {
	if v.buf == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(v.buf))
}

// SetInt writes a signed integer.
func (v *Value) SetInt(i int32) {
	if v.buf == nil {
		return
	}
	binary.LittleEndian.PutUint32(v.buf, uint32(i))
}

// Uint reads the value as an unsigned integer.
func (v *Value) Uint() uint32 {
	if v.buf == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(v.buf)
}

// SetUint writes an unsigned integer.
func (v *Value) SetUint(u uint32) {
	if v.buf == nil {
		return
	}
	binary.LittleEndian.PutUint32(v.buf, u)
}

// Interpolate computes out = a*u + b*v in place. The three values must share
// one interpolable scalar type.
func Interpolate(out *Value, a *Value, u float32, b *Value, v float32) error {
	if out.typ != a.typ || out.typ != b.typ {
		return fmt.Errorf("%w: interpolate %s/%s/%s", ErrTypeMismatch, out.typ, a.typ, b.typ)
	}
	if !out.typ.interpolable() {
		return fmt.Errorf("%w: cannot interpolate %s", ErrUnsupportedType, out.typ)
	}
	switch out.typ {
	case TypeFloat:
		out.SetFloat(a.Float()*u + b.Float()*v)
	case TypeFloat2:
		out.SetVec2(ms2.Add(ms2.Scale(u, a.Vec2()), ms2.Scale(v, b.Vec2())))
	case TypeFloat3:
		out.SetVec3(ms3.Add(ms3.Scale(u, a.Vec3()), ms3.Scale(v, b.Vec3())))
	case TypeFloat4:
		out.SetVec4(f32.Add(f32.Scale(u, a.Vec4()), f32.Scale(v, b.Vec4())))
	case TypeDouble:
		out.SetDouble(a.Double()*float64(u) + b.Double()*float64(v))
	case TypeInt:
		out.SetInt(int32(float32(a.Int())*u + float32(b.Int())*v))
	case TypeUint:
		out.SetUint(uint32(float32(a.Uint())*u + float32(b.Uint())*v))
	}
	return nil
}

// Interpolate3 computes out = a*u + b*v + c*w in place. The four values must
// share one interpolable scalar type. This is the form used to reconstruct
// attributes from barycentric weights.
func Interpolate3(out *Value, a *Value, u float32, b *Value, v float32, c *Value, w float32) error {
	if out.typ != a.typ || out.typ != b.typ || out.typ != c.typ {
		return fmt.Errorf("%w: interpolate %s/%s/%s/%s", ErrTypeMismatch, out.typ, a.typ, b.typ, c.typ)
	}
	if !out.typ.interpolable() {
		return fmt.Errorf("%w: cannot interpolate %s", ErrUnsupportedType, out.typ)
	}
	switch out.typ {
	case TypeFloat:
		out.SetFloat(a.Float()*u + b.Float()*v + c.Float()*w)
	case TypeFloat2:
		s := ms2.Add(ms2.Scale(u, a.Vec2()), ms2.Scale(v, b.Vec2()))
		out.SetVec2(ms2.Add(s, ms2.Scale(w, c.Vec2())))
	case TypeFloat3:
		s := ms3.Add(ms3.Scale(u, a.Vec3()), ms3.Scale(v, b.Vec3()))
		out.SetVec3(ms3.Add(s, ms3.Scale(w, c.Vec3())))
	case TypeFloat4:
		s := f32.Add(f32.Scale(u, a.Vec4()), f32.Scale(v, b.Vec4()))
		out.SetVec4(f32.Add(s, f32.Scale(w, c.Vec4())))
	case TypeDouble:
		out.SetDouble(a.Double()*float64(u) + b.Double()*float64(v) + c.Double()*float64(w))
	case TypeInt:
		out.SetInt(int32(float32(a.Int())*u + float32(b.Int())*v + float32(c.Int())*w))
	case TypeUint:
		out.SetUint(uint32(float32(a.Uint())*u + float32(b.Uint())*v + float32(c.Uint())*w))
	}
	return nil
}
