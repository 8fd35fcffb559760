package f32

import (
	"testing"

	"github.com/soypat/glgl/math/ms3"
)

func TestVec4Vec3(t *testing.T) {
	v := Vec4{X: 1, Y: 2, Z: 3, W: 4}
	if got := v.Vec3(); got != (ms3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Vec3 = %v", got)
	}
	if got := FromVec3(ms3.Vec{X: 5, Y: 6, Z: 7}, 1); got != (Vec4{X: 5, Y: 6, Z: 7, W: 1}) {
		t.Errorf("FromVec3 = %v", got)
	}
}

func TestVec4Arithmetic(t *testing.T) {
	a := Vec4{X: 1, Y: 2, Z: 3, W: 4}
	b := Vec4{X: 10, Y: 20, Z: 30, W: 40}
	if got := Add(a, b); got != (Vec4{X: 11, Y: 22, Z: 33, W: 44}) {
		t.Errorf("Add = %v", got)
	}
	if got := Scale(2, a); got != (Vec4{X: 2, Y: 4, Z: 6, W: 8}) {
		t.Errorf("Scale = %v", got)
	}
}

func TestMulVec4Identity(t *testing.T) {
	v := Vec4{X: 1, Y: 2, Z: 3, W: 1}
	if got := MulVec4(ms3.IdentityMat4(), v); got != v {
		t.Errorf("identity transform = %v, want %v", got, v)
	}
}

func TestMulVec4Translate(t *testing.T) {
	m := ms3.TranslatingMat4(ms3.Vec{X: 10, Y: 20, Z: 30})
	got := MulVec4(m, Vec4{X: 1, Y: 1, Z: 1, W: 1})
	want := Vec4{X: 11, Y: 21, Z: 31, W: 1}
	if got != want {
		t.Errorf("translate = %v, want %v", got, want)
	}

	// Direction vectors (w = 0) are unaffected by translation.
	got = MulVec4(m, Vec4{X: 1, Y: 0, Z: 0, W: 0})
	want = Vec4{X: 1, Y: 0, Z: 0, W: 0}
	if got != want {
		t.Errorf("direction translate = %v, want %v", got, want)
	}
}
