// Package geom provides the 2D primitives behind triangle rasterization:
// edge equations, triangle setup, point containment and barycentric
// coordinates.
package geom

import "github.com/soypat/glgl/math/ms2"

// Line is the implicit 2D line equation E(x, y) = A*x + B*y + C.
type Line struct {
	A, B, C float32
}

// LineThrough returns the line equation through a and b, oriented so that
// points left of the directed edge a->b evaluate negative:
//
//	cross(p-a, b-a) < 0
//	(p.x-a.x)*(b.y-a.y) - (p.y-a.y)*(b.x-a.x) < 0
//	(b.y-a.y)*p.x + (a.x-b.x)*p.y + a.y*b.x - a.x*b.y < 0
func LineThrough(a, b ms2.Vec) Line {
	return Line{
		A: b.Y - a.Y,
		B: a.X - b.X,
		C: a.Y*b.X - a.X*b.Y,
	}
}

// Eval evaluates the line equation at p.
func (l Line) Eval(p ms2.Vec) float32 {
	return l.A*p.X + l.B*p.Y + l.C
}

// Triangle is a 2D triangle with precomputed edge equations. For a
// counter-clockwise wound triangle, all three edges evaluate negative on
// the interior.
type Triangle struct {
	VA, VB, VC ms2.Vec
	AB, BC, CA Line
}

// NewTriangle sets up a triangle from its three vertices.
func NewTriangle(va, vb, vc ms2.Vec) Triangle {
	return Triangle{
		VA: va, VB: vb, VC: vc,
		AB: LineThrough(va, vb),
		BC: LineThrough(vb, vc),
		CA: LineThrough(vc, va),
	}
}

// Contains reports whether p lies strictly inside the counter-clockwise
// interior. Points on an edge are outside.
func (t Triangle) Contains(p ms2.Vec) bool {
	return t.AB.Eval(p) < 0 && t.BC.Eval(p) < 0 && t.CA.Eval(p) < 0
}

// Barycentric holds the convex coordinates of a point with respect to a
// triangle. For a point inside the triangle, U+V+W = 1 up to floating
// point, and any per-vertex attribute X is reconstructed at the point as
// U*X(VA) + V*X(VB) + W*X(VC).
type Barycentric struct {
	U, V, W float32
}

// Barycentric returns the barycentric coordinates of p.
func (t Triangle) Barycentric(p ms2.Vec) Barycentric {
	return Barycentric{
		U: t.BC.Eval(p) / t.BC.Eval(t.VA),
		V: t.CA.Eval(p) / t.CA.Eval(t.VB),
		W: t.AB.Eval(p) / t.AB.Eval(t.VC),
	}
}

// FloorDiv returns the floor of a divided by b for positive b. Unlike Go's
// truncating integer division it rounds toward negative infinity, which
// keeps sample grids consistent across the origin.
func FloorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
