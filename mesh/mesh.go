// Package mesh provides procedural triangle-list meshes for feeding the
// pipeline: positions, normals, texture coordinates and vertex colors in
// separate channels, plus a 32-bit index list.
package mesh

import (
	"encoding/binary"
	stdmath "math"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// Mesh holds per-vertex channels and a triangle-list index buffer. Channels
// are separate (non-interleaved) so each binds directly as one vertex
// buffer channel.
type Mesh struct {
	Positions []ms3.Vec
	Normals   []ms3.Vec
	Colors    []ms3.Vec
	TexCoords []ms2.Vec
	Indices   []uint32
}

func encodeVec3s(vs []ms3.Vec) []byte {
	buf := make([]byte, 12*len(vs))
	for i, v := range vs {
		putF32(buf[12*i:], v.X)
		putF32(buf[12*i+4:], v.Y)
		putF32(buf[12*i+8:], v.Z)
	}
	return buf
}

func putF32(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, stdmath.Float32bits(f))
}

// PositionData encodes the position channel as little-endian float3s with
// stride 12.
func (m *Mesh) PositionData() []byte { return encodeVec3s(m.Positions) }

// NormalData encodes the normal channel as little-endian float3s with
// stride 12.
func (m *Mesh) NormalData() []byte { return encodeVec3s(m.Normals) }

// ColorData encodes the color channel as little-endian float3s with
// stride 12.
func (m *Mesh) ColorData() []byte { return encodeVec3s(m.Colors) }

// TexCoordData encodes the texcoord channel as little-endian float2s with
// stride 8.
func (m *Mesh) TexCoordData() []byte {
	buf := make([]byte, 8*len(m.TexCoords))
	for i, v := range m.TexCoords {
		putF32(buf[8*i:], v.X)
		putF32(buf[8*i+4:], v.Y)
	}
	return buf
}

// IndexData encodes the index list as little-endian uint32s with stride 4.
func (m *Mesh) IndexData() []byte {
	buf := make([]byte, 4*len(m.Indices))
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[4*i:], idx)
	}
	return buf
}

// Triangle returns a single counter-clockwise triangle in the z=0 plane
// with red, green and blue corners.
func Triangle() Mesh {
	return Mesh{
		Positions: []ms3.Vec{
			{X: -1, Y: -1, Z: 0},
			{X: 1, Y: -1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Normals: []ms3.Vec{
			{Z: 1}, {Z: 1}, {Z: 1},
		},
		Colors: []ms3.Vec{
			{X: 1}, {Y: 1}, {Z: 1},
		},
		TexCoords: []ms2.Vec{{}, {}, {}},
		Indices:   []uint32{0, 1, 2},
	}
}

// Cuboid returns an axis-aligned box centered at the origin with the given
// extents. Each face carries its own four vertices so normals stay flat.
func Cuboid(wx, wy, wz float32) Mesh {
	lx, ly, lz := wx/2, wy/2, wz/2

	faceColors := [4]ms3.Vec{
		{X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1},
	}

	type face struct {
		normal  ms3.Vec
		corners [4]ms3.Vec
	}
	faces := []face{
		{ // front
			normal: ms3.Vec{Z: 1},
			corners: [4]ms3.Vec{
				{X: -lx, Y: -ly, Z: lz}, {X: lx, Y: -ly, Z: lz},
				{X: lx, Y: ly, Z: lz}, {X: -lx, Y: ly, Z: lz},
			},
		},
		{ // back
			normal: ms3.Vec{Z: -1},
			corners: [4]ms3.Vec{
				{X: lx, Y: -ly, Z: -lz}, {X: -lx, Y: -ly, Z: -lz},
				{X: -lx, Y: ly, Z: -lz}, {X: lx, Y: ly, Z: -lz},
			},
		},
		{ // left
			normal: ms3.Vec{X: -1},
			corners: [4]ms3.Vec{
				{X: -lx, Y: -ly, Z: -lz}, {X: -lx, Y: -ly, Z: lz},
				{X: -lx, Y: ly, Z: lz}, {X: -lx, Y: ly, Z: -lz},
			},
		},
		{ // right
			normal: ms3.Vec{X: 1},
			corners: [4]ms3.Vec{
				{X: lx, Y: -ly, Z: lz}, {X: lx, Y: -ly, Z: -lz},
				{X: lx, Y: ly, Z: -lz}, {X: lx, Y: ly, Z: lz},
			},
		},
		{ // bottom
			normal: ms3.Vec{Y: -1},
			corners: [4]ms3.Vec{
				{X: -lx, Y: -ly, Z: -lz}, {X: lx, Y: -ly, Z: -lz},
				{X: lx, Y: -ly, Z: lz}, {X: -lx, Y: -ly, Z: lz},
			},
		},
		{ // top
			normal: ms3.Vec{Y: 1},
			corners: [4]ms3.Vec{
				{X: -lx, Y: ly, Z: lz}, {X: lx, Y: ly, Z: lz},
				{X: lx, Y: ly, Z: -lz}, {X: -lx, Y: ly, Z: -lz},
			},
		},
	}

	faceUVs := [4]ms2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	var m Mesh
	for _, f := range faces {
		base := uint32(len(m.Positions))
		for i, c := range f.corners {
			m.Positions = append(m.Positions, c)
			m.Normals = append(m.Normals, f.normal)
			m.Colors = append(m.Colors, faceColors[i])
			m.TexCoords = append(m.TexCoords, faceUVs[i])
		}
		m.Indices = append(m.Indices,
			base, base+1, base+3,
			base+3, base+1, base+2)
	}
	return m
}

// Sphere returns a UV sphere with the given radius and sector/stack counts.
// Poles share positions but not texture coordinates, so each stack carries
// sectors+1 vertices.
func Sphere(radius float32, sectors, stacks int) Mesh {
	var m Mesh

	sectorStep := 2 * math.Pi / float32(sectors)
	stackStep := math.Pi / float32(stacks)
	invRadius := 1 / radius

	for i := 0; i <= stacks; i++ {
		stackAngle := math.Pi/2 - float32(i)*stackStep
		xy := radius * math.Cos(stackAngle)
		z := radius * math.Sin(stackAngle)

		for j := 0; j <= sectors; j++ {
			sectorAngle := float32(j) * sectorStep
			pos := ms3.Vec{
				X: xy * math.Cos(sectorAngle),
				Y: xy * math.Sin(sectorAngle),
				Z: z,
			}
			m.Positions = append(m.Positions, pos)
			m.Normals = append(m.Normals, ms3.Scale(invRadius, pos))
			m.Colors = append(m.Colors, ms3.Vec{X: 1, Y: 1, Z: 1})
			m.TexCoords = append(m.TexCoords, ms2.Vec{
				X: float32(j) / float32(sectors),
				Y: float32(i) / float32(stacks),
			})
		}
	}

	for i := 0; i < stacks; i++ {
		k1 := uint32(i * (sectors + 1))
		k2 := k1 + uint32(sectors) + 1
		for j := 0; j < sectors; j, k1, k2 = j+1, k1+1, k2+1 {
			if i != 0 {
				m.Indices = append(m.Indices, k1, k2, k1+1)
			}
			if i != stacks-1 {
				m.Indices = append(m.Indices, k1+1, k2, k2+1)
			}
		}
	}
	return m
}
