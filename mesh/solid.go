// Package mesh turns planar profiles into triangle solids and post-processes
// their vertex attributes.
package mesh

import (
	"github.com/soypat/door/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is an indexed triangle mesh with per-vertex normals and texture
// coordinates. Triangles wind counter-clockwise seen from outside.
type Solid struct {
	Positions []r3.Vec
	Normals   []r3.Vec
	UVs       []r2.Vec
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (s *Solid) VertexCount() int { return len(s.Positions) }

// TriangleCount returns the number of triangles.
func (s *Solid) TriangleCount() int { return len(s.Indices) / 3 }

// Triangle returns the vertex positions of the i'th triangle.
func (s *Solid) Triangle(i int) [3]r3.Vec {
	return [3]r3.Vec{
		s.Positions[s.Indices[3*i]],
		s.Positions[s.Indices[3*i+1]],
		s.Positions[s.Indices[3*i+2]],
	}
}

// Translate moves every vertex by v and returns s.
func (s *Solid) Translate(v r3.Vec) *Solid {
	for i := range s.Positions {
		s.Positions[i] = r3.Add(s.Positions[i], v)
	}
	return s
}

// Bounds returns the bounding box of the vertices.
func (s *Solid) Bounds() r3.Box {
	bb := d3.EmptyBox()
	for _, p := range s.Positions {
		bb = bb.Include(p)
	}
	return r3.Box(bb)
}

// Clone returns a deep copy of s.
func (s *Solid) Clone() *Solid {
	return &Solid{
		Positions: append([]r3.Vec(nil), s.Positions...),
		Normals:   append([]r3.Vec(nil), s.Normals...),
		UVs:       append([]r2.Vec(nil), s.UVs...),
		Indices:   append([]uint32(nil), s.Indices...),
	}
}

// Release drops the vertex buffers so the solid holds no geometry.
func (s *Solid) Release() {
	s.Positions, s.Normals, s.UVs, s.Indices = nil, nil, nil, nil
}

// vertex appends a vertex and returns its index.
func (s *Solid) vertex(p, n r3.Vec, uv r2.Vec) uint32 {
	s.Positions = append(s.Positions, p)
	s.Normals = append(s.Normals, n)
	s.UVs = append(s.UVs, uv)
	return uint32(len(s.Positions) - 1)
}

func (s *Solid) triangle(a, b, c uint32) {
	s.Indices = append(s.Indices, a, b, c)
}
