// Package render hands door scenes to consumers outside the engine:
// triangle streams, STL and GLB files, shaded previews and elevations.
package render

import (
	"io"

	"github.com/soypat/door/internal/d3"
	"github.com/soypat/door/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a world space triangle.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of t. Degenerate triangles return the zero vector.
func (t Triangle3) Normal() r3.Vec {
	return d3.Normal(t.V[0], t.V[1], t.V[2])
}

// Renderer streams triangles. ReadTriangles returns io.EOF once every
// triangle has been read.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Opaque keeps primitives that are not transparent. Shadow planes are
// dropped, which is what solid exports want.
func Opaque(p scene.Primitive) bool {
	return p.Material == nil || !p.Material.Transparent()
}

// SceneRenderer streams the world space triangles of the primitives of a scene.
type SceneRenderer struct {
	prims []scene.Primitive
	prim  int // current primitive
	tri   int // next triangle of current primitive
}

var _ Renderer = (*SceneRenderer)(nil)

// NewSceneRenderer returns a renderer over the primitives under root for
// which keep returns true. A nil keep keeps every primitive.
func NewSceneRenderer(root *scene.Node, keep func(scene.Primitive) bool) *SceneRenderer {
	r := &SceneRenderer{}
	root.Walk(func(p scene.Primitive) error {
		if keep == nil || keep(p) {
			r.prims = append(r.prims, p)
		}
		return nil
	})
	return r
}

// ReadTriangles implements Renderer.
func (r *SceneRenderer) ReadTriangles(t []Triangle3) (n int, err error) {
	for n < len(t) && r.prim < len(r.prims) {
		p := r.prims[r.prim]
		if r.tri >= p.Solid.TriangleCount() {
			r.prim++
			r.tri = 0
			continue
		}
		v := p.Solid.Triangle(r.tri)
		for i := range v {
			v[i] = r3.Add(v[i], p.World)
		}
		t[n] = Triangle3{V: v}
		r.tri++
		n++
	}
	if n == 0 && len(t) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Reset rewinds r to its first triangle.
func (r *SceneRenderer) Reset() {
	r.prim, r.tri = 0, 0
}

// TriangleCount returns the number of triangles r streams in total.
func (r *SceneRenderer) TriangleCount() (n int) {
	for _, p := range r.prims {
		n += p.Solid.TriangleCount()
	}
	return n
}
