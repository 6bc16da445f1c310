// Package scene is the node tree door geometry is handed to renderers in.
// Nodes carry a translation only; rotation and scale are never needed for
// door assemblies.
package scene

import (
	"math"

	"github.com/soypat/door/internal/d3"
	"github.com/soypat/door/material"
	"github.com/soypat/door/mesh"
	"github.com/soypat/door/profile"
	"gonum.org/v1/gonum/spatial/r3"
)

// Node is either a group of child nodes or a primitive holding a solid.
type Node struct {
	Name     string
	Position r3.Vec
	Children []*Node

	// Primitive fields.
	Solid    *mesh.Solid
	Material *material.Material
	Role     material.Role
	// Outline is the profile the solid was swept from, in node coordinates.
	Outline       *profile.Profile
	CastShadow    bool
	ReceiveShadow bool
}

// NewGroup returns an empty group node.
func NewGroup(name string) *Node {
	return &Node{Name: name}
}

// NewPrimitive returns a node drawing s with the material of role r in mats.
func NewPrimitive(name string, s *mesh.Solid, mats *material.Set, r material.Role) *Node {
	return &Node{
		Name:          name,
		Solid:         s,
		Material:      mats.Get(r),
		Role:          r,
		CastShadow:    r != material.RoleShadow,
		ReceiveShadow: r != material.RoleShadow,
	}
}

// IsPrimitive reports whether n draws geometry.
func (n *Node) IsPrimitive() bool { return n.Solid != nil }

// Add appends children to n and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// At sets the node position and returns n.
func (n *Node) At(p r3.Vec) *Node {
	n.Position = p
	return n
}

// Primitive is a drawable node with its world translation resolved.
type Primitive struct {
	*Node
	World r3.Vec
	Depth int
}

// Walk calls fn for every primitive below and including n in depth first
// order. The translation of n itself is included in World. Walk stops at
// the first error fn returns.
func (n *Node) Walk(fn func(Primitive) error) error {
	return n.walk(r3.Vec{}, 0, fn)
}

func (n *Node) walk(parent r3.Vec, depth int, fn func(Primitive) error) error {
	world := r3.Add(parent, n.Position)
	if n.IsPrimitive() {
		if err := fn(Primitive{Node: n, World: world, Depth: depth}); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := c.walk(world, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Bounds returns the bounding volume of every primitive under n, including
// the translation of n. An empty tree returns an empty box with Min > Max.
func (n *Node) Bounds() r3.Box {
	bb := d3.EmptyBox()
	n.Walk(func(p Primitive) error {
		if p.Solid.VertexCount() > 0 {
			bb = bb.Extend(d3.Box(p.Solid.Bounds()).Translate(p.World))
		}
		return nil
	})
	return r3.Box(bb)
}

// Release drops the geometry and children of n so nothing it referenced is
// kept alive. Materials are not owned by nodes and are left untouched.
func (n *Node) Release() {
	for _, c := range n.Children {
		c.Release()
	}
	if n.Solid != nil {
		n.Solid.Release()
	}
	n.Children = nil
	n.Solid = nil
	n.Material = nil
	n.Outline = nil
}

// Stats summarises a node tree.
type Stats struct {
	Groups     int
	Primitives int
	Vertices   int
	Triangles  int
}

// Stats counts the nodes and geometry under n.
func (n *Node) Stats() Stats {
	var st Stats
	n.stats(&st)
	return st
}

func (n *Node) stats(st *Stats) {
	if n.IsPrimitive() {
		st.Primitives++
		st.Vertices += n.Solid.VertexCount()
		st.Triangles += n.Solid.TriangleCount()
	} else {
		st.Groups++
	}
	for _, c := range n.Children {
		c.stats(st)
	}
}

// Camera frames a bounding volume from the +Z side.
type Camera struct {
	Target   r3.Vec
	Position r3.Vec
	// FovY is the vertical field of view in radians.
	FovY      float64
	Near, Far float64
	// MinDistance and MaxDistance bound orbit zoom.
	MinDistance, MaxDistance float64
}

// FitDistance returns the distance at which the largest dimension of bb fills
// the vertical field of view fovY, in radians.
func FitDistance(bb r3.Box, fovY float64) float64 {
	maxSize := d3.Max(d3.Box(bb).Size())
	return maxSize / 2 / math.Tan(fovY/2)
}

// Fit places a camera looking down -Z at the center of bb, backed off by
// the factor offset from the fitting distance.
func Fit(bb r3.Box, fovY, offset float64) Camera {
	dist := math.Max(FitDistance(bb, fovY)*offset, 0.1)
	center := d3.Box(bb).Center()
	return Camera{
		Target:      center,
		Position:    r3.Add(center, r3.Vec{Z: dist}),
		FovY:        fovY,
		Near:        dist / 100,
		Far:         dist * 100,
		MinDistance: dist / 4,
		MaxDistance: dist * 4,
	}
}
