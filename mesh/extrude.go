package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/door/internal/d3"
	"github.com/soypat/door/profile"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidExtrusion is returned by Extrude for parameters that cannot
// produce a closed solid.
var ErrInvalidExtrusion = errors.New("invalid extrusion")

const levelTol = 1e-12

// ExtrusionSpec controls how a profile is swept along +Z.
//
// With the bevel enabled the edge between the front cap and the side walls
// is rounded over BevelThickness along Z and BevelSize in the plane. The back
// edge receives the same treatment, limited so both bevels fit in Depth.
// BevelSegments of one produces a chamfer, more approximate a quarter round.
//
// Bevels are cut inward: the solid never leaves the profile outline nor the
// [0, Depth] slab, and the bevelled caps shrink by BevelSize. This differs
// from the common convention of growing the outline by BevelSize and
// adding BevelThickness beyond each cap. To get an outward bevel, offset the
// profile by -BevelSize and add the thicknesses to Depth before extruding.
type ExtrusionSpec struct {
	Depth          float64
	BevelEnabled   bool
	BevelThickness float64
	BevelSize      float64
	BevelSegments  int
}

// Validate reports whether the spec can be extruded.
func (spec ExtrusionSpec) Validate() error {
	switch {
	case !(spec.Depth > 0) || math.IsInf(spec.Depth, 0):
		return fmt.Errorf("%w: depth %g must be positive", ErrInvalidExtrusion, spec.Depth)
	case !spec.BevelEnabled:
		return nil
	case !(spec.BevelThickness >= 0):
		return fmt.Errorf("%w: negative bevel thickness %g", ErrInvalidExtrusion, spec.BevelThickness)
	case spec.BevelThickness > spec.Depth:
		return fmt.Errorf("%w: bevel thickness %g exceeds depth %g", ErrInvalidExtrusion, spec.BevelThickness, spec.Depth)
	case !(spec.BevelSize >= 0) || math.IsInf(spec.BevelSize, 0):
		return fmt.Errorf("%w: bad bevel size %g", ErrInvalidExtrusion, spec.BevelSize)
	case spec.BevelSegments < 1:
		return fmt.Errorf("%w: bevel segments %d < 1", ErrInvalidExtrusion, spec.BevelSegments)
	}
	return nil
}

// level is one ring of the sweep: the profile inset by inset, placed at z.
type level struct {
	z, inset float64
}

// levels returns the rings of the sweep ordered from z=0 to z=Depth.
func (spec ExtrusionSpec) levels() []level {
	if !spec.BevelEnabled || spec.BevelThickness == 0 && spec.BevelSize == 0 {
		return []level{{0, 0}, {spec.Depth, 0}}
	}
	var lv []level
	add := func(z, inset float64) {
		if n := len(lv); n > 0 && math.Abs(lv[n-1].z-z) <= levelTol && math.Abs(lv[n-1].inset-inset) <= levelTol {
			return
		}
		lv = append(lv, level{z: z, inset: inset})
	}
	segs := spec.BevelSegments
	bt, bs := spec.BevelThickness, spec.BevelSize
	back := math.Min(bt, spec.Depth-bt)
	if back > levelTol {
		for k := segs; k >= 0; k-- {
			theta := float64(k) / float64(segs) * math.Pi / 2
			add(back-back*math.Sin(theta), bs*(1-math.Cos(theta)))
		}
	} else {
		add(0, 0)
	}
	for k := 0; k <= segs; k++ {
		theta := float64(k) / float64(segs) * math.Pi / 2
		add(spec.Depth-bt+bt*math.Sin(theta), bs*(1-math.Cos(theta)))
	}
	return lv
}

// Extrude sweeps p from z=0 to z=spec.Depth. The front cap lies at
// z=spec.Depth facing +Z, the back cap at z=0 facing -Z, and every outer and
// hole edge gets a side wall. Holes stay open through the solid.
//
// Default texture coordinates are local to the profile: caps span [0,1]
// over the profile bounds and side walls run along the contour. Use
// RemapUV to express them in a shared frame.
func Extrude(p profile.Profile, spec ExtrusionSpec) (*Solid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("extrude: %w", err)
	}
	lv := spec.levels()
	rings := make([]profile.Profile, len(lv))
	insets := make(map[float64]profile.Profile)
	for i, l := range lv {
		ring, ok := insets[l.inset]
		if !ok {
			var err error
			ring, err = p.Offset(l.inset)
			if err != nil {
				return nil, fmt.Errorf("%w: bevel size %g: %w", ErrInvalidExtrusion, spec.BevelSize, err)
			}
			insets[l.inset] = ring
		}
		rings[i] = ring
	}
	bmin, bmax := p.Bounds()
	size := r2.Sub(bmax, bmin)
	s := new(Solid)

	// Back cap faces -Z so its triangles are reversed.
	if err := s.cap(rings[0], lv[0].z, false, bmin, size); err != nil {
		return nil, err
	}
	last := len(lv) - 1
	if err := s.cap(rings[last], lv[last].z, true, bmin, size); err != nil {
		return nil, err
	}
	for i := 0; i < last; i++ {
		lo, hi := rings[i].Contours(), rings[i+1].Contours()
		for c := range lo {
			s.wall(lo[c], hi[c], lv[i].z, lv[i+1].z, spec.Depth)
		}
	}
	return s, nil
}

// MustExtrude is like Extrude but panics on error.
func MustExtrude(p profile.Profile, spec ExtrusionSpec) *Solid {
	s, err := Extrude(p, spec)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Solid) cap(p profile.Profile, z float64, front bool, origin, size r2.Vec) error {
	var pts []r2.Vec
	for _, c := range p.Contours() {
		pts = append(pts, c...)
	}
	tris, err := Triangulate(p.Outer, p.Holes)
	if err != nil {
		return fmt.Errorf("%w: cap at z=%g: %w", ErrInvalidExtrusion, z, err)
	}
	n := r3.Vec{Z: 1}
	if !front {
		n.Z = -1
	}
	base := uint32(len(s.Positions))
	for _, v := range pts {
		uv := r2.Vec{X: (v.X - origin.X) / size.X, Y: (v.Y - origin.Y) / size.Y}
		s.vertex(r3.Vec{X: v.X, Y: v.Y, Z: z}, n, uv)
	}
	for _, t := range tris {
		a, b, c := base+uint32(t[0]), base+uint32(t[1]), base+uint32(t[2])
		if front {
			s.triangle(a, b, c)
		} else {
			s.triangle(a, c, b)
		}
	}
	return nil
}

// wall joins two rings of the same contour with one flat shaded quad per
// edge. Material lies to the left of each contour edge so the quad normal
// points to the right, away from the material.
func (s *Solid) wall(lo, hi []r2.Vec, z0, z1, depth float64) {
	n := len(lo)
	var u float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a0 := r3.Vec{X: lo[i].X, Y: lo[i].Y, Z: z0}
		b0 := r3.Vec{X: lo[j].X, Y: lo[j].Y, Z: z0}
		b1 := r3.Vec{X: hi[j].X, Y: hi[j].Y, Z: z1}
		a1 := r3.Vec{X: hi[i].X, Y: hi[i].Y, Z: z1}
		normal := d3.Normal(a0, b0, b1)
		if normal == (r3.Vec{}) {
			normal = d3.Normal(a0, b1, a1)
		}
		edge := r2.Norm(r2.Sub(lo[j], lo[i]))
		v0, v1 := z0/depth, z1/depth
		ia := s.vertex(a0, normal, r2.Vec{X: u, Y: v0})
		ib := s.vertex(b0, normal, r2.Vec{X: u + edge, Y: v0})
		ic := s.vertex(b1, normal, r2.Vec{X: u + edge, Y: v1})
		id := s.vertex(a1, normal, r2.Vec{X: u, Y: v1})
		s.triangle(ia, ib, ic)
		s.triangle(ia, ic, id)
		u += edge
	}
}
