// Package profile builds planar outlines with nested holes. Profiles are
// the cross sections the mesh package sweeps into solids.
package profile

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/door/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerate is returned for outlines with no area, holes that escape
// the outer boundary, overlapping holes or self-intersecting contours.
var ErrDegenerate = errors.New("degenerate profile")

const tolerance = 1e-12

// Profile is a closed outer polyline wound counter-clockwise and zero or more
// clockwise hole polylines. The last point of every contour connects back
// to its first point.
type Profile struct {
	Outer []r2.Vec
	Holes [][]r2.Vec
}

// New returns a Profile from an outer contour and holes given in any
// winding order. Windings are normalized and the result is validated.
func New(outer []r2.Vec, holes ...[]r2.Vec) (Profile, error) {
	p := Profile{Outer: normalize(outer, true)}
	for _, h := range holes {
		p.Holes = append(p.Holes, normalize(h, false))
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// RectWithHoles returns the profile of outer with every rectangle in holes
// cut out of it. Holes must lie strictly inside outer and must not touch
// one another. Invalid rectangles are reported, never repaired.
func RectWithHoles(outer Rect, holes ...Rect) (Profile, error) {
	if outer.Degenerate() {
		return Profile{}, fmt.Errorf("%w: outer size %v", ErrDegenerate, outer.Size)
	}
	ob := outer.box()
	p := Profile{Outer: outer.Contour()}
	for i, h := range holes {
		if h.Degenerate() {
			return Profile{}, fmt.Errorf("%w: hole %d size %v", ErrDegenerate, i, h.Size)
		}
		hb := h.box()
		if !ob.ContainsBox(hb) {
			return Profile{}, fmt.Errorf("%w: hole %d exceeds outer bounds", ErrDegenerate, i)
		}
		for j := range holes[:i] {
			if hb.Overlaps(holes[j].box()) {
				return Profile{}, fmt.Errorf("%w: holes %d and %d overlap", ErrDegenerate, j, i)
			}
		}
		p.Holes = append(p.Holes, d2.Set(h.Contour()).Reverse())
	}
	return p, nil
}

// MustRectWithHoles is like RectWithHoles but panics on invalid input.
func MustRectWithHoles(outer Rect, holes ...Rect) Profile {
	p, err := RectWithHoles(outer, holes...)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate checks the winding, containment and intersection invariants.
func (p Profile) Validate() error {
	if len(p.Outer) < 3 || d2.Set(p.Outer).SignedArea() <= tolerance {
		return fmt.Errorf("%w: outer contour has no counter-clockwise area", ErrDegenerate)
	}
	if selfIntersects(p.Outer) {
		return fmt.Errorf("%w: outer contour self-intersects", ErrDegenerate)
	}
	outer := d2.Set(p.Outer)
	for i, h := range p.Holes {
		if len(h) < 3 || d2.Set(h).SignedArea() >= -tolerance {
			return fmt.Errorf("%w: hole %d has no clockwise area", ErrDegenerate, i)
		}
		if selfIntersects(h) {
			return fmt.Errorf("%w: hole %d self-intersects", ErrDegenerate, i)
		}
		for _, v := range h {
			if !outer.Contains(v) {
				return fmt.Errorf("%w: hole %d escapes outer contour", ErrDegenerate, i)
			}
		}
		if crosses(p.Outer, h) {
			return fmt.Errorf("%w: hole %d crosses outer contour", ErrDegenerate, i)
		}
		hb := d2.Set(h).Bounds()
		for j := range p.Holes[:i] {
			if hb.Overlaps(d2.Set(p.Holes[j]).Bounds()) {
				return fmt.Errorf("%w: holes %d and %d overlap", ErrDegenerate, j, i)
			}
		}
	}
	return nil
}

// Contours returns the outer contour followed by every hole.
func (p Profile) Contours() [][]r2.Vec {
	c := make([][]r2.Vec, 0, 1+len(p.Holes))
	c = append(c, p.Outer)
	return append(c, p.Holes...)
}

// Bounds returns the bounding box of the outer contour.
func (p Profile) Bounds() (min, max r2.Vec) {
	s := d2.Set(p.Outer)
	return s.Min(), s.Max()
}

// Area returns the area of material: outer area less hole area.
func (p Profile) Area() float64 {
	a := d2.Set(p.Outer).SignedArea()
	for _, h := range p.Holes {
		a += d2.Set(h).SignedArea() // negative
	}
	return a
}

// Translate returns a copy of p moved by v.
func (p Profile) Translate(v r2.Vec) Profile {
	out := Profile{Outer: translate(p.Outer, v)}
	for _, h := range p.Holes {
		out.Holes = append(out.Holes, translate(h, v))
	}
	return out
}

// Offset moves every contour edge by d into the material: the outer contour
// shrinks and holes grow. Vertices move along the corner bisector so
// rectangles stay rectangles. An error is returned if the result collapses.
func (p Profile) Offset(d float64) (Profile, error) {
	if d == 0 {
		return p, nil
	}
	out := Profile{Outer: offset(p.Outer, d)}
	for _, h := range p.Holes {
		out.Holes = append(out.Holes, offset(h, d))
	}
	if err := out.Validate(); err != nil {
		return Profile{}, fmt.Errorf("offset %g: %w", d, err)
	}
	return out, nil
}

func offset(c []r2.Vec, d float64) []r2.Vec {
	n := len(c)
	out := make([]r2.Vec, n)
	for i := range c {
		prev, cur, next := c[(i+n-1)%n], c[i], c[(i+1)%n]
		n1 := d2.LeftNormal(r2.Unit(r2.Sub(cur, prev)))
		n2 := d2.LeftNormal(r2.Unit(r2.Sub(next, cur)))
		m := r2.Add(n1, n2)
		if r2.Norm(m) < tolerance {
			m = n1
		}
		m = r2.Unit(m)
		out[i] = r2.Add(cur, r2.Scale(d/r2.Dot(m, n1), m))
	}
	return out
}

func normalize(c []r2.Vec, ccw bool) []r2.Vec {
	c = append([]r2.Vec(nil), c...)
	if len(c) > 1 && d2.EqualWithin(c[0], c[len(c)-1], tolerance) {
		c = c[:len(c)-1]
	}
	if (d2.Set(c).SignedArea() > 0) != ccw {
		return d2.Set(c).Reverse()
	}
	return c
}

func translate(c []r2.Vec, v r2.Vec) []r2.Vec {
	out := make([]r2.Vec, len(c))
	for i := range c {
		out[i] = r2.Add(c[i], v)
	}
	return out
}

// selfIntersects reports whether any two non-adjacent edges of c cross.
func selfIntersects(c []r2.Vec) bool {
	n := len(c)
	for i := 0; i < n; i++ {
		a0, a1 := c[i], c[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the closing edge
			}
			if segmentsIntersect(a0, a1, c[j], c[(j+1)%n]) {
				return true
			}
		}
	}
	return false
}

func crosses(a, b []r2.Vec) bool {
	for i := range a {
		for j := range b {
			if segmentsIntersect(a[i], a[(i+1)%len(a)], b[j], b[(j+1)%len(b)]) {
				return true
			}
		}
	}
	return false
}

// segmentsIntersect reports whether segments p0p1 and q0q1 touch or cross.
func segmentsIntersect(p0, p1, q0, q1 r2.Vec) bool {
	o1 := d2.Orient(q0, q1, p0)
	o2 := d2.Orient(q0, q1, p1)
	o3 := d2.Orient(p0, p1, q0)
	o4 := d2.Orient(p0, p1, q1)
	if ((o1 > tolerance && o2 < -tolerance) || (o1 < -tolerance && o2 > tolerance)) &&
		((o3 > tolerance && o4 < -tolerance) || (o3 < -tolerance && o4 > tolerance)) {
		return true
	}
	return (math.Abs(o1) <= tolerance && onSegment(q0, q1, p0)) ||
		(math.Abs(o2) <= tolerance && onSegment(q0, q1, p1)) ||
		(math.Abs(o3) <= tolerance && onSegment(p0, p1, q0)) ||
		(math.Abs(o4) <= tolerance && onSegment(p0, p1, q1))
}

// onSegment reports whether p, known collinear with ab, lies within its extent.
func onSegment(a, b, p r2.Vec) bool {
	return math.Min(a.X, b.X)-tolerance <= p.X && p.X <= math.Max(a.X, b.X)+tolerance &&
		math.Min(a.Y, b.Y)-tolerance <= p.Y && p.Y <= math.Max(a.Y, b.Y)+tolerance
}
