package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Elem returns a vector with both components set to v.
func Elem(v float64) r2.Vec {
	return r2.Vec{X: v, Y: v}
}

func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// LTEZero returns true if any vector components are <= 0.
func LTEZero(a r2.Vec) bool {
	return (a.X <= 0) || (a.Y <= 0)
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

func Min(a r2.Vec) float64 {
	return math.Min(a.X, a.Y)
}

// Cross returns the z component of the 3d cross product of a and b.
// It is positive when b is counter-clockwise from a.
func Cross(a, b r2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Orient returns twice the signed area of triangle abc.
// Positive for counter-clockwise winding.
func Orient(a, b, c r2.Vec) float64 {
	return Cross(r2.Sub(b, a), r2.Sub(c, b))
}

// LeftNormal returns v rotated 90 degrees counter-clockwise.
func LeftNormal(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.Y, Y: v.X}
}

// Set is a closed polyline. The last point connects back to the first.
type Set []r2.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() r2.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() r2.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}

// Bounds returns the bounding box of the set.
func (a Set) Bounds() Box {
	return Box{Min: a.Min(), Max: a.Max()}
}

// SignedArea returns the shoelace area of the closed polyline.
// Counter-clockwise sets have positive area.
func (a Set) SignedArea() float64 {
	var sum float64
	for i := range a {
		j := (i + 1) % len(a)
		sum += Cross(a[i], a[j])
	}
	return sum / 2
}

// Reverse returns a copy of the set in opposite winding order.
func (a Set) Reverse() Set {
	r := make(Set, len(a))
	for i, v := range a {
		r[len(a)-1-i] = v
	}
	return r
}

// Contains reports whether p lies strictly inside the closed polyline
// using the even-odd crossing rule. Points on the boundary may return either value.
func (a Set) Contains(p r2.Vec) bool {
	inside := false
	for i, j := 0, len(a)-1; i < len(a); j, i = i, i+1 {
		vi, vj := a[i], a[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			x := vj.X + (p.Y-vj.Y)*(vi.X-vj.X)/(vi.Y-vj.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
