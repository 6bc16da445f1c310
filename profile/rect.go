package profile

import (
	"github.com/soypat/door/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Rect is an axis aligned rectangle described by its center and size.
type Rect struct {
	Center r2.Vec
	Size   r2.Vec
}

// NewRect returns the rectangle of size (w,h) centered at (cx,cy).
func NewRect(cx, cy, w, h float64) Rect {
	return Rect{Center: r2.Vec{X: cx, Y: cy}, Size: r2.Vec{X: w, Y: h}}
}

// Min returns the bottom left corner.
func (r Rect) Min() r2.Vec { return r2.Sub(r.Center, r2.Scale(0.5, r.Size)) }

// Max returns the top right corner.
func (r Rect) Max() r2.Vec { return r2.Add(r.Center, r2.Scale(0.5, r.Size)) }

// Shrink returns r with every side moved inward by d.
func (r Rect) Shrink(d float64) Rect {
	r.Size = r2.Sub(r.Size, d2.Elem(2*d))
	return r
}

// Grow returns r with every side moved outward by d.
func (r Rect) Grow(d float64) Rect { return r.Shrink(-d) }

// Translate returns r moved by v.
func (r Rect) Translate(v r2.Vec) Rect {
	r.Center = r2.Add(r.Center, v)
	return r
}

// Degenerate reports whether r has no area.
func (r Rect) Degenerate() bool { return d2.LTEZero(r.Size) }

// Contour returns the corners of r in counter-clockwise order.
func (r Rect) Contour() []r2.Vec {
	return r.box().Vertices()
}

func (r Rect) box() d2.Box {
	return d2.NewBox(r.Center, r.Size)
}
