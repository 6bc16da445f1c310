package d3

import "gonum.org/v1/gonum/spatial/r3"

// Normal returns the unit normal of triangle abc following the right hand rule.
// Degenerate triangles return the zero vector.
func Normal(a, b, c r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// Area returns the area of triangle abc.
func Area(a, b, c r3.Vec) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}
