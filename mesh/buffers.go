package mesh

import (
	"errors"
	"fmt"

	math "github.com/chewxy/math32"
)

// ErrNonFinite is returned when a vertex attribute does not fit in a finite
// float32.
var ErrNonFinite = errors.New("non-finite vertex attribute")

// Buffers holds a solid packed as float32 GPU style arrays.
type Buffers struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32
}

// Buffers packs the solid into float32 attribute arrays. Values that
// overflow or are NaN are reported rather than uploaded.
func (s *Solid) Buffers() (Buffers, error) {
	n := len(s.Positions)
	if len(s.Normals) != n || len(s.UVs) != n {
		return Buffers{}, fmt.Errorf("attribute length mismatch: %d positions, %d normals, %d uvs", n, len(s.Normals), len(s.UVs))
	}
	b := Buffers{
		Positions: make([][3]float32, n),
		Normals:   make([][3]float32, n),
		UVs:       make([][2]float32, n),
		Indices:   append([]uint32(nil), s.Indices...),
	}
	for i := range s.Positions {
		p, nm, uv := s.Positions[i], s.Normals[i], s.UVs[i]
		b.Positions[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
		b.Normals[i] = [3]float32{float32(nm.X), float32(nm.Y), float32(nm.Z)}
		b.UVs[i] = [2]float32{float32(uv.X), float32(uv.Y)}
		if !finite(b.Positions[i][:]...) || !finite(b.Normals[i][:]...) || !finite(b.UVs[i][:]...) {
			return Buffers{}, fmt.Errorf("%w: vertex %d", ErrNonFinite, i)
		}
	}
	for _, idx := range b.Indices {
		if int(idx) >= n {
			return Buffers{}, fmt.Errorf("index %d out of range [0,%d)", idx, n)
		}
	}
	return b, nil
}

// Bounds returns the float32 minimum and maximum of the positions.
func (b Buffers) Bounds() (min, max [3]float32) {
	inf := math.Inf(1)
	min = [3]float32{inf, inf, inf}
	max = [3]float32{-inf, -inf, -inf}
	for _, p := range b.Positions {
		for k := range p {
			min[k] = math.Min(min[k], p[k])
			max[k] = math.Max(max[k], p[k])
		}
	}
	return min, max
}

func finite(v ...float32) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
