package mesh

import "gonum.org/v1/gonum/spatial/r2"

// RemapUV rewrites the texture coordinates of s into door space and
// returns s. Vertex X/Y are local to a part whose origin sits at offset in
// door coordinates, and the door of size door is centered on the origin:
//
//	u = (x + offset.X + door.X/2) / door.X
//	v = (y + offset.Y + door.Y/2) / door.Y
//
// Two parts sampling the same door point therefore get the same UV, which
// keeps a tiled texture continuous across part boundaries.
func RemapUV(s *Solid, offset, door r2.Vec) *Solid {
	half := r2.Scale(0.5, door)
	for i, p := range s.Positions {
		s.UVs[i] = r2.Vec{
			X: (p.X + offset.X + half.X) / door.X,
			Y: (p.Y + offset.Y + half.Y) / door.Y,
		}
	}
	return s
}

// DoorUV returns the door space texture coordinate of the local point p on a
// part placed at offset. It is the per-point form of RemapUV.
func DoorUV(p, offset, door r2.Vec) r2.Vec {
	return r2.Vec{
		X: (p.X + offset.X + door.X/2) / door.X,
		Y: (p.Y + offset.Y + door.Y/2) / door.Y,
	}
}
