package mesh

import (
	"errors"
	"math"
	"sort"

	"github.com/soypat/door/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

var errNoEar = errors.New("triangulation stalled: polygon is not simple")

// node is a vertex in the circular doubly linked polygon list used by
// ear clipping. Bridged holes duplicate nodes, so i may repeat.
type node struct {
	i          int
	p          r2.Vec
	prev, next *node
}

// Triangulate splits the polygon with holes into counter-clockwise triangles.
// outer must be counter-clockwise and holes clockwise. The returned indices
// address the concatenation of outer followed by every hole.
func Triangulate(outer []r2.Vec, holes [][]r2.Vec) ([][3]int, error) {
	start := linkRing(outer, 0)
	if start == nil {
		return nil, nil
	}
	offset := len(outer)
	type hole struct {
		right *node
	}
	var hs []hole
	for _, h := range holes {
		ring := linkRing(h, offset)
		offset += len(h)
		if ring == nil {
			continue
		}
		hs = append(hs, hole{right: rightmost(ring)})
	}
	// Bridge from the rightmost hole inwards so every ray cast to +x
	// meets rings that are already part of the outer polygon.
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].right.p.X > hs[j].right.p.X })
	for _, h := range hs {
		bridge := findBridge(h.right, start)
		if bridge == nil {
			return nil, errNoEar
		}
		split(bridge, h.right)
	}
	tris, err := clipEars(filter(start), offset)
	if err != nil {
		return tris, err
	}
	pts := make([]r2.Vec, 0, offset)
	pts = append(pts, outer...)
	for _, h := range holes {
		pts = append(pts, h...)
	}
	return conform(tris, pts), nil
}

// conform splits every triangle that has a contour vertex strictly inside
// one of its edges. Ear clipping skips collinear vertices, so without this
// a cap edge may run past hole corners where the side walls are split.
// The result shares each of its edges with exactly one neighbour or wall.
func conform(tris [][3]int, pts []r2.Vec) [][3]int {
	out := make([][3]int, 0, len(tris))
	for len(tris) > 0 {
		t := tris[len(tris)-1]
		tris = tris[:len(tris)-1]
		k, v := edgeVertex(t, pts)
		if v < 0 {
			out = append(out, t)
			continue
		}
		a, b, c := t[k], t[(k+1)%3], t[(k+2)%3]
		tris = append(tris, [3]int{a, v, c}, [3]int{v, b, c})
	}
	return out
}

// edgeVertex returns the edge k of t, from t[k] to t[k+1], holding pts[v]
// in its interior. v is negative when no edge does.
func edgeVertex(t [3]int, pts []r2.Vec) (k, v int) {
	for k = 0; k < 3; k++ {
		a, b := pts[t[k]], pts[t[(k+1)%3]]
		for i, p := range pts {
			if i == t[0] || i == t[1] || i == t[2] {
				continue
			}
			if onSegment(a, b, p) {
				return k, i
			}
		}
	}
	return 0, -1
}

// onSegment reports whether p lies on the open segment ab.
func onSegment(a, b, p r2.Vec) bool {
	const tol = 1e-12
	ab, ap := r2.Sub(b, a), r2.Sub(p, a)
	l2 := r2.Dot(ab, ab)
	if l2 == 0 || math.Abs(d2.Cross(ab, ap)) > tol*l2 {
		return false
	}
	proj := r2.Dot(ap, ab)
	return proj > tol*l2 && proj < (1-tol)*l2
}

func linkRing(c []r2.Vec, offset int) *node {
	var first, last *node
	for i, p := range c {
		n := &node{i: offset + i, p: p}
		if first == nil {
			first = n
		} else {
			last.next = n
			n.prev = last
		}
		last = n
	}
	if first == nil {
		return nil
	}
	last.next = first
	first.prev = last
	return first
}

func rightmost(start *node) *node {
	best := start
	for n := start.next; n != start; n = n.next {
		if n.p.X > best.p.X || (n.p.X == best.p.X && n.p.Y > best.p.Y) {
			best = n
		}
	}
	return best
}

// findBridge returns the outer polygon node m can be connected to without
// crossing any edge. A ray is cast from m towards +x and the nearest upward
// edge hit is selected; reflex vertices that shadow the hit are preferred.
func findBridge(m *node, outer *node) *node {
	var (
		hx   = math.Inf(1)
		cand *node
		mp   = m.p
	)
	p := outer
	for {
		q := p.next
		if p.p.Y <= mp.Y && mp.Y <= q.p.Y && p.p.Y < q.p.Y {
			x := p.p.X + (mp.Y-p.p.Y)*(q.p.X-p.p.X)/(q.p.Y-p.p.Y)
			if x >= mp.X && x < hx {
				hx = x
				if p.p.X > q.p.X {
					cand = p
				} else {
					cand = q
				}
				if x == mp.X {
					return cand
				}
			}
		}
		p = q
		if p == outer {
			break
		}
	}
	if cand == nil {
		return nil
	}
	hit := r2.Vec{X: hx, Y: mp.Y}
	if d2.EqualWithin(hit, cand.p, 0) {
		return cand
	}
	// Look for vertices inside triangle (m, hit, cand); the one making the
	// smallest angle with the ray is visible from m.
	tri := [3]r2.Vec{mp, hit, cand.p}
	if d2.Orient(tri[0], tri[1], tri[2]) < 0 {
		tri[1], tri[2] = tri[2], tri[1]
	}
	best := cand
	tanMin := math.Inf(1)
	p = outer
	for {
		if p != cand && mp.X <= p.p.X && p.p.X <= hx && p.p.X != mp.X &&
			inTriangle(tri[0], tri[1], tri[2], p.p) && locallyInside(p, mp) {
			tan := math.Abs(p.p.Y-mp.Y) / (p.p.X - mp.X)
			if tan < tanMin || (tan == tanMin && p.p.X > best.p.X) {
				best = p
				tanMin = tan
			}
		}
		p = p.next
		if p == outer {
			break
		}
	}
	return best
}

// split joins a (outer) and b (hole) with a zero width bridge:
// ... a -> b -> (hole) -> b2 -> a2 -> ... where a2, b2 duplicate a and b.
func split(a, b *node) {
	a2 := &node{i: a.i, p: a.p}
	b2 := &node{i: b.i, p: b.p}
	an, bp := a.next, b.prev
	a.next, b.prev = b, a
	a2.next, an.prev = an, a2
	b2.next, a2.prev = a2, b2
	bp.next, b2.prev = b2, bp
}

// locallyInside reports whether the diagonal from a towards p starts
// inside the polygon at a.
func locallyInside(a *node, p r2.Vec) bool {
	d := r2.Sub(p, a.p)
	toNext := r2.Sub(a.next.p, a.p)
	toPrev := r2.Sub(a.prev.p, a.p)
	if d2.Orient(a.prev.p, a.p, a.next.p) > 0 { // convex
		return d2.Cross(toNext, d) >= 0 && d2.Cross(d, toPrev) >= 0
	}
	return d2.Cross(toNext, d) >= 0 || d2.Cross(d, toPrev) >= 0
}

// inTriangle reports whether p lies inside or on counter-clockwise triangle abc.
func inTriangle(a, b, c, p r2.Vec) bool {
	return d2.Cross(r2.Sub(b, a), r2.Sub(p, a)) >= 0 &&
		d2.Cross(r2.Sub(c, b), r2.Sub(p, b)) >= 0 &&
		d2.Cross(r2.Sub(a, c), r2.Sub(p, c)) >= 0
}

// filter removes duplicate and collinear vertices starting at start.
func filter(start *node) *node {
	p := start
	for {
		again := false
		if p.next != p && p.next != p.prev &&
			(d2.EqualWithin(p.p, p.next.p, 0) || d2.Orient(p.prev.p, p.p, p.next.p) == 0 && !isBridge(p)) {
			p.prev.next = p.next
			p.next.prev = p.prev
			p = p.prev
			start = p
			again = true
		} else {
			p = p.next
		}
		if !again && p == start {
			return start
		}
	}
}

// isBridge reports whether p is the tip of a zero width bridge where the
// polygon doubles back on itself. Those nodes must be kept.
func isBridge(p *node) bool {
	return d2.EqualWithin(p.prev.p, p.next.p, 0)
}

func clipEars(ear *node, n int) ([][3]int, error) {
	tris := make([][3]int, 0, n)
	stop := ear
	pass := 0
	for ear.prev != ear.next {
		prev, next := ear.prev, ear.next
		if isEar(ear) {
			tris = append(tris, [3]int{prev.i, ear.i, next.i})
			prev.next = next
			next.prev = prev
			ear = next.next
			stop = next.next
			pass = 0
			continue
		}
		ear = next
		if ear == stop {
			if pass > 0 {
				return tris, errNoEar
			}
			// A full loop without ears: drop degenerate vertices and retry.
			ear = filter(ear)
			stop = ear
			pass++
		}
	}
	return tris, nil
}

func isEar(ear *node) bool {
	a, b, c := ear.prev.p, ear.p, ear.next.p
	if d2.Orient(a, b, c) <= 0 {
		return false // reflex or degenerate
	}
	for p := ear.next.next; p != ear.prev; p = p.next {
		if d2.EqualWithin(p.p, a, 0) || d2.EqualWithin(p.p, b, 0) || d2.EqualWithin(p.p, c, 0) {
			continue
		}
		if inTriangle(a, b, c, p.p) && d2.Orient(p.prev.p, p.p, p.next.p) <= 0 {
			return false
		}
	}
	return true
}
