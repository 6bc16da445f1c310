package panel

import (
	"errors"
	"testing"

	"github.com/soypat/door/internal/d3"
	"github.com/soypat/door/material"
	"github.com/soypat/door/mesh"
	"github.com/soypat/door/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func testMaterials() *material.Set {
	return material.NewSet(material.SwatchAt(0), nil, 16, 7)
}

func TestClassify(t *testing.T) {
	k := RaisedParams()
	ms := MinSize(k)
	for _, test := range []struct {
		size r2.Vec
		want Fit
	}{
		{size: r2.Vec{X: 3.2, Y: 1.3}, want: FitFull},
		{size: r2.Vec{X: ms + 1e-6, Y: ms + 1e-6}, want: FitFull},
		{size: r2.Vec{X: ms - 1e-6, Y: 2}, want: FitFlatCenter},
		{size: r2.Vec{X: 0.2, Y: 0.2}, want: FitFlatCenter},
		{size: r2.Vec{X: 0.12, Y: 3}, want: FitInset},
		{size: r2.Vec{X: 0.01, Y: 0.01}, want: FitInset},
	} {
		got, err := Classify(test.size, k)
		require.NoError(t, err)
		if got != test.want {
			t.Errorf("size %v: got %s, want %s", test.size, got, test.want)
		}
	}
	_, err := Classify(r2.Vec{X: 0, Y: 1}, k)
	assert.True(t, errors.Is(err, ErrPanelTooSmall))
	_, err = Compose(Position{Size: r2.Vec{X: 1, Y: -1}}, Frame{Door: r2.Vec{X: 1, Y: 1}}, k, testMaterials())
	assert.ErrorIs(t, err, ErrPanelTooSmall)
}

func TestComposeRaised(t *testing.T) {
	mats := testMaterials()
	pos := Position{Center: r2.Vec{X: 2, Y: 0.1}, Size: r2.Vec{X: 3.2, Y: 1.3}}
	n := MustCompose(pos, Frame{Door: r2.Vec{X: 16, Y: 7}}, RaisedParams(), mats)
	require.Len(t, n.Children, 3)
	want := []struct {
		name       string
		role       material.Role
		zmin, zmax float64
	}{
		{"roundover", material.RolePanel, -RoundoverDepth, 0},
		{"deep", material.RoleGroove, -RecessDepth, -RoundoverDepth},
		{"center", material.RoleBase, -RecessDepth, 0},
	}
	for i, w := range want {
		c := n.Children[i]
		assert.Equal(t, w.name, c.Name)
		assert.Equal(t, w.role, c.Role)
		assert.Same(t, mats.Get(w.role), c.Material)
		require.NotNil(t, c.Outline)
		bb := c.Solid.Bounds()
		assert.InDelta(t, w.zmin, bb.Min.Z, 1e-12, w.name)
		assert.InDelta(t, w.zmax, bb.Max.Z, 1e-12, w.name)
	}
	bb := d3.Box(n.Bounds())
	wantBox := d3.Box{Min: r3.Vec{X: 0.4, Y: -0.55, Z: -RecessDepth}, Max: r3.Vec{X: 3.6, Y: 0.75}}
	assert.True(t, bb.Equals(wantBox, 1e-9), "bounds %+v", bb)
}

func TestComposeCarriage(t *testing.T) {
	frame := Frame{Door: r2.Vec{X: 16, Y: 7}}
	n := MustCompose(Position{Size: r2.Vec{X: 3.2, Y: 1.3}}, frame, CarriageParams(), testMaterials())
	var vgrooves int
	for _, c := range n.Children {
		if c.Role == material.RoleVGroove {
			vgrooves++
			bb := c.Solid.Bounds()
			assert.InDelta(t, -RecessDepth, bb.Min.Z, 1e-12)
			assert.Less(t, bb.Max.Z, 0.0)
		}
	}
	assert.Equal(t, NumGrooves, vgrooves)
	assert.Len(t, n.Children, 3+NumGrooves)
	center := n.Children[2]
	assert.Len(t, center.Outline.Holes, NumGrooves)

	// Narrow panels keep fewer grooves instead of failing.
	n = MustCompose(Position{Size: r2.Vec{X: 1, Y: 1}}, frame, CarriageParams(), testMaterials())
	holes := len(n.Children[2].Outline.Holes)
	assert.Greater(t, holes, 0)
	assert.Less(t, holes, NumGrooves)
}

func TestComposeDegraded(t *testing.T) {
	frame := Frame{Door: r2.Vec{X: 4, Y: 4}}
	n := MustCompose(Position{Size: r2.Vec{X: 0.3, Y: 0.3}}, frame, RaisedParams(), testMaterials())
	require.Len(t, n.Children, 2)
	assert.Equal(t, "roundover", n.Children[0].Name)
	assert.Equal(t, "center", n.Children[1].Name)

	n = MustCompose(Position{Size: r2.Vec{X: 0.1, Y: 0.3}}, frame, RaisedParams(), testMaterials())
	require.Len(t, n.Children, 1)
	bb := n.Children[0].Solid.Bounds()
	assert.InDelta(t, -SlabThickness, bb.Min.Z, 1e-12)
	assert.InDelta(t, -RoundoverDepth, bb.Max.Z, 1e-12)
}

func TestComposeUVContinuity(t *testing.T) {
	frame := Frame{Offset: r2.Vec{Y: 0.5}, Door: r2.Vec{X: 4, Y: 3}}
	size := r2.Vec{X: 2, Y: 1}
	left := MustCompose(Position{Center: r2.Vec{X: -1, Y: 0.2}, Size: size}, frame, RaisedParams(), testMaterials())
	right := MustCompose(Position{Center: r2.Vec{X: 1, Y: 0.2}, Size: size}, frame, RaisedParams(), testMaterials())

	// The shared edge x=0 is local x=+1 on the left panel and x=-1 on the right.
	l := uvAt(t, left.Children[0], r2.Vec{X: 1, Y: 0.5})
	r := uvAt(t, right.Children[0], r2.Vec{X: -1, Y: 0.5})
	assert.InDelta(t, l.X, r.X, 1e-12)
	assert.InDelta(t, l.Y, r.Y, 1e-12)
	assert.InDelta(t, 0.5, l.X, 1e-12)
	assert.InDelta(t, (0.5+0.2+0.5+1.5)/3, l.Y, 1e-12)

	// Every vertex of every layer maps through the door frame.
	for _, n := range []*scene.Node{left, right} {
		offset := r2.Add(frame.Offset, r2.Vec{X: n.Position.X, Y: n.Position.Y})
		n.Walk(func(p scene.Primitive) error {
			for i, v := range p.Solid.Positions {
				want := mesh.DoorUV(r2.Vec{X: v.X, Y: v.Y}, offset, frame.Door)
				if !closeUV(want, p.Solid.UVs[i]) {
					t.Fatalf("%s vertex %d: uv %v want %v", p.Name, i, p.Solid.UVs[i], want)
				}
			}
			return nil
		})
	}
}

func uvAt(t *testing.T, n *scene.Node, xy r2.Vec) r2.Vec {
	t.Helper()
	for i, v := range n.Solid.Positions {
		if v.X == xy.X && v.Y == xy.Y {
			return n.Solid.UVs[i]
		}
	}
	t.Fatalf("%s has no vertex at %v", n.Name, xy)
	return r2.Vec{}
}

func closeUV(a, b r2.Vec) bool {
	d := r2.Sub(a, b)
	return d.X*d.X+d.Y*d.Y < 1e-20
}
