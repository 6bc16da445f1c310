package render_test

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/soypat/door"
	"github.com/soypat/door/material"
	"github.com/soypat/door/render"
	"github.com/soypat/door/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/vg"
)

func TestSceneRenderer(t *testing.T) {
	a := testAssembly(t, door.CarriageHouse)
	st := a.Stats()
	r := render.NewSceneRenderer(a.Root, nil)
	assert.Equal(t, st.Triangles, r.TriangleCount())
	all, err := render.RenderAll(r)
	require.NoError(t, err)
	assert.Len(t, all, st.Triangles)

	// Every triangle lies in the assembly bounds once translated to world space.
	bb := a.Bounds
	const tol = 1e-9
	for _, tri := range all {
		for _, v := range tri.V {
			if v.X < bb.Min.X-tol || v.X > bb.Max.X+tol || v.Y < bb.Min.Y-tol || v.Y > bb.Max.Y+tol || v.Z < bb.Min.Z-tol || v.Z > bb.Max.Z+tol {
				t.Fatalf("vertex %v outside bounds %v", v, bb)
			}
		}
	}

	r.Reset()
	again, err := render.RenderAll(r)
	require.NoError(t, err)
	assert.Equal(t, all, again)

	opaque, err := render.RenderAll(render.NewSceneRenderer(a.Root, render.Opaque))
	require.NoError(t, err)
	var shadow int
	a.Root.Walk(func(p scene.Primitive) error {
		if p.Role == material.RoleShadow {
			shadow += p.Solid.TriangleCount()
		}
		return nil
	})
	assert.Positive(t, shadow)
	assert.Len(t, opaque, st.Triangles-shadow)
}

func TestTriangleNormal(t *testing.T) {
	tri := render.Triangle3{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}
	assert.Equal(t, r3.Vec{Z: 1}, tri.Normal())
	assert.Equal(t, r3.Vec{}, render.Triangle3{}.Normal())
}

func TestWriteGLB(t *testing.T) {
	a := testAssembly(t, door.CarriageHouse)
	var b bytes.Buffer
	require.NoError(t, render.WriteGLB(&b, a.Root))
	assert.Equal(t, "glTF", b.String()[:4])

	var doc gltf.Document
	require.NoError(t, gltf.NewDecoder(&b).Decode(&doc))
	st := a.Stats()
	assert.Len(t, doc.Meshes, st.Primitives)
	assert.Len(t, doc.Nodes, st.Primitives)
	require.Len(t, doc.Scenes, 1)
	assert.Len(t, doc.Scenes[0].Nodes, st.Primitives)

	var blend int
	for _, m := range doc.Materials {
		require.NotNil(t, m.PBRMetallicRoughness)
		if m.AlphaMode == gltf.AlphaBlend {
			blend++
		}
	}
	// Only the shared shadow material blends.
	assert.Equal(t, 1, blend)
	assert.LessOrEqual(t, len(doc.Materials), 7)
	for _, m := range doc.Meshes {
		require.Len(t, m.Primitives, 1)
		attr := m.Primitives[0].Attributes
		assert.Contains(t, attr, gltf.POSITION)
		assert.Contains(t, attr, gltf.NORMAL)
		assert.Contains(t, attr, gltf.TEXCOORD_0)
	}
}

func TestWriteGLBEmpty(t *testing.T) {
	var b bytes.Buffer
	assert.ErrorIs(t, render.WriteGLB(&b, scene.NewGroup("empty")), render.ErrEmptyModel)
}

func TestPreview(t *testing.T) {
	a := testAssembly(t, door.RaisedPanel)
	v := render.DefaultView()
	v.Width, v.Height = 64, 36
	img := render.Preview(a.Root, v)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 36, img.Bounds().Dy())

	bg := v.Background
	var drawn int
	for y := 0; y < 36; y++ {
		for x := 0; x < 64; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c != bg {
				drawn++
			}
		}
	}
	assert.Positive(t, drawn, "preview is blank")

	var b bytes.Buffer
	require.NoError(t, render.WritePreviewPNG(&b, a.Root, v))
	cfg, err := png.DecodeConfig(&b)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
}

func TestElevation(t *testing.T) {
	a := testAssembly(t, door.CarriageHouse)
	plt, err := render.Elevation(a.Root)
	require.NoError(t, err)
	assert.InDelta(t, a.Bounds.Min.X, plt.X.Min, 1e-9)
	assert.InDelta(t, a.Bounds.Max.Y, plt.Y.Max, 1e-9)

	var b bytes.Buffer
	require.NoError(t, render.WriteElevation(&b, a.Root, 4*vg.Inch, "png"))
	cfg, err := png.DecodeConfig(&b)
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, cfg.Height)

	_, err = render.Elevation(scene.NewGroup("empty"))
	assert.Error(t, err)
}
