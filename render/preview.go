package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/door/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures a shaded preview.
type View struct {
	Width, Height int // output size in pixels
	// Supersample renders at this multiple of the output size and scales
	// down for antialiasing. Values below 1 are treated as 1.
	Supersample int
	// FovY is the vertical field of view in radians.
	FovY float64
	// Offset backs the camera off from the fitting distance.
	Offset float64
	// Yaw and Pitch orbit the camera around the target, in radians.
	Yaw, Pitch float64
	Background color.NRGBA
	Light      r3.Vec // direction towards the light
}

// DefaultView is a three quarter front view.
func DefaultView() View {
	return View{
		Width:       960,
		Height:      540,
		Supersample: 2,
		FovY:        math.Pi / 4,
		Offset:      1.3,
		Yaw:         -0.35,
		Pitch:       0.15,
		Background:  color.NRGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF},
		Light:       r3.Vec{X: -0.75, Y: 1, Z: 1},
	}
}

// Preview rasterizes the scene under root with Phong shading, each
// primitive in the colour of its material.
func Preview(root *scene.Node, v View) image.Image {
	scale := max(v.Supersample, 1)
	w, h := v.Width*scale, v.Height*scale
	ctx := fauxgl.NewContext(w, h)
	ctx.ClearColorBufferWith(fauxglColor(v.Background, 1))

	bb := root.Bounds()
	if bb.Min.X > bb.Max.X {
		return ctx.Image()
	}
	cam := scene.Fit(bb, v.FovY, v.Offset)
	dist := r3.Norm(r3.Sub(cam.Position, cam.Target))
	eye := r3.Add(cam.Target, r3.Vec{
		X: dist * math.Sin(v.Yaw) * math.Cos(v.Pitch),
		Y: dist * math.Sin(v.Pitch),
		Z: dist * math.Cos(v.Yaw) * math.Cos(v.Pitch),
	})
	var (
		feye   = fauxglVec(eye)
		center = fauxglVec(cam.Target)
		up     = fauxgl.V(0, 1, 0)
		light  = fauxglVec(v.Light).Normalize()
		aspect = float64(w) / float64(h)
	)
	matrix := fauxgl.LookAt(feye, center, up).Perspective(cam.FovY*180/math.Pi, aspect, cam.Near, cam.Far)
	shader := fauxgl.NewPhongShader(matrix, light, feye)
	ctx.Shader = shader
	root.Walk(func(p scene.Primitive) error {
		m := fauxglMesh(p)
		if m == nil {
			return nil
		}
		shader.ObjectColor = fauxglColor(color.NRGBA{R: 180, G: 180, B: 180}, 1)
		if p.Material != nil {
			shader.ObjectColor = fauxglColor(p.Material.Color, p.Material.Alpha())
		}
		ctx.DrawMesh(m)
		return nil
	})
	img := ctx.Image()
	if scale > 1 {
		img = resize.Resize(uint(v.Width), uint(v.Height), img, resize.Bilinear)
	}
	return img
}

// WritePreviewPNG renders a preview and encodes it as PNG to w.
func WritePreviewPNG(w io.Writer, root *scene.Node, v View) error {
	return png.Encode(w, Preview(root, v))
}

func fauxglMesh(p scene.Primitive) *fauxgl.Mesh {
	s := p.Solid
	n := s.TriangleCount()
	if n == 0 {
		return nil
	}
	tris := make([]*fauxgl.Triangle, n)
	vertex := func(i uint32) fauxgl.Vertex {
		return fauxgl.Vertex{
			Position: fauxglVec(r3.Add(s.Positions[i], p.World)),
			Normal:   fauxglVec(s.Normals[i]),
		}
	}
	for i := range tris {
		idx := s.Indices[3*i : 3*i+3]
		tris[i] = &fauxgl.Triangle{V1: vertex(idx[0]), V2: vertex(idx[1]), V3: vertex(idx[2])}
	}
	return fauxgl.NewTriangleMesh(tris)
}

func fauxglVec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }

func fauxglColor(c color.NRGBA, alpha float64) fauxgl.Color {
	return fauxgl.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255, A: alpha}
}
