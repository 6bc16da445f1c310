package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"

	"github.com/soypat/door/material"
	"github.com/soypat/door/scene"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Elevation draws the front elevation of the scene under root: the outline
// of every primitive filled with its material colour, farthest first. Back
// panels are omitted. Axes are in feet.
func Elevation(root *scene.Node) (*plot.Plot, error) {
	type layer struct {
		p     scene.Primitive
		front float64
	}
	var layers []layer
	root.Walk(func(p scene.Primitive) error {
		if p.Outline == nil || p.Role == material.RoleBack || p.Solid.VertexCount() == 0 {
			return nil
		}
		layers = append(layers, layer{p: p, front: p.Solid.Bounds().Max.Z + p.World.Z})
		return nil
	})
	if len(layers) == 0 {
		return nil, errors.New("no outlined primitives to draw")
	}
	sort.SliceStable(layers, func(i, j int) bool { return layers[i].front < layers[j].front })

	plt := plot.New()
	plt.Title.Text = root.Name
	plt.X.Label.Text = "ft"
	plt.Y.Label.Text = "ft"
	bb := root.Bounds()
	plt.X.Min, plt.X.Max = bb.Min.X, bb.Max.X
	plt.Y.Min, plt.Y.Max = bb.Min.Y, bb.Max.Y
	for _, l := range layers {
		outline := l.p.Outline.Translate(r2.Vec{X: l.p.World.X, Y: l.p.World.Y})
		rings := make([]plotter.XYer, 0, 1+len(outline.Holes))
		for _, c := range outline.Contours() {
			rings = append(rings, ring(c))
		}
		poly, err := plotter.NewPolygon(rings...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.p.Name, err)
		}
		poly.Color = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
		poly.LineStyle.Width = vg.Points(0.5)
		poly.LineStyle.Color = color.NRGBA{A: 255}
		if m := l.p.Material; m != nil {
			c := m.Color
			c.A = uint8(255 * m.Alpha())
			poly.Color = c
			poly.LineStyle.Color = material.Shade(m.Color, 0.5)
		}
		plt.Add(poly)
	}
	return plt, nil
}

// WriteElevation draws the elevation of root width wide, keeping the
// aspect ratio of the door, and encodes it in format ("png", "svg", "pdf"...).
func WriteElevation(w io.Writer, root *scene.Node, width vg.Length, format string) error {
	plt, err := Elevation(root)
	if err != nil {
		return err
	}
	wt, err := plt.WriterTo(width, elevationHeight(root, width), format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveElevation writes the elevation of root to a file whose extension
// selects the format.
func SaveElevation(path string, root *scene.Node, width vg.Length) error {
	plt, err := Elevation(root)
	if err != nil {
		return err
	}
	return plt.Save(width, elevationHeight(root, width), path)
}

func elevationHeight(root *scene.Node, width vg.Length) vg.Length {
	bb := root.Bounds()
	sx, sy := bb.Max.X-bb.Min.X, bb.Max.Y-bb.Min.Y
	if sx <= 0 || sy <= 0 {
		return width
	}
	return width * vg.Length(sy/sx)
}

func ring(c []r2.Vec) plotter.XYs {
	xys := make(plotter.XYs, len(c))
	for i, v := range c {
		xys[i].X, xys[i].Y = v.X, v.Y
	}
	return xys
}
