// Package style lays out door sections. Every door style is the same
// builder driven by a different Layout.
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soypat/door/material"
	"github.com/soypat/door/mesh"
	"github.com/soypat/door/panel"
	"github.com/soypat/door/profile"
	"github.com/soypat/door/scene"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Style names as presented to users.
const (
	NameRaisedPanel   = "Raised Panel"
	NameCarriageHouse = "Carriage House"
	NameFlush         = "Flush"
	NameModernSteel   = "Modern Steel"
	NameSimple        = "Simple"
)

// Trim overlay dimensions in feet.
const (
	TrimThickness = 0.03
	// RailFraction of the section height is covered by each rail.
	RailFraction = 0.05
	// StileFraction of a column width is covered by each stile.
	StileFraction = 0.05
	StileMax      = 0.25
)

// Frame is the rectangle a builder fills, in section coordinates centered
// on the origin, along with its place in the door for UV mapping.
type Frame struct {
	Width, Height float64
	// OffsetY is the frame center in door coordinates.
	OffsetY float64
	// Door is the full door width and height.
	Door r2.Vec
}

// ColumnRule returns the number of panel columns for a door width in feet.
type ColumnRule func(width float64) int

// Columns is the column rule shared by paneled styles.
func Columns(width float64) int {
	switch {
	case width <= 10:
		return 2
	case width <= 14:
		return 3
	}
	return 4
}

// SectionRule picks how many horizontal sections a door height in feet
// is split into: 4 below 8 ft, 5 below Five (or up to Five when
// Inclusive) and 6 above.
type SectionRule struct {
	Five      float64
	Inclusive bool
}

// Count returns the number of sections for height h.
func (r SectionRule) Count(h float64) int {
	switch {
	case h < 8:
		return 4
	case h < r.Five || r.Inclusive && h == r.Five:
		return 5
	}
	return 6
}

// Layout parameterizes a style.
type Layout struct {
	Name string
	// Sectioned styles are split into horizontal sections. Others are one
	// full height slab.
	Sectioned bool
	Sections  SectionRule
	// Panels enables decorative panels laid out by Columns.
	Panels  bool
	Columns ColumnRule
	// PanelFill is the fraction of a grid cell a panel covers.
	PanelFill r2.Vec
	Panel     panel.Params
	// FrameBevel bevels the slab edges around panel openings.
	FrameBevel bool
	// Rails and Stiles add the trim overlay in front of the slab.
	Rails, Stiles bool
}

// Builder builds one section, or the whole door for unsectioned styles.
type Builder interface {
	Name() string
	Layout() Layout
	Build(f Frame, mats *material.Set) (*scene.Node, error)
}

var (
	// RaisedPanel is a grid of raised panels with a beveled frame.
	RaisedPanel Builder = New(Layout{
		Name:       NameRaisedPanel,
		Sectioned:  true,
		Sections:   SectionRule{Five: 9},
		Panels:     true,
		Columns:    Columns,
		PanelFill:  r2.Vec{X: 0.8, Y: 0.8},
		Panel:      panel.RaisedParams(),
		FrameBevel: true,
	})
	// CarriageHouse is a grid of grooved panels behind rail and stile trim.
	CarriageHouse Builder = New(Layout{
		Name:       NameCarriageHouse,
		Sectioned:  true,
		Sections:   SectionRule{Five: 9},
		Panels:     true,
		Columns:    Columns,
		PanelFill:  r2.Vec{X: 0.8, Y: 0.8},
		Panel:      panel.CarriageParams(),
		FrameBevel: true,
		Rails:      true,
		Stiles:     true,
	})
	// Flush sections are plain slabs separated only by shadow gaps.
	Flush Builder = New(Layout{
		Name:      NameFlush,
		Sectioned: true,
		Sections:  SectionRule{Five: 10, Inclusive: true},
	})
	// ModernSteel is drawn as a single flat slab.
	ModernSteel Builder = New(Layout{Name: NameModernSteel})
	// Simple is the single flat slab unknown styles fall back to.
	Simple Builder = New(Layout{Name: NameSimple})
)

var registry = map[string]Builder{}

func init() {
	for _, b := range []Builder{RaisedPanel, CarriageHouse, Flush, ModernSteel, Simple} {
		registry[normalize(b.Name())] = b
	}
}

func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// Lookup finds a builder by name ignoring case, spaces, dashes and
// underscores.
func Lookup(name string) (Builder, bool) {
	b, ok := registry[normalize(name)]
	return b, ok
}

// Names returns the registered style names sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, b := range registry {
		names = append(names, b.Name())
	}
	sort.Strings(names)
	return names
}

// New returns a builder for layout.
func New(layout Layout) Builder {
	if layout.Panels && layout.Columns == nil {
		layout.Columns = Columns
	}
	return builder{layout: layout}
}

type builder struct {
	layout Layout
}

func (b builder) Name() string   { return b.layout.Name }
func (b builder) Layout() Layout { return b.layout }

// Positions returns the panel footprints of a frame of size w by h.
func (l Layout) Positions(w, h float64) []panel.Position {
	if !l.Panels {
		return nil
	}
	cols := l.Columns(w)
	cell := w / float64(cols)
	size := r2.Vec{X: cell * l.PanelFill.X, Y: h * l.PanelFill.Y}
	pos := make([]panel.Position, cols)
	for c := range pos {
		pos[c] = panel.Position{
			Center: r2.Vec{X: (float64(c) - float64(cols-1)/2) * cell},
			Size:   size,
		}
	}
	return pos
}

func (b builder) Build(f Frame, mats *material.Set) (*scene.Node, error) {
	if !(f.Width > 0 && f.Height > 0) {
		return nil, fmt.Errorf("%s: frame %gx%g has no area", b.layout.Name, f.Width, f.Height)
	}
	node := scene.NewGroup(b.layout.Name)
	offset := r2.Vec{Y: f.OffsetY}
	positions := b.layout.Positions(f.Width, f.Height)

	slab, err := b.slab(f, positions, mats)
	if err != nil {
		return nil, err
	}
	node.Add(slab)
	for _, pos := range positions {
		p, err := panel.Compose(pos, panel.Frame{Offset: offset, Door: f.Door}, b.layout.Panel, mats)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.layout.Name, err)
		}
		node.Add(p)
	}
	trim, err := b.trim(f, len(positions), mats)
	if err != nil {
		return nil, err
	}
	return node.Add(trim...), nil
}

// slab is the frame slab with the panel openings cut out, front face at z=0.
func (b builder) slab(f Frame, positions []panel.Position, mats *material.Set) (*scene.Node, error) {
	holes := make([]profile.Rect, len(positions))
	for i, p := range positions {
		holes[i] = p.Rect()
	}
	p, err := profile.RectWithHoles(profile.NewRect(0, 0, f.Width, f.Height), holes...)
	if err != nil {
		return nil, fmt.Errorf("%s slab: %w", b.layout.Name, err)
	}
	spec := mesh.ExtrusionSpec{Depth: panel.SlabThickness}
	if b.layout.FrameBevel && len(positions) > 0 && frameMargin(f, positions) > 2*panel.FrameBevelSize+panel.MinFeature {
		spec.BevelEnabled = true
		spec.BevelThickness = panel.FrameBevelThickness
		spec.BevelSize = panel.FrameBevelSize
		spec.BevelSegments = 1
	}
	return extrude("slab", p, spec, 0, f, mats, material.RoleBase)
}

// frameMargin is the narrowest strip of slab left between openings and
// between an opening and the slab edge.
func frameMargin(f Frame, positions []panel.Position) float64 {
	m := f.Height/2 - positions[0].Size.Y/2
	for i, p := range positions {
		left := p.Center.X - p.Size.X/2
		if i == 0 {
			m = min(m, left+f.Width/2)
		} else {
			prev := positions[i-1]
			m = min(m, left-(prev.Center.X+prev.Size.X/2))
		}
	}
	last := positions[len(positions)-1]
	return min(m, f.Width/2-(last.Center.X+last.Size.X/2))
}

func (b builder) trim(f Frame, cols int, mats *material.Set) ([]*scene.Node, error) {
	var rects []profile.Rect
	rail := RailFraction * f.Height
	if b.layout.Rails {
		y := f.Height/2 - rail/2
		rects = append(rects,
			profile.NewRect(0, y, f.Width, rail),
			profile.NewRect(0, -y, f.Width, rail),
		)
	} else {
		rail = 0
	}
	if b.layout.Stiles && cols > 0 {
		w := min(StileMax, StileFraction*f.Width/float64(cols))
		x := f.Width/2 - w/2
		h := f.Height - 2*rail
		rects = append(rects,
			profile.NewRect(-x, 0, w, h),
			profile.NewRect(x, 0, w, h),
		)
	}
	var nodes []*scene.Node
	for i, r := range rects {
		p, err := profile.RectWithHoles(r)
		if err != nil {
			return nil, fmt.Errorf("%s trim: %w", b.layout.Name, err)
		}
		n, err := extrude(fmt.Sprintf("trim-%d", i), p, mesh.ExtrusionSpec{Depth: TrimThickness}, TrimThickness, f, mats, material.RoleTrim)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// extrude sweeps p into a solid spanning [front-depth, front] with door UVs.
func extrude(name string, p profile.Profile, spec mesh.ExtrusionSpec, front float64, f Frame, mats *material.Set, role material.Role) (*scene.Node, error) {
	s, err := mesh.Extrude(p, spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	s.Translate(r3.Vec{Z: front - spec.Depth})
	mesh.RemapUV(s, r2.Vec{Y: f.OffsetY}, f.Door)
	n := scene.NewPrimitive(name, s, mats, role)
	n.Outline = &p
	return n, nil
}
