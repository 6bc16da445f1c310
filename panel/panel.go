// Package panel composes the layered solids of one decorative door panel:
// a beveled roundover ring, a deep recessed frame and a raised center.
package panel

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/door/internal/d2"
	"github.com/soypat/door/internal/dlog"
	"github.com/soypat/door/material"
	"github.com/soypat/door/mesh"
	"github.com/soypat/door/profile"
	"github.com/soypat/door/scene"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrPanelTooSmall is returned for panel positions with no area.
var ErrPanelTooSmall = errors.New("panel too small")

// Position locates a panel in section coordinates: the origin is the
// center of the section the panel belongs to.
type Position struct {
	Center r2.Vec
	Size   r2.Vec
}

// Rect returns the panel footprint.
func (p Position) Rect() profile.Rect {
	return profile.Rect{Center: p.Center, Size: p.Size}
}

// Frame relates section coordinates to the whole door for UV mapping.
type Frame struct {
	// Offset is the section center in door coordinates.
	Offset r2.Vec
	// Door is the full door width and height.
	Door r2.Vec
}

// Params selects the panel variant.
type Params struct {
	// DeepWidth is the width of the recessed frame on each side.
	DeepWidth float64
	// Grooves perforates the center with that many vertical grooves.
	Grooves     int
	GrooveWidth float64
	// VGrooveInserts fills every groove with a V shaped ridge.
	VGrooveInserts bool
}

// RaisedParams returns the raised panel variant.
func RaisedParams() Params {
	return Params{DeepWidth: DeepWidthRaised}
}

// CarriageParams returns the carriage house variant with grooved centers.
func CarriageParams() Params {
	return Params{
		DeepWidth:      DeepWidthCarriage,
		Grooves:        NumGrooves,
		GrooveWidth:    GrooveWidth,
		VGrooveInserts: true,
	}
}

// Fit is how much of the layering a panel footprint can hold.
type Fit int

const (
	// FitFull holds roundover, deep recess and center.
	FitFull Fit = iota
	// FitFlatCenter holds the roundover around a flat center.
	FitFlatCenter
	// FitInset is a plain recessed slab.
	FitInset
)

func (f Fit) String() string {
	switch f {
	case FitFull:
		return "full"
	case FitFlatCenter:
		return "flat-center"
	case FitInset:
		return "inset"
	}
	return fmt.Sprintf("Fit(%d)", int(f))
}

// layers holds the nested rectangles of a panel in panel coordinates.
type layers struct {
	outer     profile.Rect // panel footprint
	roundover profile.Rect // hole of the roundover ring
	deep      profile.Rect // outer edge of the deep recess
	center    profile.Rect // hole of the deep recess and center footprint
}

func layout(size r2.Vec, k Params) layers {
	var l layers
	l.outer = profile.Rect{Size: size}
	l.roundover = l.outer.Shrink(RoundoverRadius)
	l.deep = l.roundover.Grow(Overlap)
	l.center = l.deep.Shrink(k.DeepWidth)
	return l
}

// minCenter is the smallest center that survives its bevel on both sides.
const minCenter = 2*CenterBevelSize + MinFeature

// Classify reports which layering a panel of the given size can hold.
func Classify(size r2.Vec, k Params) (Fit, error) {
	if !(size.X > 0 && size.Y > 0) {
		return 0, fmt.Errorf("%w: size %v", ErrPanelTooSmall, size)
	}
	l := layout(size, k)
	switch {
	case d2.Min(l.center.Size) > minCenter:
		return FitFull, nil
	case d2.Min(l.roundover.Size) > MinFeature:
		return FitFlatCenter, nil
	}
	return FitInset, nil
}

// MinSize returns the smallest panel side that holds every layer.
func MinSize(k Params) float64 {
	return minCenter + 2*RoundoverRadius - 2*Overlap + 2*k.DeepWidth
}

// Compose builds the panel at pos. Solids are placed in panel coordinates
// below a group node positioned at the panel center, with their front
// faces at or behind z=0. Panels too small for every layer degrade to a
// flat center or a plain inset rather than emit invalid geometry.
func Compose(pos Position, f Frame, k Params, mats *material.Set) (*scene.Node, error) {
	fit, err := Classify(pos.Size, k)
	if err != nil {
		return nil, err
	}
	if fit != FitFull {
		dlog.Logger().Warn("panel layers degraded", "fit", fit, "width", pos.Size.X, "height", pos.Size.Y)
	}
	c := composer{
		uvOffset: r2.Add(f.Offset, pos.Center),
		door:     f.Door,
		mats:     mats,
		node:     scene.NewGroup("panel").At(r3.Vec{X: pos.Center.X, Y: pos.Center.Y}),
	}
	l := layout(pos.Size, k)
	switch fit {
	case FitInset:
		err = c.inset(l)
	case FitFlatCenter:
		if err = c.roundover(l); err == nil {
			err = c.flatCenter(l)
		}
	default:
		if err = c.roundover(l); err != nil {
			break
		}
		if err = c.deep(l); err != nil {
			break
		}
		if k.Grooves > 0 {
			err = c.groovedCenter(l, k)
		} else {
			err = c.center(l)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("compose panel at %v: %w", pos.Center, err)
	}
	return c.node, nil
}

// MustCompose is like Compose but panics on error.
func MustCompose(pos Position, f Frame, k Params, mats *material.Set) *scene.Node {
	n, err := Compose(pos, f, k, mats)
	if err != nil {
		panic(err)
	}
	return n
}

type composer struct {
	uvOffset r2.Vec
	door     r2.Vec
	mats     *material.Set
	node     *scene.Node
}

// layer extrudes p, translates the solid to span [front-depth, front],
// remaps its UVs and attaches it.
func (c *composer) layer(name string, p profile.Profile, spec mesh.ExtrusionSpec, front float64, role material.Role) error {
	s, err := mesh.Extrude(p, spec)
	if err != nil {
		return fmt.Errorf("%s layer: %w", name, err)
	}
	s.Translate(r3.Vec{Z: front - spec.Depth})
	mesh.RemapUV(s, c.uvOffset, c.door)
	n := scene.NewPrimitive(name, s, c.mats, role)
	n.Outline = &p
	c.node.Add(n)
	return nil
}

func (c *composer) roundover(l layers) error {
	p, err := profile.RectWithHoles(l.outer, l.roundover)
	if err != nil {
		return err
	}
	return c.layer("roundover", p, mesh.ExtrusionSpec{
		Depth:          RoundoverDepth,
		BevelEnabled:   true,
		BevelThickness: RoundoverBevelThickness,
		BevelSize:      RoundoverBevelSize,
		BevelSegments:  RoundoverSegments,
	}, 0, material.RolePanel)
}

func (c *composer) deep(l layers) error {
	p, err := profile.RectWithHoles(l.deep, l.center)
	if err != nil {
		return err
	}
	return c.layer("deep", p, mesh.ExtrusionSpec{
		Depth:          DeepDepth,
		BevelEnabled:   true,
		BevelThickness: DeepBevelThickness,
		BevelSize:      DeepBevelSize,
		BevelSegments:  DeepSegments,
	}, -RoundoverDepth, material.RoleGroove)
}

func (c *composer) center(l layers) error {
	p, err := profile.RectWithHoles(l.center)
	if err != nil {
		return err
	}
	return c.layer("center", p, mesh.ExtrusionSpec{
		Depth:          RecessDepth,
		BevelEnabled:   true,
		BevelThickness: CenterBevelThickness,
		BevelSize:      CenterBevelSize,
		BevelSegments:  1,
	}, 0, material.RoleBase)
}

// grooves lays out up to k.Grooves vertical slots across center. The count
// drops until the material between slots outlives the bevel.
func grooves(center profile.Rect, k Params) []profile.Rect {
	margin := 2*GroovedCenterBevelSize + MinFeature
	h := center.Size.Y - 2*margin
	if h <= MinFeature || k.GrooveWidth <= 0 {
		return nil
	}
	n := k.Grooves
	for ; n > 0; n-- {
		spacing := center.Size.X / float64(n+1)
		if spacing-k.GrooveWidth > margin {
			break
		}
	}
	holes := make([]profile.Rect, n)
	spacing := center.Size.X / float64(n+1)
	x0 := center.Center.X - center.Size.X/2
	for i := range holes {
		holes[i] = profile.NewRect(x0+float64(i+1)*spacing, center.Center.Y, k.GrooveWidth, h)
	}
	return holes
}

func (c *composer) groovedCenter(l layers, k Params) error {
	holes := grooves(l.center, k)
	if len(holes) < k.Grooves {
		dlog.Logger().Warn("panel grooves reduced", "want", k.Grooves, "got", len(holes), "width", l.center.Size.X)
	}
	p, err := profile.RectWithHoles(l.center, holes...)
	if err != nil {
		return err
	}
	err = c.layer("center", p, mesh.ExtrusionSpec{
		Depth:          RecessDepth,
		BevelEnabled:   true,
		BevelThickness: GroovedCenterBevelThickness,
		BevelSize:      GroovedCenterBevelSize,
		BevelSegments:  1,
	}, 0, material.RoleBase)
	if err != nil || !k.VGrooveInserts {
		return err
	}
	depth := math.Min(VInsertDepth, RecessDepth)
	for i, h := range holes {
		w := VInsertRatio * h.Size.X
		v, err := profile.RectWithHoles(profile.Rect{Center: h.Center, Size: r2.Vec{X: w, Y: h.Size.Y}})
		if err != nil {
			return err
		}
		err = c.layer(fmt.Sprintf("vgroove-%d", i), v, mesh.ExtrusionSpec{
			Depth:          depth,
			BevelEnabled:   true,
			BevelThickness: depth,
			BevelSize:      VInsertBevelFac * w,
			BevelSegments:  1,
		}, depth-RecessDepth, material.RoleVGroove)
		if err != nil {
			return err
		}
	}
	return nil
}

// flatCenter fills the roundover hole with an unbeveled slab flush with the
// front surface.
func (c *composer) flatCenter(l layers) error {
	p, err := profile.RectWithHoles(l.deep)
	if err != nil {
		return err
	}
	return c.layer("center", p, mesh.ExtrusionSpec{Depth: RecessDepth}, 0, material.RoleBase)
}

// inset recesses the whole panel footprint by the roundover depth.
func (c *composer) inset(l layers) error {
	p, err := profile.RectWithHoles(l.outer)
	if err != nil {
		return err
	}
	return c.layer("inset", p, mesh.ExtrusionSpec{Depth: SlabThickness - RoundoverDepth}, -RoundoverDepth, material.RolePanel)
}
