// Package section splits a door into horizontal sections, builds each with
// a style and joins them with back panels and shadow gaps.
package section

import (
	"errors"
	"fmt"

	"github.com/soypat/door/material"
	"github.com/soypat/door/mesh"
	"github.com/soypat/door/panel"
	"github.com/soypat/door/profile"
	"github.com/soypat/door/scene"
	"github.com/soypat/door/style"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Dimensions in feet.
const (
	// Gap between sections. It follows the frame bevel so the seam reads as
	// the same groove as the panel openings.
	Gap = 2.5 * panel.FrameBevelThickness

	BackThickness = 0.015

	// ShadowFill is the fraction of the gap the shadow plane covers.
	ShadowFill      = 0.95
	ShadowThickness = 0.01
	// ShadowLift puts the shadow plane just in front of the slab.
	ShadowLift = 0.001
)

// ErrTooShort is returned when the gaps leave no height for sections.
var ErrTooShort = errors.New("door too short for its sections")

// Section is one horizontal slice of the door.
type Section struct {
	Index int
	// OffsetY is the section center in door coordinates.
	OffsetY       float64
	Width, Height float64
}

// Layout splits a door of w by h into n sections stacked bottom to top
// with Gap between them, centered on y=0.
func Layout(w, h float64, n int) ([]Section, error) {
	if n < 1 {
		return nil, fmt.Errorf("section count %d < 1", n)
	}
	sh := (h - float64(n-1)*Gap) / float64(n)
	if !(sh > 0) {
		return nil, fmt.Errorf("%w: %d sections in %g ft", ErrTooShort, n, h)
	}
	sections := make([]Section, n)
	for i := range sections {
		sections[i] = Section{
			Index:   i,
			OffsetY: (float64(i) - float64(n-1)/2) * (sh + Gap),
			Width:   w,
			Height:  sh,
		}
	}
	return sections, nil
}

// Plan returns the sections builder b splits a w by h door into.
// Unsectioned styles get one section covering the door.
func Plan(w, h float64, b style.Builder) ([]Section, error) {
	l := b.Layout()
	if !l.Sectioned {
		return Layout(w, h, 1)
	}
	return Layout(w, h, l.Sections.Count(h))
}

// Assemble builds every section of a w by h door with b. The returned node
// is centered on the origin with the door front at z=0.
func Assemble(w, h float64, b style.Builder, mats *material.Set) (*scene.Node, []Section, error) {
	sections, err := Plan(w, h, b)
	if err != nil {
		return nil, nil, err
	}
	door := r2.Vec{X: w, Y: h}
	root := scene.NewGroup("sections")
	for _, s := range sections {
		node, err := b.Build(style.Frame{Width: s.Width, Height: s.Height, OffsetY: s.OffsetY, Door: door}, mats)
		if err != nil {
			return nil, nil, fmt.Errorf("section %d: %w", s.Index, err)
		}
		if !b.Layout().Sectioned {
			root.Add(node)
			break
		}
		group := scene.NewGroup(fmt.Sprintf("section-%d", s.Index)).At(r3.Vec{Y: s.OffsetY})
		back, err := slab("back", s.Width, s.Height, BackThickness, -panel.SlabThickness, s.OffsetY, door, mats, material.RoleBack)
		if err != nil {
			return nil, nil, err
		}
		root.Add(group.Add(node, back))
		if s.Index == len(sections)-1 {
			continue
		}
		gapY := s.OffsetY + s.Height/2 + Gap/2
		shadow, err := slab("shadow", w, ShadowFill*Gap, ShadowThickness, ShadowLift, gapY, door, mats, material.RoleShadow)
		if err != nil {
			return nil, nil, err
		}
		root.Add(shadow.At(r3.Vec{Y: gapY}))
	}
	return root, sections, nil
}

// slab is an unbeveled w by h box spanning [front-depth, front].
func slab(name string, w, h, depth, front, offsetY float64, door r2.Vec, mats *material.Set, role material.Role) (*scene.Node, error) {
	p, err := profile.RectWithHoles(profile.NewRect(0, 0, w, h))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	s, err := mesh.Extrude(p, mesh.ExtrusionSpec{Depth: depth})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	s.Translate(r3.Vec{Z: front - depth})
	mesh.RemapUV(s, r2.Vec{Y: offsetY}, door)
	n := scene.NewPrimitive(name, s, mats, role)
	n.Outline = &p
	return n, nil
}
