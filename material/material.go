// Package material describes the surface handles attached to generated door
// geometry. The geometry engine only assigns them; the caller creates them
// and decides when they are released.
package material

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Material is a physically based surface description.
type Material struct {
	Name      string
	Color     color.NRGBA
	Roughness float64
	Metalness float64
	// Transparency of 0 is opaque and 1 invisible, so the zero Material
	// draws solid.
	Transparency float64
	// Unlit materials ignore scene lighting.
	Unlit   bool
	Texture *Texture
	// Repeat is how many times Texture tiles over the [0,1] UV square.
	Repeat r2.Vec
}

// Alpha returns the opacity of m in [0,1].
func (m *Material) Alpha() float64 { return 1 - m.Transparency }

// Transparent reports whether the material needs alpha blending.
func (m *Material) Transparent() bool { return m.Transparency > 0 }

// Role names the slot of a Set a piece of geometry is drawn with.
type Role uint8

const (
	RoleBase Role = iota
	RoleGroove
	RolePanel
	RoleTrim
	RoleBack
	RoleVGroove
	RoleShadow
	numRoles
)

func (r Role) String() string {
	switch r {
	case RoleBase:
		return "base"
	case RoleGroove:
		return "groove"
	case RolePanel:
		return "panel"
	case RoleTrim:
		return "trim"
	case RoleBack:
		return "back"
	case RoleVGroove:
		return "vgroove"
	case RoleShadow:
		return "shadow"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Set holds the materials one door is built with. Nil slots fall back as
// documented on Get.
type Set struct {
	Base    *Material
	Groove  *Material
	Panel   *Material
	Trim    *Material
	Back    *Material
	VGroove *Material
	Shadow  *Material
}

// DefaultShadow is the unlit translucent black drawn in section gaps.
var DefaultShadow = &Material{
	Name:         "shadow",
	Color:        color.NRGBA{A: 255},
	Transparency: 0.35,
	Unlit:        true,
}

// Get returns the material for role r. Missing groove, panel, trim and back
// slots use Base, a missing v-groove uses the groove material and a missing
// shadow uses DefaultShadow. Get never returns nil for a Set with a Base.
func (s *Set) Get(r Role) *Material {
	var m *Material
	switch r {
	case RoleBase:
		m = s.Base
	case RoleGroove:
		m = s.Groove
	case RolePanel:
		m = s.Panel
	case RoleTrim:
		m = s.Trim
	case RoleBack:
		m = s.Back
	case RoleVGroove:
		m = s.VGroove
		if m == nil {
			m = s.Get(RoleGroove)
		}
	case RoleShadow:
		m = s.Shadow
		if m == nil {
			m = DefaultShadow
		}
	}
	if m == nil {
		m = s.Base
	}
	return m
}

// Validate checks the set can be drawn.
func (s *Set) Validate() error {
	if s == nil || s.Base == nil {
		return fmt.Errorf("material set has no base material")
	}
	for r := RoleBase; r < numRoles; r++ {
		m := s.Get(r)
		if !(m.Transparency >= 0 && m.Transparency < 1) {
			return fmt.Errorf("%s material %q transparency %g out of [0,1)", r, m.Name, m.Transparency)
		}
	}
	return nil
}

// Swatch is a door colour offered to the user.
type Swatch struct {
	Name  string
	Color color.NRGBA
	// Textured swatches apply the wood grain texture.
	Textured bool
}

// Palette lists the door colours in UI order.
var Palette = []Swatch{
	{Name: "White", Color: Hex(0xF5F5F5)},
	{Name: "Almond", Color: Hex(0xF0EAD6)},
	{Name: "Sandstone", Color: Hex(0xD8CDBA)},
	{Name: "Wood Grain", Color: Hex(0x8B4513), Textured: true},
	{Name: "Charcoal", Color: Hex(0x36454F)},
	{Name: "Black", Color: Hex(0x222222)},
}

// DefaultSwatch indexes Palette for unknown colour selections.
const DefaultSwatch = 3

// SwatchAt returns Palette[i], or the default swatch when i is out of range.
func SwatchAt(i int) Swatch {
	if i < 0 || i >= len(Palette) {
		return Palette[DefaultSwatch]
	}
	return Palette[i]
}

// SwatchByName finds a swatch ignoring case.
func SwatchByName(name string) (int, bool) {
	for i, s := range Palette {
		if strings.EqualFold(s.Name, name) {
			return i, true
		}
	}
	return 0, false
}

// Hex returns the opaque colour 0xRRGGBB.
func Hex(rgb uint32) color.NRGBA {
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255}
}

// Shade scales the RGB channels of c by f, clamping to the valid range.
func Shade(c color.NRGBA, f float64) color.NRGBA {
	ch := func(v uint8) uint8 {
		return uint8(math.Min(255, math.Max(0, math.Round(float64(v)*f))))
	}
	return color.NRGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}

// TextureRepeat returns the tiling for a door of w by h feet.
func TextureRepeat(w, h float64) r2.Vec {
	return r2.Vec{
		X: math.Max(1, math.Round(1.5*w)),
		Y: math.Max(1, math.Round(h)),
	}
}

// NewSet derives the door materials from a swatch. tex, which may be nil,
// is applied to the lit materials with the tiling for a door of w by h feet.
func NewSet(sw Swatch, tex *Texture, w, h float64) *Set {
	repeat := TextureRepeat(w, h)
	lit := func(name string, c color.NRGBA, roughness float64) *Material {
		m := &Material{
			Name:      name,
			Color:     c,
			Roughness: roughness,
			Metalness: 0.05,
		}
		if tex != nil {
			m.Texture = tex
			m.Repeat = repeat
		}
		return m
	}
	base := lit("base", sw.Color, 0.8)
	groove := lit("groove", Shade(sw.Color, 0.6), 0.9)
	return &Set{
		Base:    base,
		Groove:  groove,
		Panel:   lit("panel", Shade(sw.Color, 0.7), 0.85),
		Trim:    lit("trim", sw.Color, 0.8),
		Back:    &Material{Name: "back", Color: Hex(0xF8F8F8), Roughness: 0.9},
		VGroove: groove,
		Shadow:  DefaultShadow,
	}
}
