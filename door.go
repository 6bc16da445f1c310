// Package door builds parametric garage door geometry. A Config describing
// the door in inches is turned into a scene of layered, beveled solids
// centered on the origin, ready to hand to a renderer.
package door

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/soypat/door/internal/dlog"
	"github.com/soypat/door/material"
	"github.com/soypat/door/style"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is returned for configurations that describe no door.
	ErrInvalidConfig = errors.New("invalid door config")
	// ErrInfeasibleGeometry is returned when a valid configuration cannot be
	// turned into geometry.
	ErrInfeasibleGeometry = errors.New("infeasible door geometry")
	// ErrSuperseded is returned by Stage.Rebuild when a newer rebuild won.
	ErrSuperseded = errors.New("rebuild superseded")
)

// InchesPerFoot converts configuration units to engine units.
const InchesPerFoot = 12

// Feet converts inches to feet.
func Feet(inches float64) float64 { return inches / InchesPerFoot }

// Style selects a door style by its user facing name.
type Style string

const (
	RaisedPanel   Style = style.NameRaisedPanel
	CarriageHouse Style = style.NameCarriageHouse
	Flush         Style = style.NameFlush
	ModernSteel   Style = style.NameModernSteel
	Simple        Style = style.NameSimple
)

// Window and hardware options. They are validated and recorded but do not
// change the generated geometry.
var (
	WindowStyles   = []string{"None", "Top Row (4)", "Top Row (8)", "Side Verticals"}
	HardwareStyles = []string{"None", "Handles & Hinges"}
)

// Config describes one door.
type Config struct {
	WidthInches  float64 `json:"width" yaml:"width"`
	HeightInches float64 `json:"height" yaml:"height"`
	Style        Style   `json:"style" yaml:"style"`
	// ColorIndex indexes material.Palette. Out of range values use the
	// default swatch.
	ColorIndex    int    `json:"colorIndex" yaml:"colorIndex"`
	WindowStyle   string `json:"windowStyle,omitempty" yaml:"windowStyle,omitempty"`
	HardwareStyle string `json:"hardwareStyle,omitempty" yaml:"hardwareStyle,omitempty"`
}

// DefaultConfig returns a 16 by 7 ft wood grain carriage house door.
func DefaultConfig() Config {
	return Config{
		WidthInches:   192,
		HeightInches:  84,
		Style:         CarriageHouse,
		ColorIndex:    material.DefaultSwatch,
		WindowStyle:   "Top Row (4)",
		HardwareStyle: "Handles & Hinges",
	}
}

// ReadConfig decodes a YAML (or JSON) door description from r. Fields left
// out keep their DefaultConfig values; unknown fields are an error.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Size returns the door width and height in feet.
func (c Config) Size() r2.Vec {
	return r2.Vec{X: Feet(c.WidthInches), Y: Feet(c.HeightInches)}
}

// Validate reports configuration errors. An unknown style is not an error.
func (c Config) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"width", c.WidthInches}, {"height", c.HeightInches}} {
		if !(v.val > 0) || math.IsInf(v.val, 0) {
			return fmt.Errorf("%w: %s %g must be a positive number of inches", ErrInvalidConfig, v.name, v.val)
		}
	}
	if !oneOf(c.WindowStyle, WindowStyles) {
		return fmt.Errorf("%w: unknown window style %q", ErrInvalidConfig, c.WindowStyle)
	}
	if !oneOf(c.HardwareStyle, HardwareStyles) {
		return fmt.Errorf("%w: unknown hardware style %q", ErrInvalidConfig, c.HardwareStyle)
	}
	return nil
}

// Swatch returns the palette entry selected by ColorIndex.
func (c Config) Swatch() material.Swatch { return material.SwatchAt(c.ColorIndex) }

// Materials derives the default material set for c. tex may be nil.
func (c Config) Materials(tex *material.Texture) *material.Set {
	sw := c.Swatch()
	if !sw.Textured {
		tex = nil
	}
	size := c.Size()
	return material.NewSet(sw, tex, size.X, size.Y)
}

func oneOf(s string, options []string) bool {
	if s == "" {
		return true
	}
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}

// SetLogger sets the logger used by every door package. A nil logger
// silences logging, which is the default.
func SetLogger(l *slog.Logger) { dlog.Set(l) }

// Logger returns the logger set with SetLogger.
func Logger() *slog.Logger { return dlog.Logger() }
