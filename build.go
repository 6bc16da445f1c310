package door

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/soypat/door/internal/d3"
	"github.com/soypat/door/internal/dlog"
	"github.com/soypat/door/material"
	"github.com/soypat/door/scene"
	"github.com/soypat/door/section"
	"github.com/soypat/door/style"
	"gonum.org/v1/gonum/spatial/r3"
)

// Assembly is a built door. Root is centered on the origin; RawBounds keeps
// the extent before centering.
type Assembly struct {
	ID       uuid.UUID
	Config   Config
	Style    string
	Fallback bool
	Root     *scene.Node
	Sections []section.Section

	RawBounds r3.Box
	Bounds    r3.Box
}

// Stats summarises the assembly geometry.
func (a *Assembly) Stats() scene.Stats { return a.Root.Stats() }

// Release drops all geometry held by the assembly.
func (a *Assembly) Release() {
	if a != nil && a.Root != nil {
		a.Root.Release()
	}
}

// Build generates the door described by cfg with materials mats. The
// result is detached: nothing is shared with previous builds except mats.
func Build(cfg Config, mats *material.Set) (*Assembly, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := mats.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	start := time.Now()
	log := dlog.Logger()
	b, ok := style.Lookup(string(cfg.Style))
	if !ok {
		log.Warn("unknown door style, using simple slab", "style", cfg.Style)
		b = style.Simple
	}
	size := cfg.Size()
	root, sections, err := section.Assemble(size.X, size.Y, b, mats)
	if err != nil {
		return nil, fmt.Errorf("%w: %s door %gx%g ft: %w", ErrInfeasibleGeometry, b.Name(), size.X, size.Y, err)
	}
	door := scene.NewGroup("door").Add(root)
	raw := door.Bounds()
	door.Position = r3.Scale(-1, d3.Box(raw).Center())
	a := &Assembly{
		ID:        uuid.New(),
		Config:    cfg,
		Style:     b.Name(),
		Fallback:  !ok,
		Root:      door,
		Sections:  sections,
		RawBounds: raw,
		Bounds:    door.Bounds(),
	}
	if log.Enabled(context.Background(), slog.LevelDebug) {
		st := a.Stats()
		log.Debug("door built", "id", a.ID, "style", a.Style, "sections", len(sections),
			"primitives", st.Primitives, "vertices", st.Vertices, "triangles", st.Triangles,
			"elapsed", time.Since(start))
	}
	return a, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(cfg Config, mats *material.Set) *Assembly {
	a, err := Build(cfg, mats)
	if err != nil {
		panic(err)
	}
	return a
}
