// Package preview serves door assets over HTTP.
package preview

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/soypat/door"
	"github.com/soypat/door/internal/config"
	"github.com/soypat/door/material"
	"github.com/soypat/door/render"
	"github.com/soypat/door/scene"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/vg"
)

const textureTimeout = 5 * time.Second

// Service owns the door on display and the texture cache shared by every
// rebuild.
type Service struct {
	cfg   *config.Config
	stage door.Stage
	cache *material.Cache
}

// New returns a service configured by cfg. Textures are loaded through load
// when cfg enables them.
func New(cfg *config.Config, load material.Loader) *Service {
	s := &Service{cfg: cfg}
	if cfg.Textures && load != nil {
		s.cache = material.NewCache(load)
	}
	return s
}

// BuildDefault puts the default door on display.
func (s *Service) BuildDefault() error {
	cfg := door.DefaultConfig()
	_, err := s.stage.Rebuild(cfg, s.materials(cfg))
	return err
}

// Close releases the door on display.
func (s *Service) Close() { s.stage.Close() }

// Register mounts the service routes on app.
func (s *Service) Register(app *fiber.App) {
	app.Get("/health/live", s.Live)
	app.Get("/health/ready", s.Ready)

	app.Get("/styles", s.Styles)
	app.Get("/door", s.Door)
	app.Post("/door", s.Rebuild)
	app.Get("/door.glb", s.GLB)
	app.Get("/door.stl", s.STL)
	app.Get("/door.png", s.PNG)
	app.Get("/door/elevation", s.Elevation)
}

// Summary describes the door on display.
type Summary struct {
	ID       string      `json:"id"`
	Config   door.Config `json:"config"`
	Style    string      `json:"style"`
	Fallback bool        `json:"fallback"`
	Sections int         `json:"sections"`
	Stats    scene.Stats `json:"stats"`
	Size     [3]float64  `json:"size"`
}

func summarize(a *door.Assembly) Summary {
	size := r3.Sub(a.Bounds.Max, a.Bounds.Min)
	return Summary{
		ID:       a.ID.String(),
		Config:   a.Config,
		Style:    a.Style,
		Fallback: a.Fallback,
		Sections: len(a.Sections),
		Stats:    a.Stats(),
		Size:     [3]float64{size.X, size.Y, size.Z},
	}
}

// Live reports the process is running.
func (s *Service) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Ready reports whether a door has been built.
func (s *Service) Ready(c fiber.Ctx) error {
	if _, ok := s.stage.Current(); !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "no door"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// Styles lists the style names and colours accepted by Rebuild.
func (s *Service) Styles(c fiber.Ctx) error {
	colors := make([]string, len(material.Palette))
	for i, sw := range material.Palette {
		colors[i] = sw.Name
	}
	return c.JSON(fiber.Map{
		"styles":   []door.Style{door.RaisedPanel, door.CarriageHouse, door.Flush, door.ModernSteel},
		"colors":   colors,
		"windows":  door.WindowStyles,
		"hardware": door.HardwareStyles,
	})
}

// Door returns the summary of the door on display.
func (s *Service) Door(c fiber.Ctx) error {
	var sum *Summary
	s.stage.View(func(a *door.Assembly) error {
		if a != nil {
			v := summarize(a)
			sum = &v
		}
		return nil
	})
	if sum == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no door built"})
	}
	return c.JSON(sum)
}

// Rebuild replaces the door on display with the one described by the
// JSON config in the request body, decoded as door.ReadConfig does. Fields
// left out keep their defaults and unknown fields are rejected. A failed
// rebuild leaves the previous door on display.
func (s *Service) Rebuild(c fiber.Ctx) error {
	cfg, err := door.ReadConfig(bytes.NewReader(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	a, err := s.stage.Rebuild(cfg, s.materials(cfg))
	switch {
	case errors.Is(err, door.ErrInvalidConfig):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, door.ErrInfeasibleGeometry):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, door.ErrSuperseded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return err
	}
	// a is current until the next rebuild; summarize it under the stage lock.
	var sum Summary
	s.stage.View(func(cur *door.Assembly) error {
		if cur != nil {
			sum = summarize(cur)
		} else {
			sum = Summary{ID: a.ID.String(), Config: cfg}
		}
		return nil
	})
	return c.Status(fiber.StatusCreated).JSON(sum)
}

// GLB serves the door as binary glTF.
func (s *Service) GLB(c fiber.Ctx) error {
	return s.asset(c, "model/gltf-binary", func(b *bytes.Buffer, a *door.Assembly) error {
		return render.WriteGLB(b, a.Root)
	})
}

// STL serves the opaque door geometry as binary STL.
func (s *Service) STL(c fiber.Ctx) error {
	return s.asset(c, "model/stl", func(b *bytes.Buffer, a *door.Assembly) error {
		model, err := render.RenderAll(render.NewSceneRenderer(a.Root, render.Opaque))
		if err != nil {
			return err
		}
		return render.WriteSTL(b, model)
	})
}

// PNG serves a shaded preview sized by the service configuration.
func (s *Service) PNG(c fiber.Ctx) error {
	v := render.DefaultView()
	v.Width, v.Height = s.cfg.PreviewWidth, s.cfg.PreviewHeight
	return s.asset(c, "image/png", func(b *bytes.Buffer, a *door.Assembly) error {
		return render.WritePreviewPNG(b, a.Root, v)
	})
}

// Elevation serves the front elevation drawing. The format query parameter
// selects png (default) or svg.
func (s *Service) Elevation(c fiber.Ctx) error {
	format, mime := "png", "image/png"
	if c.Query("format") == "svg" {
		format, mime = "svg", "image/svg+xml"
	}
	width := vg.Length(s.cfg.ElevationWidth) * vg.Inch
	return s.asset(c, mime, func(b *bytes.Buffer, a *door.Assembly) error {
		return render.WriteElevation(b, a.Root, width, format)
	})
}

func (s *Service) asset(c fiber.Ctx, mime string, write func(*bytes.Buffer, *door.Assembly) error) error {
	var b bytes.Buffer
	found := false
	err := s.stage.View(func(a *door.Assembly) error {
		if a == nil {
			return nil
		}
		found = true
		return write(&b, a)
	})
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no door built"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set("Content-Type", mime)
	return c.Send(b.Bytes())
}

// materials returns the material set for cfg, painting the wood grain
// texture when the colour asks for it and the texture loads in time.
func (s *Service) materials(cfg door.Config) *material.Set {
	if s.cache == nil || !cfg.Swatch().Textured {
		return cfg.Materials(nil)
	}
	ctx, cancel := context.WithTimeout(context.Background(), textureTimeout)
	defer cancel()
	tex, err := s.cache.Load(ctx, material.WoodGrainName).Wait(ctx)
	if err != nil {
		door.Logger().Warn("texture unavailable, using flat colour", "texture", material.WoodGrainName, "err", err)
	}
	return cfg.Materials(tex)
}
