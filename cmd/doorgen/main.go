// Command doorgen builds a garage door and writes it out as GLB, STL, a
// shaded PNG preview and a front elevation drawing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/door"
	"github.com/soypat/door/material"
	"github.com/soypat/door/render"
	"gonum.org/v1/plot/vg"
)

func main() {
	def := door.DefaultConfig()
	var (
		width     = flag.Float64("width", def.WidthInches, "door width in inches")
		height    = flag.Float64("height", def.HeightInches, "door height in inches")
		style     = flag.String("style", string(def.Style), "door style")
		colorName = flag.String("color", material.Palette[def.ColorIndex].Name, "door colour")
		windows   = flag.String("windows", def.WindowStyle, "window style")
		hardware  = flag.String("hardware", def.HardwareStyle, "hardware style")
		out       = flag.String("o", "door", "output file prefix")
		formats   = flag.String("formats", "glb,stl,png,elevation", "comma separated outputs: glb, stl, png, elevation")
		elevExt   = flag.String("elevation-format", "png", "elevation file format: png, svg or pdf")
		px        = flag.Int("px", 960, "preview width in pixels")
		textured  = flag.Bool("texture", true, "paint wood grain on textured colours")
		verbose   = flag.Bool("v", false, "log debug build statistics")
		cfgFile   = flag.String("config", "", "YAML door description; flags given explicitly override it")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	door.SetLogger(logger)

	cfg := def
	if *cfgFile != "" {
		fp, err := os.Open(*cfgFile)
		if err != nil {
			log.Fatal(err)
		}
		cfg, err = door.ReadConfig(fp)
		fp.Close()
		if err != nil {
			log.Fatalf("%s: %v", *cfgFile, err)
		}
	}
	var colorErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.WidthInches = *width
		case "height":
			cfg.HeightInches = *height
		case "style":
			cfg.Style = door.Style(*style)
		case "windows":
			cfg.WindowStyle = *windows
		case "hardware":
			cfg.HardwareStyle = *hardware
		case "color":
			idx, ok := material.SwatchByName(*colorName)
			if !ok {
				colorErr = fmt.Errorf("unknown colour %q", *colorName)
			}
			cfg.ColorIndex = idx
		}
	})
	if colorErr != nil {
		log.Fatal(colorErr)
	}

	var tex *material.Texture
	if *textured && cfg.Swatch().Textured {
		cache := material.NewCache(material.WoodGrainLoader(512, nil))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		var err error
		tex, err = cache.Load(ctx, material.WoodGrainName).Wait(ctx)
		cancel()
		if err != nil {
			logger.Warn("texture unavailable, using flat colour", "err", err)
		}
	}

	a, err := door.Build(cfg, cfg.Materials(tex))
	if err != nil {
		log.Fatal(err)
	}
	defer a.Release()
	st := a.Stats()
	logger.Info("door built", "style", a.Style, "sections", len(a.Sections), "primitives", st.Primitives, "triangles", st.Triangles)

	for _, f := range splitList(*formats) {
		var name string
		switch f {
		case "glb":
			name = *out + ".glb"
			err = writeFile(name, func(fp *os.File) error { return render.WriteGLB(fp, a.Root) })
		case "stl":
			name = *out + ".stl"
			err = render.CreateSTL(name, render.NewSceneRenderer(a.Root, render.Opaque))
		case "png":
			name = *out + ".png"
			v := render.DefaultView()
			v.Width, v.Height = *px, *px*9/16
			err = fauxgl.SavePNG(name, render.Preview(a.Root, v))
		case "elevation":
			name = *out + "-elevation." + *elevExt
			err = render.SaveElevation(name, a.Root, 8*vg.Inch)
		default:
			err = fmt.Errorf("unknown output format %q", f)
		}
		if err != nil {
			log.Fatal(err)
		}
		logger.Info("wrote", "file", filepath.Clean(name))
	}
}

func writeFile(name string, write func(*os.File) error) error {
	fp, err := os.Create(name)
	if err != nil {
		return err
	}
	err = write(fp)
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	return err
}

func splitList(s string) (list []string) {
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			list = append(list, strings.ToLower(f))
		}
	}
	return list
}
