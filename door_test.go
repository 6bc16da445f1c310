package door

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/soypat/door/internal/d3"
	"github.com/soypat/door/material"
	"github.com/soypat/door/panel"
	"github.com/soypat/door/scene"
	"github.com/soypat/door/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var testSizes = [][2]float64{
	{192, 84},  // 16x7
	{96, 84},   // 8x7
	{144, 102}, // 12x8.5
	{216, 114}, // 18x9.5
	{120, 84},  // 10x7
	{24, 24},   // panels too small for every layer
}

var testStyles = []Style{RaisedPanel, CarriageHouse, Flush, ModernSteel, Simple}

func cfgFor(s Style, wh [2]float64) Config {
	cfg := DefaultConfig()
	cfg.Style = s
	cfg.WidthInches, cfg.HeightInches = wh[0], wh[1]
	return cfg
}

func TestValidate(t *testing.T) {
	for _, mod := range []func(*Config){
		func(c *Config) { c.WidthInches = 0 },
		func(c *Config) { c.HeightInches = -84 },
		func(c *Config) { c.WidthInches = math.NaN() },
		func(c *Config) { c.HeightInches = math.Inf(1) },
		func(c *Config) { c.WindowStyle = "Porthole" },
		func(c *Config) { c.HardwareStyle = "Gold" },
	} {
		cfg := DefaultConfig()
		mod(&cfg)
		_, err := Build(cfg, cfg.Materials(nil))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("config %+v: want ErrInvalidConfig, got %v", cfg, err)
		}
	}
	cfg := DefaultConfig()
	cfg.WindowStyle, cfg.HardwareStyle = "", ""
	assert.NoError(t, cfg.Validate())
	_, err := Build(DefaultConfig(), &material.Set{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildSymmetry(t *testing.T) {
	for _, s := range testStyles {
		for _, wh := range testSizes {
			cfg := cfgFor(s, wh)
			a, err := Build(cfg, cfg.Materials(nil))
			require.NoError(t, err, "%s %v", s, wh)
			w, h := Feet(wh[0]), Feet(wh[1])
			raw := a.RawBounds
			assert.InDelta(t, -w/2, raw.Min.X, 1e-9, "%s %v", s, wh)
			assert.InDelta(t, w/2, raw.Max.X, 1e-9, "%s %v", s, wh)
			assert.InDelta(t, -h/2, raw.Min.Y, 1e-9, "%s %v", s, wh)
			assert.InDelta(t, h/2, raw.Max.Y, 1e-9, "%s %v", s, wh)
			center := d3.Box(a.Bounds).Center()
			assert.True(t, d3.EqualWithin(center, r3.Vec{}, 1e-9), "%s %v center %v", s, wh, center)
		}
	}
}

func TestBuildClosure(t *testing.T) {
	for _, s := range testStyles {
		for _, wh := range testSizes {
			cfg := cfgFor(s, wh)
			a := MustBuild(cfg, cfg.Materials(nil))
			total := float64(len(a.Sections)-1) * section.Gap
			for _, sec := range a.Sections {
				total += sec.Height
			}
			assert.InDelta(t, Feet(wh[1]), total, 1e-12, "%s %v", s, wh)
		}
	}
}

func TestBuildWatertight(t *testing.T) {
	type edge [2]r3.Vec
	for _, s := range testStyles {
		for _, wh := range testSizes {
			cfg := cfgFor(s, wh)
			a := MustBuild(cfg, cfg.Materials(nil))
			a.Root.Walk(func(p scene.Primitive) error {
				count := make(map[edge]int)
				for i := 0; i < p.Solid.TriangleCount(); i++ {
					tri := p.Solid.Triangle(i)
					for k := 0; k < 3; k++ {
						count[edge{tri[k], tri[(k+1)%3]}]++
					}
				}
				var open int
				for e, n := range count {
					if count[edge{e[1], e[0]}] != n {
						open++
					}
				}
				assert.Zero(t, open, "%s %v %s: unpaired edges", s, wh, p.Name)
				return nil
			})
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	mats := cfg.Materials(nil)
	a := MustBuild(cfg, mats)
	b := MustBuild(cfg, mats)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Stats(), b.Stats())
	assert.Equal(t, a.Bounds, b.Bounds)
	assert.Equal(t, a.RawBounds, b.RawBounds)
}

func TestBuildColumns(t *testing.T) {
	for _, test := range []struct {
		widthInches float64
		columns     int
	}{
		{96, 2}, {120, 2}, {144, 3}, {192, 4},
	} {
		cfg := cfgFor(RaisedPanel, [2]float64{test.widthInches, 84})
		a := MustBuild(cfg, cfg.Materials(nil))
		var panels int
		walkNodes(a.Root, func(n *scene.Node) {
			if n.Name == "panel" {
				panels++
			}
		})
		assert.Equal(t, test.columns*len(a.Sections), panels, "width %g", test.widthInches)
	}
}

func TestUnknownStyleFallback(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	cfg := cfgFor("Nonexistent", [2]float64{192, 84})
	a, err := Build(cfg, cfg.Materials(nil))
	require.NoError(t, err)
	assert.True(t, a.Fallback)
	assert.Equal(t, string(Simple), a.Style)
	assert.Len(t, a.Sections, 1)
	st := a.Stats()
	assert.Equal(t, 1, st.Primitives)
	want := d3.Box{Min: r3.Vec{X: -8, Y: -3.5, Z: -panel.SlabThickness}, Max: r3.Vec{X: 8, Y: 3.5}}
	assert.True(t, d3.Box(a.RawBounds).Equals(want, 1e-9), "bounds %+v", a.RawBounds)
	assert.True(t, strings.Contains(buf.String(), "unknown door style"), buf.String())
	assert.True(t, strings.Contains(buf.String(), "door built"), buf.String())
}

func TestBuildInfeasible(t *testing.T) {
	cfg := cfgFor(RaisedPanel, [2]float64{192, 0.6})
	_, err := Build(cfg, cfg.Materials(nil))
	assert.ErrorIs(t, err, ErrInfeasibleGeometry)
	assert.ErrorIs(t, err, section.ErrTooShort)
}

func TestMaterials(t *testing.T) {
	tex := &material.Texture{Name: material.WoodGrainName}
	cfg := DefaultConfig()
	assert.Same(t, tex, cfg.Materials(tex).Base.Texture)
	cfg.ColorIndex = 0
	assert.Nil(t, cfg.Materials(tex).Base.Texture)
	cfg.ColorIndex = 99
	assert.Equal(t, "Wood Grain", cfg.Swatch().Name)
}

func TestStage(t *testing.T) {
	var st Stage
	require.NoError(t, st.View(func(a *Assembly) error {
		assert.Nil(t, a)
		return nil
	}))
	cfg := DefaultConfig()
	first, err := st.Rebuild(cfg, cfg.Materials(nil))
	require.NoError(t, err)

	bad := cfg
	bad.WidthInches = -1
	_, err = st.Rebuild(bad, bad.Materials(nil))
	require.ErrorIs(t, err, ErrInvalidConfig)
	st.View(func(a *Assembly) error {
		assert.Same(t, first, a, "failed rebuild must keep the previous door")
		assert.NotZero(t, a.Stats().Primitives)
		return nil
	})

	cfg.Style = Flush
	second, err := st.Rebuild(cfg, cfg.Materials(nil))
	require.NoError(t, err)
	got, ok := st.Current()
	assert.True(t, ok)
	assert.Equal(t, Flush, got.Style)
	assert.Zero(t, first.Stats().Primitives, "previous door must be released")
	assert.NotZero(t, second.Stats().Primitives)

	st.Close()
	_, ok = st.Current()
	assert.False(t, ok)
}

func TestStageSuperseded(t *testing.T) {
	var st Stage
	cfg := DefaultConfig()
	stale := st.next()
	cfg.Style = Flush
	newer, err := st.Rebuild(cfg, cfg.Materials(nil))
	require.NoError(t, err)

	old := DefaultConfig()
	a := MustBuild(old, old.Materials(nil))
	require.NotZero(t, a.Stats().Primitives)
	got, err := st.commit(stale, a)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Nil(t, got)
	assert.Zero(t, a.Stats().Primitives, "superseded door must be released")

	current, ok := st.Current()
	require.True(t, ok)
	assert.Equal(t, Flush, current.Style)
	st.View(func(cur *Assembly) error {
		assert.Same(t, newer, cur)
		return nil
	})
	assert.NotZero(t, newer.Stats().Primitives)
	st.Close()
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader("width: 96\nstyle: Raised Panel\ncolorIndex: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 96.0, cfg.WidthInches)
	assert.Equal(t, DefaultConfig().HeightInches, cfg.HeightInches)
	assert.Equal(t, RaisedPanel, cfg.Style)
	assert.Equal(t, 0, cfg.ColorIndex)

	cfg, err = ReadConfig(strings.NewReader(`{"height": 102, "windowStyle": "None"}`))
	require.NoError(t, err)
	assert.Equal(t, 102.0, cfg.HeightInches)
	assert.Equal(t, "None", cfg.WindowStyle)

	cfg, err = ReadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = ReadConfig(strings.NewReader("depth: 3\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func BenchmarkBuild(b *testing.B) {
	for _, s := range testStyles {
		cfg := cfgFor(s, [2]float64{192, 84})
		mats := cfg.Materials(nil)
		b.Run(string(s), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				MustBuild(cfg, mats).Release()
			}
		})
	}
}

func walkNodes(n *scene.Node, fn func(*scene.Node)) {
	fn(n)
	for _, c := range n.Children {
		walkNodes(c, fn)
	}
}
