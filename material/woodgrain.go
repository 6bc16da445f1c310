package material

import (
	"context"
	"image"
	"image/color"
	"math/rand"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
)

// WoodGrainName is the texture name WoodGrainLoader answers to.
const WoodGrainName = "wood-grain"

// WoodGrain paints a tileable wood grain of size px by px: a base colour
// crossed by faint darker streaks. The same seed yields the same image.
func WoodGrain(base color.NRGBA, px int, seed int64) image.Image {
	const streaks = 400
	rng := rand.New(rand.NewSource(seed))
	size := vg.Length(px)
	c := vgimg.NewWith(vgimg.UseWH(size, size), vgimg.UseDPI(72), vgimg.UseBackgroundColor(base))
	for i := 0; i < streaks; i++ {
		dark := Shade(base, 0.85+rng.Float64()*0.1)
		dark.A = uint8(rng.Float64() * 0.15 * 255)
		x := vg.Length((rng.Float64() - 0.5) * float64(px) * 0.3)
		y := vg.Length(float64(i)*float64(px)/streaks + (rng.Float64()-0.5)*10)
		var p vg.Path
		p.Move(vg.Point{X: x, Y: y})
		p.CubeTo(vg.Point{X: x + 0.4*size, Y: y}, vg.Point{X: x + 0.6*size, Y: y}, vg.Point{X: x + 1.3*size, Y: y})
		c.SetColor(dark)
		c.SetLineWidth(vg.Length(rng.Float64()*2.5 + 1))
		c.Stroke(p)
	}
	return c.Image()
}

// WoodGrainLoader is a Loader that paints WoodGrainName procedurally in the
// Wood Grain swatch colour. Other names are delegated to next, which may be nil.
func WoodGrainLoader(px int, next Loader) Loader {
	return func(ctx context.Context, name string) (image.Image, error) {
		if name == WoodGrainName {
			return WoodGrain(Palette[DefaultSwatch].Color, px, 1), nil
		}
		if next == nil {
			return nil, errUnknownTexture
		}
		return next(ctx, name)
	}
}
