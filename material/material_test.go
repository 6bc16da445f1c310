package material

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestNewSet(t *testing.T) {
	sw := SwatchAt(DefaultSwatch)
	assert.Equal(t, "Wood Grain", sw.Name)
	set := NewSet(sw, nil, 16, 7)
	require.NoError(t, set.Validate())
	assert.Equal(t, Hex(0x8B4513), set.Base.Color)
	assert.Equal(t, color.NRGBA{R: 83, G: 41, B: 11, A: 255}, set.Groove.Color) // x0.6
	assert.Equal(t, color.NRGBA{R: 97, G: 48, B: 13, A: 255}, set.Panel.Color)  // x0.7
	assert.Equal(t, Hex(0xF8F8F8), set.Back.Color)
	assert.Same(t, set.Groove, set.Get(RoleVGroove))
	assert.Same(t, DefaultShadow, set.Get(RoleShadow))
	assert.Nil(t, set.Base.Texture)

	tex := &Texture{Name: WoodGrainName}
	set = NewSet(sw, tex, 16, 7)
	assert.Same(t, tex, set.Panel.Texture)
	assert.Equal(t, r2.Vec{X: 24, Y: 7}, set.Panel.Repeat)
	assert.Nil(t, set.Back.Texture)
}

func TestSetFallback(t *testing.T) {
	base := &Material{Name: "base"}
	set := &Set{Base: base}
	for r := RoleBase; r < numRoles; r++ {
		m := set.Get(r)
		require.NotNil(t, m, r.String())
		if r == RoleShadow {
			assert.Same(t, DefaultShadow, m)
		} else {
			assert.Same(t, base, m, r.String())
		}
	}
	assert.Error(t, (&Set{}).Validate())
	assert.Error(t, (&Set{Base: &Material{Transparency: -1}}).Validate())
	assert.Error(t, (&Set{Base: &Material{Transparency: 1}}).Validate())
}

func TestZeroMaterialOpaque(t *testing.T) {
	var m Material
	assert.False(t, m.Transparent())
	assert.Equal(t, 1.0, m.Alpha())
	assert.NoError(t, (&Set{Base: &m}).Validate())
	assert.True(t, DefaultShadow.Transparent())
	assert.InDelta(t, 0.65, DefaultShadow.Alpha(), 1e-12)
	for _, m := range []*Material{NewSet(SwatchAt(0), nil, 8, 7).Base, NewSet(SwatchAt(0), nil, 8, 7).Back} {
		assert.False(t, m.Transparent(), m.Name)
	}
}

func TestSwatches(t *testing.T) {
	assert.Equal(t, Palette[DefaultSwatch], SwatchAt(-1))
	assert.Equal(t, Palette[DefaultSwatch], SwatchAt(len(Palette)))
	assert.Equal(t, "Black", SwatchAt(5).Name)
	i, ok := SwatchByName("charcoal")
	assert.True(t, ok)
	assert.Equal(t, 4, i)
	_, ok = SwatchByName("mauve")
	assert.False(t, ok)
}

func TestTextureRepeat(t *testing.T) {
	assert.Equal(t, r2.Vec{X: 24, Y: 7}, TextureRepeat(16, 7))
	assert.Equal(t, r2.Vec{X: 1, Y: 1}, TextureRepeat(0.1, 0.2))
	assert.Equal(t, r2.Vec{X: 12, Y: 8}, TextureRepeat(8, 7.5))
}

func TestCacheLoadsOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := NewCache(func(ctx context.Context, name string) (image.Image, error) {
		calls.Add(1)
		<-release
		return image.NewNRGBA(image.Rect(0, 0, 2, 2)), nil
	})
	ctx := context.Background()
	var wg sync.WaitGroup
	futures := make([]*Future, 8)
	for i := range futures {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			futures[i] = c.Load(ctx, "grain")
		}(i)
	}
	wg.Wait()
	_, ok := c.Get("grain")
	assert.False(t, ok, "texture available before load finished")
	close(release)
	for _, f := range futures {
		tex, err := f.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, "grain", tex.Name)
	}
	tex, ok := c.Get("grain")
	assert.True(t, ok)
	assert.NotNil(t, tex.Image)
	assert.EqualValues(t, 1, calls.Load())
	st := c.Stats()
	assert.Equal(t, 1, st.Entries)
	assert.EqualValues(t, 7, st.Hits)
	assert.EqualValues(t, 1, st.Misses)
}

func TestCacheRetriesFailure(t *testing.T) {
	fail := errors.New("missing file")
	var calls atomic.Int32
	c := NewCache(func(ctx context.Context, name string) (image.Image, error) {
		if calls.Add(1) == 1 {
			return nil, fail
		}
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	})
	ctx := context.Background()
	_, err := c.Load(ctx, "x").Wait(ctx)
	assert.ErrorIs(t, err, fail)
	_, ok := c.Get("x")
	assert.False(t, ok)
	_, err = c.Load(ctx, "x").Wait(ctx)
	assert.NoError(t, err)
}

func TestFutureWaitCanceled(t *testing.T) {
	c := NewCache(func(ctx context.Context, name string) (image.Image, error) {
		select {} // never loads
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := c.Load(context.Background(), "slow")
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.Ready())
}

func TestWoodGrain(t *testing.T) {
	a := WoodGrain(Palette[DefaultSwatch].Color, 64, 7)
	b := WoodGrain(Palette[DefaultSwatch].Color, 64, 7)
	assert.Equal(t, image.Rect(0, 0, 64, 64), a.Bounds())
	assert.Equal(t, a, b)

	load := WoodGrainLoader(32, nil)
	img, err := load(context.Background(), WoodGrainName)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	_, err = load(context.Background(), "marble")
	assert.Error(t, err)
}
