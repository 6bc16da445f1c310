package material

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
)

var errUnknownTexture = errors.New("unknown texture")

// Texture is a decoded image that wraps in both directions.
type Texture struct {
	Name  string
	Image image.Image
}

// Loader produces the image for a texture name.
type Loader func(ctx context.Context, name string) (image.Image, error)

// Future is a texture load in flight. It resolves exactly once.
type Future struct {
	done chan struct{}
	tex  *Texture
	err  error
}

// Done is closed once the load finished, successfully or not.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the texture is loaded or ctx is done.
func (f *Future) Wait(ctx context.Context) (*Texture, error) {
	select {
	case <-f.done:
		return f.tex, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready reports whether the load finished.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Cache is a long lived texture store owned by the caller and shared
// read-only between door builds. Each name is loaded at most once; failed
// loads are retried on the next Load call.
type Cache struct {
	load    Loader
	mu      sync.Mutex
	entries map[string]*Future

	hits   atomic.Uint64
	misses atomic.Uint64
}

// CacheStats counts cache lookups.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// NewCache returns an empty cache that loads textures with load.
func NewCache(load Loader) *Cache {
	return &Cache{load: load, entries: make(map[string]*Future)}
}

// Load starts loading name in the background if it is not cached yet and
// returns the future for it. The load is detached from ctx cancellation
// so concurrent waiters are not failed by one caller giving up.
func (c *Cache) Load(ctx context.Context, name string) *Future {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.entries[name]; ok {
		if !f.Ready() || f.err == nil {
			c.hits.Add(1)
			return f
		}
	}
	c.misses.Add(1)
	f := &Future{done: make(chan struct{})}
	c.entries[name] = f
	go func() {
		defer close(f.done)
		img, err := c.load(context.WithoutCancel(ctx), name)
		if err != nil {
			f.err = fmt.Errorf("load texture %q: %w", name, err)
			return
		}
		f.tex = &Texture{Name: name, Image: img}
	}()
	return f
}

// Get returns the texture if it finished loading successfully.
func (c *Cache) Get(name string) (*Texture, bool) {
	c.mu.Lock()
	f, ok := c.entries[name]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	if !f.Ready() || f.err != nil {
		return nil, false
	}
	return f.tex, true
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	return CacheStats{Entries: n, Hits: c.hits.Load(), Misses: c.misses.Load()}
}
