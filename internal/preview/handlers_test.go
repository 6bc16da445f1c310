package preview

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/soypat/door"
	"github.com/soypat/door/internal/config"
	"github.com/soypat/door/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, textures bool) (*fiber.App, *Service) {
	t.Helper()
	cfg := &config.Config{
		PreviewWidth:   48,
		PreviewHeight:  27,
		ElevationWidth: 4,
		Textures:       textures,
	}
	svc := New(cfg, material.WoodGrainLoader(32, nil))
	t.Cleanup(svc.Close)
	app := fiber.New()
	svc.Register(app)
	return app, svc
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 0})
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, b
}

func TestNoDoor(t *testing.T) {
	app, _ := newTestApp(t, false)
	resp, _ := do(t, app, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, app, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	for _, path := range []string{"/door", "/door.glb", "/door.stl", "/door.png", "/door/elevation"} {
		resp, _ = do(t, app, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestRebuild(t *testing.T) {
	app, _ := newTestApp(t, true)
	resp, body := do(t, app, http.MethodPost, "/door", `{"width":96,"height":84,"style":"Raised Panel","colorIndex":0}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sum Summary
	require.NoError(t, json.Unmarshal(body, &sum))
	assert.Equal(t, "Raised Panel", sum.Style)
	assert.Equal(t, 4, sum.Sections)
	assert.False(t, sum.Fallback)
	assert.InDelta(t, 8, sum.Size[0], 1e-9)
	assert.InDelta(t, 7, sum.Size[1], 1e-9)

	resp, body = do(t, app, http.MethodGet, "/door", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got Summary
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, sum.ID, got.ID)

	// A bad rebuild keeps the previous door.
	resp, _ = do(t, app, http.MethodPost, "/door", `{"width":-1,"height":84}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, app, http.MethodPost, "/door", `{"width":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, body = do(t, app, http.MethodPost, "/door", `{"width":96,"depth":3}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "depth")
	resp, body = do(t, app, http.MethodGet, "/door", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, sum.ID, got.ID)

	resp, body = do(t, app, http.MethodPost, "/door", `{"style":"Nonexistent"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got.Fallback)
	assert.Equal(t, door.DefaultConfig().WidthInches, got.Config.WidthInches)
}

func TestAssets(t *testing.T) {
	app, svc := newTestApp(t, false)
	require.NoError(t, svc.BuildDefault())

	resp, _ := do(t, app, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, app, http.MethodGet, "/door.glb", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "model/gltf-binary", resp.Header.Get("Content-Type"))
	assert.Equal(t, "glTF", string(body[:4]))

	resp, body = do(t, app, http.MethodGet, "/door.stl", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, (len(body)-84)%50)

	resp, body = do(t, app, http.MethodGet, "/door.png", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cfg, err := png.DecodeConfig(strings.NewReader(string(body)))
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.Width)
	assert.Equal(t, 27, cfg.Height)

	resp, _ = do(t, app, http.MethodGet, "/door/elevation", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	resp, body = do(t, app, http.MethodGet, "/door/elevation?format=svg", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "<svg")

	resp, body = do(t, app, http.MethodGet, "/styles", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Carriage House")
}
