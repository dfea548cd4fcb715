package scenepass

import (
	"bytes"
	"io/fs"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"glscene/assets"
	"glscene/internal/geometry"
	"glscene/internal/gpu/gputest"
	"glscene/internal/graphics"
	renderer "glscene/internal/graphics/renderer"
	"glscene/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(reg *scene.Registry) renderer.RenderContext {
	eye, view := graphics.OrbitView(0, 10, 0, mgl32.Vec3{})
	return renderer.RenderContext{
		Scene: reg,
		Eye:   eye,
		View:  view,
		Proj:  mgl32.Perspective(mgl32.DegToRad(45), 1.5, 0.1, 100),
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"plain", "transform", "phong"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), m)
	}
	_, err := ParseMode("snow")
	assert.Error(t, err)
}

func TestInitLoadsEveryModeFromAssets(t *testing.T) {
	for _, m := range []Mode{ModePlain, ModeTransform, ModePhong} {
		dev := gputest.NewRecorder()
		p := New(dev, assets.Shaders(), m, nil)
		require.NoError(t, p.Init(), "mode %s", m)
		assert.NotNil(t, p.Program())
		p.Dispose()
		assert.Zero(t, dev.LiveCount("program"))
	}
}

func TestRenderDrawsEachDrawable(t *testing.T) {
	dev := gputest.NewRecorder()
	reg := scene.NewRegistry()
	cube, err := graphics.Upload(dev, geometry.Cube(1), graphics.LayoutPosNormalUV, nil)
	require.NoError(t, err)
	cone, err := graphics.Upload(dev, geometry.Cone(1, 2, 16), graphics.LayoutPosNormalUV, nil)
	require.NoError(t, err)
	reg.Add("cube", cube, scene.At(mgl32.Vec3{2, 0, 0}), scene.Material{Color: mgl32.Vec3{0, 1, 0}})
	reg.Add("cone", cone, scene.Identity(), scene.Material{})
	reg.Add("empty", nil, scene.Identity(), scene.Material{})

	p := New(dev, assets.Shaders(), ModePhong, nil)
	require.NoError(t, p.Init())

	dev.Reset()
	p.Render(testContext(reg))

	draws := dev.Named("DrawTriangles")
	require.Len(t, draws, 2)
	assert.Equal(t, cube.VertexCount, draws[0].Args[1])
	assert.Equal(t, cone.VertexCount, draws[1].Args[1])

	colorLoc := p.Program().Location(graphics.UniformColor)
	var colors []any
	for _, c := range dev.Named("Uniform3f") {
		if c.Args[0] == colorLoc {
			colors = append(colors, c.Args[1:])
		}
	}
	assert.Equal(t, []any{
		[]any{float32(0), float32(1), float32(0)},
		[]any{scene.DefaultColor[0], scene.DefaultColor[1], scene.DefaultColor[2]},
	}, colors)
	assert.Equal(t, 1, dev.Count("UseProgram"))
}

func TestRenderSkipsDrawableWithInvalidMaterial(t *testing.T) {
	dev := gputest.NewRecorder()
	reg := scene.NewRegistry()
	cube, err := graphics.Upload(dev, geometry.Cube(1), graphics.LayoutPosNormalUV, nil)
	require.NoError(t, err)
	reg.Add("hot", cube, scene.Identity(), scene.Material{Color: mgl32.Vec3{4, 0, 0}})
	reg.Add("ok", cube, scene.Identity(), scene.Material{})

	p := New(dev, assets.Shaders(), ModeTransform, nil)
	require.NoError(t, p.Init())
	dev.Reset()
	p.Render(testContext(reg))
	p.Render(testContext(reg))

	assert.Equal(t, 2, dev.Count("DrawTriangles"))
}

func TestRenderReportsEachSkippedDrawableOnce(t *testing.T) {
	dev := gputest.NewRecorder()
	reg := scene.NewRegistry()
	cube, err := graphics.Upload(dev, geometry.Cube(1), graphics.LayoutPosNormalUV, nil)
	require.NoError(t, err)
	hot := scene.Material{Color: mgl32.Vec3{4, 0, 0}}
	a := reg.Add("box", cube, scene.Identity(), hot)
	b := reg.Add("box", cube, scene.At(mgl32.Vec3{1, 0, 0}), hot)

	var logs bytes.Buffer
	p := New(dev, assets.Shaders(), ModeTransform, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, p.Init())
	p.Render(testContext(reg))
	p.Render(testContext(reg))

	out := logs.String()
	assert.Equal(t, 2, strings.Count(out, "skipping drawable"), out)
	assert.Contains(t, out, "id="+a.ID.String())
	assert.Contains(t, out, "id="+b.ID.String())
	assert.Zero(t, dev.Count("DrawTriangles"))
}

func TestReloadKeepsProgramOnFailure(t *testing.T) {
	vert, err := fs.ReadFile(assets.Shaders(), "plain.vert")
	require.NoError(t, err)
	frag, err := fs.ReadFile(assets.Shaders(), "plain.frag")
	require.NoError(t, err)
	fsys := fstest.MapFS{
		"plain.vert": {Data: vert},
		"plain.frag": {Data: frag},
	}

	dev := gputest.NewRecorder()
	p := New(dev, fsys, ModePlain, nil)
	require.NoError(t, p.Init())
	before := p.Program()

	fsys["plain.frag"] = &fstest.MapFile{Data: []byte("BROKEN")}
	dev.FailSource = "BROKEN"
	var ce *graphics.CompileError
	require.ErrorAs(t, p.Reload(), &ce)
	assert.Same(t, before, p.Program())
	assert.Equal(t, 1, dev.LiveCount("program"))

	fsys["plain.frag"] = &fstest.MapFile{Data: frag}
	require.NoError(t, p.Reload())
	assert.NotSame(t, before, p.Program())
	assert.Equal(t, 1, dev.LiveCount("program"))
}
