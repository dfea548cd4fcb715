package renderer

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"glscene/internal/gpu"
	"glscene/internal/gpu/gputest"
	"glscene/internal/graphics"
	"glscene/internal/profiling"
	"glscene/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePass struct {
	name     string
	initErr  error
	reload   error
	log      *[]string
	contexts []RenderContext
	disposed bool
	reloads  int
	width    int
	height   int
}

func (f *fakePass) Init() error {
	*f.log = append(*f.log, f.name+".init")
	return f.initErr
}

func (f *fakePass) Render(ctx RenderContext) {
	*f.log = append(*f.log, f.name+".render")
	f.contexts = append(f.contexts, ctx)
}

func (f *fakePass) Dispose() {
	*f.log = append(*f.log, f.name+".dispose")
	f.disposed = true
}

func (f *fakePass) SetViewport(width, height int) {
	f.width, f.height = width, height
}

func (f *fakePass) Reload() error {
	f.reloads++
	return f.reload
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLoop(dev gpu.Device) *Loop {
	return NewLoop(dev, scene.NewRegistry(), DefaultOptions(), quietLogger())
}

func TestTickBeforeStart(t *testing.T) {
	l := newTestLoop(gputest.NewRecorder())
	assert.Equal(t, Idle, l.State())
	assert.ErrorIs(t, l.Tick(time.Millisecond), ErrNotRunning)
	assert.ErrorIs(t, l.Run(NewManualTicks(time.Millisecond)), ErrNotRunning)
}

func TestStartTransitionsOnce(t *testing.T) {
	var log []string
	p := &fakePass{name: "scene", log: &log}
	l := newTestLoop(gputest.NewRecorder())
	l.AddPass(p)

	require.NoError(t, l.Start())
	require.NoError(t, l.Start())
	assert.Equal(t, Running, l.State())
	assert.Equal(t, []string{"scene.init"}, log)
	assert.Equal(t, 900, p.width)
}

func TestStartFailureDisposesInitialisedPasses(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	l := newTestLoop(gputest.NewRecorder())
	l.AddPass(&fakePass{name: "a", log: &log})
	l.AddPass(&fakePass{name: "b", log: &log, initErr: boom})
	l.AddPass(&fakePass{name: "c", log: &log})

	err := l.Start()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Idle, l.State())
	assert.Equal(t, []string{"a.init", "b.init", "a.dispose"}, log)
}

func TestTickComputesOrbitCamera(t *testing.T) {
	var log []string
	p := &fakePass{name: "scene", log: &log}
	l := newTestLoop(gputest.NewRecorder())
	l.AddPass(p)
	require.NoError(t, l.Start())

	require.NoError(t, l.Run(NewManualTicks(time.Second, time.Second)))
	require.Len(t, p.contexts, 2)

	opts := DefaultOptions()
	ctx := p.contexts[1]
	eye, view := graphics.OrbitView(2*opts.OrbitSpeed, opts.OrbitRadius, opts.OrbitHeight, opts.OrbitTarget)
	assert.Equal(t, eye, ctx.Eye)
	assert.Equal(t, view, ctx.View)
	assert.InDelta(t, 2.0, ctx.Elapsed, 1e-9)
	assert.Equal(t, uint64(2), ctx.Frame)
	assert.Nil(t, ctx.SceneTexture)
	assert.Equal(t, l.Camera().GetProjectionMatrix(), ctx.Proj)
}

func TestTickClearsAndDrawsToScreenWithoutOverlay(t *testing.T) {
	var log []string
	dev := gputest.NewRecorder()
	l := newTestLoop(dev)
	l.AddPass(&fakePass{name: "scene", log: &log})
	require.NoError(t, l.Start())

	dev.Reset()
	require.NoError(t, l.Tick(16*time.Millisecond))
	assert.Equal(t, []any{uint32(0)}, dev.Named("BindFramebuffer")[0].Args)
	assert.Equal(t, []any{gpu.ClearColorBuffer | gpu.ClearDepthBuffer}, dev.Named("Clear")[0].Args)
	assert.Zero(t, dev.LiveCount("framebuffer"))
}

func TestOverlayGetsSceneTexture(t *testing.T) {
	var log []string
	dev := gputest.NewRecorder()
	scenePass := &fakePass{name: "scene", log: &log}
	overlay := &fakePass{name: "snow", log: &log}
	l := newTestLoop(dev)
	l.AddPass(scenePass)
	l.AddOverlay(overlay)
	require.NoError(t, l.Start())
	assert.Equal(t, 1, dev.LiveCount("framebuffer"))

	log = nil
	require.NoError(t, l.Tick(time.Millisecond))
	assert.Equal(t, []string{"scene.render", "snow.render"}, log)
	assert.Nil(t, scenePass.contexts[0].SceneTexture)
	require.NotNil(t, overlay.contexts[0].SceneTexture)

	l.Dispose()
	assert.Zero(t, dev.LiveCount("framebuffer"))
	assert.Equal(t, []string{"scene.render", "snow.render", "snow.dispose", "scene.dispose"}, log)
}

func TestPulseClear(t *testing.T) {
	dev := gputest.NewRecorder()
	opts := DefaultOptions()
	opts.PulseClear = true
	l := NewLoop(dev, scene.NewRegistry(), opts, quietLogger())
	require.NoError(t, l.Start())

	dev.Reset()
	require.NoError(t, l.Tick(500*time.Millisecond))
	clear := dev.Named("ClearColor")[0]
	assert.InDelta(t, 0.4794, clear.Args[0], 1e-3)

	// sin(4) < 0 clamps to black rather than folding back up
	dev.Reset()
	require.NoError(t, l.Tick(3500*time.Millisecond))
	assert.Equal(t, float32(0), dev.Named("ClearColor")[0].Args[0])
}

func TestFailedResizeRendersDirectToScreen(t *testing.T) {
	var log []string
	dev := gputest.NewRecorder()
	l := newTestLoop(dev)
	l.AddPass(&fakePass{name: "scene", log: &log})
	l.AddOverlay(&fakePass{name: "snow", log: &log})
	require.NoError(t, l.Start())

	dev.Incomplete = true
	l.SetViewport(640, 480)
	log = nil
	dev.Reset()
	require.NoError(t, l.Tick(time.Millisecond))
	assert.Equal(t, []string{"scene.render"}, log, "overlays wait for a usable target")
	assert.Equal(t, []any{uint32(0)}, dev.Named("BindFramebuffer")[0].Args)
	assert.Equal(t, []any{int32(0), int32(0), int32(640), int32(480)}, dev.Named("Viewport")[0].Args)

	dev.Incomplete = false
	l.SetViewport(800, 600)
	log = nil
	require.NoError(t, l.Tick(time.Millisecond))
	assert.Equal(t, []string{"scene.render", "snow.render"}, log)
}

type trackedPass struct {
	fakePass
}

func (p *trackedPass) Render(ctx RenderContext) {
	defer profiling.Track(PassPrefix + p.name)()
	p.fakePass.Render(ctx)
}

func TestFrameStatsReportPassTime(t *testing.T) {
	var buf bytes.Buffer
	var log []string
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := NewLoop(gputest.NewRecorder(), scene.NewRegistry(), DefaultOptions(), logger)
	l.AddPass(&trackedPass{fakePass{name: "scene", log: &log}})
	require.NoError(t, l.Start())

	require.NoError(t, l.Tick(500*time.Millisecond))
	assert.NotContains(t, buf.String(), "frame stats")

	require.NoError(t, l.Tick(time.Second))
	out := buf.String()
	assert.Contains(t, out, `msg="frame stats"`)
	assert.Contains(t, out, "passes=")
	assert.Contains(t, profiling.Snapshot(), PassPrefix+"scene")
}

func TestUpdatersRunBeforePasses(t *testing.T) {
	var log []string
	reg := scene.NewRegistry()
	box := reg.Add("box", nil, scene.Identity(), scene.Material{})
	l := NewLoop(gputest.NewRecorder(), reg, DefaultOptions(), quietLogger())
	l.AddUpdater(func(ctx RenderContext) {
		log = append(log, "update")
		require.NoError(t, ctx.Scene.SetTransform(box.ID, scene.At(mgl32.Vec3{float32(ctx.Elapsed), 0, 0})))
	})
	l.AddPass(&fakePass{name: "scene", log: &log})
	require.NoError(t, l.Start())
	log = nil

	require.NoError(t, l.Tick(2*time.Second))
	assert.Equal(t, []string{"update", "scene.render"}, log)
	assert.Equal(t, mgl32.Translate3D(2, 0, 0), box.Model)
}

func TestRequestReload(t *testing.T) {
	var log []string
	ok := &fakePass{name: "ok", log: &log}
	bad := &fakePass{name: "bad", log: &log, reload: errors.New("compile failed")}
	l := newTestLoop(gputest.NewRecorder())
	l.AddPass(ok)
	l.AddOverlay(bad)
	require.NoError(t, l.Start())

	l.RequestReload()
	l.RequestReload()
	require.NoError(t, l.Tick(time.Millisecond))
	require.NoError(t, l.Tick(time.Millisecond))

	assert.Equal(t, 1, ok.reloads, "requests coalesce")
	assert.Equal(t, 1, bad.reloads)
	assert.Len(t, bad.contexts, 2, "a failed reload keeps rendering")
}

func TestSetViewport(t *testing.T) {
	var log []string
	p := &fakePass{name: "scene", log: &log}
	o := &fakePass{name: "snow", log: &log}
	l := newTestLoop(gputest.NewRecorder())
	l.AddPass(p)
	l.AddOverlay(o)
	require.NoError(t, l.Start())

	l.SetViewport(1280, 720)
	assert.Equal(t, 1280, p.width)
	assert.Equal(t, 720, o.height)
	assert.InDelta(t, 1280.0/720.0, l.Camera().AspectRatio, 1e-6)

	l.SetViewport(0, 0)
	assert.Equal(t, 1280, p.width)
}
