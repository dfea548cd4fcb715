package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"glscene/internal/gpu"
	"glscene/internal/graphics"
	"glscene/internal/logx"
	"glscene/internal/profiling"
	"glscene/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// PassPrefix prefixes the profiling names passes record their Render time under
const PassPrefix = "renderer."

// ErrNotRunning is returned by Tick before Start has succeeded
var ErrNotRunning = errors.New("render loop is not running")

// State is the loop lifecycle state
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Options configures the camera orbit and frame clearing
type Options struct {
	Width  int
	Height int

	OrbitRadius float64
	OrbitHeight float32
	// OrbitSpeed is in radians per second of elapsed time
	OrbitSpeed  float64
	OrbitTarget mgl32.Vec3

	ClearColor mgl32.Vec4
	// PulseClear sets the clear colour's red channel to sin(elapsed), clamped at 0
	PulseClear bool
}

// DefaultOptions matches a 900x600 window orbiting at radius 10
func DefaultOptions() Options {
	return Options{
		Width:       900,
		Height:      600,
		OrbitRadius: 10,
		OrbitHeight: 3,
		OrbitSpeed:  0.5,
		ClearColor:  mgl32.Vec4{0.05, 0.05, 0.1, 1},
	}
}

// Loop drives one frame per tick: it advances the clock, recomputes the
// orbit camera and runs every pass. Scene passes draw into an offscreen
// target when overlay passes are present; overlays then draw to the screen.
type Loop struct {
	dev    gpu.Device
	log    *slog.Logger
	opts   Options
	camera *graphics.Camera
	scene  *scene.Registry
	clock  FrameClock

	updaters []UpdateFunc
	passes   []Renderable
	overlays []Renderable
	target   *graphics.Framebuffer
	// targetOK is false after a failed resize; scene passes then draw to
	// the screen and overlays are skipped until a resize succeeds.
	targetOK bool

	state  State
	reload chan struct{}

	frames     int
	lastReport float64
}

// NewLoop creates an idle loop owning the registry. A nil logger uses slog.Default.
func NewLoop(dev gpu.Device, reg *scene.Registry, opts Options, log *slog.Logger) *Loop {
	return &Loop{
		dev:    dev,
		log:    logx.OrDefault(log),
		opts:   opts,
		camera: graphics.NewCamera(opts.Width, opts.Height),
		scene:  reg,
		reload: make(chan struct{}, 1),
	}
}

// UpdateFunc mutates scene state (transforms) before the passes run
type UpdateFunc func(ctx RenderContext)

// AddUpdater registers fn to run every tick before the passes
func (l *Loop) AddUpdater(fn UpdateFunc) {
	l.updaters = append(l.updaters, fn)
}

// AddPass appends a scene pass. Passes must be added before Start.
func (l *Loop) AddPass(r Renderable) {
	l.passes = append(l.passes, r)
}

// AddOverlay appends a full-screen pass that samples the scene texture
func (l *Loop) AddOverlay(r Renderable) {
	l.overlays = append(l.overlays, r)
}

// Start initialises every pass and moves the loop to Running. It is a
// no-op once running. On failure the loop stays Idle and already
// initialised passes are disposed.
func (l *Loop) Start() error {
	if l.state == Running {
		return nil
	}

	l.dev.Enable(gpu.DepthTest)
	l.dev.Enable(gpu.CullFace)

	var ready []Renderable
	fail := func(err error) error {
		for i := len(ready) - 1; i >= 0; i-- {
			ready[i].Dispose()
		}
		if l.target != nil {
			l.target.Delete()
			l.target = nil
		}
		return err
	}

	for _, r := range l.passes {
		if err := r.Init(); err != nil {
			return fail(err)
		}
		r.SetViewport(l.opts.Width, l.opts.Height)
		ready = append(ready, r)
	}

	if len(l.overlays) > 0 {
		fb, err := graphics.NewFramebuffer(l.dev, l.opts.Width, l.opts.Height)
		if err != nil {
			return fail(fmt.Errorf("offscreen target: %w", err))
		}
		l.target = fb
		l.targetOK = true
	}
	for _, r := range l.overlays {
		if err := r.Init(); err != nil {
			return fail(err)
		}
		r.SetViewport(l.opts.Width, l.opts.Height)
		ready = append(ready, r)
	}

	l.state = Running
	l.log.Info("render loop started",
		"passes", len(l.passes), "overlays", len(l.overlays), "drawables", l.scene.Len())
	return nil
}

// State returns the lifecycle state
func (l *Loop) State() State {
	return l.state
}

// Clock returns the loop's frame clock
func (l *Loop) Clock() *FrameClock {
	return &l.clock
}

// Camera returns the camera instance
func (l *Loop) Camera() *graphics.Camera {
	return l.camera
}

// RequestReload asks passes to rebuild their programs on the next tick.
// Safe to call from any goroutine.
func (l *Loop) RequestReload() {
	select {
	case l.reload <- struct{}{}:
	default:
	}
}

// Run pulls ticks from src until it reports the host gone
func (l *Loop) Run(src TickSource) error {
	for {
		dt, ok := src.Next()
		if !ok {
			return nil
		}
		if err := l.Tick(dt); err != nil {
			return err
		}
	}
}

// Tick renders one frame
func (l *Loop) Tick(dt time.Duration) error {
	if l.state != Running {
		return ErrNotRunning
	}
	profiling.ResetFrame()
	defer profiling.Track("loop.tick")()

	l.drainReload()

	l.clock.Advance(dt)
	elapsed := l.clock.Elapsed()
	eye, view := graphics.OrbitView(elapsed*l.opts.OrbitSpeed, l.opts.OrbitRadius, l.opts.OrbitHeight, l.opts.OrbitTarget)

	ctx := RenderContext{
		Camera:  l.camera,
		Scene:   l.scene,
		DT:      dt.Seconds(),
		Elapsed: elapsed,
		Frame:   l.clock.Frame(),
		Eye:     eye,
		View:    view,
		Proj:    l.camera.GetProjectionMatrix(),
		Width:   l.opts.Width,
		Height:  l.opts.Height,
	}
	for _, u := range l.updaters {
		u(ctx)
	}

	offscreen := l.target != nil && l.targetOK
	if offscreen {
		l.target.Bind()
	} else {
		l.dev.BindFramebuffer(0)
		l.dev.Viewport(0, 0, int32(l.opts.Width), int32(l.opts.Height))
	}
	l.dev.Enable(gpu.DepthTest)
	l.clear(elapsed)
	for _, r := range l.passes {
		r.Render(ctx)
	}

	if offscreen {
		l.target.Unbind()
		l.dev.Viewport(0, 0, int32(l.opts.Width), int32(l.opts.Height))
		l.dev.Disable(gpu.DepthTest)
		l.dev.ClearColor(0, 0, 0, 1)
		l.dev.Clear(gpu.ClearColorBuffer)
		ctx.SceneTexture = l.target.Color
		for _, r := range l.overlays {
			r.Render(ctx)
		}
	}

	l.reportFPS(elapsed)
	return nil
}

func (l *Loop) clear(elapsed float64) {
	c := l.opts.ClearColor
	if l.opts.PulseClear {
		c[0] = max(float32(math.Sin(elapsed)), 0)
	}
	l.dev.ClearColor(c[0], c[1], c[2], c[3])
	l.dev.Clear(gpu.ClearColorBuffer | gpu.ClearDepthBuffer)
}

func (l *Loop) drainReload() {
	select {
	case <-l.reload:
	default:
		return
	}
	for _, r := range append(append([]Renderable{}, l.passes...), l.overlays...) {
		rl, ok := r.(Reloader)
		if !ok {
			continue
		}
		if err := rl.Reload(); err != nil {
			l.log.Error("shader reload failed, keeping previous program", "error", err)
			continue
		}
		l.log.Info("shaders reloaded", "pass", fmt.Sprintf("%T", r))
	}
}

func (l *Loop) reportFPS(elapsed float64) {
	l.frames++
	if elapsed-l.lastReport < 1 {
		return
	}
	l.log.Debug("frame stats",
		"fps", float64(l.frames)/(elapsed-l.lastReport),
		"frame", l.clock.Frame(),
		"passes", profiling.SumWithPrefix(PassPrefix),
		"top", profiling.TopN(3))
	l.frames = 0
	l.lastReport = elapsed
}

// SetViewport resizes the camera, the offscreen target and every pass
func (l *Loop) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	l.opts.Width, l.opts.Height = width, height
	l.camera.SetViewport(width, height)
	if l.target != nil {
		err := l.target.Resize(width, height)
		if err != nil {
			l.log.Error("resizing offscreen target, overlays disabled", "error", err)
		} else if !l.targetOK {
			l.log.Info("offscreen target restored", "width", width, "height", height)
		}
		l.targetOK = err == nil
	}
	for _, r := range l.passes {
		r.SetViewport(width, height)
	}
	for _, r := range l.overlays {
		r.SetViewport(width, height)
	}
}

// Dispose cleans up all passes in reverse order, then the scene and target
func (l *Loop) Dispose() {
	for i := len(l.overlays) - 1; i >= 0; i-- {
		l.overlays[i].Dispose()
	}
	for i := len(l.passes) - 1; i >= 0; i-- {
		l.passes[i].Dispose()
	}
	if l.target != nil {
		l.target.Delete()
		l.target = nil
	}
	l.scene.Dispose()
}
