// Package scenepass draws every drawable of the scene registry.
package scenepass

import (
	"fmt"
	"io/fs"
	"log/slog"

	"glscene/internal/gpu"
	"glscene/internal/graphics"
	renderer "glscene/internal/graphics/renderer"
	"glscene/internal/logx"
	"glscene/internal/profiling"
	"glscene/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Mode selects the shading program
type Mode string

const (
	// ModePlain colours fragments by their UVs
	ModePlain Mode = "plain"
	// ModeTransform draws the flat material colour with per-object transforms
	ModeTransform Mode = "transform"
	// ModePhong lights the material colour with a single point light
	ModePhong Mode = "phong"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModePlain, ModeTransform, ModePhong:
		return m, nil
	}
	return "", fmt.Errorf("unknown shading mode %q", s)
}

// ScenePass implements the scene drawing renderable
type ScenePass struct {
	dev     gpu.Device
	fsys    fs.FS
	mode    Mode
	program *graphics.Program
	log     *slog.Logger

	LightPos   mgl32.Vec3
	LightColor mgl32.Vec3

	// drawables already reported as skipped
	rejected map[uuid.UUID]bool
}

// New creates a scene pass loading <mode>.vert and <mode>.frag from the root
// of fsys. A nil log uses slog.Default.
func New(dev gpu.Device, fsys fs.FS, mode Mode, log *slog.Logger) *ScenePass {
	return &ScenePass{
		dev:        dev,
		fsys:       fsys,
		mode:       mode,
		log:        logx.OrDefault(log),
		LightPos:   mgl32.Vec3{4, 8, 4},
		LightColor: mgl32.Vec3{1, 1, 1},
		rejected:   make(map[uuid.UUID]bool),
	}
}

// Init compiles the program
func (s *ScenePass) Init() error {
	p, err := s.load()
	if err != nil {
		return err
	}
	s.program = p
	return nil
}

func (s *ScenePass) load() (*graphics.Program, error) {
	name := string(s.mode)
	p, err := graphics.LoadProgram(s.dev, s.fsys, name+".vert", name+".frag")
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", name, err)
	}
	return p, nil
}

// Reload recompiles the program and swaps it in on success
func (s *ScenePass) Reload() error {
	p, err := s.load()
	if err != nil {
		return err
	}
	if s.program != nil {
		s.program.Delete()
	}
	s.program = p
	return nil
}

// Program returns the active program
func (s *ScenePass) Program() *graphics.Program {
	return s.program
}

// Render draws the registry in order
func (s *ScenePass) Render(ctx renderer.RenderContext) {
	defer profiling.Track(renderer.PassPrefix + "scene")()

	s.program.Use()
	frame := graphics.UniformConfig{}.
		WithView(ctx.View).
		WithProjection(ctx.Proj).
		WithViewPos(ctx.Eye).
		WithTime(float32(ctx.Elapsed)).
		WithLightPos(s.LightPos).
		WithLightColor(s.LightColor)
	if err := s.program.SetUniforms(frame); err != nil {
		s.log.Error("scene uniforms rejected", "error", err)
		return
	}

	ctx.Scene.Each(func(d *scene.Drawable) {
		if d.Mesh == nil {
			return
		}
		cfg := graphics.UniformConfig{}.
			WithModel(d.Model).
			WithModelView(ctx.View.Mul4(d.Model)).
			WithColor(d.Material.Color)
		if err := s.program.SetUniforms(cfg); err != nil {
			if !s.rejected[d.ID] {
				s.log.Warn("skipping drawable", "name", d.Name, "id", d.ID, "error", err)
				s.rejected[d.ID] = true
			}
			return
		}
		d.Mesh.Bind()
		d.Mesh.Draw()
	})
}

// Dispose releases the program
func (s *ScenePass) Dispose() {
	if s.program != nil {
		s.program.Delete()
	}
}

// SetViewport is a no-op; the projection comes from the render context
func (s *ScenePass) SetViewport(width, height int) {}
