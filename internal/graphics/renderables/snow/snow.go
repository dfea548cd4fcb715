// Package snow composites falling snow over the offscreen scene texture.
package snow

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"glscene/internal/geometry"
	"glscene/internal/gpu"
	"glscene/internal/graphics"
	renderer "glscene/internal/graphics/renderer"
	"glscene/internal/logx"
	"glscene/internal/profiling"
)

const (
	VertShader = "snow.vert"
	FragShader = "snow.frag"
	// MaskFile replaces the generated mask when present in the shader FS
	MaskFile = "snow.png"

	// MaskSize is the edge length of the repeating snow mask texture
	MaskSize = 256

	sceneUnit = 0
	maskUnit  = 1
)

// Snow implements the full-screen overlay pass
type Snow struct {
	dev     gpu.Device
	fsys    fs.FS
	program *graphics.Program
	quad    *graphics.Mesh
	mask    *graphics.Texture
	log     *slog.Logger

	flakes int
	seed   int64
	width  int
	height int
}

// New creates the overlay. flakes is the number of flakes in the mask.
func New(dev gpu.Device, fsys fs.FS, flakes int, seed int64, log *slog.Logger) *Snow {
	return &Snow{
		dev:    dev,
		fsys:   fsys,
		log:    logx.OrDefault(log),
		flakes: flakes,
		seed:   seed,
		width:  1,
		height: 1,
	}
}

// Init compiles the program and uploads the quad and the mask
func (s *Snow) Init() error {
	p, err := graphics.LoadProgram(s.dev, s.fsys, VertShader, FragShader)
	if err != nil {
		return fmt.Errorf("snow program: %w", err)
	}
	s.program = p

	s.quad, err = graphics.Upload(s.dev, geometry.Quad(), graphics.LayoutPosNormalUV, s.log)
	if err != nil {
		s.program.Delete()
		return err
	}

	s.mask = s.loadMask()
	return nil
}

func (s *Snow) loadMask() *graphics.Texture {
	tex, err := graphics.LoadTexture(s.dev, s.fsys, MaskFile, gpu.WrapRepeat)
	if err == nil {
		s.log.Info("using snow mask file", "path", MaskFile, "width", tex.Width, "height", tex.Height)
		return tex
	}
	if !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("ignoring snow mask file", "path", MaskFile, "error", err)
	}
	return graphics.UploadTexture(s.dev, Texture(MaskSize, MaskSize, s.flakes, s.seed), gpu.WrapRepeat)
}

// Reload recompiles the program and swaps it in on success
func (s *Snow) Reload() error {
	p, err := graphics.LoadProgram(s.dev, s.fsys, VertShader, FragShader)
	if err != nil {
		return fmt.Errorf("snow program: %w", err)
	}
	if s.program != nil {
		s.program.Delete()
	}
	s.program = p
	return nil
}

// Render draws the scene texture with snow on top
func (s *Snow) Render(ctx renderer.RenderContext) {
	if ctx.SceneTexture == nil {
		return
	}
	defer profiling.Track(renderer.PassPrefix + "snow")()

	s.program.Use()
	ctx.SceneTexture.Bind(sceneUnit)
	s.mask.Bind(maskUnit)

	cfg := graphics.UniformConfig{}.
		WithTexture(sceneUnit).
		WithMask(maskUnit).
		WithTime(float32(ctx.Elapsed)).
		WithResolution(float32(s.width), float32(s.height))
	if err := s.program.SetUniforms(cfg); err != nil {
		s.log.Error("snow uniforms rejected", "error", err)
		return
	}

	s.quad.Bind()
	s.quad.Draw()
	s.dev.ActiveTexture(sceneUnit)
}

// Dispose cleans up GPU resources
func (s *Snow) Dispose() {
	if s.mask != nil {
		s.mask.Delete()
	}
	if s.quad != nil {
		s.quad.Delete()
	}
	if s.program != nil {
		s.program.Delete()
	}
}

// SetViewport records the output size used for the flake aspect ratio
func (s *Snow) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		s.width, s.height = width, height
	}
}
