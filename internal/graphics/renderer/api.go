package renderer

import (
	"glscene/internal/graphics"
	"glscene/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext is the per-tick state handed to every renderable
type RenderContext struct {
	Camera  *graphics.Camera
	Scene   *scene.Registry
	DT      float64
	Elapsed float64
	Frame   uint64
	Eye     mgl32.Vec3
	View    mgl32.Mat4
	Proj    mgl32.Mat4
	Width   int
	Height  int

	// SceneTexture is the offscreen scene colour, set for overlay passes only
	SceneTexture *graphics.Texture
}

// Renderable interface defines the lifecycle for render passes
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
	SetViewport(width, height int)
}

// Reloader is implemented by renderables that can rebuild their programs.
// A failed reload must leave the previous program in place.
type Reloader interface {
	Reload() error
}
