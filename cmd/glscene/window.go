package main

import (
	"fmt"
	"time"

	"glscene/internal/config"
	renderer "glscene/internal/graphics/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupWindow(cfg config.Window) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Without vsync the fps limit paces frames
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	return window, nil
}

// windowTicks presents the previous frame, pumps window events and paces
// the next one. It stops once the window is asked to close.
type windowTicks struct {
	window  *glfw.Window
	pace    *renderer.FixedRate
	started bool
}

func newWindowTicks(window *glfw.Window, fpsLimit int) *windowTicks {
	return &windowTicks{window: window, pace: renderer.NewFixedRate(fpsLimit)}
}

func (w *windowTicks) Next() (time.Duration, bool) {
	if w.started {
		w.window.SwapBuffers()
	}
	w.started = true

	glfw.PollEvents()
	if w.window.ShouldClose() {
		return 0, false
	}
	return w.pace.Next()
}
