package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"glscene/assets"
	"glscene/internal/config"
	"glscene/internal/demo"
	"glscene/internal/gpu"
	renderer "glscene/internal/graphics/renderer"
	"glscene/internal/graphics/renderables/scenepass"
	"glscene/internal/graphics/renderables/snow"
	"glscene/internal/scene"
	"glscene/internal/shaderwatch"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// run opens the window, builds the scene and renders until the window closes
func run(cfg config.Config, log *slog.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	// Window setup
	window, err := setupWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev := gpu.NewGL()
	reg := scene.NewRegistry()

	width, height := window.GetFramebufferSize()
	loop := renderer.NewLoop(dev, reg, loopOptions(cfg, width, height), log)
	cam := loop.Camera()
	cam.FOV, cam.NearPlane, cam.FarPlane = cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far

	shaders := shaderSource(cfg.Shaders)
	if err := addPasses(loop, dev, shaders, cfg.Render, log); err != nil {
		return err
	}

	d, err := demo.Build(dev, reg, log)
	if err != nil {
		return err
	}
	if cfg.Render.Spin {
		loop.AddUpdater(d.Spinner())
	}

	if err := loop.Start(); err != nil {
		reg.Dispose()
		return err
	}
	defer loop.Dispose()

	if cfg.Shaders.Dir != "" && cfg.Shaders.HotReload {
		w, err := shaderwatch.Watch(cfg.Shaders.Dir, func(string) { loop.RequestReload() }, log)
		if err != nil {
			log.Warn("shader hot reload disabled", "error", err)
		} else {
			defer w.Close()
			log.Info("watching shaders", "dir", cfg.Shaders.Dir)
		}
	}

	setupInputHandlers(window, loop)
	return loop.Run(newWindowTicks(window, cfg.Render.FPSLimit))
}

func loopOptions(cfg config.Config, width, height int) renderer.Options {
	opts := renderer.DefaultOptions()
	opts.Width, opts.Height = width, height
	opts.OrbitRadius = cfg.Camera.OrbitRadius
	opts.OrbitHeight = cfg.Camera.OrbitHeight
	opts.OrbitSpeed = cfg.Camera.OrbitSpeed
	opts.OrbitTarget = mgl32.Vec3(cfg.Camera.OrbitTarget)
	opts.ClearColor = mgl32.Vec4(cfg.Render.ClearColor)
	opts.PulseClear = cfg.Render.PulseClear
	return opts
}

// shaderSource returns the override directory when set, else the embedded shaders
func shaderSource(cfg config.Shaders) fs.FS {
	if cfg.Dir != "" {
		return os.DirFS(cfg.Dir)
	}
	return assets.Shaders()
}

// addPasses registers the scene pass for the mode. Snow shades the scene
// with phong and composites the snow overlay on top.
func addPasses(loop *renderer.Loop, dev gpu.Device, shaders fs.FS, cfg config.Render, log *slog.Logger) error {
	mode := cfg.Mode
	if mode == "snow" {
		mode = string(scenepass.ModePhong)
		loop.AddOverlay(snow.New(dev, shaders, cfg.SnowFlakes, cfg.SnowSeed, log))
	}
	m, err := scenepass.ParseMode(mode)
	if err != nil {
		return err
	}
	loop.AddPass(scenepass.New(dev, shaders, m, log))
	return nil
}

func setupInputHandlers(window *glfw.Window, loop *renderer.Loop) {
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		loop.SetViewport(width, height)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyR:
			loop.RequestReload()
		}
	})
}
