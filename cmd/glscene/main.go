package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"glscene/internal/config"
	"glscene/internal/graphics"
	"glscene/internal/logx"

	"github.com/spf13/cobra"
)

func init() {
	runtime.LockOSThread()
}

type flags struct {
	config   string
	mode     string
	logLevel string
	shaders  string
}

func newRootCmd() (*cobra.Command, *flags) {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "glscene",
		Short:         "Render the orbiting demo scene with OpenGL",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *f)
			if err != nil {
				return err
			}
			log, err := logx.New(cfg.Log.Level, os.Stderr)
			if err != nil {
				return err
			}
			slog.SetDefault(log)
			return run(cfg, log)
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "glscene.toml", "path to the TOML config file")
	cmd.Flags().StringVar(&f.mode, "mode", "", "shading mode: plain, transform, phong or snow")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&f.shaders, "shaders", "", "load shaders from this directory instead of the embedded ones")
	return cmd, f
}

// loadConfig reads the config file and applies the flags that were set
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("mode") {
		cfg.Render.Mode = f.mode
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if cmd.Flags().Changed("shaders") {
		cfg.Shaders.Dir = f.shaders
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	cmd, _ := newRootCmd()
	if err := cmd.Execute(); err != nil {
		var ce *graphics.CompileError
		var le *graphics.LinkError
		switch {
		case errors.As(err, &ce):
			slog.Error("shader compilation failed", "stage", ce.Stage.String(), "log", ce.Log)
		case errors.As(err, &le):
			slog.Error("program link failed", "log", le.Log)
		default:
			slog.Error("glscene failed", "error", err)
		}
		os.Exit(1)
	}
}
