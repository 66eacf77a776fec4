package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"runtime"
	"time"

	"matcatalog/internal/app"
	"matcatalog/internal/clock"
	"matcatalog/internal/config"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", config.DefaultPath, "path to the YAML config file")
		variant    = flag.String("variant", "", "scene layout: catalog | gallery | trio")
		share      = flag.Bool("share-material", false, "share one material between meshes of the same catalog entry")
		assets     = flag.String("assets", "", "asset root directory")
		writeCfg   = flag.Bool("write-config", false, "write the effective config to -config and exit")
	)
	flag.Parse()

	// ---- Logging (reconfigured once the config is known) ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", *configPath).Msg("config file not found; using defaults")
	case err != nil:
		log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
	}

	// ---- Flags override the file where given ----
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "variant":
			cfg.Scene.Variant = *variant
		case "share-material":
			cfg.Scene.ShareMaterial = *share
		case "assets":
			cfg.Scene.AssetRoot = *assets
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg.Log)
	cfg.Apply()

	if *writeCfg {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config save failed")
		}
		log.Info().Str("path", *configPath).Msg("config written")
		return
	}

	closer.Checked(func() error { return run(cfg) }, true)
	closer.Close()
}

func setupLogging(c config.Log) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || c.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// run owns the window and GL context for the lifetime of the app. A render
// failure is returned so the process exits non-zero.
func run(cfg *config.Config) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	// Window setup
	window, err := app.SetupWindow(cfg.Window, cfg.Render.VSync)
	if err != nil {
		return err
	}
	defer window.Destroy()

	a, err := app.New(window, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// decode workers and the asset watcher must stop on SIGINT/SIGTERM too
	closer.Bind(a.Loader().Shutdown)

	if err := a.Run(clock.Start()); err != nil {
		log.Error().Err(err).Msg("render loop stopped")
		return err
	}
	log.Info().Msg("window closed")
	return nil
}
