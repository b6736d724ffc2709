package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-aim/capture"
	"github.com/nvr-ai/go-aim/controller"
	"github.com/nvr-ai/go-aim/inference"
	"github.com/nvr-ai/go-aim/inference/providers"
	"github.com/nvr-ai/go-aim/input"
	"github.com/nvr-ai/go-aim/overlay"
	"github.com/nvr-ai/go-aim/settings"
	"github.com/nvr-ai/go-aim/storage"
)

type runFlags struct {
	model    string
	config   string
	provider string
	library  string
	dataDir  string
	replay   string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the aim loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Path to a YOLOv8 .onnx model")
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "Settings YAML file")
	cmd.Flags().StringVarP(&f.provider, "provider", "p", string(providers.DefaultBackend()), "Preferred execution provider")
	cmd.Flags().StringVar(&f.library, "ort-lib", "", "onnxruntime shared library (default $"+providers.LibraryPathEnv+")")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "bin", "Directory for collected training data")
	cmd.Flags().StringVar(&f.replay, "replay", "", "Replay saved frames from a directory instead of capturing the screen")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func loadSettings(path string) (*settings.Store, error) {
	if path == "" {
		return settings.NewStore(), nil
	}
	return settings.Load(path)
}

func run(ctx context.Context, f runFlags) error {
	logger := log.Logger

	store, err := loadSettings(f.config)
	if err != nil {
		return err
	}
	store.SetKeyState(input.Keyboard{})

	backend, err := providers.ParseBackend(f.provider)
	if err != nil {
		return err
	}

	display, err := capture.PrimaryDisplay()
	if err != nil {
		return err
	}

	cfg := inference.DefaultConfig()
	cfg.ModelPath = f.model
	cfg.LibraryPath = f.library
	cfg.Backend = backend

	engine := inference.LoadAsync(func() (inference.Engine, error) {
		return inference.NewONNXEngine(cfg, logger)
	}, logger)
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close engine")
		}
	}()

	collector, err := storage.NewCollector(storage.Options{Dir: f.dataDir}, logger)
	if err != nil {
		return err
	}

	var capturer controller.Capturer = capture.NewScreen()
	if f.replay != "" {
		replay, err := capture.NewReplay(f.replay)
		if err != nil {
			return err
		}
		logger.Info().Str("dir", f.replay).Int("frames", replay.Len()).Msg("Replaying saved frames")
		capturer = replay
	}

	ctrl, err := controller.New(controller.Deps{
		Engine:   engine,
		Capturer: capturer,
		Pointer: input.NewMouse(display.Size(), func() float64 {
			return store.Slider(settings.MouseSensitivity)
		}, logger),
		Settings:  store,
		Overlay:   overlay.NewLog(logger),
		Persister: collector,
		Cursor:    input.SystemCursor{},
		Logger:    logger,
	}, controller.Options{
		ScreenWidth:  display.Dx(),
		ScreenHeight: display.Dy(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	go ctrl.Tracker().Run(ctx, logger)

	<-ctx.Done()

	err = ctrl.Stop()
	stats := ctrl.Stats()
	logger.Info().
		Int64("iterations", stats.Iterations).
		Dur("avg_cycle", stats.AverageCycle).
		Msg("Aim loop finished")

	if errors.Is(err, controller.ErrShutdownTimeout) {
		return err
	}
	return nil
}
