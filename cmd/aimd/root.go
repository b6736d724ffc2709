package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var level string

	root := &cobra.Command{
		Use:           "aimd",
		Short:         "Detector-driven aim assist",
		Long:          `Captures a square region around the crosshair, runs a YOLOv8 detector on it and steers the pointer toward the nearest target.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := zerolog.ParseLevel(level)
			if err != nil {
				return err
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
				Level(lvl).
				With().Timestamp().Logger()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(newRunCmd(), newSettingsCmd())
	return root
}
