package main

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/DoctorLogiq/Terrascape/internal/config"
	"github.com/DoctorLogiq/Terrascape/internal/debug"
	"github.com/DoctorLogiq/Terrascape/internal/game"
	"github.com/DoctorLogiq/Terrascape/internal/startup"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

var rootCmd = &cobra.Command{
	Use:   "terrascape [-debug] [-verbose] [-holdConsole] [-unsafe] [-profile]",
	Short: "Terrascape",
	// Flags are single-dash words, parsed by the startup package.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(_ *cobra.Command, args []string) error {
		return run(args)
	},
}

func run(args []string) (err error) {
	log := debug.Default()
	params, msgs := startup.Parse(args)
	startup.Greet(log)
	params.Apply(log, msgs)
	defer startup.Farewell(log, params, os.Stdin)
	defer func() {
		// A crash has already been reported by the lifecycle.
		if err != nil && !errors.Is(err, game.ErrCrashed) {
			log.Critical(err.Error())
		}
	}()

	if params.Profiling {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	cfg, err := config.Load(os.Getenv("TERRASCAPE_CONFIG"))
	if err != nil {
		return err
	}

	w, err := game.NewWindow(&game.WindowConfig{Config: cfg, Log: log})
	if err != nil {
		return err
	}
	return w.OpenAndWait()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
