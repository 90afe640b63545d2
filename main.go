package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "goframes",
		Usage:     "play a video file in the terminal",
		ArgsUsage: "[video]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a config file (default $XDG_CONFIG_HOME/goframes/config.yaml)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write diagnostics to this file",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("at most one video path may be given", 2)
	}

	warnings := initConfig(c.String("config"))
	cfg := config.Get()

	logFile := cfg.Log.File
	if c.IsSet("log-file") {
		logFile = c.String("log-file")
	}
	logOut, closeLog, err := openLogTarget(logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	logger := newLogger(logOut, cfg.Log.Level)
	for _, w := range warnings {
		logger.Warn(w)
	}

	m := newModel(cfg, NewFFmpegOpener(cfg.FFmpeg.Path, cfg.FFmpeg.FFprobePath), logger, supportsKittyGraphics())
	if path := c.Args().First(); path != "" {
		m.ctrl.SelectSource(path)
	}

	var opts []tea.ProgramOption
	if cfg.Playback.StartFullscreen {
		opts = append(opts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if fm, ok := final.(model); ok {
		// Interrupted programs skip the quit key; make sure ffmpeg is reaped
		fm.ctrl.Shutdown()
	}
	if err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
