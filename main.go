package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/rowview/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "rowview",
		Usage:   `Upload a CSV file and page through it one row at a time in the browser.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("ROWVIEW_LOG_LEVEL"),
				Value:   "info",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Flags.LogLevel = level.String()
			ctrl.Logger = log.Logger.With().Timestamp().Logger()

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the row viewer web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to rowview.json (default: search the working directory and its parents)",
					},
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "listen address, overrides the config file",
						Sources: cli.EnvVars("ROWVIEW_ADDR"),
					},
					&cli.StringFlag{
						Name:  "upload-dir",
						Usage: "directory for uploaded files, overrides the config file",
					},
					&cli.StringFlag{
						Name:  "templates",
						Usage: "serve templates from this directory and reload them on change",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Serve(ctx, commands.ServeOptions{
						ConfigPath:   c.String("config"),
						Addr:         c.String("addr"),
						UploadDir:    c.String("upload-dir"),
						TemplatesDir: c.String("templates"),
					})
				},
			},
			{
				Name:  "init",
				Usage: "Write a rowview.json config in the current directory",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run rowview")
	}
}
