package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fxnlabs/againkit/internal/config"
	"github.com/fxnlabs/againkit/internal/logger"
)

const (
	metadataConfig = "config"
	metadataLogger = "logger"
)

func newApp(stdout, stderr io.Writer) *cli.App {
	var home, configFile, verbosity, logFile string

	return &cli.App{
		Name:      "againctl",
		Usage:     "Helpers for things done again and again in experiment runs",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "home",
				Value:       config.GetDefaultConfigHome(),
				Usage:       "Path to the againkit home directory",
				EnvVars:     []string{config.HomeEnv},
				Destination: &home,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to a config file (overrides --home)",
				Destination: &configFile,
			},
			&cli.StringFlag{
				Name:        "verbosity",
				Aliases:     []string{"v"},
				Usage:       "Log level (debug, info, warn, error)",
				Destination: &verbosity,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "Also write JSON logs to this file",
				Destination: &logFile,
			},
		},
		Before: func(c *cli.Context) error {
			var cfg *config.Config
			var err error
			if configFile != "" {
				cfg, err = config.LoadConfig(configFile)
			} else {
				cfg, err = config.LoadOrDefault(home)
			}
			if err != nil {
				return err
			}
			if verbosity != "" {
				cfg.Logger.Verbosity = verbosity
			}
			if logFile != "" {
				cfg.Logger.File = logFile
			}

			zapLogger, err := logger.Setup(logger.Options{
				Verbosity:      cfg.Logger.Verbosity,
				File:           cfg.Logger.File,
				MaxSizeMB:      cfg.Logger.MaxSizeMB,
				MaxAgeDays:     cfg.Logger.MaxAgeDays,
				NoCompress:     cfg.Logger.NoCompress,
				RedirectStdLog: true,
				Console:        stderr,
			})
			if err != nil {
				return err
			}
			c.App.Metadata[metadataConfig] = cfg
			c.App.Metadata[metadataLogger] = zapLogger.Named("cli")
			return nil
		},
		Commands: []*cli.Command{
			deviceCommand(),
			infoCommand(),
			repoCommands(),
			rundirCommand(),
			experimentCommands(),
			trackingCommands(),
		},
	}
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log, logErr := errorLogger(app)
		if logErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Error("failed to run app", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

// errorLogger returns the logger built in Before, or a plain error-level
// logger when Before failed before building one.
func errorLogger(app *cli.App) (*zap.Logger, error) {
	if log, ok := app.Metadata[metadataLogger].(*zap.Logger); ok {
		return log, nil
	}
	return logger.New("error")
}

func configFrom(c *cli.Context) *config.Config {
	return c.App.Metadata[metadataConfig].(*config.Config)
}

func loggerFrom(c *cli.Context) *zap.Logger {
	return c.App.Metadata[metadataLogger].(*zap.Logger)
}
