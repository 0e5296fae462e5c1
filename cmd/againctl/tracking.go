package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fxnlabs/againkit/internal/app"
	"github.com/fxnlabs/againkit/internal/tracking"
)

func trackingCommands() *cli.Command {
	return &cli.Command{
		Name:  "tracking",
		Usage: "Check the experiment tracking server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "uri",
				Usage: "Tracking server URI or \"databricks\" (defaults to tracking.uri from config)",
			},
			&cli.StringFlag{
				Name:  "dotenv",
				Usage: "Path to the .env file holding tracking credentials",
			},
		},
		Before: func(c *cli.Context) error {
			cfg := configFrom(c)
			if uri := c.String("uri"); uri != "" {
				cfg.Tracking.URI = uri
			}
			if dotenv := c.String("dotenv"); dotenv != "" {
				cfg.Tracking.Dotenv = dotenv
			}
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:  "env",
				Usage: "Load tracking variables from .env and print them",
				Action: func(c *cli.Context) error {
					env, err := tracking.LoadEnv(configFrom(c).Tracking.Dotenv)
					if err != nil {
						return err
					}
					for _, key := range tracking.EnvVars {
						value := env[key]
						if key == tracking.EnvDatabricksToken {
							value = mask(value)
						}
						fmt.Fprintf(c.App.Writer, "%s=%s\n", key, value)
					}
					return nil
				},
			},
			{
				Name:  "ping",
				Usage: "Check that the tracking server is reachable",
				Action: func(c *cli.Context) error {
					var client *tracking.Client
					if err := app.Populate(configFrom(c), loggerFrom(c), &client); err != nil {
						return err
					}
					if err := client.Ping(c.Context); err != nil {
						return err
					}
					loggerFrom(c).Info("Tracking server reachable", zap.String("url", client.BaseURL()))
					fmt.Fprintln(c.App.Writer, "ok")
					return nil
				},
			},
			{
				Name:  "exists",
				Usage: "Print whether an experiment exists",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Experiment name"},
					&cli.StringFlag{Name: "id", Usage: "Experiment id"},
				},
				Action: func(c *cli.Context) error {
					var client *tracking.Client
					if err := app.Populate(configFrom(c), loggerFrom(c), &client); err != nil {
						return err
					}
					exists, err := client.ExperimentExists(c.Context, tracking.Lookup{
						Name: c.String("name"),
						ID:   c.String("id"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, exists)
					return nil
				},
			},
		},
	}
}

// mask hides all but the last four characters of a secret.
func mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
