package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fxnlabs/againkit/internal/app"
	"github.com/fxnlabs/againkit/internal/git"
	"github.com/fxnlabs/againkit/internal/paths"
)

func repoCommands() *cli.Command {
	return &cli.Command{
		Name:  "repo",
		Usage: "Inspect the enclosing git repository",
		Subcommands: []*cli.Command{
			{
				Name:  "root",
				Usage: "Print the repository root",
				Action: func(c *cli.Context) error {
					var repo *git.Repo
					if err := app.Populate(configFrom(c), loggerFrom(c), &repo); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, repo.Root())
					return nil
				},
			},
			{
				Name:  "commit",
				Usage: "Print the HEAD commit hash",
				Action: func(c *cli.Context) error {
					var repo *git.Repo
					if err := app.Populate(configFrom(c), loggerFrom(c), &repo); err != nil {
						return err
					}
					hash, err := repo.Head(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, hash)
					return nil
				},
			},
		},
	}
}

func rundirCommand() *cli.Command {
	return &cli.Command{
		Name:  "rundir",
		Usage: "Create {repo}/{namespace}/{date}/{time}/{commit} and print it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "namespace",
				Aliases: []string{"n"},
				Usage:   "Directory under the repository root (defaults to outputs.namespace from config)",
			},
		},
		Action: func(c *cli.Context) error {
			log := loggerFrom(c)
			namespace := c.String("namespace")
			if namespace == "" {
				namespace = configFrom(c).Outputs.Namespace
			}

			var repo *git.Repo
			if err := app.Populate(configFrom(c), log, &repo); err != nil {
				return err
			}
			dir, err := paths.UniqueRunDir(c.Context, repo, namespace, time.Now())
			if err != nil {
				return err
			}
			log.Info("Created run directory", zap.String("dir", dir))
			fmt.Fprintln(c.App.Writer, dir)
			return nil
		},
	}
}
