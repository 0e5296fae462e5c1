package main

import (
	"fmt"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fxnlabs/againkit/internal/app"
	"github.com/fxnlabs/againkit/internal/git"
	"github.com/fxnlabs/againkit/internal/gpu"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show the selected device and repository state",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-banner",
				Usage: "Skip the banner",
			},
		},
		Action: func(c *cli.Context) error {
			log := loggerFrom(c)
			cfg := configFrom(c)
			w := c.App.Writer

			if !c.Bool("no-banner") {
				fmt.Fprintln(w, figure.NewFigure("againkit", "", true).String())
			}

			var selector *gpu.Selector
			if err := app.Populate(cfg, log, &selector); err != nil {
				return err
			}
			info, err := selector.Describe(cfg.Device.Override)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Device: %s (probe: %s)\n", info.Selected, info.Probe)
			fmt.Fprintf(w, "MPS available: %t\n", info.MPSAvailable)
			fmt.Fprintf(w, "CUDA available: %t\n", info.CUDAAvailable)
			if len(info.GPUNames) > 0 {
				fmt.Fprintf(w, "GPUs: %s\n", strings.Join(info.GPUNames, ", "))
			}

			var repo *git.Repo
			if err := app.Populate(cfg, log, &repo); err != nil {
				log.Debug("Not in a git repository", zap.Error(err))
				fmt.Fprintln(w, "Repository: Not available")
				return nil
			}
			fmt.Fprintf(w, "Repository: %s\n", repo.Root())
			if hash, err := repo.Head(c.Context); err == nil {
				fmt.Fprintf(w, "Commit: %s\n", hash)
			} else {
				log.Debug("Failed to read HEAD", zap.Error(err))
				fmt.Fprintln(w, "Commit: Not available")
			}
			return nil
		},
	}
}
