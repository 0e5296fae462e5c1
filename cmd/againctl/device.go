package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fxnlabs/againkit/internal/app"
	"github.com/fxnlabs/againkit/internal/gpu"
)

func deviceCommand() *cli.Command {
	return &cli.Command{
		Name:  "device",
		Usage: "Print the compute device to use (mps, cuda or cpu)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "override",
				Aliases: []string{"o"},
				Usage:   "Force a device: cpu, cuda or mps (defaults to device.override from config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print what was probed as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			log := loggerFrom(c)
			override := c.String("override")
			if override == "" {
				override = configFrom(c).Device.Override
			}

			var selector *gpu.Selector
			if err := app.Populate(configFrom(c), log, &selector); err != nil {
				return err
			}

			if c.Bool("json") {
				info, err := selector.Describe(override)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			device, err := selector.Select(override)
			if err != nil {
				return err
			}
			log.Debug("Device selected", zap.String("device", device.String()))
			fmt.Fprintln(c.App.Writer, device)
			return nil
		},
	}
}
