package main

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fxnlabs/againkit/internal/expconfig"
)

func experimentCommands() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Work with composed experiment configs",
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Compose a config and print it as YAML",
				ArgsUsage: "[-cn NAME] [-cd DIR] [key=value | +key=value | ++key=value | ~key ...]",
				// Arguments are experiment-config flags and overrides, not ours.
				SkipFlagParsing: true,
				Action: func(c *cli.Context) error {
					log := loggerFrom(c)
					cfg, err := expconfig.Load(expconfig.LoadOptions{
						ConfigDir: configFrom(c).Experiment.ConfigDir,
						Argv:      c.Args().Slice(),
					})
					if err != nil {
						return err
					}
					log.Debug("Composed experiment config", zap.Int("keys", len(cfg)))

					enc := yaml.NewEncoder(c.App.Writer)
					enc.SetIndent(2)
					if err := enc.Encode(cfg); err != nil {
						return err
					}
					return enc.Close()
				},
			},
			{
				Name:  "dir",
				Usage: "Print the default experiment config directory",
				Action: func(c *cli.Context) error {
					dir := configFrom(c).Experiment.ConfigDir
					if dir == "" {
						var err error
						if dir, err = expconfig.DefaultDir(); err != nil {
							return err
						}
					}
					_, err := c.App.Writer.Write([]byte(dir + "\n"))
					return err
				},
			},
		},
	}
}
