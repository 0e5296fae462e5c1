// Package app wires againkit's components together with fx.
package app

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fxnlabs/againkit/internal/config"
	"github.com/fxnlabs/againkit/internal/git"
	"github.com/fxnlabs/againkit/internal/gpu"
	"github.com/fxnlabs/againkit/internal/tracking"
)

// Module provides the probe, selector, repository and tracking client.
// It needs a *config.Config and a *zap.Logger.
var Module = fx.Options(
	fx.Provide(
		gpu.NewProbe,
		gpu.NewSelector,
		OpenRepo,
		NewTrackingClient,
	),
)

// OpenRepo opens the repository containing the working directory.
func OpenRepo() (*git.Repo, error) {
	return git.Open("")
}

// NewTrackingClient loads the tracking variables from the configured .env
// and connects to the configured tracking URI.
func NewTrackingClient(cfg *config.Config, log *zap.Logger) (*tracking.Client, error) {
	if _, err := tracking.LoadEnv(cfg.Tracking.Dotenv); err != nil {
		return nil, err
	}
	return tracking.NewClient(cfg.Tracking.URI, tracking.WithLogger(log))
}

// Populate builds only what targets need and stores it in them.
// Each target must be a pointer to a provided type.
func Populate(cfg *config.Config, log *zap.Logger, targets ...any) error {
	return fx.New(
		fx.Supply(cfg, log),
		Module,
		fx.NopLogger,
		fx.Populate(targets...),
	).Err()
}
