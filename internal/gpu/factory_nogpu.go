//go:build nogpu

package gpu

import (
	"go.uber.org/zap"
)

// NewProbe returns the accelerator probe for this build.
// Built with the nogpu tag, accelerators are never reported.
func NewProbe(logger *zap.Logger) AcceleratorProbe {
	if logger != nil {
		logger.Info("Using absent accelerator probe (compiled without GPU support)")
	}
	return AbsentProbe{}
}
