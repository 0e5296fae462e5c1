//go:build !nogpu

package gpu

import (
	"go.uber.org/zap"
)

// NewProbe returns the accelerator probe for this build.
// Without the nogpu build tag, it queries the host at runtime.
func NewProbe(logger *zap.Logger) AcceleratorProbe {
	return NewRuntimeProbe(logger)
}
