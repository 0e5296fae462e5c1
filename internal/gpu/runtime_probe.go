package gpu

import (
	"sync"

	"go.uber.org/zap"
)

// RuntimeProbe queries the host for accelerator support.
// Each answer is computed on first use and cached.
type RuntimeProbe struct {
	logger *zap.Logger
	host   host

	mpsOnce  sync.Once
	mps      bool
	cudaOnce sync.Once
	cuda     bool
}

// NewRuntimeProbe creates a probe backed by the real operating system.
func NewRuntimeProbe(logger *zap.Logger) *RuntimeProbe {
	return newRuntimeProbe(logger, defaultHost())
}

func newRuntimeProbe(logger *zap.Logger, h host) *RuntimeProbe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuntimeProbe{
		logger: logger.Named("probe"),
		host:   h,
	}
}

func (p *RuntimeProbe) Name() string { return "runtime" }

// MPSAvailable checks for Apple Silicon with Metal.
func (p *RuntimeProbe) MPSAvailable() bool {
	p.mpsOnce.Do(func() {
		p.mps = p.host.metalAvailable()
		p.logger.Debug("probed MPS", zap.Bool("available", p.mps))
	})
	return p.mps
}

// CUDAAvailable checks for an NVIDIA device.
func (p *RuntimeProbe) CUDAAvailable() bool {
	p.cudaOnce.Do(func() {
		p.cuda = p.host.cudaAvailable(p.logger)
		p.logger.Debug("probed CUDA", zap.Bool("available", p.cuda))
	})
	return p.cuda
}

// DeviceNames lists NVIDIA GPU names when CUDA is available.
func (p *RuntimeProbe) DeviceNames() []string {
	if !p.CUDAAvailable() {
		return nil
	}
	return p.host.cudaDeviceNames(p.logger)
}
