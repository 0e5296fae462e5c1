package gpu

import (
	"go.uber.org/zap"

	"github.com/fxnlabs/againkit/internal/metrics"
)

// Selector picks a compute device: an explicit override wins, otherwise
// mps is preferred over cuda, and cpu is the fallback.
type Selector struct {
	probe  AcceleratorProbe
	logger *zap.Logger
}

// NewSelector creates a selector around probe. A nil probe behaves like AbsentProbe.
func NewSelector(probe AcceleratorProbe, logger *zap.Logger) *Selector {
	if probe == nil {
		probe = AbsentProbe{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		probe:  probe,
		logger: logger.Named("selector"),
	}
}

// Select returns the device to use. A non-empty override must name a
// recognized device and is returned as-is without probing.
func (s *Selector) Select(override string) (Device, error) {
	if override != "" {
		d, err := ParseDevice(override)
		if err != nil {
			return "", err
		}
		s.logger.Debug("using device override", zap.String("device", d.String()))
		metrics.DeviceSelections.WithLabelValues(d.String(), "override").Inc()
		return d, nil
	}

	d := s.detect()
	s.logger.Debug("selected device",
		zap.String("device", d.String()),
		zap.String("probe", s.probe.Name()))
	metrics.DeviceSelections.WithLabelValues(d.String(), "probe").Inc()
	return d, nil
}

func (s *Selector) detect() Device {
	if s.probe.MPSAvailable() {
		return MPS
	}
	if s.probe.CUDAAvailable() {
		return CUDA
	}
	return CPU
}

// Probe returns the probe the selector consults.
func (s *Selector) Probe() AcceleratorProbe {
	return s.probe
}

// SelectDevice selects a device using the probe for this build.
func SelectDevice(override string) (Device, error) {
	return NewSelector(NewProbe(nil), nil).Select(override)
}

// Describe reports what the selector sees on this host.
func (s *Selector) Describe(override string) (DeviceInfo, error) {
	selected, err := s.Select(override)
	if err != nil {
		return DeviceInfo{}, err
	}
	info := DeviceInfo{
		Selected:      selected,
		Probe:         s.probe.Name(),
		MPSAvailable:  s.probe.MPSAvailable(),
		CUDAAvailable: s.probe.CUDAAvailable(),
	}
	if named, ok := s.probe.(interface{ DeviceNames() []string }); ok {
		info.GPUNames = named.DeviceNames()
	}
	return info, nil
}
