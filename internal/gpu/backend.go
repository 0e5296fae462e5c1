package gpu

// DeviceInfo describes the accelerators visible to the current process.
type DeviceInfo struct {
	Selected      Device   `json:"selected"`
	Probe         string   `json:"probe"`
	MPSAvailable  bool     `json:"mpsAvailable"`
	CUDAAvailable bool     `json:"cudaAvailable"`
	GPUNames      []string `json:"gpuNames,omitempty"`
}

// AcceleratorProbe answers whether accelerator runtimes are usable.
// This interface keeps the selection logic free of platform and build-tag
// branching: the variant is chosen once by NewProbe and injected.
//
// Implementation notes:
// - Queries must be read-only and cheap after the first call
// - Answers must not change for the lifetime of the probe
// - Implementations must be safe for concurrent use
type AcceleratorProbe interface {
	// Name identifies the probe variant in logs and device info.
	Name() string

	// MPSAvailable reports whether Apple's Metal Performance Shaders
	// backend is usable.
	MPSAvailable() bool

	// CUDAAvailable reports whether an NVIDIA CUDA device is usable.
	CUDAAvailable() bool
}

// AbsentProbe is used when no accelerator runtime is present.
// Every query reports false, so selection always falls back to CPU.
type AbsentProbe struct{}

func (AbsentProbe) Name() string { return "absent" }

func (AbsentProbe) MPSAvailable() bool { return false }

func (AbsentProbe) CUDAAvailable() bool { return false }
