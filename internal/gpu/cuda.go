package gpu

import (
	"go.uber.org/zap"
)

const nvidiaSMI = "nvidia-smi"

// Device nodes created by the NVIDIA kernel driver.
var cudaDeviceFiles = []string{"/dev/nvidiactl", "/dev/nvidia0"}

// cudaAvailable reports whether an NVIDIA device is visible, either through
// the driver's device nodes or through nvidia-smi listing at least one GPU.
func (h host) cudaAvailable(log *zap.Logger) bool {
	for _, path := range cudaDeviceFiles {
		if h.exists(path) {
			log.Debug("found NVIDIA device node", zap.String("path", path))
			return true
		}
	}

	if _, err := h.lookPath(nvidiaSMI); err != nil {
		log.Debug("nvidia-smi not found, CUDA unavailable")
		return false
	}
	output, err := h.output(nvidiaSMI, "-L")
	if err != nil {
		log.Debug("nvidia-smi failed", zap.Error(err))
		return false
	}
	return len(nonEmptyLines(output)) > 0
}

// cudaDeviceNames returns the product names reported by nvidia-smi.
func (h host) cudaDeviceNames(log *zap.Logger) []string {
	if _, err := h.lookPath(nvidiaSMI); err != nil {
		return nil
	}
	output, err := h.output(nvidiaSMI, "--query-gpu=name", "--format=csv,noheader")
	if err != nil {
		log.Warn("failed to query GPU names", zap.Error(err))
		return nil
	}
	return nonEmptyLines(output)
}
