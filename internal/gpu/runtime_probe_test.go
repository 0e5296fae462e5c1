package gpu

import (
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeHost builds a host where only the given paths exist and the given
// commands produce the given output.
func fakeHost(paths []string, binaries []string, outputs map[string]string) host {
	existing := make(map[string]bool)
	for _, p := range paths {
		existing[p] = true
	}
	onPath := make(map[string]bool)
	for _, b := range binaries {
		onPath[b] = true
	}
	return host{
		stat: func(name string) (os.FileInfo, error) {
			if existing[name] {
				return nil, nil
			}
			return nil, os.ErrNotExist
		},
		lookPath: func(file string) (string, error) {
			if onPath[file] {
				return "/usr/bin/" + file, nil
			}
			return "", errors.New("executable file not found in $PATH")
		},
		output: func(name string, args ...string) ([]byte, error) {
			if out, ok := outputs[name]; ok {
				return []byte(out), nil
			}
			return nil, errors.New("exit status 9")
		},
	}
}

func TestRuntimeProbe_CUDA(t *testing.T) {
	testCases := []struct {
		name     string
		host     host
		expected bool
	}{
		{
			name:     "no driver",
			host:     fakeHost(nil, nil, nil),
			expected: false,
		},
		{
			name:     "device node present",
			host:     fakeHost([]string{"/dev/nvidiactl"}, nil, nil),
			expected: true,
		},
		{
			name: "nvidia-smi lists a gpu",
			host: fakeHost(nil, []string{"nvidia-smi"}, map[string]string{
				"nvidia-smi": "GPU 0: NVIDIA A100-SXM4-40GB (UUID: GPU-1234)\n",
			}),
			expected: true,
		},
		{
			name:     "nvidia-smi lists nothing",
			host:     fakeHost(nil, []string{"nvidia-smi"}, map[string]string{"nvidia-smi": "\n"}),
			expected: false,
		},
		{
			name:     "nvidia-smi fails",
			host:     fakeHost(nil, []string{"nvidia-smi"}, nil),
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			probe := newRuntimeProbe(zap.NewNop(), tc.host)
			assert.Equal(t, tc.expected, probe.CUDAAvailable())
			// Cached answer stays the same.
			assert.Equal(t, tc.expected, probe.CUDAAvailable())
		})
	}
}

func TestRuntimeProbe_MPS(t *testing.T) {
	probe := newRuntimeProbe(zap.NewNop(), fakeHost([]string{"/System/Library/Frameworks/Metal.framework"}, nil, nil))
	expected := runtime.GOOS == "darwin" && runtime.GOARCH == "arm64"
	assert.Equal(t, expected, probe.MPSAvailable())

	probe = newRuntimeProbe(zap.NewNop(), fakeHost(nil, nil, nil))
	assert.False(t, probe.MPSAvailable())
}

func TestRuntimeProbe_DeviceNames(t *testing.T) {
	probe := newRuntimeProbe(zap.NewNop(), fakeHost(
		[]string{"/dev/nvidia0"},
		[]string{"nvidia-smi"},
		map[string]string{"nvidia-smi": "NVIDIA A100-SXM4-40GB\nNVIDIA A100-SXM4-40GB\n"},
	))
	assert.Equal(t, []string{"NVIDIA A100-SXM4-40GB", "NVIDIA A100-SXM4-40GB"}, probe.DeviceNames())

	probe = newRuntimeProbe(zap.NewNop(), fakeHost(nil, nil, nil))
	assert.Nil(t, probe.DeviceNames())
}

func TestAbsentProbe(t *testing.T) {
	var probe AcceleratorProbe = AbsentProbe{}
	assert.Equal(t, "absent", probe.Name())
	assert.False(t, probe.MPSAvailable())
	assert.False(t, probe.CUDAAvailable())
}

func TestNewProbe(t *testing.T) {
	probe := NewProbe(zap.NewNop())
	assert.NotNil(t, probe)
	assert.NotEmpty(t, probe.Name())
}
