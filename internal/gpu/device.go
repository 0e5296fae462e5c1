package gpu

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Device names a compute backend.
type Device string

const (
	CPU  Device = "cpu"
	CUDA Device = "cuda"
	MPS  Device = "mps"
)

// ErrInvalidDevice is returned when a device name is not one of Devices.
var ErrInvalidDevice = errors.New("invalid device")

// Devices lists every recognized device in preference order.
var Devices = []Device{MPS, CUDA, CPU}

func (d Device) String() string {
	return string(d)
}

// Valid reports whether d is a recognized device.
func (d Device) Valid() bool {
	return slices.Contains(Devices, d)
}

// ParseDevice converts a name into a Device. Matching is exact.
func ParseDevice(name string) (Device, error) {
	d := Device(name)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q (expected one of %s)", ErrInvalidDevice, name, deviceList())
	}
	return d, nil
}

func deviceList() string {
	names := make([]string, len(Devices))
	for i, d := range Devices {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
