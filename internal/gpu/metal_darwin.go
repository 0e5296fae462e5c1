//go:build darwin

package gpu

import "runtime"

const metalFramework = "/System/Library/Frameworks/Metal.framework"

// metalAvailable reports whether MPS can be used: Apple Silicon with the
// Metal framework installed.
func (h host) metalAvailable() bool {
	if runtime.GOARCH != "arm64" {
		return false
	}
	return h.exists(metalFramework)
}
