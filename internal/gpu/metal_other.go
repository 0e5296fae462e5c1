//go:build !darwin

package gpu

// metalAvailable is always false outside macOS.
func (h host) metalAvailable() bool {
	return false
}
