//go:build !linux && !darwin && !windows

package idle

func newPlatformProbe() Probe {
	return unsupported{}
}
