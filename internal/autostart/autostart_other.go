//go:build !linux && !freebsd && !openbsd && !netbsd && !dragonfly && !windows

package autostart

func newPlatformManager() (Manager, error) {
	return unsupported{}, nil
}
