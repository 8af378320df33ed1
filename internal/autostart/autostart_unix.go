//go:build linux || freebsd || openbsd || netbsd || dragonfly

package autostart

func newPlatformManager() (Manager, error) {
	return NewDesktopManager("")
}
