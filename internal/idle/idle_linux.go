//go:build linux

package idle

import (
	"os"

	"codeberg.org/mutker/dpmsctl/internal/command"
)

func newPlatformProbe() Probe {
	bus := &SessionBus{}
	x11 := []Probe{NewScreenSaverProbe(), NewXprintidleProbe(command.New())}
	session := []Probe{NewMutterProbe(bus), NewFreedesktopProbe(bus)}

	// Under Wayland the X server only sees input sent to X clients.
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return NewChain(append(session, x11...)...)
	}
	return NewChain(append(x11, session...)...)
}
