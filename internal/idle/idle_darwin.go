//go:build darwin

package idle

import "codeberg.org/mutker/dpmsctl/internal/command"

func newPlatformProbe() Probe {
	return NewIORegProbe(command.New())
}
