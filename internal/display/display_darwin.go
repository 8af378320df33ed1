//go:build darwin

package display

import (
	"time"

	"codeberg.org/mutker/dpmsctl/internal/command"
)

func newPlatformController() Controller {
	// caffeinate -t 1 holds for a second before exiting.
	return NewPmsetController(&command.Exec{Timeout: 3 * time.Second})
}
