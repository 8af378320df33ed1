//go:build linux

package display

import "codeberg.org/mutker/dpmsctl/internal/command"

func newPlatformController() Controller {
	return Fallback{NewDPMSController(), NewXsetController(command.New())}
}
