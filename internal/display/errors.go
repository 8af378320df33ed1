package display

import "codeberg.org/mutker/dpmsctl/internal/errors"

const (
	ErrPowerOff = errors.ErrorCode("display_power_off_failed")
	ErrPowerOn  = errors.ErrorCode("display_power_on_failed")

	ErrNotCapable = errors.ErrorCode("display_dpms_not_capable")
)
