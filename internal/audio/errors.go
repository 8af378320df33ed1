package audio

import "codeberg.org/mutker/dpmsctl/internal/errors"

const (
	ErrNoDefaultDevice = errors.ErrorCode("audio_no_default_device")
	ErrMeterFailed     = errors.ErrorCode("audio_meter_failed")
	ErrNotSupported    = errors.ErrorCode("audio_not_supported")
)
