package autostart

import "codeberg.org/mutker/dpmsctl/internal/errors"

const (
	ErrNoAutostartDir = errors.ErrorCode("autostart_no_dir")
	ErrWriteEntry     = errors.ErrorCode("autostart_write_failed")
	ErrRemoveEntry    = errors.ErrorCode("autostart_remove_failed")
	ErrOpenRegistry   = errors.ErrorCode("autostart_registry_failed")
)
