package command

import "codeberg.org/mutker/dpmsctl/internal/errors"

const (
	ErrCommandNotFound = errors.ErrorCode("command_not_found")
	ErrCommandFailed   = errors.ErrorCode("command_failed")
	ErrCommandTimeout  = errors.ErrorCode("command_timeout")
)
