package idle

import "codeberg.org/mutker/dpmsctl/internal/errors"

const (
	ErrQueryFailed = errors.ErrorCode("idle_query_failed")
	ErrParseFailed = errors.ErrorCode("idle_parse_failed")
	ErrNoProbe     = errors.ErrorCode("idle_no_probe")
)
