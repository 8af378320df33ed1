//go:build !linux && !windows

package audio

import (
	"context"

	"codeberg.org/mutker/dpmsctl/internal/errors"
)

func newPlatformMeter(context.Context) (Meter, error) {
	return nil, errors.New().New(ErrNotSupported)
}
