//go:build linux

package audio

import (
	"context"

	"codeberg.org/mutker/dpmsctl/internal/command"
)

func newPlatformMeter(ctx context.Context) (Meter, error) {
	return NewPulseMeter(ctx, command.New())
}
