package idle

import (
	"context"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/command"
	"codeberg.org/mutker/dpmsctl/internal/errors"
)

// XprintidleProbe shells out to xprintidle, which prints the X server idle
// time in milliseconds.
type XprintidleProbe struct {
	runner command.Runner
}

// NewXprintidleProbe returns a probe using runner.
func NewXprintidleProbe(runner command.Runner) *XprintidleProbe {
	return &XprintidleProbe{runner: runner}
}

func (*XprintidleProbe) Name() string {
	return "xprintidle"
}

func (p *XprintidleProbe) IdleTime(ctx context.Context) (time.Duration, error) {
	out, err := p.runner.Output(ctx, "xprintidle")
	if err != nil {
		return 0, errors.New().Wrap(ErrQueryFailed, err)
	}
	return parseMillis(out)
}

func parseMillis(out []byte) (time.Duration, error) {
	ms, err := strconv.ParseUint(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, errors.New().Wrap(ErrParseFailed, err)
	}
	return fromMillis(ms)
}
