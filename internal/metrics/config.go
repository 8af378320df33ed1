package metrics

import (
	"time"

	"codeberg.org/mutker/dpmsctl/internal/errors"
)

const (
	defaultDirPerm = 0o755

	defaultBatchSize    = 30
	defaultBatchTimeout = time.Minute
)

type Config struct {
	DBPath  string
	Enabled bool

	// BatchSize is the number of ticks buffered before a flush. One tick is
	// recorded every poll interval.
	BatchSize int

	// BatchTimeout flushes a partial batch. Zero disables the timer; the
	// buffer is then flushed only when full or on Close.
	BatchTimeout time.Duration
}

func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:       dbPath,
		Enabled:      false, // Disabled by default
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate if metrics is enabled
	if !c.Enabled {
		return nil
	}
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize < 1 || c.BatchTimeout < 0 {
		return errFactory.WithData(ErrInvalidConfig, struct {
			BatchSize    int
			BatchTimeout time.Duration
		}{c.BatchSize, c.BatchTimeout})
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
