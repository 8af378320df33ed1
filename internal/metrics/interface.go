package metrics

import (
	"context"
	"time"
)

// MetricsCollector records monitor ticks.
type MetricsCollector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// MetricsRepository stores snapshots.
type MetricsRepository interface {
	Record(snapshot *Snapshot) error
	Close() error
}

// Snapshot is one monitor tick as stored in the history table.
type Snapshot struct {
	Timestamp  time.Time
	Session    string
	Idle       time.Duration
	Audio      bool
	State      string
	Transition string
	Timeout    time.Duration
}
