// Package metrics keeps an optional SQLite history of monitor ticks.
package metrics

import (
	"context"
	"sync"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"codeberg.org/mutker/dpmsctl/internal/logger"
	"codeberg.org/mutker/dpmsctl/internal/monitor"
)

type service struct {
	repo   MetricsRepository
	cfg    Config
	mu     sync.Mutex
	closed bool
}

// No-op implementation
type noopMetricsCollector struct{}

func NewService(cfg Config, log logger.Logger) (MetricsCollector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If metrics is disabled, return a no-op collector
	if !cfg.Enabled {
		log.Debug().Msg("Metrics collection disabled, using no-op collector")
		return &noopMetricsCollector{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create metrics repository")
		return nil, err
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Bool("enabled", cfg.Enabled).
		Msg("Metrics service initialized successfully")

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, snapshot *Snapshot) error {
	errFactory := errors.New()

	if snapshot == nil {
		return errFactory.New(ErrInvalidMetrics)
	}
	if snapshot.State != monitor.Active.String() && snapshot.State != monitor.Blanked.String() {
		return errFactory.WithData(ErrInvalidMetrics, snapshot.State)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errFactory.New(ErrCollectorClosed)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Record(snapshot); err != nil {
			return errFactory.Wrap(ErrMetricsCollection, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}

// No-op implementation
func (*noopMetricsCollector) Record(_ context.Context, _ *Snapshot) error {
	return nil
}

func (*noopMetricsCollector) Close() error {
	return nil
}

// FromStatus converts a monitor tick into a Snapshot.
func FromStatus(s monitor.Status) *Snapshot {
	return &Snapshot{
		Timestamp:  s.Time,
		Session:    s.Session,
		Idle:       s.Idle,
		Audio:      s.Audio,
		State:      s.State.String(),
		Transition: string(s.Transition),
		Timeout:    s.Timeout,
	}
}

// Observer returns a monitor observer that records every tick. Record
// failures are logged and otherwise ignored.
func Observer(ctx context.Context, c MetricsCollector, log logger.Logger) func(monitor.Status) {
	return func(s monitor.Status) {
		if err := c.Record(ctx, FromStatus(s)); err != nil {
			log.Warn().Err(err).Msg("Failed to record tick")
		}
	}
}
