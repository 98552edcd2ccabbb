// Package history records merged snapshots to a local sqlite file,
// one row per status poll. Disabled by default; enabled via config.
package history

import (
	"context"
	"time"

	"devdash/internal/device"
	"devdash/internal/errors"
	"devdash/internal/logger"
)

type service struct {
	repo *sqliteRepository
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, time.Time, device.Snapshot) error { return nil }
func (noopRecorder) Close() error                                             { return nil }

// NewRecorder builds a Recorder for the given config. When history is
// disabled it returns a no-op recorder so callers never branch.
func NewRecorder(cfg Config) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		logger.Debug().Msg("snapshot history disabled, using no-op recorder")
		return noopRecorder{}, nil
	}

	repo, err := newRepository(cfg)
	if err != nil {
		return nil, err
	}

	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, at time.Time, snap device.Snapshot) error {
	errFactory := errors.New()

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		return s.repo.store(ctx, at, snap)
	}
}

func (s *service) Close() error {
	return s.repo.close()
}
