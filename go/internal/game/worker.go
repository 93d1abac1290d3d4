package game

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultSnapshotInterval is how often the snapshot worker saves the game state.
const DefaultSnapshotInterval = 5 * time.Minute

// Persister saves the current game state.
type Persister interface {
	Persist(ctx context.Context) error
}

// SnapshotWorker periodically persists the game state so that a crash loses at most
// one interval of changes the per-mutation saves failed to write.
type SnapshotWorker struct {
	persister Persister
	clock     clockwork.Clock
	interval  time.Duration
}

type SnapshotWorkerOptions struct {
	Persister Persister
	Clock     clockwork.Clock
	Interval  time.Duration
}

func NewSnapshotWorker(opts SnapshotWorkerOptions) *SnapshotWorker {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultSnapshotInterval
	}
	return &SnapshotWorker{
		persister: opts.Persister,
		clock:     opts.Clock,
		interval:  opts.Interval,
	}
}

// Start blocks until ctx is cancelled.
func (w *SnapshotWorker) Start(ctx context.Context) {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Msg("snapshot worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("snapshot worker stopped")
			return
		case <-ticker.Chan():
			if err := w.persister.Persist(ctx); err != nil {
				log.Error().Err(err).Msg("periodic snapshot failed")
				continue
			}
			log.Debug().Msg("periodic snapshot saved")
		}
	}
}
