package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/spa-sentirse-bien/spa-server/internal/audit"
	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/appointment"
	"github.com/spa-sentirse-bien/spa-server/internal/metrics"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
)

// sweepBatch bounds the ids bound into one DELETE.
const sweepBatch = 500

// SweepStale purges every turno whose start is older than the retention
// window and whose payment was never finalized, together with its service
// link and payment. Running it concurrently or repeatedly is safe: rows
// already removed or settled meanwhile are skipped.
type SweepStale struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
	log   *zap.Logger
	batch int
}

func NewSweepStale(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
	log *zap.Logger,
) *SweepStale {
	return &SweepStale{
		repo:  repo,
		audit: audit,
		now:   now,
		log:   log,
		batch: sweepBatch,
	}
}

func (uc *SweepStale) Execute(ctx context.Context) (int64, error) {
	cutoff := domain.StaleCutoff(uc.now())

	var purged int64
	for {
		var listed int
		var deleted int64
		err := uc.repo.WithTx(ctx, func(tx domain.Repository) error {
			ids, err := tx.ListStaleAppointmentIDs(ctx, cutoff, uc.batch)
			if err != nil {
				return err
			}
			listed = len(ids)

			deleted, err = tx.DeleteStaleAppointments(ctx, ids, cutoff)
			return err
		})
		if err != nil {
			return purged, err
		}
		purged += deleted
		if listed < uc.batch {
			break
		}
	}

	if purged > 0 {
		metrics.AppointmentsSwept.Add(float64(purged))
		uc.log.Info("stale appointments purged",
			zap.Int64("count", purged),
			zap.Time("cutoff", cutoff),
		)
		uc.audit.Dispatch(audit.Event{
			Action:   audit.ActionAppointmentsSwept,
			Entity:   "turno",
			Metadata: map[string]any{"purgados": purged, "corte": cutoff},
		})
	}

	return purged, nil
}
