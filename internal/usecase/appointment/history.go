package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/appointment"
	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
)

// GetHistory runs the maintenance sweep, moves the client's past paid
// turnos to Realizado and then lists the client's turnos, newest first.
type GetHistory struct {
	repo  domain.Repository
	sweep *SweepStale
	now   timezone.Clock
	log   *zap.Logger
}

func NewGetHistory(
	repo domain.Repository,
	sweep *SweepStale,
	now timezone.Clock,
	log *zap.Logger,
) *GetHistory {
	return &GetHistory{
		repo:  repo,
		sweep: sweep,
		now:   now,
		log:   log,
	}
}

func (uc *GetHistory) Execute(ctx context.Context, clientID uint) ([]dto.HistoryItem, error) {
	if clientID == 0 {
		return nil, httperr.ErrBusiness("no_client_profile")
	}

	// A failed sweep must not hide the client's own history.
	if _, err := uc.sweep.Execute(ctx); err != nil {
		uc.log.Warn("inline sweep failed", zap.Error(err))
	}

	if _, err := uc.repo.MarkRealized(ctx, clientID, uc.now()); err != nil {
		return nil, err
	}

	return uc.repo.ListHistory(ctx, clientID)
}
