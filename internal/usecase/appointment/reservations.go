package appointment

import (
	"context"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/appointment"
	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
)

type ListReservations struct {
	repo domain.Repository
}

func NewListReservations(repo domain.Repository) *ListReservations {
	return &ListReservations{repo: repo}
}

func (uc *ListReservations) Execute(ctx context.Context, clientID uint) ([]dto.ReservationItem, error) {
	if clientID == 0 {
		return nil, httperr.ErrBusiness("no_client_profile")
	}
	return uc.repo.ListReservations(ctx, clientID)
}
