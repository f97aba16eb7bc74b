package appointment

import (
	"context"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/appointment"
	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
)

// ListAgendaByDate lists the turnos of the professional whose email matches
// the caller's, for one day.
type ListAgendaByDate struct {
	repo domain.Repository
	now  timezone.Clock
}

func NewListAgendaByDate(
	repo domain.Repository,
	now timezone.Clock,
) *ListAgendaByDate {
	return &ListAgendaByDate{
		repo: repo,
		now:  now,
	}
}

// Execute uses today when date is empty.
func (uc *ListAgendaByDate) Execute(
	ctx context.Context,
	email string,
	date string,
) ([]dto.AgendaItem, error) {

	if date == "" {
		date = uc.now().Format(timezone.DateLayout)
	}

	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	professional, err := uc.repo.FindProfessionalByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return uc.repo.ListAgenda(ctx, professional.ID, d.Format(timezone.DateLayout))
}
