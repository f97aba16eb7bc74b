package appointment

import (
	"context"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/appointment"
	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
)

// ListPaidClients backs the admin day views: who was attended on a date,
// optionally narrowed to one professional.
type ListPaidClients struct {
	repo domain.Repository
	now  timezone.Clock
}

func NewListPaidClients(repo domain.Repository, now timezone.Clock) *ListPaidClients {
	return &ListPaidClients{
		repo: repo,
		now:  now,
	}
}

// ByDate uses today when date is empty.
func (uc *ListPaidClients) ByDate(ctx context.Context, date string) ([]dto.DailyClient, error) {
	if date == "" {
		date = uc.now().Format(timezone.DateLayout)
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListPaidClients(ctx, d.Format(timezone.DateLayout), 0)
}

func (uc *ListPaidClients) ByProfessional(
	ctx context.Context,
	professionalID uint,
	date string,
) ([]dto.DailyClient, error) {

	if professionalID == 0 || date == "" {
		return nil, httperr.ErrBusiness("missing_fields")
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	ok, err := uc.repo.ProfessionalExists(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	return uc.repo.ListPaidClients(ctx, d.Format(timezone.DateLayout), professionalID)
}
