package appointment

import (
	"context"

	domain "github.com/spa-sentirse-bien/spa-server/internal/domain/appointment"
)

type ListBookedHours struct {
	repo domain.Repository
}

func NewListBookedHours(repo domain.Repository) *ListBookedHours {
	return &ListBookedHours{repo: repo}
}

// Execute returns the hours held by pending turnos on date (YYYY-MM-DD).
func (uc *ListBookedHours) Execute(ctx context.Context, date string) ([]string, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListBookedHours(ctx, d.Format("2006-01-02"))
}
