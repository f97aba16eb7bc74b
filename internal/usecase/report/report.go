package report

import (
	"context"
	"time"

	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
)

type Repository interface {
	IncomeBetween(ctx context.Context, from, to time.Time) ([]dto.IncomeRow, error)
	ServicesByProfessional(ctx context.Context, fromDate, toDate string) ([]dto.ServiceCountRow, error)
}

// Range is a report period given as DD/MM/AAAA strings, both days
// included.
type Range struct {
	From string
	To   string
}

type parsedRange struct {
	start time.Time
	end   time.Time // exclusive, midnight after the last day
}

func (r Range) parse(loc *time.Location) (parsedRange, error) {
	start, err := time.ParseInLocation(timezone.DMYLayout, r.From, loc)
	if err != nil {
		return parsedRange{}, httperr.ErrBusiness("invalid_date_range")
	}
	last, err := time.ParseInLocation(timezone.DMYLayout, r.To, loc)
	if err != nil {
		return parsedRange{}, httperr.ErrBusiness("invalid_date_range")
	}
	if last.Before(start) {
		return parsedRange{}, httperr.ErrBusiness("invalid_date_range")
	}
	return parsedRange{start: start, end: last.AddDate(0, 0, 1)}, nil
}

type IncomeReport struct {
	Rows   []dto.IncomeRow
	Totals dto.IncomeTotals
	Range  Range
}

type ServicesReport struct {
	Rows  []dto.ServiceCountRow
	Range Range
}

type Reports struct {
	repo   Repository
	loc    *time.Location
	totals func([]dto.IncomeRow) dto.IncomeTotals
}

func NewReports(
	repo Repository,
	loc *time.Location,
	totals func([]dto.IncomeRow) dto.IncomeTotals,
) *Reports {
	return &Reports{
		repo:   repo,
		loc:    loc,
		totals: totals,
	}
}

// Income lists finalized payments whose payment date falls in the range.
func (uc *Reports) Income(ctx context.Context, rng Range) (*IncomeReport, error) {
	p, err := rng.parse(uc.loc)
	if err != nil {
		return nil, err
	}

	rows, err := uc.repo.IncomeBetween(ctx, p.start, p.end)
	if err != nil {
		return nil, err
	}

	return &IncomeReport{
		Rows:   rows,
		Totals: uc.totals(rows),
		Range:  rng,
	}, nil
}

// ServicesByProfessional counts booked services per professional for
// turnos dated within the range.
func (uc *Reports) ServicesByProfessional(ctx context.Context, rng Range) (*ServicesReport, error) {
	p, err := rng.parse(uc.loc)
	if err != nil {
		return nil, err
	}

	rows, err := uc.repo.ServicesByProfessional(
		ctx,
		p.start.Format(timezone.DateLayout),
		p.end.AddDate(0, 0, -1).Format(timezone.DateLayout),
	)
	if err != nil {
		return nil, err
	}

	return &ServicesReport{Rows: rows, Range: rng}, nil
}
