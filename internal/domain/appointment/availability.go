package appointment

import (
	"time"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/timezone"
)

const (
	// LeadTime is how far ahead of "now" a turno must start to be booked.
	LeadTime = 72 * time.Hour

	// Retention is how long an unpaid turno survives past its start before
	// the sweep purges it.
	Retention = 48 * time.Hour
)

// Slot is a validated date and hour with the instant they denote.
type Slot struct {
	Date   string
	Hour   string
	Starts time.Time
}

func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(timezone.DateLayout, date)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date")
	}
	return d, nil
}

// ParseSlot parses a YYYY-MM-DD date and HH:MM hour in loc and normalizes
// both strings.
func ParseSlot(date, hour string, loc *time.Location) (Slot, error) {
	if _, err := time.Parse(timezone.DateLayout, date); err != nil {
		return Slot{}, httperr.ErrBusiness("invalid_date")
	}
	if _, err := time.Parse(timezone.TimeLayout, hour); err != nil {
		return Slot{}, httperr.ErrBusiness("invalid_time")
	}

	start, err := time.ParseInLocation(timezone.DateTimeLayout, date+" "+hour, loc)
	if err != nil {
		return Slot{}, httperr.ErrBusiness("invalid_date")
	}

	return Slot{
		Date:   start.Format(timezone.DateLayout),
		Hour:   start.Format(timezone.TimeLayout),
		Starts: start,
	}, nil
}

// CheckLeadTime rejects slots that start less than LeadTime after now.
func CheckLeadTime(start, now time.Time) error {
	if start.Sub(now) < LeadTime {
		return httperr.ErrBusiness("too_soon")
	}
	return nil
}

// StaleCutoff is the instant before which unpaid turnos are purged.
func StaleCutoff(now time.Time) time.Time {
	return now.Add(-Retention)
}
