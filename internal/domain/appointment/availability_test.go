package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa-sentirse-bien/spa-server/internal/httperr"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

func TestParseSlot(t *testing.T) {
	loc := time.UTC

	slot, err := ParseSlot("2025-03-10", "14:00", loc)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", slot.Date)
	assert.Equal(t, "14:00", slot.Hour)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 0, 0, 0, loc), slot.Starts)

	_, err = ParseSlot("10/03/2025", "14:00", loc)
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = ParseSlot("2025-03-10", "2pm", loc)
	assert.True(t, httperr.IsBusiness(err, "invalid_time"))

	_, err = ParseSlot("2025-02-30", "10:00", loc)
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}

func TestCheckLeadTime(t *testing.T) {
	now := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

	assert.NoError(t, CheckLeadTime(now.Add(72*time.Hour), now))
	assert.NoError(t, CheckLeadTime(time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC), now))

	err := CheckLeadTime(now.Add(71*time.Hour+59*time.Minute), now)
	assert.True(t, httperr.IsBusiness(err, "too_soon"))

	err = CheckLeadTime(now.Add(-time.Hour), now)
	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

func TestStaleCutoff(t *testing.T) {
	now := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), StaleCutoff(now))
}

func TestCancelGuards(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPending)}
	require.NoError(t, Cancel(ap, PaymentPending))
	assert.Equal(t, string(StatusCancelled), ap.Status)

	// second cancel looks like a missing turno
	err := Cancel(ap, "")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	paid := &models.Appointment{Status: string(StatusPending)}
	err = Cancel(paid, "Tarjeta de Crédito")
	assert.True(t, httperr.IsBusiness(err, "already_paid"))
	assert.Equal(t, string(StatusPending), paid.Status)
}

func TestRescheduleRequiresPendingPayment(t *testing.T) {
	slot, err := ParseSlot("2025-03-12", "09:30", time.UTC)
	require.NoError(t, err)

	ap := &models.Appointment{Status: string(StatusPending), Date: "2025-03-10", Time: "14:00"}
	err = Reschedule(ap, "Tarjeta de Débito", slot)
	assert.True(t, httperr.IsBusiness(err, "already_paid"))
	assert.Equal(t, "2025-03-10", ap.Date)

	require.NoError(t, Reschedule(ap, PaymentPending, slot))
	assert.Equal(t, "2025-03-12", ap.Date)
	assert.Equal(t, "09:30", ap.Time)
	assert.Equal(t, slot.Starts.UTC(), ap.StartsAt)
}
