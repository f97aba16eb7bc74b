package appointment

import "github.com/spa-sentirse-bien/spa-server/internal/models"

func Cancel(ap *models.Appointment, paymentMethod string) error {
	if err := CanCancel(Status(ap.Status), paymentMethod); err != nil {
		return err
	}
	ap.Status = string(StatusCancelled)
	return nil
}

// Reschedule moves the turno to slot. Only the supplied parts of the slot
// are meaningful; the caller merges them with the current values first.
func Reschedule(ap *models.Appointment, paymentMethod string, slot Slot) error {
	if err := CanModify(Status(ap.Status), paymentMethod); err != nil {
		return err
	}
	ap.Date = slot.Date
	ap.Time = slot.Hour
	ap.StartsAt = slot.Starts.UTC()
	return nil
}
