package appointment

import (
	"context"
	"time"

	"github.com/spa-sentirse-bien/spa-server/internal/dto"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

type Repository interface {
	// WithTx runs fn against a repository bound to one transaction.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// -------- Availability --------
	ListBookedHours(ctx context.Context, date string) ([]string, error)

	IsSlotTaken(
		ctx context.Context,
		date string,
		hour string,
		excludeID uint,
	) (bool, error)

	// -------- Catalog --------
	GetService(ctx context.Context, id uint) (*models.Service, error)
	ListProfessionalIDs(ctx context.Context) ([]uint, error)
	FindProfessionalByEmail(ctx context.Context, email string) (*models.Professional, error)

	// -------- Booking --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	CreateAppointmentService(ctx context.Context, link *models.AppointmentService) error
	CreatePayment(ctx context.Context, p *models.Payment) error

	// GetOwnedAppointment returns the pending turno id owned by clientID,
	// locked for update.
	GetOwnedAppointment(
		ctx context.Context,
		appointmentID uint,
		clientID uint,
	) (*models.Appointment, error)

	GetPaymentByAppointment(ctx context.Context, appointmentID uint) (*models.Payment, error)
	DeleteServiceLinks(ctx context.Context, appointmentID uint) error
	DeletePayments(ctx context.Context, appointmentID uint) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// -------- Maintenance --------
	ListStaleAppointmentIDs(ctx context.Context, cutoff time.Time, limit int) ([]uint, error)
	// DeleteStaleAppointments removes the turnos among ids that are still
	// stale at the time of the delete and reports how many went.
	DeleteStaleAppointments(ctx context.Context, ids []uint, cutoff time.Time) (int64, error)
	MarkRealized(ctx context.Context, clientID uint, now time.Time) (int64, error)

	// -------- Listings --------
	ListHistory(ctx context.Context, clientID uint) ([]dto.HistoryItem, error)
	ListReservations(ctx context.Context, clientID uint) ([]dto.ReservationItem, error)
	ListAgenda(ctx context.Context, professionalID uint, date string) ([]dto.AgendaItem, error)

	// ListPaidClients lists the paid turnos of a day; professionalID 0
	// means every professional.
	ListPaidClients(ctx context.Context, date string, professionalID uint) ([]dto.DailyClient, error)
	ProfessionalExists(ctx context.Context, id uint) (bool, error)
}
