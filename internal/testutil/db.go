// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/spa-sentirse-bien/spa-server/internal/db"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
)

// NewDB returns an isolated in-memory SQLite database with the production
// schema applied.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// FixedClock returns a clock frozen at the given instant.
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

func CreateClient(t *testing.T, db *gorm.DB, name string) *models.Client {
	t.Helper()
	c := &models.Client{FirstName: name, LastName: "Test", Email: name + "@example.com"}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

func CreateProfessional(t *testing.T, db *gorm.DB, name, email string) *models.Professional {
	t.Helper()
	p := &models.Professional{FirstName: name, LastName: "Pro", Specialty: "Masajes", Email: email}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create professional: %v", err)
	}
	return p
}

func CreateService(t *testing.T, db *gorm.DB, name string, price string) *models.Service {
	t.Helper()
	s := &models.Service{Name: name, DurationMin: 60, Price: decimal.RequireFromString(price), Active: true}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("create service: %v", err)
	}
	return s
}

// CreateBooking inserts an appointment with its service link and payment
// the same way a booking would, without going through the workflow.
func CreateBooking(
	t *testing.T,
	db *gorm.DB,
	clientID uint,
	serviceID uint,
	startsAt time.Time,
	method string,
	amount string,
) *models.Appointment {
	t.Helper()

	ap := &models.Appointment{
		Date:     startsAt.Format("2006-01-02"),
		Time:     startsAt.Format("15:04"),
		StartsAt: startsAt.UTC(),
		ClientID: &clientID,
		Status:   "Pendiente",
	}
	if err := db.Create(ap).Error; err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if err := db.Create(&models.AppointmentService{AppointmentID: ap.ID, ServiceID: serviceID}).Error; err != nil {
		t.Fatalf("create appointment service: %v", err)
	}

	pay := &models.Payment{AppointmentID: ap.ID, Amount: decimal.RequireFromString(amount), Method: method}
	if method != "Pendiente" {
		paidAt := startsAt.UTC()
		pay.PaidAt = &paidAt
	}
	if err := db.Create(pay).Error; err != nil {
		t.Fatalf("create payment: %v", err)
	}

	return ap
}
