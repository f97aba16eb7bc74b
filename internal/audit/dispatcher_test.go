package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spa-sentirse-bien/spa-server/internal/audit"
	"github.com/spa-sentirse-bien/spa-server/internal/models"
	"github.com/spa-sentirse-bien/spa-server/internal/testutil"
)

func TestDispatcherPersistsEvents(t *testing.T) {
	db := testutil.NewDB(t)
	d := audit.NewDispatcher(audit.New(db), zap.NewNop())

	userID := uint(3)
	turnoID := uint(11)
	d.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   audit.ActionBookingCreated,
		Entity:   "turno",
		EntityID: &turnoID,
		Metadata: map[string]string{"fecha": "2025-03-10"},
	})
	d.Close()

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, audit.ActionBookingCreated, logs[0].Action)
	assert.JSONEq(t, `{"fecha":"2025-03-10"}`, logs[0].Metadata)
	require.NotNil(t, logs[0].EntityID)
	assert.Equal(t, turnoID, *logs[0].EntityID)
}

func TestNilDispatcherIsSafe(t *testing.T) {
	var d *audit.Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(audit.Event{Action: "x"})
		d.Close()
	})
}
