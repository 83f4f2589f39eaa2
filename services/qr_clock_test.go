package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gigbridge/gigwork-app/models"
	"github.com/gigbridge/gigwork-app/utils"
)

func TestQRClockInThenOut(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	shifts := NewShiftService(db)
	svc := NewQRClockService(db, shifts)

	token, _, err := utils.GenerateQRToken(w.Venue.ID, time.Minute)
	assert.NoError(t, err)

	// no open shift -> the scan clocks in
	result, err := svc.Clock(w.Worker.ID, token)
	assert.NoError(t, err)
	assert.Equal(t, QRActionClockIn, result.Action)
	assert.Equal(t, w.Venue.ID, result.VenueID)
	assert.Equal(t, models.ShiftStatusOpen, result.Shift.Status)
	// the accepted engagement is linked automatically
	assert.NotNil(t, result.Shift.EngagementID)

	// open shift at the same venue -> the scan clocks out
	result, err = svc.Clock(w.Worker.ID, token)
	assert.NoError(t, err)
	assert.Equal(t, QRActionClockOut, result.Action)
	assert.Equal(t, models.ShiftStatusSubmitted, result.Shift.Status)
}

func TestQRClockDifferentVenueConflicts(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	shifts := NewShiftService(db)
	svc := NewQRClockService(db, shifts)

	other := models.Venue{Name: "Northside Taproom", OwnerID: w.Payer.ID}
	assert.NoError(t, db.Create(&other).Error)

	_, err := shifts.ClockIn(w.Worker.ID, EngagementTarget(w.Engagement.ID))
	assert.NoError(t, err)

	token, _, err := utils.GenerateQRToken(other.ID, time.Minute)
	assert.NoError(t, err)

	// scanning another venue never force-closes the open shift
	_, err = svc.Clock(w.Worker.ID, token)
	assert.ErrorIs(t, err, ErrVenueMismatch)

	open, err := shifts.GetOpenShift(w.Worker.ID)
	assert.NoError(t, err)
	assert.NotNil(t, open)
	assert.Equal(t, w.Venue.ID, open.VenueID)
}

func TestQRClockExpiredToken(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	shifts := NewShiftService(db)
	svc := NewQRClockService(db, shifts)

	token, _, err := utils.GenerateQRToken(w.Venue.ID, -time.Minute)
	assert.NoError(t, err)

	_, err = svc.Clock(w.Worker.ID, token)
	assert.ErrorIs(t, err, utils.ErrQRTokenExpired)
}

func TestQRClockGarbageToken(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	shifts := NewShiftService(db)
	svc := NewQRClockService(db, shifts)

	_, err := svc.Clock(w.Worker.ID, "not-a-token")
	assert.ErrorIs(t, err, utils.ErrQRTokenInvalid)
}
