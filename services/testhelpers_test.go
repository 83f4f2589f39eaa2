package services

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gigbridge/gigwork-app/models"
)

// setupServiceDB opens a fresh named in-memory database per test so unique
// indexes and seed rows never leak between tests.
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.VenueStaff{},
		&models.Engagement{},
		&models.Shift{},
		&models.Invoice{},
		&models.Review{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// seedWorld creates the standard cast: a worker, a payer who owns a venue,
// and an accepted engagement between them.
type world struct {
	Worker     models.User
	Payer      models.User
	Venue      models.Venue
	Engagement models.Engagement
}

func seedWorld(t *testing.T, db *gorm.DB) world {
	t.Helper()

	worker := models.User{Name: "Avery Worker", Email: "worker@example.com", Password: "x", Role: models.RoleWorker}
	payer := models.User{Name: "Blake Payer", Email: "payer@example.com", Password: "x", Role: models.RolePayer}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	if err := db.Create(&payer).Error; err != nil {
		t.Fatalf("seed payer: %v", err)
	}

	venue := models.Venue{Name: "The Copper Kettle", Address: "12 Dock Rd", OwnerID: payer.ID}
	if err := db.Create(&venue).Error; err != nil {
		t.Fatalf("seed venue: %v", err)
	}

	engagement := models.Engagement{
		WorkerID: worker.ID,
		VenueID:  venue.ID,
		PayerID:  payer.ID,
		JobTitle: "Bartender",
		Status:   models.EngagementStatusAccepted,
	}
	if err := db.Create(&engagement).Error; err != nil {
		t.Fatalf("seed engagement: %v", err)
	}

	return world{Worker: worker, Payer: payer, Venue: venue, Engagement: engagement}
}

// seedApprovedShift writes a closed, approved shift of the given length.
func seedApprovedShift(t *testing.T, db *gorm.DB, w world, hours float64, breakMinutes int) models.Shift {
	t.Helper()

	clockOut := time.Now()
	clockIn := clockOut.Add(-time.Duration(hours * float64(time.Hour)))
	engagementID := w.Engagement.ID
	shift := models.Shift{
		WorkerID:     w.Worker.ID,
		VenueID:      w.Venue.ID,
		EngagementID: &engagementID,
		ClockInAt:    clockIn,
		ClockOutAt:   &clockOut,
		BreakMinutes: breakMinutes,
		Status:       models.ShiftStatusApproved,
	}
	if err := db.Create(&shift).Error; err != nil {
		t.Fatalf("seed shift: %v", err)
	}
	return shift
}
