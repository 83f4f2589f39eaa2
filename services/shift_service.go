package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gigbridge/gigwork-app/models"
	"github.com/gigbridge/gigwork-app/notify"
)

// TargetKind tags the clock-in target variant.
type TargetKind int

const (
	TargetEngagement TargetKind = iota + 1
	TargetStaff
	TargetQR
)

// ClockTarget is the tagged clock-in target: an accepted engagement, a staff
// membership at a venue, or a venue resolved from a signed QR token. All
// three collapse to one (venueID, engagementID?) tuple before any shift is
// written.
type ClockTarget struct {
	Kind         TargetKind
	EngagementID uint
	VenueID      uint
}

func EngagementTarget(engagementID uint) ClockTarget {
	return ClockTarget{Kind: TargetEngagement, EngagementID: engagementID}
}

func StaffTarget(venueID uint) ClockTarget {
	return ClockTarget{Kind: TargetStaff, VenueID: venueID}
}

func QRTarget(venueID uint) ClockTarget {
	return ClockTarget{Kind: TargetQR, VenueID: venueID}
}

// ShiftService owns the shift lifecycle: clock-in, clock-out and the
// adjudication transitions applied by the approval workflow.
type ShiftService struct {
	db *gorm.DB
}

func NewShiftService(db *gorm.DB) *ShiftService {
	return &ShiftService{db: db}
}

// ClockIn opens a shift for the worker at the resolved venue. The one-open-
// shift-per-worker invariant is not checked by reading first: the insert
// races on the (worker_id, active) unique index, so of two concurrent
// clock-ins exactly one row is created and the loser gets ErrAlreadyClockedIn.
func (s *ShiftService) ClockIn(workerID uint, target ClockTarget) (*models.Shift, error) {
	venueID, engagementID, err := s.resolveTarget(workerID, target)
	if err != nil {
		return nil, err
	}

	active := true
	now := time.Now()
	shift := models.Shift{
		WorkerID:     workerID,
		VenueID:      venueID,
		EngagementID: engagementID,
		ClockInAt:    now,
		BreakMinutes: 0,
		Status:       models.ShiftStatusOpen,
		Active:       &active,
	}

	if err := s.db.Create(&shift).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyClockedIn
		}
		return nil, err
	}

	if err := s.db.Preload("Venue").First(&shift, shift.ID).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

// ClockOut closes the worker's shift: sets the clock-out time, releases the
// active slot and hands the shift to the approval workflow as submitted.
func (s *ShiftService) ClockOut(shiftID, workerID uint, breakMinutes int, workerNote string) (*models.Shift, error) {
	var shift models.Shift
	if err := s.db.First(&shift, shiftID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	if shift.WorkerID != workerID {
		return nil, ErrNotShiftOwner
	}
	if !shift.IsOpen() {
		return nil, ErrAlreadyClosed
	}
	if breakMinutes < 0 {
		return nil, ErrInvalidBreak
	}

	now := time.Now()
	if float64(breakMinutes) > now.Sub(shift.ClockInAt).Minutes() {
		return nil, ErrInvalidBreak
	}

	shift.ClockOutAt = &now
	shift.BreakMinutes = breakMinutes
	shift.Status = models.ShiftStatusSubmitted
	shift.Active = nil
	if workerNote != "" {
		shift.WorkerNote = workerNote
	}

	// Save writes every column, which is what clears active back to NULL.
	if err := s.db.Save(&shift).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

// GetOpenShift returns the worker's open shift, or nil if the worker is off
// the clock.
func (s *ShiftService) GetOpenShift(workerID uint) (*models.Shift, error) {
	var shift models.Shift
	err := s.db.Preload("Venue").
		Where("worker_id = ? AND status = ?", workerID, models.ShiftStatusOpen).
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// ListShifts returns the worker's shift history, newest first.
func (s *ShiftService) ListShifts(workerID uint) ([]models.Shift, error) {
	var shifts []models.Shift
	err := s.db.Preload("Venue").
		Where("worker_id = ?", workerID).
		Order("clock_in_at DESC").
		Find(&shifts).Error
	return shifts, err
}

// Adjudicate applies the approval workflow's decision to a submitted shift.
// The decision logic itself lives outside this app; only the transition is
// validated here: submitted -> approved | disputed | void.
func (s *ShiftService) Adjudicate(shiftID, actorID uint, actorRole, status, venueNote string) (*models.Shift, error) {
	var shift models.Shift
	if err := s.db.First(&shift, shiftID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	if !shift.CanAdjudicate(status) {
		return nil, ErrInvalidStatus
	}

	if actorRole != models.RoleAdmin {
		if err := s.canAdjudicateFor(&shift, actorID); err != nil {
			return nil, err
		}
	}

	// Guarded on status so racing decisions cannot both land: the row only
	// moves while still submitted, and a terminal state is never overwritten.
	updates := map[string]interface{}{"status": status}
	if venueNote != "" {
		updates["venue_note"] = venueNote
	}
	result := s.db.Model(&models.Shift{}).
		Where("id = ? AND status = ?", shift.ID, models.ShiftStatusSubmitted).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidStatus
	}

	if err := s.db.First(&shift, shift.ID).Error; err != nil {
		return nil, err
	}
	s.notifyDecision(&shift)
	return &shift, nil
}

// canAdjudicateFor checks that the actor speaks for the venue side of the
// shift: the venue owner, or the paying party of the linked engagement.
func (s *ShiftService) canAdjudicateFor(shift *models.Shift, actorID uint) error {
	var venue models.Venue
	if err := s.db.First(&venue, shift.VenueID).Error; err != nil {
		return err
	}
	if venue.OwnerID == actorID {
		return nil
	}
	if shift.EngagementID != nil {
		var engagement models.Engagement
		if err := s.db.First(&engagement, *shift.EngagementID).Error; err == nil &&
			engagement.PayerID == actorID {
			return nil
		}
	}
	return ErrNotPayer
}

func (s *ShiftService) notifyDecision(shift *models.Shift) {
	event := map[string]string{
		models.ShiftStatusApproved: models.NotifShiftApproved,
		models.ShiftStatusDisputed: models.NotifShiftDisputed,
		models.ShiftStatusVoid:     models.NotifShiftVoided,
	}[shift.Status]

	message := fmt.Sprintf("Shift #%d was marked %s", shift.ID, shift.Status)
	notification := models.Notification{
		UserID:  &shift.WorkerID,
		Event:   event,
		Message: message,
	}
	// Notification delivery is fire-and-forget; a failed insert must not fail
	// the adjudication itself.
	s.db.Create(&notification)

	notify.BroadcastShiftDecision(*shift)
}

func (s *ShiftService) resolveTarget(workerID uint, target ClockTarget) (uint, *uint, error) {
	switch target.Kind {
	case TargetEngagement:
		var engagement models.Engagement
		if err := s.db.First(&engagement, target.EngagementID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, nil, ErrEngagementNotFound
			}
			return 0, nil, err
		}
		if engagement.WorkerID != workerID || engagement.Status != models.EngagementStatusAccepted {
			return 0, nil, ErrUnauthorizedVenue
		}
		id := engagement.ID
		return engagement.VenueID, &id, nil

	case TargetStaff:
		if err := s.venueExists(target.VenueID); err != nil {
			return 0, nil, err
		}
		var membership models.VenueStaff
		err := s.db.Where("venue_id = ? AND worker_id = ?", target.VenueID, workerID).
			First(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, ErrUnauthorizedVenue
		}
		if err != nil {
			return 0, nil, err
		}
		return target.VenueID, nil, nil

	case TargetQR:
		// A valid signature on the venue's own token is the authorization;
		// link an accepted engagement when one exists so billing and reviews
		// stay traceable.
		if err := s.venueExists(target.VenueID); err != nil {
			return 0, nil, err
		}
		var engagement models.Engagement
		err := s.db.Where("venue_id = ? AND worker_id = ? AND status = ?",
			target.VenueID, workerID, models.EngagementStatusAccepted).
			First(&engagement).Error
		if err == nil {
			id := engagement.ID
			return target.VenueID, &id, nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return target.VenueID, nil, nil
		}
		return 0, nil, err
	}

	return 0, nil, ErrInvalidTarget
}

func (s *ShiftService) venueExists(venueID uint) error {
	var venue models.Venue
	if err := s.db.First(&venue, venueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVenueNotFound
		}
		return err
	}
	return nil
}

// isDuplicateKey matches unique-index violations across the mysql and sqlite
// drivers. TranslateError covers both, the string check is for drivers that
// predate translation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "Duplicate entry")
}
