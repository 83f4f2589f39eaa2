package services

import (
	"gorm.io/gorm"

	"github.com/gigbridge/gigwork-app/models"
	"github.com/gigbridge/gigwork-app/utils"
)

// QR clock actions
const (
	QRActionClockIn  = "clock_in"
	QRActionClockOut = "clock_out"
)

// QRClockResult reports which clock operation a scan resolved to.
type QRClockResult struct {
	Action  string        `json:"action"`
	VenueID uint          `json:"venue_id"`
	Shift   *models.Shift `json:"shift"`
}

// QRClockService turns a scanned venue token into a clock-in or clock-out.
// It decides only which operation applies; every mutation goes through the
// ShiftService so the open-shift invariant is enforced in one place.
type QRClockService struct {
	db     *gorm.DB
	shifts *ShiftService
}

func NewQRClockService(db *gorm.DB, shifts *ShiftService) *QRClockService {
	return &QRClockService{db: db, shifts: shifts}
}

// Clock validates the token and applies the matching clock operation for the
// worker: no open shift means clock-in at the token's venue, an open shift at
// the same venue means clock-out. A scan at a different venue than the open
// shift is rejected; the worker has to clock out first so time is never
// silently moved between venues.
func (q *QRClockService) Clock(workerID uint, token string) (*QRClockResult, error) {
	claims, err := utils.ParseQRToken(token)
	if err != nil {
		return nil, err
	}

	open, err := q.shifts.GetOpenShift(workerID)
	if err != nil {
		return nil, err
	}

	if open == nil {
		shift, err := q.shifts.ClockIn(workerID, QRTarget(claims.VenueID))
		if err != nil {
			return nil, err
		}
		return &QRClockResult{Action: QRActionClockIn, VenueID: claims.VenueID, Shift: shift}, nil
	}

	if open.VenueID != claims.VenueID {
		return nil, ErrVenueMismatch
	}

	shift, err := q.shifts.ClockOut(open.ID, workerID, open.BreakMinutes, "")
	if err != nil {
		return nil, err
	}
	return &QRClockResult{Action: QRActionClockOut, VenueID: claims.VenueID, Shift: shift}, nil
}
