package models

import (
	"time"
)

// Shift statuses
const (
	ShiftStatusOpen      = "open"
	ShiftStatusSubmitted = "submitted"
	ShiftStatusApproved  = "approved"
	ShiftStatusDisputed  = "disputed"
	ShiftStatusVoid      = "void"
)

// Shift is one continuous on-site session of a worker at a venue, bounded by
// clock-in and clock-out. Rows are append-only: a shift is never deleted,
// only moved forward through its statuses.
type Shift struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	WorkerID     uint        `gorm:"not null;index;uniqueIndex:idx_worker_active" json:"worker_id"`
	Worker       User        `gorm:"foreignKey:WorkerID" json:"-"`
	VenueID      uint        `gorm:"not null;index" json:"venue_id"`
	Venue        Venue       `gorm:"foreignKey:VenueID" json:"venue"`
	EngagementID *uint       `gorm:"index" json:"engagement_id,omitempty"`
	Engagement   *Engagement `gorm:"foreignKey:EngagementID" json:"-"`
	ClockInAt    time.Time   `gorm:"not null" json:"clock_in_at"`
	ClockOutAt   *time.Time  `json:"clock_out_at,omitempty"`
	BreakMinutes int         `gorm:"not null;default:0" json:"break_minutes"`
	Status       string      `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	// Active is 1 while the shift is open and NULL once closed. The composite
	// unique index with WorkerID is what holds the one-open-shift-per-worker
	// invariant under concurrent clock-ins; both MySQL and SQLite permit any
	// number of NULLs in a unique index, so closed shifts never collide.
	Active     *bool     `gorm:"uniqueIndex:idx_worker_active" json:"-"`
	WorkerNote string    `gorm:"type:text" json:"worker_note"`
	VenueNote  string    `gorm:"type:text" json:"venue_note"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// IsOpen reports whether the worker is still on the clock.
func (s *Shift) IsOpen() bool {
	return s.Status == ShiftStatusOpen
}

// CanAdjudicate reports whether status is a valid adjudication outcome for
// this shift. Only submitted shifts may be adjudicated, and only into one of
// the three terminal states.
func (s *Shift) CanAdjudicate(status string) bool {
	if s.Status != ShiftStatusSubmitted {
		return false
	}
	switch status {
	case ShiftStatusApproved, ShiftStatusDisputed, ShiftStatusVoid:
		return true
	}
	return false
}
