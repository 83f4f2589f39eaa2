package models

import "time"

// Engagement statuses
const (
	EngagementStatusAccepted  = "accepted"
	EngagementStatusCompleted = "completed"
	EngagementStatusCancelled = "cancelled"
)

// Engagement links a worker to a venue and its paying account once a job
// application has been accepted. The matching workflow that produces these
// rows lives outside this app; here they only serve as clock-in targets and
// as the linkage reviews and invoices hang off.
type Engagement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	WorkerID  uint      `gorm:"not null;index" json:"worker_id"`
	Worker    User      `gorm:"foreignKey:WorkerID" json:"-"`
	VenueID   uint      `gorm:"not null;index" json:"venue_id"`
	Venue     Venue     `gorm:"foreignKey:VenueID" json:"venue"`
	PayerID   uint      `gorm:"not null;index" json:"payer_id"`
	Payer     User      `gorm:"foreignKey:PayerID" json:"-"`
	JobTitle  string    `gorm:"type:varchar(255)" json:"job_title"`
	Status    string    `gorm:"type:varchar(20);not null;default:'accepted'" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
