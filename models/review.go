package models

import (
	"time"
)

// Review recipient types
const (
	RecipientTypeWorker = "worker"
	RecipientTypeVenue  = "venue"
)

// Review is feedback tied to a specific engagement. The composite unique
// index on (engagement_id, reviewer_id) guarantees at most one review per
// reviewer per engagement even when submissions race. Reviews are immutable
// once created.
type Review struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EngagementID  uint      `gorm:"not null;uniqueIndex:idx_engagement_reviewer" json:"engagement_id"`
	ReviewerID    uint      `gorm:"not null;uniqueIndex:idx_engagement_reviewer" json:"reviewer_id"`
	Reviewer      User      `gorm:"foreignKey:ReviewerID" json:"-"`
	RecipientID   uint      `gorm:"not null;index" json:"recipient_id"`
	RecipientType string    `gorm:"type:varchar(10);not null" json:"recipient_type"`
	Rating        int       `gorm:"not null" json:"rating"`
	Text          string    `gorm:"type:text" json:"text"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
