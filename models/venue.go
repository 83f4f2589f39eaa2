package models

import "time"

// Venue is a business location where shifts are worked. OwnerID points at the
// payer account that receives invoices for staff shifts without an engagement.
type Venue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Owner     User      `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// VenueStaff records a standing staff membership of a worker at a venue,
// the non-engagement route to an authorized clock-in.
type VenueStaff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VenueID   uint      `gorm:"not null;uniqueIndex:idx_venue_worker" json:"venue_id"`
	Venue     Venue     `gorm:"foreignKey:VenueID" json:"-"`
	WorkerID  uint      `gorm:"not null;uniqueIndex:idx_venue_worker" json:"worker_id"`
	Worker    User      `gorm:"foreignKey:WorkerID" json:"-"`
	Position  string    `gorm:"type:varchar(100)" json:"position"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
