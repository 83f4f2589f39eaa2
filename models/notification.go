package models

import (
	"time"
)

// Notification event kinds
const (
	NotifShiftApproved = "shift_approved"
	NotifShiftDisputed = "shift_disputed"
	NotifShiftVoided   = "shift_voided"
	NotifInvoicePaid   = "invoice_paid"
	NotifInvoiceSent   = "invoice_sent"
)

type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    *uint      `json:"user_id,omitempty"`
	User      User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Event     string     `gorm:"type:varchar(50);not null" json:"event"`
	Title     *string    `gorm:"type:varchar(100)" json:"title,omitempty"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}
