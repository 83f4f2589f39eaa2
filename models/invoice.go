package models

import (
	"time"
)

// Invoice statuses
const (
	InvoiceStatusPending    = "pending"
	InvoiceStatusProcessing = "processing"
	InvoiceStatusPaid       = "paid"
)

// Invoice payment types
const (
	PaymentTypeHourly = "hourly"
	PaymentTypeFixed  = "fixed"
)

// Invoice is a billable record owed by a payer to a worker, either generated
// from an approved shift (hourly) or entered manually (fixed). Like shifts,
// invoices are append-only.
type Invoice struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	WorkerID     uint       `gorm:"not null;index" json:"worker_id"`
	Worker       User       `gorm:"foreignKey:WorkerID" json:"-"`
	PayerID      uint       `gorm:"not null;index" json:"payer_id"`
	Payer        User       `gorm:"foreignKey:PayerID" json:"-"`
	EngagementID *uint      `gorm:"index" json:"engagement_id,omitempty"`
	ShiftID      *uint      `gorm:"index" json:"shift_id,omitempty"`
	PaymentType  string     `gorm:"type:varchar(10);not null" json:"payment_type"`
	HoursWorked  float64    `gorm:"type:decimal(8,2);not null;default:0.00" json:"hours_worked"`
	RatePerHour  float64    `gorm:"type:decimal(10,2);not null;default:0.00" json:"rate_per_hour"`
	TotalAmount  float64    `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submitted_at"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	// PaymentRef holds the opaque reference returned by the payment gateway
	// when payment is initiated; settlement itself happens outside this app.
	PaymentRef string    `gorm:"type:varchar(255)" json:"payment_ref,omitempty"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// CanTransition reports whether the invoice may move to the given status.
// The machine is strictly forward: pending -> processing -> paid, with the
// pending -> paid shortcut, and paid terminal.
func (i *Invoice) CanTransition(status string) bool {
	switch i.Status {
	case InvoiceStatusPending:
		return status == InvoiceStatusProcessing || status == InvoiceStatusPaid
	case InvoiceStatusProcessing:
		return status == InvoiceStatusPaid
	}
	return false
}
