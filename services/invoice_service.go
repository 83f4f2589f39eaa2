package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gigbridge/gigwork-app/models"
	"github.com/gigbridge/gigwork-app/notify"
	"github.com/gigbridge/gigwork-app/utils"
)

// InvoiceService creates billable records from adjudicated shifts (or
// manually) and drives them through the pending -> processing -> paid
// machine.
type InvoiceService struct {
	db        *gorm.DB
	initiator PaymentInitiator
}

func NewInvoiceService(db *gorm.DB, initiator PaymentInitiator) *InvoiceService {
	return &InvoiceService{db: db, initiator: initiator}
}

// CreateFromShift bills an approved shift at the given hourly rate. Hours and
// total come from the earnings calculator so the numbers on the invoice are
// exactly reproducible from the shift record.
func (s *InvoiceService) CreateFromShift(shiftID, workerID uint, ratePerHour float64, notes string) (*models.Invoice, error) {
	if ratePerHour <= 0 {
		return nil, ErrMissingRate
	}

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
	if shift.Status != models.ShiftStatusApproved {
		return nil, ErrShiftNotBillable
	}

	payerID, err := s.payerForShift(&shift)
	if err != nil {
		return nil, err
	}

	hours := WorkedHours(&shift)
	shiftID = shift.ID
	invoice := models.Invoice{
		WorkerID:     shift.WorkerID,
		PayerID:      payerID,
		EngagementID: shift.EngagementID,
		ShiftID:      &shiftID,
		PaymentType:  models.PaymentTypeHourly,
		HoursWorked:  hours,
		RatePerHour:  ratePerHour,
		TotalAmount:  Pay(hours, ratePerHour),
		Status:       models.InvoiceStatusPending,
		SubmittedAt:  time.Now(),
		Notes:        notes,
	}

	if err := s.db.Create(&invoice).Error; err != nil {
		return nil, err
	}

	s.notifySent(&invoice)
	return &invoice, nil
}

// CreateManual creates a fixed-amount invoice outside the shift workflow.
// Policy: any worker may bill any registered payer account; the pair needs no
// prior engagement, and the invoice carries no engagement link.
func (s *InvoiceService) CreateManual(workerID, payerID uint, description string, amount float64) (*models.Invoice, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var payer models.User
	if err := s.db.First(&payer, payerID).Error; err != nil || payer.Role != models.RolePayer {
		return nil, ErrPayerNotFound
	}

	invoice := models.Invoice{
		WorkerID:    workerID,
		PayerID:     payerID,
		PaymentType: models.PaymentTypeFixed,
		TotalAmount: amount,
		Status:      models.InvoiceStatusPending,
		SubmittedAt: time.Now(),
		Notes:       description,
	}

	if err := s.db.Create(&invoice).Error; err != nil {
		return nil, err
	}

	s.notifySent(&invoice)
	return &invoice, nil
}

// InitiatePayment moves a pending invoice to processing and hands it to the
// payment gateway. The gateway reference is stored opaquely; settlement and
// callbacks stay outside this app.
func (s *InvoiceService) InitiatePayment(invoiceID, actorID uint) (*models.Invoice, error) {
	invoice, err := s.findInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.PayerID != actorID {
		return nil, ErrNotPayer
	}
	if !invoice.CanTransition(models.InvoiceStatusProcessing) {
		return nil, ErrInvalidStatus
	}

	ref, err := s.initiator.InitiatePayment(invoice)
	if err != nil {
		return nil, err
	}

	// The gateway call above can take long enough for a retry or callback to
	// settle the invoice first. The update is guarded on the status column so
	// a stale transition never overwrites a later one; zero rows means this
	// writer lost the race.
	result := s.db.Model(&models.Invoice{}).
		Where("id = ? AND status = ?", invoice.ID, models.InvoiceStatusPending).
		Updates(map[string]interface{}{
			"status":      models.InvoiceStatusProcessing,
			"payment_ref": ref,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidStatus
	}

	return s.findInvoice(invoice.ID)
}

// MarkPaid records payment of the invoice. Idempotent by design: clients
// retry this call, so an already-paid invoice is returned unchanged instead
// of raising a conflict.
func (s *InvoiceService) MarkPaid(invoiceID, actorID uint) (*models.Invoice, error) {
	invoice, err := s.findInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.PayerID != actorID {
		return nil, ErrNotPayer
	}

	if invoice.Status == models.InvoiceStatusPaid {
		return invoice, nil
	}
	if !invoice.CanTransition(models.InvoiceStatusPaid) {
		return nil, ErrInvalidStatus
	}

	// Guarded on the status column: only a pending or processing row is
	// flipped, so racing retries settle the invoice exactly once.
	now := time.Now()
	result := s.db.Model(&models.Invoice{}).
		Where("id = ? AND status IN ?", invoice.ID,
			[]string{models.InvoiceStatusPending, models.InvoiceStatusProcessing}).
		Updates(map[string]interface{}{
			"status":  models.InvoiceStatusPaid,
			"paid_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	invoice, err = s.findInvoice(invoice.ID)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		// a concurrent retry got there first; same idempotent answer
		if invoice.Status == models.InvoiceStatusPaid {
			return invoice, nil
		}
		return nil, ErrInvalidStatus
	}

	// Only the writer that actually flipped the row notifies, so retries
	// never duplicate the event.
	message := fmt.Sprintf("Invoice #%d (%s) was paid", invoice.ID, utils.FormatAmount(invoice.TotalAmount))
	notification := models.Notification{
		UserID:  &invoice.WorkerID,
		Event:   models.NotifInvoicePaid,
		Message: message,
	}
	s.db.Create(&notification)
	notify.BroadcastInvoicePaid(*invoice)

	return invoice, nil
}

// GetInvoice returns one invoice visible to the caller (worker or payer side).
func (s *InvoiceService) GetInvoice(invoiceID, callerID uint) (*models.Invoice, error) {
	invoice, err := s.findInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.WorkerID != callerID && invoice.PayerID != callerID {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

// ListInvoices returns the caller's invoices; side is "sent" for the worker
// view and "received" for the payer view.
func (s *InvoiceService) ListInvoices(callerID uint, side string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	query := s.db.Order("submitted_at DESC")
	switch side {
	case "received":
		query = query.Where("payer_id = ?", callerID)
	default:
		query = query.Where("worker_id = ?", callerID)
	}
	err := query.Find(&invoices).Error
	return invoices, err
}

func (s *InvoiceService) findInvoice(invoiceID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// payerForShift resolves who gets billed: the engagement's paying party when
// the shift is engagement-backed, otherwise the owner of the venue.
func (s *InvoiceService) payerForShift(shift *models.Shift) (uint, error) {
	if shift.EngagementID != nil {
		var engagement models.Engagement
		if err := s.db.First(&engagement, *shift.EngagementID).Error; err != nil {
			return 0, err
		}
		return engagement.PayerID, nil
	}

	var venue models.Venue
	if err := s.db.First(&venue, shift.VenueID).Error; err != nil {
		return 0, err
	}
	return venue.OwnerID, nil
}

func (s *InvoiceService) notifySent(invoice *models.Invoice) {
	message := fmt.Sprintf("New invoice #%d for %s", invoice.ID, utils.FormatAmount(invoice.TotalAmount))
	notification := models.Notification{
		UserID:  &invoice.PayerID,
		Event:   models.NotifInvoiceSent,
		Message: message,
	}
	s.db.Create(&notification)
}
