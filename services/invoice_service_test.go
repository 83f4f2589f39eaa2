package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gigbridge/gigwork-app/models"
)

func TestCreateFromShift(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	svc := NewInvoiceService(db, NoopInitiator{})

	shift := seedApprovedShift(t, db, w, 4, 0)

	invoice, err := svc.CreateFromShift(shift.ID, w.Worker.ID, 25.00, "friday shift")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentTypeHourly, invoice.PaymentType)
	assert.Equal(t, models.InvoiceStatusPending, invoice.Status)
	assert.Equal(t, 4.0, invoice.HoursWorked)
	assert.Equal(t, 100.0, invoice.TotalAmount)
	assert.Equal(t, w.Payer.ID, invoice.PayerID)
	assert.NotNil(t, invoice.ShiftID)
	assert.Equal(t, shift.ID, *invoice.ShiftID)
	assert.NotNil(t, invoice.EngagementID)
}

func TestCreateFromShiftRequiresApproval(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	svc := NewInvoiceService(db, NoopInitiator{})

	shift := seedApprovedShift(t, db, w, 4, 0)
	db.Model(&models.Shift{}).Where("id = ?", shift.ID).
		Update("status", models.ShiftStatusSubmitted)

	// only adjudicated time may be billed
	_, err := svc.CreateFromShift(shift.ID, w.Worker.ID, 25.00, "")
	assert.ErrorIs(t, err, ErrShiftNotBillable)
}

func TestCreateFromShiftMissingRate(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	svc := NewInvoiceService(db, NoopInitiator{})

	shift := seedApprovedShift(t, db, w, 4, 0)

	_, err := svc.CreateFromShift(shift.ID, w.Worker.ID, 0, "")
	assert.ErrorIs(t, err, ErrMissingRate)
}

func TestCreateFromShiftWrongWorker(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	svc := NewInvoiceService(db, NoopInitiator{})

	shift := seedApprovedShift(t, db, w, 4, 0)

	_, err := svc.CreateFromShift(shift.ID, w.Payer.ID, 25.00, "")
	assert.ErrorIs(t, err, ErrNotShiftOwner)
}

func TestCreateManual(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	svc := NewInvoiceService(db, NoopInitiator{})

	invoice, err := svc.CreateManual(w.Worker.ID, w.Payer.ID, "equipment reimbursement", 42.50)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentTypeFixed, invoice.PaymentType)
	assert.Equal(t, 42.50, invoice.TotalAmount)
	assert.Nil(t, invoice.ShiftID)
	assert.Nil(t, invoice.EngagementID)

	_, err = svc.CreateManual(w.Worker.ID, w.Payer.ID, "nothing", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// a worker account is not a billable payer
	_, err = svc.CreateManual(w.Worker.ID, w.Worker.ID, "self", 10)
	assert.ErrorIs(t, err, ErrPayerNotFound)
}

func TestInitiatePayment(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	svc := NewInvoiceService(db, NoopInitiator{})

	shift := seedApprovedShift(t, db, w, 4, 0)
	invoice, err := svc.CreateFromShift(shift.ID, w.Worker.ID, 25.00, "")
	assert.NoError(t, err)

	// only the payer may start payment
	_, err = svc.InitiatePayment(invoice.ID, w.Worker.ID)
	assert.ErrorIs(t, err, ErrNotPayer)

	processing, err := svc.InitiatePayment(invoice.ID, w.Payer.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusProcessing, processing.Status)
	assert.NotEmpty(t, processing.PaymentRef)

	// processing is not re-enterable
	_, err = svc.InitiatePayment(invoice.ID, w.Payer.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

// settlingInitiator settles the invoice while the gateway call is still in
// flight, like a payment callback arriving before initiation returns.
type settlingInitiator struct {
	payments *InvoiceService
	payerID  uint
}

func (s settlingInitiator) InitiatePayment(invoice *models.Invoice) (string, error) {
	if _, err := s.payments.MarkPaid(invoice.ID, s.payerID); err != nil {
		return "", err
	}
	return "late-callback", nil
}

func TestInitiatePaymentNeverRegressesPaid(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	payments := NewInvoiceService(db, NoopInitiator{})
	svc := NewInvoiceService(db, settlingInitiator{payments: payments, payerID: w.Payer.ID})

	shift := seedApprovedShift(t, db, w, 4, 0)
	invoice, err := payments.CreateFromShift(shift.ID, w.Worker.ID, 25.00, "")
	assert.NoError(t, err)

	// the settlement lands mid-initiation, so the stale transition must lose
	_, err = svc.InitiatePayment(invoice.ID, w.Payer.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	final, err := payments.GetInvoice(invoice.ID, w.Payer.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, final.Status)
	assert.NotNil(t, final.PaidAt)
	assert.Empty(t, final.PaymentRef)
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	svc := NewInvoiceService(db, NoopInitiator{})

	shift := seedApprovedShift(t, db, w, 4, 0)
	invoice, err := svc.CreateFromShift(shift.ID, w.Worker.ID, 25.00, "")
	assert.NoError(t, err)

	paid, err := svc.MarkPaid(invoice.ID, w.Payer.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	// the retry returns the same paid record, no error, no new timestamp
	again, err := svc.MarkPaid(invoice.ID, w.Payer.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, again.Status)
	assert.Equal(t, paid.PaidAt.Unix(), again.PaidAt.Unix())

	// exactly one paid notification went to the worker
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ? AND event = ?",
		w.Worker.ID, models.NotifInvoicePaid).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMarkPaidFromProcessing(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	svc := NewInvoiceService(db, NoopInitiator{})

	shift := seedApprovedShift(t, db, w, 4, 0)
	invoice, _ := svc.CreateFromShift(shift.ID, w.Worker.ID, 25.00, "")

	_, err := svc.InitiatePayment(invoice.ID, w.Payer.ID)
	assert.NoError(t, err)

	paid, err := svc.MarkPaid(invoice.ID, w.Payer.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)
}

func TestMarkPaidOnlyPayer(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	svc := NewInvoiceService(db, NoopInitiator{})

	shift := seedApprovedShift(t, db, w, 4, 0)
	invoice, _ := svc.CreateFromShift(shift.ID, w.Worker.ID, 25.00, "")

	_, err := svc.MarkPaid(invoice.ID, w.Worker.ID)
	assert.ErrorIs(t, err, ErrNotPayer)

	_, err = svc.MarkPaid(9999, w.Payer.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestPayerForStaffShiftIsVenueOwner(t *testing.T) {
	db := setupServiceDB(t)
	w := seedWorld(t, db)
	svc := NewInvoiceService(db, NoopInitiator{})

	// staff shift without an engagement bills the venue owner
	shift := seedApprovedShift(t, db, w, 2, 0)
	db.Model(&models.Shift{}).Where("id = ?", shift.ID).Update("engagement_id", nil)

	invoice, err := svc.CreateFromShift(shift.ID, w.Worker.ID, 30.00, "")
	assert.NoError(t, err)
	assert.Equal(t, w.Payer.ID, invoice.PayerID)
	assert.Nil(t, invoice.EngagementID)
	assert.Equal(t, 60.0, invoice.TotalAmount)
}
