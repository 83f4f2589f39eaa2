package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gigbridge/gigwork-app/models"
	"github.com/gigbridge/gigwork-app/services"
	"github.com/gigbridge/gigwork-app/utils"
)

type InvoiceController struct {
	DB       *gorm.DB
	Invoices *services.InvoiceService
}

func NewInvoiceController(db *gorm.DB, initiator services.PaymentInitiator) *InvoiceController {
	return &InvoiceController{
		DB:       db,
		Invoices: services.NewInvoiceService(db, initiator),
	}
}

// CreateFromShift -> bill an approved shift at an hourly rate
func (ic *InvoiceController) CreateFromShift(c *gin.Context) {
	workerID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type reqBody struct {
		ShiftID     uint    `json:"shift_id" binding:"required"`
		RatePerHour float64 `json:"rate_per_hour"`
		Notes       string  `json:"notes"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	invoice, err := ic.Invoices.CreateFromShift(body.ShiftID, workerID, body.RatePerHour, body.Notes)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.InfoLogger.Printf("Invoice %d created from shift %d (total=%s)",
		invoice.ID, body.ShiftID, utils.FormatAmount(invoice.TotalAmount))
	utils.RespondJSON(c, http.StatusCreated, "Invoice created", invoice)
}

// CreateManual -> ad-hoc fixed invoice outside the shift workflow
func (ic *InvoiceController) CreateManual(c *gin.Context) {
	workerID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	if callerRole(c) != models.RoleWorker {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	type reqBody struct {
		PayerID     uint    `json:"payer_id" binding:"required"`
		Description string  `json:"description" binding:"required"`
		Amount      float64 `json:"amount"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	invoice, err := ic.Invoices.CreateManual(workerID, body.PayerID, body.Description, body.Amount)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Invoice created", invoice)
}

// InitiatePayment -> hand a pending invoice to the payment gateway
func (ic *InvoiceController) InitiatePayment(c *gin.Context) {
	actorID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	invoiceID, _ := strconv.Atoi(c.Param("invoice_id"))
	invoice, err := ic.Invoices.InitiatePayment(uint(invoiceID), actorID)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.InfoLogger.Printf("Payment initiated for invoice %d (ref=%s)", invoice.ID, invoice.PaymentRef)
	utils.RespondJSON(c, http.StatusOK, "Payment initiated", invoice)
}

// MarkPaid -> idempotent: repeated calls return the paid invoice unchanged
func (ic *InvoiceController) MarkPaid(c *gin.Context) {
	actorID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	invoiceID, _ := strconv.Atoi(c.Param("invoice_id"))
	invoice, err := ic.Invoices.MarkPaid(uint(invoiceID), actorID)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Invoice paid", invoice)
}

// GetAllInvoices -> ?side=sent (worker view) or ?side=received (payer view)
func (ic *InvoiceController) GetAllInvoices(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	invoices, err := ic.Invoices.ListInvoices(userID, c.Query("side"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All invoices", invoices)
}

// GetInvoiceByID
func (ic *InvoiceController) GetInvoiceByID(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	invoiceID, _ := strconv.Atoi(c.Param("invoice_id"))
	invoice, err := ic.Invoices.GetInvoice(uint(invoiceID), userID)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoice detail", invoice)
}
