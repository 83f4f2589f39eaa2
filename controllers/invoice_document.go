package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gigbridge/gigwork-app/models"
	"github.com/gigbridge/gigwork-app/utils"
)

// GenerateDocument builds the downloadable record of an invoice for the
// rendering collaborator. Pure read: the invoice is not mutated, and only a
// finalized (paid) invoice produces a document.
func (ic *InvoiceController) GenerateDocument(c *gin.Context) {
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

	if invoice.Status != models.InvoiceStatusPaid {
		utils.RespondError(c, http.StatusConflict, errors.New("invoice is not finalized yet"))
		return
	}

	var worker, payer models.User
	if err := ic.DB.First(&worker, invoice.WorkerID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := ic.DB.First(&payer, invoice.PayerID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	documentNumber := fmt.Sprintf("INV/%s/%06d",
		invoice.SubmittedAt.Format("20060102"),
		invoice.ID)

	document := gin.H{
		"document_number": documentNumber,
		"issued_at":       time.Now(),
		"worker": gin.H{
			"id":   worker.ID,
			"name": worker.Name,
		},
		"payer": gin.H{
			"id":   payer.ID,
			"name": payer.Name,
		},
		"payment_type":  invoice.PaymentType,
		"hours_worked":  invoice.HoursWorked,
		"rate_per_hour": invoice.RatePerHour,
		"total_amount":  utils.FormatAmount(invoice.TotalAmount),
		"status":        invoice.Status,
		"submitted_at":  invoice.SubmittedAt,
		"paid_at":       invoice.PaidAt,
		"notes":         invoice.Notes,
	}

	if invoice.ShiftID != nil {
		var shift models.Shift
		if err := ic.DB.First(&shift, *invoice.ShiftID).Error; err == nil {
			document["shift"] = gin.H{
				"id":            shift.ID,
				"clock_in_at":   shift.ClockInAt,
				"clock_out_at":  shift.ClockOutAt,
				"break_minutes": shift.BreakMinutes,
			}
		}
	}

	utils.InfoLogger.Printf("Invoice document %s generated", documentNumber)
	utils.RespondJSON(c, http.StatusOK, "Invoice document", document)
}
