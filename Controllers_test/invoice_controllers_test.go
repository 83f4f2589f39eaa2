package Controllers_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/gigbridge/gigwork-app/controllers"
	"github.com/gigbridge/gigwork-app/models"
	"github.com/gigbridge/gigwork-app/services"
	"github.com/gigbridge/gigwork-app/utils"
)

func seedApprovedShiftRow(db *gorm.DB, w testWorld, hours float64) models.Shift {
	clockOut := time.Now()
	clockIn := clockOut.Add(-time.Duration(hours * float64(time.Hour)))
	engagementID := w.Engagement.ID
	shift := models.Shift{
		WorkerID:     w.Worker.ID,
		VenueID:      w.Venue.ID,
		EngagementID: &engagementID,
		ClockInAt:    clockIn,
		ClockOutAt:   &clockOut,
		Status:       models.ShiftStatusApproved,
	}
	db.Create(&shift)
	return shift
}

func setupInvoiceRouter(db *gorm.DB, w testWorld) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	invoiceCtrl := controllers.NewInvoiceController(db, services.NoopInitiator{})

	workerGroup := router.Group("/", asUser(w.Worker.ID, models.RoleWorker))
	workerGroup.POST("/invoices/from-shift", invoiceCtrl.CreateFromShift)
	workerGroup.POST("/invoices/manual", invoiceCtrl.CreateManual)
	workerGroup.GET("/invoices", invoiceCtrl.GetAllInvoices)

	payerGroup := router.Group("/payer", asUser(w.Payer.ID, models.RolePayer))
	payerGroup.POST("/invoices/:invoice_id/initiate-payment", invoiceCtrl.InitiatePayment)
	payerGroup.POST("/invoices/:invoice_id/mark-paid", invoiceCtrl.MarkPaid)
	payerGroup.GET("/invoices/:invoice_id", invoiceCtrl.GetInvoiceByID)
	payerGroup.GET("/invoices/:invoice_id/document", invoiceCtrl.GenerateDocument)

	return router
}

func TestInvoiceFromShiftAndMarkPaid(t *testing.T) {
	utils.InitLogger()
	db := openTestDB(t.Name())
	world := seedTestWorld(db)
	router := setupInvoiceRouter(db, world)

	shift := seedApprovedShiftRow(db, world, 4)

	// Worker bills the approved shift
	w := postJSON(router, "POST", "/invoices/from-shift", map[string]interface{}{
		"shift_id":      shift.ID,
		"rate_per_hour": 25.00,
		"notes":         "friday close",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &createResp)
	assert.NoError(t, err)
	assert.Equal(t, "Invoice created", createResp["message"])
	data := createResp["data"].(map[string]interface{})
	assert.Equal(t, models.InvoiceStatusPending, data["status"])
	assert.Equal(t, 100.0, data["total_amount"])
	invoiceID := int(data["id"].(float64))

	// Payer marks it paid
	url := "/payer/invoices/" + strconv.Itoa(invoiceID) + "/mark-paid"
	w = postJSON(router, "POST", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var paidResp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &paidResp)
	assert.NoError(t, err)
	assert.Equal(t, "Invoice paid", paidResp["message"])
	paidData := paidResp["data"].(map[string]interface{})
	assert.Equal(t, models.InvoiceStatusPaid, paidData["status"])
	firstPaidAt := paidData["paid_at"]

	// Retry returns the same record, still 200
	w = postJSON(router, "POST", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	err = json.Unmarshal(w.Body.Bytes(), &paidResp)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paidResp["data"].(map[string]interface{})["status"])
	assert.Equal(t, firstPaidAt, paidResp["data"].(map[string]interface{})["paid_at"])
}

func TestInvoiceFromUnapprovedShift(t *testing.T) {
	utils.InitLogger()
	db := openTestDB(t.Name())
	world := seedTestWorld(db)
	router := setupInvoiceRouter(db, world)

	shift := seedApprovedShiftRow(db, world, 4)
	db.Model(&models.Shift{}).Where("id = ?", shift.ID).
		Update("status", models.ShiftStatusSubmitted)

	w := postJSON(router, "POST", "/invoices/from-shift", map[string]interface{}{
		"shift_id":      shift.ID,
		"rate_per_hour": 25.00,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestInvoiceInitiatePaymentFlow(t *testing.T) {
	utils.InitLogger()
	db := openTestDB(t.Name())
	world := seedTestWorld(db)
	router := setupInvoiceRouter(db, world)

	shift := seedApprovedShiftRow(db, world, 2)
	w := postJSON(router, "POST", "/invoices/from-shift", map[string]interface{}{
		"shift_id":      shift.ID,
		"rate_per_hour": 30.00,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var createResp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &createResp)
	invoiceID := int(createResp["data"].(map[string]interface{})["id"].(float64))

	url := "/payer/invoices/" + strconv.Itoa(invoiceID) + "/initiate-payment"
	w = postJSON(router, "POST", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var initResp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &initResp)
	assert.NoError(t, err)
	initData := initResp["data"].(map[string]interface{})
	assert.Equal(t, models.InvoiceStatusProcessing, initData["status"])
	assert.NotEmpty(t, initData["payment_ref"])

	// Initiating twice conflicts
	w = postJSON(router, "POST", url, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestManualInvoiceEndpoint(t *testing.T) {
	utils.InitLogger()
	db := openTestDB(t.Name())
	world := seedTestWorld(db)
	router := setupInvoiceRouter(db, world)

	w := postJSON(router, "POST", "/invoices/manual", map[string]interface{}{
		"payer_id":    world.Payer.ID,
		"description": "equipment reimbursement",
		"amount":      42.50,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var createResp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &createResp)
	assert.NoError(t, err)
	data := createResp["data"].(map[string]interface{})
	assert.Equal(t, models.PaymentTypeFixed, data["payment_type"])
	assert.Equal(t, 42.5, data["total_amount"])

	// Zero amount is rejected
	w = postJSON(router, "POST", "/invoices/manual", map[string]interface{}{
		"payer_id":    world.Payer.ID,
		"description": "nothing",
		"amount":      0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceDocumentRequiresPayment(t *testing.T) {
	utils.InitLogger()
	db := openTestDB(t.Name())
	world := seedTestWorld(db)
	router := setupInvoiceRouter(db, world)

	shift := seedApprovedShiftRow(db, world, 3)
	w := postJSON(router, "POST", "/invoices/from-shift", map[string]interface{}{
		"shift_id":      shift.ID,
		"rate_per_hour": 20.00,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var createResp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &createResp)
	invoiceID := int(createResp["data"].(map[string]interface{})["id"].(float64))

	// No document before payment
	url := "/payer/invoices/" + strconv.Itoa(invoiceID) + "/document"
	w = postJSON(router, "GET", url, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	payURL := "/payer/invoices/" + strconv.Itoa(invoiceID) + "/mark-paid"
	w = postJSON(router, "POST", payURL, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(router, "GET", url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var docResp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &docResp)
	assert.NoError(t, err)
	doc := docResp["data"].(map[string]interface{})
	assert.Contains(t, doc["document_number"], "INV/")
	assert.Equal(t, "60.00", doc["total_amount"])
}
