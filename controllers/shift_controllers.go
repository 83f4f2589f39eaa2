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

type ShiftController struct {
	DB      *gorm.DB
	Shifts  *services.ShiftService
	QRClock *services.QRClockService
}

func NewShiftController(db *gorm.DB) *ShiftController {
	shifts := services.NewShiftService(db)
	return &ShiftController{
		DB:      db,
		Shifts:  shifts,
		QRClock: services.NewQRClockService(db, shifts),
	}
}

// ClockIn -> open a shift against an engagement or a staffed venue
func (sc *ShiftController) ClockIn(c *gin.Context) {
	workerID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type reqBody struct {
		EngagementID *uint `json:"engagement_id"`
		VenueID      *uint `json:"venue_id"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var target services.ClockTarget
	switch {
	case body.EngagementID != nil:
		target = services.EngagementTarget(*body.EngagementID)
	case body.VenueID != nil:
		target = services.StaffTarget(*body.VenueID)
	default:
		utils.RespondError(c, http.StatusBadRequest, services.ErrInvalidTarget)
		return
	}

	shift, err := sc.Shifts.ClockIn(workerID, target)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.InfoLogger.Printf("Worker %d clocked in at venue %d (shift=%d)", workerID, shift.VenueID, shift.ID)
	utils.RespondJSON(c, http.StatusCreated, "Clocked in", shift)
}

// ClockOut -> close the caller's shift and submit it for approval
func (sc *ShiftController) ClockOut(c *gin.Context) {
	workerID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	shiftID, _ := strconv.Atoi(c.Param("shift_id"))

	type reqBody struct {
		BreakMinutes int    `json:"break_minutes"`
		WorkerNote   string `json:"worker_note"`
	}
	var body reqBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	shift, err := sc.Shifts.ClockOut(uint(shiftID), workerID, body.BreakMinutes, body.WorkerNote)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.InfoLogger.Printf("Worker %d clocked out (shift=%d)", workerID, shift.ID)
	utils.RespondJSON(c, http.StatusOK, "Clocked out", shift)
}

// QRClockAction -> scanned venue token decides clock-in vs clock-out
func (sc *ShiftController) QRClockAction(c *gin.Context) {
	workerID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type reqBody struct {
		Token string `json:"token" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := sc.QRClock.Clock(workerID, body.Token)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.InfoLogger.Printf("QR %s for worker %d at venue %d", result.Action, workerID, result.VenueID)
	utils.RespondJSON(c, http.StatusOK, "QR clock action applied", result)
}

// GetOpenShift -> the caller's open shift, or null when off the clock
func (sc *ShiftController) GetOpenShift(c *gin.Context) {
	workerID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	shift, err := sc.Shifts.GetOpenShift(workerID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if shift == nil {
		utils.RespondJSON(c, http.StatusOK, "No open shift", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Open shift", shift)
}

// GetAllShifts -> the caller's shift history
func (sc *ShiftController) GetAllShifts(c *gin.Context) {
	workerID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	shifts, err := sc.Shifts.ListShifts(workerID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All shifts", shifts)
}

// Decide -> the approval workflow marks a submitted shift approved, disputed
// or void
func (sc *ShiftController) Decide(c *gin.Context) {
	actorID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	role := callerRole(c)
	if role != models.RolePayer && role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	shiftID, _ := strconv.Atoi(c.Param("shift_id"))

	type reqBody struct {
		Status    string `json:"status" binding:"required"`
		VenueNote string `json:"venue_note"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	shift, err := sc.Shifts.Adjudicate(uint(shiftID), actorID, role, body.Status, body.VenueNote)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.InfoLogger.Printf("Shift %d adjudicated as %s by user %d", shift.ID, shift.Status, actorID)
	utils.RespondJSON(c, http.StatusOK, "Shift decision recorded", shift)
}
