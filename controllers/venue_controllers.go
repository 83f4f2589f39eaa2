package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gigbridge/gigwork-app/models"
	"github.com/gigbridge/gigwork-app/utils"
)

type VenueController struct {
	DB *gorm.DB
}

func NewVenueController(db *gorm.DB) *VenueController {
	return &VenueController{DB: db}
}

// GetAllVenues
func (vc *VenueController) GetAllVenues(c *gin.Context) {
	var venues []models.Venue
	if err := vc.DB.Find(&venues).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All venues", venues)
}

// GetVenueByID
func (vc *VenueController) GetVenueByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("venue_id"))

	var venue models.Venue
	if err := vc.DB.First(&venue, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Venue detail", venue)
}

// IssueQRToken -> mint a short-lived clock token for the venue. Workers scan
// the rendered code to clock in or out without picking the venue manually.
func (vc *VenueController) IssueQRToken(c *gin.Context) {
	actorID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	venueID, _ := strconv.Atoi(c.Param("venue_id"))

	var venue models.Venue
	if err := vc.DB.First(&venue, venueID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	// Only the venue's owner or an admin may mint its clock tokens.
	if venue.OwnerID != actorID && callerRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	type reqBody struct {
		TTLMinutes int `json:"ttl_minutes"`
	}
	var body reqBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	token, expiresAt, err := utils.GenerateQRToken(venue.ID, time.Duration(body.TTLMinutes)*time.Minute)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("QR token issued for venue %d, expires %s", venue.ID, expiresAt.Format(time.RFC3339))
	utils.RespondJSON(c, http.StatusCreated, "QR token issued", gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// GetEngagements -> the caller's engagements (clock-in targets)
func (vc *VenueController) GetEngagements(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var engagements []models.Engagement
	if err := vc.DB.Preload("Venue").
		Where("worker_id = ? OR payer_id = ?", userID, userID).
		Find(&engagements).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All engagements", engagements)
}
