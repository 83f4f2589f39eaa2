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

type ReviewController struct {
	DB      *gorm.DB
	Reviews *services.ReviewService
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{
		DB:      db,
		Reviews: services.NewReviewService(db),
	}
}

// CheckEligibility -> ?engagement_id=&recipient_id= for the caller
func (rc *ReviewController) CheckEligibility(c *gin.Context) {
	reviewerID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	engagementID, err := strconv.Atoi(c.Query("engagement_id"))
	if err != nil || engagementID <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("engagement_id is required"))
		return
	}

	eligibility, err := rc.Reviews.CheckEligibility(uint(engagementID), reviewerID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// recipient_id is optional; with it the response also answers whether a
	// new review may be submitted.
	if recipientID, err := strconv.Atoi(c.Query("recipient_id")); err == nil && recipientID > 0 {
		canReview, err := rc.Reviews.CanReview(uint(engagementID), reviewerID, uint(recipientID))
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		eligibility.CanReview = canReview
	}

	utils.RespondJSON(c, http.StatusOK, "Review eligibility", eligibility)
}

// SubmitReview -> one review per engagement per reviewer, gated on a paid
// invoice
func (rc *ReviewController) SubmitReview(c *gin.Context) {
	reviewerID, ok := callerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type reqBody struct {
		EngagementID  uint   `json:"engagement_id" binding:"required"`
		RecipientID   uint   `json:"recipient_id" binding:"required"`
		RecipientType string `json:"recipient_type" binding:"required"`
		Rating        int    `json:"rating" binding:"required"`
		Text          string `json:"text"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	review, err := rc.Reviews.SubmitReview(body.EngagementID, reviewerID, body.RecipientID,
		body.RecipientType, body.Rating, body.Text)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.InfoLogger.Printf("Review %d submitted for engagement %d by user %d",
		review.ID, review.EngagementID, reviewerID)
	utils.RespondJSON(c, http.StatusCreated, "Review submitted", review)
}

// GetReviewsForRecipient -> public read of a party's reviews
func (rc *ReviewController) GetReviewsForRecipient(c *gin.Context) {
	recipientID, _ := strconv.Atoi(c.Param("recipient_id"))

	var reviews []models.Review
	if err := rc.DB.
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reviews", reviews)
}
