package services

import (
	"gorm.io/gorm"

	"github.com/gigbridge/gigwork-app/models"
)

// ReviewService gates review submission behind a completed, paid transaction
// on the same engagement and enforces one review per (engagement, reviewer).
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Eligibility is the review state for one (engagement, reviewer) pair.
type Eligibility struct {
	Exists    bool `json:"exists"`
	CanReview bool `json:"can_review"`
}

// CheckEligibility reports whether the reviewer has already reviewed this
// engagement.
func (s *ReviewService) CheckEligibility(engagementID, reviewerID uint) (*Eligibility, error) {
	var count int64
	err := s.db.Model(&models.Review{}).
		Where("engagement_id = ? AND reviewer_id = ?", engagementID, reviewerID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	return &Eligibility{Exists: count > 0}, nil
}

// CanReview is true iff no review exists for the pair yet and a paid invoice
// on this exact engagement links reviewer and recipient. A paid invoice
// between the same two parties on a different engagement does not qualify.
func (s *ReviewService) CanReview(engagementID, reviewerID, recipientID uint) (bool, error) {
	eligibility, err := s.CheckEligibility(engagementID, reviewerID)
	if err != nil {
		return false, err
	}
	if eligibility.Exists {
		return false, nil
	}
	return s.hasPaidInvoice(engagementID, reviewerID, recipientID)
}

// SubmitReview creates the review once eligibility holds. The duplicate check
// is not trusted on its own: the insert runs into the (engagement_id,
// reviewer_id) unique index, so racing submissions still produce exactly one
// review.
func (s *ReviewService) SubmitReview(engagementID, reviewerID, recipientID uint, recipientType string, rating int, text string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if recipientType != models.RecipientTypeWorker && recipientType != models.RecipientTypeVenue {
		return nil, ErrInvalidTarget
	}

	eligibility, err := s.CheckEligibility(engagementID, reviewerID)
	if err != nil {
		return nil, err
	}
	if eligibility.Exists {
		return nil, ErrReviewExists
	}

	paid, err := s.hasPaidInvoice(engagementID, reviewerID, recipientID)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, ErrReviewForbidden
	}

	review := models.Review{
		EngagementID:  engagementID,
		ReviewerID:    reviewerID,
		RecipientID:   recipientID,
		RecipientType: recipientType,
		Rating:        rating,
		Text:          text,
	}
	if err := s.db.Create(&review).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrReviewExists
		}
		return nil, err
	}
	return &review, nil
}

// hasPaidInvoice checks for a paid invoice on the engagement with reviewer
// and recipient on opposite sides. The recipient is always a user account:
// the worker, or the paying party behind the venue. RecipientType only labels
// where the review is displayed.
func (s *ReviewService) hasPaidInvoice(engagementID, reviewerID, recipientID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Invoice{}).
		Where("engagement_id = ? AND status = ?", engagementID, models.InvoiceStatusPaid).
		Where("(worker_id = ? AND payer_id = ?) OR (payer_id = ? AND worker_id = ?)",
			reviewerID, recipientID, reviewerID, recipientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
