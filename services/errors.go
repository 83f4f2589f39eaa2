package services

import "errors"

// Sentinel errors for the shift and invoicing engine. Controllers check these
// with errors.Is and translate them to HTTP status codes; services never
// retry or swallow them.
var (
	// Validation
	ErrMissingRate   = errors.New("hourly rate is required")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidBreak  = errors.New("break exceeds shift duration")
	ErrInvalidTarget = errors.New("clock-in target could not be resolved")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidStatus = errors.New("invalid status for this transition")

	// State conflicts
	ErrAlreadyClockedIn = errors.New("worker already has an open shift")
	ErrAlreadyClosed    = errors.New("shift is already closed")
	ErrShiftNotBillable = errors.New("only approved shifts can be invoiced")
	ErrVenueMismatch    = errors.New("open shift belongs to a different venue")
	ErrReviewExists     = errors.New("review already submitted for this engagement")

	// Authorization
	ErrNotShiftOwner     = errors.New("shift belongs to another worker")
	ErrNotPayer          = errors.New("only the payer can perform this action")
	ErrUnauthorizedVenue = errors.New("worker is not authorized at this venue")
	ErrReviewForbidden   = errors.New("no paid invoice backs this engagement")

	// Not found
	ErrShiftNotFound      = errors.New("shift not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrVenueNotFound      = errors.New("venue not found")
	ErrEngagementNotFound = errors.New("engagement not found")
	ErrPayerNotFound      = errors.New("payer account not found")
)
