package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigbridge/gigwork-app/services"
	"github.com/gigbridge/gigwork-app/utils"
)

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var ErrNoPermission = &CustomError{"You do not have permission"}

// statusFor maps service errors onto HTTP status codes: validation 400,
// expired/invalid tokens 401, authorization 403, not found 404, state
// conflicts 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrMissingRate),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrInvalidBreak),
		errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrInvalidAmount):
		return http.StatusBadRequest

	case errors.Is(err, utils.ErrQRTokenInvalid),
		errors.Is(err, utils.ErrQRTokenExpired):
		return http.StatusUnauthorized

	case errors.Is(err, services.ErrNotShiftOwner),
		errors.Is(err, services.ErrNotPayer),
		errors.Is(err, services.ErrUnauthorizedVenue),
		errors.Is(err, services.ErrReviewForbidden):
		return http.StatusForbidden

	case errors.Is(err, services.ErrShiftNotFound),
		errors.Is(err, services.ErrInvoiceNotFound),
		errors.Is(err, services.ErrVenueNotFound),
		errors.Is(err, services.ErrEngagementNotFound),
		errors.Is(err, services.ErrPayerNotFound):
		return http.StatusNotFound

	case errors.Is(err, services.ErrAlreadyClockedIn),
		errors.Is(err, services.ErrAlreadyClosed),
		errors.Is(err, services.ErrShiftNotBillable),
		errors.Is(err, services.ErrVenueMismatch),
		errors.Is(err, services.ErrReviewExists),
		errors.Is(err, services.ErrInvalidStatus):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// callerID pulls the authenticated user id that the auth middleware stored in
// the context.
func callerID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// callerRole pulls the authenticated role from the context.
func callerRole(c *gin.Context) string {
	value, _ := c.Get("role")
	role, _ := value.(string)
	return role
}
