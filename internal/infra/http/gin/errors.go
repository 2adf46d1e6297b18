package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"frontdesk/internal/app/handlers/bookingops"
	"frontdesk/internal/domain/availability"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/guest"
	"frontdesk/internal/domain/payment"
	"frontdesk/internal/domain/room"
	"frontdesk/internal/domain/shared/daterange"
)

// writeError maps domain failures onto HTTP statuses. Transition refusals
// and the posted lock are conflicts, not bad requests: the payload was
// fine, the booking state was not.
func writeError(c *gin.Context, err error) {
	var transition *booking.TransitionError
	switch {
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error":  transition.Error(),
			"status": string(transition.Status),
			"action": string(transition.Action),
			"guard":  transition.Guard,
		})
	case errors.Is(err, booking.ErrBookingPosted),
		errors.Is(err, booking.ErrAlreadyComplimentary),
		errors.Is(err, bookingops.ErrRoomUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, room.ErrRoomNotFound),
		errors.Is(err, guest.ErrGuestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, daterange.ErrEmptyRange),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, booking.ErrInvalidCompRange),
		errors.Is(err, booking.ErrReasonRequired),
		errors.Is(err, payment.ErrInvalidPaymentStatus),
		errors.Is(err, payment.ErrNegativeAmount),
		isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, availability.ErrStaleAvailability):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
