package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/handlers/bookingops"
	"frontdesk/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h BookingHandler) List(c *gin.Context) {
	var q bookingops.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := queries.Ask[bookingops.ListBookingsQuery, []dto.Booking](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": result})
}

func (h BookingHandler) Create(c *gin.Context) {
	var cmd bookingops.CreateBookingCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cmd.ClientRequestID == "" {
		cmd.ClientRequestID = c.GetHeader("Idempotency-Key")
	}
	result, err := commands.Dispatch[bookingops.CreateBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Update(c *gin.Context) {
	var cmd bookingops.UpdateBookingCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.BookingID = c.Param("id")
	result, err := commands.Dispatch[bookingops.UpdateBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	var cmd bookingops.CancelBookingCommand
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cmd.BookingID = c.Param("id")
	result, err := commands.Dispatch[bookingops.CancelBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) MarkComplimentary(c *gin.Context) {
	var cmd bookingops.MarkComplimentaryCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.BookingID = c.Param("id")
	result, err := commands.Dispatch[bookingops.MarkComplimentaryCommand, bookingops.MarkComplimentaryResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) CheckIn(c *gin.Context) {
	var cmd bookingops.CheckInCommand
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cmd.BookingID = c.Param("id")
	result, err := commands.Dispatch[bookingops.CheckInCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) CheckOut(c *gin.Context) {
	cmd := bookingops.CheckOutCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingops.CheckOutCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) UpdatePayment(c *gin.Context) {
	var cmd bookingops.UpdatePaymentCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd.BookingID = c.Param("id")
	result, err := commands.Dispatch[bookingops.UpdatePaymentCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Unpost(c *gin.Context) {
	cmd := bookingops.UnpostBookingCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingops.UnpostBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}
