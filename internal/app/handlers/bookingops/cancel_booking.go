package bookingops

import (
	"context"
	"fmt"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/guest"
	"frontdesk/internal/domain/room"
)

const CancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID string `json:"-" validate:"required"`
	Reason    string `json:"reason"`
}

func (CancelBookingCommand) Key() string { return CancelBookingKey }

type CancelBookingHandler struct {
	Deps
}

func (h CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (dto.Booking, error) {
	unit, owns, ctx, err := h.begin(ctx, uow.TxOptions{})
	if err != nil {
		return dto.Booking{}, err
	}
	result, err := h.cancel(ctx, unit, cmd)
	if err := h.finish(ctx, unit, owns, err); err != nil {
		return dto.Booking{}, err
	}
	return result, nil
}

func (h CancelBookingHandler) cancel(ctx context.Context, unit uow.UnitOfWork, cmd CancelBookingCommand) (dto.Booking, error) {
	b, err := unit.Bookings().ByID(ctx, booking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	if err := b.Cancel(cmd.Reason, h.now()); err != nil {
		return dto.Booking{}, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return dto.Booking{}, err
	}

	// Cancelling a complimentary stay refunds its free nights to the guest
	// as room-type credits for a future booking.
	if b.Status == booking.StatusCompCancelled && b.CompNights > 0 {
		roomType := ""
		if rm, err := unit.Rooms().ByID(ctx, room.RoomID(b.RoomID)); err == nil {
			roomType = rm.Type
		}
		notes := fmt.Sprintf("Refunded from cancelled booking %s", b.Number)
		if err := unit.Guests().AddCompCredits(ctx, guest.GuestID(b.GuestID), roomType, b.CompNights, notes); err != nil {
			return dto.Booking{}, err
		}
	}

	if err := h.drain(ctx, b); err != nil {
		return dto.Booking{}, err
	}
	return loadBookingDTO(ctx, unit, b), nil
}
