package bookingops

import (
	"context"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/booking"
)

const CheckOutKey = "booking.check_out"

type CheckOutCommand struct {
	BookingID string `json:"-" validate:"required"`
}

func (CheckOutCommand) Key() string { return CheckOutKey }

type CheckOutHandler struct {
	Deps
}

func (h CheckOutHandler) Handle(ctx context.Context, cmd CheckOutCommand) (dto.Booking, error) {
	unit, owns, ctx, err := h.begin(ctx, uow.TxOptions{})
	if err != nil {
		return dto.Booking{}, err
	}
	result, err := h.checkOut(ctx, unit, cmd)
	if err := h.finish(ctx, unit, owns, err); err != nil {
		return dto.Booking{}, err
	}
	return result, nil
}

func (h CheckOutHandler) checkOut(ctx context.Context, unit uow.UnitOfWork, cmd CheckOutCommand) (dto.Booking, error) {
	b, err := unit.Bookings().ByID(ctx, booking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	if err := b.CheckOut(h.now()); err != nil {
		return dto.Booking{}, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return dto.Booking{}, err
	}
	if err := h.drain(ctx, b); err != nil {
		return dto.Booking{}, err
	}
	return loadBookingDTO(ctx, unit, b), nil
}
