package bookingops

import (
	"context"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/guest"
)

const CheckInKey = "booking.check_in"

// GuestUpdate carries profile corrections collected at the desk.
type GuestUpdate struct {
	FullName   *string `json:"full_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	IDDocument *string `json:"id_document,omitempty"`
}

type CheckInCommand struct {
	BookingID     string                `json:"-" validate:"required"`
	GuestUpdate   *GuestUpdate          `json:"guest_update,omitempty"`
	BookingUpdate *UpdateBookingCommand `json:"booking_update,omitempty"`
}

func (CheckInCommand) Key() string { return CheckInKey }

type CheckInHandler struct {
	Deps
}

func (h CheckInHandler) Handle(ctx context.Context, cmd CheckInCommand) (dto.Booking, error) {
	unit, owns, ctx, err := h.begin(ctx, uow.TxOptions{})
	if err != nil {
		return dto.Booking{}, err
	}
	result, err := h.checkIn(ctx, unit, cmd)
	if err := h.finish(ctx, unit, owns, err); err != nil {
		return dto.Booking{}, err
	}
	return result, nil
}

func (h CheckInHandler) checkIn(ctx context.Context, unit uow.UnitOfWork, cmd CheckInCommand) (dto.Booking, error) {
	b, err := unit.Bookings().ByID(ctx, booking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	now := h.now()

	if cmd.GuestUpdate != nil {
		g, err := unit.Guests().ByID(ctx, guest.GuestID(b.GuestID))
		if err != nil {
			return dto.Booking{}, err
		}
		g.Apply(guest.UpdateParams{
			FullName:   cmd.GuestUpdate.FullName,
			Email:      cmd.GuestUpdate.Email,
			Phone:      cmd.GuestUpdate.Phone,
			IDDocument: cmd.GuestUpdate.IDDocument,
		}, now)
		if err := unit.Guests().Save(ctx, g); err != nil {
			return dto.Booking{}, err
		}
	}

	// Last-minute stay corrections apply before the transition so its
	// guards see the final dates and rate.
	if cmd.BookingUpdate != nil {
		params, err := editParams(b, *cmd.BookingUpdate)
		if err != nil {
			return dto.Booking{}, err
		}
		if err := b.Edit(params, now); err != nil {
			return dto.Booking{}, err
		}
	}

	if err := b.CheckIn(now); err != nil {
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
