package bookingops

import (
	"context"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/shared/daterange"
)

const UpdateBookingKey = "booking.update"

// UpdateBookingCommand is a partial edit. Absent fields stay untouched;
// the status changes only when the status field is present.
type UpdateBookingCommand struct {
	BookingID string  `json:"-" validate:"required"`
	RoomID    *string `json:"room_id,omitempty"`
	CheckIn   *string `json:"check_in,omitempty"`
	CheckOut  *string `json:"check_out,omitempty"`
	RoomRate  *int64  `json:"room_rate,omitempty"`
	RateCode  *string `json:"rate_code,omitempty"`
	PostType  *string `json:"post_type,omitempty"`
	Status    *string `json:"status,omitempty"`
	Remarks   *string `json:"remarks,omitempty"`
}

func (UpdateBookingCommand) Key() string { return UpdateBookingKey }

type UpdateBookingHandler struct {
	Deps
}

func (h UpdateBookingHandler) Handle(ctx context.Context, cmd UpdateBookingCommand) (dto.Booking, error) {
	unit, owns, ctx, err := h.begin(ctx, uow.TxOptions{})
	if err != nil {
		return dto.Booking{}, err
	}
	result, err := h.update(ctx, unit, cmd)
	if err := h.finish(ctx, unit, owns, err); err != nil {
		return dto.Booking{}, err
	}
	return result, nil
}

func (h UpdateBookingHandler) update(ctx context.Context, unit uow.UnitOfWork, cmd UpdateBookingCommand) (dto.Booking, error) {
	b, err := unit.Bookings().ByID(ctx, booking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}

	params, err := editParams(b, cmd)
	if err != nil {
		return dto.Booking{}, err
	}
	if err := b.Edit(params, h.now()); err != nil {
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

func editParams(b *booking.Booking, cmd UpdateBookingCommand) (booking.EditParams, error) {
	params := booking.EditParams{
		RoomID:   cmd.RoomID,
		RateCode: cmd.RateCode,
		Remarks:  cmd.Remarks,
	}
	if cmd.CheckIn != nil || cmd.CheckOut != nil {
		in := b.Range.CheckIn.Format(daterange.ISODate)
		out := b.Range.CheckOut.Format(daterange.ISODate)
		if cmd.CheckIn != nil {
			in = *cmd.CheckIn
		}
		if cmd.CheckOut != nil {
			out = *cmd.CheckOut
		}
		r, _, err := parseStay(in, out)
		if err != nil {
			return booking.EditParams{}, err
		}
		params.Range = &r
	}
	if cmd.RoomRate != nil {
		rate := b.RoomRate
		rate.Amount = *cmd.RoomRate
		params.RoomRate = &rate
	}
	if cmd.PostType != nil {
		pt := booking.PostType(*cmd.PostType)
		params.PostType = &pt
	}
	if cmd.Status != nil {
		st := booking.Status(*cmd.Status)
		params.Status = &st
	}
	return params, nil
}
