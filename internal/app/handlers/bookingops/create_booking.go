package bookingops

import (
	"context"

	"github.com/google/uuid"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/availability"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/guest"
	"frontdesk/internal/domain/room"
	"frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/domain/shared/money"
)

const CreateBookingKey = "booking.create"

type CreateBookingCommand struct {
	GuestID  string `json:"guest_id" validate:"required"`
	RoomID   string `json:"room_id" validate:"required"`
	CheckIn  string `json:"check_in" validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
	RateCode string `json:"rate_code"`
	// RoomRate overrides the room's nightly rate, in minor units.
	RoomRate  *int64 `json:"room_rate,omitempty"`
	Confirmed bool   `json:"confirmed"`

	ClientRequestID string `json:"client_request_id,omitempty"`
}

func (CreateBookingCommand) Key() string { return CreateBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.ClientRequestID }

type CreateBookingHandler struct {
	Deps
}

func (h CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (dto.Booking, error) {
	stay, postType, err := parseStay(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return dto.Booking{}, err
	}

	unit, owns, ctx, err := h.begin(ctx, uow.TxOptions{})
	if err != nil {
		return dto.Booking{}, err
	}
	result, err := h.create(ctx, unit, cmd, stay, postType)
	if err := h.finish(ctx, unit, owns, err); err != nil {
		return dto.Booking{}, err
	}
	return result, nil
}

func (h CreateBookingHandler) create(ctx context.Context, unit uow.UnitOfWork, cmd CreateBookingCommand, stay daterange.DateRange, postType booking.PostType) (dto.Booking, error) {
	rm, err := unit.Rooms().ByID(ctx, room.RoomID(cmd.RoomID))
	if err != nil {
		return dto.Booking{}, err
	}
	g, err := unit.Guests().ByID(ctx, guest.GuestID(cmd.GuestID))
	if err != nil {
		return dto.Booking{}, err
	}

	existing, err := unit.Bookings().List(ctx, booking.Filter{RoomID: cmd.RoomID, Window: &stay})
	if err != nil {
		return dto.Booking{}, err
	}
	for _, other := range existing {
		if availability.Blocks(other, stay) {
			return dto.Booking{}, ErrRoomUnavailable
		}
	}

	rate := rm.Rate
	if cmd.RoomRate != nil {
		rate = money.Money{Amount: *cmd.RoomRate, Currency: rm.Rate.Currency}
	}

	now := h.now()
	b, err := booking.NewBooking(booking.CreateParams{
		ID:        booking.BookingID(uuid.NewString()),
		Number:    newBookingNumber(now),
		GuestID:   cmd.GuestID,
		RoomID:    cmd.RoomID,
		Range:     stay,
		RoomRate:  rate,
		RateCode:  cmd.RateCode,
		PostType:  postType,
		Confirmed: cmd.Confirmed,
		CreatedAt: now,
	})
	if err != nil {
		return dto.Booking{}, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return dto.Booking{}, err
	}
	if err := h.drain(ctx, b); err != nil {
		return dto.Booking{}, err
	}
	return dto.NewBooking(b, g, rm), nil
}
