package bookingops

import (
	"context"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/guest"
	"frontdesk/internal/domain/room"
	"frontdesk/internal/domain/shared/daterange"
)

const ListBookingsKey = "booking.list"

type ListBookingsQuery struct {
	RoomID   string   `form:"room_id"`
	GuestID  string   `form:"guest_id"`
	Statuses []string `form:"status"`
	CheckIn  string   `form:"check_in"`
	CheckOut string   `form:"check_out"`
}

func (ListBookingsQuery) Key() string { return ListBookingsKey }

type ListBookingsHandler struct {
	Deps
}

func (h ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) ([]dto.Booking, error) {
	filter := booking.Filter{RoomID: q.RoomID, GuestID: q.GuestID}
	for _, s := range q.Statuses {
		filter.Statuses = append(filter.Statuses, booking.Status(s))
	}
	if q.CheckIn != "" && q.CheckOut != "" {
		window, err := daterange.Parse(q.CheckIn, q.CheckOut)
		if err != nil {
			return nil, err
		}
		filter.Window = &window
	}

	unit, owns, ctx, err := h.begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	result, err := h.list(ctx, unit, filter)
	if err := h.finish(ctx, unit, owns, err); err != nil {
		return nil, err
	}
	return result, nil
}

func (h ListBookingsHandler) list(ctx context.Context, unit uow.UnitOfWork, filter booking.Filter) ([]dto.Booking, error) {
	bookings, err := unit.Bookings().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	guests := map[string]*guest.Guest{}
	rooms := map[string]*room.Room{}
	out := make([]dto.Booking, 0, len(bookings))
	for _, b := range bookings {
		g, seen := guests[b.GuestID]
		if !seen {
			g, _ = unit.Guests().ByID(ctx, guest.GuestID(b.GuestID))
			guests[b.GuestID] = g
		}
		rm, seen := rooms[b.RoomID]
		if !seen {
			rm, _ = unit.Rooms().ByID(ctx, room.RoomID(b.RoomID))
			rooms[b.RoomID] = rm
		}
		out = append(out, dto.NewBooking(b, g, rm))
	}
	return out, nil
}
