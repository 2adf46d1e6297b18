package roomops

import (
	"context"
	"time"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/availability"
	"frontdesk/internal/domain/shared/daterange"
)

const AvailableRoomsKey = "room.available"

type AvailableRoomsQuery struct {
	CheckIn  string `form:"check_in" validate:"required"`
	CheckOut string `form:"check_out" validate:"required"`
	// Strict refuses a degraded answer instead of flagging it.
	Strict bool `form:"strict"`
}

func (AvailableRoomsQuery) Key() string { return AvailableRoomsKey }

type AvailableRoomsResult struct {
	Rooms    []dto.Room `json:"rooms"`
	Degraded bool       `json:"degraded"`
}

type AvailableRoomsHandler struct {
	Factory uow.UoWFactory
}

func (h AvailableRoomsHandler) Handle(ctx context.Context, q AvailableRoomsQuery) (AvailableRoomsResult, error) {
	in, err := daterange.ParseDate(q.CheckIn)
	if err != nil {
		return AvailableRoomsResult{}, err
	}
	out, err := daterange.ParseDate(q.CheckOut)
	if err != nil {
		return AvailableRoomsResult{}, err
	}
	// A same-day enquiry asks for one night of occupancy.
	if out.Equal(in) {
		out = in.Add(24 * time.Hour)
	}
	window, err := daterange.New(in, out)
	if err != nil {
		return AvailableRoomsResult{}, err
	}

	unit, owns, ctx, err := beginIfMissing(ctx, h.Factory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return AvailableRoomsResult{}, err
	}
	result, err := h.resolve(ctx, unit, window, q.Strict)
	if err := finish(ctx, unit, owns, err); err != nil {
		return AvailableRoomsResult{}, err
	}
	return result, nil
}

func (h AvailableRoomsHandler) resolve(ctx context.Context, unit uow.UnitOfWork, window daterange.DateRange, strict bool) (AvailableRoomsResult, error) {
	resolver := availability.Resolver{Rooms: unit.Rooms(), Bookings: unit.Bookings(), Strict: strict}
	res, err := resolver.Resolve(ctx, window)
	if err != nil {
		return AvailableRoomsResult{}, err
	}
	out := AvailableRoomsResult{Rooms: make([]dto.Room, 0, len(res.Rooms)), Degraded: res.Degraded}
	for _, rm := range res.Rooms {
		out.Rooms = append(out.Rooms, *dto.NewRoom(rm))
	}
	return out, nil
}
