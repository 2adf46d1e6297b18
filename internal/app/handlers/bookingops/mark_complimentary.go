package bookingops

import (
	"context"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/shared/daterange"
)

const MarkComplimentaryKey = "booking.mark_complimentary"

type MarkComplimentaryCommand struct {
	BookingID string `json:"-" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
	CheckIn   string `json:"check_in" validate:"required"`
	CheckOut  string `json:"check_out" validate:"required"`
}

func (MarkComplimentaryCommand) Key() string { return MarkComplimentaryKey }

type MarkComplimentaryResult struct {
	Status              string      `json:"status"`
	ComplimentaryNights int         `json:"complimentary_nights"`
	TotalNights         int         `json:"total_nights"`
	NewTotal            dto.Money   `json:"new_total_amount"`
	Booking             dto.Booking `json:"booking"`
}

type MarkComplimentaryHandler struct {
	Deps
}

func (h MarkComplimentaryHandler) Handle(ctx context.Context, cmd MarkComplimentaryCommand) (MarkComplimentaryResult, error) {
	compRange, err := daterange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return MarkComplimentaryResult{}, err
	}

	unit, owns, ctx, err := h.begin(ctx, uow.TxOptions{})
	if err != nil {
		return MarkComplimentaryResult{}, err
	}
	result, err := h.mark(ctx, unit, cmd, compRange)
	if err := h.finish(ctx, unit, owns, err); err != nil {
		return MarkComplimentaryResult{}, err
	}
	return result, nil
}

func (h MarkComplimentaryHandler) mark(ctx context.Context, unit uow.UnitOfWork, cmd MarkComplimentaryCommand, compRange daterange.DateRange) (MarkComplimentaryResult, error) {
	b, err := unit.Bookings().ByID(ctx, booking.BookingID(cmd.BookingID))
	if err != nil {
		return MarkComplimentaryResult{}, err
	}
	res, err := b.MarkComplimentary(cmd.Reason, compRange, h.now())
	if err != nil {
		return MarkComplimentaryResult{}, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return MarkComplimentaryResult{}, err
	}
	if err := h.drain(ctx, b); err != nil {
		return MarkComplimentaryResult{}, err
	}
	return MarkComplimentaryResult{
		Status:              string(res.Status),
		ComplimentaryNights: res.CompNights,
		TotalNights:         res.TotalNights,
		NewTotal:            dto.NewMoney(res.NewTotal),
		Booking:             loadBookingDTO(ctx, unit, b),
	}, nil
}
