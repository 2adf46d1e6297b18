package bookingops

import (
	"context"
	"time"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/shared/daterange"
)

const (
	PostNightAuditKey = "booking.post_night_audit"
	UnpostBookingKey  = "booking.unpost"
)

// PostNightAuditCommand sweeps checked-out bookings for a business date
// into the posted (locked) state. BusinessDate defaults to today.
type PostNightAuditCommand struct {
	BusinessDate string `json:"business_date,omitempty"`
}

func (PostNightAuditCommand) Key() string { return PostNightAuditKey }

type PostNightAuditResult struct {
	BusinessDate string   `json:"business_date"`
	PostedCount  int      `json:"posted_count"`
	BookingIDs   []string `json:"booking_ids"`
}

type PostNightAuditHandler struct {
	Deps
}

func (h PostNightAuditHandler) Handle(ctx context.Context, cmd PostNightAuditCommand) (PostNightAuditResult, error) {
	now := h.now()
	businessDate := daterange.Truncate(now)
	if cmd.BusinessDate != "" {
		parsed, err := daterange.ParseDate(cmd.BusinessDate)
		if err != nil {
			return PostNightAuditResult{}, err
		}
		businessDate = parsed
	}

	unit, owns, ctx, err := h.begin(ctx, uow.TxOptions{})
	if err != nil {
		return PostNightAuditResult{}, err
	}
	result, err := h.post(ctx, unit, businessDate, now)
	if err := h.finish(ctx, unit, owns, err); err != nil {
		return PostNightAuditResult{}, err
	}
	return result, nil
}

func (h PostNightAuditHandler) post(ctx context.Context, unit uow.UnitOfWork, businessDate, now time.Time) (PostNightAuditResult, error) {
	candidates, err := unit.Bookings().List(ctx, booking.Filter{
		Statuses: []booking.Status{booking.StatusCheckedOut},
	})
	if err != nil {
		return PostNightAuditResult{}, err
	}

	result := PostNightAuditResult{
		BusinessDate: businessDate.Format(daterange.ISODate),
		BookingIDs:   []string{},
	}
	for _, b := range candidates {
		if b.Posted || departureDate(b).After(businessDate) {
			continue
		}
		if err := b.Post(now); err != nil {
			return PostNightAuditResult{}, err
		}
		if err := unit.Bookings().Save(ctx, b); err != nil {
			return PostNightAuditResult{}, err
		}
		if err := h.drain(ctx, b); err != nil {
			return PostNightAuditResult{}, err
		}
		result.PostedCount++
		result.BookingIDs = append(result.BookingIDs, string(b.ID))
	}
	return result, nil
}

// departureDate is the calendar day the stay ended: the actual check-out
// when recorded, otherwise the booked one.
func departureDate(b *booking.Booking) time.Time {
	if b.ActualCheckOut != nil {
		return daterange.Truncate(*b.ActualCheckOut)
	}
	return daterange.Truncate(b.Range.CheckOut)
}

type UnpostBookingCommand struct {
	BookingID string `json:"-" validate:"required"`
}

func (UnpostBookingCommand) Key() string { return UnpostBookingKey }

type UnpostBookingHandler struct {
	Deps
}

func (h UnpostBookingHandler) Handle(ctx context.Context, cmd UnpostBookingCommand) (dto.Booking, error) {
	unit, owns, ctx, err := h.begin(ctx, uow.TxOptions{})
	if err != nil {
		return dto.Booking{}, err
	}
	result, err := h.unpost(ctx, unit, cmd)
	if err := h.finish(ctx, unit, owns, err); err != nil {
		return dto.Booking{}, err
	}
	return result, nil
}

func (h UnpostBookingHandler) unpost(ctx context.Context, unit uow.UnitOfWork, cmd UnpostBookingCommand) (dto.Booking, error) {
	b, err := unit.Bookings().ByID(ctx, booking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	b.Unpost(h.now())
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return dto.Booking{}, err
	}
	if err := h.drain(ctx, b); err != nil {
		return dto.Booking{}, err
	}
	return loadBookingDTO(ctx, unit, b), nil
}
