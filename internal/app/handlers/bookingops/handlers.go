package bookingops

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/outbox"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/guest"
	"frontdesk/internal/domain/room"
	"frontdesk/internal/domain/shared/daterange"
)

var ErrRoomUnavailable = errors.New("bookingops: room is not available for the requested dates")

// Deps are the collaborators shared by every booking lifecycle handler.
// Handlers run inside the unit of work injected by the transaction
// middleware; when dispatched without one (tests, workers) they open and
// commit their own.
type Deps struct {
	Factory uow.UoWFactory
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

func (d Deps) begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, bool, context.Context, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, false, ctx, nil
	}
	unit, err := d.Factory.Begin(ctx, opts)
	if err != nil {
		return nil, false, ctx, err
	}
	return unit, true, uow.ContextWithUnitOfWork(ctx, unit), nil
}

func (d Deps) finish(ctx context.Context, unit uow.UnitOfWork, owns bool, err error) error {
	if !owns {
		return err
	}
	if err != nil {
		_ = unit.Rollback(ctx)
		return err
	}
	return unit.Commit(ctx)
}

// drain moves the aggregate's pending events into the outbox within the
// same unit of work.
func (d Deps) drain(ctx context.Context, b *booking.Booking) error {
	evs := b.PendingEvents()
	b.ClearEvents()
	return outbox.RecordDomainEvents(ctx, d.Outbox, d.Encoder, evs)
}

// loadBookingDTO hydrates the response view with guest and room details.
// Lookups failing here do not fail the command; the ids are still present.
func loadBookingDTO(ctx context.Context, unit uow.UnitOfWork, b *booking.Booking) dto.Booking {
	g, err := unit.Guests().ByID(ctx, guest.GuestID(b.GuestID))
	if err != nil {
		g = nil
	}
	rm, err := unit.Rooms().ByID(ctx, room.RoomID(b.RoomID))
	if err != nil {
		rm = nil
	}
	return dto.NewBooking(b, g, rm)
}

// newBookingNumber allocates the human-facing reference, e.g. BK-20260828-3F7A2C.
func newBookingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("BK-%s-%s", now.UTC().Format("20060102"), suffix)
}

// parseStay normalizes the wire dates. Equal dates describe a same-day
// stay, which occupies a single-night block.
func parseStay(checkIn, checkOut string) (daterange.DateRange, booking.PostType, error) {
	in, err := daterange.ParseDate(checkIn)
	if err != nil {
		return daterange.DateRange{}, "", err
	}
	out, err := daterange.ParseDate(checkOut)
	if err != nil {
		return daterange.DateRange{}, "", err
	}
	postType := booking.PostNormalStay
	if out.Equal(in) {
		postType = booking.PostSameDay
		out = in.Add(24 * time.Hour)
	}
	r, err := daterange.New(in, out)
	if err != nil {
		return daterange.DateRange{}, "", err
	}
	return r, postType, nil
}
