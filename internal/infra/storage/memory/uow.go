package memory

import (
	"context"
	"errors"

	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/guest"
	"frontdesk/internal/domain/room"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	BookingRepo booking.Repository
	RoomRepo    room.Repository
	GuestRepo   guest.Repository
}

// NewFactory builds a factory over fresh in-memory stores.
func NewFactory() Factory {
	return Factory{
		BookingRepo: NewBookingRepository(),
		RoomRepo:    NewRoomRepository(),
		GuestRepo:   NewGuestRepository(),
	}
}

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.BookingRepo == nil || f.RoomRepo == nil || f.GuestRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{bookings: f.BookingRepo, rooms: f.RoomRepo, guests: f.GuestRepo}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	bookings booking.Repository
	rooms    room.Repository
	guests   guest.Repository
}

func (u *Unit) Bookings() booking.Repository { return u.bookings }

func (u *Unit) Rooms() room.Repository { return u.rooms }

func (u *Unit) Guests() guest.Repository { return u.guests }

func (u *Unit) Commit(ctx context.Context) error { return nil }

func (u *Unit) Rollback(ctx context.Context) error { return nil }
