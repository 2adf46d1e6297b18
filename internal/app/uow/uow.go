package uow

import (
	"context"

	domainbooking "frontdesk/internal/domain/booking"
	domainguest "frontdesk/internal/domain/guest"
	domainroom "frontdesk/internal/domain/room"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Bookings() domainbooking.Repository
	Rooms() domainroom.Repository
	Guests() domainguest.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
