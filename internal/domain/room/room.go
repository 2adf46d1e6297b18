package room

import (
	"context"
	"errors"

	"frontdesk/internal/domain/shared/money"
)

var ErrRoomNotFound = errors.New("room: not found")

type RoomID string

// Room is an inventory unit. Available is the current-moment housekeeping
// flag, not a date-range answer; range availability is derived from
// bookings by the availability resolver.
type Room struct {
	ID           RoomID
	Number       string
	Type         string
	Rate         money.Money
	Available    bool
	MaxExtraBeds int
}

type Repository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	All(ctx context.Context) ([]*Room, error)
	Save(ctx context.Context, r *Room) error
}
