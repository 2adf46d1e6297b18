package guest

import (
	"context"
	"errors"
	"time"
)

var ErrGuestNotFound = errors.New("guest: not found")

type GuestID string

type Guest struct {
	ID         GuestID
	FullName   string
	Email      string
	Phone      string
	IDDocument string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UpdateParams carries optional profile changes collected at check-in.
type UpdateParams struct {
	FullName   *string
	Email      *string
	Phone      *string
	IDDocument *string
}

func (g *Guest) Apply(params UpdateParams, now time.Time) {
	if params.FullName != nil && *params.FullName != "" {
		g.FullName = *params.FullName
	}
	if params.Email != nil {
		g.Email = *params.Email
	}
	if params.Phone != nil {
		g.Phone = *params.Phone
	}
	if params.IDDocument != nil {
		g.IDDocument = *params.IDDocument
	}
	g.UpdatedAt = now.UTC()
}

// CompCredit tracks complimentary nights refunded to a guest for a room
// type, granted when a complimentary booking is cancelled.
type CompCredit struct {
	GuestID   GuestID
	RoomType  string
	Nights    int
	Notes     string
	UpdatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id GuestID) (*Guest, error)
	Save(ctx context.Context, g *Guest) error
	AddCompCredits(ctx context.Context, id GuestID, roomType string, nights int, notes string) error
}
