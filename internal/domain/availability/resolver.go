package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/room"
	"frontdesk/internal/domain/shared/daterange"
)

// ErrStaleAvailability signals that a degraded-mode answer was computed
// from the rooms' instantaneous flags rather than booking overlap.
var ErrStaleAvailability = errors.New("availability: result may be stale")

// Result is the answer for a candidate stay window. Degraded marks a
// fallback computed without date-filtered bookings; callers should warn
// rather than silently proceed.
type Result struct {
	Rooms    []*room.Room
	Degraded bool
}

// nonBlocking statuses do not occupy inventory.
func nonBlocking(s booking.Status) bool {
	switch s {
	case booking.StatusCancelled, booking.StatusCompCancelled, booking.StatusNoShow:
		return true
	}
	return false
}

// occupiedRange normalizes a booking's stay for overlap purposes. Same-day
// stays occupy a minimum one-night block so they cannot be double-booked.
func occupiedRange(b *booking.Booking) daterange.DateRange {
	r := b.Range
	if !r.CheckOut.After(r.CheckIn) {
		r.CheckOut = r.CheckIn.Add(24 * time.Hour)
	}
	return r
}

// Blocks reports whether an existing booking makes its room unavailable
// for the candidate window (half-open interval overlap).
func Blocks(b *booking.Booking, window daterange.DateRange) bool {
	if nonBlocking(b.Status) {
		return false
	}
	return occupiedRange(b).Overlaps(window)
}

// FilterAvailable returns the rooms with no overlapping, non-cancelled
// booking for the window. It is a pure computation over the supplied
// snapshots.
func FilterAvailable(rooms []*room.Room, bookings []*booking.Booking, window daterange.DateRange) ([]*room.Room, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	blocked := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if Blocks(b, window) {
			blocked[b.RoomID] = true
		}
	}
	out := make([]*room.Room, 0, len(rooms))
	for _, r := range rooms {
		if !blocked[string(r.ID)] {
			out = append(out, r)
		}
	}
	return out, nil
}

// Resolver answers date-range availability from the booking read model,
// degrading to the rooms' current flags when bookings cannot be listed.
// Strict refuses the degraded answer and surfaces ErrStaleAvailability
// instead, for callers that would rather fail than risk a double booking.
type Resolver struct {
	Rooms    room.Repository
	Bookings booking.Repository
	Strict   bool
}

func (r Resolver) Resolve(ctx context.Context, window daterange.DateRange) (Result, error) {
	if err := window.Validate(); err != nil {
		return Result{}, err
	}
	rooms, err := r.Rooms.All(ctx)
	if err != nil {
		return Result{}, err
	}
	bookings, err := r.Bookings.List(ctx, booking.Filter{Window: &window})
	if err != nil {
		if r.Strict {
			return Result{}, fmt.Errorf("%w: %v", ErrStaleAvailability, err)
		}
		// Degraded mode: the read model cannot answer for the window, so
		// fall back to the instantaneous flag instead of failing the query.
		out := make([]*room.Room, 0, len(rooms))
		for _, rm := range rooms {
			if rm.Available {
				out = append(out, rm)
			}
		}
		return Result{Rooms: out, Degraded: true}, nil
	}
	available, err := FilterAvailable(rooms, bookings, window)
	if err != nil {
		return Result{}, err
	}
	return Result{Rooms: available}, nil
}
