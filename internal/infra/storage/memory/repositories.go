package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/guest"
	"frontdesk/internal/domain/room"
)

// BookingRepository stores bookings in memory. It backs the standalone
// mode and the application-layer tests.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[booking.BookingID]*booking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[booking.BookingID]*booking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id booking.BookingID) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return b, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version++
	r.items[b.ID] = b
	return nil
}

func (r *BookingRepository) List(ctx context.Context, filter booking.Filter) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*booking.Booking, 0, len(r.items))
	for _, b := range r.items {
		if filter.RoomID != "" && b.RoomID != filter.RoomID {
			continue
		}
		if filter.GuestID != "" && b.GuestID != filter.GuestID {
			continue
		}
		if len(filter.Statuses) > 0 && !statusIncluded(b.Status, filter.Statuses) {
			continue
		}
		if filter.Window != nil && !b.Range.Overlaps(*filter.Window) {
			continue
		}
		matches = append(matches, b)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Range.CheckIn.Equal(matches[j].Range.CheckIn) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].Range.CheckIn.Before(matches[j].Range.CheckIn)
	})
	return matches, nil
}

func statusIncluded(status booking.Status, allowed []booking.Status) bool {
	for _, candidate := range allowed {
		if status == candidate {
			return true
		}
	}
	return false
}

// RoomRepository keeps the room inventory in memory.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[room.RoomID]*room.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[room.RoomID]*room.Room)}
}

func (r *RoomRepository) ByID(ctx context.Context, id room.RoomID) (*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.items[id]
	if !ok {
		return nil, room.ErrRoomNotFound
	}
	return rm, nil
}

func (r *RoomRepository) All(ctx context.Context) ([]*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*room.Room, 0, len(r.items))
	for _, rm := range r.items {
		out = append(out, rm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *RoomRepository) Save(ctx context.Context, rm *room.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rm.ID] = rm
	return nil
}

// GuestRepository keeps guest profiles and their complimentary credits.
type GuestRepository struct {
	mu      sync.RWMutex
	items   map[guest.GuestID]*guest.Guest
	credits map[guest.GuestID][]guest.CompCredit
}

func NewGuestRepository() *GuestRepository {
	return &GuestRepository{
		items:   make(map[guest.GuestID]*guest.Guest),
		credits: make(map[guest.GuestID][]guest.CompCredit),
	}
}

func (r *GuestRepository) ByID(ctx context.Context, id guest.GuestID) (*guest.Guest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.items[id]
	if !ok {
		return nil, guest.ErrGuestNotFound
	}
	return g, nil
}

func (r *GuestRepository) Save(ctx context.Context, g *guest.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[g.ID] = g
	return nil
}

func (r *GuestRepository) AddCompCredits(ctx context.Context, id guest.GuestID, roomType string, nights int, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return guest.ErrGuestNotFound
	}
	r.credits[id] = append(r.credits[id], guest.CompCredit{
		GuestID:   id,
		RoomType:  roomType,
		Nights:    nights,
		Notes:     notes,
		UpdatedAt: time.Now().UTC(),
	})
	return nil
}

// CompCredits returns the accumulated credits for a guest.
func (r *GuestRepository) CompCredits(id guest.GuestID) []guest.CompCredit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]guest.CompCredit, len(r.credits[id]))
	copy(out, r.credits[id])
	return out
}
