package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/room"
	"frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/domain/shared/money"
)

func mustRange(t *testing.T, checkIn, checkOut string) daterange.DateRange {
	t.Helper()
	dr, err := daterange.Parse(checkIn, checkOut)
	require.NoError(t, err)
	return dr
}

func stay(roomID string, status booking.Status, checkIn, checkOut string) *booking.Booking {
	in, _ := daterange.ParseDate(checkIn)
	out, _ := daterange.ParseDate(checkOut)
	return &booking.Booking{
		ID:     booking.BookingID("bk-" + roomID),
		RoomID: roomID,
		Status: status,
		Range:  daterange.DateRange{CheckIn: in, CheckOut: out},
	}
}

func inventory() []*room.Room {
	return []*room.Room{
		{ID: "r-101", Number: "101", Type: "standard", Rate: money.Must(10000, "MYR"), Available: true},
		{ID: "r-102", Number: "102", Type: "deluxe", Rate: money.Must(15000, "MYR"), Available: true},
	}
}

func TestFilterAvailable(t *testing.T) {
	t.Run("overlapping confirmed booking blocks the room", func(t *testing.T) {
		bookings := []*booking.Booking{stay("r-101", booking.StatusConfirmed, "2024-02-01", "2024-02-05")}

		got, err := FilterAvailable(inventory(), bookings, mustRange(t, "2024-02-03", "2024-02-06"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, room.RoomID("r-102"), got[0].ID)
	})

	t.Run("back-to-back window is free", func(t *testing.T) {
		bookings := []*booking.Booking{stay("r-101", booking.StatusConfirmed, "2024-02-01", "2024-02-05")}

		got, err := FilterAvailable(inventory(), bookings, mustRange(t, "2024-02-05", "2024-02-10"))
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("cancelled variants do not block", func(t *testing.T) {
		for _, status := range []booking.Status{booking.StatusCancelled, booking.StatusCompCancelled, booking.StatusNoShow} {
			bookings := []*booking.Booking{stay("r-101", status, "2024-02-01", "2024-02-05")}
			got, err := FilterAvailable(inventory(), bookings, mustRange(t, "2024-02-02", "2024-02-04"))
			require.NoError(t, err)
			assert.Len(t, got, 2, "status %s should not block", status)
		}
	})

	t.Run("checked-in and unknown statuses block", func(t *testing.T) {
		for _, status := range []booking.Status{booking.StatusCheckedIn, booking.Status("mystery")} {
			bookings := []*booking.Booking{stay("r-101", status, "2024-02-01", "2024-02-05")}
			got, err := FilterAvailable(inventory(), bookings, mustRange(t, "2024-02-02", "2024-02-04"))
			require.NoError(t, err)
			assert.Len(t, got, 1, "status %s should block", status)
		}
	})

	t.Run("zero-length window rejected", func(t *testing.T) {
		window := daterange.DateRange{
			CheckIn:  daterange.Truncate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
			CheckOut: daterange.Truncate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		}
		_, err := FilterAvailable(inventory(), nil, window)
		assert.ErrorIs(t, err, daterange.ErrEmptyRange)
	})

	t.Run("same-day stay occupies a one-night block", func(t *testing.T) {
		sameDay := stay("r-101", booking.StatusConfirmed, "2024-02-03", "2024-02-03")
		sameDay.PostType = booking.PostSameDay

		got, err := FilterAvailable(inventory(), []*booking.Booking{sameDay}, mustRange(t, "2024-02-03", "2024-02-04"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, room.RoomID("r-102"), got[0].ID)
	})
}

type stubRooms struct {
	rooms []*room.Room
}

func (s stubRooms) ByID(ctx context.Context, id room.RoomID) (*room.Room, error) {
	return nil, room.ErrRoomNotFound
}
func (s stubRooms) All(ctx context.Context) ([]*room.Room, error) { return s.rooms, nil }
func (s stubRooms) Save(ctx context.Context, r *room.Room) error  { return nil }

type stubBookings struct {
	bookings []*booking.Booking
	err      error
}

func (s stubBookings) ByID(ctx context.Context, id booking.BookingID) (*booking.Booking, error) {
	return nil, booking.ErrBookingNotFound
}
func (s stubBookings) Save(ctx context.Context, b *booking.Booking) error { return nil }
func (s stubBookings) List(ctx context.Context, f booking.Filter) ([]*booking.Booking, error) {
	return s.bookings, s.err
}

func TestResolver(t *testing.T) {
	rooms := inventory()
	rooms[1].Available = false

	t.Run("normal mode uses booking overlap", func(t *testing.T) {
		r := Resolver{
			Rooms:    stubRooms{rooms: rooms},
			Bookings: stubBookings{bookings: []*booking.Booking{stay("r-101", booking.StatusConfirmed, "2024-02-01", "2024-02-05")}},
		}
		res, err := r.Resolve(context.Background(), mustRange(t, "2024-02-02", "2024-02-04"))
		require.NoError(t, err)
		assert.False(t, res.Degraded)
		require.Len(t, res.Rooms, 1)
		assert.Equal(t, room.RoomID("r-102"), res.Rooms[0].ID, "instantaneous flag ignored in normal mode")
	})

	t.Run("degraded mode falls back to the available flag", func(t *testing.T) {
		r := Resolver{
			Rooms:    stubRooms{rooms: rooms},
			Bookings: stubBookings{err: errors.New("read model unavailable")},
		}
		res, err := r.Resolve(context.Background(), mustRange(t, "2024-02-02", "2024-02-04"))
		require.NoError(t, err)
		assert.True(t, res.Degraded)
		require.Len(t, res.Rooms, 1)
		assert.Equal(t, room.RoomID("r-101"), res.Rooms[0].ID)
	})

	t.Run("strict mode refuses a degraded answer", func(t *testing.T) {
		r := Resolver{
			Rooms:    stubRooms{rooms: rooms},
			Bookings: stubBookings{err: errors.New("read model unavailable")},
			Strict:   true,
		}
		_, err := r.Resolve(context.Background(), mustRange(t, "2024-02-02", "2024-02-04"))
		assert.ErrorIs(t, err, ErrStaleAvailability)
	})
}
