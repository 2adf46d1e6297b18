package bookingops_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/app/handlers/bookingops"
	appoutbox "frontdesk/internal/app/outbox"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/guest"
	"frontdesk/internal/domain/payment"
	"frontdesk/internal/domain/room"
	"frontdesk/internal/domain/shared/money"
	"frontdesk/internal/infra/storage/memory"
)

func paymentSettings() payment.Settings {
	return payment.Settings{
		Currency:        "MYR",
		RoomCardDeposit: money.Must(5000, "MYR"),
		ExtraBedCharge:  money.Must(8000, "MYR"),
		MaxExtraBeds:    2,
	}
}

type fixture struct {
	deps    bookingops.Deps
	rooms   *memory.RoomRepository
	guests  *memory.GuestRepository
	outbox  *memory.Outbox
	factory memory.Factory
}

func newFixture(t *testing.T, now time.Time) fixture {
	t.Helper()
	rooms := memory.NewRoomRepository()
	guests := memory.NewGuestRepository()
	factory := memory.Factory{
		BookingRepo: memory.NewBookingRepository(),
		RoomRepo:    rooms,
		GuestRepo:   guests,
	}
	box := memory.NewOutbox()
	deps := bookingops.Deps{
		Factory: factory,
		Outbox:  box,
		Encoder: appoutbox.JSONEventEncoder{},
		Now:     func() time.Time { return now },
	}

	ctx := context.Background()
	require.NoError(t, rooms.Save(ctx, &room.Room{
		ID:        "room-101",
		Number:    "101",
		Type:      "deluxe",
		Rate:      money.Must(10000, "MYR"),
		Available: true,
	}))
	require.NoError(t, guests.Save(ctx, &guest.Guest{ID: "guest-1", FullName: "Aina Rahman"}))
	return fixture{deps: deps, rooms: rooms, guests: guests, outbox: box, factory: factory}
}

func TestCreateBookingHandler(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("creates a confirmed booking with derived total", func(t *testing.T) {
		fx := newFixture(t, now)
		h := bookingops.CreateBookingHandler{Deps: fx.deps}

		got, err := h.Handle(ctx, bookingops.CreateBookingCommand{
			GuestID:   "guest-1",
			RoomID:    "room-101",
			CheckIn:   "2026-03-12",
			CheckOut:  "2026-03-15",
			Confirmed: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "confirmed", got.Status)
		assert.Equal(t, 3, got.Nights)
		assert.Equal(t, int64(30000), got.TotalAmount.Amount)
		assert.Equal(t, "normal_stay", got.PostType)
		assert.NotEmpty(t, got.Number)
		require.NotNil(t, got.Guest)
		assert.Equal(t, "Aina Rahman", got.Guest.FullName)
		assert.NotEmpty(t, fx.outbox.Pending())
	})

	t.Run("same-day stay books a single night", func(t *testing.T) {
		fx := newFixture(t, now)
		h := bookingops.CreateBookingHandler{Deps: fx.deps}

		got, err := h.Handle(ctx, bookingops.CreateBookingCommand{
			GuestID:  "guest-1",
			RoomID:   "room-101",
			CheckIn:  "2026-03-12",
			CheckOut: "2026-03-12",
		})
		require.NoError(t, err)
		assert.Equal(t, "same_day", got.PostType)
		assert.Equal(t, 1, got.Nights)
		assert.Equal(t, int64(10000), got.TotalAmount.Amount)
	})

	t.Run("rejects an overlapping stay for the same room", func(t *testing.T) {
		fx := newFixture(t, now)
		h := bookingops.CreateBookingHandler{Deps: fx.deps}

		_, err := h.Handle(ctx, bookingops.CreateBookingCommand{
			GuestID: "guest-1", RoomID: "room-101",
			CheckIn: "2026-03-12", CheckOut: "2026-03-15",
		})
		require.NoError(t, err)

		_, err = h.Handle(ctx, bookingops.CreateBookingCommand{
			GuestID: "guest-1", RoomID: "room-101",
			CheckIn: "2026-03-14", CheckOut: "2026-03-16",
		})
		assert.ErrorIs(t, err, bookingops.ErrRoomUnavailable)
	})

	t.Run("back-to-back stays do not collide", func(t *testing.T) {
		fx := newFixture(t, now)
		h := bookingops.CreateBookingHandler{Deps: fx.deps}

		_, err := h.Handle(ctx, bookingops.CreateBookingCommand{
			GuestID: "guest-1", RoomID: "room-101",
			CheckIn: "2026-03-12", CheckOut: "2026-03-15",
		})
		require.NoError(t, err)

		_, err = h.Handle(ctx, bookingops.CreateBookingCommand{
			GuestID: "guest-1", RoomID: "room-101",
			CheckIn: "2026-03-15", CheckOut: "2026-03-17",
		})
		assert.NoError(t, err)
	})

	t.Run("unknown room fails", func(t *testing.T) {
		fx := newFixture(t, now)
		h := bookingops.CreateBookingHandler{Deps: fx.deps}

		_, err := h.Handle(ctx, bookingops.CreateBookingCommand{
			GuestID: "guest-1", RoomID: "room-999",
			CheckIn: "2026-03-12", CheckOut: "2026-03-15",
		})
		assert.ErrorIs(t, err, room.ErrRoomNotFound)
	})
}

func createBooking(t *testing.T, fx fixture, checkIn, checkOut string) string {
	t.Helper()
	h := bookingops.CreateBookingHandler{Deps: fx.deps}
	got, err := h.Handle(context.Background(), bookingops.CreateBookingCommand{
		GuestID:   "guest-1",
		RoomID:    "room-101",
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Confirmed: true,
	})
	require.NoError(t, err)
	return got.ID
}

func TestCancelBookingHandler(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("cancel keeps the record with a default reason", func(t *testing.T) {
		fx := newFixture(t, now)
		id := createBooking(t, fx, "2026-03-12", "2026-03-15")

		h := bookingops.CancelBookingHandler{Deps: fx.deps}
		got, err := h.Handle(ctx, bookingops.CancelBookingCommand{BookingID: id})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", got.Status)
		assert.Equal(t, booking.DefaultCancelReason, got.CancelReason)
		assert.Empty(t, fx.guests.CompCredits("guest-1"))
	})

	t.Run("cancelling a complimentary stay refunds credits", func(t *testing.T) {
		fx := newFixture(t, now)
		id := createBooking(t, fx, "2026-03-12", "2026-03-15")

		comp := bookingops.MarkComplimentaryHandler{Deps: fx.deps}
		_, err := comp.Handle(ctx, bookingops.MarkComplimentaryCommand{
			BookingID: id,
			Reason:    "VIP stay",
			CheckIn:   "2026-03-12",
			CheckOut:  "2026-03-13",
		})
		require.NoError(t, err)

		h := bookingops.CancelBookingHandler{Deps: fx.deps}
		got, err := h.Handle(ctx, bookingops.CancelBookingCommand{BookingID: id, Reason: "guest request"})
		require.NoError(t, err)
		assert.Equal(t, "comp_cancelled", got.Status)

		credits := fx.guests.CompCredits("guest-1")
		require.Len(t, credits, 1)
		assert.Equal(t, "deluxe", credits[0].RoomType)
		assert.Equal(t, 1, credits[0].Nights)
	})
}

func TestMarkComplimentaryHandler(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	ctx := context.Background()
	fx := newFixture(t, now)
	id := createBooking(t, fx, "2026-03-12", "2026-03-15")

	h := bookingops.MarkComplimentaryHandler{Deps: fx.deps}
	got, err := h.Handle(ctx, bookingops.MarkComplimentaryCommand{
		BookingID: id,
		Reason:    "long-stay goodwill",
		CheckIn:   "2026-03-12",
		CheckOut:  "2026-03-13",
	})
	require.NoError(t, err)
	assert.Equal(t, "partially_complimentary", got.Status)
	assert.Equal(t, 1, got.ComplimentaryNights)
	assert.Equal(t, 3, got.TotalNights)
	assert.Equal(t, int64(20000), got.NewTotal.Amount)
	assert.True(t, got.Booking.IsComplimentary)

	_, err = h.Handle(ctx, bookingops.MarkComplimentaryCommand{
		BookingID: id,
		Reason:    "again",
		CheckIn:   "2026-03-13",
		CheckOut:  "2026-03-14",
	})
	assert.ErrorIs(t, err, booking.ErrAlreadyComplimentary)
}

func TestCheckInAndOutHandlers(t *testing.T) {
	now := time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("check-in applies guest corrections", func(t *testing.T) {
		fx := newFixture(t, now)
		id := createBooking(t, fx, "2026-03-12", "2026-03-15")

		phone := "+60123456789"
		h := bookingops.CheckInHandler{Deps: fx.deps}
		got, err := h.Handle(ctx, bookingops.CheckInCommand{
			BookingID:   id,
			GuestUpdate: &bookingops.GuestUpdate{Phone: &phone},
		})
		require.NoError(t, err)
		assert.Equal(t, "checked_in", got.Status)

		g, err := fx.guests.ByID(ctx, "guest-1")
		require.NoError(t, err)
		assert.Equal(t, phone, g.Phone)
	})

	t.Run("early arrival is refused", func(t *testing.T) {
		fx := newFixture(t, now)
		id := createBooking(t, fx, "2026-03-20", "2026-03-22")

		h := bookingops.CheckInHandler{Deps: fx.deps}
		_, err := h.Handle(ctx, bookingops.CheckInCommand{BookingID: id})
		var transition *booking.TransitionError
		require.ErrorAs(t, err, &transition)
		assert.Equal(t, booking.ActionCheckIn, transition.Action)
	})

	t.Run("check-out records the actual departure", func(t *testing.T) {
		fx := newFixture(t, now)
		id := createBooking(t, fx, "2026-03-12", "2026-03-15")

		in := bookingops.CheckInHandler{Deps: fx.deps}
		_, err := in.Handle(ctx, bookingops.CheckInCommand{BookingID: id})
		require.NoError(t, err)

		out := bookingops.CheckOutHandler{Deps: fx.deps}
		got, err := out.Handle(ctx, bookingops.CheckOutCommand{BookingID: id})
		require.NoError(t, err)
		assert.Equal(t, "checked_out", got.Status)
		assert.NotNil(t, got.ActualCheckOut)
	})
}

func TestNightAuditHandlers(t *testing.T) {
	now := time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)
	ctx := context.Background()
	fx := newFixture(t, now)
	id := createBooking(t, fx, "2026-03-12", "2026-03-15")

	in := bookingops.CheckInHandler{Deps: fx.deps}
	_, err := in.Handle(ctx, bookingops.CheckInCommand{BookingID: id})
	require.NoError(t, err)
	out := bookingops.CheckOutHandler{Deps: fx.deps}
	_, err = out.Handle(ctx, bookingops.CheckOutCommand{BookingID: id})
	require.NoError(t, err)

	audit := bookingops.PostNightAuditHandler{Deps: fx.deps}
	res, err := audit.Handle(ctx, bookingops.PostNightAuditCommand{BusinessDate: "2026-03-15"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.PostedCount)
	assert.Contains(t, res.BookingIDs, id)

	t.Run("posted bookings are locked", func(t *testing.T) {
		cancel := bookingops.CancelBookingHandler{Deps: fx.deps}
		_, err := cancel.Handle(ctx, bookingops.CancelBookingCommand{BookingID: id})
		assert.ErrorIs(t, err, booking.ErrBookingPosted)
	})

	t.Run("a second run posts nothing", func(t *testing.T) {
		res, err := audit.Handle(ctx, bookingops.PostNightAuditCommand{BusinessDate: "2026-03-15"})
		require.NoError(t, err)
		assert.Zero(t, res.PostedCount)
	})

	t.Run("unpost restores editability", func(t *testing.T) {
		unpost := bookingops.UnpostBookingHandler{Deps: fx.deps}
		got, err := unpost.Handle(ctx, bookingops.UnpostBookingCommand{BookingID: id})
		require.NoError(t, err)
		assert.False(t, got.IsPosted)
	})
}

func TestUpdatePaymentHandler(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	ctx := context.Background()
	fx := newFixture(t, now)
	id := createBooking(t, fx, "2026-03-12", "2026-03-15")

	settings := paymentSettings()
	h := bookingops.UpdatePaymentHandler{Deps: fx.deps, Settings: settings}

	paid := "paid"
	got, err := h.Handle(ctx, bookingops.UpdatePaymentCommand{
		BookingID:     id,
		PaymentStatus: &paid,
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", got.PaymentStatus)
	assert.True(t, got.DepositPaid)
	assert.Equal(t, settings.RoomCardDeposit.Amount, got.DepositAmount.Amount)

	t.Run("rate override recomputes the total", func(t *testing.T) {
		newRate := int64(12000)
		got, err := h.Handle(ctx, bookingops.UpdatePaymentCommand{
			BookingID: id,
			RoomRate:  &newRate,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(36000), got.TotalAmount.Amount)
	})
}

func TestListBookingsHandler(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	ctx := context.Background()
	fx := newFixture(t, now)
	createBooking(t, fx, "2026-03-12", "2026-03-15")
	createBooking(t, fx, "2026-03-20", "2026-03-22")

	h := bookingops.ListBookingsHandler{Deps: fx.deps}

	all, err := h.Handle(ctx, bookingops.ListBookingsQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	require.NotNil(t, all[0].Room)
	assert.Equal(t, "101", all[0].Room.Number)

	windowed, err := h.Handle(ctx, bookingops.ListBookingsQuery{CheckIn: "2026-03-14", CheckOut: "2026-03-16"})
	require.NoError(t, err)
	assert.Len(t, windowed, 1)
}
