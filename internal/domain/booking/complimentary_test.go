package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/domain/shared/daterange"
)

func compRange(t *testing.T, start, end string) daterange.DateRange {
	t.Helper()
	r, err := daterange.Parse(start, end)
	require.NoError(t, err)
	return r
}

func TestMarkComplimentary(t *testing.T) {
	now := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)

	t.Run("one free night of three prorates the total", func(t *testing.T) {
		b := fixtureBooking(t, "2024-02-01", "2024-02-04") // 3 nights, 300.00 total
		res, err := b.MarkComplimentary("Manager goodwill", compRange(t, "2024-02-01", "2024-02-02"), now)
		require.NoError(t, err)

		assert.Equal(t, PartiallyComplimentary, res.Status)
		assert.Equal(t, 1, res.CompNights)
		assert.Equal(t, 3, res.TotalNights)
		assert.Equal(t, int64(20000), res.NewTotal.Amount)

		assert.True(t, b.IsComplimentary)
		assert.Equal(t, int64(30000), b.OriginalTotal.Amount, "pre-discount baseline preserved")
		assert.Equal(t, int64(20000), b.TotalAmount.Amount)
		assert.Equal(t, PaymentPartial, b.PaymentStatus)
	})

	t.Run("all nights free is fully complimentary", func(t *testing.T) {
		b := fixtureBooking(t, "2024-02-01", "2024-02-04")
		res, err := b.MarkComplimentary("Owner stay", compRange(t, "2024-02-01", "2024-02-04"), now)
		require.NoError(t, err)

		assert.Equal(t, FullyComplimentary, res.Status)
		assert.Equal(t, int64(0), res.NewTotal.Amount)
		assert.Equal(t, PaymentPaid, b.PaymentStatus)
	})

	t.Run("second marking fails until cleared", func(t *testing.T) {
		b := fixtureBooking(t, "2024-02-01", "2024-02-04")
		_, err := b.MarkComplimentary("first", compRange(t, "2024-02-01", "2024-02-02"), now)
		require.NoError(t, err)

		_, err = b.MarkComplimentary("second", compRange(t, "2024-02-02", "2024-02-03"), now)
		assert.ErrorIs(t, err, ErrAlreadyComplimentary)
	})

	t.Run("range outside the stay is rejected", func(t *testing.T) {
		b := fixtureBooking(t, "2024-02-01", "2024-02-04")
		_, err := b.MarkComplimentary("oops", compRange(t, "2024-01-31", "2024-02-02"), now)
		assert.ErrorIs(t, err, ErrInvalidCompRange)

		_, err = b.MarkComplimentary("oops", compRange(t, "2024-02-03", "2024-02-05"), now)
		assert.ErrorIs(t, err, ErrInvalidCompRange)
	})

	t.Run("empty reason is rejected", func(t *testing.T) {
		b := fixtureBooking(t, "2024-02-01", "2024-02-04")
		_, err := b.MarkComplimentary("", compRange(t, "2024-02-01", "2024-02-02"), now)
		assert.ErrorIs(t, err, ErrReasonRequired)
	})

	t.Run("refused once checked in", func(t *testing.T) {
		b := fixtureBooking(t, "2024-02-01", "2024-02-04")
		b.Status = StatusCheckedIn
		_, err := b.MarkComplimentary("late", compRange(t, "2024-02-01", "2024-02-02"), now)
		var te *TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, ActionMarkComplimentary, te.Action)
	})

	t.Run("refused when posted", func(t *testing.T) {
		b := fixtureBooking(t, "2024-02-01", "2024-02-04")
		b.Posted = true
		_, err := b.MarkComplimentary("late", compRange(t, "2024-02-01", "2024-02-02"), now)
		assert.ErrorIs(t, err, ErrBookingPosted)
	})
}

func TestClearComplimentary(t *testing.T) {
	now := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	b := fixtureBooking(t, "2024-02-01", "2024-02-04")
	_, err := b.MarkComplimentary("goodwill", compRange(t, "2024-02-01", "2024-02-02"), now)
	require.NoError(t, err)

	require.NoError(t, b.ClearComplimentary(now))
	assert.False(t, b.IsComplimentary)
	assert.Equal(t, int64(30000), b.TotalAmount.Amount, "total restored from baseline")
	assert.Zero(t, b.CompNights)
	assert.Nil(t, b.CompRange)

	t.Run("re-marking succeeds after clearing", func(t *testing.T) {
		res, err := b.MarkComplimentary("second time", compRange(t, "2024-02-02", "2024-02-04"), now)
		require.NoError(t, err)
		assert.Equal(t, 2, res.CompNights)
		assert.Equal(t, int64(10000), res.NewTotal.Amount)
	})
}
