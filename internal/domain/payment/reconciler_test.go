package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/domain/shared/money"
)

func settings() Settings {
	return Settings{
		Currency:        "MYR",
		RoomCardDeposit: money.Must(5000, "MYR"),
		ExtraBedCharge:  money.Must(3000, "MYR"),
		MaxExtraBeds:    2,
	}
}

func fixture(t *testing.T) *booking.Booking {
	t.Helper()
	dr, err := daterange.Parse("2024-02-01", "2024-02-04")
	require.NoError(t, err)
	b, err := booking.NewBooking(booking.CreateParams{
		ID:        "bk-1",
		Number:    "BK0001",
		GuestID:   "g-1",
		RoomID:    "r-101",
		Range:     dr,
		RoomRate:  money.Must(10000, "MYR"),
		Confirmed: true,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	b.ClearEvents()
	return b
}

func statusPtr(s booking.PaymentStatus) *booking.PaymentStatus { return &s }
func moneyPtr(m money.Money) *money.Money                      { return &m }
func intPtr(v int) *int                                        { return &v }
func strPtr(s string) *string                                  { return &s }

func TestReconcilePaymentStatus(t *testing.T) {
	now := time.Now()

	t.Run("paid implies deposit with configured default", func(t *testing.T) {
		b := fixture(t)
		err := Reconcile(b, Change{PaymentStatus: statusPtr(booking.PaymentPaid)}, settings(), now)
		require.NoError(t, err)
		assert.Equal(t, booking.PaymentPaid, b.PaymentStatus)
		assert.True(t, b.DepositPaid)
		assert.Equal(t, int64(5000), b.DepositAmount.Amount)
	})

	t.Run("explicit deposit amount wins over the default", func(t *testing.T) {
		b := fixture(t)
		err := Reconcile(b, Change{
			PaymentStatus: statusPtr(booking.PaymentPaid),
			DepositAmount: moneyPtr(money.Must(8000, "MYR")),
		}, settings(), now)
		require.NoError(t, err)
		assert.Equal(t, int64(8000), b.DepositAmount.Amount)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		b := fixture(t)
		err := Reconcile(b, Change{PaymentStatus: statusPtr(booking.PaymentStatus("store_credit"))}, settings(), now)
		assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
	})

	t.Run("posted booking refused", func(t *testing.T) {
		b := fixture(t)
		b.Posted = true
		err := Reconcile(b, Change{PaymentStatus: statusPtr(booking.PaymentPaid)}, settings(), now)
		assert.ErrorIs(t, err, booking.ErrBookingPosted)
		assert.Equal(t, booking.PaymentUnpaid, b.PaymentStatus, "state unchanged")
	})

	t.Run("negative deposit rejected", func(t *testing.T) {
		b := fixture(t)
		err := Reconcile(b, Change{DepositAmount: moneyPtr(money.Money{Amount: -100, Currency: "MYR"})}, settings(), now)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("mixed valid and invalid change leaves the snapshot untouched", func(t *testing.T) {
		b := fixture(t)
		err := Reconcile(b, Change{
			PaymentStatus: statusPtr(booking.PaymentPaid),
			DepositAmount: moneyPtr(money.Money{Amount: -100, Currency: "MYR"}),
		}, settings(), now)
		assert.ErrorIs(t, err, ErrNegativeAmount)
		assert.Equal(t, booking.PaymentUnpaid, b.PaymentStatus)
		assert.False(t, b.DepositPaid)
		assert.Zero(t, b.DepositAmount.Amount)
		assert.Empty(t, b.PendingEvents())
	})

	t.Run("valid rate with a negative extra-bed charge applies nothing", func(t *testing.T) {
		b := fixture(t)
		err := Reconcile(b, Change{
			RoomRate:       moneyPtr(money.Must(12000, "MYR")),
			ExtraBedCharge: moneyPtr(money.Money{Amount: -1, Currency: "MYR"}),
		}, settings(), now)
		assert.ErrorIs(t, err, ErrNegativeAmount)
		assert.Equal(t, int64(10000), b.RoomRate.Amount)
		assert.Equal(t, int64(30000), b.TotalAmount.Amount)
	})
}

func TestReconcileNotes(t *testing.T) {
	b := fixture(t)
	now := time.Now()

	require.NoError(t, Reconcile(b, Change{PaymentNote: strPtr("deposit taken in cash")}, settings(), now))
	require.NoError(t, Reconcile(b, Change{PaymentNote: strPtr("balance on card")}, settings(), now))

	assert.Equal(t, "deposit taken in cash\nbalance on card", b.PaymentNote)
}

func TestReconcileRateOverride(t *testing.T) {
	now := time.Now()

	t.Run("override recomputes the total", func(t *testing.T) {
		b := fixture(t)
		err := Reconcile(b, Change{RoomRate: moneyPtr(money.Must(12000, "MYR"))}, settings(), now)
		require.NoError(t, err)
		assert.Equal(t, int64(12000), b.RoomRate.Amount)
		assert.Equal(t, int64(36000), b.TotalAmount.Amount)
	})

	t.Run("identical rate leaves the total alone", func(t *testing.T) {
		b := fixture(t)
		b.TotalAmount = money.Must(25000, "MYR") // manually adjusted earlier
		err := Reconcile(b, Change{RoomRate: moneyPtr(money.Must(10000, "MYR"))}, settings(), now)
		require.NoError(t, err)
		assert.Equal(t, int64(25000), b.TotalAmount.Amount)
	})

	t.Run("override preserves the extra-bed charge", func(t *testing.T) {
		b := fixture(t)
		require.NoError(t, Reconcile(b, Change{ExtraBedCount: intPtr(1)}, settings(), now))
		require.NoError(t, Reconcile(b, Change{RoomRate: moneyPtr(money.Must(11000, "MYR"))}, settings(), now))
		assert.Equal(t, int64(11000*3+3000), b.TotalAmount.Amount)
	})

	t.Run("complimentary nights stay free after an override", func(t *testing.T) {
		b := fixture(t)
		comp, err := daterange.Parse("2024-02-01", "2024-02-02")
		require.NoError(t, err)
		_, err = b.MarkComplimentary("goodwill", comp, now)
		require.NoError(t, err)

		require.NoError(t, Reconcile(b, Change{RoomRate: moneyPtr(money.Must(12000, "MYR"))}, settings(), now))
		assert.Equal(t, int64(24000), b.TotalAmount.Amount, "2 paid nights at the new rate")
	})
}

func TestReconcileExtraBeds(t *testing.T) {
	now := time.Now()

	t.Run("count clamped to room-type maximum", func(t *testing.T) {
		b := fixture(t)
		require.NoError(t, Reconcile(b, Change{ExtraBedCount: intPtr(5)}, settings(), now))
		assert.Equal(t, 2, b.ExtraBedCount)
		assert.Equal(t, int64(6000), b.ExtraBedCharge.Amount)
		assert.Equal(t, int64(36000), b.TotalAmount.Amount)
	})

	t.Run("negative count clamped to zero", func(t *testing.T) {
		b := fixture(t)
		require.NoError(t, Reconcile(b, Change{ExtraBedCount: intPtr(-1)}, settings(), now))
		assert.Zero(t, b.ExtraBedCount)
		assert.Zero(t, b.ExtraBedCharge.Amount)
	})

	t.Run("manual charge override wins over the per-bed rate", func(t *testing.T) {
		b := fixture(t)
		require.NoError(t, Reconcile(b, Change{
			ExtraBedCount:  intPtr(1),
			ExtraBedCharge: moneyPtr(money.Must(1500, "MYR")),
		}, settings(), now))
		assert.Equal(t, int64(1500), b.ExtraBedCharge.Amount)
		assert.Equal(t, int64(31500), b.TotalAmount.Amount)
	})

	t.Run("negative manual charge rejected", func(t *testing.T) {
		b := fixture(t)
		err := Reconcile(b, Change{ExtraBedCharge: moneyPtr(money.Money{Amount: -1, Currency: "MYR"})}, settings(), now)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}
