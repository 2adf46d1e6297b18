package payment

import (
	"errors"
	"fmt"
	"time"

	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/shared/money"
)

var (
	ErrInvalidPaymentStatus = errors.New("payment: unrecognized payment status")
	ErrNegativeAmount       = errors.New("payment: amount cannot be negative")
)

// Settings holds the hotel-level payment configuration. It is passed
// explicitly into Reconcile so the computation stays deterministic; there
// is no ambient settings lookup.
type Settings struct {
	Currency        string
	RoomCardDeposit money.Money
	ExtraBedCharge  money.Money
	MaxExtraBeds    int
}

// Change is a typed partial update to a booking's payment and rate fields.
// Nil fields are left untouched.
type Change struct {
	PaymentStatus  *booking.PaymentStatus
	PaymentMethod  *string
	PaymentNote    *string
	DepositPaid    *bool
	DepositAmount  *money.Money
	RoomRate       *money.Money
	ExtraBedCount  *int
	ExtraBedCharge *money.Money
}

// Reconcile validates and applies a payment change to the booking
// snapshot. The whole change is validated before any field is touched, so
// a rejected change leaves the snapshot exactly as it was. Rules: the
// posted lock wins over everything; status values outside the known set
// are rejected; 'paid' implies the deposit is held, defaulting its amount
// to the configured room-card deposit; a rate override recomputes the
// total from nightly rate x chargeable nights, preserving the separately
// tracked extra-bed charge.
func Reconcile(b *booking.Booking, change Change, cfg Settings, now time.Time) error {
	if b.Posted {
		return booking.ErrBookingPosted
	}
	if change.PaymentStatus != nil && !change.PaymentStatus.Known() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, *change.PaymentStatus)
	}
	if change.DepositAmount != nil && change.DepositAmount.IsNegative() {
		return ErrNegativeAmount
	}
	if change.RoomRate != nil && change.RoomRate.IsNegative() {
		return ErrNegativeAmount
	}
	if change.ExtraBedCharge != nil && change.ExtraBedCharge.IsNegative() {
		return ErrNegativeAmount
	}

	if change.PaymentStatus != nil {
		status := *change.PaymentStatus
		b.PaymentStatus = status
		if status == booking.PaymentPaid {
			b.DepositPaid = true
			if b.DepositAmount.IsZero() && change.DepositAmount == nil {
				b.DepositAmount = cfg.RoomCardDeposit
			}
		}
	}
	if change.PaymentMethod != nil {
		b.PaymentMethod = *change.PaymentMethod
	}
	if change.PaymentNote != nil && *change.PaymentNote != "" {
		// Notes are additive, never overwritten.
		if b.PaymentNote != "" {
			b.PaymentNote += "\n"
		}
		b.PaymentNote += *change.PaymentNote
	}
	if change.DepositPaid != nil {
		b.DepositPaid = *change.DepositPaid
	}
	if change.DepositAmount != nil {
		b.DepositAmount = *change.DepositAmount
	}

	recompute := false

	if change.ExtraBedCount != nil {
		count := clampExtraBeds(*change.ExtraBedCount, cfg.MaxExtraBeds)
		b.ExtraBedCount = count
		if change.ExtraBedCharge == nil {
			b.ExtraBedCharge = cfg.ExtraBedCharge.Multiply(int64(count))
		}
		recompute = true
	}
	if change.ExtraBedCharge != nil {
		b.ExtraBedCharge = *change.ExtraBedCharge
		recompute = true
	}

	if change.RoomRate != nil {
		// Minor units make the 0.01 rounding epsilon exact: any whole-cent
		// difference is a deliberate override.
		if change.RoomRate.Amount != b.RoomRate.Amount {
			b.RoomRate = *change.RoomRate
			recompute = true
		}
	}

	if recompute {
		b.RecomputeTotal()
	}

	b.UpdatedAt = now.UTC()
	b.Record(booking.PaymentUpdated{
		BookingID:     b.ID,
		PaymentStatus: b.PaymentStatus,
		DepositPaid:   b.DepositPaid,
		Deposit:       b.DepositAmount,
		Total:         b.TotalAmount,
		At:            b.UpdatedAt,
	})
	return nil
}

func clampExtraBeds(count, max int) int {
	if count < 0 {
		return 0
	}
	if max > 0 && count > max {
		return max
	}
	return count
}
