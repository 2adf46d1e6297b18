package booking

import (
	"errors"
	"fmt"
	"time"

	"frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/domain/shared/money"
)

var (
	ErrAlreadyComplimentary = errors.New("booking: already marked complimentary, clear it first")
	ErrInvalidCompRange     = errors.New("booking: complimentary range must lie within the stay")
)

// CompStatus is the outcome classification of a complimentary marking.
type CompStatus string

const (
	FullyComplimentary     CompStatus = "fully_complimentary"
	PartiallyComplimentary CompStatus = "partially_complimentary"
)

// CompResult reports the financial effect of marking nights free of charge.
type CompResult struct {
	Status      CompStatus
	CompNights  int
	TotalNights int
	NewTotal    money.Money
}

// CanMarkComplimentary is true only for reservations that carry no
// complimentary nights yet.
func (b *Booking) CanMarkComplimentary() bool {
	if b.Posted || b.IsComplimentary {
		return false
	}
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// MarkComplimentary prorates the nightly charge over the given sub-range.
// The pre-discount total is preserved in OriginalTotal before TotalAmount
// is overwritten, so clearing and re-applying stays lossless.
func (b *Booking) MarkComplimentary(reason string, r daterange.DateRange, now time.Time) (CompResult, error) {
	if b.Posted {
		return CompResult{}, ErrBookingPosted
	}
	if b.IsComplimentary {
		return CompResult{}, ErrAlreadyComplimentary
	}
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return CompResult{}, &TransitionError{Status: b.Status, Action: ActionMarkComplimentary, Guard: "only pending or confirmed bookings can be marked complimentary"}
	}
	if reason == "" {
		return CompResult{}, ErrReasonRequired
	}
	if err := r.Validate(); err != nil {
		return CompResult{}, fmt.Errorf("%w: %v", ErrInvalidCompRange, err)
	}
	if !b.Range.Contains(r) {
		return CompResult{}, fmt.Errorf("%w: stay is %s", ErrInvalidCompRange, b.Range)
	}

	totalNights := b.TotalNights()
	compNights := r.Nights()
	paidNights := totalNights - compNights
	if compNights < 1 || paidNights < 0 {
		return CompResult{}, fmt.Errorf("%w: %d complimentary of %d total nights", ErrInvalidCompRange, compNights, totalNights)
	}

	if b.OriginalTotal.IsZero() {
		b.OriginalTotal = b.TotalAmount
	}
	newTotal := b.OriginalTotal.Prorate(int64(paidNights), int64(totalNights))

	status := PartiallyComplimentary
	paymentStatus := PaymentPartial
	if paidNights == 0 {
		status = FullyComplimentary
		paymentStatus = PaymentPaid
	}

	b.IsComplimentary = true
	b.CompReason = reason
	compRange := r
	b.CompRange = &compRange
	b.CompNights = compNights
	b.TotalAmount = newTotal
	b.PaymentStatus = paymentStatus
	b.touch(now)

	result := CompResult{Status: status, CompNights: compNights, TotalNights: totalNights, NewTotal: newTotal}
	b.Record(MarkedComplimentary{
		BookingID:  b.ID,
		Reason:     reason,
		Range:      r,
		CompNights: compNights,
		NewTotal:   newTotal,
		Status:     status,
		At:         b.UpdatedAt,
	})
	return result, nil
}

// ClearComplimentary reverts a complimentary marking, restoring the
// preserved pre-discount total.
func (b *Booking) ClearComplimentary(now time.Time) error {
	if b.Posted {
		return ErrBookingPosted
	}
	if !b.IsComplimentary {
		return nil
	}
	if !b.OriginalTotal.IsZero() {
		b.TotalAmount = b.OriginalTotal
	}
	b.IsComplimentary = false
	b.CompReason = ""
	b.CompRange = nil
	b.CompNights = 0
	b.touch(now)
	return nil
}
