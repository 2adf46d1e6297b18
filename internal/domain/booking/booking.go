package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/domain/shared/events"
	"frontdesk/internal/domain/shared/money"
)

var (
	ErrBookingNotFound = errors.New("booking: not found")
	ErrBookingPosted   = errors.New("booking: posted bookings are locked against edits")
	ErrReasonRequired  = errors.New("booking: a non-empty reason is required")
	ErrGuestRequired   = errors.New("booking: guest id required")
	ErrRoomRequired    = errors.New("booking: room id required")
)

type BookingID string

type Status string

const (
	StatusPending       Status = "pending"
	StatusConfirmed     Status = "confirmed"
	StatusCheckedIn     Status = "checked_in"
	StatusCheckedOut    Status = "checked_out"
	StatusCancelled     Status = "cancelled"
	StatusNoShow        Status = "no_show"
	StatusCompCancelled Status = "comp_cancelled"
	StatusAutoCheckedIn Status = "auto_checked_in"
	StatusLateCheckout  Status = "late_checkout"
	StatusReleased      Status = "released"
)

// Known reports whether the status belongs to the recognised set. Unknown
// values coming from upstream data are treated conservatively: every guard
// answers false for them.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut,
		StatusCancelled, StatusNoShow, StatusCompCancelled,
		StatusAutoCheckedIn, StatusLateCheckout, StatusReleased:
		return true
	}
	return false
}

// Terminal statuses admit no further transition.
func (s Status) Terminal() bool {
	switch s {
	case StatusCheckedOut, StatusCancelled, StatusNoShow, StatusCompCancelled, StatusReleased:
		return true
	}
	return false
}

// InHouse reports whether the guest currently occupies the room.
func (s Status) InHouse() bool {
	switch s {
	case StatusCheckedIn, StatusAutoCheckedIn, StatusLateCheckout:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentUnpaidDeposit PaymentStatus = "unpaid_deposit"
	PaymentPaidRate      PaymentStatus = "paid_rate"
	PaymentPartial       PaymentStatus = "partial"
	PaymentPaid          PaymentStatus = "paid"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentCancelled     PaymentStatus = "cancelled"
)

func (p PaymentStatus) Known() bool {
	switch p {
	case PaymentUnpaid, PaymentUnpaidDeposit, PaymentPaidRate,
		PaymentPartial, PaymentPaid, PaymentRefunded, PaymentCancelled:
		return true
	}
	return false
}

type PostType string

const (
	PostNormalStay PostType = "normal_stay"
	PostSameDay    PostType = "same_day"
)

// Action names a requested lifecycle operation, used in transition errors.
type Action string

const (
	ActionCheckIn           Action = "check_in"
	ActionCheckOut          Action = "check_out"
	ActionCancel            Action = "cancel"
	ActionMarkComplimentary Action = "mark_complimentary"
	ActionMarkNoShow        Action = "mark_no_show"
	ActionEdit              Action = "edit"
	ActionPost              Action = "post"
)

// DefaultCancelReason is applied when the caller omits a cancellation reason.
const DefaultCancelReason = "Cancelled by admin"

// TransitionError reports a disallowed state-machine transition. It names
// the current status, the requested action and the guard that refused it,
// so callers can surface it verbatim.
type TransitionError struct {
	Status Status
	Action Action
	Guard  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking: cannot %s from status %q: %s", e.Action, e.Status, e.Guard)
}

// Booking is the front-desk view of a stay. Snapshots are loaded from the
// repository, mutated through the methods below and saved back; the methods
// never touch storage themselves.
type Booking struct {
	ID     BookingID
	Number string
	Folio  string

	GuestID string
	RoomID  string

	Range          daterange.DateRange
	ActualCheckOut *time.Time

	Status   Status
	PostType PostType
	RateCode string

	RoomRate      money.Money
	TotalAmount   money.Money
	OriginalTotal money.Money

	IsComplimentary bool
	CompReason      string
	CompRange       *daterange.DateRange
	CompNights      int

	PaymentStatus  PaymentStatus
	PaymentMethod  string
	PaymentNote    string
	DepositPaid    bool
	DepositAmount  money.Money
	ExtraBedCount  int
	ExtraBedCharge money.Money

	Posted     bool
	PostedDate *time.Time

	CancelReason string
	CancelledAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64

	events.EventRecorder
}

// Filter narrows repository listings.
type Filter struct {
	RoomID   string
	GuestID  string
	Statuses []Status
	Window   *daterange.DateRange
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	List(ctx context.Context, filter Filter) ([]*Booking, error)
}

type CreateParams struct {
	ID        BookingID
	Number    string
	GuestID   string
	RoomID    string
	Range     daterange.DateRange
	RoomRate  money.Money
	RateCode  string
	PostType  PostType
	Confirmed bool
	CreatedAt time.Time
}

// NewBooking builds a pending (or confirmed, depending on source) booking
// with the total derived from the nightly rate.
func NewBooking(params CreateParams) (*Booking, error) {
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if params.RoomID == "" {
		return nil, ErrRoomRequired
	}
	if params.RoomRate.IsNegative() {
		return nil, money.ErrNegativeAmount
	}
	postType := params.PostType
	if postType == "" {
		postType = PostNormalStay
	}
	status := StatusPending
	if params.Confirmed {
		status = StatusConfirmed
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:            params.ID,
		Number:        params.Number,
		GuestID:       params.GuestID,
		RoomID:        params.RoomID,
		Range:         params.Range,
		Status:        status,
		PostType:      postType,
		RateCode:      params.RateCode,
		RoomRate:      params.RoomRate,
		TotalAmount:   params.RoomRate.Multiply(int64(params.Range.Nights())),
		PaymentStatus: PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.Record(BookingCreated{
		BookingID: b.ID,
		Number:    b.Number,
		GuestID:   b.GuestID,
		RoomID:    b.RoomID,
		Range:     b.Range,
		Total:     b.TotalAmount,
		Status:    b.Status,
		At:        now,
	})
	return b, nil
}

// TotalNights is the chargeable length of the stay.
func (b *Booking) TotalNights() int {
	return b.Range.Nights()
}

// ChargeableNights is the stay length minus any complimentary nights.
func (b *Booking) ChargeableNights() int {
	n := b.Range.Nights() - b.CompNights
	if n < 0 {
		return 0
	}
	return n
}

// RecomputeTotal rebuilds TotalAmount from the nightly rate, the
// chargeable nights and the extra-bed charge. Edit and the payment
// reconciler both go through here, so complimentary nights stay free
// under either path.
func (b *Booking) RecomputeTotal() {
	total := b.RoomRate.Multiply(int64(b.ChargeableNights()))
	total.Amount += b.ExtraBedCharge.Amount
	b.TotalAmount = total
}

// CanCheckIn allows arrival only on or after the booked check-in date and
// only from a reservation status.
func (b *Booking) CanCheckIn(today time.Time) bool {
	if b.Posted {
		return false
	}
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return false
	}
	return !daterange.Truncate(today).Before(b.Range.CheckIn)
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.Posted {
		return ErrBookingPosted
	}
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return &TransitionError{Status: b.Status, Action: ActionCheckIn, Guard: "only pending or confirmed bookings can check in"}
	}
	if daterange.Truncate(now).Before(b.Range.CheckIn) {
		return &TransitionError{Status: b.Status, Action: ActionCheckIn, Guard: "check-in date is in the future"}
	}
	b.Status = StatusCheckedIn
	b.touch(now)
	b.Record(CheckInCompleted{BookingID: b.ID, RoomID: b.RoomID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) CanCheckOut() bool {
	return !b.Posted && b.Status.InHouse()
}

func (b *Booking) CheckOut(now time.Time) error {
	if b.Posted {
		return ErrBookingPosted
	}
	if !b.Status.InHouse() {
		return &TransitionError{Status: b.Status, Action: ActionCheckOut, Guard: "guest is not checked in"}
	}
	b.Status = StatusCheckedOut
	actual := now.UTC()
	b.ActualCheckOut = &actual
	b.touch(now)
	b.Record(CheckOutCompleted{BookingID: b.ID, RoomID: b.RoomID, At: b.UpdatedAt})
	return nil
}

// CanCancel follows the permissive rule: any known non-terminal booking can
// be cancelled while it is not posted.
func (b *Booking) CanCancel() bool {
	return !b.Posted && b.Status.Known() && !b.Status.Terminal()
}

// Cancel moves the booking to cancelled, or comp_cancelled when the stay
// carries complimentary nights. Cancellation is a status, never a removal.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.Posted {
		return ErrBookingPosted
	}
	if !b.Status.Known() || b.Status.Terminal() {
		return &TransitionError{Status: b.Status, Action: ActionCancel, Guard: "booking is already concluded"}
	}
	if reason == "" {
		reason = DefaultCancelReason
	}
	target := StatusCancelled
	if b.IsComplimentary {
		target = StatusCompCancelled
	}
	b.Status = target
	b.CancelReason = reason
	at := now.UTC()
	b.CancelledAt = &at
	b.touch(now)
	b.Record(BookingCancelled{
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		Status:     target,
		Reason:     reason,
		CompNights: b.CompNights,
		At:         b.UpdatedAt,
	})
	return nil
}

func (b *Booking) CanMarkNoShow() bool {
	return !b.Posted && (b.Status == StatusPending || b.Status == StatusConfirmed)
}

func (b *Booking) MarkNoShow(now time.Time) error {
	if b.Posted {
		return ErrBookingPosted
	}
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return &TransitionError{Status: b.Status, Action: ActionMarkNoShow, Guard: "only reservations can be marked no-show"}
	}
	b.Status = StatusNoShow
	b.touch(now)
	b.Record(NoShowRecorded{BookingID: b.ID, RoomID: b.RoomID, At: b.UpdatedAt})
	return nil
}

// CanEdit is true while the booking has not been swept into a night audit.
func (b *Booking) CanEdit() bool {
	return !b.Posted
}

// EditParams carries optional field changes; nil fields are untouched.
// Status changes only when the status field is explicitly present.
type EditParams struct {
	RoomID   *string
	Range    *daterange.DateRange
	RoomRate *money.Money
	RateCode *string
	PostType *PostType
	Status   *Status
	Remarks  *string
}

func (b *Booking) Edit(params EditParams, now time.Time) error {
	if b.Posted {
		return ErrBookingPosted
	}
	if params.Range != nil {
		if err := params.Range.Validate(); err != nil {
			return err
		}
		b.Range = *params.Range
	}
	if params.RoomID != nil && *params.RoomID != "" {
		b.RoomID = *params.RoomID
	}
	if params.RoomRate != nil {
		if params.RoomRate.IsNegative() {
			return money.ErrNegativeAmount
		}
		b.RoomRate = *params.RoomRate
	}
	if params.RateCode != nil {
		b.RateCode = *params.RateCode
	}
	if params.PostType != nil {
		b.PostType = *params.PostType
	}
	if params.Status != nil {
		if !params.Status.Known() {
			return &TransitionError{Status: b.Status, Action: ActionEdit, Guard: fmt.Sprintf("unknown status %q", *params.Status)}
		}
		b.Status = *params.Status
	}
	if params.Range != nil && b.IsComplimentary && b.CompRange != nil && !b.Range.Contains(*b.CompRange) {
		// The free nights no longer fall inside the stay.
		b.IsComplimentary = false
		b.CompReason = ""
		b.CompRange = nil
		b.CompNights = 0
	}
	if params.Range != nil || params.RoomRate != nil {
		b.RecomputeTotal()
	}
	b.touch(now)
	b.Record(BookingEdited{BookingID: b.ID, Status: b.Status, At: b.UpdatedAt})
	return nil
}

// Post locks the booking after a completed night-audit run.
func (b *Booking) Post(now time.Time) error {
	if b.Posted {
		return ErrBookingPosted
	}
	if b.Status != StatusCheckedOut {
		return &TransitionError{Status: b.Status, Action: ActionPost, Guard: "only checked-out bookings are posted"}
	}
	b.Posted = true
	at := daterange.Truncate(now)
	b.PostedDate = &at
	b.touch(now)
	b.Record(BookingPosted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

// Unpost is the explicit unlock counterpart to Post.
func (b *Booking) Unpost(now time.Time) {
	if !b.Posted {
		return
	}
	b.Posted = false
	b.PostedDate = nil
	b.touch(now)
	b.Record(BookingUnposted{BookingID: b.ID, At: b.UpdatedAt})
}

func (b *Booking) touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}
