package booking

import (
	"time"

	"frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/domain/shared/money"
)

type BookingCreated struct {
	BookingID BookingID
	Number    string
	GuestID   string
	RoomID    string
	Range     daterange.DateRange
	Total     money.Money
	Status    Status
	At        time.Time
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID  BookingID
	RoomID     string
	Status     Status
	Reason     string
	CompNights int
	At         time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type CheckInCompleted struct {
	BookingID BookingID
	RoomID    string
	At        time.Time
}

func (e CheckInCompleted) EventName() string     { return "booking.checkin_completed" }
func (e CheckInCompleted) AggregateID() string   { return string(e.BookingID) }
func (e CheckInCompleted) OccurredAt() time.Time { return e.At }

type CheckOutCompleted struct {
	BookingID BookingID
	RoomID    string
	At        time.Time
}

func (e CheckOutCompleted) EventName() string     { return "booking.checkout_completed" }
func (e CheckOutCompleted) AggregateID() string   { return string(e.BookingID) }
func (e CheckOutCompleted) OccurredAt() time.Time { return e.At }

type NoShowRecorded struct {
	BookingID BookingID
	RoomID    string
	At        time.Time
}

func (e NoShowRecorded) EventName() string     { return "booking.no_show" }
func (e NoShowRecorded) AggregateID() string   { return string(e.BookingID) }
func (e NoShowRecorded) OccurredAt() time.Time { return e.At }

type MarkedComplimentary struct {
	BookingID  BookingID
	Reason     string
	Range      daterange.DateRange
	CompNights int
	NewTotal   money.Money
	Status     CompStatus
	At         time.Time
}

func (e MarkedComplimentary) EventName() string     { return "booking.marked_complimentary" }
func (e MarkedComplimentary) AggregateID() string   { return string(e.BookingID) }
func (e MarkedComplimentary) OccurredAt() time.Time { return e.At }

type PaymentUpdated struct {
	BookingID     BookingID
	PaymentStatus PaymentStatus
	DepositPaid   bool
	Deposit       money.Money
	Total         money.Money
	At            time.Time
}

func (e PaymentUpdated) EventName() string     { return "booking.payment_updated" }
func (e PaymentUpdated) AggregateID() string   { return string(e.BookingID) }
func (e PaymentUpdated) OccurredAt() time.Time { return e.At }

type BookingEdited struct {
	BookingID BookingID
	Status    Status
	At        time.Time
}

func (e BookingEdited) EventName() string     { return "booking.edited" }
func (e BookingEdited) AggregateID() string   { return string(e.BookingID) }
func (e BookingEdited) OccurredAt() time.Time { return e.At }

type BookingPosted struct {
	BookingID BookingID
	At        time.Time
}

func (e BookingPosted) EventName() string     { return "booking.posted" }
func (e BookingPosted) AggregateID() string   { return string(e.BookingID) }
func (e BookingPosted) OccurredAt() time.Time { return e.At }

type BookingUnposted struct {
	BookingID BookingID
	At        time.Time
}

func (e BookingUnposted) EventName() string     { return "booking.unposted" }
func (e BookingUnposted) AggregateID() string   { return string(e.BookingID) }
func (e BookingUnposted) OccurredAt() time.Time { return e.At }
