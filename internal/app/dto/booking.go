package dto

import (
	"time"

	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/guest"
	"frontdesk/internal/domain/room"
	"frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/domain/shared/money"
)

// Money crosses the wire as minor units plus currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func NewMoney(m money.Money) Money {
	return Money{Amount: m.Amount, Currency: m.Currency}
}

type Guest struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

func NewGuest(g *guest.Guest) *Guest {
	if g == nil {
		return nil
	}
	return &Guest{ID: string(g.ID), FullName: g.FullName, Email: g.Email, Phone: g.Phone}
}

type Room struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	Type         string `json:"type"`
	Rate         Money  `json:"rate"`
	Available    bool   `json:"available"`
	MaxExtraBeds int    `json:"max_extra_beds"`
}

func NewRoom(r *room.Room) *Room {
	if r == nil {
		return nil
	}
	return &Room{
		ID:           string(r.ID),
		Number:       r.Number,
		Type:         r.Type,
		Rate:         NewMoney(r.Rate),
		Available:    r.Available,
		MaxExtraBeds: r.MaxExtraBeds,
	}
}

type Booking struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Folio  string `json:"folio,omitempty"`

	GuestID string `json:"guest_id"`
	RoomID  string `json:"room_id"`
	Guest   *Guest `json:"guest,omitempty"`
	Room    *Room  `json:"room,omitempty"`

	CheckIn        string  `json:"check_in"`
	CheckOut       string  `json:"check_out"`
	ActualCheckOut *string `json:"actual_check_out,omitempty"`
	Nights         int     `json:"nights"`

	Status   string `json:"status"`
	PostType string `json:"post_type"`
	RateCode string `json:"rate_code,omitempty"`

	RoomRate      Money  `json:"room_rate"`
	TotalAmount   Money  `json:"total_amount"`
	OriginalTotal *Money `json:"original_total_amount,omitempty"`

	IsComplimentary bool    `json:"is_complimentary"`
	CompReason      string  `json:"comp_reason,omitempty"`
	CompCheckIn     *string `json:"comp_check_in,omitempty"`
	CompCheckOut    *string `json:"comp_check_out,omitempty"`
	CompNights      int     `json:"comp_nights,omitempty"`

	PaymentStatus  string `json:"payment_status"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	PaymentNote    string `json:"payment_note,omitempty"`
	DepositPaid    bool   `json:"deposit_paid"`
	DepositAmount  Money  `json:"deposit_amount"`
	ExtraBedCount  int    `json:"extra_bed_count,omitempty"`
	ExtraBedCharge Money  `json:"extra_bed_charge"`

	IsPosted   bool    `json:"is_posted"`
	PostedDate *string `json:"posted_date,omitempty"`

	CancelReason string     `json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBooking(b *booking.Booking, g *guest.Guest, r *room.Room) Booking {
	out := Booking{
		ID:              string(b.ID),
		Number:          b.Number,
		Folio:           b.Folio,
		GuestID:         b.GuestID,
		RoomID:          b.RoomID,
		Guest:           NewGuest(g),
		Room:            NewRoom(r),
		CheckIn:         b.Range.CheckIn.Format(daterange.ISODate),
		CheckOut:        b.Range.CheckOut.Format(daterange.ISODate),
		Nights:          b.TotalNights(),
		Status:          string(b.Status),
		PostType:        string(b.PostType),
		RateCode:        b.RateCode,
		RoomRate:        NewMoney(b.RoomRate),
		TotalAmount:     NewMoney(b.TotalAmount),
		IsComplimentary: b.IsComplimentary,
		CompReason:      b.CompReason,
		CompNights:      b.CompNights,
		PaymentStatus:   string(b.PaymentStatus),
		PaymentMethod:   b.PaymentMethod,
		PaymentNote:     b.PaymentNote,
		DepositPaid:     b.DepositPaid,
		DepositAmount:   NewMoney(b.DepositAmount),
		ExtraBedCount:   b.ExtraBedCount,
		ExtraBedCharge:  NewMoney(b.ExtraBedCharge),
		IsPosted:        b.Posted,
		CancelReason:    b.CancelReason,
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if !b.OriginalTotal.IsZero() {
		orig := NewMoney(b.OriginalTotal)
		out.OriginalTotal = &orig
	}
	if b.ActualCheckOut != nil {
		s := b.ActualCheckOut.Format(time.RFC3339)
		out.ActualCheckOut = &s
	}
	if b.CompRange != nil {
		in := b.CompRange.CheckIn.Format(daterange.ISODate)
		outDate := b.CompRange.CheckOut.Format(daterange.ISODate)
		out.CompCheckIn = &in
		out.CompCheckOut = &outDate
	}
	if b.PostedDate != nil {
		s := b.PostedDate.Format(daterange.ISODate)
		out.PostedDate = &s
	}
	return out
}
