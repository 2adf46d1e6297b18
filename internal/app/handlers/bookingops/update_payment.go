package bookingops

import (
	"context"

	"frontdesk/internal/app/dto"
	"frontdesk/internal/app/uow"
	"frontdesk/internal/domain/booking"
	"frontdesk/internal/domain/payment"
	"frontdesk/internal/domain/shared/money"
)

const UpdatePaymentKey = "booking.update_payment"

// UpdatePaymentCommand mirrors payment.Change on the wire; amounts are
// minor units in the hotel currency.
type UpdatePaymentCommand struct {
	BookingID      string  `json:"-" validate:"required"`
	PaymentStatus  *string `json:"payment_status,omitempty"`
	PaymentMethod  *string `json:"payment_method,omitempty"`
	PaymentNote    *string `json:"payment_note,omitempty"`
	DepositPaid    *bool   `json:"deposit_paid,omitempty"`
	DepositAmount  *int64  `json:"deposit_amount,omitempty"`
	RoomRate       *int64  `json:"room_rate,omitempty"`
	ExtraBedCount  *int    `json:"extra_bed_count,omitempty"`
	ExtraBedCharge *int64  `json:"extra_bed_charge,omitempty"`
}

func (UpdatePaymentCommand) Key() string { return UpdatePaymentKey }

type UpdatePaymentHandler struct {
	Deps
	Settings payment.Settings
}

func (h UpdatePaymentHandler) Handle(ctx context.Context, cmd UpdatePaymentCommand) (dto.Booking, error) {
	unit, owns, ctx, err := h.begin(ctx, uow.TxOptions{})
	if err != nil {
		return dto.Booking{}, err
	}
	result, err := h.apply(ctx, unit, cmd)
	if err := h.finish(ctx, unit, owns, err); err != nil {
		return dto.Booking{}, err
	}
	return result, nil
}

func (h UpdatePaymentHandler) apply(ctx context.Context, unit uow.UnitOfWork, cmd UpdatePaymentCommand) (dto.Booking, error) {
	b, err := unit.Bookings().ByID(ctx, booking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}

	currency := b.RoomRate.Currency
	if currency == "" {
		currency = h.Settings.Currency
	}
	change := payment.Change{
		PaymentMethod: cmd.PaymentMethod,
		PaymentNote:   cmd.PaymentNote,
		DepositPaid:   cmd.DepositPaid,
		ExtraBedCount: cmd.ExtraBedCount,
	}
	if cmd.PaymentStatus != nil {
		status := booking.PaymentStatus(*cmd.PaymentStatus)
		change.PaymentStatus = &status
	}
	if cmd.DepositAmount != nil {
		amount := money.Money{Amount: *cmd.DepositAmount, Currency: currency}
		change.DepositAmount = &amount
	}
	if cmd.RoomRate != nil {
		rate := money.Money{Amount: *cmd.RoomRate, Currency: currency}
		change.RoomRate = &rate
	}
	if cmd.ExtraBedCharge != nil {
		charge := money.Money{Amount: *cmd.ExtraBedCharge, Currency: currency}
		change.ExtraBedCharge = &charge
	}

	if err := payment.Reconcile(b, change, h.Settings, h.now()); err != nil {
		return dto.Booking{}, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return dto.Booking{}, err
	}
	if err := h.drain(ctx, b); err != nil {
		return dto.Booking{}, err
	}
	return loadBookingDTO(ctx, unit, b), nil
}
