package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "frontdesk/internal/domain/booking"
	domainrange "frontdesk/internal/domain/shared/daterange"
	"frontdesk/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) List(ctx context.Context, filter domainbooking.Filter) ([]*domainbooking.Booking, error) {
	query := bson.M{}
	if filter.RoomID != "" {
		query["room_id"] = filter.RoomID
	}
	if filter.GuestID != "" {
		query["guest_id"] = filter.GuestID
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query["status"] = bson.M{"$in": statuses}
	}
	if filter.Window != nil {
		// Half-open overlap: stay.check_in < window.check_out AND
		// stay.check_out > window.check_in.
		query["range.check_in"] = bson.M{"$lt": filter.Window.CheckOut.UnixMilli()}
		query["range.check_out"] = bson.M{"$gt": filter.Window.CheckIn.UnixMilli()}
	}

	opts := options.Find().SetSort(bson.D{{Key: "range.check_in", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]*domainbooking.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID     string `bson:"_id"`
	Number string `bson:"number"`
	Folio  string `bson:"folio,omitempty"`

	GuestID string `bson:"guest_id"`
	RoomID  string `bson:"room_id"`

	Range          rangeDocument `bson:"range"`
	ActualCheckOut *int64        `bson:"actual_check_out,omitempty"`

	Status   string `bson:"status"`
	PostType string `bson:"post_type"`
	RateCode string `bson:"rate_code,omitempty"`

	RoomRate      moneyDocument `bson:"room_rate"`
	TotalAmount   moneyDocument `bson:"total_amount"`
	OriginalTotal moneyDocument `bson:"original_total_amount"`

	IsComplimentary bool           `bson:"is_complimentary"`
	CompReason      string         `bson:"comp_reason,omitempty"`
	CompRange       *rangeDocument `bson:"comp_range,omitempty"`
	CompNights      int            `bson:"comp_nights"`

	PaymentStatus  string        `bson:"payment_status"`
	PaymentMethod  string        `bson:"payment_method,omitempty"`
	PaymentNote    string        `bson:"payment_note,omitempty"`
	DepositPaid    bool          `bson:"deposit_paid"`
	DepositAmount  moneyDocument `bson:"deposit_amount"`
	ExtraBedCount  int           `bson:"extra_bed_count"`
	ExtraBedCharge moneyDocument `bson:"extra_bed_charge"`

	Posted     bool   `bson:"is_posted"`
	PostedDate *int64 `bson:"posted_date,omitempty"`

	CancelReason string `bson:"cancel_reason,omitempty"`
	CancelledAt  *int64 `bson:"cancelled_at,omitempty"`

	CreatedAt int64 `bson:"created_at"`
	UpdatedAt int64 `bson:"updated_at"`
	Version   int64 `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:              string(b.ID),
		Number:          b.Number,
		Folio:           b.Folio,
		GuestID:         b.GuestID,
		RoomID:          b.RoomID,
		Range:           newRangeDocument(b.Range),
		Status:          string(b.Status),
		PostType:        string(b.PostType),
		RateCode:        b.RateCode,
		RoomRate:        newMoneyDocument(b.RoomRate),
		TotalAmount:     newMoneyDocument(b.TotalAmount),
		OriginalTotal:   newMoneyDocument(b.OriginalTotal),
		IsComplimentary: b.IsComplimentary,
		CompReason:      b.CompReason,
		CompNights:      b.CompNights,
		PaymentStatus:   string(b.PaymentStatus),
		PaymentMethod:   b.PaymentMethod,
		PaymentNote:     b.PaymentNote,
		DepositPaid:     b.DepositPaid,
		DepositAmount:   newMoneyDocument(b.DepositAmount),
		ExtraBedCount:   b.ExtraBedCount,
		ExtraBedCharge:  newMoneyDocument(b.ExtraBedCharge),
		Posted:          b.Posted,
		CancelReason:    b.CancelReason,
		CreatedAt:       b.CreatedAt.UnixMilli(),
		UpdatedAt:       b.UpdatedAt.UnixMilli(),
		Version:         b.Version,
	}
	if b.ActualCheckOut != nil {
		ms := b.ActualCheckOut.UnixMilli()
		doc.ActualCheckOut = &ms
	}
	if b.CompRange != nil {
		cr := newRangeDocument(*b.CompRange)
		doc.CompRange = &cr
	}
	if b.PostedDate != nil {
		ms := b.PostedDate.UnixMilli()
		doc.PostedDate = &ms
	}
	if b.CancelledAt != nil {
		ms := b.CancelledAt.UnixMilli()
		doc.CancelledAt = &ms
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	b := &domainbooking.Booking{
		ID:              domainbooking.BookingID(d.ID),
		Number:          d.Number,
		Folio:           d.Folio,
		GuestID:         d.GuestID,
		RoomID:          d.RoomID,
		Range:           d.Range.toRange(),
		Status:          domainbooking.Status(d.Status),
		PostType:        domainbooking.PostType(d.PostType),
		RateCode:        d.RateCode,
		RoomRate:        d.RoomRate.toMoney(),
		TotalAmount:     d.TotalAmount.toMoney(),
		OriginalTotal:   d.OriginalTotal.toMoney(),
		IsComplimentary: d.IsComplimentary,
		CompReason:      d.CompReason,
		CompNights:      d.CompNights,
		PaymentStatus:   domainbooking.PaymentStatus(d.PaymentStatus),
		PaymentMethod:   d.PaymentMethod,
		PaymentNote:     d.PaymentNote,
		DepositPaid:     d.DepositPaid,
		DepositAmount:   d.DepositAmount.toMoney(),
		ExtraBedCount:   d.ExtraBedCount,
		ExtraBedCharge:  d.ExtraBedCharge.toMoney(),
		Posted:          d.Posted,
		CancelReason:    d.CancelReason,
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
		Version:         d.Version,
	}
	if d.ActualCheckOut != nil {
		t := timestampToTime(*d.ActualCheckOut)
		b.ActualCheckOut = &t
	}
	if d.CompRange != nil {
		cr := d.CompRange.toRange()
		b.CompRange = &cr
	}
	if d.PostedDate != nil {
		t := timestampToTime(*d.PostedDate)
		b.PostedDate = &t
	}
	if d.CancelledAt != nil {
		t := timestampToTime(*d.CancelledAt)
		b.CancelledAt = &t
	}
	return b
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

func newRangeDocument(r domainrange.DateRange) rangeDocument {
	return rangeDocument{CheckIn: r.CheckIn.UnixMilli(), CheckOut: r.CheckOut.UnixMilli()}
}

func (d rangeDocument) toRange() domainrange.DateRange {
	return domainrange.DateRange{CheckIn: timestampToTime(d.CheckIn), CheckOut: timestampToTime(d.CheckOut)}
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount, Currency: m.Currency}
}

func (d moneyDocument) toMoney() money.Money {
	return money.Money{Amount: d.Amount, Currency: d.Currency}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
