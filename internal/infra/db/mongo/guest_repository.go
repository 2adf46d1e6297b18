package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainguest "frontdesk/internal/domain/guest"
)

type GuestRepository struct {
	col     *mongo.Collection
	credits *mongo.Collection
}

func NewGuestRepository(db *mongo.Database) *GuestRepository {
	return &GuestRepository{
		col:     db.Collection("crm_guest"),
		credits: db.Collection("crm_comp_credit"),
	}
}

func (r *GuestRepository) ByID(ctx context.Context, id domainguest.GuestID) (*domainguest.Guest, error) {
	var doc guestDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainguest.ErrGuestNotFound
		}
		return nil, err
	}
	return doc.toGuest(), nil
}

func (r *GuestRepository) Save(ctx context.Context, g *domainguest.Guest) error {
	doc := guestDocument{
		ID:         string(g.ID),
		FullName:   g.FullName,
		Email:      g.Email,
		Phone:      g.Phone,
		IDDocument: g.IDDocument,
		CreatedAt:  g.CreatedAt.UnixMilli(),
		UpdatedAt:  g.UpdatedAt.UnixMilli(),
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

// AddCompCredits accumulates refunded complimentary nights per guest and
// room type.
func (r *GuestRepository) AddCompCredits(ctx context.Context, id domainguest.GuestID, roomType string, nights int, notes string) error {
	filter := bson.M{"guest_id": string(id), "room_type": roomType}
	update := bson.M{
		"$inc": bson.M{"nights": nights},
		"$set": bson.M{"notes": notes, "updated_at": time.Now().UTC().UnixMilli()},
	}
	_, err := r.credits.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

type guestDocument struct {
	ID         string `bson:"_id"`
	FullName   string `bson:"full_name"`
	Email      string `bson:"email,omitempty"`
	Phone      string `bson:"phone,omitempty"`
	IDDocument string `bson:"id_document,omitempty"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
}

func (d guestDocument) toGuest() *domainguest.Guest {
	return &domainguest.Guest{
		ID:         domainguest.GuestID(d.ID),
		FullName:   d.FullName,
		Email:      d.Email,
		Phone:      d.Phone,
		IDDocument: d.IDDocument,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}
