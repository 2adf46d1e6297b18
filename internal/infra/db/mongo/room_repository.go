package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainroom "frontdesk/internal/domain/room"
)

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("inv_room")}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.RoomID) (*domainroom.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainroom.ErrRoomNotFound
		}
		return nil, err
	}
	return doc.toRoom(), nil
}

func (r *RoomRepository) All(ctx context.Context) ([]*domainroom.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]*domainroom.Room, 0)
	for cursor.Next(ctx) {
		var doc roomDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRoom())
	}
	return out, cursor.Err()
}

func (r *RoomRepository) Save(ctx context.Context, rm *domainroom.Room) error {
	doc := roomDocument{
		ID:           string(rm.ID),
		Number:       rm.Number,
		Type:         rm.Type,
		Rate:         newMoneyDocument(rm.Rate),
		Available:    rm.Available,
		MaxExtraBeds: rm.MaxExtraBeds,
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type roomDocument struct {
	ID           string        `bson:"_id"`
	Number       string        `bson:"number"`
	Type         string        `bson:"type"`
	Rate         moneyDocument `bson:"rate"`
	Available    bool          `bson:"available"`
	MaxExtraBeds int           `bson:"max_extra_beds"`
}

func (d roomDocument) toRoom() *domainroom.Room {
	return &domainroom.Room{
		ID:           domainroom.RoomID(d.ID),
		Number:       d.Number,
		Type:         d.Type,
		Rate:         d.Rate.toMoney(),
		Available:    d.Available,
		MaxExtraBeds: d.MaxExtraBeds,
	}
}
