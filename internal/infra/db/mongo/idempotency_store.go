package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"frontdesk/internal/app/middleware"
)

const (
	idempotencyPending  = "pending"
	idempotencyComplete = "complete"
)

type IdempotencyStore struct {
	col *mongo.Collection
}

func NewIdempotencyStore(db *mongo.Database, ttl time.Duration) *IdempotencyStore {
	col := db.Collection("app_idempotency")
	if ttl <= 0 {
		ttl = time.Hour * 24 * 7
	}
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
	})
	return &IdempotencyStore{col: col}
}

// Reserve claims the key with a pending marker. A concurrent insert on the
// same _id means another request is in flight or already finished.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (*middleware.StoredResult, error) {
	doc := idempotencyDocument{
		ID:        key,
		State:     idempotencyPending,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.col.InsertOne(ctx, doc)
	if err == nil {
		return nil, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, err
	}

	var existing idempotencyDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&existing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, middleware.ErrIdempotencyConflict
		}
		return nil, err
	}
	if existing.State != idempotencyComplete {
		return nil, middleware.ErrIdempotencyConflict
	}
	return &middleware.StoredResult{Payload: existing.Payload, CreatedAt: existing.CreatedAt}, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, result middleware.StoredResult) error {
	update := bson.M{"$set": bson.M{
		"state":      idempotencyComplete,
		"payload":    result.Payload,
		"created_at": result.CreatedAt,
	}}
	_, err := s.col.UpdateByID(ctx, key, update, options.Update().SetUpsert(true))
	return err
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": key, "state": idempotencyPending})
	return err
}

type idempotencyDocument struct {
	ID        string    `bson:"_id"`
	State     string    `bson:"state"`
	Payload   []byte    `bson:"payload,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
