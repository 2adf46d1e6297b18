package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"frontdesk/internal/app/commands"
)

// IdempotentCommand is implemented by commands that carry a client-supplied
// idempotency key. Replays with the same key return the stored result.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
}

type StoredResult struct {
	Payload   []byte
	CreatedAt time.Time
}

var ErrIdempotencyConflict = errors.New("middleware: idempotency key already in flight")

type IdempotencyStore interface {
	// Reserve claims the key. It returns the prior result when the key was
	// already completed, or ErrIdempotencyConflict while still in flight.
	Reserve(ctx context.Context, key string) (*StoredResult, error)
	Complete(ctx context.Context, key string, result StoredResult) error
	Release(ctx context.Context, key string) error
}

type ResultCodec interface {
	Encode(result any) ([]byte, error)
	Decode(payload []byte) (any, error)
}

// JSONResultCodec round-trips handler results as raw JSON. Callers receive
// json.RawMessage on replay and decode into their own type.
type JSONResultCodec struct{}

func (JSONResultCodec) Encode(result any) ([]byte, error) {
	return json.Marshal(result)
}

func (JSONResultCodec) Decode(payload []byte) (any, error) {
	return json.RawMessage(payload), nil
}

func Idempotency(store IdempotencyStore, codec ResultCodec) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idem, ok := cmd.(IdempotentCommand)
			if !ok || idem.IdempotencyKey() == "" {
				return nextFn(ctx, cmd)
			}
			key := cmd.Key() + ":" + idem.IdempotencyKey()

			prior, err := store.Reserve(ctx, key)
			if err != nil {
				return nil, err
			}
			if prior != nil {
				return codec.Decode(prior.Payload)
			}

			res, err := nextFn(ctx, cmd)
			if err != nil {
				_ = store.Release(ctx, key)
				return nil, err
			}
			payload, err := codec.Encode(res)
			if err != nil {
				_ = store.Release(ctx, key)
				return nil, err
			}
			if err := store.Complete(ctx, key, StoredResult{Payload: payload, CreatedAt: time.Now().UTC()}); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
