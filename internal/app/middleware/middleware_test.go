package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/middleware"
	"frontdesk/internal/infra/storage/memory"
)

type echoCommand struct {
	Value string `validate:"required"`
	Idem  string
}

func (echoCommand) Key() string { return "test.echo" }

func (c echoCommand) IdempotencyKey() string { return c.Idem }

func newEchoBus(calls *int) *commands.InMemoryBus {
	bus := commands.NewInMemoryBus()
	bus.RegisterRaw("test.echo", func(ctx context.Context, cmd commands.Command) (any, error) {
		*calls++
		return cmd.(echoCommand).Value, nil
	})
	return bus
}

func TestValidationMiddleware(t *testing.T) {
	calls := 0
	bus := middleware.ChainCommands(newEchoBus(&calls), middleware.Validation(middleware.NewStructValidator()))

	_, err := bus.Dispatch(context.Background(), echoCommand{})
	assert.Error(t, err)
	assert.Zero(t, calls)

	res, err := bus.Dispatch(context.Background(), echoCommand{Value: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
}

func TestIdempotencyMiddleware(t *testing.T) {
	t.Run("replays the stored result", func(t *testing.T) {
		calls := 0
		store := memory.NewIdempotencyStore()
		bus := middleware.ChainCommands(newEchoBus(&calls), middleware.Idempotency(store, nil))

		first, err := bus.Dispatch(context.Background(), echoCommand{Value: "one", Idem: "req-1"})
		require.NoError(t, err)
		assert.Equal(t, "one", first)
		assert.Equal(t, 1, calls)

		second, err := bus.Dispatch(context.Background(), echoCommand{Value: "changed", Idem: "req-1"})
		require.NoError(t, err)
		assert.Equal(t, 1, calls, "handler must not run twice for the same key")

		raw, ok := second.(json.RawMessage)
		require.True(t, ok)
		var replayed string
		require.NoError(t, json.Unmarshal(raw, &replayed))
		assert.Equal(t, "one", replayed)
	})

	t.Run("commands without a key pass through", func(t *testing.T) {
		calls := 0
		store := memory.NewIdempotencyStore()
		bus := middleware.ChainCommands(newEchoBus(&calls), middleware.Idempotency(store, nil))

		_, err := bus.Dispatch(context.Background(), echoCommand{Value: "a"})
		require.NoError(t, err)
		_, err = bus.Dispatch(context.Background(), echoCommand{Value: "b"})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("failures release the key for retry", func(t *testing.T) {
		store := memory.NewIdempotencyStore()
		boom := errors.New("boom")
		failing := commands.NewInMemoryBus()
		attempts := 0
		failing.RegisterRaw("test.echo", func(ctx context.Context, cmd commands.Command) (any, error) {
			attempts++
			if attempts == 1 {
				return nil, boom
			}
			return cmd.(echoCommand).Value, nil
		})
		bus := middleware.ChainCommands(failing, middleware.Idempotency(store, nil))

		_, err := bus.Dispatch(context.Background(), echoCommand{Value: "x", Idem: "req-2"})
		assert.ErrorIs(t, err, boom)

		res, err := bus.Dispatch(context.Background(), echoCommand{Value: "x", Idem: "req-2"})
		require.NoError(t, err)
		assert.Equal(t, "x", res)
	})
}

func TestTransactionMiddleware(t *testing.T) {
	factory := memory.NewFactory()
	calls := 0
	bus := middleware.ChainCommands(newEchoBus(&calls), middleware.Transaction(factory, nil))

	res, err := bus.Dispatch(context.Background(), echoCommand{Value: "tx"})
	require.NoError(t, err)
	assert.Equal(t, "tx", res)
	assert.Equal(t, 1, calls)
}
