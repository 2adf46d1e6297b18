package middleware

import (
	"context"
	"log/slog"

	"frontdesk/internal/app/commands"
	"frontdesk/internal/app/outbox"
)

// OutboxFlush asks the outbox to push pending records after a successful
// command. Flush failures are logged, not returned: the records are already
// committed and the relay worker will retry them.
func OutboxFlush(box outbox.Outbox, log *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if box != nil {
				if flushErr := box.Flush(ctx); flushErr != nil && log != nil {
					log.WarnContext(ctx, "outbox flush failed",
						slog.String("command", cmd.Key()),
						slog.Any("error", flushErr),
					)
				}
			}
			return res, nil
		})
	}
}
