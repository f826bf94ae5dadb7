package middleware

import (
	"context"
	"log/slog"
	"time"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/queries"
)

// CommandLogging logs every dispatched command with its outcome and duration.
func CommandLogging(logger *slog.Logger) CommandMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return commands.BusFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			logOutcome(ctx, logger, "command", cmd.Key(), time.Since(start), err)
			return res, err
		})
	}
}

// QueryLogging logs every query, page views included.
func QueryLogging(logger *slog.Logger) QueryMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next queries.Bus) queries.Bus {
		return queries.BusFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			logOutcome(ctx, logger, "query", q.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func logOutcome(ctx context.Context, logger *slog.Logger, kind, key string, took time.Duration, err error) {
	if err != nil {
		logger.WarnContext(ctx, kind+" failed", "key", key, "duration", took, "error", err)
		return
	}
	logger.DebugContext(ctx, kind+" handled", "key", key, "duration", took)
}
