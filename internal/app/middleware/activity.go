package middleware

import (
	"context"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/outbox"
)

// ActivityRecording hands every command a recorder and writes the events it
// raised to the outbox once it succeeds. A failed command leaves no activity.
// Commands dispatched from inside a handler share the outer recorder.
func ActivityRecording(box outbox.Outbox, encoder outbox.EventEncoder) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		return commands.BusFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if _, nested := outbox.RecorderFromContext(ctx); nested {
				return next.Dispatch(ctx, cmd)
			}
			ctx, recorder := outbox.WithRecorder(ctx)
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := outbox.RecordDomainEvents(ctx, box, encoder, recorder.PendingEvents()); err != nil {
				return nil, err
			}
			recorder.ClearEvents()
			return res, nil
		})
	}
}
