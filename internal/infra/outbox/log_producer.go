package outbox

import (
	"context"
	"log/slog"
)

// LogProducer writes events to the log when no broker is configured.
type LogProducer struct {
	Logger *slog.Logger
}

func (p LogProducer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "activity event", "topic", topic, "key", key, "request_id", headers["request_id"], "payload", string(payload))
	return nil
}
