package events

import (
	"context"
	"log/slog"

	"park-and-ride/internal/usecase"
)

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event usecase.Event) error {
	p.logger.InfoContext(ctx, "event",
		slog.String("type", event.Type),
		slog.String("key", event.Key),
		slog.Time("occurred_at", event.OccurredAt),
		slog.Any("payload", event.Payload))
	return nil
}
