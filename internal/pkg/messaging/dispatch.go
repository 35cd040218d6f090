package messaging

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/event"
)

// Dispatch publishes events in order. Publishing is best-effort: failures are
// logged and dropped, and the remaining events are skipped once ctx is done.
// It returns the number of events the publisher accepted.
func Dispatch(ctx context.Context, publisher event.Publisher, logger *slog.Logger, events []event.Event) int {
	if logger == nil {
		logger = slog.Default()
	}

	accepted := 0
	for i, e := range events {
		if err := ctx.Err(); err != nil {
			logger.WarnContext(ctx, "event dispatch skipped",
				"channel", e.Channel,
				"remaining", len(events)-i,
				"error", err,
			)
			return accepted
		}
		if err := publisher.Publish(ctx, e.Channel, e.Payload); err != nil {
			logger.ErrorContext(ctx, "failed to publish event", "channel", e.Channel, "error", err)
			continue
		}
		accepted++
	}
	return accepted
}
