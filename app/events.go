package app

import (
	"context"

	"fixcycle/pkg/events"

	"go.uber.org/zap"
)

// publishEvent emits a domain event without failing the request; event
// delivery is best-effort and a broker outage must not break the write path.
func publishEvent(ctx context.Context, publisher events.Publisher, exchange, name string, payload any) {
	if publisher == nil {
		return
	}

	headers := events.Headers{
		TraceID:       events.GenerateTraceID(),
		CorrelationID: events.GenerateCorrelationID(),
		Service:       "fixcycle",
	}

	event := events.NewEvent(name, events.EventVersionV1, payload, headers)

	if err := publisher.Publish(ctx, exchange, event, headers); err != nil {
		zap.L().Error("Failed to publish event",
			zap.String("event", name),
			zap.Error(err),
		)
	}
}
