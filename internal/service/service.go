package service

import (
	"context"
	"log/slog"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/result"
)

const (
	TopicUserEvents  = "user_events"
	TopicOrderEvents = "order_events"
)

type base struct {
	log    *slog.Logger
	events EventPublisher
}

func (b base) logger(ctx context.Context, svc string) *slog.Logger {
	return logging.FromContextOr(ctx, b.log).With("svc", svc)
}

// fail turns an error returned from a unit of work into a Result. Domain
// violations keep their status and message; anything else is logged and
// reported as an internal error.
func fail[T any](l *slog.Logger, event string, err error) result.Result[T] {
	if v, ok := result.AsViolation(err); ok {
		l.Warn(event, "status", v.Status.HTTPCode(), "reason", v.Message)
		return result.FromViolation[T](v)
	}
	l.Error(event, "status", 500, "error", err)
	return result.Internal[T]()
}

// publish sends an event best-effort. Failures are logged and dropped.
func (b base) publish(ctx context.Context, l *slog.Logger, topic, key string, event any) {
	if b.events == nil {
		return
	}
	if err := b.events.PublishEvent(ctx, topic, key, event); err != nil {
		l.Warn("publish_event_failed", "topic", topic, "error", err)
	}
}
