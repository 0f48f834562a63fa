package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/internal/config"
	"github.com/bookmint/inkwell/internal/mailer"
	"github.com/bookmint/inkwell/internal/messaging"
	ordersvc "github.com/bookmint/inkwell/internal/service/order"
	"github.com/bookmint/inkwell/internal/worker"
)

var workerTracer = otel.Tracer("github.com/bookmint/inkwell/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewLifecycleHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewLifecycleHandler consumes order lifecycle events from the orders topic
// and records fulfillment activity for the admin audit trail.
func NewLifecycleHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}

		switch event.Type {
		case ordersvc.EventOrderCreated:
			logger.Info("order awaiting payment confirmation",
				zap.String("id", mailer.ShortOrderID(event.ID)),
				zap.Int64("amount", event.Amount),
			)
		case ordersvc.EventOrderCompleted:
			logger.Info("order fulfilled",
				zap.String("id", mailer.ShortOrderID(event.ID)),
				zap.String("status", event.Status),
			)
		default:
			logger.Warn("unknown order event type", zap.String("type", event.Type))
		}

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
