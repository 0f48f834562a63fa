package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/internal/cache"
	"github.com/bookmint/inkwell/internal/config"
	"github.com/bookmint/inkwell/internal/dto"
	"github.com/bookmint/inkwell/internal/entity"
	"github.com/bookmint/inkwell/internal/mailer"
	"github.com/bookmint/inkwell/internal/messaging"
	repo "github.com/bookmint/inkwell/internal/repository/order"
	"github.com/bookmint/inkwell/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/bookmint/inkwell/service/order")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Repository is the order persistence surface the service depends on.
type Repository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	Complete(ctx context.Context, id string, completedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// SettingsSource supplies a fresh download-email template snapshot per send.
type SettingsSource interface {
	DownloadEmailSettings(ctx context.Context) (mailer.DownloadSettings, error)
}

// Service encapsulates the order lifecycle: checkout, admin confirmation with
// e-book delivery, and admin listing/deletion.
type Service struct {
	repo      Repository
	settings  SettingsSource
	mail      mailer.Client
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Settings   SettingsSource
	Mail       mailer.Client
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		settings:  p.Settings,
		mail:      p.Mail,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// Create validates a checkout submission and persists it as a pending order.
func (s *Service) Create(ctx context.Context, req dto.CreateOrderRequest) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create")
	defer span.End()

	if req.BuyerName == "" || req.BuyerEmail == "" || req.DepositorName == "" || req.Amount == 0 {
		return nil, errorbank.BadRequest("name, email, depositor name, and amount are required")
	}
	if req.Amount < 0 {
		return nil, errorbank.BadRequest("amount must be a positive number")
	}
	if !emailPattern.MatchString(req.BuyerEmail) {
		return nil, errorbank.BadRequest("invalid email format")
	}

	order := &entity.Order{
		ID:            uuid.NewString(),
		BuyerName:     req.BuyerName,
		BuyerEmail:    req.BuyerEmail,
		DepositorName: req.DepositorName,
		SocialHandle:  req.SocialHandle,
		Amount:        req.Amount,
		Status:        entity.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("order.id", order.ID))

	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.String("id", order.ID), zap.Error(err))
	}

	s.publishOrderEvent(ctx, EventOrderCreated, order)
	return order, nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.String("id", id), zap.Error(err))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.String("id", id), zap.Error(err))
	}

	return order, nil
}

// List returns all orders for the admin dashboard, newest first.
func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Complete confirms payment for a pending order. The status transition is the
// durability boundary: once the conditional update succeeds the order is
// fulfilled, and the download email plus the lifecycle event are best-effort
// side effects whose failures are logged but never roll the transition back.
func (s *Service) Complete(ctx context.Context, id string) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Complete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	err := s.repo.Complete(ctx, id, time.Now().UTC())
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return errorbank.NotFound("order not found")
	case errors.Is(err, repo.ErrAlreadyCompleted):
		return errorbank.BadRequest("order already completed")
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to update order", errorbank.WithCause(err))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// Completion is already committed; report success and skip delivery.
		s.logger.Error("order completed but re-read failed", zap.String("id", id), zap.Error(err))
		s.invalidateCache(ctx, id)
		return nil
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.String("id", id), zap.Error(err))
	}

	if err := s.sendDownloadEmail(ctx, order); err != nil {
		s.logger.Error("download email failed; order remains completed",
			zap.String("id", order.ID),
			zap.Error(err),
		)
	}

	s.publishOrderEvent(ctx, EventOrderCompleted, order)
	return nil
}

// ResendDownloadEmail re-sends the delivery email for an already completed
// order. This is the manual retry path for a failed send; it never touches
// order state.
func (s *Service) ResendDownloadEmail(ctx context.Context, id string) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ResendDownloadEmail", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !order.Completed() {
		return errorbank.BadRequest("order is not completed")
	}

	if err := s.sendDownloadEmail(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "mail transport error")
		return errorbank.Internal("failed to send download email", errorbank.WithCause(err))
	}
	return nil
}

// Delete removes an order permanently. A missing order is not an error at
// this boundary, which makes the admin action idempotent.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	err := s.repo.Delete(ctx, id)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete order", errorbank.WithCause(err))
	}

	s.invalidateCache(ctx, id)
	return nil
}

func (s *Service) sendDownloadEmail(ctx context.Context, order *entity.Order) error {
	snapshot, err := s.settings.DownloadEmailSettings(ctx)
	if err != nil {
		// Template defaults still produce a deliverable email.
		s.logger.Warn("settings snapshot failed; using template defaults", zap.Error(err))
		snapshot = mailer.DownloadSettings{}
	}

	return s.mail.SendDownloadEmail(ctx, mailer.DownloadEmail{
		To:        order.BuyerEmail,
		BuyerName: order.BuyerName,
		OrderID:   order.ID,
		Settings:  snapshot,
	})
}

func (s *Service) publishOrderEvent(ctx context.Context, eventType string, order *entity.Order) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := OrderEvent{
		Type:       eventType,
		ID:         order.ID,
		Status:     order.Status,
		BuyerEmail: order.BuyerEmail,
		Amount:     order.Amount,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%s", order.ID)), payload); err != nil {
		s.logger.Error("publish order event", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *Service) cacheKey(id string) string {
	return fmt.Sprintf("orders:%s", id)
}

func (s *Service) getFromCache(ctx context.Context, id string) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}

func (s *Service) invalidateCache(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("orders cache delete failed", zap.String("id", id), zap.Error(err))
	}
}

// Event types published to the orders topic.
const (
	EventOrderCreated   = "order.created"
	EventOrderCompleted = "order.completed"
)

// OrderEvent is emitted on order lifecycle transitions.
type OrderEvent struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	BuyerEmail string    `json:"buyer_email"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
