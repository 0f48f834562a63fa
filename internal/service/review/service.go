package review

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/internal/dto"
	"github.com/bookmint/inkwell/internal/entity"
	"github.com/bookmint/inkwell/internal/mailer"
	repo "github.com/bookmint/inkwell/internal/repository/review"
	"github.com/bookmint/inkwell/pkg/errorbank"
	"github.com/bookmint/inkwell/pkg/namekey"
)

var serviceTracer = otel.Tracer("github.com/bookmint/inkwell/service/review")

// Shown to buyers whose claim matches no completed order. There is no account
// system; the depositor-name match is the sole authorization check.
const forbiddenMessage = "입금 확인 & 발송 완료된 주문만 후기 작성이 가능합니다."

// Repository is the review persistence surface the service depends on.
type Repository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	List(ctx context.Context) ([]entity.Review, error)
	Update(ctx context.Context, id string, rating float64, content string) error
	Delete(ctx context.Context, id string) error
}

// CompletedOrderLister supplies the completed orders the gate matches
// reviewer claims against.
type CompletedOrderLister interface {
	ListCompleted(ctx context.Context) ([]entity.Order, error)
}

// Service owns review authorization, persistence, and the thank-you email.
type Service struct {
	repo   Repository
	orders CompletedOrderLister
	mail   mailer.Client
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Orders     CompletedOrderLister
	Mail       mailer.Client
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:   p.Repository,
		orders: p.Orders,
		mail:   p.Mail,
		logger: p.Logger,
	}
}

// Authorize resolves a claimed depositor name to the completed order that
// vouches for it. Both the depositor-name and buyer-name fields are checked,
// since depositors type either interchangeably; matching is exact on
// canonical name keys. The first matching order in listing order wins when
// several completed orders share a name.
func (s *Service) Authorize(ctx context.Context, claimedName string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "ReviewService.Authorize")
	defer span.End()

	claim := namekey.Canonical(claimedName)
	if claim == "" {
		return nil, errorbank.Forbidden(forbiddenMessage)
	}

	orders, err := s.orders.ListCompleted(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to verify order", errorbank.WithCause(err))
	}

	for i := range orders {
		order := &orders[i]
		if namekey.Canonical(order.DepositorName) == claim || namekey.Canonical(order.BuyerName) == claim {
			span.SetAttributes(attribute.String("order.id", order.ID))
			return order, nil
		}
	}

	span.SetStatus(codes.Error, "no matching completed order")
	return nil, errorbank.Forbidden(forbiddenMessage)
}

// Create runs the gate and persists an authorized review, then sends a
// best-effort thank-you email to the authorizing order's buyer.
func (s *Service) Create(ctx context.Context, req dto.CreateReviewRequest) (*entity.Review, error) {
	ctx, span := serviceTracer.Start(ctx, "ReviewService.Create")
	defer span.End()

	rating, ok := normalizeRating(req.Rating)
	if req.DepositorName == "" || req.Content == "" || !ok {
		return nil, errorbank.BadRequest("depositor name, a valid rating, and content are required")
	}

	order, err := s.Authorize(ctx, req.DepositorName)
	if err != nil {
		return nil, err
	}

	review := &entity.Review{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		AuthorName:    order.BuyerName,
		DepositorName: req.DepositorName,
		Rating:        rating,
		Content:       req.Content,
		CreatedAt:     time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("review.id", review.ID))

	if err := s.repo.Create(ctx, review); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create review", errorbank.WithCause(err))
	}

	if order.BuyerEmail != "" {
		err := s.mail.SendReviewThankYou(ctx, mailer.ReviewThankYou{
			To:        order.BuyerEmail,
			BuyerName: order.BuyerName,
			Rating:    rating,
			Content:   req.Content,
		})
		if err != nil {
			s.logger.Error("review thank-you email failed", zap.String("review_id", review.ID), zap.Error(err))
		}
	}

	return review, nil
}

// List returns all reviews, newest first.
func (s *Service) List(ctx context.Context) ([]entity.Review, error) {
	ctx, span := serviceTracer.Start(ctx, "ReviewService.List")
	defer span.End()

	reviews, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list reviews", errorbank.WithCause(err))
	}
	return reviews, nil
}

// Update edits a review's rating and content. The order linkage and stored
// depositor claim are never re-validated here.
func (s *Service) Update(ctx context.Context, req dto.UpdateReviewRequest) error {
	ctx, span := serviceTracer.Start(ctx, "ReviewService.Update", trace.WithAttributes(attribute.String("review.id", req.ID)))
	defer span.End()

	rating, ok := normalizeRating(req.Rating)
	if req.ID == "" || req.Content == "" || !ok {
		return errorbank.BadRequest("id, a valid rating, and content are required")
	}

	err := s.repo.Update(ctx, req.ID, rating, req.Content)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("review not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to update review", errorbank.WithCause(err))
	}
	return nil
}

// Delete removes a review permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := serviceTracer.Start(ctx, "ReviewService.Delete", trace.WithAttributes(attribute.String("review.id", id)))
	defer span.End()

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("review not found")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete review", errorbank.WithCause(err))
	}
	return nil
}

// normalizeRating validates a submitted rating: it must already be a multiple
// of 0.5 (within a small epsilon of the rounded step) inside [0.5, 5].
func normalizeRating(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < 0.5 || v > 5 {
		return 0, false
	}
	step := math.Round(v*2) / 2
	if math.Abs(step-v) > 0.001 {
		return 0, false
	}
	return step, true
}
