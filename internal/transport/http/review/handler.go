package review

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bookmint/inkwell/internal/dto"
	"github.com/bookmint/inkwell/internal/entity"
	"github.com/bookmint/inkwell/internal/presentation/http/response"
	service "github.com/bookmint/inkwell/internal/service/review"
	"github.com/bookmint/inkwell/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/bookmint/inkwell/transport/http/review")

// Handler exposes review endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a review Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/reviews")
	g.POST("", h.create)
	g.GET("", h.list)
	g.PUT("", h.update)
	g.DELETE("", h.delete)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateReviewRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "reviews.create")
	defer span.End()

	review, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.CreateReviewResponse{ReviewID: review.ID}).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "reviews.list")
	defer span.End()

	reviews, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toListDTO(reviews)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	var payload dto.UpdateReviewRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "reviews.update", trace.WithAttributes(attribute.String("review.id", payload.ID)))
	defer span.End()

	if err := h.svc.Update(ctx, payload); err != nil {
		return b.WithError(err).Build()
	}

	return b.Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id := c.QueryParam("id")
	if id == "" {
		return b.WithError(errorbank.BadRequest("review id is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "reviews.delete", trace.WithAttributes(attribute.String("review.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.Build()
}

func toDTO(review *entity.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:            review.ID,
		OrderID:       review.OrderID,
		AuthorName:    review.AuthorName,
		DepositorName: review.DepositorName,
		Rating:        review.Rating,
		Content:       review.Content,
		CreatedAt:     review.CreatedAt,
	}
}

func toListDTO(reviews []entity.Review) dto.ReviewListResponse {
	out := dto.ReviewListResponse{Reviews: make([]dto.ReviewResponse, 0, len(reviews))}
	for i := range reviews {
		out.Reviews = append(out.Reviews, toDTO(&reviews[i]))
	}
	return out
}
