package order

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bookmint/inkwell/internal/dto"
	"github.com/bookmint/inkwell/internal/entity"
	"github.com/bookmint/inkwell/internal/presentation/http/response"
	service "github.com/bookmint/inkwell/internal/service/order"
	"github.com/bookmint/inkwell/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/bookmint/inkwell/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.POST("", h.create)
	g.GET("", h.list)
	g.DELETE("", h.delete)
	g.POST("/:id/complete", h.complete)
	g.POST("/:id/resend-email", h.resendEmail)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateOrderRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	defer span.End()

	order, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.CreateOrderResponse{OrderID: order.ID}).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toListDTO(orders)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id := c.QueryParam("id")
	if id == "" {
		return b.WithError(errorbank.BadRequest("order id is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.Build()
}

func (h *Handler) complete(c echo.Context) error {
	b := response.New(c)

	id := c.Param("id")
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.complete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if err := h.svc.Complete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.Build()
}

func (h *Handler) resendEmail(c echo.Context) error {
	b := response.New(c)

	id := c.Param("id")
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.resendEmail", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if err := h.svc.ResendDownloadEmail(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.Build()
}

func toDTO(order *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            order.ID,
		BuyerName:     order.BuyerName,
		BuyerEmail:    order.BuyerEmail,
		DepositorName: order.DepositorName,
		SocialHandle:  order.SocialHandle,
		Amount:        order.Amount,
		Status:        order.Status,
		CreatedAt:     order.CreatedAt,
		CompletedAt:   order.CompletedAt,
	}
}

func toListDTO(orders []entity.Order) dto.OrderListResponse {
	out := dto.OrderListResponse{Orders: make([]dto.OrderResponse, 0, len(orders))}
	for i := range orders {
		out.Orders = append(out.Orders, toDTO(&orders[i]))
	}
	return out
}
