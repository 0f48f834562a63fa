package visit

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/bookmint/inkwell/internal/presentation/http/response"
	service "github.com/bookmint/inkwell/internal/service/visit"
)

var httpTracer = otel.Tracer("github.com/bookmint/inkwell/transport/http/visit")

// Handler exposes visit tracking endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a visit Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/visits")
	g.POST("", h.log)
	g.GET("", h.count)
	g.GET("/daily", h.daily)
}

func (h *Handler) log(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "visits.log")
	defer span.End()

	if err := h.svc.Log(ctx); err != nil {
		return b.WithError(err).Build()
	}

	return b.Build()
}

func (h *Handler) count(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "visits.count")
	defer span.End()

	count, err := h.svc.Count(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]int64{"count": count}).Build()
}

func (h *Handler) daily(c echo.Context) error {
	b := response.New(c)

	days, _ := strconv.Atoi(c.QueryParam("days"))

	ctx, span := httpTracer.Start(c.Request().Context(), "visits.daily")
	defer span.End()

	daily, err := h.svc.Daily(ctx, days)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]any{"daily": daily}).Build()
}
