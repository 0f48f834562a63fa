package settings

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/bookmint/inkwell/internal/dto"
	"github.com/bookmint/inkwell/internal/entity"
	"github.com/bookmint/inkwell/internal/presentation/http/response"
	service "github.com/bookmint/inkwell/internal/service/settings"
	"github.com/bookmint/inkwell/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/bookmint/inkwell/transport/http/settings")

// Handler exposes site settings endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a settings Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/settings")
	g.GET("", h.get)
	g.POST("", h.upsert)
}

func (h *Handler) get(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "settings.get")
	defer span.End()

	settings, err := h.svc.Get(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(settings)).Build()
}

func (h *Handler) upsert(c echo.Context) error {
	b := response.New(c)

	var payload dto.SettingsPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "settings.upsert")
	defer span.End()

	if err := h.svc.Upsert(ctx, payload); err != nil {
		return b.WithError(err).Build()
	}

	return b.Build()
}

func toDTO(settings *entity.SiteSettings) dto.SettingsResponse {
	return dto.SettingsResponse{
		Settings: dto.SettingsPayload{
			BankName:             settings.BankName,
			AccountNumber:        settings.AccountNumber,
			AccountHolder:        settings.AccountHolder,
			Price:                settings.Price,
			OriginalPrice:        settings.OriginalPrice,
			BookCoverURL:         settings.BookCoverURL,
			DownloadURLs:         settings.DownloadURLs,
			DownloadLinks:        settings.DownloadLinks,
			DownloadEmailText:    settings.DownloadEmailText,
			DownloadEmailSubject: settings.DownloadEmailSubject,
			DownloadEmailHeading: settings.DownloadEmailHeading,
			SaleEnabled:          settings.SaleEnabled,
			SaleLabel:            settings.SaleLabel,
			SaleEndAt:            settings.SaleEndAt,
		},
	}
}
