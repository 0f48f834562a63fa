package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/internal/cache"
	"github.com/bookmint/inkwell/internal/config"
	"github.com/bookmint/inkwell/internal/dto"
	"github.com/bookmint/inkwell/internal/entity"
	"github.com/bookmint/inkwell/internal/mailer"
	repo "github.com/bookmint/inkwell/internal/repository/settings"
	"github.com/bookmint/inkwell/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/bookmint/inkwell/service/settings")

const cacheKey = "site_settings"

// Defaults shown before an administrator ever saves settings.
const (
	defaultBankName       = "토스뱅크"
	defaultAccountNumber  = "1908-6747-9631"
	defaultAccountHolder  = "서영조"
	defaultPrice          = 13000
	defaultOriginalPrice  = 38000
	defaultSaleLabel      = "설날 세일"
	defaultEmailSubject   = "Download links"
	defaultEmailHeading   = "Download links"
	maxStoredDownloadURLs = 10
)

// Repository is the settings persistence surface the service depends on.
type Repository interface {
	Get(ctx context.Context) (*entity.SiteSettings, error)
	Upsert(ctx context.Context, settings *entity.SiteSettings) error
}

// Service reads and writes the single-row storefront configuration.
type Service struct {
	repo     Repository
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:     p.Repository,
		cache:    p.Cache,
		cacheTTL: p.Config.Cache.DefaultTTL,
		logger:   p.Logger,
	}
}

// Get returns the stored settings, falling back to defaults when the row has
// never been written.
func (s *Service) Get(ctx context.Context) (*entity.SiteSettings, error) {
	ctx, span := serviceTracer.Start(ctx, "SettingsService.Get")
	defer span.End()

	if settings, err := s.getFromCache(ctx); err == nil {
		return settings, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("settings cache read failed", zap.Error(err))
	}

	settings, err := s.repo.Get(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		return defaultSettings(), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load settings", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, settings); err != nil {
		s.logger.Warn("settings cache write failed", zap.Error(err))
	}
	return settings, nil
}

// Upsert normalizes and persists the settings document, then drops the cache
// so the next read (and the next email send) sees the new template.
func (s *Service) Upsert(ctx context.Context, payload dto.SettingsPayload) error {
	ctx, span := serviceTracer.Start(ctx, "SettingsService.Upsert")
	defer span.End()

	settings := normalizePayload(payload)
	if err := s.repo.Upsert(ctx, settings); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to save settings", errorbank.WithCause(err))
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			s.logger.Warn("settings cache delete failed", zap.Error(err))
		}
	}
	return nil
}

// DownloadEmailSettings returns a fresh template snapshot for the mailer. It
// always bypasses the cache: a stale template must never decide which
// download links a buyer receives.
func (s *Service) DownloadEmailSettings(ctx context.Context) (mailer.DownloadSettings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		settings = defaultSettings()
	} else if err != nil {
		return mailer.DownloadSettings{}, fmt.Errorf("load settings: %w", err)
	}

	return mailer.DownloadSettings{
		Subject: settings.DownloadEmailSubject,
		Heading: settings.DownloadEmailHeading,
		Body:    settings.DownloadEmailText,
		Links:   settings.DownloadLinks,
		URLs:    settings.DownloadURLs,
	}, nil
}

func defaultSettings() *entity.SiteSettings {
	return &entity.SiteSettings{
		BankName:             defaultBankName,
		AccountNumber:        defaultAccountNumber,
		AccountHolder:        defaultAccountHolder,
		Price:                defaultPrice,
		OriginalPrice:        defaultOriginalPrice,
		SaleLabel:            defaultSaleLabel,
		DownloadEmailSubject: defaultEmailSubject,
		DownloadEmailHeading: defaultEmailHeading,
	}
}

// normalizePayload trims and filters the admin submission the same way reads
// expect it: blank URLs dropped, link names trimmed, defaults restored for
// empty subject/heading/sale label.
func normalizePayload(payload dto.SettingsPayload) *entity.SiteSettings {
	urls := make([]string, 0, len(payload.DownloadURLs))
	for _, url := range payload.DownloadURLs {
		if trimmed := strings.TrimSpace(url); trimmed != "" && len(urls) < maxStoredDownloadURLs {
			urls = append(urls, trimmed)
		}
	}

	links := make([]entity.DownloadLink, 0, len(payload.DownloadLinks))
	for _, link := range payload.DownloadLinks {
		url := strings.TrimSpace(link.URL)
		if url == "" {
			continue
		}
		links = append(links, entity.DownloadLink{Name: strings.TrimSpace(link.Name), URL: url})
	}

	subject := strings.TrimSpace(payload.DownloadEmailSubject)
	if subject == "" {
		subject = defaultEmailSubject
	}
	heading := strings.TrimSpace(payload.DownloadEmailHeading)
	if heading == "" {
		heading = defaultEmailHeading
	}
	saleLabel := strings.TrimSpace(payload.SaleLabel)
	if saleLabel == "" {
		saleLabel = defaultSaleLabel
	}

	return &entity.SiteSettings{
		BankName:             payload.BankName,
		AccountNumber:        payload.AccountNumber,
		AccountHolder:        payload.AccountHolder,
		Price:                payload.Price,
		OriginalPrice:        payload.OriginalPrice,
		BookCoverURL:         payload.BookCoverURL,
		DownloadURLs:         urls,
		DownloadLinks:        links,
		DownloadEmailText:    payload.DownloadEmailText,
		DownloadEmailSubject: subject,
		DownloadEmailHeading: heading,
		SaleEnabled:          payload.SaleEnabled,
		SaleLabel:            saleLabel,
		SaleEndAt:            payload.SaleEndAt,
		UpdatedAt:            time.Now().UTC(),
	}
}

func (s *Service) getFromCache(ctx context.Context) (*entity.SiteSettings, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		return nil, err
	}
	var settings entity.SiteSettings
	if err := json.Unmarshal(bytes, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Service) storeInCache(ctx context.Context, settings *entity.SiteSettings) error {
	if s.cache == nil || settings == nil {
		return nil
	}
	bytes, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, cacheKey, bytes, s.cacheTTL)
}
