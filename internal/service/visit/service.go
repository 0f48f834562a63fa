package visit

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/bookmint/inkwell/service/visit")

const (
	defaultWindowDays = 14
	maxWindowDays     = 90
)

// Repository is the visit persistence surface the service depends on.
type Repository interface {
	Insert(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	ListSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

// DailyCount is one day's visit total in the stats window.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Service records landing-page visits and aggregates them for the admin
// dashboard.
type Service struct {
	repo   Repository
	loc    *time.Location
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Logger     *zap.Logger
}

// NewService wires a new Service instance. Daily buckets use the Seoul
// calendar, matching the storefront's audience.
func NewService(p Params) *Service {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return &Service{repo: p.Repository, loc: loc, logger: p.Logger}
}

// Log records a single visit.
func (s *Service) Log(ctx context.Context) error {
	ctx, span := serviceTracer.Start(ctx, "VisitService.Log")
	defer span.End()

	if err := s.repo.Insert(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to log visit", errorbank.WithCause(err))
	}
	return nil
}

// Count returns the all-time visit total.
func (s *Service) Count(ctx context.Context) (int64, error) {
	ctx, span := serviceTracer.Start(ctx, "VisitService.Count")
	defer span.End()

	count, err := s.repo.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return 0, errorbank.Internal("failed to count visits", errorbank.WithCause(err))
	}
	return count, nil
}

// Daily returns per-day visit counts for the trailing window. Days is clamped
// to [1, 90]; zero or negative falls back to the 14-day default. Every day in
// the window appears in the result, including zero-visit days.
func (s *Service) Daily(ctx context.Context, days int) ([]DailyCount, error) {
	ctx, span := serviceTracer.Start(ctx, "VisitService.Daily")
	defer span.End()

	if days <= 0 {
		days = defaultWindowDays
	}
	if days > maxWindowDays {
		days = maxWindowDays
	}

	now := time.Now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, -(days - 1))

	visits, err := s.repo.ListSince(ctx, start.UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load visit stats", errorbank.WithCause(err))
	}

	counts := make(map[string]int64, days)
	for _, visit := range visits {
		counts[visit.In(s.loc).Format("2006-01-02")]++
	}

	result := make([]DailyCount, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		result = append(result, DailyCount{Date: day, Count: counts[day]})
	}
	return result, nil
}
