package visit

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/bookmint/inkwell/internal/database"
	"github.com/bookmint/inkwell/internal/entity"
)

var repoTracer = otel.Tracer("github.com/bookmint/inkwell/repository/visit")

// Repository records and aggregates landing-page visits.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Insert records one visit.
func (r *Repository) Insert(ctx context.Context) error {
	ctx, span := repoTracer.Start(ctx, "VisitRepository.Insert")
	defer span.End()

	log := &entity.VisitLog{CreatedAt: time.Now().UTC()}
	_, err := r.writer.NewInsert().Model(log).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// Count returns the total number of recorded visits.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	ctx, span := repoTracer.Start(ctx, "VisitRepository.Count")
	defer span.End()

	count, err := r.reader.NewSelect().Model((*entity.VisitLog)(nil)).Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return 0, err
	}
	return int64(count), nil
}

// ListSince returns visit timestamps at or after the given instant.
func (r *Repository) ListSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	ctx, span := repoTracer.Start(ctx, "VisitRepository.ListSince")
	defer span.End()

	var logs []entity.VisitLog
	err := r.reader.NewSelect().Model(&logs).
		Column("created_at").
		Where("created_at >= ?", since).
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}

	times := make([]time.Time, 0, len(logs))
	for _, log := range logs {
		times = append(times, log.CreatedAt)
	}
	return times, nil
}
