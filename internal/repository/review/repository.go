package review

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bookmint/inkwell/internal/database"
	"github.com/bookmint/inkwell/internal/entity"
)

var repoTracer = otel.Tracer("github.com/bookmint/inkwell/repository/review")

// ErrNotFound is returned when a review is missing.
var ErrNotFound = errors.New("review not found")

// Repository encapsulates read/write access for reviews.
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

// Create persists a new review.
func (r *Repository) Create(ctx context.Context, review *entity.Review) error {
	if review == nil {
		return errors.New("nil review")
	}
	ctx, span := repoTracer.Start(ctx, "ReviewRepository.Create", trace.WithAttributes(attribute.String("review.order_id", review.OrderID)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(review).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a review by primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	ctx, span := repoTracer.Start(ctx, "ReviewRepository.GetByID", trace.WithAttributes(attribute.String("review.id", id)))
	defer span.End()

	review := new(entity.Review)
	err := r.reader.NewSelect().Model(review).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return review, nil
}

// List returns all reviews, newest first.
func (r *Repository) List(ctx context.Context) ([]entity.Review, error) {
	ctx, span := repoTracer.Start(ctx, "ReviewRepository.List")
	defer span.End()

	var reviews []entity.Review
	err := r.reader.NewSelect().Model(&reviews).Order("created_at DESC").Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return reviews, nil
}

// Update edits a review's rating and content. Order linkage and the stored
// depositor claim are immutable after creation.
func (r *Repository) Update(ctx context.Context, id string, rating float64, content string) error {
	ctx, span := repoTracer.Start(ctx, "ReviewRepository.Update", trace.WithAttributes(attribute.String("review.id", id)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Review)(nil)).
		Set("rating = ?", rating).
		Set("content = ?", content).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		span.RecordError(err)
		return err
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}

// Delete removes a review permanently. Returns ErrNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, span := repoTracer.Start(ctx, "ReviewRepository.Delete", trace.WithAttributes(attribute.String("review.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.Review)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		span.RecordError(err)
		return err
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}
