package settings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/bookmint/inkwell/internal/database"
	"github.com/bookmint/inkwell/internal/entity"
)

var repoTracer = otel.Tracer("github.com/bookmint/inkwell/repository/settings")

// ErrNotFound is returned when the settings row has never been written.
var ErrNotFound = errors.New("site settings not found")

// Repository reads and writes the single site_settings row.
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

// Get fetches the settings row.
func (r *Repository) Get(ctx context.Context) (*entity.SiteSettings, error) {
	ctx, span := repoTracer.Start(ctx, "SettingsRepository.Get")
	defer span.End()

	settings := new(entity.SiteSettings)
	err := r.reader.NewSelect().Model(settings).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return settings, nil
}

// Upsert writes the settings document: updates the existing row when present,
// inserts the first row otherwise.
func (r *Repository) Upsert(ctx context.Context, settings *entity.SiteSettings) error {
	if settings == nil {
		return errors.New("nil settings")
	}
	ctx, span := repoTracer.Start(ctx, "SettingsRepository.Upsert")
	defer span.End()

	existing := new(entity.SiteSettings)
	err := r.writer.NewSelect().Model(existing).Column("id").Limit(1).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = r.writer.NewInsert().Model(settings).Exec(ctx)
	case err == nil:
		settings.ID = existing.ID
		_, err = r.writer.NewUpdate().Model(settings).WherePK().Exec(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
	}
	return err
}
