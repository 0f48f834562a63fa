package seeder

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/internal/database"
	"github.com/bookmint/inkwell/internal/entity"
)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Orders seeds example orders covering both lifecycle states.
func (s *Seeder) Orders(ctx context.Context) error {
	now := time.Now().UTC()
	completedAt := now.Add(-time.Hour)
	samples := []entity.Order{
		{
			ID:            uuid.NewString(),
			BuyerName:     "김민수",
			BuyerEmail:    "minsu@example.com",
			DepositorName: "김민수",
			SocialHandle:  "@minsu.reads",
			Amount:        13000,
			Status:        entity.OrderStatusPending,
			CreatedAt:     now,
		},
		{
			ID:            uuid.NewString(),
			BuyerName:     "이서연",
			BuyerEmail:    "seoyeon@example.com",
			DepositorName: "이서연",
			Amount:        13000,
			Status:        entity.OrderStatusCompleted,
			CreatedAt:     now.Add(-2 * time.Hour),
			CompletedAt:   &completedAt,
		},
	}

	for _, sample := range samples {
		order := sample
		_, err := s.db.NewInsert().Model(&order).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	}
	return nil
}

// Settings seeds the default site settings row when none exists.
func (s *Seeder) Settings(ctx context.Context) error {
	existing := new(entity.SiteSettings)
	err := s.db.NewSelect().Model(existing).Column("id").Limit(1).Scan(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	settings := &entity.SiteSettings{
		BankName:             "토스뱅크",
		AccountNumber:        "1908-6747-9631",
		AccountHolder:        "서영조",
		Price:                13000,
		OriginalPrice:        38000,
		SaleLabel:            "설날 세일",
		DownloadEmailSubject: "Download links",
		DownloadEmailHeading: "Download links",
		UpdatedAt:            time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(settings).Exec(ctx); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("seeded site settings")
	}
	return nil
}
