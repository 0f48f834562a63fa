package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// VisitLog records a single landing-page visit.
type VisitLog struct {
	bun.BaseModel `bun:"table:visit_logs"`

	ID        int64     `bun:",pk,autoincrement"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
