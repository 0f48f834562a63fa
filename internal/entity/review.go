package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Review is a post-purchase review authorized through a completed order.
// DepositorName holds the claim exactly as submitted, for audit; AuthorName is
// copied from the authorizing order's buyer name at creation. OrderID is not
// re-validated after creation, so deleting an order may orphan its reviews.
type Review struct {
	bun.BaseModel `bun:"table:reviews"`

	ID            string    `bun:",pk"`
	OrderID       string    `bun:"order_id"`
	AuthorName    string    `bun:"author_name"`
	DepositorName string    `bun:"depositor_name"`
	Rating        float64   `bun:"rating"`
	Content       string    `bun:"content"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
