package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Order statuses. Orders only ever move pending -> completed.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// Order represents a single e-book purchase paid by manual bank transfer.
// DepositorName is the name on the transfer and doubles as the review
// authorization key; it may differ from BuyerName.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID            string     `bun:",pk"`
	BuyerName     string     `bun:"buyer_name"`
	BuyerEmail    string     `bun:"buyer_email"`
	DepositorName string     `bun:"depositor_name"`
	SocialHandle  string     `bun:"social_handle,nullzero"`
	Amount        int64      `bun:"amount"`
	Status        string     `bun:"status"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	CompletedAt   *time.Time `bun:"completed_at,nullzero"`
}

// Completed reports whether payment has been confirmed by an administrator.
func (o *Order) Completed() bool {
	return o.Status == OrderStatusCompleted
}
