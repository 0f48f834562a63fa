package dto

import "time"

// CreateOrderRequest is the buyer checkout submission.
type CreateOrderRequest struct {
	BuyerName     string `json:"name"`
	BuyerEmail    string `json:"email"`
	DepositorName string `json:"depositorName"`
	SocialHandle  string `json:"socialHandle"`
	Amount        int64  `json:"amount"`
}

// CreateOrderResponse returns the generated order id.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID            string     `json:"id"`
	BuyerName     string     `json:"name"`
	BuyerEmail    string     `json:"email"`
	DepositorName string     `json:"depositorName"`
	SocialHandle  string     `json:"socialHandle,omitempty"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// OrderListResponse wraps the admin order listing.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}
