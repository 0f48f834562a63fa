package dto

import "time"

// CreateReviewRequest is a buyer-submitted review. The depositor name is the
// authorization claim matched against completed orders.
type CreateReviewRequest struct {
	DepositorName string  `json:"depositorName"`
	Rating        float64 `json:"rating"`
	Content       string  `json:"content"`
}

// CreateReviewResponse returns the generated review id.
type CreateReviewResponse struct {
	ReviewID string `json:"reviewId"`
}

// UpdateReviewRequest is the admin edit payload.
type UpdateReviewRequest struct {
	ID      string  `json:"id"`
	Rating  float64 `json:"rating"`
	Content string  `json:"content"`
}

// ReviewResponse represents a review as exposed via transport layers.
type ReviewResponse struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	AuthorName    string    `json:"author_name"`
	DepositorName string    `json:"depositor_name"`
	Rating        float64   `json:"rating"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReviewListResponse wraps the public review listing.
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
}
