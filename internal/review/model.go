package review

import "time"

// Review is a buyer's rating of a purchased product. Reviews enter the
// moderation queue unapproved and only approved ones count toward the
// product's aggregate rating.
type Review struct {
	ID         string     `json:"id"`
	ProductID  string     `json:"product_id"`
	UserID     string     `json:"user_id"`
	Rating     int        `json:"rating"`
	Comment    *string    `json:"comment,omitempty"`
	IsApproved bool       `json:"is_approved"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type AddReviewInput struct {
	ProductID string
	Rating    int
	Comment   *string
}
