package cart

import "time"

type CartItem struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	ProductID string     `json:"product_id"`
	Quantity  int        `json:"quantity"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CartRow is a cart item joined with the live product fields the
// storefront needs to render a line.
type CartRow struct {
	CartID    string  `json:"cart_id"`
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	ImageURL  *string `json:"imageurl,omitempty"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
	VendorID  string  `json:"vendor_id"`
	StoreID   string  `json:"store_id"`
}

type AddToCartParams struct {
	ProductID string
	Quantity  int
}

type UpdateCartParams struct {
	ProductID string
	Quantity  int
}
