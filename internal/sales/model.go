package sales

import "time"

// Sale is the ledger record derived from one fulfilled order item. It is
// immutable after creation except for the settlement flag.
type Sale struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	OrderItemID  string    `json:"order_item_id"`
	VendorID     string    `json:"vendor_id"`
	StoreID      string    `json:"store_id"`
	ProductID    string    `json:"product_id"`
	Total        float64   `json:"total"`
	Commission   float64   `json:"commission"`
	ProductPrice float64   `json:"product_price"`
	ProductQty   int       `json:"product_qty"`
	IsPaid       bool      `json:"is_paid"`
	CreatedAt    time.Time `json:"created_at"`
}

// VendorTotals is one row of the top-vendors projection.
type VendorTotals struct {
	VendorID   string  `json:"vendor_id"`
	Total      float64 `json:"total"`
	Commission float64 `json:"commission"`
	ItemsSold  int     `json:"items_sold"`
}

// ComputeParams identifies the order item a sale is derived from.
type ComputeParams struct {
	OrderID     string
	OrderItemID string
	VendorID    string
	StoreID     string
	ProductID   string
	Price       float64
	Quantity    int
}

// Compute derives the ledger entry for one order item: total is
// price times quantity, commission is the marketplace's cut of that total.
// Deterministic and side-effect-free; the caller owns idempotency.
func Compute(p ComputeParams, commissionRate float64) Sale {
	total := p.Price * float64(p.Quantity)
	return Sale{
		OrderID:      p.OrderID,
		OrderItemID:  p.OrderItemID,
		VendorID:     p.VendorID,
		StoreID:      p.StoreID,
		ProductID:    p.ProductID,
		Total:        total,
		Commission:   total * commissionRate,
		ProductPrice: p.Price,
		ProductQty:   p.Quantity,
		IsPaid:       false,
	}
}
