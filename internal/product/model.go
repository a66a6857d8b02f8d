package product

import "time"

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusPending  Status = "PENDING"
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPending, StatusActive, StatusInactive:
		return true
	}
	return false
}

type Product struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Description   *string    `json:"description,omitempty"`
	ImageURL      *string    `json:"imageurl,omitempty"`
	Price         float64    `json:"price"`
	SalePrice     *float64   `json:"sale_price,omitempty"`
	Discount      *float64   `json:"discount,omitempty"`
	IsDiscount    bool       `json:"is_discount"`
	Stock         int        `json:"stock"`
	LowStockAlert int        `json:"low_stock_alert"`
	Qty           int        `json:"qty"`
	IsActive      bool       `json:"is_active"`
	IsFeatured    bool       `json:"is_featured"`
	IsNewArrival  bool       `json:"is_new_arrival"`
	IsWholesale   bool       `json:"is_wholesale"`
	Status        Status     `json:"status"`
	Rating        float64    `json:"rating"`
	VendorID      string     `json:"vendor_id"`
	StoreID       string     `json:"store_id"`
	DepartmentID  string     `json:"department_id"`
	CategoryID    *string    `json:"category_id,omitempty"`
	SubCategoryID *string    `json:"subcategory_id,omitempty"`
	BrandID       *string    `json:"brand_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Draft carries the submission payload. VendorID/StoreID are only honored
// for administrator submissions; vendors always submit as themselves.
type Draft struct {
	Title         string
	Description   *string
	ImageURL      *string
	Price         float64
	SalePrice     *float64
	Discount      *float64
	IsDiscount    bool
	Stock         int
	LowStockAlert int
	Qty           int
	IsFeatured    bool
	IsNewArrival  bool
	IsWholesale   bool
	VendorID      string
	StoreID       string
	DepartmentID  string
	CategoryID    *string
	SubCategoryID *string
	BrandID       *string
}

// Page is one window of a cursor-paginated listing.
type Page struct {
	Items      []*Product `json:"items"`
	HasMore    bool       `json:"has_more"`
	NextCursor *string    `json:"next_cursor"`
}

const similarPageSize = 8
