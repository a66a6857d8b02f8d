package order

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCanceled   OrderStatus = "CANCELED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// orderEdges is the fulfillment state machine: the linear happy path plus
// cancellation, which is only reachable before shipment.
var orderEdges = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCanceled},
	StatusProcessing: {StatusShipped, StatusCanceled},
	StatusShipped:    {StatusDelivered},
}

func CanTransitionOrder(from, to OrderStatus) bool {
	for _, next := range orderEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// paymentEdges: FAILED and REFUNDED are terminal.
var paymentEdges = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
}

func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, next := range paymentEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID               string        `json:"id"`
	OrderNumber      string        `json:"order_number"`
	UserID           string        `json:"user_id"`
	OrderStatus      OrderStatus   `json:"order_status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	TotalOrderAmount float64       `json:"total_order_amount"`
	ShippingCost     float64       `json:"shipping_cost"`
	TaxAmount        float64       `json:"tax_amount"`
	DiscountAmount   float64       `json:"discount_amount"`
	Items            []OrderItem   `json:"items"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        *time.Time    `json:"updated_at,omitempty"`
}

// OrderItem snapshots the product at purchase time so historical orders
// stay stable under later catalog edits.
type OrderItem struct {
	ID         string  `json:"id"`
	OrderID    string  `json:"order_id"`
	ProductID  string  `json:"product_id"`
	VendorID   string  `json:"vendor_id"`
	StoreID    string  `json:"store_id"`
	Title      string  `json:"title"`
	ImageURL   *string `json:"imageurl,omitempty"`
	Attributes *string `json:"attributes,omitempty"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type PlaceOrderItem struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	Items          []PlaceOrderItem
	ShippingCost   float64
	TaxAmount      float64
	DiscountAmount float64
}
