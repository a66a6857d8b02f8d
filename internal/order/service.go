package order

import (
	"context"
	"errors"
	"fmt"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/cache"
	"bazaar-be/internal/cart"
	"bazaar-be/internal/fault"
	"bazaar-be/internal/logger"
	"bazaar-be/internal/metrics"
	"bazaar-be/internal/notify"
	"bazaar-be/internal/product"
	"bazaar-be/internal/sales"
	"bazaar-be/internal/user"
	"bazaar-be/internal/utils"

	"go.uber.org/zap"
)

// orderNumberRetries bounds regeneration attempts on an order number
// collision.
const orderNumberRetries = 3

type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput, actor auth.Actor) (*Order, error)
	GetOrderDetail(ctx context.Context, orderID string, actor auth.Actor) (*Order, error)
	ListMyOrders(ctx context.Context, actor auth.Actor, limit, page *int32) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, to OrderStatus, actor auth.Actor) (*Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, to PaymentStatus, actor auth.Actor) (*Order, error)
	Cancel(ctx context.Context, orderID string, actor auth.Actor) error
}

type service struct {
	repo           Repository
	productRepo    product.Repository
	cartRepo       cart.Repository
	userRepo       user.Repository
	notifier       notify.Notifier
	invalidator    cache.Invalidator
	commissionRate float64
}

func NewService(
	repo Repository,
	productRepo product.Repository,
	cartRepo cart.Repository,
	userRepo user.Repository,
	notifier notify.Notifier,
	invalidator cache.Invalidator,
	commissionRate float64,
) Service {
	return &service{
		repo:           repo,
		productRepo:    productRepo,
		cartRepo:       cartRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		invalidator:    invalidator,
		commissionRate: commissionRate,
	}
}

// PlaceOrder snapshots every requested product into order items, reserves
// stock, and opens the order as PENDING with payment PENDING. Ordered
// products are cleared from the buyer's cart afterwards.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput, actor auth.Actor) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.String("user_id", actor.UserID),
	)

	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrEmptyOrder, fault.ErrValidation)
	}

	o := Order{
		OrderNumber:    utils.GenerateOrderNumber(),
		UserID:         actor.UserID,
		OrderStatus:    StatusPending,
		PaymentStatus:  PaymentPending,
		ShippingCost:   input.ShippingCost,
		TaxAmount:      input.TaxAmount,
		DiscountAmount: input.DiscountAmount,
	}

	productIDs := make([]string, 0, len(input.Items))
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, fault.Validationf("quantity must be positive for product %s", line.ProductID)
		}

		p, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Status != product.StatusActive || !p.IsActive {
			return nil, fault.Validationf("product %s is not available for purchase", p.Title)
		}

		price := p.Price
		if p.IsDiscount && p.SalePrice != nil {
			price = *p.SalePrice
		}

		o.Items = append(o.Items, OrderItem{
			ProductID: p.ID,
			VendorID:  p.VendorID,
			StoreID:   p.StoreID,
			Title:     p.Title,
			ImageURL:  p.ImageURL,
			Price:     price,
			Quantity:  line.Quantity,
		})
		o.TotalOrderAmount += price * float64(line.Quantity)
		productIDs = append(productIDs, p.ID)
	}
	o.TotalOrderAmount += o.ShippingCost + o.TaxAmount - o.DiscountAmount

	// The order number carries a random suffix; on the rare collision a
	// fresh number is generated and the insert retried.
	var created Order
	for attempt := 0; ; attempt++ {
		c, err := s.repo.CreateOrderTx(ctx, o)
		if err == nil {
			created = c
			break
		}
		if errors.Is(err, ErrDuplicateOrderNumber) && attempt < orderNumberRetries {
			o.OrderNumber = utils.GenerateOrderNumber()
			log.Warn("order number collided, retrying", zap.Error(err))
			continue
		}
		log.Error("order creation failed", zap.Error(err))
		return nil, err
	}

	if err := s.cartRepo.RemoveFromCart(ctx, actor.UserID, productIDs); err != nil {
		log.Warn("cart cleanup failed", zap.Error(err))
	}
	s.invalidator.Invalidate(ctx, cache.PathOrderList, cache.PathProductList)

	log.Info("order placed",
		zap.String("order_id", created.ID),
		zap.String("order_number", created.OrderNumber),
		zap.Int("items", len(created.Items)),
	)
	return &created, nil
}

func (s *service) GetOrderDetail(ctx context.Context, orderID string, actor auth.Actor) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && o.UserID != actor.UserID {
		return nil, fault.NotFoundf("order %s", orderID)
	}
	return o, nil
}

func (s *service) ListMyOrders(ctx context.Context, actor auth.Actor, limit, page *int32) ([]*Order, error) {
	return s.repo.ListByUser(ctx, actor.UserID, limit, page)
}

// UpdateOrderStatus advances fulfillment one step. Delivery of a paid
// order also records a sale per order item; the ledger insert is
// idempotent, so replaying the delivery cannot double-count.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID string, to OrderStatus, actor auth.Actor) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.String("order_id", orderID),
	)

	if err := auth.Can(actor, auth.ActionOrderUpdate, auth.Resource{Kind: "order", ID: orderID}); err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransitionOrder(o.OrderStatus, to) {
		return nil, fault.Transitionf("order status %s cannot move to %s", o.OrderStatus, to)
	}

	// Cancellation returns reserved stock, so it always goes through the
	// cancel transaction rather than a plain status flip.
	if to == StatusCanceled {
		if err := s.repo.CancelTx(ctx, orderID, o.OrderStatus); err != nil {
			return nil, err
		}

		from := o.OrderStatus
		o.OrderStatus = StatusCanceled
		s.notifyStatusChange(ctx, o, string(from), string(StatusCanceled))
		s.invalidator.Invalidate(ctx, cache.PathOrderList, cache.PathProductList)

		log.Info("order status updated",
			zap.String("from", string(from)),
			zap.String("to", string(StatusCanceled)),
		)
		return o, nil
	}

	var saleRows []sales.Sale
	if to == StatusDelivered && o.PaymentStatus == PaymentCompleted {
		saleRows = s.saleRows(o)
	}

	if err := s.repo.SetOrderStatusTx(ctx, orderID, o.OrderStatus, to, saleRows); err != nil {
		return nil, err
	}
	if len(saleRows) > 0 {
		metrics.SalesRecorded.Add(uint64(len(saleRows)))
	}

	from := o.OrderStatus
	o.OrderStatus = to
	s.notifyStatusChange(ctx, o, string(from), string(to))
	s.invalidator.Invalidate(ctx, cache.PathOrderList)

	log.Info("order status updated",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Int("sales_recorded", len(saleRows)),
	)
	return o, nil
}

// UpdatePaymentStatus moves the payment state machine. Completing payment
// on an already delivered order records the sales that delivery skipped.
func (s *service) UpdatePaymentStatus(ctx context.Context, orderID string, to PaymentStatus, actor auth.Actor) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdatePaymentStatus"),
		zap.String("order_id", orderID),
	)

	if err := auth.Can(actor, auth.ActionPaymentUpdate, auth.Resource{Kind: "order", ID: orderID}); err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransitionPayment(o.PaymentStatus, to) {
		return nil, fault.Transitionf("payment status %s cannot move to %s", o.PaymentStatus, to)
	}

	var saleRows []sales.Sale
	if to == PaymentCompleted && o.OrderStatus == StatusDelivered {
		saleRows = s.saleRows(o)
	}

	if err := s.repo.SetPaymentStatusTx(ctx, orderID, o.PaymentStatus, to, saleRows); err != nil {
		return nil, err
	}
	if len(saleRows) > 0 {
		metrics.SalesRecorded.Add(uint64(len(saleRows)))
	}

	from := o.PaymentStatus
	o.PaymentStatus = to

	log.Info("payment status updated",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Int("sales_recorded", len(saleRows)),
	)
	return o, nil
}

// Cancel aborts an order that has not shipped yet and returns its stock.
func (s *service) Cancel(ctx context.Context, orderID string, actor auth.Actor) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.String("order_id", orderID),
	)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := auth.Can(actor, auth.ActionOrderCancel, auth.Resource{Kind: "order", ID: orderID, OwnerID: o.UserID}); err != nil {
		return err
	}

	if o.OrderStatus != StatusPending && o.OrderStatus != StatusProcessing {
		return fmt.Errorf("order %s: %w", orderID, ErrOrderNotPending)
	}

	if err := s.repo.CancelTx(ctx, orderID, o.OrderStatus); err != nil {
		return err
	}

	s.notifyStatusChange(ctx, o, string(o.OrderStatus), string(StatusCanceled))
	s.invalidator.Invalidate(ctx, cache.PathOrderList, cache.PathProductList)

	log.Info("order canceled", zap.String("previous_status", string(o.OrderStatus)))
	return nil
}

func (s *service) saleRows(o *Order) []sales.Sale {
	rows := make([]sales.Sale, 0, len(o.Items))
	for _, it := range o.Items {
		rows = append(rows, sales.Compute(sales.ComputeParams{
			OrderID:     o.ID,
			OrderItemID: it.ID,
			VendorID:    it.VendorID,
			StoreID:     it.StoreID,
			ProductID:   it.ProductID,
			Price:       it.Price,
			Quantity:    it.Quantity,
		}, s.commissionRate))
	}
	return rows
}

func (s *service) notifyStatusChange(ctx context.Context, o *Order, from, to string) {
	recipient := o.UserID
	if buyer, err := s.userRepo.FindByID(ctx, o.UserID); err == nil {
		recipient = buyer.Email
	}
	s.notifier.Send(ctx, notify.Notification{
		Recipient: recipient,
		Template:  notify.TemplateOrderStatus,
		Payload: map[string]string{
			"order_number": o.OrderNumber,
			"from":         from,
			"to":           to,
		},
	})
}
