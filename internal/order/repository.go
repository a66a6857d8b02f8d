package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bazaar-be/internal/fault"
	"bazaar-be/internal/sales"

	"github.com/lib/pq"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o Order) (Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string, limit, page *int32) ([]*Order, error)
	SetOrderStatusTx(ctx context.Context, id string, from, to OrderStatus, saleRows []sales.Sale) error
	SetPaymentStatusTx(ctx context.Context, id string, from, to PaymentStatus, saleRows []sales.Sale) error
	CancelTx(ctx context.Context, id string, from OrderStatus) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, order_number, user_id, order_status, payment_status,
	total_order_amount, shipping_cost, tax_amount, discount_amount,
	created_at, updated_at`

const orderItemColumns = `
	id, order_id, product_id, vendor_id, store_id,
	title, imageurl, attributes, price, quantity`

// CreateOrderTx inserts the order and its item snapshots, decrementing
// stock for every item in the same transaction. Any item without enough
// stock aborts the whole order.
func (r *repository) CreateOrderTx(ctx context.Context, o Order) (Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, fmt.Errorf("begin tx failed: %w", err)
	}
	defer tx.Rollback()

	for _, item := range o.Items {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $2, qty = qty + $2, updated_at = now()
			WHERE id = $1 AND stock - $2 >= 0
		`, item.ProductID, item.Quantity)
		if err != nil {
			return Order{}, fmt.Errorf("stock update failed: %w", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				"SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)", item.ProductID,
			).Scan(&exists); err != nil {
				return Order{}, err
			}
			if !exists {
				return Order{}, fault.NotFoundf("product %s", item.ProductID)
			}
			return Order{}, fmt.Errorf("%s: %w", item.Title, fault.ErrInsufficientStock)
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (order_number, user_id, order_status, payment_status,
			total_order_amount, shipping_cost, tax_amount, discount_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, o.OrderNumber, o.UserID, o.OrderStatus, o.PaymentStatus,
		o.TotalOrderAmount, o.ShippingCost, o.TaxAmount, o.DiscountAmount,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == fault.PgUniqueViolation {
			return Order{}, fmt.Errorf("%s: %w", o.OrderNumber, ErrDuplicateOrderNumber)
		}
		return Order{}, fmt.Errorf("insert order failed: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, vendor_id, store_id,
				title, imageurl, attributes, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`, item.OrderID, item.ProductID, item.VendorID, item.StoreID,
			item.Title, item.ImageURL, item.Attributes, item.Price, item.Quantity,
		).Scan(&item.ID)
		if err != nil {
			return Order{}, fmt.Errorf("insert order item failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, fmt.Errorf("commit failed: %w", err)
	}
	return o, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx,
		"SELECT"+orderColumns+" FROM orders WHERE id = $1", id,
	).Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.OrderStatus, &o.PaymentStatus,
		&o.TotalOrderAmount, &o.ShippingCost, &o.TaxAmount, &o.DiscountAmount,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fault.NotFoundf("order %s", id)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.itemsByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *repository) itemsByOrder(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT"+orderItemColumns+" FROM order_items WHERE order_id = $1 ORDER BY id", orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("query items failed: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.VendorID, &it.StoreID,
			&it.Title, &it.ImageURL, &it.Attributes, &it.Price, &it.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID string, limit, page *int32) ([]*Order, error) {
	finalLimit := int32(20)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	finalPage := int32(1)
	if page != nil && *page > 0 {
		finalPage = *page
	}
	offset := (finalPage - 1) * finalLimit

	rows, err := r.db.QueryContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, finalLimit, offset)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Order, 0, finalLimit)
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.UserID, &o.OrderStatus, &o.PaymentStatus,
			&o.TotalOrderAmount, &o.ShippingCost, &o.TaxAmount, &o.DiscountAmount,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		result = append(result, &o)
	}
	return result, rows.Err()
}

// SetOrderStatusTx advances the order status, guarded on the expected
// current status so concurrent updates cannot skip a step. When saleRows
// is non-empty the ledger entries land in the same transaction; a retry
// that finds them already present is a no-op.
func (r *repository) SetOrderStatusTx(ctx context.Context, id string, from, to OrderStatus, saleRows []sales.Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET order_status = $2, updated_at = now()
		WHERE id = $1 AND order_status = $3
	`, id, to, from)
	if err != nil {
		return fmt.Errorf("status update failed: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fault.Transitionf("order %s is no longer %s", id, from)
	}

	if err := insertSales(ctx, tx, saleRows); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repository) SetPaymentStatusTx(ctx context.Context, id string, from, to PaymentStatus, saleRows []sales.Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET payment_status = $2, updated_at = now()
		WHERE id = $1 AND payment_status = $3
	`, id, to, from)
	if err != nil {
		return fmt.Errorf("payment update failed: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fault.Transitionf("order %s payment is no longer %s", id, from)
	}

	if err := insertSales(ctx, tx, saleRows); err != nil {
		return err
	}
	return tx.Commit()
}

func insertSales(ctx context.Context, tx *sql.Tx, rows []sales.Sale) error {
	for _, s := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sales (order_id, order_item_id, vendor_id, store_id, product_id,
				total, commission, product_price, product_qty, is_paid)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (order_item_id) DO NOTHING
		`, s.OrderID, s.OrderItemID, s.VendorID, s.StoreID, s.ProductID,
			s.Total, s.Commission, s.ProductPrice, s.ProductQty, s.IsPaid)
		if err != nil {
			return fmt.Errorf("insert sale failed: %w", err)
		}
	}
	return nil
}

// CancelTx flips the order to CANCELED and returns every item's quantity
// to stock. The status guard in the WHERE clause keeps a concurrently
// shipped order from being canceled.
func (r *repository) CancelTx(ctx context.Context, id string, from OrderStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET order_status = $2, updated_at = now()
		WHERE id = $1 AND order_status = $3
	`, id, StatusCanceled, from)
	if err != nil {
		return fmt.Errorf("cancel update failed: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("order %s: %w", id, ErrOrderNotPending)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products p
		SET stock = p.stock + oi.quantity, qty = p.qty - oi.quantity, updated_at = now()
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id
	`, id)
	if err != nil {
		return fmt.Errorf("stock restore failed: %w", err)
	}

	return tx.Commit()
}
