package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type Repository interface {
	GetCartItemByUserAndProduct(ctx context.Context, userID, productID string) (*CartItem, error)
	CreateCartItem(ctx context.Context, userID, productID string, quantity int) (*CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id string, quantity int) (*CartItem, error)
	GetCartRows(ctx context.Context, userID string) ([]*CartRow, error)
	RemoveFromCart(ctx context.Context, userID string, productIDs []string) error
	ClearCart(ctx context.Context, userID string) error
	CountCartItems(ctx context.Context, userID string) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCartItemByUserAndProduct(ctx context.Context, userID, productID string) (*CartItem, error) {
	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM carts
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateCartItem(ctx context.Context, userID, productID string, quantity int) (*CartItem, error) {
	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (id, user_id, product_id, quantity)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, user_id, product_id, quantity, created_at, updated_at
	`, userID, productID, quantity).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateCartItemQuantity(ctx context.Context, id string, quantity int) (*CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var item CartItem
	err := r.db.QueryRowContext(ctx, `
		UPDATE carts SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, product_id, quantity, created_at, updated_at
	`, quantity, id).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) GetCartRows(ctx context.Context, userID string) ([]*CartRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id, c.product_id, p.title, p.price, p.imageurl, p.stock, c.quantity,
			p.vendor_id, p.store_id
		FROM carts c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var items []*CartRow
	for rows.Next() {
		var row CartRow
		if err := rows.Scan(
			&row.CartID, &row.ProductID, &row.Title, &row.Price, &row.ImageURL,
			&row.Stock, &row.Quantity, &row.VendorID, &row.StoreID,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		items = append(items, &row)
	}

	return items, rows.Err()
}

func (r *repository) RemoveFromCart(ctx context.Context, userID string, productIDs []string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM carts WHERE user_id = $1 AND product_id = ANY($2)",
		userID, pq.Array(productIDs),
	)
	return err
}

func (r *repository) ClearCart(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM carts WHERE user_id = $1", userID)
	return err
}

func (r *repository) CountCartItems(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM carts WHERE user_id = $1", userID,
	).Scan(&count)
	return count, err
}
