package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bazaar-be/internal/fault"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, rv Review) (Review, error)
	GetByID(ctx context.Context, id string) (*Review, error)
	SetApproval(ctx context.Context, id string, approved bool) (*Review, error)
	ListByProduct(ctx context.Context, productID string, approvedOnly bool, limit, page *int32) ([]*Review, error)
	HasPurchased(ctx context.Context, userID, productID string) (bool, error)
	RecomputeRating(ctx context.Context, productID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const reviewColumns = `
	id, product_id, user_id, rating, comment, is_approved, created_at, updated_at`

func (r *repository) Create(ctx context.Context, rv Review) (Review, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reviews (product_id, user_id, rating, comment, is_approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.IsApproved,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == fault.PgUniqueViolation {
			return Review{}, fault.Validationf("product already reviewed by this user")
		}
		return Review{}, fmt.Errorf("insert review failed: %w", err)
	}
	return rv, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Review, error) {
	var rv Review
	err := r.db.QueryRowContext(ctx,
		"SELECT"+reviewColumns+" FROM reviews WHERE id = $1", id,
	).Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.IsApproved, &rv.CreatedAt, &rv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fault.NotFoundf("review %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *repository) SetApproval(ctx context.Context, id string, approved bool) (*Review, error) {
	var rv Review
	err := r.db.QueryRowContext(ctx, `
		UPDATE reviews SET is_approved = $2, updated_at = now()
		WHERE id = $1
		RETURNING`+reviewColumns+`
	`, id, approved,
	).Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.IsApproved, &rv.CreatedAt, &rv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fault.NotFoundf("review %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID string, approvedOnly bool, limit, page *int32) ([]*Review, error) {
	finalLimit := int32(20)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	finalPage := int32(1)
	if page != nil && *page > 0 {
		finalPage = *page
	}
	offset := (finalPage - 1) * finalLimit

	query := "SELECT" + reviewColumns + " FROM reviews WHERE product_id = $1"
	if approvedOnly {
		query += " AND is_approved = true"
	}
	query += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"

	rows, err := r.db.QueryContext(ctx, query, productID, finalLimit, offset)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Review, 0, finalLimit)
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.IsApproved, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		result = append(result, &rv)
	}
	return result, rows.Err()
}

// HasPurchased reports whether the user has a delivered order containing
// the product. Only such buyers may review it.
func (r *repository) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id = $1 AND oi.product_id = $2 AND o.order_status = 'DELIVERED'
		)
	`, userID, productID).Scan(&exists)
	return exists, err
}

// RecomputeRating refreshes the product's aggregate from its approved
// reviews. When no approved review remains the aggregate keeps its last
// value, so the NULL average never overwrites the column.
func (r *repository) RecomputeRating(ctx context.Context, productID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products p
		SET rating = agg.avg_rating, updated_at = now()
		FROM (
			SELECT AVG(rating)::float8 AS avg_rating
			FROM reviews
			WHERE product_id = $1 AND is_approved = true
		) agg
		WHERE p.id = $1 AND agg.avg_rating IS NOT NULL
	`, productID)
	if err != nil {
		return fmt.Errorf("rating recompute failed: %w", err)
	}
	return nil
}
