package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bazaar-be/internal/fault"
	"bazaar-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, p Product) (Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	UpdateStatus(ctx context.Context, id string, status Status, isActive *bool) (*Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (stock int, lowStockAlert int, err error)
	ListByCategory(ctx context.Context, categoryID string, cursor *string, limit int32) ([]*Product, error)
	ListSimilar(ctx context.Context, productID string, categoryID, subCategoryID *string) ([]*Product, error)
	SetRating(ctx context.Context, id string, rating float64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	p.id, p.title, p.slug, p.description, p.imageurl,
	p.price, p.sale_price, p.discount, p.is_discount,
	p.stock, p.low_stock_alert, p.qty,
	p.is_active, p.is_featured, p.is_new_arrival, p.is_wholesale,
	p.status, p.rating,
	p.vendor_id, p.store_id,
	p.department_id, p.category_id, p.subcategory_id, p.brand_id,
	p.created_at, p.updated_at`

func scanProduct(s interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := s.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.ImageURL,
		&p.Price, &p.SalePrice, &p.Discount, &p.IsDiscount,
		&p.Stock, &p.LowStockAlert, &p.Qty,
		&p.IsActive, &p.IsFeatured, &p.IsNewArrival, &p.IsWholesale,
		&p.Status, &p.Rating,
		&p.VendorID, &p.StoreID,
		&p.DepartmentID, &p.CategoryID, &p.SubCategoryID, &p.BrandID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("slug", p.Slug),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			id, title, slug, description, imageurl,
			price, sale_price, discount, is_discount,
			stock, low_stock_alert, qty,
			is_active, is_featured, is_new_arrival, is_wholesale,
			status, rating,
			vendor_id, store_id,
			department_id, category_id, subcategory_id, brand_id
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15,
			$16, 0,
			$17, $18,
			$19, $20, $21, $22
		)
		RETURNING id, created_at
	`,
		p.Title, p.Slug, p.Description, p.ImageURL,
		p.Price, p.SalePrice, p.Discount, p.IsDiscount,
		p.Stock, p.LowStockAlert, p.Qty,
		p.IsActive, p.IsFeatured, p.IsNewArrival, p.IsWholesale,
		p.Status,
		p.VendorID, p.StoreID,
		p.DepartmentID, p.CategoryID, p.SubCategoryID, p.BrandID,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == fault.PgUniqueViolation {
			log.Warn("duplicate product title or slug", zap.Error(err))
			return Product{}, fmt.Errorf("%s: %w", ErrDuplicateListing, fault.ErrValidation)
		}
		log.Error("failed to insert product", zap.Error(err))
		return Product{}, err
	}

	return p, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT"+productColumns+" FROM products p WHERE p.id = $1", id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFoundf("product %s", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatus writes status and, when isActive is non-nil, the visibility
// flag in the same statement so the two can never diverge.
func (r *repository) UpdateStatus(ctx context.Context, id string, status Status, isActive *bool) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE products p
		SET status = $1,
		    is_active = COALESCE($2, is_active),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING`+productColumns+`
	`, status, isActive, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFoundf("product %s", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AdjustStock applies delta as a single conditional update so concurrent
// decrements cannot drive stock negative.
func (r *repository) AdjustStock(ctx context.Context, id string, delta int) (int, int, error) {
	var stock, alert int
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2 AND stock + $1 >= 0
		RETURNING stock, low_stock_alert
	`, delta, id).Scan(&stock, &alert)

	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", id,
		).Scan(&exists); err != nil {
			return 0, 0, err
		}
		if !exists {
			return 0, 0, fault.NotFoundf("product %s", id)
		}
		return 0, 0, fault.ErrInsufficientStock
	}
	if err != nil {
		return 0, 0, err
	}

	return stock, alert, nil
}

// ListByCategory returns up to limit rows ordered by
// (is_featured DESC, created_at DESC, id). The caller passes limit+1 to
// detect a further page; cursor is the id of the last row of the previous
// page and resolves to its sort key inside the query.
func (r *repository) ListByCategory(
	ctx context.Context,
	categoryID string,
	cursor *string,
	limit int32,
) ([]*Product, error) {

	query := "SELECT" + productColumns + `
		FROM products p
		WHERE p.is_active = true
		  AND p.status = 'ACTIVE'
		  AND p.category_id = $1
	`
	args := []interface{}{categoryID}

	if cursor != nil && *cursor != "" {
		query = "SELECT" + productColumns + `
			FROM products p,
			     (SELECT is_featured, created_at, id FROM products WHERE id = $2) AS last
			WHERE p.is_active = true
			  AND p.status = 'ACTIVE'
			  AND p.category_id = $1
			  AND (
			        (p.is_featured = false AND last.is_featured = true)
			     OR (p.is_featured = last.is_featured AND p.created_at < last.created_at)
			     OR (p.is_featured = last.is_featured AND p.created_at = last.created_at AND p.id > last.id)
			  )
		`
		args = append(args, *cursor)
	}

	query += fmt.Sprintf(`
		ORDER BY p.is_featured DESC, p.created_at DESC, p.id ASC
		LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	products := make([]*Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// ListSimilar prefers a subcategory match over the broader category; the
// two filters are never combined.
func (r *repository) ListSimilar(
	ctx context.Context,
	productID string,
	categoryID, subCategoryID *string,
) ([]*Product, error) {

	query := "SELECT" + productColumns + `
		FROM products p
		WHERE p.is_active = true
		  AND p.status = 'ACTIVE'
		  AND p.id <> $1
	`
	args := []interface{}{productID}

	switch {
	case subCategoryID != nil && *subCategoryID != "":
		query += fmt.Sprintf(" AND p.subcategory_id = $%d", len(args)+1)
		args = append(args, *subCategoryID)
	case categoryID != nil && *categoryID != "":
		query += fmt.Sprintf(" AND p.category_id = $%d", len(args)+1)
		args = append(args, *categoryID)
	}

	query += fmt.Sprintf(`
		ORDER BY p.is_featured DESC, p.created_at DESC, p.id ASC
		LIMIT $%d`, len(args)+1)
	args = append(args, similarPageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	products := make([]*Product, 0, similarPageSize)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) SetRating(ctx context.Context, id string, rating float64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET rating = $1, updated_at = NOW() WHERE id = $2",
		rating, id,
	)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fault.NotFoundf("product %s", id)
	}
	return nil
}
