package sales

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bazaar-be/internal/fault"
)

type Repository interface {
	Settle(ctx context.Context, saleID string) error
	GetByID(ctx context.Context, saleID string) (*Sale, error)
	ListByVendor(ctx context.Context, vendorID string, limit, page *int32) ([]*Sale, error)
	TotalSalesAmount(ctx context.Context, from, to time.Time, vendorID *string) (float64, error)
	TotalCommission(ctx context.Context, from, to time.Time, vendorID *string) (float64, error)
	TopVendors(ctx context.Context, from, to time.Time, limit int32) ([]*VendorTotals, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const saleColumns = `
	id, order_id, order_item_id, vendor_id, store_id, product_id,
	total, commission, product_price, product_qty, is_paid, created_at`

// Settle marks the sale as paid out. There is no reverse operation.
func (r *repository) Settle(ctx context.Context, saleID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sales SET is_paid = true WHERE id = $1", saleID,
	)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fault.NotFoundf("sale %s", saleID)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, saleID string) (*Sale, error) {
	var s Sale
	err := r.db.QueryRowContext(ctx,
		"SELECT"+saleColumns+" FROM sales WHERE id = $1", saleID,
	).Scan(
		&s.ID, &s.OrderID, &s.OrderItemID, &s.VendorID, &s.StoreID, &s.ProductID,
		&s.Total, &s.Commission, &s.ProductPrice, &s.ProductQty, &s.IsPaid, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fault.NotFoundf("sale %s", saleID)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListByVendor(ctx context.Context, vendorID string, limit, page *int32) ([]*Sale, error) {
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
		SELECT`+saleColumns+`
		FROM sales
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, vendorID, finalLimit, offset)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Sale, 0, finalLimit)
	for rows.Next() {
		var s Sale
		if err := rows.Scan(
			&s.ID, &s.OrderID, &s.OrderItemID, &s.VendorID, &s.StoreID, &s.ProductID,
			&s.Total, &s.Commission, &s.ProductPrice, &s.ProductQty, &s.IsPaid, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		result = append(result, &s)
	}

	return result, rows.Err()
}

func (r *repository) TotalSalesAmount(ctx context.Context, from, to time.Time, vendorID *string) (float64, error) {
	return r.sumColumn(ctx, "total", from, to, vendorID)
}

func (r *repository) TotalCommission(ctx context.Context, from, to time.Time, vendorID *string) (float64, error) {
	return r.sumColumn(ctx, "commission", from, to, vendorID)
}

func (r *repository) sumColumn(ctx context.Context, column string, from, to time.Time, vendorID *string) (float64, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(%s), 0)
		FROM sales
		WHERE created_at >= $1 AND created_at <= $2
	`, column)
	args := []interface{}{from, to}

	if vendorID != nil && *vendorID != "" {
		query += " AND vendor_id = $3"
		args = append(args, *vendorID)
	}

	var sum float64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&sum)
	return sum, err
}

func (r *repository) TopVendors(ctx context.Context, from, to time.Time, limit int32) ([]*VendorTotals, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT vendor_id, SUM(total), SUM(commission), SUM(product_qty)
		FROM sales
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY vendor_id
		ORDER BY SUM(total) DESC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	result := make([]*VendorTotals, 0, limit)
	for rows.Next() {
		var v VendorTotals
		if err := rows.Scan(&v.VendorID, &v.Total, &v.Commission, &v.ItemsSold); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		result = append(result, &v)
	}

	return result, rows.Err()
}
