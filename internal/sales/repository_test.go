package sales

import (
	"context"
	"testing"
	"time"

	"bazaar-be/internal/fault"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettle(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE sales SET is_paid = true WHERE id = \\$1").
			WithArgs("sale1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewRepository(db)
		err = repo.Settle(context.Background(), "sale1")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownSale", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE sales SET is_paid = true WHERE id = \\$1").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewRepository(db)
		err = repo.Settle(context.Background(), "missing")

		assert.ErrorIs(t, err, fault.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSumColumns(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)

	t.Run("MarketplaceWide", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(total\\), 0\\)").
			WithArgs(from, to).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(1250.50))

		repo := NewRepository(db)
		sum, err := repo.TotalSalesAmount(context.Background(), from, to, nil)

		assert.NoError(t, err)
		assert.Equal(t, 1250.50, sum)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ScopedToVendor", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		vendorID := "v1"
		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(commission\\), 0\\).*AND vendor_id = \\$3").
			WithArgs(from, to, vendorID).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(125.05))

		repo := NewRepository(db)
		sum, err := repo.TotalCommission(context.Background(), from, to, &vendorID)

		assert.NoError(t, err)
		assert.Equal(t, 125.05, sum)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyRangeSumsToZero", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(total\\), 0\\)").
			WithArgs(from, to).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))

		repo := NewRepository(db)
		sum, err := repo.TotalSalesAmount(context.Background(), from, to, nil)

		assert.NoError(t, err)
		assert.Zero(t, sum)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTopVendors(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)

	t.Run("OrderedByTotal", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"vendor_id", "total", "commission", "items_sold"}).
			AddRow("v2", 900.0, 90.0, int32(45)).
			AddRow("v1", 300.0, 30.0, int32(12))

		mock.ExpectQuery("SELECT vendor_id, SUM\\(total\\), SUM\\(commission\\), SUM\\(product_qty\\)").
			WithArgs(from, to, int32(5)).
			WillReturnRows(rows)

		repo := NewRepository(db)
		result, err := repo.TopVendors(context.Background(), from, to, 5)

		assert.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "v2", result[0].VendorID)
		assert.Equal(t, 900.0, result[0].Total)
		assert.Equal(t, 45, result[0].ItemsSold)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DefaultsLimit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT vendor_id, SUM\\(total\\)").
			WithArgs(from, to, int32(10)).
			WillReturnRows(sqlmock.NewRows([]string{"vendor_id", "total", "commission", "items_sold"}))

		repo := NewRepository(db)
		result, err := repo.TopVendors(context.Background(), from, to, 0)

		assert.NoError(t, err)
		assert.Empty(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListByVendor(t *testing.T) {
	t.Run("DefaultsPagination", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		rows := sqlmock.NewRows([]string{
			"id", "order_id", "order_item_id", "vendor_id", "store_id", "product_id",
			"total", "commission", "product_price", "product_qty", "is_paid", "created_at",
		}).AddRow("sale1", "o1", "oi1", "v1", "s1", "p1", 20.0, 2.0, 10.0, int32(2), false, now)

		mock.ExpectQuery("SELECT(.|\n)*FROM sales(.|\n)*WHERE vendor_id = \\$1").
			WithArgs("v1", int32(20), int32(0)).
			WillReturnRows(rows)

		repo := NewRepository(db)
		result, err := repo.ListByVendor(context.Background(), "v1", nil, nil)

		assert.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "sale1", result[0].ID)
		assert.Equal(t, 2.0, result[0].Commission)
		assert.False(t, result[0].IsPaid)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondPageOffsets", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		limit, page := int32(10), int32(3)
		mock.ExpectQuery("SELECT(.|\n)*FROM sales(.|\n)*WHERE vendor_id = \\$1").
			WithArgs("v1", int32(10), int32(20)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "order_id", "order_item_id", "vendor_id", "store_id", "product_id",
				"total", "commission", "product_price", "product_qty", "is_paid", "created_at",
			}))

		repo := NewRepository(db)
		result, err := repo.ListByVendor(context.Background(), "v1", &limit, &page)

		assert.NoError(t, err)
		assert.Empty(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
