package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bazaar-be/internal/fault"
	"bazaar-be/internal/logger"
	"bazaar-be/internal/user"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	CreateStoreTx(ctx context.Context, s Store) (Store, error)
	GetByID(ctx context.Context, storeID string) (*Store, error)
	GetByUserID(ctx context.Context, userID string) (*Store, error)
	SetVendorStatusTx(ctx context.Context, storeID string, status user.VendorStatus, reason *string) error
	UpdateProfile(ctx context.Context, storeID string, input UpdateStoreInput) (*Store, error)
	ListByVendorStatus(ctx context.Context, status user.VendorStatus, limit, page *int32) ([]*Store, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const storeColumns = `
	s.id, s.user_id, s.name, s.description, s.logo_url, s.document_url,
	u.vendor_status, s.reject_reason, s.is_active, u.email, s.created_at`

func scanStore(row interface{ Scan(...any) error }) (*Store, error) {
	var st Store
	err := row.Scan(
		&st.ID, &st.UserID, &st.Name, &st.Description, &st.LogoURL, &st.DocumentURL,
		&st.VendorStatus, &st.RejectReason, &st.IsActive, &st.OwnerEmail, &st.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// CreateStoreTx inserts the store and moves the owner to PENDING in one
// transaction; either both happen or neither.
func (r *repository) CreateStoreTx(ctx context.Context, s Store) (Store, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateStoreTx"),
		zap.String("user_id", s.UserID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Store{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO stores (id, user_id, name, description, logo_url, document_url, is_active)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, true)
		RETURNING id, created_at
	`, s.UserID, s.Name, s.Description, s.LogoURL, s.DocumentURL).
		Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == fault.PgUniqueViolation {
			log.Warn("user already owns a store")
			return Store{}, fault.Validationf("user already owns a store")
		}
		log.Error("failed to insert store", zap.Error(err))
		return Store{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET vendor_status = 'PENDING', role = 'VENDOR'
		WHERE id = $1
	`, s.UserID)
	if err != nil {
		log.Error("failed to move user to pending", zap.Error(err))
		return Store{}, err
	}

	if err := tx.Commit(); err != nil {
		return Store{}, err
	}

	s.VendorStatus = user.VendorPending
	s.IsActive = true
	return s, nil
}

func (r *repository) GetByID(ctx context.Context, storeID string) (*Store, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT`+storeColumns+`
		FROM stores s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`, storeID)

	st, err := scanStore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFoundf("store %s", storeID)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID string) (*Store, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT`+storeColumns+`
		FROM stores s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1
	`, userID)

	st, err := scanStore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// SetVendorStatusTx updates the owner's vendor status and the recorded
// rejection reason together.
func (r *repository) SetVendorStatusTx(ctx context.Context, storeID string, status user.VendorStatus, reason *string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE users u SET vendor_status = $1
		FROM stores s
		WHERE s.id = $2 AND s.user_id = u.id
	`, status, storeID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fault.NotFoundf("store %s", storeID)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE stores SET reject_reason = $1 WHERE id = $2",
		reason, storeID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) UpdateProfile(ctx context.Context, storeID string, input UpdateStoreInput) (*Store, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE stores s SET
			name = COALESCE($1, s.name),
			description = COALESCE($2, s.description),
			logo_url = COALESCE($3, s.logo_url),
			document_url = COALESCE($4, s.document_url)
		FROM users u
		WHERE s.id = $5 AND u.id = s.user_id
		RETURNING`+storeColumns+`
	`, input.Name, input.Description, input.LogoURL, input.DocumentURL, storeID)

	st, err := scanStore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFoundf("store %s", storeID)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *repository) ListByVendorStatus(
	ctx context.Context,
	status user.VendorStatus,
	limit, page *int32,
) ([]*Store, error) {

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
		SELECT`+storeColumns+`
		FROM stores s
		JOIN users u ON u.id = s.user_id
		WHERE u.vendor_status = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`, status, finalLimit, offset)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	stores := make([]*Store, 0, finalLimit)
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		stores = append(stores, st)
	}

	return stores, rows.Err()
}
