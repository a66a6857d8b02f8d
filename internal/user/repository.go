package user

import (
	"context"
	"database/sql"

	"bazaar-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, email, password, role string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, email, password, role string) (User, error) {
	log := logger.FromCtx(ctx)

	var u User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password, role, vendor_status)
		VALUES (gen_random_uuid(), $1, $2, $3, 'NORMAL')
		RETURNING id, email, password, role, vendor_status, created_at
	`, email, password, role).
		Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.VendorStatus, &u.CreatedAt)

	if err != nil {
		log.Error("db: failed to insert user",
			zap.String("email", email),
			zap.Error(err),
		)
	}

	return u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.password, u.role, u.vendor_status, u.created_at, s.id
		FROM users u
		LEFT JOIN stores s ON s.user_id = u.id
		WHERE u.email = $1
	`, email).
		Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.VendorStatus, &u.CreatedAt, &u.StoreID)

	return u, err
}

func (r *repository) FindByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.password, u.role, u.vendor_status, u.created_at, s.id
		FROM users u
		LEFT JOIN stores s ON s.user_id = u.id
		WHERE u.id = $1
	`, id).
		Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.VendorStatus, &u.CreatedAt, &u.StoreID)

	return u, err
}
