package store

import (
	"context"
	"testing"
	"time"

	"bazaar-be/internal/fault"
	"bazaar-be/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStoreTx(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO stores").
			WithArgs("u1", "My Shop", nil, nil, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("s1", time.Now()))
		mock.ExpectExec("UPDATE users SET vendor_status = 'PENDING', role = 'VENDOR'").
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewRepository(db)
		st, err := repo.CreateStoreTx(context.Background(), Store{UserID: "u1", Name: "My Shop"})

		assert.NoError(t, err)
		assert.Equal(t, "s1", st.ID)
		assert.Equal(t, user.VendorPending, st.VendorStatus)
		assert.True(t, st.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondStoreRollsBack", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO stores").
			WithArgs("u1", "Another Shop", nil, nil, nil).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		repo := NewRepository(db)
		_, err = repo.CreateStoreTx(context.Background(), Store{UserID: "u1", Name: "Another Shop"})

		assert.ErrorIs(t, err, fault.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSetVendorStatusTx(t *testing.T) {
	t.Run("ApproveClearsReason", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users u SET vendor_status = \\$1").
			WithArgs(user.VendorApproved, "s1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE stores SET reject_reason = \\$1").
			WithArgs(nil, "s1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewRepository(db)
		err = repo.SetVendorStatusTx(context.Background(), "s1", user.VendorApproved, nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectRecordsReason", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users u SET vendor_status = \\$1").
			WithArgs(user.VendorRejected, "s1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE stores SET reject_reason = \\$1").
			WithArgs("incomplete documents", "s1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		reason := "incomplete documents"
		repo := NewRepository(db)
		err = repo.SetVendorStatusTx(context.Background(), "s1", user.VendorRejected, &reason)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownStore", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users u SET vendor_status = \\$1").
			WithArgs(user.VendorApproved, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := NewRepository(db)
		err = repo.SetVendorStatusTx(context.Background(), "missing", user.VendorApproved, nil)

		assert.ErrorIs(t, err, fault.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByUserID(t *testing.T) {
	t.Run("NoStoreYieldsNil", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT(.|\n)*FROM stores s(.|\n)*WHERE s.user_id = \\$1").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "name", "description", "logo_url", "document_url",
				"vendor_status", "reject_reason", "is_active", "email", "created_at",
			}))

		repo := NewRepository(db)
		st, err := repo.GetByUserID(context.Background(), "u1")

		assert.NoError(t, err)
		assert.Nil(t, st)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
