package inventory_test

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/inventory"
)

func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestDecrementGuardedPredicate(t *testing.T) {
	db, mock := openMockDB(t)

	// The decrement is one conditional statement: the stock predicate is part
	// of the UPDATE itself, not a prior read.
	mock.ExpectExec(`UPDATE "variants" SET "stock"=stock - \$1 WHERE id = \$2 AND is_active = \$3 AND stock >= \$4`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, inventory.Decrement(db, 42, 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementLastUnitTakenOnce(t *testing.T) {
	db, mock := openMockDB(t)

	// Two checkouts race for one remaining unit. The first update matches a
	// row; the second matches nothing and reports the stock it found.
	mock.ExpectExec(`UPDATE "variants" SET "stock"=stock - \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "variants" SET "stock"=stock - \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "variants"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "stock", "is_active"}).
			AddRow(42, 7, 0, true))

	require.NoError(t, inventory.Decrement(db, 42, 1))

	err := inventory.Decrement(db, 42, 1)
	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(7), stockErr.ProductID)
	assert.Equal(t, uint(42), stockErr.VariantID)
	assert.Equal(t, 1, stockErr.Requested)
	assert.Equal(t, 0, stockErr.Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementMissingVariant(t *testing.T) {
	db, mock := openMockDB(t)

	mock.ExpectExec(`UPDATE "variants" SET "stock"=stock - \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "variants"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "stock", "is_active"}))

	err := inventory.Decrement(db, 99, 1)
	assert.ErrorIs(t, err, inventory.ErrVariantNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRestorePutsStockBack(t *testing.T) {
	db, mock := openMockDB(t)

	mock.ExpectExec(`UPDATE "variants" SET "stock"=stock \+ \$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, inventory.Restore(db, 42, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRestoreMissingVariant(t *testing.T) {
	db, mock := openMockDB(t)

	mock.ExpectExec(`UPDATE "variants" SET "stock"=stock \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, inventory.Restore(db, 99, 1), inventory.ErrVariantNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAvailable(t *testing.T) {
	t.Run("enough stock", func(t *testing.T) {
		db, mock := openMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "variants"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "stock", "is_active"}).
				AddRow(42, 7, 5, true))

		ok, err := inventory.CheckAvailable(db, 42, 5)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not enough stock", func(t *testing.T) {
		db, mock := openMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "variants"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "stock", "is_active"}).
				AddRow(42, 7, 5, true))

		ok, err := inventory.CheckAvailable(db, 42, 6)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("inactive variant", func(t *testing.T) {
		db, mock := openMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "variants"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "stock", "is_active"}).
				AddRow(42, 7, 5, false))

		ok, err := inventory.CheckAvailable(db, 42, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing variant", func(t *testing.T) {
		db, mock := openMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "variants"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "stock", "is_active"}))

		_, err := inventory.CheckAvailable(db, 99, 1)
		assert.ErrorIs(t, err, inventory.ErrVariantNotFound)
	})
}

func TestInsufficientStockError(t *testing.T) {
	err := &inventory.InsufficientStockError{
		ProductID: 7,
		VariantID: 42,
		Requested: 6,
		Available: 5,
	}
	assert.Equal(t, "insufficient stock for variant 42: requested 6, available 5", err.Error())

	var insufficientErr *inventory.InsufficientStockError
	assert.True(t, errors.As(error(err), &insufficientErr))
	assert.Equal(t, 5, insufficientErr.Available)
}
