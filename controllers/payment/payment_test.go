package paymentControllers

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/models"
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

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.PaymentStatus
		to      models.PaymentStatus
		allowed bool
	}{
		{"initiated to pending", models.PaymentStatusInitiated, models.PaymentStatusPending, true},
		{"initiated straight to success", models.PaymentStatusInitiated, models.PaymentStatusSuccess, true},
		{"initiated to failed", models.PaymentStatusInitiated, models.PaymentStatusFailed, true},
		{"initiated to cancelled", models.PaymentStatusInitiated, models.PaymentStatusCancelled, true},
		{"initiated cannot refund", models.PaymentStatusInitiated, models.PaymentStatusRefunded, false},
		{"pending to success", models.PaymentStatusPending, models.PaymentStatusSuccess, true},
		{"pending to failed", models.PaymentStatusPending, models.PaymentStatusFailed, true},
		{"pending to cancelled", models.PaymentStatusPending, models.PaymentStatusCancelled, true},
		{"pending cannot go back", models.PaymentStatusPending, models.PaymentStatusInitiated, false},
		{"success to refunded", models.PaymentStatusSuccess, models.PaymentStatusRefunded, true},
		{"success to partial refund", models.PaymentStatusSuccess, models.PaymentStatusPartialRefund, true},
		{"success cannot fail", models.PaymentStatusSuccess, models.PaymentStatusFailed, false},
		{"success cannot be cancelled outright", models.PaymentStatusSuccess, models.PaymentStatusCancelled, false},
		{"failed is frozen", models.PaymentStatusFailed, models.PaymentStatusSuccess, false},
		{"cancelled is frozen", models.PaymentStatusCancelled, models.PaymentStatusPending, false},
		{"refunded is frozen", models.PaymentStatusRefunded, models.PaymentStatusPartialRefund, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestMarkCodCollectedGuards(t *testing.T) {
	t.Run("rejects online payments", func(t *testing.T) {
		p := &models.Payment{Method: models.PaymentMethodCard, Status: models.PaymentStatusPending}
		err := MarkCodCollected(nil, p)
		assert.ErrorIs(t, err, ErrInvalidPaymentTransition)
	})

	t.Run("rejects double collection", func(t *testing.T) {
		p := &models.Payment{
			Method:       models.PaymentMethodCod,
			IsCod:        true,
			CodCollected: true,
			Status:       models.PaymentStatusSuccess,
		}
		err := MarkCodCollected(nil, p)
		assert.ErrorIs(t, err, ErrInvalidPaymentTransition)
	})

	t.Run("rejects terminal statuses", func(t *testing.T) {
		p := &models.Payment{
			Method: models.PaymentMethodCod,
			IsCod:  true,
			Status: models.PaymentStatusCancelled,
		}
		err := MarkCodCollected(nil, p)
		assert.ErrorIs(t, err, ErrInvalidPaymentTransition)
	})
}

func TestCancelPayment(t *testing.T) {
	t.Run("settled payment is refunded in full", func(t *testing.T) {
		db, mock := openMockDB(t)
		mock.ExpectExec(`UPDATE "payments" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "orders" SET`).WillReturnResult(sqlmock.NewResult(0, 1))

		p := &models.Payment{
			ID:      3,
			OrderID: 9,
			Amount:  499.50,
			Method:  models.PaymentMethodUPI,
			Status:  models.PaymentStatusSuccess,
		}
		require.NoError(t, CancelPayment(db, p, "changed my mind"))
		assert.Equal(t, models.PaymentStatusRefunded, p.Status)
		assert.Equal(t, 499.50, p.RefundAmount)
		assert.Equal(t, "changed my mind", p.RefundReason)
		assert.NotNil(t, p.RefundedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending payment is cancelled", func(t *testing.T) {
		db, mock := openMockDB(t)
		mock.ExpectExec(`UPDATE "payments" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "orders" SET`).WillReturnResult(sqlmock.NewResult(0, 1))

		p := &models.Payment{
			ID:      4,
			OrderID: 10,
			Amount:  120,
			Method:  models.PaymentMethodCod,
			IsCod:   true,
			Status:  models.PaymentStatusPending,
		}
		require.NoError(t, CancelPayment(db, p, "ordered twice"))
		assert.Equal(t, models.PaymentStatusCancelled, p.Status)
		assert.Zero(t, p.RefundAmount)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed payment is left alone", func(t *testing.T) {
		db, mock := openMockDB(t)

		p := &models.Payment{
			ID:      5,
			OrderID: 11,
			Amount:  75,
			Method:  models.PaymentMethodCard,
			Status:  models.PaymentStatusFailed,
		}
		require.NoError(t, CancelPayment(db, p, "ordered twice"))
		assert.Equal(t, models.PaymentStatusFailed, p.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range models.AllowedMethods {
		assert.True(t, models.ValidPaymentMethod(m), string(m))
	}
	assert.False(t, models.ValidPaymentMethod("cheque"))
	assert.False(t, models.ValidPaymentMethod(""))
}
