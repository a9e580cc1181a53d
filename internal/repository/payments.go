package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/core-coin/ostiarius/internal/models"
)

func (db *GormDB) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := db.Conn.WithContext(ctx).Omit("User").Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (db *GormDB) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Conn.WithContext(ctx).Preload("User").First(&payment, id).Error; err != nil {
		return nil, notFound(err, "payment")
	}
	return &payment, nil
}

func (db *GormDB) ListPendingPayments(ctx context.Context) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := db.Conn.WithContext(ctx).Preload("User").
		Where("status = ?", models.PaymentPending).
		Order("id").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}
	return payments, nil
}

func (db *GormDB) TransitionPayment(ctx context.Context, id uint, status models.PaymentStatus, decidedBy int64, at time.Time) error {
	res := db.Conn.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": at.UTC(),
			"updated_at": at.UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment %d: %w", id, models.ErrAlreadyDecided)
	}
	return nil
}
