package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/core-coin/ostiarius/internal/models"
)

func (db *GormDB) ListAdmins(ctx context.Context) ([]*models.Admin, error) {
	var admins []*models.Admin
	if err := db.Conn.WithContext(ctx).Order("is_primary DESC, created_at, id").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

func (db *GormDB) GetAdmin(ctx context.Context, telegramID int64) (*models.Admin, error) {
	var admin models.Admin
	if err := db.Conn.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&admin).Error; err != nil {
		return nil, notFound(err, "admin")
	}
	return &admin, nil
}

func (db *GormDB) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	err := db.Conn.WithContext(ctx).Create(admin).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("admin %d: %w", admin.TelegramID, models.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (db *GormDB) DeleteAdmin(ctx context.Context, telegramID int64) error {
	res := db.Conn.WithContext(ctx).Where("telegram_id = ?", telegramID).Delete(&models.Admin{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("admin %d: %w", telegramID, models.ErrNotFound)
	}
	return nil
}

func (db *GormDB) SetPrimaryAdmin(ctx context.Context, telegramID int64) error {
	err := db.Conn.WithContext(ctx).Model(&models.Admin{}).
		Where("is_primary <> (telegram_id = ?)", telegramID).
		Update("is_primary", gorm.Expr("telegram_id = ?", telegramID)).Error
	if err != nil {
		return fmt.Errorf("failed to set primary admin: %w", err)
	}
	return nil
}
