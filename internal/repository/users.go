package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/core-coin/ostiarius/internal/models"
)

func (db *GormDB) GetOrCreateUser(ctx context.Context, telegramID int64, username, fullName string) (*models.User, error) {
	user := models.User{TelegramID: telegramID, Username: username, FullName: fullName}
	err := db.Conn.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "telegram_id"}}, DoNothing: true}).
		Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return db.GetUserByTelegramID(ctx, telegramID)
}

func (db *GormDB) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := db.Conn.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (db *GormDB) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	if err := db.Conn.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (db *GormDB) UpdateUserLedger(ctx context.Context, user *models.User) error {
	res := db.Conn.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(map[string]interface{}{
			"subscription_until": user.SubscriptionUntil,
			"is_banned":          user.IsBanned,
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update user ledger: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d at version %d: %w", user.ID, user.Version, models.ErrConflict)
	}
	user.Version++
	return nil
}

func (db *GormDB) ListExpiredUsers(ctx context.Context, now time.Time) ([]*models.User, error) {
	var users []*models.User
	err := db.Conn.WithContext(ctx).
		Where("subscription_until IS NOT NULL AND subscription_until < ? AND is_banned = ?", now.UTC(), false).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired users: %w", err)
	}
	return users, nil
}
