package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/core-coin/ostiarius/internal/models"
)

func (db *GormDB) GetSetting(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	if err := db.Conn.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return "", notFound(err, "setting "+key)
	}
	return setting.Value, nil
}

func (db *GormDB) SetSetting(ctx context.Context, key, value string) error {
	err := db.Conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&models.Setting{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

func (db *GormDB) SeedSettings(ctx context.Context, defaults map[string]string) error {
	for key, value := range defaults {
		err := db.Conn.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
			Create(&models.Setting{Key: key, Value: value}).Error
		if err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", key, err)
		}
	}
	return nil
}
