package models

import "time"

// Admin is a user allowed to review payments and edit bot settings.
type Admin struct {
	ID         uint   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	TelegramID int64  `json:"telegram_id" gorm:"column:telegram_id;uniqueIndex;not null"`
	Username   string `json:"username" gorm:"column:username;size:255"`
	// AddedBy is the admin who granted the role. The primary admin is added by itself.
	AddedBy int64 `json:"added_by" gorm:"column:added_by;not null"`
	// IsPrimary marks the configured admin that can never be removed.
	IsPrimary bool      `json:"is_primary" gorm:"column:is_primary;not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// Label is how the admin is shown in roster screens.
func (a *Admin) Label() string {
	if a.Username != "" {
		return "@" + a.Username
	}
	return formatID(a.TelegramID)
}
