package models

import "time"

// User is a person who contacted the bot. Users are never deleted.
type User struct {
	// ID is the internal identifier.
	ID uint `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// TelegramID is the stable external identity of the user.
	TelegramID int64 `json:"telegram_id" gorm:"column:telegram_id;uniqueIndex;not null"`
	// Username is the optional public handle, without the leading @.
	Username string `json:"username" gorm:"column:username;size:255"`
	// FullName is the display name at first contact.
	FullName string `json:"full_name" gorm:"column:full_name;size:255"`
	// SubscriptionUntil is the end of the current grant. Nil means no active grant.
	SubscriptionUntil *time.Time `json:"subscription_until" gorm:"column:subscription_until;index"`
	// IsBanned is the local belief that the user was removed from the channel.
	IsBanned bool `json:"is_banned" gorm:"column:is_banned;not null;default:false;index"`
	// Version is bumped on every ledger write and guards compare-and-swap updates.
	Version int64 `json:"-" gorm:"column:version;not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Handle renders the username as @handle, or an empty string.
func (u *User) Handle() string {
	if u.Username == "" {
		return ""
	}
	return "@" + u.Username
}

// SubscriptionStatus is the read view of a user's ledger entry.
type SubscriptionStatus struct {
	TelegramID int64      `json:"telegram_id"`
	Active     bool       `json:"active"`
	Until      *time.Time `json:"until,omitempty"`
	Banned     bool       `json:"banned"`
}
