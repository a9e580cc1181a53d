package models

import (
	"context"
	"time"
)

// Repository is the transactional persistence session.
type Repository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	GetOrCreateUser(ctx context.Context, telegramID int64, username, fullName string) (*User, error)
	GetUser(ctx context.Context, id uint) (*User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	// UpdateUserLedger writes SubscriptionUntil and IsBanned if user.Version still matches
	// the stored row, then bumps user.Version. Returns ErrConflict otherwise.
	UpdateUserLedger(ctx context.Context, user *User) error
	// ListExpiredUsers returns users with a non-null subscription end strictly before now
	// that are not marked banned.
	ListExpiredUsers(ctx context.Context, now time.Time) ([]*User, error)

	CreatePayment(ctx context.Context, payment *Payment) error
	GetPayment(ctx context.Context, id uint) (*Payment, error)
	ListPendingPayments(ctx context.Context) ([]*Payment, error)
	// TransitionPayment moves a pending payment to status. Returns ErrAlreadyDecided when
	// the stored payment is no longer pending.
	TransitionPayment(ctx context.Context, id uint, status PaymentStatus, decidedBy int64, at time.Time) error

	ListAdmins(ctx context.Context) ([]*Admin, error)
	GetAdmin(ctx context.Context, telegramID int64) (*Admin, error)
	CreateAdmin(ctx context.Context, admin *Admin) error
	DeleteAdmin(ctx context.Context, telegramID int64) error
	// SetPrimaryAdmin flags telegramID as the primary admin and clears the flag elsewhere.
	SetPrimaryAdmin(ctx context.Context, telegramID int64) error

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	// SeedSettings inserts every key that is absent and leaves existing values untouched.
	SeedSettings(ctx context.Context, defaults map[string]string) error
}
