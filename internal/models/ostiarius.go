package models

import "context"

type OstiariusI interface {
	// Start runs the bot, the expiry sweeper and the status API until ctx is done.
	Start(ctx context.Context) error

	// SubscriptionStatus returns the ledger view for a Telegram user.
	SubscriptionStatus(ctx context.Context, telegramID int64) (*SubscriptionStatus, error)
}

// APIServer is the optional status HTTP API.
type APIServer interface {
	Start() error
	Shutdown() error
}
