// Package ledger computes and records subscription windows.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/core-coin/ostiarius/internal/models"
)

// maxAttempts bounds compare-and-swap retries when a concurrent writer wins.
const maxAttempts = 3

type Ledger struct {
	now func() time.Time
}

func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// NextExpiry stacks days onto a grant that is still running, otherwise starts a fresh
// grant at now.
func NextExpiry(current *time.Time, now time.Time, days int) time.Time {
	length := time.Duration(days) * 24 * time.Hour
	if current != nil && current.After(now) {
		return current.UTC().Add(length)
	}
	return now.UTC().Add(length)
}

// Status returns the ledger view of a Telegram user. Unknown users have no grant.
func (l *Ledger) Status(ctx context.Context, repo models.Repository, telegramID int64) (*models.SubscriptionStatus, error) {
	status := &models.SubscriptionStatus{TelegramID: telegramID}
	user, err := repo.GetUserByTelegramID(ctx, telegramID)
	if errors.Is(err, models.ErrNotFound) {
		return status, nil
	}
	if err != nil {
		return nil, err
	}
	status.Banned = user.IsBanned
	if user.SubscriptionUntil != nil {
		until := user.SubscriptionUntil.UTC()
		status.Until = &until
		status.Active = until.After(l.now())
	}
	return status, nil
}

// Extend grants days of access to user and stores the new window. It must run inside the
// transaction that records the approval. On a lost compare-and-swap the user is reloaded
// and the window recomputed. user is updated in place.
func (l *Ledger) Extend(ctx context.Context, repo models.Repository, user *models.User, days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, fmt.Errorf("subscription length must be positive, got %d", days)
	}
	return l.update(ctx, repo, user, func(u *models.User) time.Time {
		until := NextExpiry(u.SubscriptionUntil, l.now(), days)
		u.SubscriptionUntil = &until
		return until
	})
}

// MarkEnforced records that the user was removed from the channel and clears the window.
func (l *Ledger) MarkEnforced(ctx context.Context, repo models.Repository, user *models.User) error {
	user.IsBanned = true
	user.SubscriptionUntil = nil
	return repo.UpdateUserLedger(ctx, user)
}

// MarkUnenforced records that the user was let back into the channel.
func (l *Ledger) MarkUnenforced(ctx context.Context, repo models.Repository, user *models.User) error {
	user.IsBanned = false
	return repo.UpdateUserLedger(ctx, user)
}

func (l *Ledger) update(ctx context.Context, repo models.Repository, user *models.User, apply func(*models.User) time.Time) (time.Time, error) {
	for attempt := 1; ; attempt++ {
		candidate := *user
		until := apply(&candidate)
		err := repo.UpdateUserLedger(ctx, &candidate)
		if err == nil {
			*user = candidate
			return until, nil
		}
		if !errors.Is(err, models.ErrConflict) || attempt == maxAttempts {
			return time.Time{}, err
		}
		fresh, err := repo.GetUser(ctx, user.ID)
		if err != nil {
			return time.Time{}, err
		}
		*user = *fresh
	}
}
