// Package sweeper revokes channel access from users whose subscription has run out.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/core-coin/ostiarius/internal/greeting"
	"github.com/core-coin/ostiarius/internal/ledger"
	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/notificator"
	"github.com/core-coin/ostiarius/pkg/logger"
)

// Report summarizes one sweep.
type Report struct {
	RunID   uuid.UUID
	Started time.Time

	// Matched users had an expired, not yet enforced subscription.
	Matched int
	// Removed users were present and have been banned from the channel.
	Removed int
	// AlreadyAbsent users had left or been banned already.
	AlreadyAbsent int
	// Failed users hit a membership or database error and stay unmarked.
	Failed int
	// Conflicts are users renewed while the sweep was running.
	Conflicts int
	// Notified counts delivered expiry notifications.
	Notified int
}

type Sweeper struct {
	logger      *logger.Logger
	repo        models.Repository
	ledger      *ledger.Ledger
	membership  models.Membership
	notificator *notificator.Notificator
	interval    time.Duration
	now         func() time.Time
}

func New(
	repo models.Repository,
	ledger *ledger.Ledger,
	membership models.Membership,
	notificator *notificator.Notificator,
	logger *logger.Logger,
	interval time.Duration,
	now func() time.Time,
) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		logger:      logger,
		repo:        repo,
		ledger:      ledger,
		membership:  membership,
		notificator: notificator,
		interval:    interval,
		now:         now,
	}
}

// Run sweeps once immediately and then on every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.interval)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("Sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep runs one enforcement pass. Users are processed independently: an error for one
// user is counted in the report and never stops the others. Only a failure to list the
// expired users is returned.
func (s *Sweeper) Sweep(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.New(), Started: s.now().UTC()}
	log := s.logger.With("run", report.RunID.String())

	users, err := s.repo.ListExpiredUsers(ctx, report.Started)
	if err != nil {
		return nil, err
	}
	report.Matched = len(users)
	if len(users) == 0 {
		log.Debug("No expired subscriptions")
		return report, nil
	}

	for _, user := range users {
		if ctx.Err() != nil {
			break
		}
		s.enforce(ctx, log, user, report)
	}

	log.Info("Sweep finished",
		"matched", report.Matched,
		"removed", report.Removed,
		"already_absent", report.AlreadyAbsent,
		"failed", report.Failed,
		"conflicts", report.Conflicts,
		"notified", report.Notified)
	return report, nil
}

func (s *Sweeper) enforce(ctx context.Context, log *logger.Logger, user *models.User, report *Report) {
	log = log.With("user", user.TelegramID)

	state, err := s.membership.Status(ctx, user.TelegramID)
	if err != nil {
		report.Failed++
		log.Warn("Failed to query channel membership", "error", err)
		return
	}

	removed := false
	if state == models.MemberPresent {
		if err := s.membership.Remove(ctx, user.TelegramID); err != nil {
			report.Failed++
			log.Warn("Failed to remove user from channel", "error", err)
			return
		}
		removed = true
	}

	expiredAt := *user.SubscriptionUntil
	err = s.ledger.MarkEnforced(ctx, s.repo, user)
	if errors.Is(err, models.ErrConflict) {
		err = s.resolveConflict(ctx, log, user, removed, report)
	}
	if err != nil {
		report.Failed++
		log.Error("Failed to record enforcement", "error", err)
		return
	}
	if !user.IsBanned {
		return
	}

	if removed {
		report.Removed++
		log.Info("Subscription expired, user removed from channel")
	} else {
		report.AlreadyAbsent++
		log.Info("Subscription expired, user already absent", "state", state.String())
	}

	if err := s.notificator.Notify(ctx, user.TelegramID, expiredText(expiredAt)); err == nil {
		report.Notified++
	}
}

// resolveConflict handles a user whose row changed after it was listed. A renewed user
// gets channel access back and is skipped. A user that still matches is marked again.
func (s *Sweeper) resolveConflict(ctx context.Context, log *logger.Logger, user *models.User, removed bool, report *Report) error {
	fresh, err := s.repo.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}
	*user = *fresh

	if user.IsBanned {
		report.Conflicts++
		log.Debug("User already enforced by a concurrent sweep")
		return nil
	}
	if user.SubscriptionUntil != nil && user.SubscriptionUntil.After(s.now()) {
		report.Conflicts++
		log.Info("Subscription renewed during sweep")
		if removed {
			if err := s.membership.Restore(ctx, user.TelegramID); err != nil {
				log.Warn("Failed to restore channel access after renewal", "error", err)
			}
		}
		return nil
	}
	return s.ledger.MarkEnforced(ctx, s.repo, user)
}

func expiredText(until time.Time) string {
	return "⌛️ <b>Your subscription has expired</b> (" + greeting.FormatDate(until) + ").\n\n" +
		"Access to the channel has been closed. Use /start to renew it."
}
