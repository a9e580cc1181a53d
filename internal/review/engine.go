// Package review decides pending payments and applies the resulting access changes.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/core-coin/ostiarius/internal/greeting"
	"github.com/core-coin/ostiarius/internal/ledger"
	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/notificator"
	"github.com/core-coin/ostiarius/pkg/logger"
)

// Config holds the engine's fixed parameters.
type Config struct {
	SubscriptionDays int
	InviteLink       string
}

// Decision reports what a decision changed. Errors of side effects that do not affect the
// committed decision are carried here instead of being returned.
type Decision struct {
	Payment *models.Payment
	User    *models.User
	// NewUntil is the subscription end after an approval.
	NewUntil *time.Time
	// Unbanned is set when the user was banned and channel access was restored.
	Unbanned bool
	// RestoreErr is the failed unban, if any. The ban flag stays set.
	RestoreErr error
	// NotifyErr is the failed user notification, if any.
	NotifyErr error
}

type Engine struct {
	logger      *logger.Logger
	repo        models.Repository
	ledger      *ledger.Ledger
	membership  models.Membership
	notificator *notificator.Notificator
	config      Config
	now         func() time.Time
}

func NewEngine(
	repo models.Repository,
	ledger *ledger.Ledger,
	membership models.Membership,
	notificator *notificator.Notificator,
	logger *logger.Logger,
	config Config,
	now func() time.Time,
) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		logger:      logger,
		repo:        repo,
		ledger:      ledger,
		membership:  membership,
		notificator: notificator,
		config:      config,
		now:         now,
	}
}

// Approve moves a pending payment to approved, extends the user's subscription and lifts a
// recorded ban, all in one transaction. The user is notified after commit.
func (e *Engine) Approve(ctx context.Context, paymentID uint, decidedBy int64) (*Decision, error) {
	var d *Decision
	err := e.repo.Transaction(ctx, func(repo models.Repository) error {
		var err error
		d, err = e.load(ctx, repo, paymentID, models.PaymentStatus.Approve)
		if err != nil {
			return err
		}

		until, err := e.ledger.Extend(ctx, repo, d.User, e.config.SubscriptionDays)
		if err != nil {
			return fmt.Errorf("failed to extend subscription: %w", err)
		}
		d.NewUntil = &until

		if d.User.IsBanned {
			if err := e.membership.Restore(ctx, d.User.TelegramID); err != nil {
				d.RestoreErr = err
				e.logger.Warn("Failed to restore channel access",
					"user", d.User.TelegramID, "payment", paymentID, "error", err)
			} else {
				if err := e.ledger.MarkUnenforced(ctx, repo, d.User); err != nil {
					return err
				}
				d.Unbanned = true
			}
		}

		return e.commit(ctx, repo, d, models.PaymentApproved, decidedBy)
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("Payment approved",
		"payment", paymentID, "user", d.User.TelegramID, "admin", decidedBy, "until", *d.NewUntil)

	d.NotifyErr = e.notificator.Notify(ctx, d.User.TelegramID, e.approvedText(*d.NewUntil))
	return d, nil
}

// Reject moves a pending payment to rejected. The ledger is not touched.
func (e *Engine) Reject(ctx context.Context, paymentID uint, decidedBy int64) (*Decision, error) {
	var d *Decision
	err := e.repo.Transaction(ctx, func(repo models.Repository) error {
		var err error
		d, err = e.load(ctx, repo, paymentID, models.PaymentStatus.Reject)
		if err != nil {
			return err
		}
		return e.commit(ctx, repo, d, models.PaymentRejected, decidedBy)
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("Payment rejected", "payment", paymentID, "user", d.User.TelegramID, "admin", decidedBy)

	d.NotifyErr = e.notificator.Notify(ctx, d.User.TelegramID, rejectedText)
	return d, nil
}

// load fetches the payment and its user and checks that transition accepts the current
// status.
func (e *Engine) load(
	ctx context.Context,
	repo models.Repository,
	paymentID uint,
	transition func(models.PaymentStatus) (models.PaymentStatus, error),
) (*Decision, error) {
	payment, err := repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if _, err := transition(payment.Status); err != nil {
		return nil, fmt.Errorf("payment %d: %w", paymentID, err)
	}
	user, err := repo.GetUser(ctx, payment.UserID)
	if err != nil {
		return nil, err
	}
	return &Decision{Payment: payment, User: user}, nil
}

// commit records the transition. The conditional update on status closes the race between
// two decisions on the same payment: the loser rolls back with ErrAlreadyDecided.
func (e *Engine) commit(ctx context.Context, repo models.Repository, d *Decision, status models.PaymentStatus, decidedBy int64) error {
	now := e.now().UTC()
	if err := repo.TransitionPayment(ctx, d.Payment.ID, status, decidedBy, now); err != nil {
		return err
	}
	d.Payment.Status = status
	d.Payment.DecidedBy = &decidedBy
	d.Payment.DecidedAt = &now
	d.Payment.User = *d.User
	return nil
}

func (e *Engine) approvedText(until time.Time) string {
	return "🎉 <b>Your payment has been confirmed!</b>\n\n" +
		"Your subscription is active until <b>" + greeting.FormatDate(until) + "</b>.\n" +
		"Here is your access link:\n" + e.config.InviteLink
}

const rejectedText = "❌ <b>Your payment was rejected.</b>\n\n" +
	"Please check the payment details and try again.\n" +
	"Use /start to make another attempt."
