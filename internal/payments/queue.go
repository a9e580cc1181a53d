// Package payments records submitted payment proofs. Decisions go through package review.
package payments

import (
	"context"
	"fmt"

	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/pkg/logger"
)

// Submitter identifies the Telegram user handing in a proof.
type Submitter struct {
	TelegramID int64
	Username   string
	FullName   string
}

type Queue struct {
	logger *logger.Logger
	repo   models.Repository
}

func NewQueue(repo models.Repository, logger *logger.Logger) *Queue {
	return &Queue{repo: repo, logger: logger}
}

// Submit always records a new pending payment, creating the user on first contact.
func (q *Queue) Submit(ctx context.Context, from Submitter, proofRef string) (*models.Payment, error) {
	if proofRef == "" {
		return nil, fmt.Errorf("empty proof reference")
	}
	var payment *models.Payment
	err := q.repo.Transaction(ctx, func(repo models.Repository) error {
		user, err := repo.GetOrCreateUser(ctx, from.TelegramID, from.Username, from.FullName)
		if err != nil {
			return err
		}
		payment = &models.Payment{
			UserID:   user.ID,
			ProofRef: proofRef,
			Status:   models.PaymentPending,
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return err
		}
		payment.User = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	q.logger.Info("Payment submitted", "payment", payment.ID, "user", from.TelegramID)
	return payment, nil
}

// Get returns a payment with its user. Fails with models.ErrNotFound.
func (q *Queue) Get(ctx context.Context, id uint) (*models.Payment, error) {
	return q.repo.GetPayment(ctx, id)
}

// Pending lists payments awaiting review, oldest first.
func (q *Queue) Pending(ctx context.Context) ([]*models.Payment, error) {
	return q.repo.ListPendingPayments(ctx)
}
