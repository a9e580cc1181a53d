package bot

import (
	"context"

	tgModels "github.com/go-telegram/bot/models"

	"github.com/core-coin/ostiarius/internal/greeting"
	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/notificator"
	"github.com/core-coin/ostiarius/internal/payments"
)

// onStart greets the user with the rendered start message and the payment details.
func (h *Handler) onStart(ctx context.Context, api API, update *tgModels.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	h.setState(ctx, chatID, StateIdle)

	user, err := h.Repo.GetOrCreateUser(ctx, msg.From.ID, msg.From.Username, fullName(msg.From))
	if err != nil {
		h.logger.Error("Failed to register user", "user", msg.From.ID, "error", err)
		h.reply(ctx, api, chatID, textTryAgain, nil)
		return
	}
	snap, err := h.Settings.Snapshot(ctx)
	if err != nil {
		h.logger.Error("Failed to load settings", "error", err)
		h.reply(ctx, api, chatID, textTryAgain, nil)
		return
	}

	text, err := greeting.Compose(snap.StartMessage, greeting.Values{
		greeting.FirstName:   greeting.Escape(msg.From.FirstName),
		greeting.SubInfo:     greeting.SubscriptionInfo(user.SubscriptionUntil, h.now()),
		greeting.CardNumber:  greeting.Escape(snap.CardNumber),
		greeting.PhoneNumber: greeting.Escape(snap.PhoneNumber),
		greeting.Amount:      greeting.Escape(snap.Amount),
	})
	if err != nil {
		h.logger.Warn("Start message does not render, showing it raw", "error", err)
	}
	h.reply(ctx, api, chatID, text, paymentConfirmKeyboard())
}

func (h *Handler) onPaymentConfirm(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	h.answer(ctx, api, q, "", false)
	chatID := callbackChat(q)
	h.setState(ctx, chatID, StateAwaitingProof)
	h.reply(ctx, api, chatID, textSendProof, nil)
}

// onProof records a payment photo and forwards it to every admin for review.
func (h *Handler) onProof(ctx context.Context, api API, msg *tgModels.Message) {
	chatID := msg.Chat.ID
	if len(msg.Photo) == 0 {
		h.reply(ctx, api, chatID, textPhotoExpected, nil)
		return
	}
	// the last size is the largest
	proof := msg.Photo[len(msg.Photo)-1].FileID

	payment, err := h.Queue.Submit(ctx, payments.Submitter{
		TelegramID: msg.From.ID,
		Username:   msg.From.Username,
		FullName:   fullName(msg.From),
	}, proof)
	if err != nil {
		h.logger.Error("Failed to submit payment", "user", msg.From.ID, "error", err)
		h.reply(ctx, api, chatID, textTryAgain, nil)
		return
	}
	h.setState(ctx, chatID, StateIdle)
	h.reply(ctx, api, chatID, textProofReceived, nil)

	h.forwardToAdmins(ctx, payment)
}

func (h *Handler) forwardToAdmins(ctx context.Context, payment *models.Payment) []notificator.Delivery {
	deliveries := h.Notificator.Broadcast(ctx, h.Access.IDs(), func(ctx context.Context, chatID int64) error {
		return h.sendForReview(ctx, chatID, payment)
	})
	delivered := notificator.Delivered(deliveries)
	if delivered == 0 {
		h.logger.Error("Payment was not delivered to any admin", "payment", payment.ID)
	} else {
		h.logger.Info("Payment sent for review", "payment", payment.ID, "admins", delivered, "of", len(deliveries))
	}
	return deliveries
}

// sendForReview sends the proof photo with approve and reject actions to one admin.
func (h *Handler) sendForReview(ctx context.Context, chatID int64, payment *models.Payment) error {
	return h.Notificator.Messenger().SendPhotoWithActions(ctx, chatID, payment.ProofRef,
		adminReviewCaption(payment), reviewKeyboard(payment.ID))
}
