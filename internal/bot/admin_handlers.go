package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/core-coin/ostiarius/internal/greeting"
	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/review"
	"github.com/core-coin/ostiarius/internal/settings"
)

// onAdmin opens the admin panel. Non-admins are ignored.
func (h *Handler) onAdmin(ctx context.Context, api API, update *tgModels.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || !h.Access.IsAdmin(msg.From.ID) {
		return
	}
	h.setState(ctx, msg.Chat.ID, StateIdle)
	h.reply(ctx, api, msg.Chat.ID, textAdminPanel, adminPanelKeyboard())
}

// authorize answers the callback with a denial when the sender is not an admin.
func (h *Handler) authorize(ctx context.Context, api API, q *tgModels.CallbackQuery) bool {
	if h.Access.IsAdmin(q.From.ID) {
		return true
	}
	h.logger.Debug("Callback denied", "user", q.From.ID, "data", q.Data, "error", models.ErrAuthorizationDenied)
	h.answer(ctx, api, q, textNoAccess, true)
	return false
}

func (h *Handler) editSetting(key string, state State) handlerFunc {
	return func(ctx context.Context, api API, update *tgModels.Update) {
		q := update.CallbackQuery
		if !h.authorize(ctx, api, q) {
			return
		}
		h.answer(ctx, api, q, "", false)
		current, err := h.Settings.Get(ctx, key)
		if err != nil {
			h.logger.Error("Failed to load setting", "key", key, "error", err)
			h.reply(ctx, api, callbackChat(q), textTryAgain, nil)
			return
		}
		chatID := callbackChat(q)
		h.setState(ctx, chatID, state)
		h.reply(ctx, api, chatID, currentValueText(key, current), cancelKeyboard())
	}
}

// onSettingValue stores the value an admin typed for key. An invalid value keeps the
// stored one and the dialogue waits for another attempt.
func (h *Handler) onSettingValue(ctx context.Context, api API, msg *tgModels.Message, key string) {
	chatID := msg.Chat.ID
	if !h.Access.IsAdmin(msg.From.ID) {
		h.setState(ctx, chatID, StateIdle)
		return
	}
	value, err := h.Settings.Update(ctx, key, msg.Text)
	var tplErr *greeting.TemplateError
	switch {
	case errors.As(err, &tplErr):
		h.reply(ctx, api, chatID, templateErrorText(tplErr), cancelKeyboard())
		return
	case errors.Is(err, settings.ErrInvalidValue):
		h.reply(ctx, api, chatID, invalidValueText(key), cancelKeyboard())
		return
	case err != nil:
		h.logger.Error("Failed to update setting", "key", key, "error", err)
		h.reply(ctx, api, chatID, textTryAgain, nil)
		return
	}
	h.setState(ctx, chatID, StateIdle)
	h.reply(ctx, api, chatID, updatedValueText(key, value), adminPanelKeyboard())
}

func (h *Handler) onStartMessageMenu(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	if !h.authorize(ctx, api, q) {
		return
	}
	h.answer(ctx, api, q, "", false)
	current, err := h.Settings.Get(ctx, models.SettingStartMessage)
	if err != nil {
		h.logger.Error("Failed to load start message", "error", err)
		h.reply(ctx, api, callbackChat(q), textTryAgain, nil)
		return
	}
	h.reply(ctx, api, callbackChat(q), startMessageText(current), startMessageKeyboard())
}

func (h *Handler) onEditStartMessage(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	if !h.authorize(ctx, api, q) {
		return
	}
	h.answer(ctx, api, q, "", false)
	chatID := callbackChat(q)
	h.setState(ctx, chatID, StateEditStartMessage)
	h.reply(ctx, api, chatID, editStartMessageText(), cancelKeyboard())
}

func (h *Handler) onResetStartMessage(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	if !h.authorize(ctx, api, q) {
		return
	}
	if err := h.Settings.ResetStartMessage(ctx); err != nil {
		h.logger.Error("Failed to reset start message", "error", err)
		h.answer(ctx, api, q, textFailed, true)
		return
	}
	h.answer(ctx, api, q, "🔄 Reset to default", false)
	h.reply(ctx, api, callbackChat(q), textAdminPanel, adminPanelKeyboard())
}

func (h *Handler) onBackToAdmin(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	if !h.authorize(ctx, api, q) {
		return
	}
	h.answer(ctx, api, q, "", false)
	chatID := callbackChat(q)
	h.setState(ctx, chatID, StateIdle)
	h.reply(ctx, api, chatID, textAdminPanel, adminPanelKeyboard())
}

func (h *Handler) onCancel(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	h.answer(ctx, api, q, "", false)
	chatID := callbackChat(q)
	h.setState(ctx, chatID, StateIdle)
	h.reply(ctx, api, chatID, textCancelled, nil)
}

func (h *Handler) onNoop(ctx context.Context, api API, update *tgModels.Update) {
	h.answer(ctx, api, update.CallbackQuery, "", false)
}

func (h *Handler) showRoster(ctx context.Context, api API, chatID int64) {
	admins, err := h.Access.List(ctx)
	if err != nil {
		h.logger.Error("Failed to list admins", "error", err)
		h.reply(ctx, api, chatID, textTryAgain, nil)
		return
	}
	h.reply(ctx, api, chatID, rosterText(admins), rosterKeyboard(admins, h.Access.PrimaryID()))
}

func (h *Handler) onManageAdmins(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	if !h.authorize(ctx, api, q) {
		return
	}
	h.answer(ctx, api, q, "", false)
	chatID := callbackChat(q)
	h.setState(ctx, chatID, StateIdle)
	if err := h.Access.Reload(ctx); err != nil {
		h.logger.Warn("Failed to reload admin set", "error", err)
	}
	h.showRoster(ctx, api, chatID)
}

// onPendingPayments resends every payment still awaiting review to the requesting admin.
func (h *Handler) onPendingPayments(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	if !h.authorize(ctx, api, q) {
		return
	}
	h.answer(ctx, api, q, "", false)
	chatID := callbackChat(q)
	h.setState(ctx, chatID, StateIdle)

	pending, err := h.Queue.Pending(ctx)
	if err != nil {
		h.logger.Error("Failed to list pending payments", "error", err)
		h.reply(ctx, api, chatID, textTryAgain, nil)
		return
	}
	if len(pending) == 0 {
		h.reply(ctx, api, chatID, textNoPending, adminPanelKeyboard())
		return
	}
	h.reply(ctx, api, chatID, pendingText(len(pending)), nil)
	for _, p := range pending {
		if err := h.sendForReview(ctx, chatID, p); err != nil {
			h.logger.Warn("Failed to resend payment", "payment", p.ID, "admin", chatID, "error", err)
		}
	}
}

func (h *Handler) onAddAdmin(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	if !h.authorize(ctx, api, q) {
		return
	}
	h.answer(ctx, api, q, "", false)
	chatID := callbackChat(q)
	h.setState(ctx, chatID, StateAddAdmin)
	h.reply(ctx, api, chatID, textEnterAdminID, cancelKeyboard())
}

// onAdminID adds the admin whose numeric id was typed.
func (h *Handler) onAdminID(ctx context.Context, api API, msg *tgModels.Message) {
	chatID := msg.Chat.ID
	if !h.Access.IsAdmin(msg.From.ID) {
		h.setState(ctx, chatID, StateIdle)
		return
	}
	target, err := strconv.ParseInt(strings.TrimSpace(msg.Text), 10, 64)
	if err != nil || target <= 0 {
		h.reply(ctx, api, chatID, "⚠️ Send a numeric Telegram ID.", cancelKeyboard())
		return
	}

	var username string
	if known, err := h.Repo.GetUserByTelegramID(ctx, target); err == nil {
		username = known.Username
	}

	admin, err := h.Access.Add(ctx, target, username, msg.From.ID)
	switch {
	case errors.Is(err, models.ErrAlreadyExists):
		h.setState(ctx, chatID, StateIdle)
		h.reply(ctx, api, chatID, "ℹ️ This user is already an admin.", nil)
		h.showRoster(ctx, api, chatID)
		return
	case err != nil:
		h.logger.Error("Failed to add admin", "admin", target, "error", err)
		h.reply(ctx, api, chatID, textTryAgain, nil)
		return
	}
	h.setState(ctx, chatID, StateIdle)
	h.reply(ctx, api, chatID, "✅ <b>Admin added:</b> "+greeting.Escape(admin.Label()), nil)
	h.showRoster(ctx, api, chatID)
}

func (h *Handler) onDeleteAdmin(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	if !h.authorize(ctx, api, q) {
		return
	}
	target, err := parseID(q.Data, cbDeleteAdminPrefix)
	if err != nil {
		h.answer(ctx, api, q, textFailed, true)
		return
	}
	if target == h.Access.PrimaryID() {
		h.answer(ctx, api, q, "The primary admin cannot be removed", true)
		return
	}
	h.answer(ctx, api, q, "", false)
	h.reply(ctx, api, callbackChat(q),
		"❓ Remove admin <code>"+strconv.FormatInt(target, 10)+"</code>?",
		confirmDeleteAdminKeyboard(target))
}

func (h *Handler) onConfirmDeleteAdmin(ctx context.Context, api API, update *tgModels.Update) {
	q := update.CallbackQuery
	if !h.authorize(ctx, api, q) {
		return
	}
	target, err := parseID(q.Data, cbConfirmDeleteAdminPfx)
	if err != nil {
		h.answer(ctx, api, q, textFailed, true)
		return
	}
	err = h.Access.Remove(ctx, target)
	switch {
	case errors.Is(err, models.ErrProtectedPrimary):
		h.answer(ctx, api, q, "The primary admin cannot be removed", true)
		return
	case errors.Is(err, models.ErrNotFound):
		h.answer(ctx, api, q, "Admin not found", true)
	case err != nil:
		h.logger.Error("Failed to remove admin", "admin", target, "error", err)
		h.answer(ctx, api, q, textFailed, true)
		return
	default:
		h.answer(ctx, api, q, "🗑 Admin removed", false)
	}
	h.showRoster(ctx, api, callbackChat(q))
}

func (h *Handler) onApprove(ctx context.Context, api API, update *tgModels.Update) {
	h.decide(ctx, api, update.CallbackQuery, cbApprovePrefix, h.Engine.Approve)
}

func (h *Handler) onReject(ctx context.Context, api API, update *tgModels.Update) {
	h.decide(ctx, api, update.CallbackQuery, cbRejectPrefix, h.Engine.Reject)
}

type decideFunc func(ctx context.Context, paymentID uint, decidedBy int64) (*review.Decision, error)

// decide runs a review decision and reports its outcome to the deciding admin.
func (h *Handler) decide(ctx context.Context, api API, q *tgModels.CallbackQuery, prefix string, fn decideFunc) {
	if !h.authorize(ctx, api, q) {
		return
	}
	id, err := parseID(q.Data, prefix)
	if err != nil {
		h.answer(ctx, api, q, textPaymentNotFound, true)
		return
	}

	d, err := fn(ctx, uint(id), q.From.ID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		h.answer(ctx, api, q, textPaymentNotFound, true)
		return
	case errors.Is(err, models.ErrAlreadyDecided):
		h.answer(ctx, api, q, textAlreadyProcessed, true)
		return
	case err != nil:
		h.logger.Error("Failed to decide payment", "payment", id, "admin", q.From.ID, "error", err)
		h.answer(ctx, api, q, textFailed, true)
		return
	}

	approved := d.Payment.Status == models.PaymentApproved
	if approved {
		h.answer(ctx, api, q, "✅ Payment approved!", false)
	} else {
		h.answer(ctx, api, q, "❌ Payment rejected!", false)
	}
	h.markReviewed(ctx, api, q, decisionCaption(d))

	chatID := callbackChat(q)
	if d.RestoreErr != nil {
		h.reply(ctx, api, chatID, "⚠️ Could not unban the user in the channel: "+greeting.Escape(d.RestoreErr.Error()), nil)
	}
	if d.NotifyErr != nil {
		h.reply(ctx, api, chatID, "⚠️ Could not send a message to the user: "+greeting.Escape(d.NotifyErr.Error()), nil)
	}
}

// markReviewed appends the outcome to the review message and drops its buttons.
func (h *Handler) markReviewed(ctx context.Context, api API, q *tgModels.CallbackQuery, outcome string) {
	msg := q.Message.Message
	if msg == nil {
		return
	}
	_, err := api.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Caption:   greeting.Escape(msg.Caption) + "\n\n" + outcome,
		ParseMode: tgModels.ParseModeHTML,
	})
	if err != nil {
		h.logger.Warn("Failed to update review message", "chat_id", msg.Chat.ID, "error", err)
	}
}

func decisionCaption(d *review.Decision) string {
	if d.Payment.Status != models.PaymentApproved {
		return "❌ <b>REJECTED</b>"
	}
	caption := "✅ <b>APPROVED</b>"
	if d.NewUntil != nil {
		caption += "\nUntil: " + greeting.FormatDate(*d.NewUntil)
	}
	if d.Unbanned {
		caption += "\nChannel access restored"
	}
	return caption
}
