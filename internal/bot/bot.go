// Package bot is the Telegram dialogue layer: user greeting and proof intake, the admin
// panel, and payment review callbacks.
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/core-coin/ostiarius/internal/access"
	"github.com/core-coin/ostiarius/internal/ledger"
	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/notificator"
	"github.com/core-coin/ostiarius/internal/payments"
	"github.com/core-coin/ostiarius/internal/review"
	"github.com/core-coin/ostiarius/internal/settings"
	"github.com/core-coin/ostiarius/pkg/logger"
)

// API is the part of the Bot API the handlers reply through. *bot.Bot implements it.
type API interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgModels.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	EditMessageCaption(ctx context.Context, params *bot.EditMessageCaptionParams) (*tgModels.Message, error)
}

// Services are the components the handlers drive.
type Services struct {
	Repo        models.Repository
	Access      *access.Service
	Settings    *settings.Service
	Queue       *payments.Queue
	Engine      *review.Engine
	Ledger      *ledger.Ledger
	Notificator *notificator.Notificator
	States      StateStore
}

type Handler struct {
	logger *logger.Logger
	Services
	now func() time.Time
}

func NewHandler(services Services, logger *logger.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{logger: logger, Services: services, now: now}
}

type handlerFunc func(ctx context.Context, api API, update *tgModels.Update)

func adapt(fn handlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *tgModels.Update) {
		fn(ctx, b, update)
	}
}

// Options registers every handler on a new bot.
func (h *Handler) Options() []bot.Option {
	opts := []bot.Option{
		bot.WithDefaultHandler(adapt(h.onMessage)),
		bot.WithErrorsHandler(func(err error) {
			h.logger.Error("Telegram polling error", "error", err)
		}),
		bot.WithMessageTextHandler("/start", bot.MatchTypePrefix, adapt(h.onStart)),
		bot.WithMessageTextHandler("/admin", bot.MatchTypeExact, adapt(h.onAdmin)),
	}
	exact := map[string]handlerFunc{
		cbPaymentConfirm:     h.onPaymentConfirm,
		cbEditCard:           h.editSetting(models.SettingCardNumber, StateEditCard),
		cbEditPhone:          h.editSetting(models.SettingPhoneNumber, StateEditPhone),
		cbEditAmount:         h.editSetting(models.SettingAmount, StateEditAmount),
		cbEditStartMessage:   h.onStartMessageMenu,
		cbDoEditStartMessage: h.onEditStartMessage,
		cbResetStartMessage:  h.onResetStartMessage,
		cbBackToAdmin:        h.onBackToAdmin,
		cbManageAdmins:       h.onManageAdmins,
		cbAddAdmin:           h.onAddAdmin,
		cbPendingPayments:    h.onPendingPayments,
		cbCancel:             h.onCancel,
		cbNoop:               h.onNoop,
	}
	for data, fn := range exact {
		opts = append(opts, bot.WithCallbackQueryDataHandler(data, bot.MatchTypeExact, adapt(fn)))
	}
	prefixed := map[string]handlerFunc{
		cbApprovePrefix:         h.onApprove,
		cbRejectPrefix:          h.onReject,
		cbDeleteAdminPrefix:     h.onDeleteAdmin,
		cbConfirmDeleteAdminPfx: h.onConfirmDeleteAdmin,
	}
	for prefix, fn := range prefixed {
		opts = append(opts, bot.WithCallbackQueryDataHandler(prefix, bot.MatchTypePrefix, adapt(fn)))
	}
	return opts
}

// onMessage receives every message no command handler matched and routes it by the
// chat's dialogue state.
func (h *Handler) onMessage(ctx context.Context, api API, update *tgModels.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	state, err := h.States.Get(ctx, msg.Chat.ID)
	if err != nil {
		h.logger.Error("Failed to load dialogue state", "chat_id", msg.Chat.ID, "error", err)
		return
	}
	switch state {
	case StateAwaitingProof:
		h.onProof(ctx, api, msg)
	case StateEditCard:
		h.onSettingValue(ctx, api, msg, models.SettingCardNumber)
	case StateEditPhone:
		h.onSettingValue(ctx, api, msg, models.SettingPhoneNumber)
	case StateEditAmount:
		h.onSettingValue(ctx, api, msg, models.SettingAmount)
	case StateEditStartMessage:
		h.onSettingValue(ctx, api, msg, models.SettingStartMessage)
	case StateAddAdmin:
		h.onAdminID(ctx, api, msg)
	}
}

func (h *Handler) reply(ctx context.Context, api API, chatID int64, text string, keyboard [][]models.Action) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgModels.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = notificator.InlineKeyboard(keyboard)
	}
	if _, err := api.SendMessage(ctx, params); err != nil {
		h.logger.Warn("Failed to send reply", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) answer(ctx context.Context, api API, q *tgModels.CallbackQuery, text string, alert bool) {
	_, err := api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: q.ID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.logger.Warn("Failed to answer callback query", "query", q.ID, "error", err)
	}
}

func (h *Handler) setState(ctx context.Context, chatID int64, state State) {
	if err := h.States.Set(ctx, chatID, state); err != nil {
		h.logger.Error("Failed to store dialogue state", "chat_id", chatID, "state", string(state), "error", err)
	}
}

// callbackChat is the chat a callback button was pressed in.
func callbackChat(q *tgModels.CallbackQuery) int64 {
	if q.Message.Message != nil {
		return q.Message.Message.Chat.ID
	}
	if q.Message.InaccessibleMessage != nil {
		return q.Message.InaccessibleMessage.Chat.ID
	}
	return q.From.ID
}

func fullName(u *tgModels.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
