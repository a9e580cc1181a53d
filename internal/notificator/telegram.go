package notificator

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/core-coin/ostiarius/internal/models"
)

// TelegramMessenger delivers messages through the Bot API in HTML parse mode.
type TelegramMessenger struct {
	bot *bot.Bot
}

func NewTelegramMessenger(b *bot.Bot) *TelegramMessenger {
	return &TelegramMessenger{bot: b}
}

func (t *TelegramMessenger) SendMessage(ctx context.Context, chatID int64, text string) error {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgModels.ParseModeHTML,
	}
	if _, err := t.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("failed to send message to %d: %w", chatID, err)
	}
	return nil
}

func (t *TelegramMessenger) SendPhotoWithActions(ctx context.Context, chatID int64, photoRef, caption string, actions [][]models.Action) error {
	params := &bot.SendPhotoParams{
		ChatID:    chatID,
		Photo:     &tgModels.InputFileString{Data: photoRef},
		Caption:   caption,
		ParseMode: tgModels.ParseModeHTML,
	}
	if len(actions) > 0 {
		params.ReplyMarkup = InlineKeyboard(actions)
	}
	if _, err := t.bot.SendPhoto(ctx, params); err != nil {
		return fmt.Errorf("failed to send photo to %d: %w", chatID, err)
	}
	return nil
}

// InlineKeyboard converts rows of actions into a Telegram inline keyboard.
func InlineKeyboard(rows [][]models.Action) *tgModels.InlineKeyboardMarkup {
	keyboard := make([][]tgModels.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgModels.InlineKeyboardButton, 0, len(row))
		for _, a := range row {
			buttons = append(buttons, tgModels.InlineKeyboardButton{Text: a.Text, CallbackData: a.Data})
		}
		keyboard = append(keyboard, buttons)
	}
	return &tgModels.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
