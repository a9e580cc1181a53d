// Package channel controls membership of the restricted Telegram channel.
package channel

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/pkg/logger"
)

// Telegram implements models.Membership for one channel. The bot must be an admin of the
// channel with the right to ban users.
type Telegram struct {
	logger    *logger.Logger
	bot       *bot.Bot
	channelID int64
}

func NewTelegram(b *bot.Bot, channelID int64, logger *logger.Logger) *Telegram {
	return &Telegram{bot: b, channelID: channelID, logger: logger}
}

func (t *Telegram) Status(ctx context.Context, userID int64) (models.MemberState, error) {
	member, err := t.bot.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: t.channelID, UserID: userID})
	if err != nil {
		return 0, fmt.Errorf("%w: get chat member %d: %w", models.ErrExternal, userID, err)
	}
	return memberState(member.Type), nil
}

// Remove bans the user, which also kicks them and invalidates their invite links.
func (t *Telegram) Remove(ctx context.Context, userID int64) error {
	_, err := t.bot.BanChatMember(ctx, &bot.BanChatMemberParams{ChatID: t.channelID, UserID: userID})
	if err != nil {
		return fmt.Errorf("%w: ban chat member %d: %w", models.ErrExternal, userID, err)
	}
	t.logger.Debug("Removed user from channel", "user", userID, "channel", t.channelID)
	return nil
}

// Restore lifts a ban. Users that are not banned are left untouched.
func (t *Telegram) Restore(ctx context.Context, userID int64) error {
	_, err := t.bot.UnbanChatMember(ctx, &bot.UnbanChatMemberParams{
		ChatID:       t.channelID,
		UserID:       userID,
		OnlyIfBanned: true,
	})
	if err != nil {
		return fmt.Errorf("%w: unban chat member %d: %w", models.ErrExternal, userID, err)
	}
	t.logger.Debug("Restored user access to channel", "user", userID, "channel", t.channelID)
	return nil
}

func memberState(t tgModels.ChatMemberType) models.MemberState {
	switch t {
	case tgModels.ChatMemberTypeLeft:
		return models.MemberLeft
	case tgModels.ChatMemberTypeBanned:
		return models.MemberKicked
	default:
		return models.MemberPresent
	}
}
