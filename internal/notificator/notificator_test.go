package notificator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/testutil"
	"github.com/core-coin/ostiarius/pkg/logger"
)

func TestBroadcastCollectsEveryOutcome(t *testing.T) {
	messenger := testutil.NewMessenger()
	messenger.Fail[2] = errors.New("bot was blocked by the user")
	n := NewNotificator(logger.NewNop(), messenger)

	deliveries := n.Broadcast(context.Background(), []int64{1, 2, 3}, func(ctx context.Context, chatID int64) error {
		return messenger.SendMessage(ctx, chatID, "hi")
	})

	require.Len(t, deliveries, 3)
	assert.NoError(t, deliveries[0].Err)
	assert.Error(t, deliveries[1].Err)
	assert.NoError(t, deliveries[2].Err)
	assert.Equal(t, 2, Delivered(deliveries))
	assert.Equal(t, 3, messenger.Attempts)
}

func TestBroadcastRecoversPanics(t *testing.T) {
	n := NewNotificator(logger.NewNop(), testutil.NewMessenger())
	calls := 0
	deliveries := n.Broadcast(context.Background(), []int64{1, 2}, func(_ context.Context, chatID int64) error {
		calls++
		if chatID == 1 {
			panic("boom")
		}
		return nil
	})
	assert.Equal(t, 2, calls)
	require.ErrorIs(t, deliveries[0].Err, models.ErrExternal)
	assert.NoError(t, deliveries[1].Err)
}

func TestNotifyWrapsFailure(t *testing.T) {
	messenger := testutil.NewMessenger()
	messenger.Fail[9] = errors.New("chat not found")
	n := NewNotificator(logger.NewNop(), messenger)

	require.NoError(t, n.Notify(context.Background(), 1, "ok"))
	err := n.Notify(context.Background(), 9, "lost")
	require.ErrorIs(t, err, models.ErrExternal)
	assert.Len(t, messenger.To(1), 1)
}

func TestInlineKeyboard(t *testing.T) {
	kb := InlineKeyboard([][]models.Action{{{Text: "Yes", Data: "y"}, {Text: "No", Data: "n"}}, {{Text: "Back", Data: "b"}}})
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "n", kb.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "Back", kb.InlineKeyboard[1][0].Text)
}
