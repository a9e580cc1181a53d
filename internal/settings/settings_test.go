package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/ostiarius/internal/greeting"
	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/testutil"
	"github.com/core-coin/ostiarius/pkg/logger"
)

func newService(t *testing.T) *Service {
	s := NewService(testutil.NewRepository(t), logger.NewNop())
	require.NoError(t, s.Seed(context.Background()))
	return s
}

func TestSeedProvidesDefaults(t *testing.T) {
	snap, err := newService(t).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0000 0000 0000 0000", snap.CardNumber)
	assert.Equal(t, "+7 (000) 000-00-00", snap.PhoneNumber)
	assert.Equal(t, "1000", snap.Amount)
	assert.Equal(t, greeting.DefaultStartMessage, snap.StartMessage)
}

func TestUpdateNormalizes(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	v, err := s.Update(ctx, models.SettingAmount, " 0750 ")
	require.NoError(t, err)
	assert.Equal(t, "750", v)

	v, err = s.Update(ctx, models.SettingCardNumber, "2200  1234 5678   9012")
	require.NoError(t, err)
	assert.Equal(t, "2200 1234 5678 9012", v)

	got, err := s.Get(ctx, models.SettingCardNumber)
	require.NoError(t, err)
	assert.Equal(t, "2200 1234 5678 9012", got)
}

func TestInvalidValuesKeepStoredValue(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	_, err := s.Update(ctx, models.SettingAmount, "a lot")
	require.ErrorIs(t, err, ErrInvalidValue)
	got, err := s.Get(ctx, models.SettingAmount)
	require.NoError(t, err)
	assert.Equal(t, "1000", got)

	_, err = s.Update(ctx, "colour", "blue")
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestStartMessageValidation(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	custom := "Hi {first_name}! Pay {amount}."
	_, err := s.Update(ctx, models.SettingStartMessage, custom)
	require.NoError(t, err)

	_, err = s.Update(ctx, models.SettingStartMessage, "Hi {username}!")
	require.ErrorIs(t, err, ErrInvalidValue)
	require.ErrorIs(t, err, greeting.ErrUnknownPlaceholder)

	_, err = s.Update(ctx, models.SettingStartMessage, "Hi {first_name")
	require.ErrorIs(t, err, greeting.ErrMalformedTemplate)

	got, err := s.Get(ctx, models.SettingStartMessage)
	require.NoError(t, err)
	assert.Equal(t, custom, got)

	require.NoError(t, s.ResetStartMessage(ctx))
	got, err = s.Get(ctx, models.SettingStartMessage)
	require.NoError(t, err)
	assert.Equal(t, greeting.DefaultStartMessage, got)
}

func TestStartMessageRejectsMarkupTelegramCannotParse(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	for _, tpl := range []string{
		"Pay < 100 {amount}",
		"<b>Hi {first_name}",
		"<blink>{amount}</blink>",
		"Tom & Jerry {amount}",
	} {
		_, err := s.Update(ctx, models.SettingStartMessage, tpl)
		require.ErrorIs(t, err, ErrInvalidValue, tpl)
	}

	got, err := s.Get(ctx, models.SettingStartMessage)
	require.NoError(t, err)
	assert.Equal(t, greeting.DefaultStartMessage, got)

	_, err = s.Update(ctx, models.SettingStartMessage, "<i>Pay &lt; {amount} &amp; relax</i>")
	require.NoError(t, err)
}
