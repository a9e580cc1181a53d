package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/testutil"
)

func TestNextExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(5 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	assert.Equal(t, now.Add(30*24*time.Hour), NextExpiry(nil, now, 30))
	assert.Equal(t, now.Add(30*24*time.Hour), NextExpiry(&past, now, 30))
	assert.Equal(t, future.Add(30*24*time.Hour), NextExpiry(&future, now, 30))
	assert.Equal(t, now.Add(30*24*time.Hour), NextExpiry(&now, now, 30))
}

func TestExtendStacksAndRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewRepository(t)
	now := time.Now().UTC()
	l := New(func() time.Time { return now })

	user, err := repo.GetOrCreateUser(ctx, 10, "", "Ten")
	require.NoError(t, err)
	stale := *user

	first, err := l.Extend(ctx, repo, user, 30)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*24*time.Hour), first)

	// stale copy loses the compare-and-swap, is reloaded and stacks on the stored window
	second, err := l.Extend(ctx, repo, &stale, 30)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(60*24*time.Hour), second, time.Second)

	stored, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SubscriptionUntil)
	assert.WithinDuration(t, second, *stored.SubscriptionUntil, time.Second)
	assert.EqualValues(t, 2, stored.Version)
}

func TestExtendRejectsNonPositiveLength(t *testing.T) {
	repo := testutil.NewRepository(t)
	user, err := repo.GetOrCreateUser(context.Background(), 1, "", "x")
	require.NoError(t, err)
	_, err = New(nil).Extend(context.Background(), repo, user, 0)
	require.Error(t, err)
}

func TestMarkEnforcedClearsWindow(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewRepository(t)
	l := New(nil)

	user, err := repo.GetOrCreateUser(ctx, 11, "", "Eleven")
	require.NoError(t, err)
	_, err = l.Extend(ctx, repo, user, 1)
	require.NoError(t, err)

	require.NoError(t, l.MarkEnforced(ctx, repo, user))
	stored, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsBanned)
	assert.Nil(t, stored.SubscriptionUntil)

	require.NoError(t, l.MarkUnenforced(ctx, repo, user))
	stored, err = repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsBanned)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewRepository(t)
	now := time.Now().UTC()
	l := New(func() time.Time { return now })

	status, err := l.Status(ctx, repo, 404)
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Nil(t, status.Until)

	user, err := repo.GetOrCreateUser(ctx, 12, "", "Twelve")
	require.NoError(t, err)
	_, err = l.Extend(ctx, repo, user, 3)
	require.NoError(t, err)

	status, err = l.Status(ctx, repo, 12)
	require.NoError(t, err)
	assert.True(t, status.Active)
	require.NotNil(t, status.Until)

	expired := now.Add(-time.Minute)
	user.SubscriptionUntil = &expired
	require.NoError(t, repo.UpdateUserLedger(ctx, user))
	status, err = l.Status(ctx, repo, 12)
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Equal(t, models.SubscriptionStatus{TelegramID: 12, Until: status.Until}, *status)
}
