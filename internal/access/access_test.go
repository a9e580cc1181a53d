package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/testutil"
	"github.com/core-coin/ostiarius/pkg/logger"
)

const primary = int64(516179955)

func newService(t *testing.T) (*Service, models.Repository) {
	repo := testutil.NewRepository(t)
	return NewService(repo, primary, logger.NewNop()), repo
}

func TestPrimaryIsAdminBeforeBootstrap(t *testing.T) {
	s, _ := newService(t)
	assert.True(t, s.IsAdmin(primary))
	assert.False(t, s.IsAdmin(1))
	assert.Equal(t, []int64{primary}, s.IDs())
}

func TestRemovePrimaryWithNoRecords(t *testing.T) {
	s, repo := newService(t)

	admins, err := repo.ListAdmins(context.Background())
	require.NoError(t, err)
	require.Empty(t, admins)

	err = s.Remove(context.Background(), primary)
	require.ErrorIs(t, err, models.ErrProtectedPrimary)
}

func TestBootstrapSeedsPrimaryOnce(t *testing.T) {
	ctx := context.Background()
	s, repo := newService(t)

	require.NoError(t, s.Bootstrap(ctx))
	require.NoError(t, s.Bootstrap(ctx))

	admins, err := repo.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.True(t, admins[0].IsPrimary)
	assert.Equal(t, primary, admins[0].AddedBy)

	require.ErrorIs(t, s.Remove(ctx, primary), models.ErrProtectedPrimary)
}

func TestBootstrapMovesPrimaryFlag(t *testing.T) {
	ctx := context.Background()
	first, repo := newService(t)
	require.NoError(t, first.Bootstrap(ctx))
	_, err := first.Add(ctx, 200, "successor", primary)
	require.NoError(t, err)

	second := NewService(repo, 200, logger.NewNop())
	require.NoError(t, second.Bootstrap(ctx))

	admins, err := repo.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, int64(200), admins[0].TelegramID)
	assert.True(t, admins[0].IsPrimary)
	assert.Equal(t, primary, admins[1].TelegramID)
	assert.False(t, admins[1].IsPrimary)

	require.ErrorIs(t, second.Remove(ctx, 200), models.ErrProtectedPrimary)
	require.NoError(t, second.Remove(ctx, primary))
}

func TestAddTwiceYieldsOneRecord(t *testing.T) {
	ctx := context.Background()
	s, repo := newService(t)
	require.NoError(t, s.Bootstrap(ctx))

	admin, err := s.Add(ctx, 77, "bob", primary)
	require.NoError(t, err)
	assert.Equal(t, int64(77), admin.TelegramID)
	assert.True(t, s.IsAdmin(77))

	_, err = s.Add(ctx, 77, "bob", primary)
	require.ErrorIs(t, err, models.ErrAlreadyExists)

	admins, err := repo.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 2)
	assert.Equal(t, []int64{77, primary}, s.IDs())
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	require.NoError(t, s.Bootstrap(ctx))

	require.ErrorIs(t, s.Remove(ctx, 5), models.ErrNotFound)

	_, err := s.Add(ctx, 5, "", primary)
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, 5))
	assert.False(t, s.IsAdmin(5))
	assert.True(t, s.IsAdmin(primary))
}

func TestReloadPicksUpTableChanges(t *testing.T) {
	ctx := context.Background()
	s, repo := newService(t)

	require.NoError(t, repo.CreateAdmin(ctx, &models.Admin{TelegramID: 9, AddedBy: primary}))
	assert.False(t, s.IsAdmin(9))
	require.NoError(t, s.Reload(ctx))
	assert.True(t, s.IsAdmin(9))
}
