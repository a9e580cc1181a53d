package review

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/ostiarius/internal/ledger"
	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/notificator"
	"github.com/core-coin/ostiarius/internal/testutil"
	"github.com/core-coin/ostiarius/pkg/logger"
)

const admin = int64(1000)

type fixture struct {
	repo       models.Repository
	membership *testutil.Membership
	messenger  *testutil.Messenger
	engine     *Engine
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		repo:       testutil.NewRepository(t),
		membership: testutil.NewMembership(),
		messenger:  testutil.NewMessenger(),
		now:        time.Now().UTC(),
	}
	clock := func() time.Time { return f.now }
	log := logger.NewNop()
	f.engine = NewEngine(
		f.repo,
		ledger.New(clock),
		f.membership,
		notificator.NewNotificator(log, f.messenger),
		log,
		Config{SubscriptionDays: 30, InviteLink: "https://t.me/+invite"},
		clock,
	)
	return f
}

func (f *fixture) submit(t *testing.T, telegramID int64) (*models.User, *models.Payment) {
	ctx := context.Background()
	user, err := f.repo.GetOrCreateUser(ctx, telegramID, "", "User")
	require.NoError(t, err)
	payment := &models.Payment{UserID: user.ID, ProofRef: "proof", Status: models.PaymentPending}
	require.NoError(t, f.repo.CreatePayment(ctx, payment))
	return user, payment
}

func (f *fixture) user(t *testing.T, id uint) *models.User {
	u, err := f.repo.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u
}

const days30 = 30 * 24 * time.Hour

func TestApproveThenApproveAgain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, p1 := f.submit(t, 1)

	d, err := f.engine.Approve(ctx, p1.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentApproved, d.Payment.Status)
	require.NotNil(t, d.NewUntil)
	assert.WithinDuration(t, f.now.Add(days30), *d.NewUntil, time.Second)
	assert.NoError(t, d.NotifyErr)

	stored := f.user(t, user.ID)
	require.NotNil(t, stored.SubscriptionUntil)
	assert.WithinDuration(t, f.now.Add(days30), *stored.SubscriptionUntil, time.Second)

	msgs := f.messenger.To(1)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "https://t.me/+invite")

	_, err = f.engine.Approve(ctx, p1.ID, admin)
	require.ErrorIs(t, err, models.ErrAlreadyDecided)
	_, err = f.engine.Reject(ctx, p1.ID, admin)
	require.ErrorIs(t, err, models.ErrAlreadyDecided)

	again := f.user(t, user.ID)
	assert.Equal(t, stored.SubscriptionUntil.Unix(), again.SubscriptionUntil.Unix())
	assert.Equal(t, stored.Version, again.Version)
	assert.Len(t, f.messenger.To(1), 1)
}

func TestApproveStacksOnActiveSubscription(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, p1 := f.submit(t, 2)
	_, p2 := f.submit(t, 2)

	_, err := f.engine.Approve(ctx, p1.ID, admin)
	require.NoError(t, err)
	d, err := f.engine.Approve(ctx, p2.ID, admin)
	require.NoError(t, err)

	assert.WithinDuration(t, f.now.Add(2*days30), *d.NewUntil, time.Second)
	assert.WithinDuration(t, f.now.Add(2*days30), *f.user(t, user.ID).SubscriptionUntil, time.Second)
}

func TestApproveAfterExpiryStartsFresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, p := f.submit(t, 3)

	expired := f.now.Add(-72 * time.Hour)
	user.SubscriptionUntil = &expired
	require.NoError(t, f.repo.UpdateUserLedger(ctx, user))

	d, err := f.engine.Approve(ctx, p.ID, admin)
	require.NoError(t, err)
	assert.WithinDuration(t, f.now.Add(days30), *d.NewUntil, time.Second)
}

func TestApproveBannedUserRestoresAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, p := f.submit(t, 4)
	user.IsBanned = true
	require.NoError(t, f.repo.UpdateUserLedger(ctx, user))
	f.membership.States[4] = models.MemberKicked

	d, err := f.engine.Approve(ctx, p.ID, admin)
	require.NoError(t, err)
	assert.True(t, d.Unbanned)
	assert.NoError(t, d.RestoreErr)
	assert.Equal(t, []int64{4}, f.membership.Restored)

	stored := f.user(t, user.ID)
	assert.False(t, stored.IsBanned)
	assert.NotNil(t, stored.SubscriptionUntil)
}

func TestApproveBannedUserRestoreFailureStillApproves(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, p := f.submit(t, 5)
	user.IsBanned = true
	require.NoError(t, f.repo.UpdateUserLedger(ctx, user))
	f.membership.RestoreErr[5] = errors.New("not enough rights")

	d, err := f.engine.Approve(ctx, p.ID, admin)
	require.NoError(t, err)
	assert.False(t, d.Unbanned)
	assert.Error(t, d.RestoreErr)

	stored := f.user(t, user.ID)
	assert.True(t, stored.IsBanned)
	require.NotNil(t, stored.SubscriptionUntil)
	assert.WithinDuration(t, f.now.Add(days30), *stored.SubscriptionUntil, time.Second)

	got, err := f.repo.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentApproved, got.Status)
}

func TestApproveDoesNotRestoreUnbannedUser(t *testing.T) {
	f := newFixture(t)
	_, p := f.submit(t, 6)
	_, err := f.engine.Approve(context.Background(), p.ID, admin)
	require.NoError(t, err)
	assert.Empty(t, f.membership.Restored)
}

func TestNotificationFailureKeepsDecision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, p := f.submit(t, 7)
	f.messenger.Fail[7] = errors.New("bot was blocked by the user")

	d, err := f.engine.Approve(ctx, p.ID, admin)
	require.NoError(t, err)
	require.ErrorIs(t, d.NotifyErr, models.ErrExternal)

	got, err := f.repo.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentApproved, got.Status)
	assert.Equal(t, 1, f.messenger.Attempts)
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, p := f.submit(t, 8)

	d, err := f.engine.Reject(ctx, p.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRejected, d.Payment.Status)
	assert.Nil(t, d.NewUntil)
	require.NotNil(t, d.Payment.DecidedBy)
	assert.Equal(t, admin, *d.Payment.DecidedBy)

	stored := f.user(t, user.ID)
	assert.Nil(t, stored.SubscriptionUntil)
	assert.EqualValues(t, 0, stored.Version)
	require.Len(t, f.messenger.To(8), 1)
	assert.Contains(t, f.messenger.To(8)[0].Text, "rejected")

	_, err = f.engine.Approve(ctx, p.ID, admin)
	require.ErrorIs(t, err, models.ErrAlreadyDecided)
}

func TestUnknownPayment(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Approve(context.Background(), 404, admin)
	require.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.engine.Reject(context.Background(), 404, admin)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestConcurrentApprovalsDecideOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, p := f.submit(t, 9)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.Approve(ctx, p.ID, admin+int64(i))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, models.ErrAlreadyDecided)
	}
	assert.Equal(t, 1, succeeded)
	assert.WithinDuration(t, f.now.Add(days30), *f.user(t, user.ID).SubscriptionUntil, time.Second)
}
