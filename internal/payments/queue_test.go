package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/ostiarius/internal/models"
	"github.com/core-coin/ostiarius/internal/testutil"
	"github.com/core-coin/ostiarius/pkg/logger"
)

func TestSubmitCreatesPendingPaymentsWithoutMerging(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(testutil.NewRepository(t), logger.NewNop())
	from := Submitter{TelegramID: 3, Username: "carol", FullName: "Carol"}

	p1, err := q.Submit(ctx, from, "photo-1")
	require.NoError(t, err)
	p2, err := q.Submit(ctx, from, "photo-2")
	require.NoError(t, err)

	assert.NotEqual(t, p1.ID, p2.ID)
	assert.Equal(t, p1.UserID, p2.UserID)
	assert.Equal(t, models.PaymentPending, p1.Status)
	assert.Equal(t, "carol", p1.User.Username)

	got, err := q.Get(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, "photo-2", got.ProofRef)
	assert.Equal(t, int64(3), got.User.TelegramID)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestSubmitRequiresProof(t *testing.T) {
	q := NewQueue(testutil.NewRepository(t), logger.NewNop())
	_, err := q.Submit(context.Background(), Submitter{TelegramID: 1}, "")
	require.Error(t, err)
}

func TestGetUnknownPayment(t *testing.T) {
	q := NewQueue(testutil.NewRepository(t), logger.NewNop())
	_, err := q.Get(context.Background(), 1)
	require.ErrorIs(t, err, models.ErrNotFound)
}
