package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatusTransitions(t *testing.T) {
	next, err := PaymentPending.Approve()
	require.NoError(t, err)
	assert.Equal(t, PaymentApproved, next)

	next, err = PaymentPending.Reject()
	require.NoError(t, err)
	assert.Equal(t, PaymentRejected, next)

	for _, from := range []PaymentStatus{PaymentApproved, PaymentRejected} {
		_, err := from.Approve()
		assert.ErrorIs(t, err, ErrAlreadyDecided)
		_, err = from.Reject()
		assert.ErrorIs(t, err, ErrAlreadyDecided)
		assert.True(t, from.Terminal())
	}
	assert.False(t, PaymentPending.Terminal())
	assert.False(t, PaymentStatus("paid").Valid())

	_, err = PaymentStatus("paid").Approve()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyDecided)
}
