package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "delivering", Delivering.String())
	assert.Equal(t, "delivered", Delivered.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "retrying", Retrying.String())
	assert.Equal(t, "unknown", Status(99).String())
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []Status{Pending, Delivering, Delivered, Failed, Retrying} {
		assert.Equal(t, s, NewStatus(s.String()))
	}
}

func TestStatusValidate(t *testing.T) {
	require.NoError(t, Pending.Validate())
	require.NoError(t, Retrying.Validate())
	require.Error(t, Status(0).Validate())
	require.Error(t, Status(99).Validate())
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, Delivered.IsFinal())
	assert.True(t, Failed.IsFinal())
	assert.False(t, Pending.IsFinal())
	assert.False(t, Delivering.IsFinal())

	assert.True(t, Pending.Claimable())
	assert.True(t, Retrying.Claimable())
	assert.False(t, Delivering.Claimable())
	assert.False(t, Delivered.Claimable())
	assert.False(t, Failed.Claimable())
}
