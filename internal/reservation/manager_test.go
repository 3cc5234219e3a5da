package reservation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketloop/marketplace/internal/apierr"
)

func TestManagerConfirmWithoutActiveAttempt(t *testing.T) {
	m := NewManager(&fakeInventory{}, nil, 60)
	err := m.Confirm(context.Background(), "u1", "5", "cat_1", 1)
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestManagerConfirmRequiresIdentity(t *testing.T) {
	m := NewManager(&fakeInventory{}, nil, 60)
	err := m.Confirm(context.Background(), "", "5", "cat_1", 1)
	assert.ErrorIs(t, err, apierr.ErrAuthMissing)
}

func TestManagerLockConfirmFlow(t *testing.T) {
	inv := &fakeInventory{}
	m := NewManager(inv, nil, 60)

	_, err := m.Lock(context.Background(), "u1", "5", "cat_1", 2)
	require.NoError(t, err)
	assert.Greater(t, m.Remaining("u1", "5", "cat_1"), 0)

	require.NoError(t, m.Confirm(context.Background(), "u1", "5", "cat_1", 2))
	assert.Zero(t, m.Remaining("u1", "5", "cat_1"), "confirm tears the attempt down")

	_, _, purchase, release := inv.calls()
	assert.Equal(t, 1, purchase)
	assert.Zero(t, release)
}

func TestManagerReleaseStopsCountdown(t *testing.T) {
	inv := &fakeInventory{}
	m := NewManager(inv, nil, 60)

	_, err := m.Lock(context.Background(), "u1", "5", "cat_1", 1)
	require.NoError(t, err)
	require.NoError(t, m.Release(context.Background(), "u1", "5", "cat_1"))

	assert.Zero(t, m.Remaining("u1", "5", "cat_1"))
	_, _, _, release := inv.calls()
	assert.Equal(t, 1, release)
}

func TestManagerReleaseWithoutActiveAttempt(t *testing.T) {
	inv := &fakeInventory{}
	m := NewManager(inv, nil, 60)

	require.NoError(t, m.Release(context.Background(), "u1", "5", "cat_1"))
	_, _, _, release := inv.calls()
	assert.Equal(t, 1, release, "release passes through to the idempotent endpoint")
}

func TestManagerSessionsAreKeyedPerUser(t *testing.T) {
	inv := &fakeInventory{}
	m := NewManager(inv, nil, 60)

	_, err := m.Lock(context.Background(), "u1", "5", "cat_1", 1)
	require.NoError(t, err)

	assert.Zero(t, m.Remaining("u2", "5", "cat_1"))
	assert.ErrorIs(t, m.Confirm(context.Background(), "u2", "5", "cat_1", 1), apierr.ErrNotFound)
}
