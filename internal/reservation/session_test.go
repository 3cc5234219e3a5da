package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketloop/marketplace/internal/apierr"
	"github.com/ticketloop/marketplace/internal/queue"
)

// fakeInventory lets each test swap in the behaviour it needs and
// counts every call so tests can assert that no network I/O happened.
type fakeInventory struct {
	mu sync.Mutex

	availabilityFn func(eventID, categoryID string) (int, error)
	lockFn         func(eventID, categoryID, userID string, quantity int) error
	purchaseFn     func(eventID, categoryID, userID string, quantity int, source string) error
	releaseFn      func(eventID, categoryID, userID string) error

	availabilityCalls int
	lockCalls         int
	purchaseCalls     int
	releaseCalls      int
}

func (f *fakeInventory) Availability(_ context.Context, eventID, categoryID string) (int, error) {
	f.mu.Lock()
	f.availabilityCalls++
	f.mu.Unlock()
	if f.availabilityFn != nil {
		return f.availabilityFn(eventID, categoryID)
	}
	return 0, nil
}

func (f *fakeInventory) Lock(_ context.Context, eventID, categoryID, userID string, quantity int) error {
	f.mu.Lock()
	f.lockCalls++
	f.mu.Unlock()
	if f.lockFn != nil {
		return f.lockFn(eventID, categoryID, userID, quantity)
	}
	return nil
}

func (f *fakeInventory) Purchase(_ context.Context, eventID, categoryID, userID string, quantity int, source string) error {
	f.mu.Lock()
	f.purchaseCalls++
	f.mu.Unlock()
	if f.purchaseFn != nil {
		return f.purchaseFn(eventID, categoryID, userID, quantity, source)
	}
	return nil
}

func (f *fakeInventory) ReleaseTimeout(_ context.Context, eventID, categoryID, userID string) error {
	f.mu.Lock()
	f.releaseCalls++
	f.mu.Unlock()
	if f.releaseFn != nil {
		return f.releaseFn(eventID, categoryID, userID)
	}
	return nil
}

func (f *fakeInventory) calls() (availability, lock, purchase, release int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.availabilityCalls, f.lockCalls, f.purchaseCalls, f.releaseCalls
}

// fakePublisher records published lifecycle events.
type fakePublisher struct {
	mu        sync.Mutex
	confirmed []queue.ReservationConfirmedEvent
	timedOut  []queue.ReservationTimedOutEvent
}

func (f *fakePublisher) ReservationConfirmed(_ context.Context, ev queue.ReservationConfirmedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, ev)
	return nil
}

func (f *fakePublisher) ReservationTimedOut(_ context.Context, ev queue.ReservationTimedOutEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timedOut = append(f.timedOut, ev)
	return nil
}

func TestGetAvailabilityCoversAllCategories(t *testing.T) {
	inv := &fakeInventory{
		availabilityFn: func(_, categoryID string) (int, error) {
			if categoryID == "vip" {
				return 3, nil
			}
			return 10, nil
		},
	}
	sess := NewSession(inv, nil, "")
	out := sess.GetAvailability(context.Background(), "5")

	require.Len(t, out, len(Categories))
	byArea := map[string]int{}
	for _, a := range out {
		byArea[a.Area] = a.Quantity
	}
	assert.Equal(t, 3, byArea["vip"])
	assert.Equal(t, 10, byArea["cat_1"])
	assert.Equal(t, 10, byArea["cat_2"])
	assert.Equal(t, 10, byArea["cat_3"])
}

func TestGetAvailabilityDegradesFailingCategory(t *testing.T) {
	inv := &fakeInventory{
		availabilityFn: func(_, categoryID string) (int, error) {
			if categoryID == "cat_2" {
				return 0, errors.New("upstream down")
			}
			return 7, nil
		},
	}
	sess := NewSession(inv, nil, "")
	out := sess.GetAvailability(context.Background(), "5")

	// One entry per category regardless of failures; the failing one
	// reports zero.
	require.Len(t, out, len(Categories))
	for _, a := range out {
		if a.Area == "cat_2" {
			assert.Equal(t, 0, a.Quantity)
		} else {
			assert.Equal(t, 7, a.Quantity)
		}
	}
}

func TestLockRequiresIdentityBeforeNetwork(t *testing.T) {
	inv := &fakeInventory{}
	sess := NewSession(inv, nil, "")

	_, err := sess.Lock(context.Background(), "5", "cat_1", 2)
	require.ErrorIs(t, err, apierr.ErrAuthMissing)

	availability, lock, purchase, release := inv.calls()
	assert.Zero(t, availability+lock+purchase+release, "no network call may precede the identity check")
	assert.Equal(t, StateIdle, sess.State())
}

func TestLockRejectsInvalidQuantity(t *testing.T) {
	inv := &fakeInventory{}
	sess := NewSession(inv, nil, "u1")

	_, err := sess.Lock(context.Background(), "5", "cat_1", 0)
	var verr *apierr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	_, lock, _, _ := inv.calls()
	assert.Zero(t, lock)
}

func TestLockReturnsRefreshedAvailability(t *testing.T) {
	inv := &fakeInventory{
		availabilityFn: func(_, _ string) (int, error) { return 4, nil },
	}
	sess := NewSession(inv, nil, "u1")

	out, err := sess.Lock(context.Background(), "5", "cat_1", 2)
	require.NoError(t, err)
	require.Len(t, out, len(Categories))
	assert.Equal(t, StateLocked, sess.State())

	_, lock, _, _ := inv.calls()
	assert.Equal(t, 1, lock)
}

func TestLockErrorLeavesSessionIdle(t *testing.T) {
	inv := &fakeInventory{
		lockFn: func(_, _, _ string, _ int) error { return errors.New("locked out") },
	}
	sess := NewSession(inv, nil, "u1")

	_, err := sess.Lock(context.Background(), "5", "cat_1", 2)
	require.Error(t, err)
	assert.Equal(t, StateIdle, sess.State())
}

func TestConfirmPublishesEvent(t *testing.T) {
	inv := &fakeInventory{}
	pub := &fakePublisher{}
	sess := NewSession(inv, pub, "u1")

	_, err := sess.Lock(context.Background(), "5", "cat_1", 2)
	require.NoError(t, err)
	require.NoError(t, sess.Confirm(context.Background(), "5", "cat_1", 2))

	assert.Equal(t, StateConfirmed, sess.State())
	require.Len(t, pub.confirmed, 1)
	assert.Equal(t, "u1", pub.confirmed[0].UserID)
	assert.Equal(t, "5", pub.confirmed[0].EventID)
	assert.Equal(t, 2, pub.confirmed[0].Quantity)
}

func TestConfirmErrorIsSurfaced(t *testing.T) {
	upstream := errors.New("payment declined")
	inv := &fakeInventory{
		purchaseFn: func(_, _, _ string, _ int, _ string) error { return upstream },
	}
	sess := NewSession(inv, nil, "u1")

	_, err := sess.Lock(context.Background(), "5", "cat_1", 1)
	require.NoError(t, err)

	err = sess.Confirm(context.Background(), "5", "cat_1", 1)
	require.ErrorIs(t, err, upstream)
	assert.Equal(t, StateFailed, sess.State())
}

func TestConfirmWithoutLock(t *testing.T) {
	sess := NewSession(&fakeInventory{}, nil, "u1")
	err := sess.Confirm(context.Background(), "5", "cat_1", 1)
	var terr *ErrInvalidTransition
	require.ErrorAs(t, err, &terr)
}

func TestTimeoutReleasesExactlyOnce(t *testing.T) {
	inv := &fakeInventory{}
	pub := &fakePublisher{}
	sess := NewSession(inv, pub, "u1")

	_, err := sess.Lock(context.Background(), "5", "cat_1", 1)
	require.NoError(t, err)

	require.NoError(t, sess.Timeout(context.Background(), "5", "cat_1"))
	require.NoError(t, sess.Timeout(context.Background(), "5", "cat_1"))

	_, _, _, release := inv.calls()
	assert.Equal(t, 1, release, "duplicate timeout must not release twice")
	assert.Len(t, pub.timedOut, 1)
	assert.Equal(t, StateTimedOut, sess.State())
}

func TestTimeoutAfterConfirmIsNoOp(t *testing.T) {
	inv := &fakeInventory{}
	sess := NewSession(inv, nil, "u1")

	_, err := sess.Lock(context.Background(), "5", "cat_1", 1)
	require.NoError(t, err)
	require.NoError(t, sess.Confirm(context.Background(), "5", "cat_1", 1))

	require.NoError(t, sess.Timeout(context.Background(), "5", "cat_1"))
	_, _, _, release := inv.calls()
	assert.Zero(t, release, "confirmed seats must not be released")
	assert.Equal(t, StateConfirmed, sess.State())
}

func TestTimeoutWithoutLockIsSafe(t *testing.T) {
	inv := &fakeInventory{}
	sess := NewSession(inv, nil, "u1")

	require.NoError(t, sess.Timeout(context.Background(), "5", "cat_1"))
	_, _, _, release := inv.calls()
	assert.Equal(t, 1, release, "release endpoint is idempotent server-side")
}
