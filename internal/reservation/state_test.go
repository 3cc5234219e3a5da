package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	st := StateIdle
	for _, in := range []Input{InputAvailabilityLoaded, InputLockAcquired, InputConfirmStarted, InputConfirmSucceeded} {
		next, err := transition(st, in)
		require.NoError(t, err, "input %s from %s", in, st)
		st = next
	}
	assert.Equal(t, StateConfirmed, st)
	assert.True(t, st.Terminal())
}

func TestTransitionAvailabilityReloadKeepsState(t *testing.T) {
	st, err := transition(StateAvailabilityLoaded, InputAvailabilityLoaded)
	require.NoError(t, err)
	assert.Equal(t, StateAvailabilityLoaded, st)
}

func TestTransitionLockWithoutAvailability(t *testing.T) {
	// Locking straight from idle is allowed: loading availability first
	// is the common path, not a precondition.
	st, err := transition(StateIdle, InputLockAcquired)
	require.NoError(t, err)
	assert.Equal(t, StateLocked, st)
}

func TestTransitionConfirmRequiresLock(t *testing.T) {
	for _, from := range []State{StateIdle, StateAvailabilityLoaded} {
		_, err := transition(from, InputConfirmStarted)
		var terr *ErrInvalidTransition
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, from, terr.From)
	}
}

func TestTransitionConfirmFailed(t *testing.T) {
	st, err := transition(StateConfirming, InputConfirmFailed)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, st)
	assert.True(t, st.Terminal())
}

func TestTransitionTimeoutFromAnyNonTerminal(t *testing.T) {
	for _, from := range []State{StateIdle, StateAvailabilityLoaded, StateLocked, StateConfirming} {
		st, err := transition(from, InputTimedOut)
		require.NoError(t, err, "timeout from %s", from)
		assert.Equal(t, StateTimedOut, st)
	}
}

func TestTransitionTerminalRejectsEverything(t *testing.T) {
	inputs := []Input{InputAvailabilityLoaded, InputLockAcquired, InputConfirmStarted, InputConfirmSucceeded, InputConfirmFailed, InputTimedOut}
	for _, from := range []State{StateConfirmed, StateTimedOut, StateFailed} {
		for _, in := range inputs {
			st, err := transition(from, in)
			var terr *ErrInvalidTransition
			require.ErrorAs(t, err, &terr, "input %s from %s", in, from)
			assert.Equal(t, from, st, "terminal state must not move")
		}
	}
}
