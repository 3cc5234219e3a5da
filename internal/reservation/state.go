// Package reservation manages the checkout state machine: a time-boxed
// inventory lock that either gets confirmed into a purchase or released
// on timeout. One Session owns exactly one checkout attempt.
package reservation

import "fmt"

// State is the checkout session state. Transitions are monotonic: once
// a terminal state is reached no further transition is accepted.
type State int

const (
	StateIdle State = iota
	StateAvailabilityLoaded
	StateLocked
	StateConfirming
	StateConfirmed // terminal, success
	StateTimedOut  // terminal, failure
	StateFailed    // terminal, failure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAvailabilityLoaded:
		return "availability_loaded"
	case StateLocked:
		return "locked"
	case StateConfirming:
		return "confirming"
	case StateConfirmed:
		return "confirmed"
	case StateTimedOut:
		return "timed_out"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the state accepts no further transitions.
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateTimedOut || s == StateFailed
}

// Input is a state machine input event.
type Input int

const (
	InputAvailabilityLoaded Input = iota
	InputLockAcquired
	InputConfirmStarted
	InputConfirmSucceeded
	InputConfirmFailed
	InputTimedOut
)

func (in Input) String() string {
	switch in {
	case InputAvailabilityLoaded:
		return "availability_loaded"
	case InputLockAcquired:
		return "lock_acquired"
	case InputConfirmStarted:
		return "confirm_started"
	case InputConfirmSucceeded:
		return "confirm_succeeded"
	case InputConfirmFailed:
		return "confirm_failed"
	case InputTimedOut:
		return "timed_out"
	}
	return "unknown"
}

// ErrInvalidTransition reports a rejected state machine input.
type ErrInvalidTransition struct {
	From  State
	Input Input
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("reservation: input %s not valid in state %s", e.Input, e.From)
}

// transition is the pure transition function of the checkout state
// machine. It returns the next state, or an error when the input is not
// valid in the current state. Terminal states reject everything.
func transition(from State, in Input) (State, error) {
	if from.Terminal() {
		return from, &ErrInvalidTransition{From: from, Input: in}
	}
	switch in {
	case InputAvailabilityLoaded:
		if from == StateIdle || from == StateAvailabilityLoaded {
			return StateAvailabilityLoaded, nil
		}
	case InputLockAcquired:
		if from == StateIdle || from == StateAvailabilityLoaded {
			return StateLocked, nil
		}
	case InputConfirmStarted:
		if from == StateLocked {
			return StateConfirming, nil
		}
	case InputConfirmSucceeded:
		if from == StateConfirming {
			return StateConfirmed, nil
		}
	case InputConfirmFailed:
		if from == StateConfirming {
			return StateFailed, nil
		}
	case InputTimedOut:
		// A timeout may land in any non-terminal state: the countdown
		// fires regardless of how far checkout progressed.
		return StateTimedOut, nil
	}
	return from, &ErrInvalidTransition{From: from, Input: in}
}
