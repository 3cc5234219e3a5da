package reservation

import (
	"sync"
	"time"
)

// DefaultCheckoutSeconds is the checkout window when no explicit total
// is configured.
const DefaultCheckoutSeconds = 300

// Countdown decrements once per second from a fixed total and invokes
// its expiry callback exactly once when it reaches zero. Re-entering
// the checkout view restarts the countdown; after expiry every further
// Start or Restart is a no-op and no ticks are delivered.
type Countdown struct {
	mu        sync.Mutex
	total     int
	remaining int
	interval  time.Duration
	fired     bool
	stop      chan struct{}
	onExpire  func()
}

// NewCountdown returns a countdown of total seconds. onExpire runs
// synchronously on the tick that reaches zero; it must not block for
// long. The countdown is created stopped; call Start.
func NewCountdown(total int, onExpire func()) *Countdown {
	return newCountdown(total, time.Second, onExpire)
}

// newCountdown lets tests shrink the tick interval.
func newCountdown(total int, interval time.Duration, onExpire func()) *Countdown {
	if total <= 0 {
		total = DefaultCheckoutSeconds
	}
	return &Countdown{total: total, remaining: total, interval: interval, onExpire: onExpire}
}

// Start begins ticking from the full total. Starting an already running
// countdown resets it (the checkout view was re-entered). Starting an
// expired countdown does nothing.
func (cd *Countdown) Start() {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	if cd.fired {
		return
	}
	cd.stopLocked()
	cd.remaining = cd.total
	cd.stop = make(chan struct{})
	go cd.run(cd.stop)
}

// Restart is Start under its UI-facing name.
func (cd *Countdown) Restart() { cd.Start() }

// Stop halts ticking without firing the expiry callback. Used when the
// session reaches a terminal state through confirm or manual release.
func (cd *Countdown) Stop() {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	cd.stopLocked()
}

func (cd *Countdown) stopLocked() {
	if cd.stop != nil {
		close(cd.stop)
		cd.stop = nil
	}
}

// Remaining returns the seconds left.
func (cd *Countdown) Remaining() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.remaining
}

// Expired reports whether the countdown has fired.
func (cd *Countdown) Expired() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.fired
}

func (cd *Countdown) run(stop chan struct{}) {
	ticker := time.NewTicker(cd.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cd.mu.Lock()
			// A restart swaps the stop channel; a stale goroutine must
			// not keep decrementing.
			if cd.fired || cd.stop != stop {
				cd.mu.Unlock()
				return
			}
			cd.remaining--
			if cd.remaining > 0 {
				cd.mu.Unlock()
				continue
			}
			// Zero reached: fire exactly once and disable further
			// ticks before invoking the callback.
			cd.remaining = 0
			cd.fired = true
			cd.stopLocked()
			fn := cd.onExpire
			cd.mu.Unlock()
			if fn != nil {
				fn()
			}
			return
		}
	}
}
