package reservation

import (
	"context"
	"log"
	"sync"

	"github.com/ticketloop/marketplace/internal/apierr"
)

// Manager tracks the active checkout session per (user, event,
// category) for the HTTP facade. Locking creates a session and starts
// its countdown; confirm and release tear it down; the countdown
// reaching zero releases the lock on its own.
type Manager struct {
	mu       sync.Mutex
	inv      InventoryAPI
	pub      Publisher
	window   int // checkout window in seconds
	sessions map[string]*managed
}

type managed struct {
	session   *Session
	countdown *Countdown
}

// NewManager returns a Manager with the given checkout window in
// seconds; zero or negative selects DefaultCheckoutSeconds.
func NewManager(inv InventoryAPI, pub Publisher, windowSeconds int) *Manager {
	if windowSeconds <= 0 {
		windowSeconds = DefaultCheckoutSeconds
	}
	return &Manager{inv: inv, pub: pub, window: windowSeconds, sessions: make(map[string]*managed)}
}

func sessionKey(userID, eventID, categoryID string) string {
	return userID + "|" + eventID + "|" + categoryID
}

// Availability queries the four fixed categories for an event. No
// identity is required and the result is never cached.
func (m *Manager) Availability(ctx context.Context, eventID string) []Availability {
	return NewSession(m.inv, m.pub, "").GetAvailability(ctx, eventID)
}

// Lock starts a checkout attempt: it acquires the inventory lock,
// registers the session and starts its countdown. A still-active
// previous attempt for the same key is abandoned and released first.
func (m *Manager) Lock(ctx context.Context, userID, eventID, categoryID string, quantity int) ([]Availability, error) {
	sess := NewSession(m.inv, m.pub, userID)
	avail, err := sess.Lock(ctx, eventID, categoryID, quantity)
	if err != nil {
		return nil, err
	}

	key := sessionKey(userID, eventID, categoryID)
	cd := NewCountdown(m.window, func() {
		// Countdown owns the expiry path: release the lock and drop
		// the session. Late HTTP responses for this session are
		// ignored by the terminal-state check inside Timeout.
		if err := sess.Timeout(context.Background(), eventID, categoryID); err != nil {
			log.Printf("reservation: countdown release for %s failed: %v", key, err)
		}
		m.remove(key)
	})

	m.mu.Lock()
	if prev, ok := m.sessions[key]; ok {
		prev.countdown.Stop()
		go func() {
			if err := prev.session.Timeout(context.Background(), eventID, categoryID); err != nil {
				log.Printf("reservation: abandoning previous attempt %s failed: %v", key, err)
			}
		}()
	}
	m.sessions[key] = &managed{session: sess, countdown: cd}
	m.mu.Unlock()

	cd.Start()
	return avail, nil
}

// Confirm commits the purchase for the active checkout attempt and
// stops its countdown. Without an active attempt it fails with
// apierr.ErrNotFound.
func (m *Manager) Confirm(ctx context.Context, userID, eventID, categoryID string, quantity int) error {
	if userID == "" {
		return apierr.ErrAuthMissing
	}
	key := sessionKey(userID, eventID, categoryID)
	m.mu.Lock()
	entry, ok := m.sessions[key]
	m.mu.Unlock()
	if !ok {
		return apierr.ErrNotFound
	}
	if err := entry.session.Confirm(ctx, eventID, categoryID, quantity); err != nil {
		return err
	}
	entry.countdown.Stop()
	m.remove(key)
	return nil
}

// Release abandons the active checkout attempt, releasing its lock. It
// is safe to call without an active attempt: the release endpoint is
// idempotent server-side, so a fresh session is used in that case.
func (m *Manager) Release(ctx context.Context, userID, eventID, categoryID string) error {
	if userID == "" {
		return apierr.ErrAuthMissing
	}
	key := sessionKey(userID, eventID, categoryID)
	m.mu.Lock()
	entry, ok := m.sessions[key]
	m.mu.Unlock()
	if !ok {
		return NewSession(m.inv, m.pub, userID).Timeout(ctx, eventID, categoryID)
	}
	entry.countdown.Stop()
	m.remove(key)
	return entry.session.Timeout(ctx, eventID, categoryID)
}

// Remaining returns the seconds left in the active checkout attempt, or
// zero when none exists.
func (m *Manager) Remaining(userID, eventID, categoryID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.sessions[sessionKey(userID, eventID, categoryID)]; ok {
		return entry.countdown.Remaining()
	}
	return 0
}

func (m *Manager) remove(key string) {
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()
}
