package reservation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ticketloop/marketplace/internal/apierr"
	"github.com/ticketloop/marketplace/internal/queue"
)

// Categories are the four fixed seat categories every availability
// query covers.
var Categories = []string{"vip", "cat_1", "cat_2", "cat_3"}

// Availability is the open-seat count for one category of an event.
type Availability struct {
	Area     string `json:"area"`
	Quantity int    `json:"quantity"`
}

// InventoryAPI is the slice of the inventory service a session needs.
// *client.Inventory satisfies it.
type InventoryAPI interface {
	Availability(ctx context.Context, eventID, categoryID string) (int, error)
	Lock(ctx context.Context, eventID, categoryID, userID string, quantity int) error
	Purchase(ctx context.Context, eventID, categoryID, userID string, quantity int, source string) error
	ReleaseTimeout(ctx context.Context, eventID, categoryID, userID string) error
}

// Publisher emits reservation lifecycle events. Implementations must
// tolerate broker outages; sessions log publish failures and move on.
type Publisher interface {
	ReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error
	ReservationTimedOut(ctx context.Context, ev queue.ReservationTimedOutEvent) error
}

// Session owns one checkout attempt for one user. It wraps the pure
// transition function with the inventory calls and guards its state
// with a mutex so the countdown goroutine and request handlers can
// drive it concurrently.
type Session struct {
	mu           sync.Mutex
	state        State
	timeoutFired bool

	userID string
	inv    InventoryAPI
	pub    Publisher // may be nil
}

// NewSession returns an idle session. userID may be empty; operations
// that require identity will then fail with apierr.ErrAuthMissing
// before any network call.
func NewSession(inv InventoryAPI, pub Publisher, userID string) *Session {
	return &Session{state: StateIdle, userID: userID, inv: inv, pub: pub}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) apply(in Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := transition(s.state, in)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// GetAvailability queries all four fixed categories concurrently. A
// failing category degrades to quantity zero instead of failing the
// whole call; the result always has one entry per category and the
// method never returns an error.
func (s *Session) GetAvailability(ctx context.Context, eventID string) []Availability {
	out := make([]Availability, len(Categories))
	var wg sync.WaitGroup
	for i, cat := range Categories {
		wg.Add(1)
		go func(i int, cat string) {
			defer wg.Done()
			n, err := s.inv.Availability(ctx, eventID, cat)
			if err != nil {
				log.Printf("reservation: availability for event %s category %s failed: %v", eventID, cat, err)
				n = 0
			}
			out[i] = Availability{Area: cat, Quantity: n}
		}(i, cat)
	}
	wg.Wait()

	// Best effort: a reload after locking is allowed and does not move
	// the state machine.
	_ = s.apply(InputAvailabilityLoaded)
	return out
}

// Lock acquires a reservation on quantity seats. The identity check
// happens before any network I/O. On success the session transitions
// to Locked and the refreshed availability snapshot is returned. Lock
// is not idempotent; a retry is an independent server-side attempt.
func (s *Session) Lock(ctx context.Context, eventID, categoryID string, quantity int) ([]Availability, error) {
	if s.userID == "" {
		return nil, apierr.ErrAuthMissing
	}
	if quantity < 1 {
		return nil, &apierr.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if err := s.inv.Lock(ctx, eventID, categoryID, s.userID, quantity); err != nil {
		return nil, err
	}
	if err := s.apply(InputLockAcquired); err != nil {
		return nil, err
	}
	return s.GetAvailability(ctx, eventID), nil
}

// Confirm commits the purchase of previously locked seats. Errors are
// surfaced to the caller, not swallowed: checkout must block on them.
func (s *Session) Confirm(ctx context.Context, eventID, categoryID string, quantity int) error {
	if s.userID == "" {
		return apierr.ErrAuthMissing
	}
	if err := s.apply(InputConfirmStarted); err != nil {
		return err
	}
	if err := s.inv.Purchase(ctx, eventID, categoryID, s.userID, quantity, ""); err != nil {
		_ = s.apply(InputConfirmFailed)
		return err
	}
	if err := s.apply(InputConfirmSucceeded); err != nil {
		return err
	}
	s.publishConfirmed(ctx, eventID, categoryID, quantity)
	return nil
}

// Timeout releases the lock held by this session. It runs at most once
// per session, is safe to call when no lock is held (the server treats
// the release as idempotent) and is a no-op once the session reached a
// terminal state through another path.
func (s *Session) Timeout(ctx context.Context, eventID, categoryID string) error {
	if s.userID == "" {
		return apierr.ErrAuthMissing
	}
	s.mu.Lock()
	if s.timeoutFired || s.state.Terminal() {
		s.mu.Unlock()
		return nil
	}
	s.timeoutFired = true
	next, err := transition(s.state, InputTimedOut)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	s.mu.Unlock()

	if err := s.inv.ReleaseTimeout(ctx, eventID, categoryID, s.userID); err != nil {
		return err
	}
	s.publishTimedOut(ctx, eventID, categoryID)
	return nil
}

func (s *Session) publishConfirmed(ctx context.Context, eventID, categoryID string, quantity int) {
	if s.pub == nil {
		return
	}
	ev := queue.ReservationConfirmedEvent{
		UserID:      s.userID,
		EventID:     eventID,
		CategoryID:  categoryID,
		Quantity:    quantity,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.pub.ReservationConfirmed(ctx, ev); err != nil {
		log.Printf("reservation: publish confirmed event failed: %v", err)
	}
}

func (s *Session) publishTimedOut(ctx context.Context, eventID, categoryID string) {
	if s.pub == nil {
		return
	}
	ev := queue.ReservationTimedOutEvent{
		UserID:     s.userID,
		EventID:    eventID,
		CategoryID: categoryID,
		TimedOutAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.pub.ReservationTimedOut(ctx, ev); err != nil {
		log.Printf("reservation: publish timeout event failed: %v", err)
	}
}
