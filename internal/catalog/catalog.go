package catalog

import (
	"context"
	"log"
	"sync"

	"github.com/ticketloop/marketplace/internal/client"
	"github.com/ticketloop/marketplace/internal/seat"
)

// Placeholder text substituted when event enrichment fails for a
// transaction. The transaction itself is still returned.
const (
	UnknownTitle = "Unknown Event"
	UnknownDate  = "Unknown Date"
	UnknownTime  = "Unknown Time"
)

// Transaction is a group of tickets issued together, enriched with
// event metadata.
type Transaction struct {
	TransactionID string   `json:"transactionID"`
	EventID       string   `json:"eventID"`
	Status        string   `json:"status"`
	TicketIDs     []string `json:"ticketIDs"`
	SeatIDs       []string `json:"seatIDs"`
	EventTitle    string   `json:"eventTitle"`
	EventDate     string   `json:"eventDate"`
	EventTime     string   `json:"eventTime"`
	NumTickets    int      `json:"numTickets"`
}

// Tradability is the per-ticket verdict on whether the ticket is
// structurally eligible to be exchanged. A nil *Tradability on a
// TicketDetail means the check is still pending.
type Tradability struct {
	Tradable bool   `json:"tradable"`
	Reason   string `json:"reason,omitempty"`
}

// TicketDetail is one ticket of a transaction with its parsed seat
// descriptor, the parent transaction's event metadata and the
// asynchronously filled tradability verdict.
type TicketDetail struct {
	client.Ticket
	Seat        seat.Descriptor `json:"seat"`
	EventTitle  string          `json:"eventTitle"`
	EventDate   string          `json:"eventDate"`
	EventTime   string          `json:"eventTime"`
	Tradability *Tradability    `json:"tradability,omitempty"`
}

// TicketAPI is the slice of the ticket service the catalog needs.
// *client.Tickets satisfies it.
type TicketAPI interface {
	UserTickets(ctx context.Context, userID string) ([]client.Ticket, error)
	TransactionTickets(ctx context.Context, transactionID string) ([]client.Ticket, error)
	EventDetails(ctx context.Context, eventID string) (client.EventDetails, error)
	VerifyTradable(ctx context.Context, ticketID string) (client.TradableVerdict, error)
	SetListedForTrade(ctx context.Context, ticketID string, listed bool) (client.Ticket, error)
}

// Catalog owns the transaction/ticket graph one user browses. All
// fetches are deduplicated through the store's in-flight registry, and
// per-transaction detail is cached until invalidated.
type Catalog struct {
	api   TicketAPI
	store *Store

	mu           sync.Mutex
	transactions map[string]Transaction
	details      map[string][]TicketDetail
}

// New returns a Catalog backed by the given ticket API and store.
func New(api TicketAPI, store *Store) *Catalog {
	if store == nil {
		store = NewStore()
	}
	return &Catalog{
		api:          api,
		store:        store,
		transactions: make(map[string]Transaction),
		details:      make(map[string][]TicketDetail),
	}
}

// Store returns the catalog's backing store.
func (c *Catalog) Store() *Store { return c.store }

// GroupedTickets fetches the user's raw tickets and groups them into
// transactions in first-seen order, enriching each group with event
// metadata. Enrichment failure for one group substitutes placeholder
// text instead of failing the whole fetch. Concurrent callers for the
// same user collapse into one network round trip.
func (c *Catalog) GroupedTickets(ctx context.Context, userID string) ([]Transaction, error) {
	v, err := c.store.do("groupedTickets_"+userID, func() (any, error) {
		return c.fetchGrouped(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Transaction), nil
}

func (c *Catalog) fetchGrouped(ctx context.Context, userID string) ([]Transaction, error) {
	raw, err := c.api.UserTickets(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Group by transaction id, preserving first-seen order. Every raw
	// ticket lands in exactly one group.
	index := make(map[string]int)
	groups := make([]Transaction, 0, len(raw))
	for _, t := range raw {
		i, ok := index[t.TransactionID]
		if !ok {
			i = len(groups)
			index[t.TransactionID] = i
			groups = append(groups, Transaction{
				TransactionID: t.TransactionID,
				EventID:       t.EventID,
				Status:        t.Status,
			})
		}
		groups[i].TicketIDs = append(groups[i].TicketIDs, t.TicketID)
		groups[i].SeatIDs = append(groups[i].SeatIDs, t.SeatID)
	}

	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(g *Transaction) {
			defer wg.Done()
			g.NumTickets = len(g.TicketIDs)
			ev, err := c.store.EventDetails(ctx, g.EventID, c.api.EventDetails)
			if err != nil {
				log.Printf("catalog: enrich event %s failed: %v", g.EventID, err)
				g.EventTitle, g.EventDate, g.EventTime = UnknownTitle, UnknownDate, UnknownTime
				return
			}
			g.EventTitle, g.EventDate, g.EventTime = ev.Artist, ev.EventDate, ev.EventTime
		}(&groups[i])
	}
	wg.Wait()

	c.mu.Lock()
	for _, g := range groups {
		c.transactions[g.TransactionID] = g
	}
	c.mu.Unlock()
	return groups, nil
}

// TicketDetails returns the tickets of one transaction, enriched with
// the parent transaction's event metadata. A cached result is returned
// immediately; otherwise concurrent callers for the same transaction
// issue at most one network call. On completion a tradability check is
// dispatched for each ticket independently; each verdict is merged back
// into the cache by ticket id without blocking the batch.
func (c *Catalog) TicketDetails(ctx context.Context, transactionID string) ([]TicketDetail, error) {
	c.mu.Lock()
	if cached, ok := c.details[transactionID]; ok {
		out := copyDetails(cached)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	v, err := c.store.do("ticketDetails_"+transactionID, func() (any, error) {
		return c.fetchDetails(ctx, transactionID)
	})
	if err != nil {
		return nil, err
	}
	// The annotate goroutines dispatched by the fetch mutate the cached
	// slice under the lock, so the caller's snapshot must be taken under
	// it as well.
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.details[transactionID]; ok {
		return copyDetails(cached), nil
	}
	return copyDetails(v.([]TicketDetail)), nil
}

func (c *Catalog) fetchDetails(ctx context.Context, transactionID string) ([]TicketDetail, error) {
	// A racing caller may have populated the cache while we waited on
	// the registry.
	c.mu.Lock()
	if cached, ok := c.details[transactionID]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	parent, hasParent := c.transactions[transactionID]
	c.mu.Unlock()

	tickets, err := c.api.TransactionTickets(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	title, date, timeOfDay := UnknownTitle, UnknownDate, UnknownTime
	if hasParent {
		title, date, timeOfDay = parent.EventTitle, parent.EventDate, parent.EventTime
	} else if len(tickets) > 0 {
		if ev, err := c.store.EventDetails(ctx, tickets[0].EventID, c.api.EventDetails); err == nil {
			title, date, timeOfDay = ev.Artist, ev.EventDate, ev.EventTime
		}
	}

	details := make([]TicketDetail, 0, len(tickets))
	for _, t := range tickets {
		details = append(details, TicketDetail{
			Ticket:     t,
			Seat:       seat.Parse(t.SeatID),
			EventTitle: title,
			EventDate:  date,
			EventTime:  timeOfDay,
		})
	}

	c.mu.Lock()
	c.details[transactionID] = details
	c.mu.Unlock()

	for _, t := range tickets {
		go c.annotate(transactionID, t.TicketID)
	}
	return details, nil
}

// annotate runs one tradability check and merges the verdict into the
// cached detail by ticket id. A failed check is recorded as a terminal
// not-tradable verdict rather than left pending forever. Writes are
// last-write-wins per ticket; the enclosing fetch may have been
// re-issued since the goroutine was dispatched, in which case the
// merge lands on the latest cached state.
func (c *Catalog) annotate(transactionID, ticketID string) {
	verdict, err := c.api.VerifyTradable(context.Background(), ticketID)
	if err != nil {
		log.Printf("catalog: tradability check for ticket %s failed: %v", ticketID, err)
		verdict = client.TradableVerdict{TicketID: ticketID, Tradable: false, Reason: "verification failed"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.details[transactionID]
	if !ok {
		return
	}
	for i := range cached {
		if cached[i].TicketID == ticketID {
			cached[i].Tradability = &Tradability{Tradable: verdict.Tradable, Reason: verdict.Reason}
		}
	}
}

// ToggleTradeListing flips a ticket's trade-listing flag and updates
// the cached detail when present.
func (c *Catalog) ToggleTradeListing(ctx context.Context, transactionID, ticketID string, current bool) (client.Ticket, error) {
	updated, err := c.api.SetListedForTrade(ctx, ticketID, !current)
	if err != nil {
		return client.Ticket{}, err
	}
	c.mu.Lock()
	if cached, ok := c.details[transactionID]; ok {
		for i := range cached {
			if cached[i].TicketID == ticketID {
				cached[i].ListedForTrade = updated.ListedForTrade
			}
		}
	}
	c.mu.Unlock()
	return updated, nil
}

// Invalidate drops the cached detail and grouping for one transaction,
// forcing the next fetch to hit the network. Callers use it after a
// successful cancellation.
func (c *Catalog) Invalidate(transactionID string) {
	c.mu.Lock()
	delete(c.details, transactionID)
	delete(c.transactions, transactionID)
	c.mu.Unlock()
}

func copyDetails(in []TicketDetail) []TicketDetail {
	out := make([]TicketDetail, len(in))
	copy(out, in)
	return out
}
