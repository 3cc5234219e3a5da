// Package trade matches a ticket against eligible counterparties in
// the trade pool and records trade intent. The commit protocol is an
// open interface: intent is persisted but no atomic exchange of ticket
// ownership is performed.
package trade

import (
	"context"
	"log"
	"strings"

	"github.com/ticketloop/marketplace/internal/client"
	"github.com/ticketloop/marketplace/internal/seat"
)

// Candidate is a counterparty ticket eligible for exchange, annotated
// with the requester's event metadata (the pool query does not return
// it) and the parsed seat descriptor.
type Candidate struct {
	client.Ticket
	Seat       seat.Descriptor `json:"seat"`
	EventTitle string          `json:"eventTitle"`
	EventDate  string          `json:"eventDate"`
	EventTime  string          `json:"eventTime"`
}

// PoolAPI is the slice of the ticket service the matcher needs.
// *client.Tickets satisfies it.
type PoolAPI interface {
	TradablePool(ctx context.Context, eventID, categoryID string) ([]client.Ticket, error)
	EventTickets(ctx context.Context, eventID string) ([]client.Ticket, error)
	EventDetails(ctx context.Context, eventID string) (client.EventDetails, error)
}

// Matcher computes trade candidate pools.
type Matcher struct {
	api PoolAPI
}

// NewMatcher returns a Matcher backed by the given ticket API.
func NewMatcher(api PoolAPI) *Matcher {
	return &Matcher{api: api}
}

// voided reports whether a ticket status rules it out of trading.
func voided(status string) bool {
	s := strings.ToLower(status)
	return s == "voided" || s == "cancelled"
}

// eligible is the candidate filter: a candidate must belong to another
// user, be listed for trade, and not be voided or cancelled. The same
// three predicates are applied to the primary pool query and to the
// diagnostic fallback.
func eligible(t client.Ticket, requesterID string) bool {
	return t.UserID != requesterID && t.ListedForTrade && !voided(t.Status)
}

// FindCandidates computes the pool of other users' tickets eligible to
// be exchanged against the given ticket. Tickets of a voided or
// cancelled transaction match nothing. When the primary pool query
// returns no eligible candidate, a diagnostic fallback fetches every
// ticket of the event and recomputes the same predicates client-side;
// a non-empty fallback result is trusted and returned, and the
// divergence is logged so the server-side query can be audited.
func (m *Matcher) FindCandidates(ctx context.Context, ticket client.Ticket, seatID string) ([]Candidate, error) {
	if voided(ticket.Status) {
		return nil, nil
	}

	desc := seat.Parse(seatID)
	categoryID := seat.CategoryID(desc.Category)

	pool, err := m.api.TradablePool(ctx, ticket.EventID, categoryID)
	if err != nil {
		log.Printf("trade: pool query for event %s category %s failed: %v", ticket.EventID, categoryID, err)
		pool = nil
	}

	matched := make([]client.Ticket, 0, len(pool))
	for _, t := range pool {
		if eligible(t, ticket.UserID) {
			matched = append(matched, t)
		}
	}

	if len(matched) == 0 {
		fallback, err := m.fallbackCandidates(ctx, ticket)
		if err != nil {
			log.Printf("trade: fallback pool for event %s failed: %v", ticket.EventID, err)
		}
		if len(fallback) > 0 {
			log.Printf("trade: pool query for event %s category %s returned none but full scan found %d; server query should be re-verified",
				ticket.EventID, categoryID, len(fallback))
			matched = fallback
		}
	}

	return m.enrich(ctx, ticket.EventID, matched), nil
}

// fallbackCandidates re-derives the candidate pool from the full ticket
// set of the event, compensating for possible inconsistency between the
// narrow server-side pool query and the full data.
func (m *Matcher) fallbackCandidates(ctx context.Context, ticket client.Ticket) ([]client.Ticket, error) {
	all, err := m.api.EventTickets(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	out := make([]client.Ticket, 0)
	for _, t := range all {
		if eligible(t, ticket.UserID) {
			out = append(out, t)
		}
	}
	return out, nil
}

// enrich attaches the requester's event metadata and parsed seat
// descriptors to the surviving candidates. Metadata failure degrades to
// empty fields; candidates are never dropped over it.
func (m *Matcher) enrich(ctx context.Context, eventID string, tickets []client.Ticket) []Candidate {
	var ev client.EventDetails
	if len(tickets) > 0 {
		var err error
		ev, err = m.api.EventDetails(ctx, eventID)
		if err != nil {
			log.Printf("trade: event metadata for %s failed: %v", eventID, err)
		}
	}
	out := make([]Candidate, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, Candidate{
			Ticket:     t,
			Seat:       seat.Parse(t.SeatID),
			EventTitle: ev.Artist,
			EventDate:  ev.EventDate,
			EventTime:  ev.EventTime,
		})
	}
	return out
}
