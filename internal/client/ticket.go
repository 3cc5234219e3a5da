package client

import (
	"context"
	"fmt"
)

// Ticket is the raw ticket record as returned by the ticket service.
type Ticket struct {
	TicketID       string `json:"ticketID"`
	TransactionID  string `json:"transactionID"`
	EventID        string `json:"eventID"`
	SeatID         string `json:"seatID"`
	UserID         string `json:"userID"`
	Status         string `json:"status"`
	ListedForTrade bool   `json:"listed_for_trade"`
}

// EventDetails is the metadata subset of the event service response
// used to annotate transactions and trade candidates.
type EventDetails struct {
	Artist    string `json:"Artist"`
	EventDate string `json:"EventDate"`
	EventTime string `json:"EventTime"`
}

type eventEnvelope struct {
	EventResponse EventDetails `json:"EventResponse"`
}

// TradableVerdict is the per-ticket tradability check result.
type TradableVerdict struct {
	TicketID string `json:"ticket_id"`
	Tradable bool   `json:"tradable"`
	Reason   string `json:"reason,omitempty"`
}

// Tickets exposes the ticket service: ticket records by user, event or
// transaction, the tradability check, and the trade-listing toggle.
type Tickets struct {
	c *Client
}

// Tickets returns the ticket sub-client.
func (c *Client) Tickets() *Tickets { return &Tickets{c: c} }

// Ticket returns a single ticket record by id.
func (t *Tickets) Ticket(ctx context.Context, ticketID string) (Ticket, error) {
	var out Ticket
	if err := t.c.get(ctx, "tickets.get", "/ticket/"+ticketID, &out); err != nil {
		return Ticket{}, err
	}
	return out, nil
}

// UserTickets returns all raw ticket records belonging to a user.
func (t *Tickets) UserTickets(ctx context.Context, userID string) ([]Ticket, error) {
	var out []Ticket
	if err := t.c.get(ctx, "tickets.user", "/tickets/user/"+userID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransactionTickets returns the tickets issued under one transaction.
func (t *Tickets) TransactionTickets(ctx context.Context, transactionID string) ([]Ticket, error) {
	var out []Ticket
	if err := t.c.get(ctx, "tickets.transaction", "/tickets/transaction/"+transactionID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EventTickets returns every ticket of an event regardless of owner or
// listing state. Used by the trade matcher's diagnostic fallback.
func (t *Tickets) EventTickets(ctx context.Context, eventID string) ([]Ticket, error) {
	var out []Ticket
	if err := t.c.get(ctx, "tickets.event", "/tickets/event/"+eventID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TradablePool returns the tickets of an event and category that are
// currently offered in the trade pool.
func (t *Tickets) TradablePool(ctx context.Context, eventID, categoryID string) ([]Ticket, error) {
	var out []Ticket
	path := fmt.Sprintf("/tickets/up-for-trade/%s/%s", eventID, categoryID)
	if err := t.c.get(ctx, "tickets.tradable_pool", path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EventDetails returns the event metadata (artist, date, time).
func (t *Tickets) EventDetails(ctx context.Context, eventID string) (EventDetails, error) {
	var env eventEnvelope
	if err := t.c.get(ctx, "tickets.event_details", "/events/"+eventID, &env); err != nil {
		return EventDetails{}, err
	}
	return env.EventResponse, nil
}

// VerifyTradable runs the structural tradability check for one ticket.
func (t *Tickets) VerifyTradable(ctx context.Context, ticketID string) (TradableVerdict, error) {
	var out TradableVerdict
	if err := t.c.get(ctx, "tickets.verify_tradable", "/verify-ticket/"+ticketID, &out); err != nil {
		return TradableVerdict{}, err
	}
	return out, nil
}

// SetListedForTrade flips a ticket's trade-listing flag.
func (t *Tickets) SetListedForTrade(ctx context.Context, ticketID string, listed bool) (Ticket, error) {
	var out Ticket
	path := fmt.Sprintf("/ticket/%s/list-for-trade", ticketID)
	body := map[string]any{"listed_for_trade": listed}
	if err := t.c.put(ctx, "tickets.list_for_trade", path, body, &out); err != nil {
		return Ticket{}, err
	}
	return out, nil
}
