package model

import "time"

// TradeRequest records the intent to exchange one ticket for another.
// The commit protocol is intentionally incomplete: rows track the
// request lifecycle (pending, accepted, cancelled) but no ownership
// exchange happens when a request is accepted.
//
// Fields:
//  TradeRequestID    primary key, a uuid minted at creation.
//  RequesterID       user proposing the trade.
//  RequestedUserID   owner of the wanted ticket.
//  TicketID          the requester's offered ticket.
//  RequestedTicketID the wanted ticket.
//  Status            request state (pending, accepted, cancelled).
//  CreatedAt         creation timestamp.
type TradeRequest struct {
	TradeRequestID    string    `json:"tradeRequestID"`    // trade_request.traderequestid
	RequesterID       string    `json:"requesterID"`       // trade_request.requesterid
	RequestedUserID   string    `json:"requestedUserID"`   // trade_request.requesteduserid
	TicketID          string    `json:"ticketID"`          // trade_request.ticketid
	RequestedTicketID string    `json:"requestedTicketID"` // trade_request.requestedticketid
	Status            string    `json:"status"`            // trade_request.status
	CreatedAt         time.Time `json:"created_at"`        // trade_request.created_at
}

// Trade request statuses.
const (
	TradeStatusPending   = "pending"
	TradeStatusAccepted  = "accepted"
	TradeStatusCancelled = "cancelled"
)
