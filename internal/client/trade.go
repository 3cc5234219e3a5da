package client

import "context"

// TradeRequest mirrors the trade-request service record. The trade
// commit protocol records intent only; no atomic exchange of ticket
// ownership happens downstream yet.
type TradeRequest struct {
	TradeRequestID    string `json:"tradeRequestID"`
	RequesterID       string `json:"requesterID"`
	RequestedUserID   string `json:"requestedUserID"`
	TicketID          string `json:"ticketID"`
	RequestedTicketID string `json:"requestedTicketID"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// Trades exposes the trade-request service stubs.
type Trades struct {
	c *Client
}

// Trades returns the trade-request sub-client.
func (c *Client) Trades() *Trades { return &Trades{c: c} }

// CreateRequest records a new trade intent.
func (t *Trades) CreateRequest(ctx context.Context, req TradeRequest) (TradeRequest, error) {
	var out TradeRequest
	if err := t.c.post(ctx, "trades.create", "/trade-request", req, &out); err != nil {
		return TradeRequest{}, err
	}
	return out, nil
}

// PendingRequests lists the open trade requests involving a user.
func (t *Trades) PendingRequests(ctx context.Context, userID string) ([]TradeRequest, error) {
	var out []TradeRequest
	if err := t.c.get(ctx, "trades.pending", "/trade-requests/"+userID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AcceptRequest marks a trade request accepted on behalf of the
// accepting user.
func (t *Trades) AcceptRequest(ctx context.Context, tradeRequestID, acceptingUserID string) (TradeRequest, error) {
	var out TradeRequest
	body := map[string]any{"tradeRequestID": tradeRequestID, "acceptingUserID": acceptingUserID}
	if err := t.c.patch(ctx, "trades.accept", "/trade-request/accept", body, &out); err != nil {
		return TradeRequest{}, err
	}
	return out, nil
}

// CancelRequest withdraws a pending trade request.
func (t *Trades) CancelRequest(ctx context.Context, tradeRequestID, userID string) (TradeRequest, error) {
	var out TradeRequest
	body := map[string]any{"tradeRequestID": tradeRequestID, "userID": userID}
	if err := t.c.patch(ctx, "trades.cancel", "/trade-request/cancel", body, &out); err != nil {
		return TradeRequest{}, err
	}
	return out, nil
}
