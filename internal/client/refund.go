package client

import "context"

// RefundEligibility is the eligibility verdict for cancelling a
// transaction. Transient: recomputed per cancellation attempt.
type RefundEligibility struct {
	Eligible bool   `json:"refund_eligibility"`
	Reason   string `json:"message,omitempty"`
}

// CancelResult reports the outcome of a committed cancellation.
type CancelResult struct {
	Message          string   `json:"message"`
	AmountRefunded   float64  `json:"amount_refunded"`
	CancelledTickets []Ticket `json:"cancelled_tickets"`
}

// Refunds exposes the refund service: eligibility query and the
// cancellation commit.
type Refunds struct {
	c *Client
}

// Refunds returns the refund sub-client.
func (c *Client) Refunds() *Refunds { return &Refunds{c: c} }

// Eligibility checks whether a transaction's event still qualifies for
// a refund for the given user.
func (r *Refunds) Eligibility(ctx context.Context, eventID, userID string) (RefundEligibility, error) {
	var out RefundEligibility
	path := "/refund-eligibility/" + eventID + "?userID=" + userID
	if err := r.c.get(ctx, "refund.eligibility", path, &out); err != nil {
		return RefundEligibility{}, err
	}
	return out, nil
}

// Cancel commits the cancellation of a transaction. The previously
// computed eligibility is forwarded so the backend knows whether to
// issue a refund.
func (r *Refunds) Cancel(ctx context.Context, transactionID string, eligibility bool) (CancelResult, error) {
	var out CancelResult
	body := map[string]any{"refund_eligibility": eligibility}
	if err := r.c.post(ctx, "refund.cancel", "/cancel/"+transactionID, body, &out); err != nil {
		return CancelResult{}, err
	}
	return out, nil
}
