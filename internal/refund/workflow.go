// Package refund implements the cancellation workflow: an eligibility
// check followed by a commit that voids the transaction's tickets and
// refunds the payment when eligible.
package refund

import (
	"context"
	"log"
	"time"

	"github.com/ticketloop/marketplace/internal/apierr"
	"github.com/ticketloop/marketplace/internal/client"
	"github.com/ticketloop/marketplace/internal/flight"
	"github.com/ticketloop/marketplace/internal/queue"
)

// RefundAPI is the slice of the refund service the workflow needs.
// *client.Refunds satisfies it.
type RefundAPI interface {
	Eligibility(ctx context.Context, eventID, userID string) (client.RefundEligibility, error)
	Cancel(ctx context.Context, transactionID string, eligibility bool) (client.CancelResult, error)
}

// CancelPublisher emits the cancellation event after a commit. May be
// nil.
type CancelPublisher interface {
	TransactionCancelled(ctx context.Context, ev queue.TransactionCancelledEvent) error
}

// Workflow checks refund eligibility and commits cancellations. A
// per-transaction in-flight guard prevents a double submit from
// issuing two cancellation requests: the second caller joins the
// first's result.
type Workflow struct {
	api     RefundAPI
	pub     CancelPublisher
	pending flight.Group
}

// NewWorkflow returns a Workflow. pub may be nil.
func NewWorkflow(api RefundAPI, pub CancelPublisher) *Workflow {
	return &Workflow{api: api, pub: pub}
}

// CheckEligibility is a pure query: it never mutates state and is
// recomputed on every cancellation attempt. A resolved identity is
// required. On failure it returns a conservative safe default instead
// of propagating, so the cancellation flow can still proceed.
func (w *Workflow) CheckEligibility(ctx context.Context, eventID, userID string) (client.RefundEligibility, error) {
	if userID == "" {
		return client.RefundEligibility{}, apierr.ErrAuthMissing
	}
	elig, err := w.api.Eligibility(ctx, eventID, userID)
	if err != nil {
		log.Printf("refund: eligibility check for event %s failed: %v", eventID, err)
		return client.RefundEligibility{Eligible: false, Reason: "error"}, nil
	}
	return elig, nil
}

// Cancel commits the cancellation of a transaction and returns the
// result including the refunded amount. The caller is responsible for
// re-fetching the catalog afterwards; no cached transaction state is
// mutated here. A duplicate submit while one is in flight joins the
// pending commit rather than issuing a second request.
func (w *Workflow) Cancel(ctx context.Context, userID, transactionID string, eligibility client.RefundEligibility) (client.CancelResult, error) {
	if userID == "" {
		return client.CancelResult{}, apierr.ErrAuthMissing
	}
	v, err := w.pending.Do("cancel_"+transactionID, func() (any, error) {
		res, err := w.api.Cancel(ctx, transactionID, eligibility.Eligible)
		if err != nil {
			return client.CancelResult{}, err
		}
		w.publishCancelled(ctx, userID, transactionID, eligibility.Eligible, res.AmountRefunded)
		return res, nil
	})
	if err != nil {
		return client.CancelResult{}, err
	}
	return v.(client.CancelResult), nil
}

func (w *Workflow) publishCancelled(ctx context.Context, userID, transactionID string, refunded bool, amount float64) {
	if w.pub == nil {
		return
	}
	ev := queue.TransactionCancelledEvent{
		UserID:         userID,
		TransactionID:  transactionID,
		Refunded:       refunded,
		AmountRefunded: amount,
		CancelledAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := w.pub.TransactionCancelled(ctx, ev); err != nil {
		log.Printf("refund: publish cancelled event failed: %v", err)
	}
}
