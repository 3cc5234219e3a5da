package trade

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/ticketloop/marketplace/internal/apierr"
	"github.com/ticketloop/marketplace/internal/client"
	"github.com/ticketloop/marketplace/internal/model"
	"github.com/ticketloop/marketplace/internal/repository"
)

// RequestStore is the persistence slice Requests needs.
// *repository.TradeRequestRepo satisfies it.
type RequestStore interface {
	Create(ctx context.Context, tr model.TradeRequest) error
	GetByID(ctx context.Context, id string) (model.TradeRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
	PendingForUser(ctx context.Context, userID string) ([]model.TradeRequest, error)
}

// RequestAPI is the downstream trade-request service slice.
// *client.Trades satisfies it. All calls are stubs downstream: they
// record intent, nothing exchanges ownership.
type RequestAPI interface {
	CreateRequest(ctx context.Context, req client.TradeRequest) (client.TradeRequest, error)
	AcceptRequest(ctx context.Context, tradeRequestID, acceptingUserID string) (client.TradeRequest, error)
	CancelRequest(ctx context.Context, tradeRequestID, userID string) (client.TradeRequest, error)
}

// Requests records trade intent locally and forwards it to the
// trade-request service. The local row is the system of record for the
// request lifecycle; forwarding failures are logged, not fatal, since
// the downstream protocol is a stub.
type Requests struct {
	store RequestStore
	api   RequestAPI
}

// NewRequests returns a Requests service. api may be nil, in which case
// intent is only recorded locally.
func NewRequests(store RequestStore, api RequestAPI) *Requests {
	return &Requests{store: store, api: api}
}

// Create records a new pending trade request and returns it.
func (r *Requests) Create(ctx context.Context, requesterID, requestedUserID, ticketID, requestedTicketID string) (model.TradeRequest, error) {
	if requesterID == "" {
		return model.TradeRequest{}, apierr.ErrAuthMissing
	}
	if ticketID == "" || requestedTicketID == "" {
		return model.TradeRequest{}, &apierr.ValidationError{Field: "ticketID", Reason: "both ticket ids are required"}
	}
	tr := model.TradeRequest{
		TradeRequestID:    uuid.NewString(),
		RequesterID:       requesterID,
		RequestedUserID:   requestedUserID,
		TicketID:          ticketID,
		RequestedTicketID: requestedTicketID,
		Status:            model.TradeStatusPending,
	}
	if err := r.store.Create(ctx, tr); err != nil {
		return model.TradeRequest{}, err
	}
	if r.api != nil {
		if _, err := r.api.CreateRequest(ctx, client.TradeRequest{
			TradeRequestID:    tr.TradeRequestID,
			RequesterID:       tr.RequesterID,
			RequestedUserID:   tr.RequestedUserID,
			TicketID:          tr.TicketID,
			RequestedTicketID: tr.RequestedTicketID,
			Status:            tr.Status,
		}); err != nil {
			log.Printf("trade: forwarding request %s failed: %v", tr.TradeRequestID, err)
		}
	}
	return tr, nil
}

// Accept marks a pending request accepted on behalf of the owner of the
// wanted ticket. Only that user may accept.
func (r *Requests) Accept(ctx context.Context, tradeRequestID, acceptingUserID string) (model.TradeRequest, error) {
	if acceptingUserID == "" {
		return model.TradeRequest{}, apierr.ErrAuthMissing
	}
	tr, err := r.store.GetByID(ctx, tradeRequestID)
	if err != nil {
		return model.TradeRequest{}, err
	}
	if tr.RequestedUserID != acceptingUserID {
		return model.TradeRequest{}, repository.ErrForbidden
	}
	if err := r.store.UpdateStatus(ctx, tradeRequestID, model.TradeStatusAccepted); err != nil {
		return model.TradeRequest{}, err
	}
	tr.Status = model.TradeStatusAccepted
	if r.api != nil {
		if _, err := r.api.AcceptRequest(ctx, tradeRequestID, acceptingUserID); err != nil {
			log.Printf("trade: forwarding accept for %s failed: %v", tradeRequestID, err)
		}
	}
	return tr, nil
}

// Cancel withdraws a pending request. Either party may cancel.
func (r *Requests) Cancel(ctx context.Context, tradeRequestID, userID string) (model.TradeRequest, error) {
	if userID == "" {
		return model.TradeRequest{}, apierr.ErrAuthMissing
	}
	tr, err := r.store.GetByID(ctx, tradeRequestID)
	if err != nil {
		return model.TradeRequest{}, err
	}
	if tr.RequesterID != userID && tr.RequestedUserID != userID {
		return model.TradeRequest{}, repository.ErrForbidden
	}
	if err := r.store.UpdateStatus(ctx, tradeRequestID, model.TradeStatusCancelled); err != nil {
		return model.TradeRequest{}, err
	}
	tr.Status = model.TradeStatusCancelled
	if r.api != nil {
		if _, err := r.api.CancelRequest(ctx, tradeRequestID, userID); err != nil {
			log.Printf("trade: forwarding cancel for %s failed: %v", tradeRequestID, err)
		}
	}
	return tr, nil
}

// Pending lists the open requests a user is a party to.
func (r *Requests) Pending(ctx context.Context, userID string) ([]model.TradeRequest, error) {
	if userID == "" {
		return nil, apierr.ErrAuthMissing
	}
	return r.store.PendingForUser(ctx, userID)
}
