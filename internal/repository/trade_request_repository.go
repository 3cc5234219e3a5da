package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ticketloop/marketplace/internal/model"
)

// TradeRequestRepo provides data access to the trade_request table. It
// is responsible for recording trade intent and moving requests through
// their lifecycle. Timestamps are stored in UTC.
type TradeRequestRepo struct {
	db *sql.DB
}

// NewTradeRequestRepo returns a new TradeRequestRepo bound to the
// provided database.
func NewTradeRequestRepo(db *sql.DB) *TradeRequestRepo { return &TradeRequestRepo{db: db} }

// Create inserts a new trade request. The caller supplies the id and
// the status; CreatedAt is set by the database.
func (r *TradeRequestRepo) Create(ctx context.Context, tr model.TradeRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO trade_request
		   (traderequestid, requesterid, requesteduserid, ticketid, requestedticketid, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())`,
		tr.TradeRequestID, tr.RequesterID, tr.RequestedUserID, tr.TicketID, tr.RequestedTicketID, tr.Status,
	)
	return err
}

// GetByID returns one trade request by id, or ErrTradeRequestNotFound.
func (r *TradeRequestRepo) GetByID(ctx context.Context, id string) (model.TradeRequest, error) {
	var tr model.TradeRequest
	err := r.db.QueryRowContext(ctx,
		`SELECT traderequestid, requesterid, requesteduserid, ticketid, requestedticketid, status, created_at
		   FROM trade_request WHERE traderequestid = ?`,
		id,
	).Scan(&tr.TradeRequestID, &tr.RequesterID, &tr.RequestedUserID, &tr.TicketID, &tr.RequestedTicketID, &tr.Status, &tr.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TradeRequest{}, ErrTradeRequestNotFound
	}
	if err != nil {
		return model.TradeRequest{}, err
	}
	return tr, nil
}

// UpdateStatus moves a pending request to the given status. It returns
// ErrTradeRequestNotFound when no row matches the id and ErrConflict
// when the request already left the pending state.
func (r *TradeRequestRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE trade_request SET status = ? WHERE traderequestid = ? AND status = ?`,
		status, id, model.TradeStatusPending,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrConflict
	}
	return nil
}

// PendingForUser lists the pending requests a user is a party to,
// either as requester or as owner of the wanted ticket, newest first.
func (r *TradeRequestRepo) PendingForUser(ctx context.Context, userID string) ([]model.TradeRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT traderequestid, requesterid, requesteduserid, ticketid, requestedticketid, status, created_at
		   FROM trade_request
		  WHERE status = ? AND (requesterid = ? OR requesteduserid = ?)
		  ORDER BY created_at DESC`,
		model.TradeStatusPending, userID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TradeRequest
	for rows.Next() {
		var tr model.TradeRequest
		if err := rows.Scan(&tr.TradeRequestID, &tr.RequesterID, &tr.RequestedUserID, &tr.TicketID, &tr.RequestedTicketID, &tr.Status, &tr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}
