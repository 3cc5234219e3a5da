// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a checkout attempt is
// successfully confirmed into a purchase. It contains enough
// information for downstream consumers to log, notify, or trigger
// analytics without querying the backing services.
type ReservationConfirmedEvent struct {
	UserID      string `json:"user_id"`
	EventID     string `json:"event_id"`
	CategoryID  string `json:"category_id"`
	Quantity    int    `json:"quantity"`
	ConfirmedAt string `json:"confirmed_at"`
}

// ReservationTimedOutEvent is published when a checkout attempt is
// abandoned or its countdown reaches zero and the lock is released.
type ReservationTimedOutEvent struct {
	UserID     string `json:"user_id"`
	EventID    string `json:"event_id"`
	CategoryID string `json:"category_id"`
	TimedOutAt string `json:"timed_out_at"`
}

// TransactionCancelledEvent is published after a cancellation commit.
type TransactionCancelledEvent struct {
	UserID         string  `json:"user_id"`
	TransactionID  string  `json:"transaction_id"`
	Refunded       bool    `json:"refunded"`
	AmountRefunded float64 `json:"amount_refunded"`
	CancelledAt    string  `json:"cancelled_at"`
}
