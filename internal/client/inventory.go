package client

import (
	"context"
	"fmt"
)

// Inventory exposes the seat-inventory service: per-category
// availability plus the lock / purchase / timeout-release triple that
// backs a checkout attempt.
type Inventory struct {
	c *Client
}

// Inventory returns the inventory sub-client.
func (c *Client) Inventory() *Inventory { return &Inventory{c: c} }

// DefaultPaymentSource is sent with purchase requests when the caller
// does not supply one.
const DefaultPaymentSource = "tok_visa"

type availabilityResponse struct {
	Count int `json:"count"`
}

// Availability returns the open-seat count for one category of an
// event. The result is never cached here; every call is a fresh query.
func (i *Inventory) Availability(ctx context.Context, eventID, categoryID string) (int, error) {
	var resp availabilityResponse
	path := fmt.Sprintf("/availability/%s/%s", eventID, categoryID)
	if err := i.c.get(ctx, "inventory.availability", path, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// Lock acquires a time-boxed reservation on quantity seats in the given
// category. The call is not idempotent: a retry creates an independent
// lock attempt server-side.
func (i *Inventory) Lock(ctx context.Context, eventID, categoryID, userID string, quantity int) error {
	path := fmt.Sprintf("/lock/%s/%s", eventID, categoryID)
	body := map[string]any{"userID": userID, "quantity": quantity}
	return i.c.post(ctx, "inventory.lock", path, body, nil)
}

// Purchase confirms payment for previously locked seats. source is the
// payment token; DefaultPaymentSource is used when empty.
func (i *Inventory) Purchase(ctx context.Context, eventID, categoryID, userID string, quantity int, source string) error {
	if source == "" {
		source = DefaultPaymentSource
	}
	path := fmt.Sprintf("/purchase/%s/%s", eventID, categoryID)
	body := map[string]any{"userID": userID, "quantity": quantity, "source": source}
	return i.c.post(ctx, "inventory.purchase", path, body, nil)
}

// ReleaseTimeout releases a previously acquired lock. The server treats
// the release as idempotent, so calling it without a held lock is safe.
func (i *Inventory) ReleaseTimeout(ctx context.Context, eventID, categoryID, userID string) error {
	path := fmt.Sprintf("/timeout/%s/%s", eventID, categoryID)
	body := map[string]any{"userID": userID}
	return i.c.post(ctx, "inventory.timeout", path, body, nil)
}
