package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/ticketloop/marketplace/internal/reservation"
)

// CheckoutHandler exposes the reservation engine over HTTP: category
// availability, lock acquisition, purchase confirmation and manual
// release. Identity extraction happens in middleware; operations that
// require a user reject anonymous callers inside the engine.
type CheckoutHandler struct {
	Manager *reservation.Manager // active checkout sessions and countdowns
}

// NewCheckoutHandler constructs a CheckoutHandler. The manager must be
// non-nil.
func NewCheckoutHandler(m *reservation.Manager) *CheckoutHandler {
	if m == nil {
		panic("nil manager passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{Manager: m}
}

// Availability handles GET /v1/events/:id/availability. It returns the
// remaining seat count for every category of the event. Categories the
// marketplace fails to answer for are reported as zero, so the response
// shape is stable regardless of upstream health.
func (h *CheckoutHandler) Availability(c echo.Context) error {
	eventID := c.Param("id")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	avail := h.Manager.Availability(c.Request().Context(), eventID)
	return c.JSON(http.StatusOK, echo.Map{"availability": avail})
}

type lockRequest struct {
	EventID    string `json:"event_id"`
	CategoryID string `json:"category_id"`
	Quantity   int    `json:"quantity"`
}

// Lock handles POST /v1/checkout/lock. It acquires an inventory lock
// for the requested quantity and starts the checkout countdown. The
// response carries the refreshed availability and the seconds left to
// confirm.
func (h *CheckoutHandler) Lock(c echo.Context) error {
	var body lockRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == "" || body.CategoryID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and category_id are required"})
	}
	userID := currentUser(c)
	avail, err := h.Manager.Lock(c.Request().Context(), userID, body.EventID, body.CategoryID, body.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"availability":      avail,
		"seconds_remaining": h.Manager.Remaining(userID, body.EventID, body.CategoryID),
	})
}

// Confirm handles POST /v1/checkout/confirm. It commits the purchase
// for the active checkout attempt; without one it responds 404.
func (h *CheckoutHandler) Confirm(c echo.Context) error {
	var body lockRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == "" || body.CategoryID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and category_id are required"})
	}
	if err := h.Manager.Confirm(c.Request().Context(), currentUser(c), body.EventID, body.CategoryID, body.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "confirmed"})
}

// Release handles POST /v1/checkout/release. It abandons the active
// checkout attempt and frees the locked seats. Calling it without an
// active attempt is allowed; the marketplace release endpoint is
// idempotent.
func (h *CheckoutHandler) Release(c echo.Context) error {
	var body lockRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == "" || body.CategoryID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and category_id are required"})
	}
	if err := h.Manager.Release(c.Request().Context(), currentUser(c), body.EventID, body.CategoryID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "released"})
}

// Remaining handles GET /v1/checkout/remaining. It reports the seconds
// left on the caller's active countdown for the given event and
// category, zero when no attempt is active.
func (h *CheckoutHandler) Remaining(c echo.Context) error {
	eventID := c.QueryParam("event_id")
	categoryID := c.QueryParam("category_id")
	if eventID == "" || categoryID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and category_id are required"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seconds_remaining": h.Manager.Remaining(currentUser(c), eventID, categoryID),
	})
}
