package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/ticketloop/marketplace/internal/client"
	"github.com/ticketloop/marketplace/internal/refund"
)

// RefundHandler exposes the refund workflow: an eligibility probe and
// the cancellation itself. After a successful cancellation it drops the
// cached ticket details for the transaction so the listing reflects the
// new state.
type RefundHandler struct {
	Workflow *refund.Workflow // eligibility checks and cancellation
	Tickets  *TicketsHandler  // cache invalidation after cancel, may be nil
}

// NewRefundHandler constructs a RefundHandler. The workflow must be
// non-nil; the tickets handler is optional.
func NewRefundHandler(w *refund.Workflow, tickets *TicketsHandler) *RefundHandler {
	if w == nil {
		panic("nil workflow passed to NewRefundHandler")
	}
	return &RefundHandler{Workflow: w, Tickets: tickets}
}

// Eligibility handles GET /v1/refund-eligibility/:eventID. It reports
// whether the caller's tickets for the event qualify for a refund.
// Upstream failures degrade to a not-eligible verdict instead of an
// error response.
func (h *RefundHandler) Eligibility(c echo.Context) error {
	eventID := c.Param("eventID")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	elig, err := h.Workflow.CheckEligibility(c.Request().Context(), eventID, currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"refund_eligibility": elig.Eligible,
		"message":            elig.Reason,
	})
}

type cancelRequest struct {
	RefundEligibility bool   `json:"refund_eligibility"`
	Message           string `json:"message"`
}

// Cancel handles POST /v1/cancel/:transactionID. The caller passes the
// eligibility verdict it previously obtained; the workflow forwards it
// so the marketplace decides between a refunded and an unrefunded
// cancellation. Concurrent cancels of the same transaction collapse
// into one upstream call.
func (h *RefundHandler) Cancel(c echo.Context) error {
	txnID := c.Param("transactionID")
	if txnID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transaction id"})
	}
	var body cancelRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	userID := currentUser(c)
	result, err := h.Workflow.Cancel(c.Request().Context(), userID, txnID, client.RefundEligibility{
		Eligible: body.RefundEligibility,
		Reason:   body.Message,
	})
	if err != nil {
		return writeError(c, err)
	}
	if h.Tickets != nil {
		h.Tickets.invalidate(userID, txnID)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":           result.Message,
		"amount_refunded":   result.AmountRefunded,
		"cancelled_tickets": result.CancelledTickets,
	})
}
