package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/ticketloop/marketplace/internal/apierr"
	"github.com/ticketloop/marketplace/internal/client"
	"github.com/ticketloop/marketplace/internal/trade"
)

// TradeHandler serves trade matching and trade requests. Matching only
// needs the marketplace; requests additionally need the local store, so
// the Requests dependency may be nil when no database is configured and
// the request endpoints then answer 503.
type TradeHandler struct {
	Matcher  *trade.Matcher  // candidate discovery
	Requests *trade.Requests // trade-request lifecycle, may be nil
	Tickets  *client.Tickets // lookups for the ticket being offered
}

// NewTradeHandler constructs a TradeHandler. The matcher and ticket
// client must be non-nil.
func NewTradeHandler(m *trade.Matcher, r *trade.Requests, tickets *client.Tickets) *TradeHandler {
	if m == nil || tickets == nil {
		panic("nil dependency passed to NewTradeHandler")
	}
	return &TradeHandler{Matcher: m, Requests: r, Tickets: tickets}
}

// Candidates handles GET /v1/trades/candidates. The caller names the
// ticket it wants to trade away; the response lists marketplace tickets
// it could be traded for. A voided offered ticket yields an empty list.
func (h *TradeHandler) Candidates(c echo.Context) error {
	userID := currentUser(c)
	if userID == "" {
		return writeError(c, apierr.ErrAuthMissing)
	}
	ticketID := c.QueryParam("ticket_id")
	if ticketID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_id is required"})
	}
	ticket, err := h.Tickets.Ticket(c.Request().Context(), ticketID)
	if err != nil {
		return writeError(c, err)
	}
	seatID := c.QueryParam("seat_id")
	if seatID == "" {
		seatID = ticket.SeatID
	}
	candidates, err := h.Matcher.FindCandidates(c.Request().Context(), ticket, seatID)
	if err != nil {
		return writeError(c, err)
	}
	if candidates == nil {
		candidates = []trade.Candidate{}
	}
	return c.JSON(http.StatusOK, echo.Map{"candidates": candidates})
}

type createTradeRequest struct {
	RequestedUserID   string `json:"requested_user_id"`
	TicketID          string `json:"ticket_id"`
	RequestedTicketID string `json:"requested_ticket_id"`
}

// Create handles POST /v1/trades. It records a pending trade request
// between the caller and the owner of the requested ticket.
func (h *TradeHandler) Create(c echo.Context) error {
	if h.Requests == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "trade requests are not enabled"})
	}
	var body createTradeRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req, err := h.Requests.Create(c.Request().Context(), currentUser(c), body.RequestedUserID, body.TicketID, body.RequestedTicketID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"trade_request": req})
}

// Pending handles GET /v1/trades/pending. It lists the caller's open
// trade requests, both sent and received.
func (h *TradeHandler) Pending(c echo.Context) error {
	if h.Requests == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "trade requests are not enabled"})
	}
	userID := currentUser(c)
	if userID == "" {
		return writeError(c, apierr.ErrAuthMissing)
	}
	items, err := h.Requests.Pending(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"trade_requests": items})
}

type tradeDecisionRequest struct {
	TradeRequestID string `json:"trade_request_id"`
}

// Accept handles PATCH /v1/trades/accept. Only the user the trade was
// offered to may accept; anyone else receives 403.
func (h *TradeHandler) Accept(c echo.Context) error {
	if h.Requests == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "trade requests are not enabled"})
	}
	var body tradeDecisionRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TradeRequestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "trade_request_id is required"})
	}
	req, err := h.Requests.Accept(c.Request().Context(), body.TradeRequestID, currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"trade_request": req})
}

// Cancel handles PATCH /v1/trades/cancel. Either party of a pending
// trade request may cancel it.
func (h *TradeHandler) Cancel(c echo.Context) error {
	if h.Requests == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "trade requests are not enabled"})
	}
	var body tradeDecisionRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TradeRequestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "trade_request_id is required"})
	}
	req, err := h.Requests.Cancel(c.Request().Context(), body.TradeRequestID, currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"trade_request": req})
}
