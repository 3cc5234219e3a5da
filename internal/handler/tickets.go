package handler

import (
	"net/http" // HTTP status codes
	"sync"     // guarding the per-user catalog map

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/ticketloop/marketplace/internal/apierr"
	"github.com/ticketloop/marketplace/internal/catalog"
)

// TicketsHandler serves the purchased-ticket views: the per-user
// grouped listing, expanded transaction details and the trade-listing
// toggle. Ticket and event caches are private to each user, so the
// handler keeps one Catalog per authenticated user id and creates them
// lazily on first use.
type TicketsHandler struct {
	API catalog.TicketAPI // marketplace ticket endpoints

	mu       sync.Mutex
	catalogs map[string]*catalog.Catalog
}

// NewTicketsHandler constructs a TicketsHandler. The ticket API must be
// non-nil.
func NewTicketsHandler(api catalog.TicketAPI) *TicketsHandler {
	if api == nil {
		panic("nil ticket API passed to NewTicketsHandler")
	}
	return &TicketsHandler{API: api, catalogs: make(map[string]*catalog.Catalog)}
}

// catalogFor returns the catalog owned by the given user, creating it
// on first access.
func (h *TicketsHandler) catalogFor(userID string) *catalog.Catalog {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cat, ok := h.catalogs[userID]; ok {
		return cat
	}
	cat := catalog.New(h.API, catalog.NewStore())
	h.catalogs[userID] = cat
	return cat
}

// List handles GET /v1/tickets. It returns the caller's tickets grouped
// by transaction, each group carrying event metadata. Event lookups
// that fail upstream fall back to placeholder metadata rather than
// failing the whole listing.
func (h *TicketsHandler) List(c echo.Context) error {
	userID := currentUser(c)
	if userID == "" {
		return writeError(c, apierr.ErrAuthMissing)
	}
	groups, err := h.catalogFor(userID).GroupedTickets(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"transactions": groups})
}

// Transaction handles GET /v1/transactions/:id. It expands one
// transaction into per-ticket detail rows. Tradability verdicts are
// resolved asynchronously, so a row's tradability field is null until
// the verdict lands; clients poll or re-fetch to observe it.
func (h *TicketsHandler) Transaction(c echo.Context) error {
	userID := currentUser(c)
	if userID == "" {
		return writeError(c, apierr.ErrAuthMissing)
	}
	txnID := c.Param("id")
	if txnID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transaction id"})
	}
	details, err := h.catalogFor(userID).TicketDetails(c.Request().Context(), txnID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": details})
}

type tradeListingRequest struct {
	TransactionID   string `json:"transaction_id"`
	CurrentlyListed bool   `json:"currently_listed"`
}

// ToggleTradeListing handles PUT /v1/tickets/:id/trade-listing. It
// flips the ticket's listed-for-trade flag on the marketplace and
// mirrors the new value into the cached detail row.
func (h *TicketsHandler) ToggleTradeListing(c echo.Context) error {
	userID := currentUser(c)
	if userID == "" {
		return writeError(c, apierr.ErrAuthMissing)
	}
	ticketID := c.Param("id")
	if ticketID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var body tradeListingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TransactionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction_id is required"})
	}
	ticket, err := h.catalogFor(userID).ToggleTradeListing(c.Request().Context(), body.TransactionID, ticketID, body.CurrentlyListed)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket": ticket})
}

// ClearCache handles DELETE /v1/cache. It wipes the caller's cached
// event metadata so the next listing re-fetches it from the
// marketplace.
func (h *TicketsHandler) ClearCache(c echo.Context) error {
	userID := currentUser(c)
	if userID == "" {
		return writeError(c, apierr.ErrAuthMissing)
	}
	h.catalogFor(userID).Store().Clear()
	return c.JSON(http.StatusOK, echo.Map{"status": "cleared"})
}

// invalidate drops the cached detail rows for a transaction if the user
// has a catalog. The refund handler calls it after a cancellation so
// stale rows are not served afterwards.
func (h *TicketsHandler) invalidate(userID, transactionID string) {
	h.mu.Lock()
	cat, ok := h.catalogs[userID]
	h.mu.Unlock()
	if ok {
		cat.Invalidate(transactionID)
	}
}
