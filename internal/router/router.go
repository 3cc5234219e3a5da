package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/ticketloop/marketplace/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not depend on any handler
// state on the provided Echo instance.  Currently it exposes only a
// health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterCheckout registers the availability and checkout endpoints.
// Availability is open to anonymous callers; lock, confirm and release
// require identity, which the engine enforces itself, so no rejecting
// middleware is applied here.
func RegisterCheckout(e *echo.Echo, h *handler.CheckoutHandler) {
	// Remaining seat counts per category for an event.
	e.GET("/v1/events/:id/availability", h.Availability)

	g := e.Group("/v1/checkout")
	// Acquire a seat lock and start the checkout countdown.
	g.POST("/lock", h.Lock)
	// Commit the purchase for the active checkout attempt.
	g.POST("/confirm", h.Confirm)
	// Abandon the active checkout attempt and free its seats.
	g.POST("/release", h.Release)
	// Seconds left on the active countdown.
	g.GET("/remaining", h.Remaining)
}

// RegisterTickets registers the purchased-ticket views and the
// trade-listing toggle.
func RegisterTickets(e *echo.Echo, h *handler.TicketsHandler) {
	// Tickets grouped by transaction for the current user.
	e.GET("/v1/tickets", h.List)
	// Expanded per-ticket details of one transaction.
	e.GET("/v1/transactions/:id", h.Transaction)
	// Flip a ticket's listed-for-trade flag.
	e.PUT("/v1/tickets/:id/trade-listing", h.ToggleTradeListing)
	// Wipe the caller's cached event metadata.
	e.DELETE("/v1/cache", h.ClearCache)
}

// RegisterRefund registers the refund eligibility probe and the
// cancellation endpoint.
func RegisterRefund(e *echo.Echo, h *handler.RefundHandler) {
	e.GET("/v1/refund-eligibility/:eventID", h.Eligibility)
	e.POST("/v1/cancel/:transactionID", h.Cancel)
}

// RegisterTrade registers trade matching and the trade-request
// lifecycle.
func RegisterTrade(e *echo.Echo, h *handler.TradeHandler) {
	g := e.Group("/v1/trades")
	// Tickets the caller's ticket could be traded for.
	g.GET("/candidates", h.Candidates)
	// Open a trade request against another user's listed ticket.
	g.POST("", h.Create)
	// Open trade requests involving the current user.
	g.GET("/pending", h.Pending)
	// Accept an offered trade; only the requested user may.
	g.PATCH("/accept", h.Accept)
	// Cancel a pending trade; either party may.
	g.PATCH("/cancel", h.Cancel)
}
