package handler

import (
	"errors"   // sentinel comparisons
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/ticketloop/marketplace/internal/apierr"
	"github.com/ticketloop/marketplace/internal/middleware"
	"github.com/ticketloop/marketplace/internal/repository"
	"github.com/ticketloop/marketplace/internal/reservation"
)

// currentUser extracts the authenticated user id placed into the
// context by the identity middleware. It returns an empty string for
// anonymous requests; handlers pass it through to the engine, which
// decides whether the operation requires identity.
func currentUser(c echo.Context) string {
	return middleware.UserID(c)
}

// writeError translates engine errors into JSON error responses. The
// engine reports failures through sentinel errors and typed wrappers,
// so the mapping is centralised here instead of being repeated in
// every handler method.
func writeError(c echo.Context, err error) error {
	var verr *apierr.ValidationError
	var nerr *apierr.NetworkError
	var terr *reservation.ErrInvalidTransition
	switch {
	case errors.Is(err, apierr.ErrAuthMissing):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, apierr.ErrNotFound), errors.Is(err, repository.ErrTradeRequestNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict), errors.As(err, &terr):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": verr.Error()})
	case errors.As(err, &nerr):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "upstream marketplace error"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
