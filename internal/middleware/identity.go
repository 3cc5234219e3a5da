package middleware

// identity.go resolves the opaque backend user identifier from a Bearer
// access token and stores it in the Echo context under "user_id". The
// middleware never rejects a request: operations that require identity
// fail inside the engine, before any network call, so that the
// precondition is enforced in exactly one place.

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Identity returns middleware that validates a Bearer token when one is
// present and injects its subject claim into the request context. The
// provided secret must match the one used when issuing tokens. Requests
// without a usable token proceed with no identity set.
func Identity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return next(c)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Reject any signing method other than HMAC.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return next(c)
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return next(c)
			}
			if v, ok := claims["sub"].(string); ok && v != "" {
				c.Set("user_id", v)
			} else if v, ok := claims["user_id"].(string); ok && v != "" {
				c.Set("user_id", v)
			}
			return next(c)
		}
	}
}

// UserID returns the resolved backend user id from the context, empty
// when the request carries no identity.
func UserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok {
		return v
	}
	return ""
}
