package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ashkhen/user-accounts-service/internal/auth"
)

// Context keys written by RequireSession.
const (
	userContextKey   = "user"
	claimsContextKey = "claims"
)

// RequireSession returns an Echo middleware that resolves the Bearer
// access token into an authenticated user before the handler runs.
// Resolution re-reads the account on every request, so a deactivated
// user is locked out immediately even if their token has not expired.
// Each failure answers 401 with the message for the first check that
// failed: missing, invalid, expired, revoked, then inactive.
// Handlers behind this middleware can read the user via
// `c.Get("user")` and the decoded claims via `c.Get("claims")`.
func RequireSession(r *auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, claims, err := r.Resolve(ctx, bearerToken(c))
			if err != nil {
				switch err {
				case auth.ErrMissingToken, auth.ErrTokenInvalid, auth.ErrTokenExpired,
					auth.ErrTokenRevoked, auth.ErrAccountInactive:
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.Message(err)})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
			}

			// Store the resolved identity in the context. Downstream
			// middleware reads the role; handlers read the user.
			c.Set(userContextKey, u)
			c.Set(claimsContextKey, claims)
			c.Set("user_id", u.ID)
			c.Set("role", u.Role)
			return next(c)
		}
	}
}

// bearerToken extracts the raw token from the Authorization header.
// It returns an empty string when the header is absent or does not
// carry the Bearer scheme; the resolver treats that as a missing token.
func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
