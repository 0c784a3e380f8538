package middleware

import (
	"context"

	"community-calendar/core/config"
	"community-calendar/core/constants"
	"community-calendar/core/controller"
	"community-calendar/core/errors"
	"community-calendar/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthenticatedUser is what the auth module resolves a session cookie into.
type AuthenticatedUser struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
}

// SessionAuthenticator validates a session token against the session store.
// Implemented by the auth service.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*AuthenticatedUser, *utils.TokenClaims, error)
}

type Middleware struct {
	authenticator SessionAuthenticator
}

func NewMiddleware(authenticator SessionAuthenticator) *Middleware {
	return &Middleware{authenticator: authenticator}
}

// AuthMiddleware reads the session cookie, validates it, and stores the
// resolved user in the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "No token provided")
			}

			user, claims, err := m.authenticator.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Invalid or expired token")
			}

			c.Set(constants.ContextUser, user)
			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// AdminKeyMiddleware gates admin-only routes on the X-Admin-Key header.
func (m *Middleware) AdminKeyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cfg, ok := config.GetSafe()
			if !ok || cfg.Admin.APIKey == "" {
				return controller.NewErrorResponse(403, errors.ErrForbidden, "Admin access not configured")
			}
			if c.Request().Header.Get(constants.HeaderAdminKey) != cfg.Admin.APIKey {
				return controller.NewErrorResponse(403, errors.ErrForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}

// UserFromContext returns the authenticated user placed by AuthMiddleware.
func UserFromContext(c echo.Context) (*AuthenticatedUser, bool) {
	user, ok := c.Get(constants.ContextUser).(*AuthenticatedUser)
	return user, ok && user != nil
}
