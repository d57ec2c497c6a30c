package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	"github.com/calvoclucas/app-mdw-2025/internal/presentation/http/response"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

const identityKey = "auth.identity"

// Guard bundles the echo middlewares gating service operations by caller
// identity and role. Authorization predicates run before any business logic.
type Guard struct {
	verifier TokenVerifier
}

// NewGuard constructs the access guard.
func NewGuard(verifier TokenVerifier) *Guard {
	return &Guard{verifier: verifier}
}

// Required rejects requests without a resolvable caller identity.
func (g *Guard) Required(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return response.New(c).WithError(errorbank.Unauthorized("authentication required")).Build()
		}

		identity, err := g.verifier.Verify(c.Request().Context(), token)
		if err != nil {
			return response.New(c).WithError(err).Build()
		}

		c.Set(identityKey, identity)
		return next(c)
	}
}

// Optional resolves the caller when a credential is present and valid, and
// proceeds as guest otherwise. Verifier outages also degrade to guest here,
// since these routes tolerate anonymous access.
func (g *Guard) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token, ok := bearerToken(c); ok {
			if identity, err := g.verifier.Verify(c.Request().Context(), token); err == nil {
				c.Set(identityKey, identity)
				return next(c)
			}
		}
		c.Set(identityKey, Guest)
		return next(c)
	}
}

// Roles allows only authenticated callers whose role is in the allowed set.
// It must run after Required or Optional.
func (g *Guard) Roles(allowed ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := FromContext(c)
			if !identity.Authenticated() {
				return response.New(c).WithError(errorbank.Unauthorized("authentication required")).Build()
			}
			for _, role := range allowed {
				if identity.Role == role {
					return next(c)
				}
			}
			return response.New(c).WithError(errorbank.Forbidden("role not permitted")).Build()
		}
	}
}

// FromContext returns the identity stored by the middlewares, or Guest.
func FromContext(c echo.Context) Identity {
	if identity, ok := c.Get(identityKey).(Identity); ok {
		return identity
	}
	return Guest
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
