package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/maintenance-service/internal/domain"
)

// RequireRole ensures the principal holds one of the allowed roles. The
// services check roles again; this only rejects early at the route.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if !principal.Actor.Is(allowed...) {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}
