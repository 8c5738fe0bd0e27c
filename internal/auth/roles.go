package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crowdfund-service/internal/domain"
	apperrors "github.com/spec-kit/crowdfund-service/pkg/util"
)

// RequireRole ensures the authenticated caller holds one of the allowed
// roles. Matching is exact: ADMIN does not implicitly pass a USER-only
// check, so routes open to both list both roles at registration time.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[claims.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
