package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/crowdfund-service/pkg/util"
)

const claimsKey = "auth_claims"

// AuthMiddleware validates bearer tokens and attaches the verified claims to
// the request. It never mutates the session store.
type AuthMiddleware struct {
	sessions *SessionManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions *SessionManager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return unauthorized(ErrTokenMissing)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return unauthorized(ErrTokenMalformed)
	}

	claims, err := m.sessions.VerifyToken(c.Context(), parts[1])
	if err != nil {
		return unauthorized(err)
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the authenticated identity, if any.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

// unauthorized maps the token failure taxonomy to 401 responses with
// distinct codes.
func unauthorized(err error) error {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return apperrors.NewUnauthorizedCode("TOKEN_MISSING", "authorization token required")
	case errors.Is(err, ErrTokenExpired):
		return apperrors.NewUnauthorizedCode("TOKEN_EXPIRED", "token expired")
	case errors.Is(err, ErrTokenRevoked):
		return apperrors.NewUnauthorizedCode("TOKEN_REVOKED", "token no longer valid")
	case errors.Is(err, ErrTokenMalformed):
		return apperrors.NewUnauthorizedCode("TOKEN_MALFORMED", "invalid token")
	default:
		return apperrors.MapError(err)
	}
}
