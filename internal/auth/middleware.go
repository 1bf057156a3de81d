package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/jewelry-store/pkg/util"
)

const (
	claimsKey = "auth_claims"
	tokenKey  = "auth_token"
)

// AuthMiddleware validates bearer tokens against the codec and the blacklist.
type AuthMiddleware struct {
	tokens    *TokenManager
	blacklist *Blacklist
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, blacklist *Blacklist) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, blacklist: blacklist}
}

// Handle enforces authentication for protected routes. Revocation is checked
// before the signature: a revoked token must be rejected even while its
// signature and expiry would still verify.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := extractBearer(c.Get("Authorization"))
	if !ok {
		return apperrors.NewUnauthorized("access token required")
	}

	if m.blacklist.IsRevoked(token) {
		return apperrors.NewUnauthorized("token has been revoked")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewForbidden("invalid or expired token")
	}

	c.Locals(claimsKey, claims)
	c.Locals(tokenKey, token)
	return c.Next()
}

func extractBearer(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ClaimsFromContext retrieves the authenticated identity.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

// TokenFromContext retrieves the raw bearer token, as needed for logout.
func TokenFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(tokenKey)
	if val == nil {
		return "", false
	}
	token, ok := val.(string)
	return token, ok
}
