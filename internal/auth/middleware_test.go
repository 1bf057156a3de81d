package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/jewelry-store/internal/domain"
	apperrors "github.com/spec-kit/jewelry-store/pkg/util"
)

func newTestApp(tm *TokenManager, b *Blacklist, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"success": false, "message": de.Message})
		},
	})
	mw := NewAuthMiddleware(tm, b)
	chain := append([]fiber.Handler{mw.Handle}, extra...)
	chain = append(chain, func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c)
		return c.JSON(fiber.Map{"sub": claims.Subject, "role": claims.Role})
	})
	app.Get("/protected", chain...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestMiddlewareMissingToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	app := newTestApp(tm, NewBlacklist())

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "Basic abc").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "Bearer").StatusCode)
}

func TestMiddlewareRevokedToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	b := NewBlacklist()
	app := newTestApp(tm, b)

	token := issueToken(t, tm)
	assert.Equal(t, http.StatusOK, doRequest(t, app, "Bearer "+token).StatusCode)

	// Revocation narrows acceptance even though the token still verifies.
	b.Revoke(token)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "Bearer "+token).StatusCode)
}

func TestMiddlewareExpiredAndMalformedTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	app := newTestApp(tm, NewBlacklist())

	expiredTM := NewTokenManager("test-secret", 60)
	expiredTM.ttl = -time.Minute
	expired := issueToken(t, expiredTM)

	assert.Equal(t, http.StatusForbidden, doRequest(t, app, "Bearer "+expired).StatusCode)
	assert.Equal(t, http.StatusForbidden, doRequest(t, app, "Bearer not-a-jwt").StatusCode)
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	app := newTestApp(tm, NewBlacklist(), RequireRole(domain.RoleSuperAdmin))

	adminToken, _, err := tm.GenerateToken(&domain.User{ID: "u1", Email: "a@x.com", Username: "a", Role: domain.RoleAdmin})
	require.NoError(t, err)
	superToken, _, err := tm.GenerateToken(&domain.User{ID: "u2", Email: "s@x.com", Username: "s", Role: domain.RoleSuperAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doRequest(t, app, "Bearer "+adminToken).StatusCode)
	assert.Equal(t, http.StatusOK, doRequest(t, app, "Bearer "+superToken).StatusCode)
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Message)
		},
	})
	app.Get("/admin", RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
