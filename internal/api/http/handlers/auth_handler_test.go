package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/jewelry-store/internal/api/http"
	"github.com/spec-kit/jewelry-store/internal/api/http/handlers"
	"github.com/spec-kit/jewelry-store/internal/auth"
	"github.com/spec-kit/jewelry-store/internal/config"
	"github.com/spec-kit/jewelry-store/internal/domain"
	"github.com/spec-kit/jewelry-store/internal/observability"
	"github.com/spec-kit/jewelry-store/internal/service"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) GetByEmailOrUsername(_ context.Context, email, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email || user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newAuthTestApp(t *testing.T) (*fiber.App, *auth.Blacklist) {
	t.Helper()
	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost}}
	tokenMgr := auth.NewTokenManager("test-secret", 60)
	blacklist := auth.NewBlacklist()

	svc := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:  &memoryUserRepo{users: make(map[string]*domain.User)},
		TokenMgr:  tokenMgr,
		Blacklist: blacklist,
	})
	handler := handlers.NewAuthHandler(svc)
	authMiddleware := auth.NewAuthMiddleware(tokenMgr, blacklist)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), httptransport.MiddlewareConfig{})
	app.Post("/api/auth/signup", handler.Signup)
	app.Post("/api/auth/login", handler.Login)
	app.Get("/api/auth/profile", authMiddleware.Handle, handler.Profile)
	app.Post("/api/auth/logout", authMiddleware.Handle, handler.Logout)
	return app, blacklist
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any, headers map[string]string) (*http.Response, envelope) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp, decodeEnvelope(t, resp)
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestSignupReturnsUserAndToken(t *testing.T) {
	app, _ := newAuthTestApp(t)

	resp, env := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email":    "a@x.com",
		"username": "a",
		"password": "secret",
	}, nil)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)

	var data struct {
		User struct {
			Email        string `json:"email"`
			Role         string `json:"role"`
			PasswordHash string `json:"passwordHash"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "a@x.com", data.User.Email)
	assert.Equal(t, "ADMIN", data.User.Role)
	assert.Empty(t, data.User.PasswordHash)
	assert.NotEmpty(t, data.Token)
}

func TestSignupValidationAndConflictEnvelope(t *testing.T) {
	app, _ := newAuthTestApp(t)

	resp, env := postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email":    "a@x.com",
		"username": "a",
		"password": "12345",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)

	_, _ = postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email": "a@x.com", "username": "a", "password": "secret",
	}, nil)
	resp, env = postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email": "a@x.com", "username": "other", "password": "secret",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestLoginLogoutLifecycle(t *testing.T) {
	app, blacklist := newAuthTestApp(t)

	_, _ = postJSON(t, app, "/api/auth/signup", fiber.Map{
		"email": "a@x.com", "username": "a", "password": "secret",
	}, nil)

	resp, env := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email": "a@x.com", "password": "secret",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	bearer := map[string]string{"Authorization": "Bearer " + data.Token}

	// Profile works while the token is live.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+data.Token)
	profileResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, profileResp.StatusCode)

	// Logout revokes it.
	resp, _ = postJSON(t, app, "/api/auth/logout", fiber.Map{}, bearer)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, blacklist.IsRevoked(data.Token))

	// The same token is now rejected before any handler runs.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+data.Token)
	profileResp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, profileResp.StatusCode)
}

func TestLoginFailureEnvelope(t *testing.T) {
	app, _ := newAuthTestApp(t)

	resp, env := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email": "missing@x.com", "password": "whatever",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid credentials", env.Message)
}

func TestProfileRequiresToken(t *testing.T) {
	app, _ := newAuthTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
}
