package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jewelry-store/internal/api/dto"
	"github.com/spec-kit/jewelry-store/internal/auth"
	"github.com/spec-kit/jewelry-store/internal/service"
	apperrors "github.com/spec-kit/jewelry-store/pkg/util"
)

// AuthHandler exposes account endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, _, err := h.auth.Signup(c.Context(), req.Email, req.Username, req.Password, req.Role)
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, "User created successfully", dto.AuthPayload{
		User:  dto.NewUserResponse(user),
		Token: token,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Login successful", dto.AuthPayload{
		User:  dto.NewUserResponse(user),
		Token: token,
	})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.auth.Profile(c.Context(), claims.Subject)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Profile retrieved successfully", dto.NewUserResponse(user))
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := auth.TokenFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	claims, _ := auth.ClaimsFromContext(c)

	h.auth.Logout(c.Context(), token, claims)
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}
