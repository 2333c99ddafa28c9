package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/dto"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/service"
)

// AuthHandler exposes register, login, logout and the current principal.
type AuthHandler struct {
	auth    *service.AuthService
	catalog *auth.PermissionCatalog
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, catalog *auth.PermissionCatalog) *AuthHandler {
	return &AuthHandler{auth: authService, catalog: catalog}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return mapServiceError(err, "user")
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.envelope(result)})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return mapServiceError(err, "user")
	}
	return c.JSON(fiber.Map{"data": h.envelope(result)})
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), principal.Token, principal.Claims.ExpiresAtTime()); err != nil {
		return mapServiceError(err, "token")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User, h.catalog)})
}

func (h *AuthHandler) envelope(result *service.AuthResult) dto.AuthEnvelope {
	return dto.AuthEnvelope{
		User: dto.NewUserResponse(result.User, h.catalog),
		Auth: dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
	}
}
