package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/dto"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/service"
)

// UsersHandler exposes user administration.
type UsersHandler struct {
	users   *service.UserService
	catalog *auth.PermissionCatalog
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, catalog *auth.PermissionCatalog) *UsersHandler {
	return &UsersHandler{users: users, catalog: catalog}
}

// List handles GET /api/users?cursor=.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page, err := h.users.List(c.UserContext(), c.Query("cursor"))
	if err != nil {
		return mapServiceError(err, "user")
	}
	return c.JSON(dto.PageResponse[dto.UserResponse]{
		Data: dto.NewUserList(page.Items, h.catalog),
		Meta: dto.PageMeta{Cursor: page.NextCursor, HasMore: page.HasMore},
	})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapServiceError(err, "user")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user, h.catalog)})
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Create(c.UserContext(), principal.User.ID, service.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Permission: domain.PermissionCode(req.Permission),
	})
	if err != nil {
		return mapServiceError(err, "user")
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user, h.catalog)})
}

// Update handles PATCH /api/users/:id, including permission changes.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.UserContext(), principal.User.ID, c.Params("id"), service.UpdateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Permission: req.PermissionCode(),
	})
	if err != nil {
		return mapServiceError(err, "user")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user, h.catalog)})
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return mapServiceError(err, "user")
	}
	return c.SendStatus(http.StatusNoContent)
}
