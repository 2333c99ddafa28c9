package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/dto"
	"github.com/spec-kit/content-service/internal/auth"
)

// PermissionsHandler lists the permission catalog.
type PermissionsHandler struct {
	catalog *auth.PermissionCatalog
}

// NewPermissionsHandler constructs handler.
func NewPermissionsHandler(catalog *auth.PermissionCatalog) *PermissionsHandler {
	return &PermissionsHandler{catalog: catalog}
}

// List handles GET /api/permissions.
func (h *PermissionsHandler) List(c *fiber.Ctx) error {
	perms := h.catalog.List()
	out := make([]dto.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, dto.NewPermissionResponse(p))
	}
	return c.JSON(fiber.Map{"data": out})
}
