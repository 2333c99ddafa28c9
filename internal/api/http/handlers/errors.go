package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	apperrors "github.com/spec-kit/content-service/pkg/util"
)

// mapServiceError translates service and domain errors into DomainErrors.
// resource names the entity in not-found messages.
func mapServiceError(err error, resource string) error {
	var domainErr *apperrors.DomainError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return domainErr
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.NewInvalidCredentials()
	case errors.Is(err, domain.ErrDuplicateEmail):
		return apperrors.NewConflict("email already in use", map[string]any{"field": "email"})
	case errors.Is(err, domain.ErrPermissionNotFound):
		return apperrors.NewNotFound("permission", nil)
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, auth.ErrEmptyPassword):
		return apperrors.NewValidationError("password is required", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return apperrors.ValidateStruct(out)
}

func currentPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized()
	}
	return principal, nil
}
