package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/config"
	"github.com/spec-kit/content-service/internal/domain"
)

// EnsureRootAdmin creates the configured administrator unless an active user
// already holds the email.
func EnsureRootAdmin(ctx context.Context, users *UserService, cfg config.SeedConfig, logger *zap.Logger) error {
	if !cfg.Enabled() {
		return nil
	}
	_, err := users.Create(ctx, "", CreateUserInput{
		Name:       cfg.RootName,
		Email:      cfg.RootEmail,
		Password:   cfg.RootPassword,
		Permission: domain.PermissionAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		logger.Debug("root admin already present", zap.String("email", cfg.RootEmail))
		return nil
	case err != nil:
		return err
	}
	logger.Info("root admin created", zap.String("email", cfg.RootEmail))
	return nil
}
