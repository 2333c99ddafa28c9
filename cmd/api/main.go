package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/content-service/internal/api/http"
	"github.com/spec-kit/content-service/internal/api/http/handlers"
	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/config"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/observability"
	"github.com/spec-kit/content-service/internal/persistence"
	"github.com/spec-kit/content-service/internal/repository"
	"github.com/spec-kit/content-service/internal/repository/memory"
	"github.com/spec-kit/content-service/internal/revocation"
	"github.com/spec-kit/content-service/internal/service"
	"github.com/spec-kit/content-service/internal/worker"
)

type repositories struct {
	users       repository.UserRepository
	articles    repository.ArticleRepository
	permissions repository.PermissionRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Configured() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg, logger)
	revoked := buildRevocationStore(cfg.Revocation, pg, redis, logger)

	catalog, err := auth.LoadPermissionCatalog(ctx, repos.permissions)
	if err != nil {
		logger.Fatal("failed to load permissions", zap.Error(err))
	}

	tokens := auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), auth.WithIssuer(cfg.Auth.JWTIssuer))
	passwords := auth.NewPasswordHasher(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	dispatcher := events.NewInMemoryDispatcher()

	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	authService := service.NewAuthService(service.AuthDependencies{
		Users:       repos.users,
		Permissions: repos.permissions,
		Revoked:     revoked,
		Tokens:      tokens,
		Passwords:   passwords,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
	})
	userService := service.NewUserService(repos.users, repos.permissions, passwords, dispatcher, logger)
	articleService := service.NewArticleService(repos.articles, dispatcher, logger)

	if err := service.EnsureRootAdmin(ctx, userService, cfg.Seed, logger); err != nil {
		logger.Fatal("failed to seed root admin", zap.Error(err))
	}

	if pruner, ok := revoked.(revocation.Pruner); ok {
		worker.StartRevocationPruner(ctx, pruner, cfg.Revocation.PruneInterval(), logger, metrics)
	}

	loginLimiter := httptransport.NewIPRateLimiter(cfg.Auth.LoginRatePerSecond, cfg.Auth.LoginRateBurst)
	loginLimiter.Start(ctx, 0)

	authMiddleware := auth.NewAuthMiddleware(tokens, revoked, repos.users, auth.DefaultPolicy(), logger, metrics)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, catalog),
		Users:          handlers.NewUsersHandler(userService, catalog),
		Articles:       handlers.NewArticlesHandler(articleService),
		Permissions:    handlers.NewPermissionsHandler(catalog),
		AuthMiddleware: authMiddleware,
		LoginLimiter:   loginLimiter,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	if pg.Configured() {
		pool := pg.PoolHandle()
		return repositories{
			users:       repository.NewUserRepository(pool),
			articles:    repository.NewArticleRepository(pool),
			permissions: repository.NewPermissionRepository(pool),
		}
	}
	logger.Warn("postgres not configured; using in-memory repositories")
	perms := memory.NewPermissionRepository()
	users := memory.NewUserRepository(perms)
	return repositories{
		users:       users,
		articles:    memory.NewArticleRepository(users),
		permissions: perms,
	}
}

func buildRevocationStore(cfg config.RevocationConfig, pg *persistence.Postgres, redis *persistence.Redis, logger *zap.Logger) revocation.Store {
	backend := cfg.Backend
	if backend == "" {
		backend = "memory"
		if pg.Configured() {
			backend = "postgres"
		}
	}

	switch backend {
	case "postgres":
		logger.Info("token revocation backed by postgres")
		return revocation.NewPostgresStore(pg.SQLDB())
	case "redis":
		logger.Info("token revocation backed by redis")
		return revocation.NewRedisStore(redis.Client, "")
	default:
		logger.Warn("token revocation kept in memory; revocations are lost on restart")
		return revocation.NewMemoryStore()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
