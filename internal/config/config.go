package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Revocation RevocationConfig
	Seed       SeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Development bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	JWTIssuer             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	PasswordHasher        string
	LoginRatePerSecond    int
	LoginRateBurst        int
}

// RevocationConfig selects the token blacklist backend.
type RevocationConfig struct {
	// Backend is one of "postgres", "redis" or "memory". Empty picks
	// postgres when a DSN is configured and memory otherwise.
	Backend              string
	PruneIntervalMinutes int
}

// SeedConfig describes the optional root administrator created at startup.
type SeedConfig struct {
	RootName     string
	RootEmail    string
	RootPassword string
}

// DevJWTSecret is the signing key used when none is configured.
const DevJWTSecret = "dev-secret"

// ErrInsecureSecret is returned when production runs with the dev secret.
var ErrInsecureSecret = errors.New("AUTH_JWT_SECRET must be set in production")

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "content-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", DevJWTSecret),
			JWTIssuer:             getEnv("AUTH_JWT_ISSUER", "content-service"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			PasswordHasher:        getEnv("AUTH_PASSWORD_HASHER", "bcrypt"),
			LoginRatePerSecond:    getEnvAsInt("AUTH_LOGIN_RATE_PER_SECOND", 5),
			LoginRateBurst:        getEnvAsInt("AUTH_LOGIN_RATE_BURST", 10),
		},
		Revocation: RevocationConfig{
			Backend:              strings.ToLower(os.Getenv("REVOCATION_BACKEND")),
			PruneIntervalMinutes: getEnvAsInt("REVOCATION_PRUNE_INTERVAL_MINUTES", 60),
		},
		Seed: SeedConfig{
			RootName:     getEnv("SEED_ROOT_NAME", "Root"),
			RootEmail:    os.Getenv("SEED_ROOT_EMAIL"),
			RootPassword: os.Getenv("SEED_ROOT_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations that must not reach a running server.
func (c *Config) Validate() error {
	if c.App.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DevJWTSecret) {
		return ErrInsecureSecret
	}
	switch c.Revocation.Backend {
	case "", "memory", "postgres", "redis":
	default:
		return fmt.Errorf("invalid REVOCATION_BACKEND %q", c.Revocation.Backend)
	}
	if c.Revocation.Backend == "postgres" && c.Postgres.DSN == "" {
		return errors.New("REVOCATION_BACKEND=postgres requires POSTGRES_DSN")
	}
	if c.Revocation.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("REVOCATION_BACKEND=redis requires REDIS_ADDR")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// AccessTokenTTL returns the configured token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// PruneInterval returns how often expired revocations are removed; zero
// disables pruning.
func (r RevocationConfig) PruneInterval() time.Duration {
	if r.PruneIntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(r.PruneIntervalMinutes) * time.Minute
}

// Enabled reports whether a root administrator should be seeded.
func (s SeedConfig) Enabled() bool {
	return s.RootEmail != "" && s.RootPassword != ""
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
