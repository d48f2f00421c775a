package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	Environment       string
	LogLevel          string
	JWTSecret         string
	TokenTTL          time.Duration
	AdminUsername     string
	AdminPasswordHash string
	AdminPassword     string
	UploadsDir        string
	UploadsURL        string
	MaxUploadBytes    int64
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	CatalogCacheTTL   time.Duration
	KafkaBrokers      []string
	KafkaOrderTopic   string
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultEnvironment     = "development"
	defaultLogLevel        = "info"
	defaultJWTSecret       = "change-me-in-production"
	defaultTokenTTL        = 24 * time.Hour
	defaultAdminUsername   = "admin"
	defaultUploadsDir      = "./uploads"
	defaultMaxUploadBytes  = 50 << 20
	defaultCatalogCacheTTL = 30 * time.Second
	defaultKafkaOrderTopic = "indiebook.orders"
	defaultShutdownTimeout = 10 * time.Second
	defaultEnvFile         = ".env"
)

// Load reads dotenv files and then parses configuration from flags and environment variables.
func Load() (*Config, error) {
	if err := loadDotEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

// loadDotEnv populates process environment from dotenv files without overriding set variables.
func loadDotEnv(lookup envLookup) error {
	files := []string{defaultEnvFile}
	if v, ok := lookup("INDIEBOOK_ENV_FILE"); ok && v != "" {
		files = strings.Split(v, ",")
	}
	for _, f := range files {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		Environment:       getString(lookup, "ENVIRONMENT", defaultEnvironment),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:          getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		AdminUsername:     getString(lookup, "ADMIN_USERNAME", defaultAdminUsername),
		AdminPasswordHash: getString(lookup, "ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     getString(lookup, "ADMIN_PASSWORD", ""),
		UploadsDir:        getString(lookup, "UPLOADS_DIR", defaultUploadsDir),
		UploadsURL:        getString(lookup, "UPLOADS_URL", ""),
		MaxUploadBytes:    int64(getInt(lookup, "MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		RedisAddr:         getString(lookup, "REDIS_ADDR", ""),
		RedisPassword:     getString(lookup, "REDIS_PASSWORD", ""),
		RedisDB:           getInt(lookup, "REDIS_DB", 0),
		CatalogCacheTTL:   getDuration(lookup, "CATALOG_CACHE_TTL", defaultCatalogCacheTTL),
		KafkaOrderTopic:   getString(lookup, "KAFKA_ORDER_TOPIC", defaultKafkaOrderTopic),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("indiebook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		cacheTTLStr        = cfg.CatalogCacheTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		brokers            = getString(lookup, "KAFKA_BROKERS", "")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "Deployment environment name")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued session tokens")
	fs.StringVar(&cfg.AdminUsername, "admin-user", cfg.AdminUsername, "Admin console login")
	fs.StringVar(&cfg.UploadsDir, "uploads", cfg.UploadsDir, "Directory for uploaded files")
	fs.StringVar(&cfg.UploadsURL, "uploads-url", cfg.UploadsURL, "Bucket URL for uploaded files, overrides -uploads")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "Maximum multipart upload size in bytes")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for catalog cache")
	fs.StringVar(&cacheTTLStr, "cache-ttl", cacheTTLStr, "Catalog cache TTL")
	fs.StringVar(&brokers, "kafka", brokers, "Comma separated Kafka brokers for order events")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.CatalogCacheTTL, err = time.ParseDuration(cacheTTLStr); err != nil {
		return nil, fmt.Errorf("invalid cache ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	cfg.KafkaBrokers = splitList(brokers)

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.CatalogCacheTTL <= 0 {
		cfg.CatalogCacheTTL = defaultCatalogCacheTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.AdminPasswordHash == "" && cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin password or password hash must be provided")
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}

	if cfg.JWTSecret == defaultJWTSecret && cfg.Environment != defaultEnvironment {
		return nil, fmt.Errorf("jwt secret must be set when environment is %q", cfg.Environment)
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
