package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SecretKey signs tokens and peppers passwords. When empty the service
	// still starts but every auth route answers 500.
	SecretKey string `env:"SECRET_KEY"`

	DB     DBConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Upload UploadConfig
	Admin  AdminConfig
	Audit  AuditConfig
}

type DBConfig struct {
	URL     string `env:"DB_URL, required"`
	Migrate bool   `env:"DB_MIGRATE, default=true"`
}

// MongoConfig configures the audit trail store. An empty URI disables it.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=dars410"`
}

// RedisConfig configures the login throttle store. An empty address disables it.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type AuthConfig struct {
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL,   default=3h"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL,  default=720h"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
	LoginRatePerSec  float64       `env:"LOGIN_RATE_PER_SEC, default=5"`
}

type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR,       default=./uploads"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES, default=6291456"`
}

type AdminConfig struct {
	Login    string `env:"ADMIN_LOGIN"`
	Password string `env:"ADMIN_PASSWORD"`
	FullName string `env:"ADMIN_FULL_NAME"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsDevelopment reports whether pretty logs and echo debug mode are wanted.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
