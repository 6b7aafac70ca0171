// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/user/mytodolist-go/apperror"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8000"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host          string `env:"DB_HOST" envDefault:"localhost"`
	Port          int    `env:"DB_PORT" envDefault:"5432"`
	User          string `env:"DB_USER,required"`
	Password      string `env:"DB_PASSWORD,required"`
	Name          string `env:"DB_NAME,required"`
	SSLMode       string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns  int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MigrationsDir string `env:"DB_MIGRATIONS_DIR" envDefault:"./migrations"`
}

// DSN returns the connection string in URL form, without a driver scheme.
// Callers prepend "postgres://" (database/sql) or "pgx5://" (migrate).
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// AuthConfig holds session and password-hashing settings.
type AuthConfig struct {
	// CookieName matches the session cookie the frontend already expects.
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"sessionid"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"336h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`
}

// MediaConfig holds the root directory and URL prefix for uploaded files.
type MediaConfig struct {
	Root string `env:"MEDIA_ROOT" envDefault:"./media"`
	URL  string `env:"MEDIA_URL" envDefault:"/media/"`
}

// AppConfig aggregates all configuration sections.
type AppConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Media    MediaConfig
}

// LoadConfig populates an AppConfig from the environment.
func LoadConfig() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, apperror.NewConfigError("failed to parse environment", err)
	}
	return &cfg, nil
}
