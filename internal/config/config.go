// Package config loads prdash settings from files, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/Veraticus/prdash/internal/dashboard"
	"github.com/Veraticus/prdash/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PRDASH_GATEWAY_BASE_URL.
const EnvPrefix = "PRDASH"

// DefaultDatabasePath is where the SQLite approval store lives.
const DefaultDatabasePath = "$HOME/.local/share/prdash/prdash.db"

// Settings is the resolved application configuration.
type Settings struct {
	Logging   LoggingSettings
	Gateway   GatewaySettings
	Storage   storage.Config
	Server    ServerSettings
	Dashboard DashboardSettings
}

// GatewaySettings configures the remote procurement API.
type GatewaySettings struct {
	BaseURL       string
	JWTSecret     string
	Subject       string
	Timeout       time.Duration
	RetryAttempts int
	ReferenceTTL  time.Duration
}

// DashboardSettings configures list presentation.
type DashboardSettings struct {
	PageSize       int
	SearchDebounce time.Duration
}

// ServerSettings configures the JSON facade.
type ServerSettings struct {
	Addr string
}

// LoggingSettings configures slog.
type LoggingSettings struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("gateway.base_url", "http://localhost:8080")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("gateway.retry_attempts", 1)
	v.SetDefault("gateway.auth.subject", "prdash")
	v.SetDefault("gateway.reference_ttl", 15*time.Minute)
	v.SetDefault("dashboard.page_size", dashboard.DefaultPageSize)
	v.SetDefault("dashboard.search_debounce", 300*time.Millisecond)
	v.SetDefault("storage.driver", storage.DriverSQLite)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("server.addr", ":8090")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "$HOME/.local/state/prdash/prdash.log")
}

// BindEnv makes every key overridable from PRDASH_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored; variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(ExpandPath(p)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads settings from v and validates them.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Gateway: GatewaySettings{
			BaseURL:       strings.TrimSpace(v.GetString("gateway.base_url")),
			Timeout:       v.GetDuration("gateway.timeout"),
			RetryAttempts: v.GetInt("gateway.retry_attempts"),
			JWTSecret:     v.GetString("gateway.auth.jwt_secret"),
			Subject:       v.GetString("gateway.auth.subject"),
			ReferenceTTL:  v.GetDuration("gateway.reference_ttl"),
		},
		Dashboard: DashboardSettings{
			PageSize:       v.GetInt("dashboard.page_size"),
			SearchDebounce: v.GetDuration("dashboard.search_debounce"),
		},
		Storage: storage.Config{
			Driver:       v.GetString("storage.driver"),
			DatabasePath: ExpandPath(v.GetString("database.path")),
			Redis: storage.RedisConfig{
				Addr:     v.GetString("redis.addr"),
				Password: v.GetString("redis.password"),
				DB:       v.GetInt("redis.db"),
			},
		},
		Server: ServerSettings{Addr: v.GetString("server.addr")},
		Logging: LoggingSettings{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings the application cannot run with.
func (s *Settings) Validate() error {
	if s.Gateway.BaseURL == "" {
		return fmt.Errorf("%w: gateway.base_url", common.ErrMissingConfig)
	}
	if s.Gateway.Timeout < 0 {
		return fmt.Errorf("%w: gateway.timeout must not be negative", common.ErrInvalidConfig)
	}
	if s.Dashboard.PageSize < 1 {
		return fmt.Errorf("%w: dashboard.page_size must be at least 1", common.ErrInvalidConfig)
	}
	switch s.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log level %q", common.ErrInvalidConfig, s.Logging.Level)
	}
	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format %q", common.ErrInvalidConfig, s.Logging.Format)
	}
	return nil
}
