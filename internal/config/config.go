package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultPath = "config/config.yaml"
	envPrefix   = "APEXCRM_"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver       string `koanf:"driver"`
	DSN          string `koanf:"url"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	Migrate      bool   `koanf:"migrate"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

type EmailConfig struct {
	SMTPHost     string   `koanf:"smtp_host"`
	SMTPPort     int      `koanf:"smtp_port"`
	SMTPUser     string   `koanf:"smtp_user"`
	SMTPPassword string   `koanf:"smtp_password"`
	FromEmail    string   `koanf:"from_email"`
	Recipients   []string `koanf:"recipients"`
}

func (e EmailConfig) Enabled() bool { return e.SMTPHost != "" && len(e.Recipients) > 0 }

type TelegramConfig struct {
	Token  string `koanf:"token"`
	ChatID int64  `koanf:"chat_id"`
}

func (t TelegramConfig) Enabled() bool { return t.Token != "" && t.ChatID != 0 }

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	StatsTTL time.Duration `koanf:"stats_ttl"`
}

type PipelineConfig struct {
	Debounce time.Duration `koanf:"debounce"`
	PageSize int           `koanf:"page_size"`
}

type JobsConfig struct {
	OverdueSpec  string `koanf:"overdue_spec"`
	OverdueLimit int    `koanf:"overdue_limit"`
}

type FilesConfig struct {
	FontPath string `koanf:"font_path"`
}

type SeedConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Path          string `koanf:"path"`
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	JWT      JWTConfig      `koanf:"jwt"`
	Email    EmailConfig    `koanf:"email"`
	Telegram TelegramConfig `koanf:"telegram"`
	Redis    RedisConfig    `koanf:"redis"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Jobs     JobsConfig     `koanf:"jobs"`
	Files    FilesConfig    `koanf:"files"`
	Seed     SeedConfig     `koanf:"seed"`
	LogLevel string         `koanf:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{Driver: DriverMemory, MaxOpenConns: 10},
		JWT:      JWTConfig{TTL: 24 * time.Hour},
		Email:    EmailConfig{SMTPPort: 587},
		Redis:    RedisConfig{StatsTTL: 30 * time.Second},
		Pipeline: PipelineConfig{Debounce: 500 * time.Millisecond, PageSize: 100},
		Jobs:     JobsConfig{OverdueSpec: "0 9 * * *", OverdueLimit: 50},
		Seed:     SeedConfig{AdminEmail: "admin@apexcrm.local"},
		LogLevel: "info",
	}
}

// Load layers, from low to high precedence: defaults, the YAML file named by
// APEXCRM_CONFIG (or path when that is unset and the file exists), and
// APEXCRM_* environment variables. Nested keys use a double underscore:
// APEXCRM_DATABASE__URL sets database.url.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if p := os.Getenv(envPrefix + "CONFIG"); p != "" {
		path = p
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	} else if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		if s == "CONFIG" {
			return ""
		}
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.url is required for the postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("%w: jwt.secret is required", ErrInvalidConfig)
	}
	if c.Pipeline.Debounce < 0 {
		return fmt.Errorf("%w: pipeline.debounce must not be negative", ErrInvalidConfig)
	}
	if c.Pipeline.PageSize <= 0 {
		return fmt.Errorf("%w: pipeline.page_size must be positive", ErrInvalidConfig)
	}
	return nil
}
