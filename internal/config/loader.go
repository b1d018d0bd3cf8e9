package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix         = "PLANNER_"
	maxConfigFileSize = 1024 * 1024
)

var (
	ErrConfigTooLarge = errors.New("config file exceeds 1MB")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrMissingSecret  = errors.New("auth.jwt_secret is required when a passphrase hash is set")
)

const defaults = `
vault:
  root: .
  planner_dir: Daily Planner
  tasks_dir: "✅Tasks"
  health_dir: "❤️Health Tracker"
  summary_file: Summary.md
  timezone: Local
server:
  port: 8080
  read_timeout: 10s
  write_timeout: 30s
  rate_limit: 100
  rate_window: 1m
database:
  driver: memory
  host: localhost
  port: 5432
  sslmode: disable
  sqlite_path: planner.db
  migrations_path: migrations
redis:
  enabled: false
  host: localhost
  port: 6379
  db: 0
auth:
  subject: owner
  issuer: kanso-planner
  token_ttl: 24h
scheduler:
  enabled: true
  hour: 6
  queue: 100
watcher:
  enabled: false
  debounce: 2s
log:
  level: info
  format: json
chart:
  default_categories: [Glutes, Legs, Back, Brists, Shoulders, Jogging, Yoga]
`

// Load reads configuration with precedence env > YAML file > defaults.
// configPath may be empty. A .env file in the working directory is loaded into
// the process environment first when present.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaults)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps PLANNER_VAULT_PLANNER_DIR to vault.planner_dir: the first
// segment is the section, the rest is the field name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, ErrConfigTooLarge
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Auth.PassphraseHash != "" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrMissingSecret)
	}
	if _, err := c.Vault.Location(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
