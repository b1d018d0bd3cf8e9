// Package config loads planner settings from defaults, an optional YAML file
// and PLANNER_* environment variables.
package config

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	Vault     VaultConfig     `koanf:"vault"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Watcher   WatcherConfig   `koanf:"watcher"`
	Log       LogConfig       `koanf:"log"`
	Chart     ChartConfig     `koanf:"chart"`
}

type VaultConfig struct {
	Root        string `koanf:"root" validate:"required"`
	PlannerDir  string `koanf:"planner_dir" validate:"required"`
	TasksDir    string `koanf:"tasks_dir" validate:"required"`
	HealthDir   string `koanf:"health_dir" validate:"required"`
	SummaryFile string `koanf:"summary_file" validate:"required,endswith=.md"`
	Timezone    string `koanf:"timezone"`
}

// Location resolves Timezone; empty means the host's local zone.
func (v VaultConfig) Location() (*time.Location, error) {
	if v.Timezone == "" || v.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", v.Timezone, err)
	}
	return loc, nil
}

type ServerConfig struct {
	Port         int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`
	RateLimit    int           `koanf:"rate_limit" validate:"min=0"`
	RateWindow   time.Duration `koanf:"rate_window" validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver         string `koanf:"driver" validate:"oneof=postgres sqlite memory"`
	Host           string `koanf:"host" validate:"required_if=Driver postgres"`
	Port           int    `koanf:"port"`
	User           string `koanf:"user" validate:"required_if=Driver postgres"`
	Password       string `koanf:"password"`
	Name           string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode        string `koanf:"sslmode"`
	SQLitePath     string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
	MigrationsPath string `koanf:"migrations_path"`
}

func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host" validate:"required_if=Enabled true"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0,max=15"`
}

type AuthConfig struct {
	Subject        string        `koanf:"subject" validate:"required"`
	PassphraseHash string        `koanf:"passphrase_hash"`
	JWTSecret      string        `koanf:"jwt_secret" validate:"omitempty,min=16"`
	Issuer         string        `koanf:"issuer" validate:"required"`
	TokenTTL       time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

type SchedulerConfig struct {
	Enabled bool `koanf:"enabled"`
	Hour    int  `koanf:"hour" validate:"min=0,max=23"`
	Queue   int  `koanf:"queue" validate:"min=1"`
}

type WatcherConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Debounce time.Duration `koanf:"debounce" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type ChartConfig struct {
	DefaultCategories []string          `koanf:"default_categories" validate:"dive,required"`
	Colors            map[string]string `koanf:"colors" validate:"dive,hexcolor"`
}
