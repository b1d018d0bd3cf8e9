package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	t.Run("Success: Defaults only", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "Daily Planner", cfg.Vault.PlannerDir)
		assert.Equal(t, "✅Tasks", cfg.Vault.TasksDir)
		assert.Equal(t, "❤️Health Tracker", cfg.Vault.HealthDir)
		assert.Equal(t, "Summary.md", cfg.Vault.SummaryFile)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, "memory", cfg.Database.Driver)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
		assert.True(t, cfg.Scheduler.Enabled)
		assert.Equal(t, 6, cfg.Scheduler.Hour)
		assert.Equal(t, 2*time.Second, cfg.Watcher.Debounce)
		assert.Equal(t, []string{"Glutes", "Legs", "Back", "Brists", "Shoulders", "Jogging", "Yoga"}, cfg.Chart.DefaultCategories)
	})

	t.Run("Success: File overrides defaults", func(t *testing.T) {
		p := writeConfig(t, `
vault:
  root: /notes
  summary_file: Weekly.md
database:
  driver: sqlite
  sqlite_path: /tmp/archive.db
chart:
  colors:
    Legs: "#112233"
`)
		cfg, err := Load(p)
		require.NoError(t, err)

		assert.Equal(t, "/notes", cfg.Vault.Root)
		assert.Equal(t, "Weekly.md", cfg.Vault.SummaryFile)
		assert.Equal(t, "Daily Planner", cfg.Vault.PlannerDir)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "#112233", cfg.Chart.Colors["Legs"])
	})

	t.Run("Success: Environment wins over the file", func(t *testing.T) {
		p := writeConfig(t, "vault:\n  root: /from-file\n")
		t.Setenv("PLANNER_VAULT_ROOT", "/from-env")
		t.Setenv("PLANNER_VAULT_PLANNER_DIR", "Planner")
		t.Setenv("PLANNER_SERVER_PORT", "9090")
		t.Setenv("PLANNER_REDIS_ENABLED", "true")
		t.Setenv("PLANNER_WATCHER_DEBOUNCE", "500ms")

		cfg, err := Load(p)
		require.NoError(t, err)

		assert.Equal(t, "/from-env", cfg.Vault.Root)
		assert.Equal(t, "Planner", cfg.Vault.PlannerDir)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 500*time.Millisecond, cfg.Watcher.Debounce)
	})

	t.Run("Fail: Unknown driver", func(t *testing.T) {
		t.Setenv("PLANNER_DATABASE_DRIVER", "oracle")

		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Fail: Postgres needs connection details", func(t *testing.T) {
		p := writeConfig(t, "database:\n  driver: postgres\n  host: db\n")

		_, err := Load(p)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Fail: Hour out of range", func(t *testing.T) {
		t.Setenv("PLANNER_SCHEDULER_HOUR", "24")

		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Fail: Bad palette colour", func(t *testing.T) {
		p := writeConfig(t, "chart:\n  colors:\n    Legs: blue\n")

		_, err := Load(p)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Fail: Passphrase without a signing secret", func(t *testing.T) {
		t.Setenv("PLANNER_AUTH_PASSPHRASE_HASH", "$2a$12$abcdefghijklmnopqrstuv")

		_, err := Load("")
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("Fail: Unknown timezone", func(t *testing.T) {
		t.Setenv("PLANNER_VAULT_TIMEZONE", "Mars/Olympus")

		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Fail: Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "kanso", Password: "p@ss", Name: "planner", SSLMode: "disable"}

	assert.Equal(t, "postgres://kanso:p%40ss@db:5432/planner?sslmode=disable", d.DSN())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "vault.root", envKey("PLANNER_VAULT_ROOT"))
	assert.Equal(t, "auth.jwt_secret", envKey("PLANNER_AUTH_JWT_SECRET"))
	assert.Equal(t, "debug", envKey("PLANNER_DEBUG"))
}
