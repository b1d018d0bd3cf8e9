// Package main implements the planner CLI: the vault commands run locally
// against the configured vault, serve and watch keep running until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-planner/internal/app"
	"github.com/comitanigiacomo/kanso-planner/internal/config"
	"github.com/comitanigiacomo/kanso-planner/internal/logger"
)

var (
	configPath string
	vaultRoot  string
	logLevel   string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Weekly planner summaries for a markdown vault",
	Long: `planner keeps the Daily Planner folders of a markdown vault in shape and
renders the weekly Summary.md from daily task files and habit trackers.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("PLANNER_CONFIG"), "YAML config file")
	rootCmd.PersistentFlags().StringVar(&vaultRoot, "vault", "", "vault root, overrides vault.root")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

// loadApp builds the application for one command. The caller must Close it.
func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if vaultRoot != "" {
		cfg.Vault.Root = vaultRoot
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, log)
}

func withApp(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func parseDate(raw string, a *app.App) (time.Time, error) {
	if raw == "" {
		return a.Clock(), nil
	}
	loc, _ := a.Config.Vault.Location()
	d, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

func printList(cmd *cobra.Command, title string, items []string) {
	if len(items) == 0 {
		cmd.Printf("%s: none\n", title)
		return
	}
	cmd.Printf("%s:\n  %s\n", title, strings.Join(items, "\n  "))
}
