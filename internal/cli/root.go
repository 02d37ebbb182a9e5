// Package cli wires the chirper command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"chirper/internal/config"
	"chirper/internal/database"
	"chirper/internal/middleware"

	"github.com/spf13/cobra"
)

var version = "dev"

func init() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok &&
			info.Main.Version != "" &&
			info.Main.Version != "(devel)" {
			version = strings.TrimPrefix(info.Main.Version, "v")
		}
	}
}

// loadConfig is replaced in tests.
var loadConfig = config.LoadConfig

// NewRootCmd creates the root cobra command for the chirper binary.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chirper",
		Short:         "Chirper API server and maintenance commands",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
	)
	return root
}

// setup loads configuration, installs the logger for it and opens the database.
func setup(ctx context.Context) (*config.Config, *database.Lifecycle, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)
	slog.SetDefault(middleware.Logger)

	lc := database.NewLifecycle(cfg, middleware.Logger)
	if _, err := lc.Init(ctx); err != nil {
		return nil, nil, err
	}
	return cfg, lc, nil
}
