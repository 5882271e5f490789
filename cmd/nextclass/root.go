package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jabakyo/nextclass"
	"github.com/Jabakyo/nextclass/internal/config"
)

var (
	verbose    bool
	dataDir    string
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nextclass",
	Short: "A concurrent, crash-consistent record store for student schedules",
	Long: `nextclass manages the JSON-backed record store behind the scheduling portal:
class lists with conflict detection, the schedule-verification lifecycle,
and campus events. Every mutation is applied under a per-record lock and
persisted atomically.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "Data directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "nextclass.yaml", "Path to the config file")
}

// openCoordinator loads the config, resolves the data directory, and wires
// the portal. Shared by every subcommand.
func openCoordinator() (*nextclass.Coordinator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	dir := cfg.DataDir
	if dataDir != "" {
		dir = dataDir
	}

	return nextclass.New(dir,
		nextclass.WithLogger(slog.Default()),
		nextclass.WithLockTimeout(cfg.LockTimeout),
		nextclass.WithReadRetries(cfg.ReadRetries),
	)
}
