// Package cli implements the schedule command line.
package cli

import (
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/tuanphanughdtun/schedule/internal/config"
	"github.com/tuanphanughdtun/schedule/internal/db"
	"github.com/tuanphanughdtun/schedule/internal/logging"
	"github.com/tuanphanughdtun/schedule/internal/render"
	"github.com/tuanphanughdtun/schedule/internal/scheduler"
)

var (
	flagConfig    string
	flagDB        string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string
	flagPlain     bool

	cfg    *config.Config
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the schedule CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedule",
		Short: "Single-machine job scheduling simulator",
		Long: "schedule sequences jobs on one machine with classic dispatching rules,\n" +
			"reports per-job times and schedule metrics, and benchmarks rules against each other.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a TOML config file")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
	root.PersistentFlags().BoolVar(&flagPlain, "plain", false, "Plain output without colors or borders")

	root.AddCommand(
		newRunCmd(),
		newBenchCmd(),
		newGenerateCmd(),
		newJobSetCmd(),
		newRunsCmd(),
		newRulesCmd(),
	)

	return root
}

// setup loads the config, applies flag overrides and builds the logger.
// Flags only override the config when given explicitly.
func setup(cmd *cobra.Command) error {
	loaded, err := config.LoadConfig(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flagDB != "" {
		loaded.Database.DSN = flagDB
	}
	if flags.Changed("log-level") {
		loaded.Logging.Level = flagLogLevel
	}
	if flags.Changed("log-format") {
		loaded.Logging.Format = flagLogFormat
	}
	if flagDebug {
		loaded.Logging.Level = "debug"
	}
	if flagPlain {
		loaded.Output.Plain = true
	}

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, cmd.ErrOrStderr())
	return nil
}

// openStore opens the configured database, running migrations
func openStore() (*db.DB, error) {
	database, err := db.OpenWithConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Database.DSN, err)
	}
	version, err := database.SchemaVersion()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Debug("database opened", "driver", database.Driver(), "dsn", cfg.Database.DSN, "schema_version", version)
	return database, nil
}

// newScheduler builds a scheduler from the simulation config
func newScheduler(simulation scheduler.SchedulerConfig, opts ...scheduler.Option) (*scheduler.Scheduler, error) {
	s, err := scheduler.NewScheduler(simulation, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid simulation settings: %w", err)
	}
	return s, nil
}

func newRenderer() *render.Renderer {
	return render.New(render.Options{
		Plain:         cfg.Output.Plain,
		Timeline:      cfg.Output.Timeline,
		TimelineWidth: cfg.Output.TimelineWidth,
	})
}
