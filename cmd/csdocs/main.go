package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dshills/csdocs/internal/config"
	"github.com/dshills/csdocs/internal/logging"
	"github.com/dshills/csdocs/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

// app holds state shared by every command
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

// newRootCommand creates the root command
func newRootCommand() *cobra.Command {
	a := &app{v: config.New(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "csdocs",
		Short: "Extract C# declarations and documentation from metadata models",
		Long: `csdocs renders source-like C# declarations for documented types and
members of a compiled program, resolves documentation identifiers such as
M:N.C.Method(System.Int32) and serves the results over MCP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./csdocs.yaml)")
	flags.String("db", config.DefaultDBPath, "database path")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.Int("workers", 0, "extraction workers (default: number of CPUs)")
	flags.Bool("strict", false, "reject identifiers that match more than one overload")

	bind := map[string]string{
		"db_path":                   "db",
		"log.level":                 "log-level",
		"log.format":                "log-format",
		"workers":                   "workers",
		"resolver.strict_overloads": "strict",
	}
	for key, flag := range bind {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(newExtractCommand(a))
	rootCmd.AddCommand(newResolveCommand(a))
	rootCmd.AddCommand(newSearchCommand(a))
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newStatusCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// load reads configuration and builds the logger
func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// openStorage opens the configured database, creating its directory
func (a *app) openStorage() (*storage.SQLiteStorage, error) {
	if a.cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return storage.NewSQLiteStorage(a.cfg.DBPath)
}

// newVersionCommand creates the version command
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			title := color.New(color.FgCyan, color.Bold).SprintFunc()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s %s\n", title("csdocs version:"), version)
			fmt.Fprintf(out, "%s %s\n", title("Build time:"), buildTime)
			fmt.Fprintf(out, "%s %s\n", title("Build mode:"), storage.BuildMode)
			fmt.Fprintf(out, "%s %s\n", title("SQLite driver:"), storage.DriverName)
			fmt.Fprintf(out, "%s %s\n", title("Go version:"), runtime.Version())
		},
	}
}
