package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/PixelogicMedia/worddiff/internal/config"
	"github.com/PixelogicMedia/worddiff/internal/logging"
	"github.com/PixelogicMedia/worddiff/pkg/customword"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "worddiff",
		Short: "Word-level text diffs with configurable token boundaries",
		Long: `worddiff compares two texts word by word.

Token boundaries come from a regular expression. The default splits on
whitespace, brackets, quotes and word boundaries; install your own with
--pattern, --tokens or diff.boundary_pattern in ~/.worddiff/config.yaml
to keep markers such as "(VO)" or "(OFF)" whole.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.worddiff/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newDiffCmd(),
		newBatchCmd(),
		newPatternCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}

// app is the state every diffing command builds from flags and config.
type app struct {
	cfg        *config.WorddiffConfig
	logger     *slog.Logger
	dispatcher *customword.Dispatcher
	trace      *logging.TraceLog
}

// loadApp loads and validates the config, then installs its boundary
// pattern on the process-wide registry.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

	var trace *logging.TraceLog
	if dir, err := config.Dir(); err == nil {
		trace = logging.NewTraceLog(dir, cfg.Logging.Level)
	}

	customword.SetBoundaryPattern(cfg.Diff.Pattern())

	return &app{
		cfg:        cfg,
		logger:     logger,
		dispatcher: customword.NewDispatcher(customword.Default().Registry(), logger),
		trace:      trace,
	}, nil
}

func (a *app) Close() {
	a.trace.Close()
}

func loadConfig(cmd *cobra.Command) (*config.WorddiffConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
