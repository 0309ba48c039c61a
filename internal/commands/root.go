package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/logger"
)

// env is the state shared by all subcommands, resolved before each run.
type env struct {
	root     string
	logLevel string

	cfg     *config.Config
	formats *importer.Registry
}

func (e *env) dataDir() string { return e.cfg.DataPath(e.root) }

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	e := &env{formats: importer.DefaultRegistry()}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Import German bank exports and tag transactions by rule",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&e.root, "dir", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "log level (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(e),
		newFormatsCommand(e),
		newDetectCommand(e),
		newImportCommand(e),
		newTagCommand(e),
		newHistoryCommand(e),
	)

	return rootCmd
}

func (e *env) setup(cmd *cobra.Command) error {
	abs, err := filepath.Abs(e.root)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	e.root = abs

	cfg, err := config.LoadDir(e.root)
	if err != nil {
		return err
	}
	e.cfg = cfg

	level := cfg.Log.Level
	if e.logLevel != "" {
		level = e.logLevel
	}
	log, err := logger.Open(cmd.ErrOrStderr(), level, cfg.Log.Format)
	if err != nil {
		return err
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log.With().Str("cmd", cmd.Name()).Logger()))
	return nil
}
