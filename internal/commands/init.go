package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/rules"
)

func newInitCommand(e *env) *cobra.Command {
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := e.root
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, useGit)
		},
	}

	cmd.Flags().BoolVar(&useGit, "git", false, "track the project in git and commit every import")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir string, useGit bool) error {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	cfg := config.Default()
	cfg.Git.AutoCommit = useGit

	dirs := []string{
		"accounts",
		"rules",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(cfg.DataPath(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.NewService(nil).Save(cfg.DataPath(dir)); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}

	if err := rules.Save(cfg.RulesPath(dir), nil); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	// Raw exports carry personal data; only normalized files are tracked.
	gitignore := "import/\n*.tmp\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	msg := fmt.Sprintf("Initialized tally project at %s", dir)
	if useGit {
		if err := gitops.Init(ctx, dir); err != nil {
			return err
		}
		hash, err := gitops.Commit(ctx, dir, "init: tally project", author(cfg))
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		msg += fmt.Sprintf(" (%s)", hash)
	}

	fmt.Fprintln(out, msg)
	return nil
}

func author(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}
