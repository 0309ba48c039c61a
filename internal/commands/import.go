package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/importlog"
	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/rules"
	"github.com/cleared-dev/tally/internal/store"
	"github.com/cleared-dev/tally/internal/tagging"
)

// errSkipped marks an export that was reported but not imported.
var errSkipped = errors.New("export not imported")

type importOptions struct {
	account  string
	iban     string
	currency string
	format   string
	inbox    bool
}

func newImportCommand(e *env) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank exports into an account",
		Long: "Import detects the bank format of each export, normalizes its rows, tags new\n" +
			"transactions with the project's rules and merges them into the account's\n" +
			"history. Rows already imported are recognized by fingerprint and skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.inbox == (len(args) > 0) {
				return errors.New("pass export files or --inbox, not both or neither")
			}
			return runImport(cmd.Context(), e, cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.account, "account", "a", "", "account name (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&opts.iban, "iban", "", "IBAN of the account, stored for new accounts")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "currency for exports without one (overrides config)")
	cmd.Flags().StringVar(&opts.format, "format", "", "skip detection and use this format")
	cmd.Flags().BoolVar(&opts.inbox, "inbox", false, "import every CSV waiting in import/")

	return cmd
}

func runImport(ctx context.Context, e *env, out io.Writer, files []string, opts importOptions) error {
	log := logger.FromContext(ctx)
	dataDir := e.dataDir()
	inbox := store.NewInbox(dataDir)
	if opts.inbox {
		pending, err := inbox.Pending()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Fprintf(out, "No exports waiting in %s\n", inbox.Dir())
			return nil
		}
		for _, p := range pending {
			files = append(files, p.Path)
		}
	}

	accts, err := accounts.Load(dataDir)
	if err != nil {
		return err
	}
	txnStore := store.NewService(dataDir)
	acct, ok := accts.Get(opts.account)
	if !ok {
		acct = model.Account{Name: opts.account}
		log.Info().Str("account", opts.account).Msg("new account")
	}
	if opts.iban != "" && !sameIBAN(acct.IBAN, opts.iban) {
		// The account IBAN is part of every fingerprint of formats without an
		// own-account column.
		stored, err := txnStore.Read(acct.Name)
		if err != nil {
			return err
		}
		if len(stored) > 0 {
			return fmt.Errorf("account %s has %d transactions stored under IBAN %q; importing with --iban %s would duplicate them",
				acct.Name, len(stored), acct.IBAN, opts.iban)
		}
		acct.IBAN = strings.ToUpper(strings.ReplaceAll(opts.iban, " ", ""))
	}
	if opts.currency != "" {
		acct.Currency = opts.currency
	}

	tagRules, err := loadRules(ctx, e)
	if err != nil {
		return err
	}

	var entries []importlog.Entry
	var skipped int
	for _, path := range files {
		entry, err := importFile(ctx, e, out, txnStore, &acct, tagRules, path, opts)
		if errors.Is(err, errSkipped) {
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		entries = append(entries, entry)
		if opts.inbox {
			if err := inbox.MarkProcessed(filepath.Base(path)); err != nil {
				return err
			}
		}
	}

	if len(entries) > 0 {
		accts.Upsert(acct)
		if err := accts.Save(dataDir); err != nil {
			return err
		}
		if err := importlog.Append(dataDir, entries); err != nil {
			log.Warn().Err(err).Msg("failed to write import log")
		}
		if err := commitImport(ctx, e, acct.Name, entries); err != nil {
			return err
		}
	}

	if skipped > 0 {
		if !opts.inbox {
			return fmt.Errorf("%d of %d exports not imported", skipped, len(files))
		}
		log.Warn().Int("skipped", skipped).Msg("some exports were left in the inbox")
	}
	return nil
}

func importFile(ctx context.Context, e *env, out io.Writer, txnStore *store.Service, acct *model.Account, tagRules []model.TagRule, path string, opts importOptions) (importlog.Entry, error) {
	text, err := readText(path)
	if err != nil {
		return importlog.Entry{}, err
	}

	importOpts := importer.Options{
		SampleRows: e.cfg.Import.ReportSampleRows,
		Currency:   e.cfg.Import.DefaultCurrency,
	}
	log := logger.FromContext(ctx).With().Str("account", acct.Name).Str("file", filepath.Base(path)).Logger()

	var res *importer.Result
	if opts.format != "" {
		f := e.formats.Get(opts.format)
		if f == nil {
			return importlog.Entry{}, fmt.Errorf("unknown format %q (see tally formats)", opts.format)
		}
		res, err = importer.Normalize(f, importer.SplitLines(text), *acct, importOpts)
	} else {
		res, err = importer.Import(e.formats, text, *acct, importOpts)
	}
	var unrec *importer.UnrecognizedFormatError
	if errors.As(err, &unrec) {
		log.Warn().Strs("headers", unrec.Headers).Msg("unrecognized format")
		if err := printReport(out, unrec.Report); err != nil {
			return importlog.Entry{}, err
		}
		return importlog.Entry{}, errSkipped
	}
	if err != nil {
		return importlog.Entry{}, err
	}

	for _, w := range res.Warnings {
		log.Warn().Int("row", w.Row).Str("column", w.Column).Str("value", w.Value).Msg(w.Message)
	}
	for _, c := range res.Caveats {
		log.Info().Str("format", res.Format.Name()).Msg(c)
	}

	tagged := tagging.Apply(res.Transactions, tagRules)
	added, err := txnStore.Import(acct.Name, tagged)
	if err != nil {
		return importlog.Entry{}, err
	}

	acct.Format = res.Format.Name()
	if res.Bank != "" {
		acct.Bank = res.Bank
	}

	fmt.Fprintf(out, "%s: imported %d of %d transactions into %s (%s)\n",
		filepath.Base(path), len(added), len(res.Transactions), acct.Name, res.Format.Name())
	log.Info().Int("rows", len(res.Transactions)).Int("added", len(added)).
		Int("untagged", len(tagging.Untagged(added))).Msg("import done")

	entry := importlog.NewEntry(time.Now(), acct.Name, filepath.Base(path))
	entry.Format = res.Format.Name()
	entry.Rows = len(res.Transactions)
	entry.Added = len(added)
	entry.Warnings = len(res.Warnings)
	entry.Caveats = res.Caveats
	return entry, nil
}

func sameIBAN(a, b string) bool {
	norm := func(s string) string { return strings.ToUpper(strings.ReplaceAll(s, " ", "")) }
	return norm(a) == norm(b)
}

func loadRules(ctx context.Context, e *env) ([]model.TagRule, error) {
	path := e.cfg.RulesPath(e.root)
	tagRules, assigned, err := rules.Load(path)
	if err != nil {
		return nil, err
	}
	if assigned {
		if err := rules.Save(path, tagRules); err != nil {
			return nil, err
		}
		log := logger.FromContext(ctx)
		log.Info().Str("file", path).Msg("assigned ids to new rules")
	}
	return tagRules, nil
}

func commitImport(ctx context.Context, e *env, account string, entries []importlog.Entry) error {
	if !e.cfg.Git.AutoCommit || !gitops.IsRepo(e.root) {
		return nil
	}
	added := 0
	for _, en := range entries {
		added += en.Added
	}
	msg := fmt.Sprintf("import: %d transactions into %s", added, account)
	hash, err := gitops.Commit(ctx, e.root, msg, author(e.cfg))
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return nil
	}
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	log.Info().Str("commit", hash).Msg(msg)
	return nil
}
