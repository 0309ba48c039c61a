package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/filter"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/store"
	"github.com/cleared-dev/tally/internal/tagging"
)

type tagOptions struct {
	account  string
	category string
	untagged bool
	dryRun   bool
}

func newTagCommand(e *env) *cobra.Command {
	var opts tagOptions

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Re-apply the tag rules to stored transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.untagged && opts.category != "" {
				return fmt.Errorf("--untagged and --category are exclusive")
			}
			return runTag(cmd.Context(), e, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.account, "account", "a", "", "only this account (default all)")
	cmd.Flags().StringVar(&opts.category, "category", "", "list transactions tagged with this category")
	cmd.Flags().BoolVar(&opts.untagged, "untagged", false, "list transactions no rule matched")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show the result without saving")

	return cmd
}

func runTag(ctx context.Context, e *env, out io.Writer, opts tagOptions) error {
	dataDir := e.dataDir()
	svc, err := accounts.Load(dataDir)
	if err != nil {
		return err
	}

	selected := svc.All()
	if opts.account != "" {
		acct, ok := svc.Get(opts.account)
		if !ok {
			return fmt.Errorf("unknown account %q (known: %s)", opts.account, strings.Join(svc.All().Names(), ", "))
		}
		selected = model.Accounts{acct}
	}

	txnStore := store.NewService(dataDir)
	loaded := make(model.Accounts, 0, len(selected))
	for _, acct := range selected {
		txns, err := txnStore.Read(acct.Name)
		if err != nil {
			return err
		}
		acct.Transactions = txns
		loaded = append(loaded, acct)
	}

	tagRules, err := loadRules(ctx, e)
	if err != nil {
		return err
	}
	tagged := tagging.ApplyAccounts(loaded, tagRules)

	if !opts.dryRun {
		for _, acct := range tagged {
			if len(acct.Transactions) == 0 {
				continue
			}
			if err := txnStore.Write(acct.Name, acct.Transactions); err != nil {
				return err
			}
		}
	}

	switch {
	case opts.untagged:
		return listTransactions(out, tagged, tagging.Untagged)
	case opts.category != "":
		rule := []model.FilterRule{{Attribute: "category", Operator: "equals", Value: model.TextValue(opts.category)}}
		return listTransactions(out, tagged, func(txns model.Transactions) model.Transactions {
			return filter.Filter(txns, rule)
		})
	default:
		return summarize(out, tagged, len(tagRules))
	}
}

func summarize(out io.Writer, accts model.Accounts, numRules int) error {
	type bucket struct {
		count int
		total decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	var total, untagged, ignored int
	for _, acct := range accts {
		total += len(acct.Transactions)
		untagged += len(tagging.Untagged(acct.Transactions))
		ignored += len(tagging.Ignored(acct.Transactions))
		for _, t := range acct.Transactions {
			b, ok := buckets[t.Category()]
			if !ok {
				b = &bucket{}
				buckets[t.Category()] = b
			}
			b.count++
			b.total = b.total.Add(t.Amount)
		}
	}
	fmt.Fprintf(out, "%d rules, %d transactions in %d accounts: %d untagged, %d ignored\n",
		numRules, total, len(accts), untagged, ignored)

	categories := make([]string, 0, len(buckets))
	for c := range buckets {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CATEGORY\tCOUNT\tTOTAL\t")
	for _, c := range categories {
		name := c
		if name == "" {
			name = "(untagged)"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", name, buckets[c].count, buckets[c].total.StringFixed(2))
	}
	return w.Flush()
}

func listTransactions(out io.Writer, accts model.Accounts, pick func(model.Transactions) model.Transactions) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tDATE\tAMOUNT\tPARTICIPANT\tPURPOSE\tCATEGORY")
	for _, acct := range accts {
		for _, t := range pick(acct.Transactions) {
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
				acct.Name, t.BookingDate.Format("2006-01-02"), t.Amount.StringFixed(2), t.Currency,
				t.ParticipantName, t.Purpose, t.Category())
		}
	}
	return w.Flush()
}
