package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/importlog"
)

func newHistoryCommand(e *env) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the import log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := importlog.Read(e.dataDir())
			if err != nil {
				return err
			}
			if account != "" {
				entries = importlog.ForAccount(entries, account)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No imports yet")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tACCOUNT\tFILE\tFORMAT\tADDED\tROWS\tWARNINGS\tCAVEATS")
			for _, en := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					en.Timestamp.Local().Format(time.DateTime), en.Account, en.File, en.Format,
					en.Added, en.Rows, en.Warnings, strings.Join(en.Caveats, "; "))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "only imports into this account")

	return cmd
}
