package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFormatsCommand(e *env) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the supported bank export formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBANK FORMAT\tBALANCE\tCURRENCY")
			for _, f := range e.formats.Formats() {
				currency := f.Currency()
				if currency == "" {
					currency = "column"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name(), f.DisplayName(), f.Balance(), currency)
				if verbose {
					fmt.Fprintf(w, "\tcolumns: %s\t\t\n", strings.Join(f.Columns(), "; "))
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show expected columns")

	return cmd
}
