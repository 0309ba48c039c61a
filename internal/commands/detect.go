package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/logger"
)

func newDetectCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Show which bank format an export matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd.Context(), e, cmd.OutOrStdout(), args[0])
		},
	}
}

func runDetect(ctx context.Context, e *env, out io.Writer, path string) error {
	lines, err := readExport(path)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("%s: %w", path, importer.ErrNoHeaders)
	}
	headers := importer.Headers(lines[0])

	f, err := e.formats.Detect(headers)
	var unrec *importer.UnrecognizedFormatError
	if errors.As(err, &unrec) {
		log := logger.FromContext(ctx)
		log.Warn().Str("file", path).Int("columns", len(headers)).Msg("unrecognized format")
		return printReport(out, importer.NewReport(headers, lines[1:], sampleRows(e)))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprintf(out, "%s: %s (%s)\n", path, f.Name(), f.DisplayName())
	fmt.Fprintf(out, "rows: %d\nbalance: %s\n", len(lines)-1, f.Balance())
	if c := f.Caveat(); c != "" {
		fmt.Fprintf(out, "caveat: %s\n", c)
	}
	return nil
}

func readExport(path string) ([]importer.Line, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}
	return importer.SplitLines(text), nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading export: %w", err)
	}
	return string(data), nil
}

func sampleRows(e *env) int {
	n := e.cfg.Import.ReportSampleRows
	if n < 0 {
		return 0
	}
	return n
}

func printReport(out io.Writer, rep *importer.Report) error {
	doc, err := rep.YAML()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "No known format has exactly these columns. Report for a new format:")
	fmt.Fprint(out, doc)
	return nil
}
