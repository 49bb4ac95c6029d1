package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hydroeval/hydroeval/internal/analytics/batch"
)

// Output formats of the batch command.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatReport = "report"
	FormatTable  = "table"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown format (valid: csv, json, report, table)")

// BatchCommand holds the configuration for the batch command.
type BatchCommand struct {
	format  string
	output  string
	workers int
	pretty  bool
	now     func() time.Time
}

// NewBatchCommand creates and configures the batch command.
func NewBatchCommand() *cobra.Command {
	bc := &BatchCommand{now: time.Now}

	cobraCmd := &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Evaluate every series of a manifest",
		Long: `Evaluate every predicted/target pair listed in a manifest.

The manifest is a YAML or JSON (.json) list of {name, predicted, target}
entries, optionally wrapped as {series: [...]}. Missing values are written
as null (or .nan in YAML).`,
		Args: cobra.ExactArgs(1),
		RunE: bc.run,
	}

	cobraCmd.Flags().StringVarP(&bc.format, "format", "f", FormatTable, "Output format (csv, json, report, table)")
	cobraCmd.Flags().StringVarP(&bc.output, "output", "o", "", "Write output to file instead of stdout")
	cobraCmd.Flags().IntVarP(&bc.workers, "workers", "w", 0, "Number of parallel workers (0 = use CPU count)")
	cobraCmd.Flags().BoolVar(&bc.pretty, "pretty", true, "Indent JSON output")

	return cobraCmd
}

func (bc *BatchCommand) run(cmd *cobra.Command, args []string) error {
	inputs, err := LoadManifest(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := batch.AnalyzeParallel(ctx, inputs, bc.workers)
	if err != nil {
		return fmt.Errorf("batch analysis interrupted: %w", err)
	}

	rendered, err := bc.render(results)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), bc.output, rendered)
}

func (bc *BatchCommand) render(results []batch.Result) ([]byte, error) {
	switch strings.ToLower(bc.format) {
	case FormatCSV:
		out, err := batch.ExportCSV(results)
		return []byte(out), err
	case FormatJSON:
		return batch.ExportJSON(results, bc.now(), bc.pretty)
	case FormatReport:
		return []byte(batch.SummaryReport(results, bc.now())), nil
	case FormatTable:
		return []byte(resultsTable(results) + "\n"), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, bc.format)
	}
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(w, "Wrote %d bytes to %s\n", len(data), path)
	return nil
}
