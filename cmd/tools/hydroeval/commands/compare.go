package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hydroeval/hydroeval/internal/analytics/batch"
)

// CompareCommand holds the configuration for the compare command.
type CompareCommand struct {
	metrics []string
	workers int
}

// NewCompareCommand creates and configures the compare command.
func NewCompareCommand() *cobra.Command {
	cc := &CompareCommand{}

	cobraCmd := &cobra.Command{
		Use:   "compare <manifest>",
		Short: "Rank the series of a manifest per metric",
		Args:  cobra.ExactArgs(1),
		RunE:  cc.run,
	}

	cobraCmd.Flags().StringSliceVarP(&cc.metrics, "metrics", "m", nil, "Metrics to compare (comma-separated, default all)")
	cobraCmd.Flags().IntVarP(&cc.workers, "workers", "w", 0, "Number of parallel workers (0 = use CPU count)")

	return cobraCmd
}

func (cc *CompareCommand) run(cmd *cobra.Command, args []string) error {
	inputs, err := LoadManifest(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := batch.AnalyzeParallel(ctx, inputs, cc.workers)
	if err != nil {
		return fmt.Errorf("batch analysis interrupted: %w", err)
	}

	cmp := batch.Compare(results, cc.metrics)
	if cmp.Error != "" {
		return errors.New(cmp.Error)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Compared %d series: %s\n\n", cmp.NumSeries, strings.Join(cmp.SeriesNames, ", "))
	for _, metric := range cmp.MetricsCompared {
		fmt.Fprintln(out, rankingTable(metric, cmp.Rankings[metric], cmp.Table[metric]))
		fmt.Fprintln(out)
	}
	return nil
}
