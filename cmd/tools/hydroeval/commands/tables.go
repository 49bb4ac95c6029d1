package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"github.com/hydroeval/hydroeval/internal/analytics/batch"
	"github.com/hydroeval/hydroeval/internal/analytics/metrics"
)

// tableMetrics are the headline metrics shown in result tables.
var tableMetrics = []string{
	metrics.NameRMSE, metrics.NameMAE, metrics.NameNSC, metrics.NameCor, metrics.NameKGE2009, metrics.NamePBIAS,
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.Style().Title.Format = text.FormatDefault
	return tbl
}

func formatValue(v float64) string {
	if !analytics.IsFinite(v) {
		return analytics.FormatFloat(v)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// resultsTable renders one row per result with the headline metrics.
func resultsTable(results []batch.Result) string {
	tbl := newTable()

	header := table.Row{"Name", "Status", "Points"}
	for _, name := range tableMetrics {
		header = append(header, name)
	}
	header = append(header, "Error")
	tbl.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(tableMetrics)+1)
	configs = append(configs, table.ColumnConfig{Number: 3, Align: text.AlignRight})
	for i := range tableMetrics {
		configs = append(configs, table.ColumnConfig{Number: 4 + i, Align: text.AlignRight})
	}
	tbl.SetColumnConfigs(configs)

	for _, r := range results {
		row := table.Row{r.Name}
		if !r.Success {
			row = append(row, "FAILED", "")
			for range tableMetrics {
				row = append(row, "")
			}
			tbl.AppendRow(append(row, r.Error))
			continue
		}
		row = append(row, "OK", r.NPoints)
		for _, name := range tableMetrics {
			v, ok := r.Metrics[name]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatValue(v))
		}
		tbl.AppendRow(append(row, ""))
	}

	succeeded, failed := batch.Counts(results)
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d (%d ok, %d failed)", len(results), succeeded, failed)})
	return tbl.Render()
}

// rankingTable renders the ranking and summary statistics of one metric.
func rankingTable(metric string, ranking batch.Ranking, summary batch.MetricSummary) string {
	tbl := newTable()

	direction := "lower is better"
	if ranking.HigherIsBetter {
		direction = "higher is better"
	}
	tbl.SetTitle(fmt.Sprintf("%s (%s)", metric, direction))
	tbl.AppendHeader(table.Row{"Rank", "Name", "Value"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	for _, e := range ranking.Entries {
		tbl.AppendRow(table.Row{e.Rank, e.Name, formatValue(float64(e.Value))})
	}

	tbl.AppendFooter(table.Row{"", "mean / median",
		formatValue(float64(summary.Mean)) + " / " + formatValue(float64(summary.Median))})
	return tbl.Render()
}
