package batch

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hydroeval/hydroeval/internal/analytics"
)

// Envelope wraps exported results with counts and a timestamp.
type Envelope struct {
	ExportTimestamp string   `json:"export_timestamp"`
	NumAnalyses     int      `json:"num_analyses"`
	NumSuccessful   int      `json:"num_successful"`
	NumFailed       int      `json:"num_failed"`
	Results         []Result `json:"results"`
}

// Counts returns the number of successful and failed results.
func Counts(results []Result) (successful, failed int) {
	for _, r := range results {
		if r.Success {
			successful++
		} else {
			failed++
		}
	}
	return successful, failed
}

// CSVColumns returns name, success, n_points, the sorted union of metric
// names across successful results, then error.
func CSVColumns(results []Result) []string {
	set := make(map[string]bool)
	for _, r := range results {
		if !r.Success {
			continue
		}
		for name := range r.Metrics {
			set[name] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := append([]string{"name", "success", "n_points"}, names...)
	return append(cols, "error")
}

// ExportCSV renders one row per result. Cells without a value are empty.
func ExportCSV(results []Result) (string, error) {
	cols := CSVColumns(results)
	metricCols := cols[3 : len(cols)-1]

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return "", err
	}

	for _, r := range results {
		row := make([]string, 0, len(cols))
		row = append(row, r.Name, strconv.FormatBool(r.Success))
		if r.Success {
			row = append(row, strconv.Itoa(r.NPoints))
		} else {
			row = append(row, "")
		}
		for _, name := range metricCols {
			cell := ""
			if v, ok := r.Metrics[name]; ok && r.Success {
				cell = analytics.FormatFloat(v)
			}
			row = append(row, cell)
		}
		row = append(row, r.Error)
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.String(), nil
}

// ExportJSON renders the results inside an Envelope stamped with now.
func ExportJSON(results []Result, now time.Time, pretty bool) ([]byte, error) {
	ok, failed := Counts(results)
	env := Envelope{
		ExportTimestamp: now.UTC().Format("2006-01-02T15:04:05.000000Z"),
		NumAnalyses:     len(results),
		NumSuccessful:   ok,
		NumFailed:       failed,
		Results:         results,
	}
	if env.Results == nil {
		env.Results = []Result{}
	}

	if pretty {
		return json.MarshalIndent(env, "", "  ")
	}
	return json.Marshal(env)
}

// SummaryReport renders a plain text report listing successes, then
// failures, each in input order.
func SummaryReport(results []Result, now time.Time) string {
	heavy := strings.Repeat("=", 80)
	light := strings.Repeat("-", 80)
	ok, failed := Counts(results)

	lines := []string{
		heavy,
		"TIME SERIES ANALYSIS BATCH REPORT",
		heavy,
		fmt.Sprintf("Generated: %s UTC", now.UTC().Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Total analyses: %d", len(results)),
		fmt.Sprintf("Successful: %d", ok),
		fmt.Sprintf("Failed: %d", failed),
		"",
	}

	if ok > 0 {
		lines = append(lines, light, "SUCCESSFUL ANALYSES", light)
		for _, r := range results {
			if !r.Success {
				continue
			}
			lines = append(lines,
				fmt.Sprintf("\n%s:", r.Name),
				fmt.Sprintf("  Data points: %d", r.NPoints),
				fmt.Sprintf("  RMSE:     %s", reportValue(r.Metrics, "RMSE", 4)),
				fmt.Sprintf("  NSE/NSC:  %s", reportValue(r.Metrics, "NSC", 4)),
				fmt.Sprintf("  R:        %s", reportValue(r.Metrics, "Cor", 4)),
				fmt.Sprintf("  KGE2012:  %s", reportValue(r.Metrics, "KGE2012", 4)),
				fmt.Sprintf("  PBIAS:    %s%%", reportValue(r.Metrics, "PBIAS", 2)),
			)
		}
	}

	if failed > 0 {
		lines = append(lines, "\n"+light, "FAILED ANALYSES", light)
		for _, r := range results {
			if r.Success {
				continue
			}
			msg := r.Error
			if msg == "" {
				msg = "Unknown error"
			}
			lines = append(lines, fmt.Sprintf("\n%s:", r.Name), "  Error: "+msg)
		}
	}

	lines = append(lines, "\n"+heavy)
	return strings.Join(lines, "\n")
}

func reportValue(m map[string]float64, name string, prec int) string {
	v, ok := m[name]
	if !ok {
		return "n/a"
	}
	if !analytics.IsFinite(v) {
		return analytics.FormatFloat(v)
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
