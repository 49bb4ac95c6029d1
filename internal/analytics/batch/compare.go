package batch

import (
	"math"
	"sort"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"github.com/hydroeval/hydroeval/internal/analytics/metrics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Diagnostics returned in ComparisonResult.Error.
const (
	ErrNoResults    = "No results to compare"
	ErrNoSuccessful = "No successful analyses to compare"
)

// NamedValue is one series' value of a metric.
type NamedValue struct {
	Name  string          `json:"name"`
	Value analytics.Float `json:"value"`
}

// MetricSummary aggregates one metric across series. NaN values are listed
// but excluded from the statistics.
type MetricSummary struct {
	Values []NamedValue    `json:"values"`
	Min    analytics.Float `json:"min"`
	Max    analytics.Float `json:"max"`
	Mean   analytics.Float `json:"mean"`
	Std    analytics.Float `json:"std"`
	Median analytics.Float `json:"median"`
}

// RankEntry is one position of a ranking, rank 1 being the best.
type RankEntry struct {
	Rank  int             `json:"rank"`
	Name  string          `json:"name"`
	Value analytics.Float `json:"value"`
}

// Ranking orders series best to worst for one metric.
type Ranking struct {
	HigherIsBetter bool        `json:"higher_is_better"`
	Entries        []RankEntry `json:"ranking"`
	Best           string      `json:"best"`
	Worst          string      `json:"worst"`
}

// ComparisonResult is the side by side view of several analyses. When
// there is nothing to compare only Error is set.
type ComparisonResult struct {
	NumSeries       int                      `json:"num_series"`
	SeriesNames     []string                 `json:"series_names"`
	MetricsCompared []string                 `json:"metrics_compared"`
	Table           map[string]MetricSummary `json:"comparison_table"`
	Rankings        map[string]Ranking       `json:"rankings"`
	Error           string                   `json:"error,omitempty"`
}

// Compare summarises and ranks the successful results for each metric in
// subset, or for every metric of the first successful result when subset
// is empty. Ties keep input order and NaN values rank last.
func Compare(results []Result, subset []string) ComparisonResult {
	if len(results) == 0 {
		return ComparisonResult{Error: ErrNoResults}
	}

	var ok []Result
	for _, r := range results {
		if r.Success {
			ok = append(ok, r)
		}
	}
	if len(ok) == 0 {
		return ComparisonResult{Error: ErrNoSuccessful}
	}

	names := subset
	if len(names) == 0 {
		names = metricOrder(ok[0].Metrics)
	}

	cmp := ComparisonResult{
		NumSeries:       len(ok),
		SeriesNames:     make([]string, len(ok)),
		MetricsCompared: append([]string(nil), names...),
		Table:           make(map[string]MetricSummary),
		Rankings:        make(map[string]Ranking),
	}
	for i, r := range ok {
		cmp.SeriesNames[i] = r.Name
	}

	for _, name := range names {
		var values []NamedValue
		for _, r := range ok {
			if v, found := r.Metrics[name]; found {
				values = append(values, NamedValue{Name: r.Name, Value: analytics.Float(v)})
			}
		}
		if len(values) == 0 {
			continue
		}
		cmp.Table[name] = summarize(values)
		cmp.Rankings[name] = rank(values, metrics.HigherIsBetter(name))
	}
	return cmp
}

// metricOrder lists the keys of m in canonical metric order, followed by
// any unrecognised keys sorted by name.
func metricOrder(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, name := range metrics.Names() {
		if _, ok := m[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range m {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func summarize(values []NamedValue) MetricSummary {
	s := MetricSummary{Values: values}

	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(float64(v.Value)) {
			present = append(present, float64(v.Value))
		}
	}
	if len(present) == 0 {
		nan := analytics.Float(math.NaN())
		s.Min, s.Max, s.Mean, s.Std, s.Median = nan, nan, nan, nan, nan
		return s
	}

	mean, std := stat.PopMeanStdDev(present, nil)
	s.Min = analytics.Float(floats.Min(present))
	s.Max = analytics.Float(floats.Max(present))
	s.Mean = analytics.Float(mean)
	s.Std = analytics.Float(std)
	s.Median = analytics.Float(median(present))
	return s
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func rank(values []NamedValue, higherIsBetter bool) Ranking {
	ordered := append([]NamedValue(nil), values...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := float64(ordered[i].Value), float64(ordered[j].Value)
		if math.IsNaN(a) || math.IsNaN(b) {
			return !math.IsNaN(a) && math.IsNaN(b)
		}
		if higherIsBetter {
			return a > b
		}
		return a < b
	})

	r := Ranking{
		HigherIsBetter: higherIsBetter,
		Entries:        make([]RankEntry, len(ordered)),
	}
	for i, v := range ordered {
		r.Entries[i] = RankEntry{Rank: i + 1, Name: v.Name, Value: v.Value}
	}
	r.Best = r.Entries[0].Name
	r.Worst = r.Entries[len(r.Entries)-1].Name
	return r
}
