package batch

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInputs() []Input {
	return []Input{
		{Name: "A", Predicted: []float64{1, 2}, Target: []float64{1, 2, 3}},
		{Name: "B", Predicted: []float64{1, 2}, Target: []float64{1, 1}},
	}
}

func TestAnalyze_PartialFailure(t *testing.T) {
	for _, reversed := range []bool{false, true} {
		inputs := sampleInputs()
		if reversed {
			inputs[0], inputs[1] = inputs[1], inputs[0]
		}

		results := Analyze(inputs)
		require.Len(t, results, 2)

		byName := map[string]Result{}
		for _, r := range results {
			byName[r.Name] = r
		}

		a := byName["A"]
		assert.False(t, a.Success)
		assert.Contains(t, a.Error, "predicted(2)")
		assert.Contains(t, a.Error, "target(3)")
		assert.Nil(t, a.Metrics)

		b := byName["B"]
		assert.True(t, b.Success)
		assert.Equal(t, 2, b.NPoints)
		assert.Empty(t, b.Error)
		assert.Contains(t, b.Metrics, "RMSE")
	}
}

func TestAnalyze_DefaultNames(t *testing.T) {
	results := Analyze([]Input{
		{Predicted: []float64{1, 2}, Target: []float64{1, 2}},
		{Predicted: []float64{1}, Target: []float64{1}},
	})
	assert.Equal(t, "Series_1", results[0].Name)
	assert.Equal(t, "Series_2", results[1].Name)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "at least 2")
}

func TestAnalyzeParallel_MatchesSequential(t *testing.T) {
	var inputs []Input
	for i := 0; i < 40; i++ {
		p := []float64{1, 2, 3, float64(i)}
		tgt := []float64{1.5, 2, 2.5, 3}
		if i%7 == 0 {
			tgt = tgt[:3]
		}
		inputs = append(inputs, Input{Predicted: p, Target: tgt})
	}

	want := Analyze(inputs)
	got, err := AnalyzeParallel(context.Background(), inputs, 4)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Success, got[i].Success)
		assert.Equal(t, want[i].Error, got[i].Error)
		if want[i].Success {
			assert.Equal(t, want[i].Metrics["RMSE"], got[i].Metrics["RMSE"])
		}
	}

	empty, err := AnalyzeParallel(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAnalyzeParallel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AnalyzeParallel(ctx, sampleInputs(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompare_SignConvention(t *testing.T) {
	results := []Result{
		{Name: "Y", Success: true, Metrics: map[string]float64{"RMSE": 2.0, "NSC": 0.5}},
		{Name: "X", Success: true, Metrics: map[string]float64{"RMSE": 1.0, "NSC": 0.9}},
	}

	cmp := Compare(results, nil)
	require.Empty(t, cmp.Error)
	assert.Equal(t, 2, cmp.NumSeries)
	assert.Equal(t, []string{"Y", "X"}, cmp.SeriesNames)
	assert.Equal(t, []string{"RMSE", "NSC"}, cmp.MetricsCompared)

	rmse := cmp.Rankings["RMSE"]
	assert.False(t, rmse.HigherIsBetter)
	assert.Equal(t, "X", rmse.Entries[0].Name)
	assert.Equal(t, 1, rmse.Entries[0].Rank)
	assert.Equal(t, "X", rmse.Best)
	assert.Equal(t, "Y", rmse.Worst)

	nsc := cmp.Rankings["NSC"]
	assert.True(t, nsc.HigherIsBetter)
	assert.Equal(t, "X", nsc.Entries[0].Name)
	assert.Equal(t, "X", nsc.Best)
}

func TestCompare_Statistics(t *testing.T) {
	results := []Result{
		{Name: "a", Success: true, Metrics: map[string]float64{"MAE": 1}},
		{Name: "b", Success: true, Metrics: map[string]float64{"MAE": 4}},
		{Name: "c", Success: false, Error: "boom"},
		{Name: "d", Success: true, Metrics: map[string]float64{"MAE": 2}},
		{Name: "e", Success: true, Metrics: map[string]float64{"MAE": 3}},
	}

	cmp := Compare(results, []string{"MAE", "unknown"})
	assert.Equal(t, 4, cmp.NumSeries)
	assert.Equal(t, []string{"MAE", "unknown"}, cmp.MetricsCompared)
	assert.NotContains(t, cmp.Table, "unknown")

	s := cmp.Table["MAE"]
	assert.Len(t, s.Values, 4)
	assert.Equal(t, 1.0, float64(s.Min))
	assert.Equal(t, 4.0, float64(s.Max))
	assert.Equal(t, 2.5, float64(s.Mean))
	assert.InDelta(t, math.Sqrt(1.25), float64(s.Std), 1e-12)
	assert.Equal(t, 2.5, float64(s.Median))

	names := []string{}
	for _, e := range cmp.Rankings["MAE"].Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a", "d", "e", "b"}, names)
}

func TestCompare_TiesAndNaN(t *testing.T) {
	results := []Result{
		{Name: "first", Success: true, Metrics: map[string]float64{"KGE2009": math.NaN()}},
		{Name: "second", Success: true, Metrics: map[string]float64{"KGE2009": 0.7}},
		{Name: "third", Success: true, Metrics: map[string]float64{"KGE2009": 0.7}},
		{Name: "fourth", Success: true, Metrics: map[string]float64{"KGE2009": 0.9}},
	}

	cmp := Compare(results, []string{"KGE2009"})
	r := cmp.Rankings["KGE2009"]

	names := []string{}
	for _, e := range r.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"fourth", "second", "third", "first"}, names)
	assert.Equal(t, "first", r.Worst)

	s := cmp.Table["KGE2009"]
	assert.InDelta(t, 0.7, float64(s.Min), 1e-12)
	assert.InDelta(t, 0.7666666666666667, float64(s.Mean), 1e-12)
}

func TestCompare_Diagnostics(t *testing.T) {
	assert.Equal(t, ErrNoResults, Compare(nil, nil).Error)

	cmp := Compare([]Result{{Name: "x", Error: "bad"}}, nil)
	assert.Equal(t, ErrNoSuccessful, cmp.Error)
	assert.Zero(t, cmp.NumSeries)
}

func TestCompare_DefaultMetricsInCanonicalOrder(t *testing.T) {
	results := Analyze([]Input{{Name: "s", Predicted: []float64{1, 2, 3}, Target: []float64{1, 2, 4}}})
	cmp := Compare(results, nil)
	require.NotEmpty(t, cmp.MetricsCompared)
	assert.Equal(t, "RMSE", cmp.MetricsCompared[0])
	assert.Equal(t, "Pu", cmp.MetricsCompared[len(cmp.MetricsCompared)-1])
}

func TestExportCSV(t *testing.T) {
	results := []Result{
		{Name: "ok", Success: true, NPoints: 3, Metrics: map[string]float64{"RMSE": 0.5, "NSC": math.NaN()}},
		{Name: "bad", Error: "length mismatch"},
		{Name: "partial", Success: true, NPoints: 2, Metrics: map[string]float64{"RMSE": math.Inf(1)}},
	}

	out, err := ExportCSV(results)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "name,success,n_points,NSC,RMSE,error", lines[0])
	assert.Equal(t, "ok,true,3,NaN,0.5,", lines[1])
	assert.Equal(t, "bad,false,,,,length mismatch", lines[2])
	assert.Equal(t, "partial,true,2,,Infinity,", lines[3])
}

func TestExportJSON(t *testing.T) {
	results := []Result{
		{Name: "ok", Success: true, NPoints: 2, Metrics: map[string]float64{"NSC": math.NaN(), "RMSE": 0}},
		{Name: "bad", Error: "nope"},
	}
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	data, err := ExportJSON(results, now, false)
	require.NoError(t, err)

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, "2025-03-01T12:30:00.000000Z", env["export_timestamp"])
	assert.Equal(t, 2.0, env["num_analyses"])
	assert.Equal(t, 1.0, env["num_successful"])
	assert.Equal(t, 1.0, env["num_failed"])

	items := env["results"].([]interface{})
	first := items[0].(map[string]interface{})
	assert.Equal(t, "NaN", first["metrics"].(map[string]interface{})["NSC"])

	var back Envelope
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.Results[0].Metrics["NSC"]))
	assert.Equal(t, "nope", back.Results[1].Error)

	pretty, err := ExportJSON(nil, now, true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"results\": []")
}

func TestSummaryReport(t *testing.T) {
	results := []Result{
		{Name: "good", Success: true, NPoints: 10, Metrics: map[string]float64{
			"RMSE": 0.123456, "NSC": 0.9, "Cor": 0.95, "KGE2012": math.NaN(), "PBIAS": -3.456,
		}},
		{Name: "broken", Error: "need at least 2 paired finite values, got 1"},
	}
	now := time.Date(2025, 3, 1, 8, 5, 9, 0, time.UTC)

	report := SummaryReport(results, now)
	lines := strings.Split(report, "\n")

	assert.Equal(t, strings.Repeat("=", 80), lines[0])
	assert.Equal(t, "TIME SERIES ANALYSIS BATCH REPORT", lines[1])
	assert.Contains(t, report, "Generated: 2025-03-01 08:05:09 UTC")
	assert.Contains(t, report, "Total analyses: 2\nSuccessful: 1\nFailed: 1\n")
	assert.Contains(t, report, "\ngood:\n  Data points: 10\n  RMSE:     0.1235\n")
	assert.Contains(t, report, "  KGE2012:  NaN\n  PBIAS:    -3.46%")
	assert.Contains(t, report, "FAILED ANALYSES")
	assert.Contains(t, report, "\nbroken:\n  Error: need at least 2")
	assert.Less(t, strings.Index(report, "SUCCESSFUL ANALYSES"), strings.Index(report, "FAILED ANALYSES"))
	assert.True(t, strings.HasSuffix(report, "\n"+strings.Repeat("=", 80)))
}

func TestSummaryReport_OnlyFailures(t *testing.T) {
	report := SummaryReport([]Result{{Name: "x"}}, time.Now())
	assert.NotContains(t, report, "SUCCESSFUL ANALYSES")
	assert.Contains(t, report, "  Error: Unknown error")
}
