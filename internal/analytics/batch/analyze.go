// Package batch evaluates many named series pairs at once, aggregates and
// ranks their metrics, and renders the results as CSV, JSON or text.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"github.com/hydroeval/hydroeval/internal/analytics/metrics"
)

// Input is one named predicted/target pair.
type Input struct {
	Name      string           `json:"name,omitempty"`
	Predicted analytics.Floats `json:"predicted"`
	Target    analytics.Floats `json:"target"`
}

// Result is the outcome of evaluating one Input. Failed results carry the
// error message instead of metrics.
type Result struct {
	Name    string             `json:"name"`
	Success bool               `json:"success"`
	NPoints int                `json:"n_points,omitempty"`
	Metrics analytics.FloatMap `json:"metrics,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// DefaultName returns the name given to the unnamed input at position idx.
func DefaultName(idx int) string {
	return fmt.Sprintf("Series_%d", idx+1)
}

// Analyze evaluates every input independently. A failing input becomes a
// failed Result; it never stops the rest of the batch.
func Analyze(inputs []Input) []Result {
	results := make([]Result, len(inputs))
	for i, in := range inputs {
		results[i] = analyzeOne(i, in)
	}
	return results
}

// AnalyzeParallel is Analyze spread over workers goroutines. Results keep
// input order. workers <= 0 uses GOMAXPROCS. Cancelling ctx stops handing
// out new inputs and returns ctx.Err().
func AnalyzeParallel(ctx context.Context, inputs []Input, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]Result, len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = analyzeOne(i, inputs[i])
			}
		}()
	}

	var err error
feed:
	for i := range inputs {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return results, nil
}

// Evaluate turns a single successful computation into a Result.
func Evaluate(name string, nPoints int, m metrics.ErrorMetrics) Result {
	return Result{
		Name:    name,
		Success: true,
		NPoints: nPoints,
		Metrics: m.ToMap(),
	}
}

func analyzeOne(idx int, in Input) (res Result) {
	name := in.Name
	if name == "" {
		name = DefaultName(idx)
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Name: name, Error: fmt.Sprintf("%v", r)}
		}
	}()

	m, err := metrics.Compute(in.Predicted, in.Target)
	if err != nil {
		return Result{Name: name, Error: err.Error()}
	}
	return Evaluate(name, len(in.Predicted), m)
}
