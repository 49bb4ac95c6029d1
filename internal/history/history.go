// Package history keeps an append-only log of completed analyses in SQLite
// and answers the history and statistics queries built on it.
package history

import (
	"context"
	"time"

	"github.com/hydroeval/hydroeval/internal/analytics"
)

// Record sources
const (
	SourceSingle = "single"
	SourceBatch  = "batch"
)

// Record is one completed analysis
type Record struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Source    string             `json:"source"`
	Name      string             `json:"name"`
	NPoints   int                `json:"n_points"`
	RMSE      analytics.Float    `json:"rmse"`
	NSC       analytics.Float    `json:"nsc"`
	Cor       analytics.Float    `json:"cor"`
	KGE2009   analytics.Float    `json:"kge2009"`
	Metrics   analytics.FloatMap `json:"metrics,omitempty"`
	Notes     string             `json:"notes,omitempty"`
}

// Stats summarizes the stored analyses. Averages ignore undefined values
// and are NaN when nothing contributes.
type Stats struct {
	TotalAnalyses  int64           `json:"total_analyses"`
	RecentAnalyses int64           `json:"recent_analyses"`
	AvgRMSE        analytics.Float `json:"avg_rmse"`
	AvgNSC         analytics.Float `json:"avg_nsc"`
	AvgCor         analytics.Float `json:"avg_cor"`
	AvgKGE2009     analytics.Float `json:"avg_kge2009"`
}

// Sink accepts completed analyses
type Sink interface {
	Record(ctx context.Context, rec *Record) error
}

// Store is a queryable Sink
type Store interface {
	Sink

	// Recent returns up to limit records, most recent first
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Stats summarizes all records; RecentAnalyses counts those created at or after since
	Stats(ctx context.Context, since time.Time) (Stats, error)

	// Prune deletes records created before cutoff and returns how many were removed
	Prune(ctx context.Context, cutoff time.Time) (int64, error)

	Close() error
}
