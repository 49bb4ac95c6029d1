package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hydroeval/hydroeval/internal/analytics"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens (and if needed creates) the history database.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		source TEXT NOT NULL,
		name TEXT NOT NULL,
		n_points INTEGER NOT NULL,
		rmse REAL,
		nsc REAL,
		cor REAL,
		kge2009 REAL,
		metrics TEXT,
		notes TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends rec, assigning an ID and timestamp when unset
func (s *SQLiteStore) Record(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	if rec.Source == "" {
		rec.Source = SourceSingle
	}

	var metricsJSON []byte
	if rec.Metrics != nil {
		var err error
		metricsJSON, err = json.Marshal(rec.Metrics)
		if err != nil {
			return fmt.Errorf("marshal metrics: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, created_at, source, name, n_points, rmse, nsc, cor, kge2009, metrics, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UnixNano(), rec.Source, rec.Name, rec.NPoints,
		nullable(float64(rec.RMSE)), nullable(float64(rec.NSC)),
		nullable(float64(rec.Cor)), nullable(float64(rec.KGE2009)),
		string(metricsJSON), rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// Recent returns up to limit records, most recent first
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, name, n_points, rmse, nsc, cor, kge2009, metrics, notes
		FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		var createdAt int64
		var rmse, nsc, cor, kge sql.NullFloat64
		var metricsJSON, notes sql.NullString

		if err := rows.Scan(&rec.ID, &createdAt, &rec.Source, &rec.Name, &rec.NPoints,
			&rmse, &nsc, &cor, &kge, &metricsJSON, &notes); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}

		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		rec.RMSE = analytics.Float(orNaN(rmse))
		rec.NSC = analytics.Float(orNaN(nsc))
		rec.Cor = analytics.Float(orNaN(cor))
		rec.KGE2009 = analytics.Float(orNaN(kge))
		rec.Notes = notes.String

		if metricsJSON.String != "" {
			if err := json.Unmarshal([]byte(metricsJSON.String), &rec.Metrics); err != nil {
				return nil, fmt.Errorf("unmarshal metrics: %w", err)
			}
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// Stats summarizes stored analyses
func (s *SQLiteStore) Stats(ctx context.Context, since time.Time) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	var rmse, nsc, cor, kge sql.NullFloat64

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0),
			AVG(rmse), AVG(nsc), AVG(cor), AVG(kge2009)
		FROM analyses`,
		since.UnixNano(),
	).Scan(&stats.TotalAnalyses, &stats.RecentAnalyses, &rmse, &nsc, &cor, &kge)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}

	stats.AvgRMSE = analytics.Float(orNaN(rmse))
	stats.AvgNSC = analytics.Float(orNaN(nsc))
	stats.AvgCor = analytics.Float(orNaN(cor))
	stats.AvgKGE2009 = analytics.Float(orNaN(kge))
	return stats, nil
}

// Prune deletes records created before cutoff
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE created_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune analyses: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// nullable maps undefined values to SQL NULL so aggregates skip them
func nullable(v float64) interface{} {
	if !analytics.IsFinite(v) {
		return nil
	}
	return v
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
