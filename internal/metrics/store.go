package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PlanMetric records metadata for a single plan generation or swap run.
type PlanMetric struct {
	HouseholdID   int64
	WeekStart     string
	Variant       int
	Operation     string
	DurationMS    int64
	EligibleCount int
	ExcludedCount int
	CreatedAt     time.Time
}

// Operation names recorded per run.
const (
	OpGenerate = "generate"
	OpSwap     = "swap"
)

// Store handles persistence of plan-run metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m PlanMetric) error {
	ts := m.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plan_metrics
			(household_id, week_start, variant, operation, duration_ms, eligible_count, excluded_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.HouseholdID, m.WeekStart, m.Variant, m.Operation,
		m.DurationMS, m.EligibleCount, m.ExcludedCount, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to record plan metric: %w", err)
	}
	return nil
}

// OperationStats aggregates runs of one operation over a window.
type OperationStats struct {
	Operation     string
	Runs          int
	AvgDurationMS float64
	AvgEligible   float64
}

// SummarizeRuns aggregates per-operation stats for the last N days.
func (s *Store) SummarizeRuns(ctx context.Context, days int) ([]OperationStats, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(ctx, `
		SELECT operation, COUNT(*), AVG(duration_ms), AVG(eligible_count)
		FROM plan_metrics
		WHERE created_at >= ?
		GROUP BY operation
		ORDER BY operation`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize plan metrics: %w", err)
	}
	defer rows.Close()

	var results []OperationStats
	for rows.Next() {
		var st OperationStats
		var avgDur, avgElig sql.NullFloat64
		if err := rows.Scan(&st.Operation, &st.Runs, &avgDur, &avgElig); err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}
		if avgDur.Valid {
			st.AvgDurationMS = avgDur.Float64
		}
		if avgElig.Valid {
			st.AvgEligible = avgElig.Float64
		}
		results = append(results, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to summarize plan metrics: %w", err)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// reports how many rows were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(ctx, `DELETE FROM plan_metrics WHERE created_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up plan metrics: %w", err)
	}
	return res.RowsAffected()
}
