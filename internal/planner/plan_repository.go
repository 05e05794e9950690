package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPlanExists means a plan is already stored for the same household,
	// week, and variant. Callers regenerate with a new variant or overwrite
	// explicitly.
	ErrPlanExists = errors.New("planner: plan already exists for this household, week, and variant")

	// ErrPlanNotFound means no stored plan matches the requested key.
	ErrPlanNotFound = errors.New("planner: plan not found")
)

// StoredPlan wraps a generated WeekPlan with its persistence identity.
type StoredPlan struct {
	ID          string
	HouseholdID int64
	WeekStart   time.Time
	Variant     int
	Seed        uint32
	Plan        WeekPlan
	CreatedAt   time.Time
}

// PlanRepository is a database-backed repository for generated week plans and
// the per-day cooking history that feeds frequency capping.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Save inserts a new plan. The (household, week, variant) key is unique;
// saving over an existing key returns ErrPlanExists so two racing generate
// calls cannot both persist.
func (r *PlanRepository) Save(ctx context.Context, plan *StoredPlan) error {
	return r.persist(ctx, plan, false)
}

// Replace stores a plan over an existing key, superseding the stored week.
// Day swaps go through here.
func (r *PlanRepository) Replace(ctx context.Context, plan *StoredPlan) error {
	return r.persist(ctx, plan, true)
}

func (r *PlanRepository) persist(ctx context.Context, plan *StoredPlan, overwrite bool) error {
	data, err := json.Marshal(plan.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	weekStart := NormalizeToMonday(plan.WeekStart)
	weekISO := weekStart.Format("2006-01-02")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM meal_plans WHERE household_id = ? AND week_start = ? AND variant = ?`,
		plan.HouseholdID, weekISO, plan.Variant,
	).Scan(&existing)
	switch {
	case err == nil:
		if !overwrite {
			return ErrPlanExists
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM meal_plans WHERE id = ?`, existing); err != nil {
			return fmt.Errorf("failed to delete superseded plan: %w", err)
		}
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to check for existing plan: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meal_plans (id, household_id, week_start, variant, seed, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.HouseholdID, weekISO, plan.Variant, plan.Seed, string(data), plan.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}

	// The history rows for the week always mirror the latest stored plan.
	weekEnd := weekStart.AddDate(0, 0, 7).Format("2006-01-02")
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM plan_history WHERE household_id = ? AND cooked_on >= ? AND cooked_on < ?`,
		plan.HouseholdID, weekISO, weekEnd,
	); err != nil {
		return fmt.Errorf("failed to clear plan history for week %s: %w", weekISO, err)
	}
	for _, slot := range plan.Plan.Slots {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plan_history (household_id, recipe_id, cooked_on) VALUES (?, ?, ?)`,
			plan.HouseholdID, slot.RecipeID, slot.Date.Format("2006-01-02"),
		); err != nil {
			return fmt.Errorf("failed to record plan history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	return nil
}

// GetByKey retrieves the stored plan for a household, week, and variant.
func (r *PlanRepository) GetByKey(ctx context.Context, householdID int64, weekStart time.Time, variant int) (*StoredPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, household_id, week_start, variant, seed, data, created_at
		 FROM meal_plans WHERE household_id = ? AND week_start = ? AND variant = ?`,
		householdID, WeekStartISO(weekStart), variant,
	)
	return scanStoredPlan(row)
}

// ListRecent retrieves the N most recently created plans for a household.
func (r *PlanRepository) ListRecent(ctx context.Context, householdID int64, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, household_id, week_start, variant, seed, data, created_at
		 FROM meal_plans WHERE household_id = ? ORDER BY created_at DESC, id LIMIT ?`,
		householdID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent plans for household %d: %w", householdID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		p, err := scanStoredPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}
	return plans, nil
}

// RecentRecipeIDs returns the recipe ids cooked in [from, to), oldest first,
// with repeats preserved so frequency caps can count uses.
func (r *PlanRepository) RecentRecipeIDs(ctx context.Context, householdID int64, from, to time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT recipe_id FROM plan_history
		 WHERE household_id = ? AND cooked_on >= ? AND cooked_on < ?
		 ORDER BY cooked_on, id`,
		householdID, from.Format("2006-01-02"), to.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan history: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan plan history row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plan history: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoredPlan(row rowScanner) (*StoredPlan, error) {
	var (
		p       StoredPlan
		weekISO string
		data    string
	)
	err := row.Scan(&p.ID, &p.HouseholdID, &weekISO, &p.Variant, &p.Seed, &data, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read meal plan: %w", err)
	}

	week, err := time.ParseInLocation("2006-01-02", weekISO, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored week start %q: %w", weekISO, err)
	}
	p.WeekStart = week
	if err := json.Unmarshal([]byte(data), &p.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode stored plan %s: %w", p.ID, err)
	}
	return &p, nil
}
