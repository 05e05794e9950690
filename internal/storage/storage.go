package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"family-meal-planner/internal/planner"
)

// PlanArchive provides file-based JSON snapshots of generated week plans, one
// file per (household, week, variant), for sharing or printing outside the
// database.
type PlanArchive struct {
	basePath string
}

// NewPlanArchive creates a new PlanArchive and ensures the base directory exists.
func NewPlanArchive(basePath string) (*PlanArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", basePath, err)
	}
	return &PlanArchive{basePath: basePath}, nil
}

// archiveDocument is the on-disk shape of an exported plan. It carries the
// persistence identity alongside the plan so a snapshot is self-describing.
type archiveDocument struct {
	HouseholdID int64            `json:"household_id"`
	WeekStart   string           `json:"week_start"`
	Variant     int              `json:"variant"`
	Seed        uint32           `json:"seed"`
	GeneratedAt time.Time        `json:"generated_at"`
	Plan        planner.WeekPlan `json:"plan"`
}

// snapshotPath returns the full path for a stored plan's snapshot file.
func (a *PlanArchive) snapshotPath(householdID int64, weekISO string, variant int) string {
	filename := fmt.Sprintf("%d_%s_v%d.json", householdID, weekISO, variant)
	return filepath.Join(a.basePath, filename)
}

// Save writes a plan snapshot, overwriting any previous export of the same
// key, and returns the written path.
func (a *PlanArchive) Save(plan *planner.StoredPlan) (string, error) {
	doc := archiveDocument{
		HouseholdID: plan.HouseholdID,
		WeekStart:   planner.WeekStartISO(plan.WeekStart),
		Variant:     plan.Variant,
		Seed:        plan.Seed,
		GeneratedAt: plan.CreatedAt,
		Plan:        plan.Plan,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan snapshot: %w", err)
	}

	path := a.snapshotPath(doc.HouseholdID, doc.WeekStart, doc.Variant)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write plan snapshot: %w", err)
	}
	return path, nil
}

// Load reads a previously exported snapshot back.
func (a *PlanArchive) Load(householdID int64, weekStart time.Time, variant int) (*planner.WeekPlan, error) {
	path := a.snapshotPath(householdID, planner.WeekStartISO(weekStart), variant)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan snapshot: %w", err)
	}

	var doc archiveDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan snapshot: %w", err)
	}
	return &doc.Plan, nil
}

// Exists checks whether a snapshot for the given key has been exported.
func (a *PlanArchive) Exists(householdID int64, weekStart time.Time, variant int) bool {
	path := a.snapshotPath(householdID, planner.WeekStartISO(weekStart), variant)
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// List returns the snapshot filenames for a household, sorted by name so
// weeks appear in calendar order.
func (a *PlanArchive) List(householdID int64) ([]string, error) {
	pattern := filepath.Join(a.basePath, fmt.Sprintf("%d_*.json", householdID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan snapshots: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}
