package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"family-meal-planner/internal/config"
	"family-meal-planner/internal/database"
	"family-meal-planner/internal/family"
	"family-meal-planner/internal/metrics"
	"family-meal-planner/internal/planner"
	"family-meal-planner/internal/recipe"
	"family-meal-planner/internal/storage"

	"go.uber.org/zap"
)

const (
	// historyWindowDays is the trailing window of cooking history handed to
	// the planner for frequency capping.
	historyWindowDays = 30

	// statusWindowDays bounds the metric aggregation shown by Status.
	statusWindowDays = 30

	// recentPlanLimit bounds how many stored plans Status lists.
	recentPlanLimit = 5
)

// App wires the planning engine to its collaborators: configuration, the
// database-backed repositories, the plan archive, and metrics.
type App struct {
	cfg          *config.Config
	logger       *zap.Logger
	db           *database.DB
	recipes      *recipe.Repository
	plans        *planner.PlanRepository
	metricsStore *metrics.Store
	archive      *storage.PlanArchive
}

// NewApp opens the database (running migrations), prepares the archive
// directory, and wires the repositories.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	archive, err := storage.NewPlanArchive(cfg.ArchiveDir)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		recipes:      recipe.NewRepository(db.SQL),
		plans:        planner.NewPlanRepository(db.SQL),
		metricsStore: metrics.NewStore(db.SQL),
		archive:      archive,
	}, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.db.Close()
}

// GenerateWeekPlan plans the week containing target and stores the result.
// Requesting an already planned (household, week, variant) returns the stored
// plan untouched unless force is set, which regenerates and overwrites it.
// Locks pin specific days to specific recipe ids before planning starts.
func (a *App) GenerateWeekPlan(ctx context.Context, target time.Time, variant int, locks map[planner.Weekday]string, force bool) (*planner.StoredPlan, error) {
	hh, err := family.LoadHousehold(a.cfg.HouseholdFile)
	if err != nil {
		return nil, err
	}
	weekStart := planner.NormalizeToMonday(target)
	weekISO := planner.WeekStartISO(weekStart)

	if !force {
		existing, err := a.plans.GetByKey(ctx, hh.Family.ID, weekStart, variant)
		if err == nil {
			a.logger.Info("week already planned, returning stored plan",
				zap.String("week", weekISO), zap.Int("variant", variant))
			return existing, nil
		}
		if !errors.Is(err, planner.ErrPlanNotFound) {
			return nil, err
		}
	}

	seed := planner.DeriveSeed(hh.Family.ID, weekISO, variant)
	pctx, err := a.buildContext(ctx, hh, weekStart, seed, locks)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	plan, err := planner.GeneratePlan(*pctx)
	if err != nil {
		return nil, err
	}

	stored := &planner.StoredPlan{
		HouseholdID: hh.Family.ID,
		WeekStart:   weekStart,
		Variant:     variant,
		Seed:        seed,
		Plan:        *plan,
	}
	if force {
		err = a.plans.Replace(ctx, stored)
	} else {
		err = a.plans.Save(ctx, stored)
	}
	if err != nil {
		return nil, err
	}

	a.logger.Info("plan generated",
		zap.String("week", weekISO), zap.Int("variant", variant), zap.Uint32("seed", seed))
	a.recordMetric(ctx, metrics.OpGenerate, stored, time.Since(start), *pctx)
	return stored, nil
}

// SwapDay re-rolls a single day of an already stored plan. The other six days
// are pinned while the target day is rescored under an offset seed, then the
// fresh slot is spliced into the stored week, so nothing else can change.
func (a *App) SwapDay(ctx context.Context, target time.Time, variant int, day planner.Weekday) (*planner.StoredPlan, error) {
	hh, err := family.LoadHousehold(a.cfg.HouseholdFile)
	if err != nil {
		return nil, err
	}
	weekStart := planner.NormalizeToMonday(target)
	weekISO := planner.WeekStartISO(weekStart)

	stored, err := a.plans.GetByKey(ctx, hh.Family.ID, weekStart, variant)
	if err != nil {
		return nil, fmt.Errorf("cannot swap %s in week %s: %w", day, weekISO, err)
	}

	seed := planner.DeriveSeed(hh.Family.ID, weekISO, variant+planner.SwapVariant(day))
	pctx, err := a.buildContext(ctx, hh, weekStart, seed, planner.LocksExcept(&stored.Plan, day))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rerolled, err := planner.GeneratePlan(*pctx)
	if err != nil {
		return nil, err
	}

	// Only the target day's slot is taken from the re-roll; the stored slots
	// keep their original reasons, labels, and locked flags.
	fresh, _ := rerolled.Slot(day)
	for i := range stored.Plan.Slots {
		if stored.Plan.Slots[i].Day == day {
			stored.Plan.Slots[i] = fresh
		}
	}
	stored.Seed = seed
	stored.Plan.Seed = seed
	if err := a.plans.Replace(ctx, stored); err != nil {
		return nil, err
	}

	a.logger.Info("day swapped",
		zap.String("week", weekISO), zap.Int("variant", variant),
		zap.String("day", day.String()), zap.String("recipe", fresh.RecipeID))
	a.recordMetric(ctx, metrics.OpSwap, stored, time.Since(start), *pctx)
	return stored, nil
}

// ImportCatalog loads a catalog file, validates it, and upserts every recipe
// in one transaction. It returns the number of recipes imported plus a
// warning per recipe whose allergen tags fall outside the known vocabulary,
// since those weaken the allergy filter silently.
func (a *App) ImportCatalog(ctx context.Context, path string) (int, []string, error) {
	recipes, err := recipe.LoadCatalog(path)
	if err != nil {
		return 0, nil, err
	}

	var warnings []string
	for _, r := range recipes {
		if unknown := r.UnknownAllergens(); len(unknown) > 0 {
			warnings = append(warnings,
				fmt.Sprintf("recipe %s: unknown allergen tags: %s", r.ID, strings.Join(unknown, ", ")))
		}
	}

	if err := a.recipes.SaveAll(ctx, recipes); err != nil {
		return 0, nil, err
	}
	a.logger.Info("catalog imported", zap.String("path", path), zap.Int("recipes", len(recipes)))
	return len(recipes), warnings, nil
}

// ListCatalog returns the stored catalog ordered by recipe id.
func (a *App) ListCatalog(ctx context.Context) ([]recipe.Recipe, error) {
	return a.recipes.List(ctx)
}

// ShowPlan retrieves the stored plan for the week containing target.
func (a *App) ShowPlan(ctx context.Context, target time.Time, variant int) (*planner.StoredPlan, error) {
	hh, err := family.LoadHousehold(a.cfg.HouseholdFile)
	if err != nil {
		return nil, err
	}
	return a.plans.GetByKey(ctx, hh.Family.ID, planner.NormalizeToMonday(target), variant)
}

// ExportPlan writes the stored plan for the week containing target to the
// archive directory and returns the snapshot path.
func (a *App) ExportPlan(ctx context.Context, target time.Time, variant int) (string, error) {
	stored, err := a.ShowPlan(ctx, target, variant)
	if err != nil {
		return "", err
	}

	path, err := a.archive.Save(stored)
	if err != nil {
		return "", err
	}
	a.logger.Info("plan exported", zap.String("path", path))
	return path, nil
}

// Seed reports the seed a generate call would use for the week containing
// target, without planning anything. Useful for reproducing a plan elsewhere.
func (a *App) Seed(target time.Time, variant int) (uint32, string, error) {
	hh, err := family.LoadHousehold(a.cfg.HouseholdFile)
	if err != nil {
		return 0, "", err
	}
	weekISO := planner.WeekStartISO(target)
	return planner.DeriveSeed(hh.Family.ID, weekISO, variant), weekISO, nil
}

// CleanupMetrics removes plan-run metric rows older than the given number of
// days and reports how many were deleted.
func (a *App) CleanupMetrics(ctx context.Context, olderThanDays int) (int64, error) {
	return a.metricsStore.Cleanup(ctx, olderThanDays)
}

// StatusReport is the snapshot assembled for the status command.
type StatusReport struct {
	DBPath        string
	HouseholdFile string
	ArchiveDir    string
	HouseholdName string
	CatalogCount  int
	RecentPlans   []planner.StoredPlan
	Runs          []metrics.OperationStats
	Health        metrics.SysHealth
}

// Status collects the catalog size, recent plans, run metrics, and process
// health. A missing or invalid household file degrades the report instead of
// failing it, so status stays usable while setting up.
func (a *App) Status(ctx context.Context) (*StatusReport, error) {
	report := &StatusReport{
		DBPath:        a.cfg.DBPath,
		HouseholdFile: a.cfg.HouseholdFile,
		ArchiveDir:    a.cfg.ArchiveDir,
		Health:        metrics.GetSysHealth(a.cfg.DBPath),
	}

	count, err := a.recipes.Count(ctx)
	if err != nil {
		return nil, err
	}
	report.CatalogCount = count

	runs, err := a.metricsStore.SummarizeRuns(ctx, statusWindowDays)
	if err != nil {
		return nil, err
	}
	report.Runs = runs

	hh, err := family.LoadHousehold(a.cfg.HouseholdFile)
	if err != nil {
		a.logger.Warn("household file not loadable", zap.Error(err))
		return report, nil
	}
	report.HouseholdName = hh.Family.Name

	plans, err := a.plans.ListRecent(ctx, hh.Family.ID, recentPlanLimit)
	if err != nil {
		return nil, err
	}
	report.RecentPlans = plans
	return report, nil
}

func (a *App) buildContext(ctx context.Context, hh *family.Household, weekStart time.Time, seed uint32, locks map[planner.Weekday]string) (*planner.PlannerContext, error) {
	catalog, err := a.recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("recipe catalog is empty, import one with 'catalog import' first")
	}

	history, err := a.plans.RecentRecipeIDs(ctx, hh.Family.ID,
		weekStart.AddDate(0, 0, -historyWindowDays), weekStart)
	if err != nil {
		return nil, err
	}

	return &planner.PlannerContext{
		Family:    hh.Family,
		Members:   hh.Members,
		Catalog:   catalog,
		Locks:     locks,
		WeekStart: weekStart,
		Seed:      seed,
		History:   history,
	}, nil
}

// recordMetric stores run telemetry. Failures are logged, never surfaced, so
// a metrics hiccup cannot fail a planning run that already succeeded.
func (a *App) recordMetric(ctx context.Context, op string, stored *planner.StoredPlan, took time.Duration, pctx planner.PlannerContext) {
	eligible, excluded, err := planner.HardFilter(pctx)
	if err != nil {
		a.logger.Warn("failed to compute filter counts for metrics", zap.Error(err))
		return
	}

	m := metrics.PlanMetric{
		HouseholdID:   stored.HouseholdID,
		WeekStart:     planner.WeekStartISO(stored.WeekStart),
		Variant:       stored.Variant,
		Operation:     op,
		DurationMS:    took.Milliseconds(),
		EligibleCount: len(eligible),
		ExcludedCount: len(excluded),
	}
	if err := a.metricsStore.Record(ctx, m); err != nil {
		a.logger.Warn("failed to record plan metric", zap.Error(err))
	}
}
