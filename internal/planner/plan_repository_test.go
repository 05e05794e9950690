package planner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"family-meal-planner/internal/database"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanRepository(t *testing.T) *PlanRepository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPlanRepository(db.SQL)
}

// buildStoredPlan assembles a full week over the given recipe ids, one per
// day starting Monday.
func buildStoredPlan(week time.Time, variant int, recipeIDs [7]string) *StoredPlan {
	week = NormalizeToMonday(week)
	slots := make([]PlanSlot, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		slots = append(slots, PlanSlot{
			Day:         d,
			Date:        week.AddDate(0, 0, int(d)),
			RecipeID:    recipeIDs[d],
			RecipeTitle: recipeIDs[d],
			Reasons:     []string{ReasonInSeason},
		})
	}
	return &StoredPlan{
		HouseholdID: 7,
		WeekStart:   week,
		Variant:     variant,
		Seed:        DeriveSeed(7, week.Format("2006-01-02"), variant),
		Plan:        WeekPlan{WeekStart: week, Seed: DeriveSeed(7, week.Format("2006-01-02"), variant), Slots: slots},
	}
}

var testWeekIDs = [7]string{
	"veggie-chili", "chicken-curry", "beef-tacos", "lentil-soup",
	"miso-salmon", "pork-stirfry", "shrimp-pasta",
}

func TestPlanSaveAndGetByKey(t *testing.T) {
	repo := newTestPlanRepository(t)
	ctx := context.Background()
	week := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	plan := buildStoredPlan(week, 0, testWeekIDs)
	require.NoError(t, repo.Save(ctx, plan))
	assert.NotEmpty(t, plan.ID, "save assigns an id")
	assert.False(t, plan.CreatedAt.IsZero(), "save assigns a creation time")

	got, err := repo.GetByKey(ctx, 7, week, 0)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)
	assert.Equal(t, plan.Seed, got.Seed)
	assert.True(t, got.WeekStart.Equal(week))
	assert.Empty(t, cmp.Diff(plan.Plan, got.Plan))
}

func TestPlanSaveNormalizesWeek(t *testing.T) {
	repo := newTestPlanRepository(t)
	ctx := context.Background()

	midweek := time.Date(2024, 1, 10, 18, 30, 0, 0, time.UTC)
	plan := buildStoredPlan(midweek, 0, testWeekIDs)
	require.NoError(t, repo.Save(ctx, plan))

	// Any date inside the week resolves to the same stored row.
	got, err := repo.GetByKey(ctx, 7, time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC), 0)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", WeekStartISO(got.WeekStart))
}

func TestPlanSaveDuplicateKeyFails(t *testing.T) {
	repo := newTestPlanRepository(t)
	ctx := context.Background()
	week := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, buildStoredPlan(week, 0, testWeekIDs)))

	err := repo.Save(ctx, buildStoredPlan(week, 0, testWeekIDs))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPlanExists))
}

func TestPlanVariantsAreSeparate(t *testing.T) {
	repo := newTestPlanRepository(t)
	ctx := context.Background()
	week := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, buildStoredPlan(week, 0, testWeekIDs)))
	require.NoError(t, repo.Save(ctx, buildStoredPlan(week, 1, testWeekIDs)))

	v0, err := repo.GetByKey(ctx, 7, week, 0)
	require.NoError(t, err)
	v1, err := repo.GetByKey(ctx, 7, week, 1)
	require.NoError(t, err)
	assert.NotEqual(t, v0.Seed, v1.Seed, "variants derive different seeds")
}

func TestPlanGetByKeyMissing(t *testing.T) {
	repo := newTestPlanRepository(t)

	_, err := repo.GetByKey(context.Background(), 7, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPlanNotFound))
}

func TestPlanReplaceOverwrites(t *testing.T) {
	repo := newTestPlanRepository(t)
	ctx := context.Background()
	week := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	first := buildStoredPlan(week, 0, testWeekIDs)
	require.NoError(t, repo.Save(ctx, first))

	swappedIDs := testWeekIDs
	swappedIDs[Wednesday] = "mushroom-risotto"
	second := buildStoredPlan(week, 0, swappedIDs)
	require.NoError(t, repo.Replace(ctx, second))

	got, err := repo.GetByKey(ctx, 7, week, 0)
	require.NoError(t, err)
	slot, _ := got.Plan.Slot(Wednesday)
	assert.Equal(t, "mushroom-risotto", slot.RecipeID)

	plans, err := repo.ListRecent(ctx, 7, 10)
	require.NoError(t, err)
	assert.Len(t, plans, 1, "replace supersedes instead of accumulating")
}

func TestPlanListRecentOrder(t *testing.T) {
	repo := newTestPlanRepository(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		plan := buildStoredPlan(base.AddDate(0, 0, 7*i), 0, testWeekIDs)
		plan.CreatedAt = base.AddDate(0, 0, 7*i).Add(12 * time.Hour)
		require.NoError(t, repo.Save(ctx, plan))
	}

	plans, err := repo.ListRecent(ctx, 7, 2)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "2024-01-15", WeekStartISO(plans[0].WeekStart), "newest first")
	assert.Equal(t, "2024-01-08", WeekStartISO(plans[1].WeekStart))
}

func TestRecentRecipeIDsWindow(t *testing.T) {
	repo := newTestPlanRepository(t)
	ctx := context.Background()
	week := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	ids := testWeekIDs
	ids[Saturday] = "veggie-chili" // repeat within the week
	require.NoError(t, repo.Save(ctx, buildStoredPlan(week, 0, ids)))

	history, err := repo.RecentRecipeIDs(ctx, 7, week, week.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, history, 7)
	assert.Equal(t, "veggie-chili", history[0], "ordered by cook date")
	assert.Equal(t, "veggie-chili", history[5], "repeats preserved")

	// The window is half open: the following week sees nothing.
	next, err := repo.RecentRecipeIDs(ctx, 7, week.AddDate(0, 0, 7), week.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.Empty(t, next)
}

func TestReplaceRefreshesHistory(t *testing.T) {
	repo := newTestPlanRepository(t)
	ctx := context.Background()
	week := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, buildStoredPlan(week, 0, testWeekIDs)))

	replacedIDs := [7]string{}
	for i := range replacedIDs {
		replacedIDs[i] = fmt.Sprintf("replacement-%d", i)
	}
	require.NoError(t, repo.Replace(ctx, buildStoredPlan(week, 0, replacedIDs)))

	history, err := repo.RecentRecipeIDs(ctx, 7, week, week.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, history, 7, "history mirrors the latest stored plan")
	for i, id := range history {
		assert.Equal(t, fmt.Sprintf("replacement-%d", i), id)
	}
}

func TestPlanHouseholdsAreIsolated(t *testing.T) {
	repo := newTestPlanRepository(t)
	ctx := context.Background()
	week := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	mine := buildStoredPlan(week, 0, testWeekIDs)
	require.NoError(t, repo.Save(ctx, mine))

	other := buildStoredPlan(week, 0, testWeekIDs)
	other.HouseholdID = 9
	require.NoError(t, repo.Save(ctx, other), "same week for another household is a different key")

	_, err := repo.GetByKey(ctx, 9, week, 0)
	require.NoError(t, err)

	history, err := repo.RecentRecipeIDs(ctx, 9, week, week.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Len(t, history, 7)
}
