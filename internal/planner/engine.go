package planner

import (
	"fmt"
	"sort"

	"family-meal-planner/internal/family"
	"family-meal-planner/internal/recipe"
)

// GeneratePlan assigns one recipe to each day of the week described by ctx.
// It is a pure function: no I/O, no shared state, and a fixed seed always
// reproduces the same plan bit for bit.
//
// The pipeline runs the hard filter once, assigns vegetarian and leftover
// roles to the unlocked days, then fills each unlocked day in Monday-to-Sunday
// order: narrow the pool for the day, score every candidate, and let the
// shared random stream pick from the top band. Locked days bypass all of it.
func GeneratePlan(ctx PlannerContext) (*WeekPlan, error) {
	byID := make(map[string]recipe.Recipe, len(ctx.Catalog))
	for _, r := range ctx.Catalog {
		byID[r.ID] = r
	}
	for d := Monday; d <= Sunday; d++ {
		id, ok := ctx.Locks[d]
		if !ok {
			continue
		}
		if _, found := byID[id]; !found {
			return nil, fmt.Errorf("%w: %s is locked to %q", ErrUnknownLockedRecipe, d, id)
		}
	}

	eligible, _, err := HardFilter(ctx)
	if err != nil {
		return nil, err
	}

	weekStart := NormalizeToMonday(ctx.WeekStart)
	roles := AssignDayRoles(ctx.Family, ctx.Locks, byID)
	sc := newScoring(ctx, roles, byID)
	rng := NewSeededSource(ctx.Seed)

	// Locked slots enter the accumulator first so every scoring pass sees
	// them, then the unlocked days fill in canonical order.
	slots := make([]PlanSlot, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		id, ok := ctx.Locks[d]
		if !ok {
			continue
		}
		r := byID[id]
		slots = append(slots, PlanSlot{
			Day:         d,
			Date:        weekStart.AddDate(0, 0, int(d)),
			RecipeID:    r.ID,
			RecipeTitle: r.Title,
			Locked:      true,
			Reasons:     []string{ReasonLocked},
		})
	}

	for d := Monday; d <= Sunday; d++ {
		if _, ok := ctx.Locks[d]; ok {
			continue
		}

		pool, relaxed := narrowPool(eligible, ctx.Family, d, slots)
		scored := make([]ScoredRecipe, 0, len(pool))
		for _, r := range pool {
			scored = append(scored, sc.score(r, d, slots))
		}
		winner := SelectCandidate(scored, rng)

		slot := PlanSlot{
			Day:         d,
			Date:        weekStart.AddDate(0, 0, int(d)),
			RecipeID:    winner.Recipe.ID,
			RecipeTitle: winner.Recipe.Title,
			Reasons:     append(relaxed, winner.Reasons...),
		}
		if roles[d].Leftover && winner.Recipe.MakesLeftovers() {
			slot.LunchLeftoverLabel = fmt.Sprintf("Leftover %s for lunch", winner.Recipe.Title)
			slot.LeftoverLunchRecipeID = winner.Recipe.ID
		}
		slots = append(slots, slot)
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Day < slots[j].Day })
	return &WeekPlan{WeekStart: weekStart, Seed: ctx.Seed, Slots: slots}, nil
}

// narrowPool applies the per-day soft constraints in relaxation order:
// variety gives way before cook time, and the hard dietary constraints never
// give way at all. The returned reasons record which relaxations fired.
func narrowPool(eligible []recipe.Recipe, fam family.Family, day Weekday, soFar []PlanSlot) ([]recipe.Recipe, []string) {
	var relaxed []string

	pool := FilterByCookTime(eligible, fam.MaxCookMinutes(day.IsWeekend()))
	if len(pool) == 0 {
		pool = eligible
		relaxed = append(relaxed, ReasonCookTimeRelaxed)
	}

	used := make(map[string]bool, len(soFar))
	for _, s := range soFar {
		used[s.RecipeID] = true
	}
	var fresh []recipe.Recipe
	for _, r := range pool {
		if !used[r.ID] {
			fresh = append(fresh, r)
		}
	}
	if len(fresh) == 0 {
		relaxed = append(relaxed, ReasonVarietyRelaxed)
		return pool, relaxed
	}
	return fresh, relaxed
}

// LocksExcept pins every assigned day of plan except the target day. A
// single-day re-roll passes the result as the lock map so the rest of the
// week comes back bit-identical.
func LocksExcept(plan *WeekPlan, day Weekday) map[Weekday]string {
	locks := make(map[Weekday]string, len(plan.Slots))
	for _, s := range plan.Slots {
		if s.Day != day {
			locks[s.Day] = s.RecipeID
		}
	}
	return locks
}
