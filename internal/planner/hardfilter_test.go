package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"family-meal-planner/internal/family"
	"family-meal-planner/internal/recipe"
)

func filterCatalog() []recipe.Recipe {
	return []recipe.Recipe{
		{ID: "chicken-curry", Title: "Chicken Curry", Vegetarian: false, CookMinutes: 45, KidFriendly: true},
		{ID: "peanut-noodles", Title: "Peanut Noodles", Allergens: []string{"nuts"}, CookMinutes: 20, KidFriendly: true},
		{ID: "mushroom-risotto", Title: "Mushroom Risotto", Vegetarian: true, CookMinutes: 50, KidFriendly: false},
		{ID: "veggie-tacos", Title: "Veggie Tacos", Vegetarian: true, CookMinutes: 30, KidFriendly: true},
	}
}

func filterCtx(fam family.Family, members ...family.Member) PlannerContext {
	return PlannerContext{Family: fam, Members: members, Catalog: filterCatalog()}
}

func eligibleIDs(t *testing.T, ctx PlannerContext) []string {
	t.Helper()
	eligible, _, err := HardFilter(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(eligible))
	for _, r := range eligible {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestHardFilterFamilyAllergy(t *testing.T) {
	ctx := filterCtx(family.Family{Allergies: []string{"nuts"}})

	ids := eligibleIDs(t, ctx)
	assert.NotContains(t, ids, "peanut-noodles")
	assert.Contains(t, ids, "chicken-curry")

	_, excluded, err := HardFilter(ctx)
	require.NoError(t, err)
	require.Len(t, excluded, 1)
	assert.Equal(t, "peanut-noodles", excluded[0].RecipeID)
	assert.Equal(t, "ALLERGEN:nuts", excluded[0].Reason)
}

func TestHardFilterMemberAllergy(t *testing.T) {
	ctx := filterCtx(family.Family{}, family.Member{Name: "Ana", Allergies: []string{"nuts"}})

	assert.NotContains(t, eligibleIDs(t, ctx), "peanut-noodles")
}

func TestHardFilterAllergenCaseInsensitive(t *testing.T) {
	catalog := []recipe.Recipe{
		{ID: "satay", Title: "Satay", Allergens: []string{"Nuts"}, CookMinutes: 30, KidFriendly: true},
		{ID: "plain", Title: "Plain", CookMinutes: 30, KidFriendly: true},
	}
	ctx := PlannerContext{Family: family.Family{Allergies: []string{"nuts"}}, Catalog: catalog}

	ids := eligibleIDs(t, ctx)
	assert.Equal(t, []string{"plain"}, ids)
}

func TestHardFilterDietaryFlag(t *testing.T) {
	catalog := []recipe.Recipe{
		{ID: "pasta", Title: "Pasta", Allergens: []string{recipe.AllergenGluten}, CookMinutes: 20, KidFriendly: true},
		{ID: "stir-fry", Title: "Stir Fry", CookMinutes: 20, KidFriendly: true},
	}
	ctx := PlannerContext{Family: family.Family{GlutenFree: true}, Catalog: catalog}

	assert.Equal(t, []string{"stir-fry"}, eligibleIDs(t, ctx))
}

func TestHardFilterPickyKid(t *testing.T) {
	ctx := filterCtx(family.Family{PickyKidMode: true})

	ids := eligibleIDs(t, ctx)
	assert.NotContains(t, ids, "mushroom-risotto")

	_, excluded, err := HardFilter(ctx)
	require.NoError(t, err)
	require.Len(t, excluded, 1)
	assert.Equal(t, ExcludedNotKidFriendly, excluded[0].Reason)
}

func TestHardFilterStrictestVegetarian(t *testing.T) {
	ctx := filterCtx(
		family.Family{Mode: family.ModeStrictestHousehold},
		family.Member{Name: "Ben", DietaryStyle: family.StyleVegan},
	)

	ids := eligibleIDs(t, ctx)
	assert.ElementsMatch(t, []string{"mushroom-risotto", "veggie-tacos"}, ids)
}

func TestHardFilterSplitModeKeepsMeat(t *testing.T) {
	ctx := filterCtx(
		family.Family{Mode: family.ModeSplitHousehold},
		family.Member{Name: "Ben", DietaryStyle: family.StyleVegan},
	)

	assert.Contains(t, eligibleIDs(t, ctx), "chicken-curry")
}

func TestHardFilterAllergensBeforePickyKid(t *testing.T) {
	catalog := []recipe.Recipe{
		{ID: "nutty", Title: "Nutty", Allergens: []string{"nuts"}, CookMinutes: 30, KidFriendly: false},
		{ID: "plain", Title: "Plain", CookMinutes: 30, KidFriendly: true},
	}
	ctx := PlannerContext{
		Family:  family.Family{Allergies: []string{"nuts"}, PickyKidMode: true},
		Catalog: catalog,
	}

	_, excluded, err := HardFilter(ctx)
	require.NoError(t, err)
	require.Len(t, excluded, 1)
	assert.Equal(t, "ALLERGEN:nuts", excluded[0].Reason)
}

func TestHardFilterEmptyPoolIsTerminal(t *testing.T) {
	catalog := []recipe.Recipe{
		{ID: "satay", Title: "Satay", Allergens: []string{"nuts"}, CookMinutes: 30, KidFriendly: true},
	}
	ctx := PlannerContext{Family: family.Family{Allergies: []string{"nuts"}}, Catalog: catalog}

	eligible, excluded, err := HardFilter(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoEligibleRecipes))
	assert.Empty(t, eligible)
	assert.Len(t, excluded, 1)
}

func TestFilterByCookTime(t *testing.T) {
	pool := []recipe.Recipe{
		{ID: "quick", CookMinutes: 20},
		{ID: "medium", CookMinutes: 45},
		{ID: "slow", CookMinutes: 90},
	}

	fits := FilterByCookTime(pool, 45)
	ids := make([]string, 0, len(fits))
	for _, r := range fits {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"quick", "medium"}, ids)

	assert.Empty(t, FilterByCookTime(pool, 10))
}
