package planner

import "family-meal-planner/internal/recipe"

// Exclusion reason codes. An allergen exclusion is reported as
// "ALLERGEN:<name>" so the audit trail names the offending allergen.
const (
	ExcludedAllergen       = "ALLERGEN"
	ExcludedNotKidFriendly = "NOT_KID_FRIENDLY"
	ExcludedNotVegetarian  = "NOT_VEGETARIAN"
)

// Exclusion records one recipe removed by the hard filter and why.
type Exclusion struct {
	RecipeID string `json:"recipe_id"`
	Reason   string `json:"reason"`
}

// HardFilter removes every recipe that violates a non-negotiable constraint:
// family or member allergens, the gluten/dairy/nut-free flags, picky-kid mode,
// and, under strictest-household planning, any member's vegetarian or vegan
// requirement. These constraints are never relaxed later in the run.
//
// If nothing survives, the run is over: ErrNoEligibleRecipes is returned and
// no plan is produced.
func HardFilter(ctx PlannerContext) ([]recipe.Recipe, []Exclusion, error) {
	hh := ctx.household()
	allergens := hh.CombinedAllergies()
	requireVeg := hh.RequiresVegetarian()

	var eligible []recipe.Recipe
	var excluded []Exclusion
	for _, r := range ctx.Catalog {
		if reason, ok := excludeRecipe(r, allergens, ctx.Family.PickyKidMode, requireVeg); ok {
			excluded = append(excluded, Exclusion{RecipeID: r.ID, Reason: reason})
			continue
		}
		eligible = append(eligible, r)
	}

	if len(eligible) == 0 {
		return nil, excluded, ErrNoEligibleRecipes
	}
	return eligible, excluded, nil
}

// excludeRecipe returns the first disqualifying reason for r, if any.
func excludeRecipe(r recipe.Recipe, allergens []string, pickyKid, requireVeg bool) (string, bool) {
	for _, a := range allergens {
		if r.HasAllergen(a) {
			return ExcludedAllergen + ":" + a, true
		}
	}
	if pickyKid && !r.KidFriendly {
		return ExcludedNotKidFriendly, true
	}
	if requireVeg && !r.Vegetarian {
		return ExcludedNotVegetarian, true
	}
	return "", false
}
