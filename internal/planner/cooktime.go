package planner

import "family-meal-planner/internal/recipe"

// FilterByCookTime narrows a pool to the recipes that fit a day's cook-time
// budget. Unlike the hard filter, this constraint is soft: when nothing fits,
// the engine falls back to the unfiltered pool for that day.
func FilterByCookTime(pool []recipe.Recipe, maxMinutes int) []recipe.Recipe {
	var fits []recipe.Recipe
	for _, r := range pool {
		if r.CookMinutes <= maxMinutes {
			fits = append(fits, r)
		}
	}
	return fits
}
