package planner

import (
	"time"

	"family-meal-planner/internal/recipe"
)

// seasonOf maps a date to its meteorological season in the catalog's
// vocabulary (northern hemisphere).
func seasonOf(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return recipe.SeasonWinter
	case time.March, time.April, time.May:
		return recipe.SeasonSpring
	case time.June, time.July, time.August:
		return recipe.SeasonSummer
	default:
		return recipe.SeasonAutumn
	}
}
