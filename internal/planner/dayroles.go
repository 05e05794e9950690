package planner

import (
	"math"

	"family-meal-planner/internal/family"
	"family-meal-planner/internal/recipe"
)

// DayRole marks what an unlocked day is planned around. Locked days never
// carry a role.
type DayRole struct {
	Vegetarian bool
	Leftover   bool
}

// DayRoles holds one role per weekday, indexed by Weekday.
type DayRoles [7]DayRole

// AssignDayRoles decides which unlocked days are vegetarian days and which
// are leftover days.
//
// Vegetarian days: the week's target is round(ratio/100 * 7), minus the days
// already covered by vegetarian locks. The rest is spread evenly across the
// unlocked days with a stride rule so the days do not clump at the start of
// the week.
//
// Leftover days: nights whose dinner should also feed the next day's lunch.
// Monday through Thursday are preferred so the leftovers land on a school or
// work day; the overflow takes any other unlocked day in day order.
func AssignDayRoles(fam family.Family, locks map[Weekday]string, byID map[string]recipe.Recipe) DayRoles {
	var roles DayRoles

	var unlocked []Weekday
	lockedVeg := 0
	for d := Monday; d <= Sunday; d++ {
		id, ok := locks[d]
		if !ok {
			unlocked = append(unlocked, d)
			continue
		}
		if r, ok := byID[id]; ok && r.Vegetarian {
			lockedVeg++
		}
	}

	target := int(math.Round(float64(fam.VegetarianRatio) / 100.0 * 7.0))
	remaining := target - lockedVeg
	if remaining > 0 && len(unlocked) > 0 {
		stride := float64(len(unlocked)) / float64(remaining)
		assigned := 0
		for i, d := range unlocked {
			if assigned >= remaining {
				break
			}
			if float64(i) >= float64(assigned)*stride {
				roles[d].Vegetarian = true
				assigned++
			}
		}
	}

	left := fam.LeftoverNights
	for _, d := range unlocked {
		if left == 0 {
			break
		}
		if d >= Friday {
			continue
		}
		roles[d].Leftover = true
		left--
	}
	for _, d := range unlocked {
		if left == 0 {
			break
		}
		if roles[d].Leftover {
			continue
		}
		roles[d].Leftover = true
		left--
	}

	return roles
}
