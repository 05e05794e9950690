package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"family-meal-planner/internal/family"
	"family-meal-planner/internal/recipe"
)

var (
	// ErrNoEligibleRecipes is the engine's only terminal failure: after hard
	// filtering nothing is left to plan with, so no plan is produced.
	ErrNoEligibleRecipes = errors.New("planner: no eligible recipes after hard filtering")

	// ErrUnknownLockedRecipe marks a lock map entry whose recipe id does not
	// exist in the catalog. It is an input validation error, not a planning
	// failure.
	ErrUnknownLockedRecipe = errors.New("planner: locked recipe not found in catalog")
)

// Weekday numbers the days of the plan week, Monday first.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// IsWeekend reports whether the day uses the weekend cook-time budget.
func (d Weekday) IsWeekend() bool {
	return d == Saturday || d == Sunday
}

// MarshalJSON renders the day as its English name.
func (d Weekday) MarshalJSON() ([]byte, error) {
	if d < Monday || d > Sunday {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(`"` + weekdayNames[d] + `"`), nil
}

// UnmarshalJSON accepts an English day name, case-insensitive.
func (d *Weekday) UnmarshalJSON(data []byte) error {
	name := strings.Trim(string(data), `"`)
	parsed, err := ParseWeekday(name)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseWeekday resolves an English day name to its Weekday, case-insensitive.
func ParseWeekday(name string) (Weekday, error) {
	for i, n := range weekdayNames {
		if strings.EqualFold(name, n) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// Reason codes recorded on plan slots and scored candidates. A slot's reasons
// list every rule that fired for its chosen recipe, in trigger order.
const (
	ReasonLocked          = "LOCKED"
	ReasonVegDay          = "VEG_DAY"
	ReasonNonVegOnVegDay  = "NON_VEG_ON_VEG_DAY"
	ReasonFavorite        = "FAVORITE"
	ReasonDislike         = "DISLIKE"
	ReasonDietMismatch    = "DIET_MISMATCH"
	ReasonSameCuisine     = "SAME_CUISINE"
	ReasonProteinRepeat   = "PROTEIN_REPEAT"
	ReasonRecipeRepeat    = "RECIPE_REPEAT"
	ReasonLeftoverMatch   = "LEFTOVER_MATCH"
	ReasonLeftoverWaste   = "LEFTOVER_WASTE"
	ReasonFrequencyCap    = "FREQUENCY_CAP"
	ReasonInSeason        = "IN_SEASON"
	ReasonOutOfSeason     = "OUT_OF_SEASON"
	ReasonSpiceAverse     = "SPICE_AVERSE"
	ReasonCookTimeRelaxed = "COOK_TIME_RELAXED"
	ReasonVarietyRelaxed  = "VARIETY_RELAXED"
)

// PlannerContext is the immutable input bundle for one planning run. It is
// constructed fresh per call and never mutated by the engine.
type PlannerContext struct {
	Family    family.Family
	Members   []family.Member
	Catalog   []recipe.Recipe
	Locks     map[Weekday]string
	WeekStart time.Time
	Seed      uint32
	History   []string
}

func (c PlannerContext) household() family.Household {
	return family.Household{Family: c.Family, Members: c.Members}
}

// PlanSlot is one day's outcome in the assembled week.
type PlanSlot struct {
	Day                   Weekday   `json:"day"`
	Date                  time.Time `json:"date"`
	RecipeID              string    `json:"recipe_id"`
	RecipeTitle           string    `json:"recipe_title"`
	Locked                bool      `json:"locked"`
	LunchLeftoverLabel    string    `json:"lunch_leftover_label,omitempty"`
	LeftoverLunchRecipeID string    `json:"leftover_lunch_recipe_id,omitempty"`
	Reasons               []string  `json:"reasons"`
}

// ScoredRecipe is the transient (recipe, total, reasons) tuple used while
// selecting a single day's recipe.
type ScoredRecipe struct {
	Recipe  recipe.Recipe
	Score   int
	Reasons []string
}

// WeekPlan is the engine's output: exactly seven slots, Monday through Sunday.
type WeekPlan struct {
	WeekStart time.Time  `json:"week_start"`
	Seed      uint32     `json:"seed"`
	Slots     []PlanSlot `json:"slots"`
}

// Slot returns the plan's slot for the given day.
func (p *WeekPlan) Slot(day Weekday) (PlanSlot, bool) {
	for _, s := range p.Slots {
		if s.Day == day {
			return s, true
		}
	}
	return PlanSlot{}, false
}
