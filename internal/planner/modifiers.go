package planner

import (
	"strings"
	"time"

	"family-meal-planner/internal/family"
	"family-meal-planner/internal/recipe"
)

// Scoring weights. Named constants rather than inline literals so ranking
// behavior can be tuned and probed without touching the pipeline.
const (
	// VegDayWeight is added when a vegetarian recipe lands on a vegetarian
	// day and subtracted when a non-vegetarian one does.
	VegDayWeight = 30

	FavoriteBonus  = 20
	DislikePenalty = 25

	// Dietary mismatch penalties for split-household planning, by severity.
	DietMismatchVeganMeat      = 45
	DietMismatchVegetarianMeat = 35
	DietMismatchVeganVeg       = 15

	SameCuisinePenalty   = 50
	ProteinRepeatPenalty = 40
	RecipeRepeatPenalty  = 100

	// Leftover days reward recipes by their leftover score and nudge poor
	// leftover candidates away.
	LeftoverPerPoint     = 5
	LeftoverWastePenalty = 10

	// Frequency cap: the base penalty applies once the trailing-30-day use
	// count reaches the recipe's monthly cap, and grows per use beyond it.
	FreqCapBasePenalty = 80
	FreqCapStepPenalty = 20

	InSeasonBonus      = 15
	OutOfSeasonPenalty = 5

	SpiceAversePenalty = 15
)

// modifierFunc is one pure scoring rule: given a candidate, the target day,
// and the slots assigned so far this run, it returns an additive delta and an
// optional audit reason. Modifiers have no side effects, so their order never
// changes the total score, only the order of recorded reasons.
type modifierFunc func(s *scoring, r recipe.Recipe, day Weekday, soFar []PlanSlot) (int, string)

// scorePipeline is the ordered set of rules applied to every candidate.
var scorePipeline = []modifierFunc{
	scoreVegDay,
	scoreFavorite,
	scoreDislike,
	scoreDietMismatch,
	scoreSameCuisine,
	scoreProteinRepeat,
	scoreRecipeRepeat,
	scoreLeftoverDay,
	scoreFrequencyCap,
	scoreSeasonality,
	scoreSpiceAverse,
}

// scoring carries the per-run lookups the modifiers share. Built once per
// planning call and treated as read-only afterwards.
type scoring struct {
	roles       DayRoles
	byID        map[string]recipe.Recipe
	weekStart   time.Time
	favorites   map[string]bool
	dislikes    map[string]bool
	historyUse  map[string]int
	spiceAverse bool
	split       bool
	hasVegan    bool
	hasVegOnly  bool
}

func newScoring(ctx PlannerContext, roles DayRoles, byID map[string]recipe.Recipe) *scoring {
	s := &scoring{
		roles:      roles,
		byID:       byID,
		weekStart:  NormalizeToMonday(ctx.WeekStart),
		favorites:  make(map[string]bool),
		dislikes:   make(map[string]bool),
		historyUse: make(map[string]int),
		split:      ctx.Family.Mode == family.ModeSplitHousehold,
	}
	for _, m := range ctx.Members {
		for _, f := range m.Favorites {
			s.favorites[f] = true
		}
		for _, d := range m.Dislikes {
			s.dislikes[d] = true
		}
		if m.SpiceAverse {
			s.spiceAverse = true
		}
		switch m.DietaryStyle {
		case family.StyleVegan:
			s.hasVegan = true
		case family.StyleVegetarian:
			s.hasVegOnly = true
		}
	}
	for _, id := range ctx.History {
		s.historyUse[id]++
	}
	return s
}

// score runs the full pipeline for one candidate on one day.
func (s *scoring) score(r recipe.Recipe, day Weekday, soFar []PlanSlot) ScoredRecipe {
	out := ScoredRecipe{Recipe: r}
	for _, mod := range scorePipeline {
		delta, reason := mod(s, r, day, soFar)
		out.Score += delta
		if reason != "" {
			out.Reasons = append(out.Reasons, reason)
		}
	}
	return out
}

func (s *scoring) date(day Weekday) time.Time {
	return s.weekStart.AddDate(0, 0, int(day))
}

// matches reports whether a member favorite/dislike entry set names the
// recipe, by id or by title. Entries are lowercased at load time.
func matches(set map[string]bool, r recipe.Recipe) bool {
	return set[strings.ToLower(r.ID)] || set[strings.ToLower(r.Title)]
}

func scoreVegDay(s *scoring, r recipe.Recipe, day Weekday, _ []PlanSlot) (int, string) {
	if !s.roles[day].Vegetarian {
		return 0, ""
	}
	if r.Vegetarian {
		return VegDayWeight, ReasonVegDay
	}
	return -VegDayWeight, ReasonNonVegOnVegDay
}

func scoreFavorite(s *scoring, r recipe.Recipe, _ Weekday, _ []PlanSlot) (int, string) {
	if matches(s.favorites, r) {
		return FavoriteBonus, ReasonFavorite
	}
	return 0, ""
}

func scoreDislike(s *scoring, r recipe.Recipe, _ Weekday, _ []PlanSlot) (int, string) {
	if matches(s.dislikes, r) {
		return -DislikePenalty, ReasonDislike
	}
	return 0, ""
}

// scoreDietMismatch penalizes recipes that conflict with a member's dietary
// style under split-household planning, once, at the worst severity present.
// Under strictest-household planning the hard filter already handled this.
func scoreDietMismatch(s *scoring, r recipe.Recipe, _ Weekday, _ []PlanSlot) (int, string) {
	if !s.split {
		return 0, ""
	}
	switch {
	case !r.Vegetarian && s.hasVegan:
		return -DietMismatchVeganMeat, ReasonDietMismatch
	case !r.Vegetarian && s.hasVegOnly:
		return -DietMismatchVegetarianMeat, ReasonDietMismatch
	case r.Vegetarian && s.hasVegan && !r.HasTag(recipe.TagVegan):
		return -DietMismatchVeganVeg, ReasonDietMismatch
	}
	return 0, ""
}

func scoreSameCuisine(s *scoring, r recipe.Recipe, _ Weekday, soFar []PlanSlot) (int, string) {
	if len(soFar) == 0 || r.Cuisine == "" {
		return 0, ""
	}
	prev, ok := s.byID[soFar[len(soFar)-1].RecipeID]
	if ok && strings.EqualFold(prev.Cuisine, r.Cuisine) {
		return -SameCuisinePenalty, ReasonSameCuisine
	}
	return 0, ""
}

func scoreProteinRepeat(s *scoring, r recipe.Recipe, _ Weekday, soFar []PlanSlot) (int, string) {
	if r.Protein == "" {
		return 0, ""
	}
	for i := len(soFar) - 1; i >= 0 && i >= len(soFar)-2; i-- {
		prev, ok := s.byID[soFar[i].RecipeID]
		if ok && prev.Protein == r.Protein {
			return -ProteinRepeatPenalty, ReasonProteinRepeat
		}
	}
	return 0, ""
}

func scoreRecipeRepeat(_ *scoring, r recipe.Recipe, _ Weekday, soFar []PlanSlot) (int, string) {
	for _, slot := range soFar {
		if slot.RecipeID == r.ID {
			return -RecipeRepeatPenalty, ReasonRecipeRepeat
		}
	}
	return 0, ""
}

func scoreLeftoverDay(s *scoring, r recipe.Recipe, day Weekday, _ []PlanSlot) (int, string) {
	if !s.roles[day].Leftover {
		return 0, ""
	}
	if r.MakesLeftovers() {
		return LeftoverPerPoint * r.LeftoverScore, ReasonLeftoverMatch
	}
	return -LeftoverWastePenalty, ReasonLeftoverWaste
}

func scoreFrequencyCap(s *scoring, r recipe.Recipe, _ Weekday, _ []PlanSlot) (int, string) {
	if r.MonthlyCap <= 0 {
		return 0, ""
	}
	uses := s.historyUse[r.ID]
	if uses < r.MonthlyCap {
		return 0, ""
	}
	over := uses - r.MonthlyCap
	return -(FreqCapBasePenalty + FreqCapStepPenalty*over), ReasonFrequencyCap
}

func scoreSeasonality(s *scoring, r recipe.Recipe, day Weekday, _ []PlanSlot) (int, string) {
	if len(r.Seasons) == 0 {
		return 0, ""
	}
	if r.InSeason(seasonOf(s.date(day))) {
		return InSeasonBonus, ReasonInSeason
	}
	return -OutOfSeasonPenalty, ReasonOutOfSeason
}

func scoreSpiceAverse(s *scoring, r recipe.Recipe, _ Weekday, _ []PlanSlot) (int, string) {
	if s.spiceAverse && r.HasTag(recipe.TagSpicy) {
		return -SpiceAversePenalty, ReasonSpiceAverse
	}
	return 0, ""
}
