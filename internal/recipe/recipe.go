package recipe

import (
	"fmt"
	"strings"
)

// Canonical allergen tags. Family-level dietary flags map onto these; free-form
// allergen strings are still honored as long as both sides use the same word.
const (
	AllergenGluten    = "gluten"
	AllergenDairy     = "dairy"
	AllergenNuts      = "nuts"
	AllergenEggs      = "eggs"
	AllergenSoy       = "soy"
	AllergenFish      = "fish"
	AllergenShellfish = "shellfish"
	AllergenSesame    = "sesame"
)

// KnownAllergens is the vocabulary the importer checks catalog entries against.
// Entries outside it are accepted but reported, since a misspelled allergen
// silently weakens the hard filter.
var KnownAllergens = []string{
	AllergenGluten,
	AllergenDairy,
	AllergenNuts,
	AllergenEggs,
	AllergenSoy,
	AllergenFish,
	AllergenShellfish,
	AllergenSesame,
}

// Tags with planner-visible meaning. Tags are otherwise free-form.
const (
	// TagSpicy marks a recipe as noticeably hot; spice-averse members score
	// it down.
	TagSpicy = "spicy"

	// TagVegan marks a vegetarian recipe as also vegan.
	TagVegan = "vegan"
)

// Season names accepted on a recipe. "fall" is normalized to "autumn".
const (
	SeasonWinter = "winter"
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonAutumn = "autumn"
)

var validSeasons = map[string]bool{
	SeasonWinter: true,
	SeasonSpring: true,
	SeasonSummer: true,
	SeasonAutumn: true,
}

// Recipe is one dinner option in the household catalog.
type Recipe struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Cuisine       string   `json:"cuisine" yaml:"cuisine"`
	Vegetarian    bool     `json:"vegetarian" yaml:"vegetarian"`
	Protein       string   `json:"protein,omitempty" yaml:"protein,omitempty"`
	CookMinutes   int      `json:"cook_minutes" yaml:"cook_minutes"`
	Allergens     []string `json:"allergens,omitempty" yaml:"allergens,omitempty"`
	KidFriendly   bool     `json:"kid_friendly" yaml:"kid_friendly"`
	LeftoverScore int      `json:"leftover_score" yaml:"leftover_score"`
	Seasons       []string `json:"seasons,omitempty" yaml:"seasons,omitempty"`
	MonthlyCap    int      `json:"monthly_cap,omitempty" yaml:"monthly_cap,omitempty"`
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// MakesLeftovers reports whether a batch of this recipe reliably covers a
// next-day lunch. Scores run 0-5; 3 is the cutoff used everywhere.
func (r Recipe) MakesLeftovers() bool {
	return r.LeftoverScore >= 3
}

// HasAllergen reports whether the recipe carries the given allergen tag.
// Comparison is case-insensitive on trimmed values.
func (r Recipe) HasAllergen(name string) bool {
	needle := normalizeToken(name)
	if needle == "" {
		return false
	}
	for _, a := range r.Allergens {
		if normalizeToken(a) == needle {
			return true
		}
	}
	return false
}

// HasTag reports whether the recipe carries the given free-form tag.
func (r Recipe) HasTag(tag string) bool {
	needle := normalizeToken(tag)
	for _, t := range r.Tags {
		if normalizeToken(t) == needle {
			return true
		}
	}
	return false
}

// InSeason reports whether the recipe is tagged for the given season.
// Untagged recipes are season-neutral and return false here.
func (r Recipe) InSeason(season string) bool {
	needle := normalizeToken(season)
	for _, s := range r.Seasons {
		if s == needle {
			return true
		}
	}
	return false
}

// Normalize lowercases and trims the fields the planner compares on, and maps
// the "fall" synonym to "autumn". Call once at load time; the planner assumes
// normalized input.
func (r *Recipe) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Title = strings.TrimSpace(r.Title)
	r.Cuisine = strings.TrimSpace(r.Cuisine)
	r.Protein = normalizeToken(r.Protein)
	for i, a := range r.Allergens {
		r.Allergens[i] = normalizeToken(a)
	}
	for i, s := range r.Seasons {
		s = normalizeToken(s)
		if s == "fall" {
			s = "autumn"
		}
		r.Seasons[i] = s
	}
	for i, t := range r.Tags {
		r.Tags[i] = normalizeToken(t)
	}
}

// Validate checks the invariants the planner relies on. It expects a
// normalized recipe.
func (r Recipe) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("recipe has no id")
	}
	if r.Title == "" {
		return fmt.Errorf("recipe %s: title is required", r.ID)
	}
	if r.CookMinutes <= 0 {
		return fmt.Errorf("recipe %s: cook_minutes must be positive, got %d", r.ID, r.CookMinutes)
	}
	if r.LeftoverScore < 0 || r.LeftoverScore > 5 {
		return fmt.Errorf("recipe %s: leftover_score must be 0-5, got %d", r.ID, r.LeftoverScore)
	}
	if r.MonthlyCap < 0 {
		return fmt.Errorf("recipe %s: monthly_cap must not be negative, got %d", r.ID, r.MonthlyCap)
	}
	for _, s := range r.Seasons {
		if !validSeasons[s] {
			return fmt.Errorf("recipe %s: unknown season %q", r.ID, s)
		}
	}
	return nil
}

// UnknownAllergens returns the recipe's allergen tags that are not part of the
// canonical vocabulary, for import-time reporting.
func (r Recipe) UnknownAllergens() []string {
	var unknown []string
	for _, a := range r.Allergens {
		known := false
		for _, k := range KnownAllergens {
			if a == k {
				known = true
				break
			}
		}
		if !known {
			unknown = append(unknown, a)
		}
	}
	return unknown
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
