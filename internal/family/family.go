package family

import (
	"fmt"
	"strings"
)

// PlanningMode selects how member-level dietary styles are enforced.
type PlanningMode string

const (
	// ModeStrictestHousehold plans one menu the strictest member can eat:
	// member dietary styles become hard filters.
	ModeStrictestHousehold PlanningMode = "strictest_household"

	// ModeSplitHousehold keeps member dietary styles out of the hard filter
	// and expresses them as scoring penalties instead, on the assumption that
	// the household splits dishes or cooks variants.
	ModeSplitHousehold PlanningMode = "split_household"
)

// DietaryStyle is a member's base diet.
type DietaryStyle string

const (
	StyleOmnivore   DietaryStyle = "omnivore"
	StyleVegetarian DietaryStyle = "vegetarian"
	StyleVegan      DietaryStyle = "vegan"
)

// RequiresVegetarian reports whether the style rules out meat dishes outright.
func (s DietaryStyle) RequiresVegetarian() bool {
	return s == StyleVegetarian || s == StyleVegan
}

// Family holds the household-level planning constraints.
type Family struct {
	ID                    int64        `json:"id" yaml:"id"`
	Name                  string       `json:"name" yaml:"name"`
	Allergies             []string     `json:"allergies,omitempty" yaml:"allergies,omitempty"`
	GlutenFree            bool         `json:"gluten_free" yaml:"gluten_free"`
	DairyFree             bool         `json:"dairy_free" yaml:"dairy_free"`
	NutFree               bool         `json:"nut_free" yaml:"nut_free"`
	VegetarianRatio       int          `json:"vegetarian_ratio" yaml:"vegetarian_ratio"`
	MaxCookMinutesWeekday int          `json:"max_cook_minutes_weekday" yaml:"max_cook_minutes_weekday"`
	MaxCookMinutesWeekend int          `json:"max_cook_minutes_weekend" yaml:"max_cook_minutes_weekend"`
	LeftoverNights        int          `json:"leftover_nights" yaml:"leftover_nights"`
	PickyKidMode          bool         `json:"picky_kid_mode" yaml:"picky_kid_mode"`
	Mode                  PlanningMode `json:"planning_mode" yaml:"planning_mode"`
}

// Member is one person in the household with their own dietary profile.
type Member struct {
	Name         string       `json:"name" yaml:"name"`
	DietaryStyle DietaryStyle `json:"dietary_style" yaml:"dietary_style"`
	Allergies    []string     `json:"allergies,omitempty" yaml:"allergies,omitempty"`
	Dislikes     []string     `json:"dislikes,omitempty" yaml:"dislikes,omitempty"`
	Favorites    []string     `json:"favorites,omitempty" yaml:"favorites,omitempty"`
	SpiceAverse  bool         `json:"spice_averse" yaml:"spice_averse"`
}

// MaxCookMinutes returns the cook-time budget for a weekday or weekend dinner.
func (f Family) MaxCookMinutes(weekend bool) int {
	if weekend {
		return f.MaxCookMinutesWeekend
	}
	return f.MaxCookMinutesWeekday
}

// Normalize lowercases and trims the fields that get compared against recipe
// data, and fills enum defaults for omitted values.
func (f *Family) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	normalizeList(f.Allergies)
	if f.Mode == "" {
		f.Mode = ModeStrictestHousehold
	}
	f.Mode = PlanningMode(strings.ToLower(strings.TrimSpace(string(f.Mode))))
}

// Validate checks the household-level invariants.
func (f Family) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("family id must be positive, got %d", f.ID)
	}
	if f.VegetarianRatio < 0 || f.VegetarianRatio > 100 {
		return fmt.Errorf("vegetarian_ratio must be 0-100, got %d", f.VegetarianRatio)
	}
	if f.LeftoverNights < 0 || f.LeftoverNights > 4 {
		return fmt.Errorf("leftover_nights must be 0-4, got %d", f.LeftoverNights)
	}
	if f.MaxCookMinutesWeekday <= 0 {
		return fmt.Errorf("max_cook_minutes_weekday must be positive, got %d", f.MaxCookMinutesWeekday)
	}
	if f.MaxCookMinutesWeekend <= 0 {
		return fmt.Errorf("max_cook_minutes_weekend must be positive, got %d", f.MaxCookMinutesWeekend)
	}
	switch f.Mode {
	case ModeStrictestHousehold, ModeSplitHousehold:
	default:
		return fmt.Errorf("unknown planning_mode %q", f.Mode)
	}
	return nil
}

// Normalize lowercases the member fields the planner compares on and defaults
// an omitted dietary style to omnivore.
func (m *Member) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	if m.DietaryStyle == "" {
		m.DietaryStyle = StyleOmnivore
	}
	m.DietaryStyle = DietaryStyle(strings.ToLower(strings.TrimSpace(string(m.DietaryStyle))))
	normalizeList(m.Allergies)
	normalizeList(m.Dislikes)
	normalizeList(m.Favorites)
}

// Validate checks the member-level invariants.
func (m Member) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("member has no name")
	}
	switch m.DietaryStyle {
	case StyleOmnivore, StyleVegetarian, StyleVegan:
	default:
		return fmt.Errorf("member %s: unknown dietary_style %q", m.Name, m.DietaryStyle)
	}
	return nil
}

func normalizeList(items []string) {
	for i, s := range items {
		items[i] = strings.ToLower(strings.TrimSpace(s))
	}
}
