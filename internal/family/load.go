package family

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Household bundles the family constraints with its members, matching the
// layout of the household YAML file.
type Household struct {
	Family  Family   `json:"household" yaml:"household"`
	Members []Member `json:"members" yaml:"members"`
}

// LoadHousehold reads and validates a household definition from a YAML file.
func LoadHousehold(path string) (*Household, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read household file %s: %w", path, err)
	}

	var h Household
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse household file %s: %w", path, err)
	}

	h.Normalize()
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("invalid household file %s: %w", path, err)
	}
	return &h, nil
}

// Normalize applies defaults and lowercases all comparison fields.
func (h *Household) Normalize() {
	if h.Family.MaxCookMinutesWeekday == 0 {
		h.Family.MaxCookMinutesWeekday = 45
	}
	if h.Family.MaxCookMinutesWeekend == 0 {
		h.Family.MaxCookMinutesWeekend = 90
	}
	h.Family.Normalize()
	for i := range h.Members {
		h.Members[i].Normalize()
	}
}

// Validate checks the family and every member.
func (h Household) Validate() error {
	if err := h.Family.Validate(); err != nil {
		return err
	}
	for _, m := range h.Members {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CombinedAllergies merges household-level allergies, the dietary exclusion
// flags, and every member's allergies into one deduplicated list.
func (h Household) CombinedAllergies() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(a string) {
		if a == "" || seen[a] {
			return
		}
		seen[a] = true
		out = append(out, a)
	}

	for _, a := range h.Family.Allergies {
		add(a)
	}
	if h.Family.GlutenFree {
		add("gluten")
	}
	if h.Family.DairyFree {
		add("dairy")
	}
	if h.Family.NutFree {
		add("nuts")
	}
	for _, m := range h.Members {
		for _, a := range m.Allergies {
			add(a)
		}
	}
	return out
}

// RequiresVegetarian reports whether strictest-household planning must only
// serve vegetarian recipes, which is the case when any member's style rules
// out meat.
func (h Household) RequiresVegetarian() bool {
	if h.Family.Mode != ModeStrictestHousehold {
		return false
	}
	for _, m := range h.Members {
		if m.DietaryStyle.RequiresVegetarian() {
			return true
		}
	}
	return false
}
