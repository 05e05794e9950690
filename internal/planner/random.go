package planner

import "time"

// SeededSource is a 32-bit mix-and-xorshift generator. One source is created
// per planning run and consumed sequentially across the days in canonical
// order, so a whole plan is a pure function of its seed.
type SeededSource struct {
	state uint32
}

// NewSeededSource returns a generator starting from the given state.
func NewSeededSource(seed uint32) *SeededSource {
	return &SeededSource{state: seed}
}

// Float64 advances the state and returns the next value in [0, 1).
func (s *SeededSource) Float64() float64 {
	s.state += 0x6d2b79f5
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	t ^= t >> 14
	return float64(t) / 4294967296.0
}

// IntN returns a deterministic integer in [0, n).
func (s *SeededSource) IntN(n int) int {
	return int(s.Float64() * float64(n))
}

// seedFold is the large odd multiplier that spreads household ids across the
// 32-bit seed space.
const seedFold uint32 = 2654435761

// DeriveSeed folds the household id, the week-start date string, and a
// variant discriminator into the 32-bit seed for one plan. Identical inputs
// always derive the identical seed; this function is a reproducibility
// contract and must not change.
func DeriveSeed(householdID int64, weekStartISO string, variant int) uint32 {
	seed := uint32(householdID) * seedFold
	seed += hash31(weekStartISO)
	seed += uint32(variant)
	return seed
}

func hash31(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

// swapVariantBase offsets the variant used when re-rolling a single day so
// swap seeds never collide with whole-plan variants.
const swapVariantBase = 1000

// SwapVariant returns the seed variant for re-rolling one day of a plan.
func SwapVariant(day Weekday) int {
	return swapVariantBase + int(day)
}

// NormalizeToMonday maps any date to the Monday of its ISO week, at midnight
// UTC. Like DeriveSeed, it is a reproducibility contract.
func NormalizeToMonday(t time.Time) time.Time {
	t = t.UTC()
	back := (int(t.Weekday()) + 6) % 7
	t = t.AddDate(0, 0, -back)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStartISO formats the Monday of t's week the way DeriveSeed expects it.
func WeekStartISO(t time.Time) string {
	return NormalizeToMonday(t).Format("2006-01-02")
}
