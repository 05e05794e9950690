package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeriveSeedPinned guards the seed derivation against accidental change.
// The value is the recorded output for household 7, week 2024-01-08, variant
// 0; if this test fails, every stored plan would re-roll differently.
func TestDeriveSeedPinned(t *testing.T) {
	assert.Equal(t, uint32(787839518), DeriveSeed(7, "2024-01-08", 0))
}

func TestDeriveSeedVariantOffsets(t *testing.T) {
	base := DeriveSeed(7, "2024-01-08", 0)

	assert.Equal(t, base+1, DeriveSeed(7, "2024-01-08", 1))
	assert.Equal(t, base+uint32(SwapVariant(Wednesday)), DeriveSeed(7, "2024-01-08", SwapVariant(Wednesday)))
}

func TestDeriveSeedSeparatesInputs(t *testing.T) {
	week := "2024-01-08"

	assert.NotEqual(t, DeriveSeed(7, week, 0), DeriveSeed(8, week, 0))
	assert.NotEqual(t, DeriveSeed(7, week, 0), DeriveSeed(7, "2024-01-15", 0))
	assert.NotEqual(t, DeriveSeed(7, week, 0), DeriveSeed(7, week, 3))
}

func TestSeededSourceDeterminism(t *testing.T) {
	a := NewSeededSource(42)
	b := NewSeededSource(42)
	for i := 0; i < 32; i++ {
		require.Equal(t, a.Float64(), b.Float64(), "draw %d diverged", i)
	}
}

func TestSeededSourceRange(t *testing.T) {
	src := NewSeededSource(787839518)
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestSeededSourceSeedsDiverge(t *testing.T) {
	a := NewSeededSource(1)
	b := NewSeededSource(2)

	var seqA, seqB [16]float64
	for i := range seqA {
		seqA[i] = a.Float64()
		seqB[i] = b.Float64()
	}
	assert.NotEqual(t, seqA, seqB)
}

func TestSeededSourceIntN(t *testing.T) {
	src := NewSeededSource(7)
	for i := 0; i < 200; i++ {
		v := src.IntN(5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 5)
	}
}

func TestNormalizeToMonday(t *testing.T) {
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"already monday", monday, monday},
		{"midweek", time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC), monday},
		{"sunday belongs to preceding monday", time.Date(2024, 1, 14, 23, 59, 0, 0, time.UTC), monday},
		{"next monday starts a new week", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), monday.AddDate(0, 0, 7)},
		{
			"non-utc input normalizes through utc",
			time.Date(2024, 1, 10, 23, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			monday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeToMonday(tt.in)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestWeekStartISO(t *testing.T) {
	assert.Equal(t, "2024-01-08", WeekStartISO(time.Date(2024, 1, 11, 15, 0, 0, 0, time.UTC)))
}

func TestSwapVariantPerDay(t *testing.T) {
	seen := make(map[int]bool)
	for d := Monday; d <= Sunday; d++ {
		v := SwapVariant(d)
		assert.False(t, seen[v], "variant for %s collides", d)
		seen[v] = true
		assert.Greater(t, v, 0, "swap variants must not collide with plan variant 0")
	}
}
