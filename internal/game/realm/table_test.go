package realm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/daasheo/immortalworld/internal/game/realm"
)

// TestInfoOf_TableValues verifies the static realm configuration against the
// established progression values.
func TestInfoOf_TableValues(t *testing.T) {
	tests := []struct {
		tier         realm.Tier
		expRequired  float64
		baseMaxQi    float64
		ringSlots    int
		ringLevel    int
		requiredStr  int
	}{
		{realm.Mortal, 0, 100, 0, 0, 0},
		{realm.QiCondensation, 1000, 200, 1, 10, 20},
		{realm.Foundation, 5000, 400, 2, 25, 50},
		{realm.GoldenCore, 25000, 800, 3, 50, 100},
		{realm.NascentSoul, 100000, 1600, 4, 100, 200},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			info := realm.InfoOf(tt.tier)
			assert.Equal(t, tt.expRequired, info.ExpRequired, "ExpRequired")
			assert.Equal(t, tt.baseMaxQi, info.BaseMaxQi, "BaseMaxQi")
			assert.Equal(t, tt.ringSlots, info.MaxRingSlots, "MaxRingSlots")
			assert.Equal(t, tt.ringLevel, info.MaxRingLevel, "MaxRingLevel")
			assert.Equal(t, tt.requiredStr, info.RequiredBodyStrength, "RequiredBodyStrength")
		})
	}
}

// TestInfoOf_InvalidTierPanics verifies that reading the table with an
// unvalidated ordinal is a programming error.
func TestInfoOf_InvalidTierPanics(t *testing.T) {
	assert.Panics(t, func() { realm.InfoOf(realm.Tier(99)) },
		"InfoOf must panic on an invalid tier")
}

// TestTotalExpRequired verifies cumulative advancement costs: the sum of all
// ExpRequired values strictly below the target tier.
func TestTotalExpRequired(t *testing.T) {
	assert.Equal(t, 0.0, realm.TotalExpRequired(realm.Mortal))
	assert.Equal(t, 0.0, realm.TotalExpRequired(realm.QiCondensation))
	assert.Equal(t, 1000.0, realm.TotalExpRequired(realm.Foundation))
	assert.Equal(t, 6000.0, realm.TotalExpRequired(realm.GoldenCore))
	assert.Equal(t, 31000.0, realm.TotalExpRequired(realm.NascentSoul))
}

// TestMaxQiForSubTier verifies the sub-stage Qi scaling: 0.33 Early, 0.66 Mid,
// 1.0 for both Late and Peak.
func TestMaxQiForSubTier(t *testing.T) {
	assert.InDelta(t, 66.0, realm.MaxQiForSubTier(realm.QiCondensation, realm.SubTierEarly), 0.001)
	assert.InDelta(t, 132.0, realm.MaxQiForSubTier(realm.QiCondensation, realm.SubTierMid), 0.001)
	assert.InDelta(t, 200.0, realm.MaxQiForSubTier(realm.QiCondensation, realm.SubTierLate), 0.001)
	assert.InDelta(t, 200.0, realm.MaxQiForSubTier(realm.QiCondensation, realm.SubTierPeak), 0.001,
		"Peak must reuse the Late multiplier of 1.0")
}

// TestDifficultyMultiplier verifies 1 + ordinal*0.5 across the ladder.
func TestDifficultyMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, realm.DifficultyMultiplier(realm.Mortal))
	assert.Equal(t, 1.5, realm.DifficultyMultiplier(realm.QiCondensation))
	assert.Equal(t, 2.0, realm.DifficultyMultiplier(realm.Foundation))
	assert.Equal(t, 2.5, realm.DifficultyMultiplier(realm.GoldenCore))
	assert.Equal(t, 3.0, realm.DifficultyMultiplier(realm.NascentSoul))
}

// TestTable_Monotonic_Property verifies that every table column a cultivator
// progresses through is non-decreasing in tier.
func TestTable_Monotonic_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := realm.Tier(rapid.IntRange(0, realm.TierCount-2).Draw(rt, "lower"))
		hi, ok := lo.Next()
		require.True(rt, ok)

		a, b := realm.InfoOf(lo), realm.InfoOf(hi)
		assert.Less(rt, a.ExpRequired, b.ExpRequired, "ExpRequired must increase")
		assert.Less(rt, a.BaseMaxQi, b.BaseMaxQi, "BaseMaxQi must increase")
		assert.LessOrEqual(rt, a.MaxRingSlots, b.MaxRingSlots, "MaxRingSlots must not decrease")
		assert.Less(rt, realm.TotalExpRequired(lo), realm.TotalExpRequired(hi)+1,
			"TotalExpRequired must be non-decreasing")
		assert.Less(rt, realm.DifficultyMultiplier(lo), realm.DifficultyMultiplier(hi),
			"DifficultyMultiplier must increase")
	})
}
