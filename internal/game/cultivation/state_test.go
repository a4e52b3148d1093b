package cultivation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/daasheo/immortalworld/internal/game/cultivation"
	"github.com/daasheo/immortalworld/internal/game/realm"
)

// TestNewState_Defaults verifies the starting attributes of a fresh cultivator.
func TestNewState_Defaults(t *testing.T) {
	s := cultivation.NewState()

	assert.Equal(t, 100.0, s.CurrentQi(), "starting Qi must be full")
	assert.Equal(t, 100.0, s.MaxQi(), "starting Qi cap must be 100")
	assert.Equal(t, realm.Mortal, s.Tier(), "cultivators start Mortal")
	assert.Equal(t, realm.SubTierEarly, s.SubTier())
	assert.Equal(t, 0.0, s.SubTierProgress())
	assert.Equal(t, 0.0, s.TotalExp())
	assert.Equal(t, 10, s.BodyStrength())
	assert.Equal(t, 10, s.SpiritualSense())
	assert.Equal(t, 10, s.Constitution())
	assert.Equal(t, 50, s.Talent())
	assert.Equal(t, 0, s.Karma())
	assert.Equal(t, 0, s.RingSlotsUsed())
	assert.Equal(t, cultivation.RestIdle, s.RestState(), "cultivators start idle")
	assert.False(t, s.IsResting())
}

// TestState_SettersClamp verifies the clamp-on-invalid policy for
// range-bounded fields.
func TestState_SettersClamp(t *testing.T) {
	s := cultivation.NewState()

	s.SetCurrentQi(-50)
	assert.Equal(t, 0.0, s.CurrentQi(), "negative Qi clamps to zero")

	s.SetCurrentQi(9999)
	assert.Equal(t, s.MaxQi(), s.CurrentQi(), "Qi clamps to the cap")

	s.SetMaxQi(10)
	assert.Equal(t, 100.0, s.MaxQi(), "Qi cap floors at 100")

	s.SetMaxQi(300)
	s.SetCurrentQi(300)
	s.SetMaxQi(150)
	assert.Equal(t, 150.0, s.CurrentQi(), "lowering the cap re-clamps the pool")

	s.SetTalent(150)
	assert.Equal(t, cultivation.MaxTalent, s.Talent(), "talent clamps to 100")
	s.SetTalent(-5)
	assert.Equal(t, 0, s.Talent())

	s.SetKarma(5000)
	assert.Equal(t, cultivation.KarmaMax, s.Karma(), "karma clamps to +1000")
	s.SetKarma(-5000)
	assert.Equal(t, cultivation.KarmaMin, s.Karma(), "karma clamps to -1000")

	s.SetRingSlotsUsed(99)
	assert.Equal(t, cultivation.MaxRingSlots, s.RingSlotsUsed())

	s.SetBodyStrength(-3)
	assert.Equal(t, 0, s.BodyStrength(), "body strength floors at zero")

	s.SetSubTierProgress(250)
	assert.Equal(t, 100.0, s.SubTierProgress(), "progress setter clamps to 100")
}

// TestState_ModifyKarma verifies delta adjustment stamps the change time.
func TestState_ModifyKarma(t *testing.T) {
	s := cultivation.NewState()
	before := s.LastKarmaChange()

	s.ModifyKarma(-300)
	assert.Equal(t, -300, s.Karma())
	assert.False(t, s.LastKarmaChange().Before(before),
		"karma mutation must stamp the change time")

	s.ModifyKarma(-900)
	assert.Equal(t, cultivation.KarmaMin, s.Karma(), "delta clamps at the floor")
}

// TestState_ConsumeQi verifies that insufficiency is a boolean outcome while a
// negative amount is a contract violation.
func TestState_ConsumeQi(t *testing.T) {
	s := cultivation.NewState()

	ok, err := s.ConsumeQi(40)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 60.0, s.CurrentQi())

	ok, err = s.ConsumeQi(100)
	require.NoError(t, err, "insufficient Qi is not an error")
	assert.False(t, ok, "insufficient Qi must report false")
	assert.Equal(t, 60.0, s.CurrentQi(), "failed consume must not change the pool")

	_, err = s.ConsumeQi(-1)
	require.ErrorIs(t, err, cultivation.ErrNegativeAmount,
		"negative consume must be rejected")
}

// TestState_AddQi verifies cap clamping and negative rejection.
func TestState_AddQi(t *testing.T) {
	s := cultivation.NewState()
	s.SetCurrentQi(90)

	require.NoError(t, s.AddQi(50))
	assert.Equal(t, 100.0, s.CurrentQi(), "restore clamps to the cap")

	err := s.AddQi(-5)
	require.ErrorIs(t, err, cultivation.ErrNegativeAmount)
}

// TestAddExperience_SubTierPromotion verifies one sub-stage promotion: +5 body
// strength, +50 max Qi, full restore, residual progress carried.
func TestAddExperience_SubTierPromotion(t *testing.T) {
	s := cultivation.NewState()
	s.SetCurrentQi(10)

	advanced, err := s.AddExperience(130)
	require.NoError(t, err)
	assert.True(t, advanced)

	assert.Equal(t, realm.SubTierMid, s.SubTier())
	assert.Equal(t, 30.0, s.SubTierProgress(), "residual progress must carry over")
	assert.Equal(t, 15, s.BodyStrength(), "sub-stage promotion grants +5 strength")
	assert.Equal(t, 150.0, s.MaxQi(), "sub-stage promotion grants +50 max Qi")
	assert.Equal(t, s.MaxQi(), s.CurrentQi(), "promotion fully restores Qi")
	assert.Equal(t, 130.0, s.TotalExp())
}

// TestAddExperience_MultiplePromotions verifies the promotion loop drains all
// accumulated progress in one call.
func TestAddExperience_MultiplePromotions(t *testing.T) {
	s := cultivation.NewState()

	advanced, err := s.AddExperience(350)
	require.NoError(t, err)
	assert.True(t, advanced)

	assert.Equal(t, realm.SubTierPeak, s.SubTier(), "350 exp is three sub-stage promotions")
	assert.Equal(t, 50.0, s.SubTierProgress())
	assert.Equal(t, 25, s.BodyStrength(), "three promotions grant +15 strength")
	assert.Equal(t, 250.0, s.MaxQi())
}

// TestAddExperience_TierPromotion verifies the realm boundary: +15 body
// strength, +200 max Qi, full restore, and residual progress discarded.
func TestAddExperience_TierPromotion(t *testing.T) {
	s := cultivation.NewState()
	s.SetSubTier(realm.SubTierPeak)
	s.SetSubTierProgress(95)
	s.SetBodyStrength(25)
	s.SetMaxQi(250)
	s.SetCurrentQi(30)

	advanced, err := s.AddExperience(10)
	require.NoError(t, err)
	assert.True(t, advanced)

	assert.Equal(t, realm.QiCondensation, s.Tier())
	assert.Equal(t, realm.SubTierEarly, s.SubTier(), "realm promotion resets the sub-stage")
	assert.Equal(t, 0.0, s.SubTierProgress(), "realm promotion discards residual progress")
	assert.Equal(t, 40, s.BodyStrength(), "realm promotion grants +15 strength")
	assert.Equal(t, 450.0, s.MaxQi(), "realm promotion grants +200 max Qi")
	assert.Equal(t, s.MaxQi(), s.CurrentQi())
}

// TestAddExperience_TerminalOvershoot verifies that a cultivator at Nascent
// Soul Peak accumulates progress past 100 without being promoted or clamped.
func TestAddExperience_TerminalOvershoot(t *testing.T) {
	s := cultivation.NewState()
	s.SetTier(realm.NascentSoul)
	s.SetSubTier(realm.SubTierPeak)
	s.SetSubTierProgress(95)

	advanced, err := s.AddExperience(9)
	require.NoError(t, err)
	assert.False(t, advanced, "nothing left to promote into")
	assert.Equal(t, 104.0, s.SubTierProgress(), "terminal overshoot is preserved, not clamped")
	assert.Equal(t, realm.NascentSoul, s.Tier())
	assert.Equal(t, realm.SubTierPeak, s.SubTier())
}

// TestAddExperience_NegativeRejected verifies the contract violation path.
func TestAddExperience_NegativeRejected(t *testing.T) {
	s := cultivation.NewState()
	_, err := s.AddExperience(-10)
	require.ErrorIs(t, err, cultivation.ErrNegativeAmount)
	assert.Equal(t, 0.0, s.TotalExp(), "rejected experience must not accrue")
}

// TestState_EquipUnequipRing verifies slot occupancy preconditions.
func TestState_EquipUnequipRing(t *testing.T) {
	s := cultivation.NewState()

	for i := 0; i < cultivation.MaxRingSlots; i++ {
		require.NoError(t, s.EquipRing(), "slot %d must be free", i)
	}
	assert.Equal(t, cultivation.MaxRingSlots, s.RingSlotsUsed())

	err := s.EquipRing()
	require.ErrorIs(t, err, cultivation.ErrNoRingSlots,
		"equipping past the flat cap must fail")
	assert.Equal(t, cultivation.MaxRingSlots, s.RingSlotsUsed(),
		"failed equip must not change occupancy")

	for i := 0; i < cultivation.MaxRingSlots; i++ {
		require.NoError(t, s.UnequipRing())
	}
	err = s.UnequipRing()
	require.ErrorIs(t, err, cultivation.ErrNoRingsEquipped,
		"unequipping with no rings must fail")
}

// TestState_Clone verifies that a clone is independent of the original.
func TestState_Clone(t *testing.T) {
	s := cultivation.NewState()
	c := s.Clone()

	_, err := c.AddExperience(150)
	require.NoError(t, err)

	assert.Equal(t, realm.SubTierEarly, s.SubTier(), "mutating the clone must not touch the original")
	assert.Equal(t, realm.SubTierMid, c.SubTier())
}

// TestState_Invariants_Property drives a State through arbitrary operation
// sequences and verifies that every structural invariant still holds.
func TestState_Invariants_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := cultivation.NewState()

		ops := rapid.SliceOfN(rapid.IntRange(0, 5), 1, 60).Draw(rt, "ops")
		for _, op := range ops {
			switch op {
			case 0:
				_, err := s.AddExperience(rapid.Float64Range(0, 500).Draw(rt, "exp"))
				require.NoError(rt, err)
			case 1:
				_, err := s.ConsumeQi(rapid.Float64Range(0, 2000).Draw(rt, "cost"))
				require.NoError(rt, err)
			case 2:
				require.NoError(rt, s.AddQi(rapid.Float64Range(0, 500).Draw(rt, "restore")))
			case 3:
				s.ModifyKarma(rapid.IntRange(-500, 500).Draw(rt, "karma"))
			case 4:
				_ = s.EquipRing()
			case 5:
				_ = s.UnequipRing()
			}
		}

		assert.GreaterOrEqual(rt, s.CurrentQi(), 0.0, "Qi must never be negative")
		assert.LessOrEqual(rt, s.CurrentQi(), s.MaxQi(), "Qi must never exceed the cap")
		assert.GreaterOrEqual(rt, s.MaxQi(), cultivation.MinMaxQi, "Qi cap must hold its floor")
		assert.True(rt, s.Tier().Valid(), "tier must stay valid")
		assert.True(rt, s.SubTier().Valid(), "sub-tier must stay valid")
		assert.GreaterOrEqual(rt, s.SubTierProgress(), 0.0)
		if s.Tier() != realm.NascentSoul || s.SubTier() != realm.SubTierPeak {
			assert.Less(rt, s.SubTierProgress(), 100.0,
				"non-terminal progress must stay below the promotion threshold")
		}
		assert.GreaterOrEqual(rt, s.Karma(), cultivation.KarmaMin)
		assert.LessOrEqual(rt, s.Karma(), cultivation.KarmaMax)
		assert.GreaterOrEqual(rt, s.RingSlotsUsed(), 0)
		assert.LessOrEqual(rt, s.RingSlotsUsed(), cultivation.MaxRingSlots)
		assert.GreaterOrEqual(rt, s.TotalExp(), 0.0, "total experience never decreases below zero")
	})
}
