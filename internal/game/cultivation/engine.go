package cultivation

import (
	"fmt"
	"math"

	"github.com/daasheo/immortalworld/internal/game/realm"
)

// Tuning constants for the cultivation rule engine.
const (
	// MeditationBonusMultiplier scales Qi regeneration while resting.
	MeditationBonusMultiplier = 3.0
	// MeditationExpPer5Min is the base experience for five minutes of meditation.
	MeditationExpPer5Min = 50.0
	// MaxQiRegenPerSecond caps the regeneration rate regardless of stats.
	MaxQiRegenPerSecond = 50.0
	// MeditationMinQiFraction is the Qi fraction required to begin meditating.
	MeditationMinQiFraction = 0.1
)

// QiRegenPerSecond returns the Qi regeneration rate: constitution/10 per
// second, tripled while resting, capped at MaxQiRegenPerSecond.
//
// Postcondition: Returns a value in [0, MaxQiRegenPerSecond].
func QiRegenPerSecond(s *State) float64 {
	rate := float64(s.Constitution()) / 10.0
	if s.IsResting() {
		rate *= MeditationBonusMultiplier
	}
	return math.Min(rate, MaxQiRegenPerSecond)
}

// ApplyRegen advances Qi regeneration by dtSeconds of simulation time.
//
// Precondition: dtSeconds must be >= 0.
// Postcondition: currentQi increases by QiRegenPerSecond(s)*dtSeconds,
// clamped to maxQi.
func ApplyRegen(s *State, dtSeconds float64) error {
	if dtSeconds < 0 {
		return fmt.Errorf("applying regen: %w", ErrNegativeAmount)
	}
	return s.AddQi(QiRegenPerSecond(s) * dtSeconds)
}

// RegenerateQi applies an externally driven regeneration pulse, scaled by the
// cultivator's spiritual sense: base * multiplier * (1 + sense/100). Used by
// environment effects that bypass the per-tick constitution formula.
//
// Precondition: baseRegen and multiplier must be >= 0.
func RegenerateQi(s *State, baseRegen, multiplier float64) error {
	if baseRegen < 0 || multiplier < 0 {
		return fmt.Errorf("regenerating qi: %w", ErrNegativeAmount)
	}
	amount := baseRegen * multiplier * (1.0 + float64(s.SpiritualSense())/100.0)
	return s.AddQi(amount)
}

// MeditationExp returns the experience earned by a meditation session:
// 50 points per five minutes, scaled by (1 + spiritualSense/100) and the
// environment multiplier.
func MeditationExp(s *State, durationMinutes, envMultiplier float64) float64 {
	senseBonus := 1.0 + float64(s.SpiritualSense())/100.0
	baseExp := MeditationExpPer5Min * (durationMinutes / 5.0)
	return baseExp * senseBonus * envMultiplier
}

// KarmaAdvancementMultiplier returns the advancement difficulty scale implied
// by karma: 1.0 at zero or positive karma, dropping linearly to a floor of
// 0.1 at KarmaMin. Informational only; AddExperience does not apply it.
//
// Postcondition: Returns a value in [0.1, 1.0].
func KarmaAdvancementMultiplier(s *State) float64 {
	if s.Karma() >= 0 {
		return 1.0
	}
	return math.Max(0.1, 1.0-math.Abs(float64(s.Karma()))/1000.0)
}

// DamageBonus returns the melee damage multiplier from body strength:
// 1 + strength/100.
func DamageBonus(s *State) float64 {
	return 1.0 + float64(s.BodyStrength())/100.0
}

// DefenseReduction returns the incoming-damage reduction fraction from
// constitution: constitution/200, capped at 0.9.
//
// Postcondition: Returns a value in [0, 0.9].
func DefenseReduction(s *State) float64 {
	return math.Min(0.9, float64(s.Constitution())/200.0)
}

// CritChance returns the critical hit chance in percent: 2 per realm tier.
func CritChance(s *State) float64 {
	return float64(s.Tier()) * 2.0
}

// DodgeChance returns the dodge chance in percent: 1 per realm tier.
func DodgeChance(s *State) float64 {
	return float64(s.Tier()) * 1.0
}

// MaxQiForRealm returns the Qi capacity implied by realm and constitution:
// 100 + tier*50 + constitution*2. This is the capacity formula used when
// rebuilding a pool from scratch; the incremental promotion bonuses in
// AddExperience are authoritative for a live state.
func MaxQiForRealm(s *State) float64 {
	return MinMaxQi + float64(s.Tier())*50.0 + float64(s.Constitution())*2.0
}

// CanMeditate reports whether a meditation session may begin: Nascent Soul
// cultivators are beyond meditation, and the pool must hold at least 10% of
// its cap.
func CanMeditate(s *State) bool {
	if s.Tier() >= realm.NascentSoul {
		return false
	}
	return s.CurrentQi() >= s.MaxQi()*MeditationMinQiFraction
}

// CanAdvanceSubTier reports whether a manual sub-stage promotion is possible.
func CanAdvanceSubTier(s *State) bool {
	return s.SubTierProgress() >= 100 && s.SubTier() < realm.SubTierPeak
}

// CanAdvanceTier reports whether a manual realm promotion is possible.
func CanAdvanceTier(s *State) bool {
	return s.SubTier() >= realm.SubTierPeak && s.SubTierProgress() >= 100
}

// CanEquipRing reports whether another ring can be equipped, honoring both
// the flat slot cap and the realm's stricter slot allowance.
func CanEquipRing(s *State) bool {
	slots := realm.MaxRingSlots(s.Tier())
	if slots > MaxRingSlots {
		slots = MaxRingSlots
	}
	return s.RingSlotsUsed() < slots
}

// AdvanceSubTier performs a manual sub-stage promotion, resetting progress.
// Unlike the automatic promotion inside AddExperience it grants no stat
// bonuses; it exists for tribulation-style advancement events that award
// their bonuses separately.
//
// Postcondition: Returns false with no state change when the gate fails.
func AdvanceSubTier(s *State) bool {
	if !CanAdvanceSubTier(s) {
		return false
	}
	s.SetSubTier(s.SubTier() + 1)
	s.SetSubTierProgress(0)
	return true
}

// AdvanceTier performs a manual realm promotion, resetting the sub-stage and
// progress.
//
// Postcondition: Returns false with no state change when the gate fails or
// the cultivator already holds the final realm.
func AdvanceTier(s *State) bool {
	if !CanAdvanceTier(s) {
		return false
	}
	next, ok := s.Tier().Next()
	if !ok {
		return false
	}
	s.SetTier(next)
	s.SetSubTier(realm.SubTierEarly)
	s.SetSubTierProgress(0)
	return true
}
