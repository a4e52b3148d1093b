// Package cultivation implements the per-character cultivation progression
// core: the mutable state record, the pure rule engine operating on it, and
// the service that sequences both for the host simulation loop.
package cultivation

import (
	"errors"
	"fmt"
	"time"

	"github.com/daasheo/immortalworld/internal/game/realm"
)

// MinMaxQi is the floor for the maximum Qi pool.
const MinMaxQi = 100.0

// MaxRingSlots is the flat cap on equipped spirit rings, independent of realm.
const MaxRingSlots = 6

// KarmaMin and KarmaMax bound the karma score.
const (
	KarmaMin = -1000
	KarmaMax = 1000
)

// MaxTalent is the upper bound of the talent stat.
const MaxTalent = 100

// ErrNegativeAmount is returned when a delta that must be non-negative is
// negative. Negative deltas are caller bugs, never silently coerced.
var ErrNegativeAmount = errors.New("amount must not be negative")

// ErrNoRingSlots is returned when equipping a ring with every slot occupied.
var ErrNoRingSlots = errors.New("no ring slots available")

// ErrNoRingsEquipped is returned when unequipping a ring with none equipped.
var ErrNoRingsEquipped = errors.New("no rings equipped")

// RestState is the explicit meditation state of a cultivator. Resting is a
// direct state transition made by the service, not a timestamp heuristic.
type RestState int

const (
	// RestIdle means the cultivator is not meditating.
	RestIdle RestState = iota
	// RestActive means a meditation session is in progress.
	RestActive
)

// String returns the display label for the rest state.
func (r RestState) String() string {
	if r == RestActive {
		return "resting"
	}
	return "idle"
}

// State is the complete cultivation progression record for one character.
// It is owned exclusively by that character; the host guarantees at most one
// in-flight mutation per character per tick, so State carries no lock.
//
// Invariant: 0 <= currentQi <= maxQi; maxQi >= MinMaxQi.
// Invariant: tier and subTier are always valid realm values.
// Invariant: 0 <= subTierProgress, and <= 100 except at the terminal
// realm position where overshoot is allowed to accumulate (see AddExperience).
// Invariant: KarmaMin <= karma <= KarmaMax; 0 <= talent <= MaxTalent.
// Invariant: 0 <= ringSlotsUsed <= MaxRingSlots.
type State struct {
	currentQi float64
	maxQi     float64

	tier            realm.Tier
	subTier         realm.SubTier
	subTierProgress float64
	totalExp        float64

	bodyStrength   int
	spiritualSense int
	constitution   int
	talent         int

	ringSlotsUsed int

	karma           int
	lastKarmaChange time.Time

	restState        RestState
	restStartedAt    time.Time
	dailyRestSeconds float64
	lastRestTick     time.Time

	tribulationsCompleted int

	now func() time.Time
}

// NewState returns a fresh Mortal-realm state with the starting attributes:
// a full 100-point Qi pool, all core stats at 10, and talent 50.
//
// Postcondition: all State invariants hold.
func NewState() *State {
	now := time.Now
	return &State{
		currentQi:       100,
		maxQi:           100,
		tier:            realm.Mortal,
		subTier:         realm.SubTierEarly,
		bodyStrength:    10,
		spiritualSense:  10,
		constitution:    10,
		talent:          50,
		karma:           0,
		lastKarmaChange: now(),
		restState:       RestIdle,
		now:             now,
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// CurrentQi returns the current Qi pool level.
func (s *State) CurrentQi() float64 { return s.currentQi }

// MaxQi returns the Qi pool cap.
func (s *State) MaxQi() float64 { return s.maxQi }

// Tier returns the current realm tier.
func (s *State) Tier() realm.Tier { return s.tier }

// SubTier returns the current sub-stage within the realm.
func (s *State) SubTier() realm.SubTier { return s.subTier }

// SubTierProgress returns the progress toward the next sub-stage in percent.
func (s *State) SubTierProgress() float64 { return s.subTierProgress }

// TotalExp returns the accumulated spiritual experience. Monotonically
// non-decreasing over the life of the state.
func (s *State) TotalExp() float64 { return s.totalExp }

// BodyStrength returns the body strength stat.
func (s *State) BodyStrength() int { return s.bodyStrength }

// SpiritualSense returns the spiritual sense stat.
func (s *State) SpiritualSense() int { return s.spiritualSense }

// Constitution returns the constitution stat.
func (s *State) Constitution() int { return s.constitution }

// Talent returns the talent stat in [0, MaxTalent].
func (s *State) Talent() int { return s.talent }

// RingSlotsUsed returns the number of occupied ring slots.
func (s *State) RingSlotsUsed() int { return s.ringSlotsUsed }

// Karma returns the karma score in [KarmaMin, KarmaMax].
func (s *State) Karma() int { return s.karma }

// LastKarmaChange returns the time of the most recent karma mutation.
func (s *State) LastKarmaChange() time.Time { return s.lastKarmaChange }

// RestState returns the explicit meditation state.
func (s *State) RestState() RestState { return s.restState }

// RestStartedAt returns when the current meditation session began.
// Zero when idle.
func (s *State) RestStartedAt() time.Time { return s.restStartedAt }

// DailyRestSeconds returns the meditation time accrued today, in seconds.
func (s *State) DailyRestSeconds() float64 { return s.dailyRestSeconds }

// LastRestTick returns the time of the most recent rest-time accrual.
func (s *State) LastRestTick() time.Time { return s.lastRestTick }

// TribulationsCompleted returns the number of tribulations survived.
func (s *State) TribulationsCompleted() int { return s.tribulationsCompleted }

// IsResting reports whether a meditation session is in progress. This is a
// direct query of the explicit rest state, not a timestamp-window heuristic.
func (s *State) IsResting() bool {
	return s.restState == RestActive
}

// QiPercentage returns the current Qi as a fraction of the cap in [0, 1].
func (s *State) QiPercentage() float64 {
	if s.maxQi <= 0 {
		return 0
	}
	return s.currentQi / s.maxQi
}

// NextTier returns the realm after the current one, or false at Nascent Soul.
func (s *State) NextTier() (realm.Tier, bool) {
	return s.tier.Next()
}

// IsAtMaxRealm reports whether the cultivator holds the final realm.
func (s *State) IsAtMaxRealm() bool {
	return s.tier >= realm.NascentSoul
}

// The setters below follow the clamp-on-invalid policy: state reconstructed
// from persisted data must never enter an invalid form, so range-bounded
// values are silently normalized. Only programmatic misuse (negative deltas
// passed to the mutating operations further down) is surfaced as an error.

// SetCurrentQi sets the Qi pool, clamped to [0, maxQi].
func (s *State) SetCurrentQi(v float64) {
	s.currentQi = clampFloat(v, 0, s.maxQi)
}

// SetMaxQi sets the Qi cap, floored at MinMaxQi. CurrentQi is re-clamped so
// the pool never exceeds the new cap.
func (s *State) SetMaxQi(v float64) {
	if v < MinMaxQi {
		v = MinMaxQi
	}
	s.maxQi = v
	if s.currentQi > s.maxQi {
		s.currentQi = s.maxQi
	}
}

// SetTier sets the realm tier, clamped into the defined range.
func (s *State) SetTier(t realm.Tier) {
	if t < realm.Mortal {
		t = realm.Mortal
	}
	if t > realm.NascentSoul {
		t = realm.NascentSoul
	}
	s.tier = t
}

// SetSubTier sets the sub-stage, clamped into the defined range.
func (s *State) SetSubTier(sub realm.SubTier) {
	if sub < realm.SubTierEarly {
		sub = realm.SubTierEarly
	}
	if sub > realm.SubTierPeak {
		sub = realm.SubTierPeak
	}
	s.subTier = sub
}

// SetSubTierProgress sets the sub-stage progress, clamped to [0, 100].
func (s *State) SetSubTierProgress(v float64) {
	s.subTierProgress = clampFloat(v, 0, 100)
}

// SetTotalExp sets the accumulated experience, floored at zero.
func (s *State) SetTotalExp(v float64) {
	if v < 0 {
		v = 0
	}
	s.totalExp = v
}

// SetBodyStrength sets body strength, floored at zero.
func (s *State) SetBodyStrength(v int) { s.bodyStrength = maxInt(0, v) }

// SetSpiritualSense sets spiritual sense, floored at zero.
func (s *State) SetSpiritualSense(v int) { s.spiritualSense = maxInt(0, v) }

// SetConstitution sets constitution, floored at zero.
func (s *State) SetConstitution(v int) { s.constitution = maxInt(0, v) }

// SetTalent sets talent, clamped to [0, MaxTalent].
func (s *State) SetTalent(v int) { s.talent = clampInt(v, 0, MaxTalent) }

// SetRingSlotsUsed sets the occupied ring slot count, clamped to
// [0, MaxRingSlots].
func (s *State) SetRingSlotsUsed(v int) {
	s.ringSlotsUsed = clampInt(v, 0, MaxRingSlots)
}

// SetKarma sets the karma score, clamped to [KarmaMin, KarmaMax], and stamps
// the karma-change time.
func (s *State) SetKarma(v int) {
	s.karma = clampInt(v, KarmaMin, KarmaMax)
	s.lastKarmaChange = s.now()
}

// ModifyKarma adjusts karma by delta (which may be negative) with the same
// clamping as SetKarma.
func (s *State) ModifyKarma(delta int) {
	s.SetKarma(s.karma + delta)
}

// SetDailyRestSeconds sets the accrued daily rest time, floored at zero.
func (s *State) SetDailyRestSeconds(v float64) {
	if v < 0 {
		v = 0
	}
	s.dailyRestSeconds = v
}

// SetTribulationsCompleted sets the tribulation count, floored at zero.
func (s *State) SetTribulationsCompleted(v int) {
	s.tribulationsCompleted = maxInt(0, v)
}

// ConsumeQi attempts to spend amount of Qi. Insufficient Qi is a normal
// boolean outcome gameplay code must check, not an error; a negative amount
// is a contract violation.
//
// Postcondition: on true, currentQi is reduced by amount; on false the state
// is unchanged.
func (s *State) ConsumeQi(amount float64) (bool, error) {
	if amount < 0 {
		return false, fmt.Errorf("consuming qi: %w", ErrNegativeAmount)
	}
	if s.currentQi < amount {
		return false, nil
	}
	s.currentQi -= amount
	return true, nil
}

// AddQi restores amount of Qi, clamped to the cap. A negative amount is a
// contract violation.
func (s *State) AddQi(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("adding qi: %w", ErrNegativeAmount)
	}
	s.currentQi = minFloat(s.currentQi+amount, s.maxQi)
	return nil
}

// AddExperience accrues spiritual experience and resolves any resulting
// sub-tier or tier promotions. Each 100 points of sub-tier progress promotes
// one step:
//
//   - sub-tier promotion: +5 body strength, +50 max Qi, full Qi restore;
//     residual progress beyond 100 carries into the new sub-stage.
//   - tier promotion (from Peak): +15 body strength, +200 max Qi, full Qi
//     restore; residual progress is discarded.
//
// At the terminal position (Nascent Soul, Peak) the loop stops and the
// overshoot is left in subTierProgress uncorrected. This reproduces the
// long-standing save-format behavior; clamping it would silently rewrite
// progress values in existing saves.
//
// Postcondition: returns true iff at least one promotion occurred.
func (s *State) AddExperience(amount float64) (bool, error) {
	if amount < 0 {
		return false, fmt.Errorf("adding experience: %w", ErrNegativeAmount)
	}

	s.totalExp += amount
	s.subTierProgress += amount

	advanced := false
	for s.subTierProgress >= 100 {
		switch {
		case s.subTier < realm.SubTierPeak:
			s.subTier++
			s.subTierProgress -= 100
			s.bodyStrength += 5
			s.maxQi += 50
			s.currentQi = s.maxQi
			advanced = true
		case s.tier < realm.NascentSoul:
			s.tier++
			s.subTier = realm.SubTierEarly
			s.subTierProgress = 0
			s.bodyStrength += 15
			s.maxQi += 200
			s.currentQi = s.maxQi
			advanced = true
		default:
			// Terminal realm position: nothing left to promote into.
			return advanced, nil
		}
	}
	return advanced, nil
}

// CanEquipRing reports whether a free ring slot exists under the flat cap.
// The realm-specific slot cap is the engine's stricter CanEquipRing gate.
func (s *State) CanEquipRing() bool {
	return s.ringSlotsUsed < MaxRingSlots
}

// EquipRing occupies one ring slot. Equipping past the flat cap is a
// precondition failure, not a clamp.
func (s *State) EquipRing() error {
	if !s.CanEquipRing() {
		return ErrNoRingSlots
	}
	s.ringSlotsUsed++
	return nil
}

// UnequipRing frees one ring slot. Unequipping below zero is a precondition
// failure, not a clamp.
func (s *State) UnequipRing() error {
	if s.ringSlotsUsed <= 0 {
		return ErrNoRingsEquipped
	}
	s.ringSlotsUsed--
	return nil
}

// beginRest transitions to the active meditation state.
func (s *State) beginRest() {
	s.restState = RestActive
	s.restStartedAt = s.now()
}

// accrueRestTime adds seconds of meditation time, stamps the rest tick, and
// returns to the idle state.
func (s *State) accrueRestTime(seconds float64) {
	s.dailyRestSeconds += seconds
	s.lastRestTick = s.now()
	s.restState = RestIdle
	s.restStartedAt = time.Time{}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
