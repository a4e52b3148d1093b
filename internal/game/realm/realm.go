// Package realm defines the cultivation realm ladder: the five ordered
// advancement tiers, the four sub-stages within each tier, and the static
// configuration table that drives advancement costs and stat bonuses.
package realm

import "fmt"

// Tier is one of the five ordered cultivation realms. The ordering is
// load-bearing: every advancement formula indexes the table by ordinal.
type Tier int

const (
	// Mortal is the starting realm for all cultivators.
	Mortal Tier = iota
	// QiCondensation is the first cultivation realm; unlocks meditation.
	QiCondensation
	// Foundation is the Foundation Establishment realm.
	Foundation
	// GoldenCore is the Golden Core realm.
	GoldenCore
	// NascentSoul is the final realm. Cultivators here can no longer meditate.
	NascentSoul
)

// TierCount is the number of realm tiers.
const TierCount = 5

// Valid reports whether t is one of the five defined tiers.
func (t Tier) Valid() bool {
	return t >= Mortal && t <= NascentSoul
}

// String returns the display name of the tier.
//
// Precondition: t must be a valid Tier.
func (t Tier) String() string {
	return InfoOf(t).Name
}

// Next returns the tier after t, or false if t is the final realm.
func (t Tier) Next() (Tier, bool) {
	if t >= NascentSoul {
		return NascentSoul, false
	}
	return t + 1, true
}

// TierFromOrdinal converts a stored ordinal into a Tier, failing fast on
// out-of-range values rather than substituting a default. Persisted data
// carrying an unknown ordinal is a corruption signal, not a Mortal.
//
// Postcondition: Returns a valid Tier or a non-nil error.
func TierFromOrdinal(n int) (Tier, error) {
	t := Tier(n)
	if !t.Valid() {
		return 0, fmt.Errorf("realm tier ordinal %d out of range [0,%d]", n, TierCount-1)
	}
	return t, nil
}

// SubTier is one of the four sub-stages within a realm tier.
type SubTier int

const (
	// SubTierEarly is the first sub-stage of a realm.
	SubTierEarly SubTier = iota
	// SubTierMid is the second sub-stage.
	SubTierMid
	// SubTierLate is the third sub-stage.
	SubTierLate
	// SubTierPeak is the final sub-stage; completing it promotes the tier.
	SubTierPeak
)

// SubTierCount is the number of sub-stages per realm tier.
const SubTierCount = 4

// Valid reports whether s is one of the four defined sub-tiers.
func (s SubTier) Valid() bool {
	return s >= SubTierEarly && s <= SubTierPeak
}

// String returns the display label for the sub-tier.
func (s SubTier) String() string {
	switch s {
	case SubTierEarly:
		return "EARLY"
	case SubTierMid:
		return "MID"
	case SubTierLate:
		return "LATE"
	case SubTierPeak:
		return "PEAK"
	default:
		return fmt.Sprintf("SubTier(%d)", int(s))
	}
}

// SubTierFromIndex converts a stored index into a SubTier, failing fast on
// out-of-range values.
//
// Postcondition: Returns a valid SubTier or a non-nil error.
func SubTierFromIndex(n int) (SubTier, error) {
	s := SubTier(n)
	if !s.Valid() {
		return 0, fmt.Errorf("sub-tier index %d out of range [0,%d]", n, SubTierCount-1)
	}
	return s, nil
}
