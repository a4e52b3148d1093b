package realm

// Info is the immutable configuration for a single realm tier.
type Info struct {
	// Name is the display name of the realm.
	Name string
	// ExpRequired is the experience cost to enter the next realm from this one.
	ExpRequired float64
	// BaseMaxQi is the base maximum Qi granted by this realm.
	BaseMaxQi float64
	// BodyStrengthBonus is the flat body strength granted on entering this realm.
	BodyStrengthBonus int
	// DefenseBonus is the flat defense power granted on entering this realm.
	DefenseBonus int
	// AttackBonus is the flat attack power granted on entering this realm.
	AttackBonus int
	// UnlockedAbility is the opaque ability tag unlocked at this realm.
	UnlockedAbility string
	// MaxRingSlots is the number of spirit rings equippable at this realm.
	MaxRingSlots int
	// MaxRingLevel is the highest ring level equippable at this realm.
	MaxRingLevel int
	// RequiredBodyStrength is the body strength needed to hold this realm.
	RequiredBodyStrength int
}

// table is indexed by Tier ordinal. The fixed array length guarantees at
// compile time that every tier has an entry; there is no missing-key path.
var table = [TierCount]Info{
	Mortal: {
		Name:                 "Mortal",
		ExpRequired:          0,
		BaseMaxQi:            100,
		BodyStrengthBonus:    10,
		DefenseBonus:         0,
		AttackBonus:          0,
		UnlockedAbility:      "none",
		MaxRingSlots:         0,
		MaxRingLevel:         0,
		RequiredBodyStrength: 0,
	},
	QiCondensation: {
		Name:                 "Qi Condensation",
		ExpRequired:          1000,
		BaseMaxQi:            200,
		BodyStrengthBonus:    25,
		DefenseBonus:         5,
		AttackBonus:          5,
		UnlockedAbility:      "meditate",
		MaxRingSlots:         1,
		MaxRingLevel:         10,
		RequiredBodyStrength: 20,
	},
	Foundation: {
		Name:                 "Foundation Establishment",
		ExpRequired:          5000,
		BaseMaxQi:            400,
		BodyStrengthBonus:    50,
		DefenseBonus:         10,
		AttackBonus:          10,
		UnlockedAbility:      "qi_pulse",
		MaxRingSlots:         2,
		MaxRingLevel:         25,
		RequiredBodyStrength: 50,
	},
	GoldenCore: {
		Name:                 "Golden Core",
		ExpRequired:          25000,
		BaseMaxQi:            800,
		BodyStrengthBonus:    100,
		DefenseBonus:         20,
		AttackBonus:          20,
		UnlockedAbility:      "elemental_domain",
		MaxRingSlots:         3,
		MaxRingLevel:         50,
		RequiredBodyStrength: 100,
	},
	NascentSoul: {
		Name:                 "Nascent Soul",
		ExpRequired:          100000,
		BaseMaxQi:            1600,
		BodyStrengthBonus:    200,
		DefenseBonus:         40,
		AttackBonus:          40,
		UnlockedAbility:      "supreme_techniques",
		MaxRingSlots:         4,
		MaxRingLevel:         100,
		RequiredBodyStrength: 200,
	},
}

// subTierQiMultipliers scales a realm's base Qi by sub-stage. Only three
// multipliers are defined; Peak reuses the Late multiplier of 1.0.
var subTierQiMultipliers = [3]float64{0.33, 0.66, 1.0}

// InfoOf returns the configuration for the given tier.
//
// Precondition: t must be a valid Tier; invalid ordinals must be rejected at
// the decode boundary with TierFromOrdinal before reaching this call.
func InfoOf(t Tier) Info {
	if !t.Valid() {
		panic("realm.InfoOf: invalid tier")
	}
	return table[t]
}

// TotalExpRequired returns the cumulative experience needed to reach t from
// Mortal: the sum of ExpRequired of every tier strictly before t.
//
// Postcondition: Returns 0 for Mortal; strictly increasing in t.
func TotalExpRequired(t Tier) float64 {
	total := 0.0
	for prev := Mortal; prev < t; prev++ {
		total += InfoOf(prev).ExpRequired
	}
	return total
}

// MaxQiForSubTier returns the Qi cap for a tier at the given sub-stage:
// BaseMaxQi scaled by 0.33 (Early), 0.66 (Mid), or 1.0 (Late and Peak).
// Out-of-range sub-tier indices clamp into the multiplier table.
func MaxQiForSubTier(t Tier, sub SubTier) float64 {
	idx := int(sub)
	if idx < 0 {
		idx = 0
	}
	if idx > 2 {
		idx = 2
	}
	return InfoOf(t).BaseMaxQi * subTierQiMultipliers[idx]
}

// MaxRingSlots returns the ring slot cap for the tier.
func MaxRingSlots(t Tier) int {
	return InfoOf(t).MaxRingSlots
}

// MaxRingLevel returns the highest equippable ring level for the tier.
func MaxRingLevel(t Tier) int {
	return InfoOf(t).MaxRingLevel
}

// RequiredBodyStrength returns the body strength needed to hold the tier.
func RequiredBodyStrength(t Tier) int {
	return InfoOf(t).RequiredBodyStrength
}

// DifficultyMultiplier returns the combat difficulty scaling for the tier:
// 1 + ordinal*0.5.
//
// Postcondition: Returns a value in [1.0, 3.0].
func DifficultyMultiplier(t Tier) float64 {
	return 1.0 + float64(t)*0.5
}
