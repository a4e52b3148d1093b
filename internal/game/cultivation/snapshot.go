package cultivation

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/daasheo/immortalworld/internal/game/realm"
)

// RestGraceWindow is the legacy recency window: saves written before the
// explicit rest state existed only stamped LastMeditationTick, and a tick
// within this window meant "resting". Kept solely for decoding old saves.
const RestGraceWindow = 5 * time.Second

// Snapshot is the named-field wire form of a State. Keys are stable strings
// carried over from the original save format; readers tolerate missing and
// unknown keys so the field set can evolve in both directions. Timestamps
// are unix milliseconds.
//
// RestingSince is a later addition (0 = not resting); old saves lack it and
// fall back to the LastMeditationTick recency heuristic on decode.
type Snapshot struct {
	CurrentQi             float64 `yaml:"CurrentQi"`
	MaxQi                 float64 `yaml:"MaxQi"`
	RealmTier             int     `yaml:"RealmTier"`
	Subrealm              int     `yaml:"Subrealm"`
	SubrealmProgress      float64 `yaml:"SubrealmProgress"`
	TotalSpiritualExp     float64 `yaml:"TotalSpiritualExp"`
	BodyStrength          int     `yaml:"BodyStrength"`
	SpiritualSense        int     `yaml:"SpiritualSense"`
	Constitution          int     `yaml:"Constitution"`
	Talent                int     `yaml:"Talent"`
	RingSlotsUsed         int     `yaml:"RingSlotsUsed"`
	Karma                 int     `yaml:"Karma"`
	LastKarmaModification int64   `yaml:"LastKarmaModification"`
	MeditationTimeToday   float64 `yaml:"MeditationTimeToday"`
	LastMeditationTick    int64   `yaml:"LastMeditationTick"`
	TribulationsCompleted int     `yaml:"TribulationsCompleted"`
	RestingSince          int64   `yaml:"RestingSince,omitempty"`
}

// Snapshot captures the state as a named-field record.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		CurrentQi:             s.currentQi,
		MaxQi:                 s.maxQi,
		RealmTier:             int(s.tier),
		Subrealm:              int(s.subTier),
		SubrealmProgress:      s.subTierProgress,
		TotalSpiritualExp:     s.totalExp,
		BodyStrength:          s.bodyStrength,
		SpiritualSense:        s.spiritualSense,
		Constitution:          s.constitution,
		Talent:                s.talent,
		RingSlotsUsed:         s.ringSlotsUsed,
		Karma:                 s.karma,
		LastKarmaModification: timeToMillis(s.lastKarmaChange),
		MeditationTimeToday:   s.dailyRestSeconds,
		LastMeditationTick:    timeToMillis(s.lastRestTick),
		TribulationsCompleted: s.tribulationsCompleted,
	}
	if s.restState == RestActive {
		snap.RestingSince = timeToMillis(s.restStartedAt)
	}
	return snap
}

// FromSnapshot reconstructs a State from a named-field record. Range-bounded
// fields pass through the clamping setters so a stale or corrupted save can
// never produce an invalid state; realm ordinals are the one exception and
// fail fast rather than defaulting.
//
// Sub-tier progress above 100 survives the round trip only at the terminal
// realm position, where it is legitimate overshoot; everywhere else it clamps.
//
// Postcondition: Returns a State satisfying all invariants, or a non-nil error.
func FromSnapshot(snap Snapshot) (*State, error) {
	tier, err := realm.TierFromOrdinal(snap.RealmTier)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	sub, err := realm.SubTierFromIndex(snap.Subrealm)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	s := NewState()
	s.tier = tier
	s.subTier = sub
	s.SetMaxQi(snap.MaxQi)
	s.SetCurrentQi(snap.CurrentQi)
	if tier == realm.NascentSoul && sub == realm.SubTierPeak && snap.SubrealmProgress > 100 {
		s.subTierProgress = snap.SubrealmProgress
	} else {
		s.SetSubTierProgress(snap.SubrealmProgress)
	}
	s.SetTotalExp(snap.TotalSpiritualExp)
	s.SetBodyStrength(snap.BodyStrength)
	s.SetSpiritualSense(snap.SpiritualSense)
	s.SetConstitution(snap.Constitution)
	s.SetTalent(snap.Talent)
	s.SetRingSlotsUsed(snap.RingSlotsUsed)
	s.karma = clampInt(snap.Karma, KarmaMin, KarmaMax)
	s.lastKarmaChange = millisToTime(snap.LastKarmaModification)
	s.SetDailyRestSeconds(snap.MeditationTimeToday)
	s.lastRestTick = millisToTime(snap.LastMeditationTick)
	s.SetTribulationsCompleted(snap.TribulationsCompleted)

	switch {
	case snap.RestingSince > 0:
		s.restState = RestActive
		s.restStartedAt = millisToTime(snap.RestingSince)
	case snap.LastMeditationTick > 0 && s.now().Sub(s.lastRestTick) < RestGraceWindow:
		// Legacy save without RestingSince: the old format signalled resting
		// through rest-tick recency.
		s.restState = RestActive
		s.restStartedAt = s.lastRestTick
	}

	return s, nil
}

// EncodeSnapshot serializes the state's named-field record.
func EncodeSnapshot(s *State) ([]byte, error) {
	data, err := yaml.Marshal(s.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot deserializes a named-field record and reconstructs the
// state. Unknown keys are ignored; missing keys decode to zero values and
// are normalized by the clamping setters.
func DecodeSnapshot(data []byte) (*State, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return FromSnapshot(snap)
}

func timeToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func millisToTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
