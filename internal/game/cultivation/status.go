package cultivation

import "fmt"

// StatusSummary renders the multi-line status text shown to players. The
// field order and labels match the established save/UI text and must not be
// reordered without a client change.
func StatusSummary(s *State) string {
	return fmt.Sprintf(
		"Realm: %s %s (%.1f%%)\n"+
			"Qi: %.1f/%.1f (%.1f%%)\n"+
			"Total EXP: %.1f\n"+
			"Stats: STR=%d, SNS=%d, CON=%d, TAL=%d\n"+
			"Karma: %d | Rings: %d/6 | Tribulations: %d",
		s.Tier().String(),
		s.SubTier().String(),
		s.SubTierProgress(),
		s.CurrentQi(),
		s.MaxQi(),
		s.QiPercentage()*100,
		s.TotalExp(),
		s.BodyStrength(),
		s.SpiritualSense(),
		s.Constitution(),
		s.Talent(),
		s.Karma(),
		s.RingSlotsUsed(),
		s.TribulationsCompleted(),
	)
}
