package subsector

// Project produces the player-safe variant of the subsector: a deep
// copy with every GM-only narrative field blanked and the variant
// marker restamped. The source is never touched, UWP data, trade
// codes, and faction structure all survive, and projecting an already
// projected document changes nothing further.
func Project(s *Subsector) *Subsector {
	safe := s.Clone()
	safe.Variant = VariantPlayerSafe
	for _, w := range safe.Worlds {
		w.Culture = ""
		w.WorldTags = nil
		w.Notes = ""
	}
	return safe
}
