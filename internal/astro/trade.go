package astro

// Trade codes and the predicates that define them.

const (
	TradeAg TradeCode = "Ag" // Agricultural
	TradeAs TradeCode = "As" // Asteroid
	TradeBa TradeCode = "Ba" // Barren
	TradeDe TradeCode = "De" // Desert
	TradeFl TradeCode = "Fl" // Fluid Oceans
	TradeGa TradeCode = "Ga" // Garden
	TradeHi TradeCode = "Hi" // High Population
	TradeHt TradeCode = "Ht" // High Tech
	TradeIc TradeCode = "Ic" // Ice-Capped
	TradeIn TradeCode = "In" // Industrial
	TradeLo TradeCode = "Lo" // Low Population
	TradeLt TradeCode = "Lt" // Low Tech
	TradeNa TradeCode = "Na" // Non-Agricultural
	TradeNi TradeCode = "Ni" // Non-Industrial
	TradePo TradeCode = "Po" // Poor
	TradeRi TradeCode = "Ri" // Rich
	TradeVa TradeCode = "Va" // Vacuum
	TradeWa TradeCode = "Wa" // Water World
)

// TradeCodeNames maps each code to its long-form name.
var TradeCodeNames = map[TradeCode]string{
	TradeAg: "Agricultural",
	TradeAs: "Asteroid",
	TradeBa: "Barren",
	TradeDe: "Desert",
	TradeFl: "Fluid Oceans",
	TradeGa: "Garden",
	TradeHi: "High Population",
	TradeHt: "High Tech",
	TradeIc: "Ice-Capped",
	TradeIn: "Industrial",
	TradeLo: "Low Population",
	TradeLt: "Low Tech",
	TradeNa: "Non-Agricultural",
	TradeNi: "Non-Industrial",
	TradePo: "Poor",
	TradeRi: "Rich",
	TradeVa: "Vacuum",
	TradeWa: "Water World",
}

type tradeRule struct {
	Code    TradeCode
	Applies func(*World) bool
}

func between(v, lo, hi int) bool { return v >= lo && v <= hi }

func oneOf(v int, vals ...int) bool {
	for _, x := range vals {
		if v == x {
			return true
		}
	}
	return false
}

// tradeRules is the full predicate list, in canonical code order.
var tradeRules = []tradeRule{
	{TradeAg, func(w *World) bool {
		return between(w.Atmosphere, 4, 9) && between(w.Hydrographics, 4, 8) && between(w.Population, 5, 7)
	}},
	{TradeAs, func(w *World) bool {
		return w.Size == 0 && w.Atmosphere == 0 && w.Hydrographics == 0
	}},
	{TradeBa, func(w *World) bool {
		return w.Population == 0 && w.Government == 0 && w.LawLevel == 0
	}},
	{TradeDe, func(w *World) bool {
		return w.Atmosphere >= 2 && w.Hydrographics == 0
	}},
	{TradeFl, func(w *World) bool {
		return w.Atmosphere >= 10 && w.Hydrographics >= 1
	}},
	{TradeGa, func(w *World) bool {
		return oneOf(w.Atmosphere, 5, 6, 8) && between(w.Hydrographics, 4, 9) && between(w.Population, 4, 8)
	}},
	{TradeHi, func(w *World) bool { return w.Population >= 9 }},
	{TradeHt, func(w *World) bool { return w.TechLevel >= 12 }},
	{TradeIc, func(w *World) bool {
		return between(w.Atmosphere, 0, 1) && w.Hydrographics >= 1
	}},
	{TradeIn, func(w *World) bool {
		return (between(w.Atmosphere, 0, 2) || oneOf(w.Atmosphere, 4, 7, 9)) && w.Population >= 9
	}},
	{TradeLo, func(w *World) bool { return w.Population <= 3 }},
	{TradeLt, func(w *World) bool { return w.TechLevel <= 5 }},
	{TradeNa, func(w *World) bool {
		return between(w.Atmosphere, 0, 3) && between(w.Hydrographics, 0, 3) && w.Population >= 6
	}},
	{TradeNi, func(w *World) bool { return between(w.Population, 4, 6) }},
	{TradePo, func(w *World) bool {
		return between(w.Atmosphere, 2, 5) && w.Hydrographics <= 3
	}},
	{TradeRi, func(w *World) bool {
		return oneOf(w.Atmosphere, 6, 8) && between(w.Population, 6, 8)
	}},
	{TradeVa, func(w *World) bool { return w.Atmosphere == 0 }},
	{TradeWa, func(w *World) bool { return w.Hydrographics >= 10 }},
}

// Classify returns the trade codes whose predicates hold for the
// world's current UWP. Pure: no randomness, no mutation, and an empty
// result is a valid answer.
func Classify(w *World) []TradeCode {
	var codes []TradeCode
	for _, rule := range tradeRules {
		if rule.Applies(w) {
			codes = append(codes, rule.Code)
		}
	}
	return codes
}

// Reclassify recomputes the world's derived data in place: trade codes
// always, travel zone unless a red zone was set by hand. Every field
// edit must funnel through this so derived data never goes stale.
func Reclassify(w *World) {
	w.TradeCodes = Classify(w)
	if w.TravelZone != ZoneRed {
		w.TravelZone = deriveTravelZone(w)
	}
}

// deriveTravelZone flags hexes that merit an amber advisory: corrosive
// or worse atmospheres, lawless or extreme governments, and law levels
// at either end of the scale. Red zones are a GM call, never rolled.
func deriveTravelZone(w *World) TravelZone {
	if w.Atmosphere >= 10 {
		return ZoneAmber
	}
	if oneOf(w.Government, 0, 7, 10) {
		return ZoneAmber
	}
	if w.LawLevel == 0 || w.LawLevel >= 9 {
		return ZoneAmber
	}
	return ZoneNone
}
