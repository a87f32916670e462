package astro

import "github.com/Absle/swt-gen/internal/dice"

// The derivation pipeline. Each step rolls against the current partial
// profile, so attribute order matters and is fixed: size, atmosphere,
// temperature, hydrographics, population, government, law, starport,
// tech level, bases, travel zone, trade codes, belts, gas giants, then
// flavour. Steps that a prior result forecloses (airless small bodies,
// empty worlds) consume no rolls at all, which keeps stream positions
// stable across rule revisions.

// RollPresence decides whether a hex holds a world: 2d6 plus the
// subsector abundance modifier against a fixed threshold.
func RollPresence(r *dice.Roller, abundanceDM int) bool {
	return r.Roll(2, 6)+abundanceDM >= occupancyThreshold
}

// New rolls a complete world from the roller's stream. An empty name
// draws a generated one from the same stream before any attribute roll.
func New(r *dice.Roller, name string) *World {
	if name == "" {
		name = RandomName(r)
	}
	w := &World{Name: name}

	w.Size = r.Roll2D6(-2, SizeMin, SizeMax)

	if w.Size > 0 {
		w.Atmosphere = r.Roll2D6(w.Size-7, 0, AtmosphereMax)
	}

	w.Temperature = lookupDM(temperatureTable,
		r.Roll(2, 6)+lookupDM(tempAtmoDM, w.Atmosphere))

	if w.Size > 1 {
		w.Hydrographics = r.Roll2D6(lookupDM(hydroAtmoDM, w.Atmosphere)-7, 0, HydrographicsMax)
	}

	habDM := habitabilityDM(w.Size, w.Atmosphere, w.Hydrographics)
	w.Population = r.Roll2D6(-2+habDM, 0, PopulationMax)

	// Harsh-world population penalties are paid back before the
	// government roll; a hostile environment does not also imply a
	// heavier government.
	if w.Population > 0 {
		w.Government = r.Roll2D6((w.Population-habDM)-7, 0, GovernmentMax)
	}

	if w.Government > 0 {
		w.LawLevel = r.Roll2D6(w.Government-7, 0, LawLevelMax)
	}

	port := starportFor(r.Roll(2, 6) + (w.Population - 7))
	w.Starport = port.Class
	w.BerthingCost = r.D6() * port.BerthBase

	w.TechLevel = r.Roll2D6(techLevelDM(w), 0, TechLevelMax)

	w.rollBases(r)

	Reclassify(w)

	if r.Roll(2, 6) >= 4 || w.Size == 0 {
		w.Belts = max(1, r.D6()-3)
	}
	if r.Roll(2, 6) >= 5 {
		w.GasGiants = max(1, r.D6()-2)
	}

	w.Culture = rollD66Entry(r, cultureTable)
	w.WorldTags = []string{
		rollD66Entry(r, worldTagTable),
		rollD66Entry(r, worldTagTable),
	}

	return w
}

// RerollAttribute re-rolls one attribute of an existing world in
// place, reading the rest of the profile for its dice modifiers and
// honoring the same short-circuits as the full pipeline (an airless
// small body keeps atmosphere 0 no matter how often it is re-rolled).
// The caller reclassifies afterwards. Unknown attributes report false
// without consuming a roll.
func RerollAttribute(r *dice.Roller, w *World, attr string) bool {
	switch attr {
	case "name":
		w.Name = RandomName(r)
	case "size":
		w.Size = r.Roll2D6(-2, SizeMin, SizeMax)
		if w.Size == 0 {
			w.Atmosphere = 0
		}
		if w.Size <= 1 {
			w.Hydrographics = 0
		}
	case "atmosphere":
		w.Atmosphere = 0
		if w.Size > 0 {
			w.Atmosphere = r.Roll2D6(w.Size-7, 0, AtmosphereMax)
		}
	case "temperature":
		w.Temperature = lookupDM(temperatureTable,
			r.Roll(2, 6)+lookupDM(tempAtmoDM, w.Atmosphere))
	case "hydrographics":
		w.Hydrographics = 0
		if w.Size > 1 {
			w.Hydrographics = r.Roll2D6(lookupDM(hydroAtmoDM, w.Atmosphere)-7, 0, HydrographicsMax)
		}
	case "population":
		habDM := habitabilityDM(w.Size, w.Atmosphere, w.Hydrographics)
		w.Population = r.Roll2D6(-2+habDM, 0, PopulationMax)
	case "government":
		w.Government = 0
		if w.Population > 0 {
			habDM := habitabilityDM(w.Size, w.Atmosphere, w.Hydrographics)
			w.Government = r.Roll2D6((w.Population-habDM)-7, 0, GovernmentMax)
		}
	case "law_level":
		w.LawLevel = 0
		if w.Government > 0 {
			w.LawLevel = r.Roll2D6(w.Government-7, 0, LawLevelMax)
		}
	case "starport":
		port := starportFor(r.Roll(2, 6) + (w.Population - 7))
		w.Starport = port.Class
		w.BerthingCost = r.D6() * port.BerthBase
	case "tech_level":
		w.TechLevel = r.Roll2D6(techLevelDM(w), 0, TechLevelMax)
	case "culture":
		w.Culture = rollD66Entry(r, cultureTable)
	case "world_tags":
		w.WorldTags = []string{
			rollD66Entry(r, worldTagTable),
			rollD66Entry(r, worldTagTable),
		}
	default:
		return false
	}
	return true
}

func (w *World) rollBases(r *dice.Roller) {
	targets := baseTable[w.Starport]
	w.HasNavalBase = r.Roll(2, 6) >= targets.Naval
	w.HasScoutBase = r.Roll(2, 6) >= targets.Scout
	w.HasResearchBase = r.Roll(2, 6) >= targets.Research
	w.HasTAS = r.Roll(2, 6) >= targets.TAS
	if !w.HasNavalBase && w.Starport != StarportA {
		w.HasPirateBase = r.Roll(2, 6) >= pirateBaseTarget
	}
}
