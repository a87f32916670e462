// Package astro implements the astrographic rules: the Universal World
// Profile derivation pipeline, the trade-code classifier, and the name
// generator. All dice tables live here as data so rule revisions touch
// tables, not control flow.
package astro

import (
	"fmt"
	"sort"
	"strings"
)

// Attribute bounds. Every pipeline step clamps into these; no field
// ever escapes its range, even through manual edits.
const (
	SizeMin = 0
	SizeMax = 10

	AtmosphereMax    = 15
	TemperatureMax   = 6
	HydrographicsMax = 10
	PopulationMax    = 12
	GovernmentMax    = 13
	LawLevelMax      = 15
	TechLevelMax     = 15
)

// StarportClass grades a world's primary landing facility, A (best)
// through E, with X marking no port at all.
type StarportClass string

const (
	StarportA StarportClass = "A"
	StarportB StarportClass = "B"
	StarportC StarportClass = "C"
	StarportD StarportClass = "D"
	StarportE StarportClass = "E"
	StarportX StarportClass = "X"
)

// Valid reports whether c is one of the six starport classes.
func (c StarportClass) Valid() bool {
	switch c {
	case StarportA, StarportB, StarportC, StarportD, StarportE, StarportX:
		return true
	}
	return false
}

// TravelZone is the advisory travel classification of a hex.
type TravelZone string

const (
	ZoneNone  TravelZone = ""
	ZoneAmber TravelZone = "amber"
	ZoneRed   TravelZone = "red"
)

// Valid reports whether z is a known travel zone.
func (z TravelZone) Valid() bool {
	return z == ZoneNone || z == ZoneAmber || z == ZoneRed
}

// TradeCode is a two-letter economic/environmental classification tag.
type TradeCode string

// World is one occupied hex: the UWP attribute set, derived data, and
// narrative fields. Empty hexes have no World at all.
type World struct {
	Name string `json:"name"`

	Starport      StarportClass `json:"starport"`
	Size          int           `json:"size"`
	Atmosphere    int           `json:"atmosphere"`
	Temperature   int           `json:"temperature"`
	Hydrographics int           `json:"hydrographics"`
	Population    int           `json:"population"`
	Government    int           `json:"government"`
	LawLevel      int           `json:"law_level"`
	TechLevel     int           `json:"tech_level"`

	BerthingCost int `json:"berthing_cost"`
	GasGiants    int `json:"gas_giants"`
	Belts        int `json:"belts"`

	HasNavalBase    bool `json:"has_naval_base"`
	HasScoutBase    bool `json:"has_scout_base"`
	HasResearchBase bool `json:"has_research_base"`
	HasTAS          bool `json:"has_tas"`
	HasPirateBase   bool `json:"has_pirate_base"`

	TravelZone TravelZone  `json:"travel_zone,omitempty"`
	TradeCodes []TradeCode `json:"trade_codes,omitempty"`

	// GM-only narrative. The player-safe projector blanks these.
	Culture   string   `json:"culture,omitempty"`
	WorldTags []string `json:"world_tags,omitempty"`
	Notes     string   `json:"notes,omitempty"`

	// Player-visible description, kept by the projector.
	PlayerNotes string `json:"player_notes,omitempty"`
}

// HasGasGiant reports whether the system holds at least one gas giant.
func (w *World) HasGasGiant() bool {
	return w.GasGiants > 0
}

// Profile renders the canonical UWP string, e.g. "A867977-C".
// Size 0 small bodies render as "S".
func (w *World) Profile() string {
	size := "S"
	if w.Size > 0 {
		size = hexDigit(w.Size)
	}
	return fmt.Sprintf("%s%s%s%s%s%s%s-%s",
		w.Starport,
		size,
		hexDigit(w.Atmosphere),
		hexDigit(w.Hydrographics),
		hexDigit(w.Population),
		hexDigit(w.Government),
		hexDigit(w.LawLevel),
		hexDigit(w.TechLevel),
	)
}

// BaseString renders the base flags as a compact code string
// (N/R/S/T/P), or "-" when the world has none.
func (w *World) BaseString() string {
	var b strings.Builder
	if w.HasNavalBase {
		b.WriteByte('N')
	}
	if w.HasResearchBase {
		b.WriteByte('R')
	}
	if w.HasScoutBase {
		b.WriteByte('S')
	}
	if w.HasTAS {
		b.WriteByte('T')
	}
	if w.HasPirateBase {
		b.WriteByte('P')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// PBGString renders the population-multiplier/belts/gas-giants triple.
func (w *World) PBGString() string {
	return fmt.Sprintf("1%d%d", w.Belts, w.GasGiants)
}

// TradeCodeString joins the world's trade codes, or "-" when none apply.
func (w *World) TradeCodeString() string {
	if len(w.TradeCodes) == 0 {
		return "-"
	}
	parts := make([]string, len(w.TradeCodes))
	for i, c := range w.TradeCodes {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}

// HasTradeCode reports whether the code is present on the world.
func (w *World) HasTradeCode(code TradeCode) bool {
	for _, c := range w.TradeCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Importance computes the {Ix} importance extension from port, tech,
// trade codes, population, and bases.
func (w *World) Importance() int {
	importance := 0
	switch w.Starport {
	case StarportA, StarportB:
		importance++
	case StarportD, StarportE, StarportX:
		importance--
	}
	if w.TechLevel >= 10 {
		importance++
	}
	if w.TechLevel <= 8 {
		importance--
	}
	for _, code := range []TradeCode{TradeAg, TradeHi, TradeIn, TradeRi} {
		if w.HasTradeCode(code) {
			importance++
		}
	}
	if w.Population <= 6 {
		importance--
	}
	if w.HasNavalBase && w.HasScoutBase {
		importance++
	}
	return importance
}

// Clone returns a deep copy of the world.
func (w *World) Clone() *World {
	c := *w
	c.TradeCodes = append([]TradeCode(nil), w.TradeCodes...)
	c.WorldTags = append([]string(nil), w.WorldTags...)
	return &c
}

// Equal reports whether two worlds hold identical data, derived fields
// included.
func (w *World) Equal(other *World) bool {
	if w == nil || other == nil {
		return w == other
	}
	a, b := w.Clone(), other.Clone()
	sortTradeCodes(a.TradeCodes)
	sortTradeCodes(b.TradeCodes)
	return fmt.Sprintf("%+v", *a) == fmt.Sprintf("%+v", *b)
}

func sortTradeCodes(codes []TradeCode) {
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
}

func hexDigit(v int) string {
	const digits = "0123456789ABCDEF"
	if v < 0 || v >= len(digits) {
		return "?"
	}
	return string(digits[v])
}
