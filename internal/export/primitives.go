// Package export renders subsector documents into shareable artifacts:
// an SVG hex map, markdown world sheets, and a CSV listing. The
// renderers consume pure display primitives derived from world data,
// so the mapping from rules to glyphs lives in one place.
package export

import (
	"fmt"

	"github.com/Absle/swt-gen/internal/astro"
	"github.com/Absle/swt-gen/internal/subsector"
)

// Zone ring colors.
const (
	amberZoneColor = "#e8a33d"
	redZoneColor   = "#d94f4f"
)

// WorldGlyphs is the display-primitive set for one occupied hex.
type WorldGlyphs struct {
	Hex       string // canonical CCRR label
	Name      string
	NameColor string // owning faction color, or "" for the default
	PortTech  string // e.g. "A-C": starport class and tech digit
	Profile   string
	Bases     string
	Wet       bool // worlds at hydrographics 4+ get the water glyph
	GasGiant  bool
	ZoneColor string // ring color, "" when no advisory applies
}

// GlyphsFor derives the primitives for a world. The faction color is
// the first claimant's, matching faction order.
func GlyphsFor(s *subsector.Subsector, c subsector.Coordinate) WorldGlyphs {
	w := s.World(c)
	g := WorldGlyphs{
		Hex:      c.String(),
		Name:     w.Name,
		PortTech: fmt.Sprintf("%s-%s", w.Starport, techDigit(w.TechLevel)),
		Profile:  w.Profile(),
		Bases:    w.BaseString(),
		Wet:      w.Hydrographics >= 4,
		GasGiant: w.HasGasGiant(),
	}
	switch w.TravelZone {
	case astro.ZoneAmber:
		g.ZoneColor = amberZoneColor
	case astro.ZoneRed:
		g.ZoneColor = redZoneColor
	}
	for _, f := range s.Factions {
		for _, claim := range f.Claims {
			if claim == c {
				g.NameColor = f.Color
				return g
			}
		}
	}
	return g
}

func techDigit(tl int) string {
	const digits = "0123456789ABCDEF"
	if tl < 0 || tl >= len(digits) {
		return "?"
	}
	return string(digits[tl])
}
