package export

import (
	"fmt"
	"strings"

	"github.com/Absle/swt-gen/internal/astro"
	"github.com/Absle/swt-gen/internal/subsector"
)

// Markdown world sheets. The GM sheet carries everything; the
// player-facing document should be rendered from a projected subsector,
// which has already had the GM-only fields blanked.

// RenderMarkdown writes the whole subsector as a markdown document:
// a summary table, then one sheet per world in coordinate order.
func RenderMarkdown(s *subsector.Subsector) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Subsector\n\n", s.Name)
	if s.Variant == subsector.VariantPlayerSafe {
		b.WriteString("*Player reference copy.*\n\n")
	}

	b.WriteString("| Hex | Name | UWP | Bases | Codes | Zone | PBG |\n")
	b.WriteString("|-----|------|-----|-------|-------|------|-----|\n")
	for _, c := range s.Grid.Coordinates() {
		w := s.World(c)
		if w == nil {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			c, w.Name, w.Profile(), w.BaseString(), w.TradeCodeString(),
			zoneLabel(w.TravelZone), w.PBGString())
	}
	b.WriteString("\n")

	for _, c := range s.Grid.Coordinates() {
		w := s.World(c)
		if w == nil {
			continue
		}
		b.WriteString(worldSheet(c, w))
	}
	return b.String()
}

func worldSheet(c subsector.Coordinate, w *astro.World) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)\n\n", w.Name, c)
	fmt.Fprintf(&b, "**UWP** %s  \n", w.Profile())
	fmt.Fprintf(&b, "**Bases** %s · **Trade** %s · **Importance** %+d  \n",
		w.BaseString(), w.TradeCodeString(), w.Importance())
	fmt.Fprintf(&b, "**Berthing** Cr%d · **Belts** %d · **Gas giants** %d  \n",
		w.BerthingCost, w.Belts, w.GasGiants)
	if w.TravelZone != astro.ZoneNone {
		fmt.Fprintf(&b, "**Travel zone** %s  \n", zoneLabel(w.TravelZone))
	}
	if w.Culture != "" {
		fmt.Fprintf(&b, "**Culture** %s  \n", w.Culture)
	}
	if len(w.WorldTags) > 0 {
		fmt.Fprintf(&b, "**World tags** %s  \n", strings.Join(w.WorldTags, ", "))
	}
	if w.Notes != "" {
		fmt.Fprintf(&b, "\n%s\n", w.Notes)
	}
	if w.PlayerNotes != "" {
		fmt.Fprintf(&b, "\n%s\n", w.PlayerNotes)
	}
	b.WriteString("\n")
	return b.String()
}

func zoneLabel(z astro.TravelZone) string {
	switch z {
	case astro.ZoneAmber:
		return "Amber"
	case astro.ZoneRed:
		return "Red"
	}
	return "-"
}
