package export

import (
	"fmt"
	"math"
	"strings"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Absle/swt-gen/internal/subsector"
)

// Self-contained SVG hex map. Flat-top hexes in odd-column-lowered
// layout, a seeded noise starfield behind the grid, and the glyph set
// from primitives.go inside each occupied hex.

const (
	hexRadius = 48.0
	mapMargin = 24.0

	starfieldStep      = 14.0
	starfieldThreshold = 0.66
)

// RenderSVG draws the whole subsector map.
func RenderSVG(s *subsector.Subsector) string {
	width := 1.5*hexRadius*float64(s.Grid.Columns) + 0.5*hexRadius + 2*mapMargin
	height := hexHeight()*(float64(s.Grid.Rows)+0.5) + 2*mapMargin

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%.0f" height="%.0f" fill="#0b0e17"/>`+"\n", width, height)

	writeStarfield(&b, s.Seed, width, height)

	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="#d8dce6" font-family="monospace" font-size="16">%s</text>`+"\n",
		mapMargin, mapMargin-6, escape(s.Name))

	for _, c := range s.Grid.Coordinates() {
		cx, cy := hexCenter(c)
		fmt.Fprintf(&b, `<polygon points="%s" fill="none" stroke="#3a4154" stroke-width="1"/>`+"\n",
			hexPoints(cx, cy))
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="#5a6378" font-family="monospace" font-size="9" text-anchor="middle">%s</text>`+"\n",
			cx, cy-hexRadius*0.72, c.String())

		if !s.Occupied(c) {
			continue
		}
		writeWorldGlyphs(&b, GlyphsFor(s, c), cx, cy)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func writeWorldGlyphs(b *strings.Builder, g WorldGlyphs, cx, cy float64) {
	if g.ZoneColor != "" {
		fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="1.5" stroke-dasharray="4 3"/>`+"\n",
			cx, cy, hexRadius*0.80, g.ZoneColor)
	}

	// World disc: filled for wet worlds, outlined for dry ones.
	if g.Wet {
		fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="6" fill="#4f8fd9"/>`+"\n", cx, cy)
	} else {
		fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="6" fill="none" stroke="#c8b48a" stroke-width="1.5"/>`+"\n", cx, cy)
	}

	if g.GasGiant {
		fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="2.5" fill="#d8dce6"/>`+"\n",
			cx+hexRadius*0.45, cy-hexRadius*0.35)
	}

	nameColor := g.NameColor
	if nameColor == "" {
		nameColor = "#d8dce6"
	}
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="10" text-anchor="middle">%s</text>`+"\n",
		cx, cy+hexRadius*0.42, nameColor, escape(g.Name))
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" fill="#9aa3b5" font-family="monospace" font-size="9" text-anchor="middle">%s</text>`+"\n",
		cx, cy-hexRadius*0.38, g.PortTech)
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" fill="#6f788c" font-family="monospace" font-size="8" text-anchor="middle">%s</text>`+"\n",
		cx, cy+hexRadius*0.62, g.Bases)
}

// writeStarfield scatters dim stars where layered noise peaks, so the
// same seed always draws the same sky.
func writeStarfield(b *strings.Builder, seed int64, width, height float64) {
	noise := opensimplex.NewNormalized(seed)
	for y := 0.0; y < height; y += starfieldStep {
		for x := 0.0; x < width; x += starfieldStep {
			v := octaveNoise(noise, x, y, 3, 0.02, 0.5)
			if v < starfieldThreshold {
				continue
			}
			opacity := (v - starfieldThreshold) / (1 - starfieldThreshold)
			fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="0.9" fill="#ffffff" opacity="%.2f"/>`+"\n",
				x, y, 0.2+0.6*opacity)
		}
	}
}

// octaveNoise layers multiple noise frequencies into fractal detail.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

func hexHeight() float64 {
	return math.Sqrt(3) * hexRadius
}

// hexCenter places a flat-top hex; odd columns shift down a half row.
func hexCenter(c subsector.Coordinate) (float64, float64) {
	x := mapMargin + hexRadius + 1.5*hexRadius*float64(c.Column-1)
	y := mapMargin + hexHeight()*(float64(c.Row-1)+0.5)
	if c.Column%2 == 0 {
		y += hexHeight() / 2
	}
	return x, y
}

func hexPoints(cx, cy float64) string {
	parts := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		angle := math.Pi / 3 * float64(i)
		parts = append(parts, fmt.Sprintf("%.1f,%.1f",
			cx+hexRadius*math.Cos(angle), cy+hexRadius*math.Sin(angle)))
	}
	return strings.Join(parts, " ")
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
