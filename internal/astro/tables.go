package astro

// The dice tables, kept as ordered bracket data rather than branching
// code. A bracket matches any value in [Lo, Hi] inclusive.

type bracket struct {
	Lo, Hi int
	DM     int
}

func lookupDM(table []bracket, v int) int {
	for _, b := range table {
		if v >= b.Lo && v <= b.Hi {
			return b.DM
		}
	}
	return 0
}

// starportBracket maps a modified 2d6 roll to a port class and the base
// berthing cost multiplier (credits per 1d6).
type starportBracket struct {
	Lo, Hi    int
	Class     StarportClass
	BerthBase int
}

var starportTable = []starportBracket{
	{-100, 2, StarportX, 0},
	{3, 4, StarportE, 0},
	{5, 6, StarportD, 10},
	{7, 8, StarportC, 100},
	{9, 10, StarportB, 500},
	{11, 100, StarportA, 1000},
}

func starportFor(roll int) starportBracket {
	for _, b := range starportTable {
		if roll >= b.Lo && roll <= b.Hi {
			return b
		}
	}
	return starportTable[0]
}

// Hydrographics DM by atmosphere: thin tainted and exotic atmospheres
// suppress surface water.
var hydroAtmoDM = []bracket{
	{0, 1, -4},
	{10, 12, -4},
	{14, 14, -2},
}

// temperatureTable maps the modified 2d6 climate roll to a temperature
// code, 0 (frozen) through 6 (boiling).
var temperatureTable = []bracket{
	{-100, 2, 0},
	{3, 4, 1},
	{5, 5, 2},
	{6, 8, 3},
	{9, 9, 4},
	{10, 11, 5},
	{12, 100, 6},
}

// Temperature DM by atmosphere.
var tempAtmoDM = []bracket{
	{2, 3, -2},
	{4, 5, -1},
	{8, 9, 1},
	{10, 10, 2},
	{11, 12, 6},
	{13, 13, 2},
	{14, 14, -1},
	{15, 15, 2},
}

// Habitability modifiers applied to the population roll.
var (
	popSizeDM = []bracket{{0, 2, -1}}
	popAtmoDM = []bracket{{5, 5, 1}, {6, 6, 3}, {8, 8, 1}, {10, AtmosphereMax, -2}}
)

// habitabilityDM is the combined population modifier; it is subtracted
// back out before the government roll so harsh worlds do not also get
// harsher governments.
func habitabilityDM(size, atmosphere, hydrographics int) int {
	dm := lookupDM(popSizeDM, size) + lookupDM(popAtmoDM, atmosphere)
	if hydrographics == 0 && atmosphere < 3 {
		dm -= 2
	}
	return dm
}

// Tech level DM chain, the richest in the pipeline: every earlier
// attribute contributes.
var (
	techSizeDM  = []bracket{{0, 1, 2}, {2, 4, 1}}
	techAtmoDM  = []bracket{{0, 3, 1}, {10, AtmosphereMax, 1}}
	techHydroDM = []bracket{{0, 0, 1}, {9, 9, 1}, {10, 10, 2}}
	techPopDM   = []bracket{{1, 5, 1}, {9, 9, 1}, {10, 10, 2}, {11, 11, 3}, {12, 12, 4}}
	techGovDM   = []bracket{{0, 0, 1}, {5, 5, 1}, {7, 7, 2}, {13, 14, -2}}

	techStarportDM = map[StarportClass]int{
		StarportA: 6,
		StarportB: 4,
		StarportC: 2,
		StarportX: -4,
	}
)

func techLevelDM(w *World) int {
	return lookupDM(techSizeDM, w.Size) +
		lookupDM(techAtmoDM, w.Atmosphere) +
		lookupDM(techHydroDM, w.Hydrographics) +
		lookupDM(techPopDM, w.Population) +
		lookupDM(techGovDM, w.Government) +
		techStarportDM[w.Starport]
}

// Base presence targets: 2d6 >= target. Targets above 12 mark bases a
// port class cannot host; target 0 is guaranteed.
type baseTargets struct {
	Naval, Scout, Research, TAS int
}

const neverTarget = 99

var baseTable = map[StarportClass]baseTargets{
	StarportA: {Naval: 8, Scout: 10, Research: 8, TAS: 0},
	StarportB: {Naval: 8, Scout: 9, Research: 10, TAS: 0},
	StarportC: {Naval: neverTarget, Scout: 8, Research: 10, TAS: 10},
	StarportD: {Naval: neverTarget, Scout: 7, Research: neverTarget, TAS: neverTarget},
	StarportE: {Naval: neverTarget, Scout: neverTarget, Research: neverTarget, TAS: neverTarget},
	StarportX: {Naval: neverTarget, Scout: neverTarget, Research: neverTarget, TAS: neverTarget},
}

const pirateBaseTarget = 12

// Occupancy: 2d6 + abundance DM at or above this threshold puts a
// world in the hex.
const occupancyThreshold = 8
