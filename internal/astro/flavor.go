package astro

import "github.com/Absle/swt-gen/internal/dice"

// GM-facing flavour tables, rolled uniformly on d66. These never feed
// back into the UWP pipeline and are redacted from player-safe exports.

var cultureTable = []string{
	"Sealed",
	"Xenophobic",
	"Fragmented",
	"Degenerate",
	"Unusual custom: offworlders",
	"Unusual custom: starport",
	"Influenced",
	"Enemies",
	"Unusual custom: media",
	"Taboo",
	"Sexist",
	"Artistic",
	"Ritualised",
	"Conservative",
	"Xenophilic",
	"Unusual custom: technology",
	"Progressive",
	"Radical",
	"Deceptive",
	"Liberal",
	"Honorable",
	"Unusual custom: social standing",
	"Unusual custom: religion",
	"Unforgiving",
	"Touchy",
	"Influential",
	"Unusual custom: trade",
	"Barbaric",
	"Remnant",
	"Tourist attraction",
	"Violent",
	"Peaceful",
	"Obsessed",
	"Fatalistic",
	"Unusual custom: lifecycle",
	"Stoic",
}

var worldTagTable = []string{
	"Abandoned colony",
	"Alien ruins",
	"Altered humanity",
	"Anarchists",
	"Anthropomorphs",
	"Battleground",
	"Bubble cities",
	"Cheap life",
	"Civil war",
	"Cold war",
	"Colony",
	"Cyclical doom",
	"Doomed world",
	"Dying race",
	"Eugenics cult",
	"Flying cities",
	"Forbidden tech",
	"Former warriors",
	"Freak geology",
	"Freak weather",
	"Friendly foe",
	"Great work",
	"Hatred",
	"Heavy industry",
	"Heavy mining",
	"Hostile biosphere",
	"Hostile space",
	"Local specialty",
	"Local tech",
	"Megacorps",
	"Mercenaries",
	"Minimal contact",
	"Misandry/misogyny",
	"Night world",
	"Nomads",
	"Oceanic world",
}

func rollD66Entry(r *dice.Roller, table []string) string {
	v := r.D66()
	return table[6*(v/10-1)+(v%10-1)]
}
