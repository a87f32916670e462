package astro

import (
	"strings"

	"github.com/Absle/swt-gen/internal/dice"
)

// Pseudoname generator: pick a syllable pattern, then draw one entry
// from each phoneme group in the pattern. Groups 1-4 are consonants,
// plain vowels, consonant clusters, and vowel clusters; groups 5 and 6
// are planet-flavoured endings.

var phonemeGroups = [][]string{
	{
		"b", "c", "d", "f", "g", "h", "i", "j", "k", "l", "m", "n", "p",
		"q", "r", "s", "t", "v", "w", "x", "y", "z",
	},
	{"a", "e", "o", "u"},
	{
		"br", "cr", "dr", "fr", "gr", "pr", "str", "tr", "bl", "cl",
		"fl", "gl", "pl", "sl", "sc", "sk", "sm", "sn", "sp", "st",
		"sw", "ch", "sh", "th", "wh",
	},
	{
		"ae", "ai", "ao", "au", "a", "ay", "ea", "ei", "eo", "eu", "e",
		"ey", "ua", "ue", "ui", "uo", "u", "uy", "ia", "ie", "iu",
		"io", "iy", "oa", "oe", "ou", "oi", "o", "oy",
	},
	{
		"turn", "ter", "nus", "rus", "tania", "hiri", "hines", "gawa",
		"nides", "carro", "rilia", "stea", "lia", "lea", "ria", "nov",
		"phus", "mia", "nerth", "wei", "ruta", "tov", "zuno", "vis",
		"lara", "nia", "liv", "tera", "gantu", "yama", "tune", "ter",
		"nus", "cury", "bos", "pra", "thea", "nope", "tis", "clite",
	},
	{
		"una", "ion", "iea", "iri", "illes", "ides", "agua", "olla",
		"inda", "eshan", "oria", "ilia", "erth", "arth", "orth", "oth",
		"illon", "ichi", "ov", "arvis", "ara", "ars", "yke", "yria",
		"onoe", "ippe", "osie", "one", "ore", "ade", "adus", "urn",
		"ypso", "ora", "iuq", "orix", "apus", "ion", "eon", "eron",
		"ao", "omia",
	},
}

// namePatterns lists syllable-pattern rows; each value is a 1-based
// index into phonemeGroups.
var namePatterns = [][]int{
	{1, 2, 5},
	{2, 3, 6},
	{3, 4, 5},
	{4, 3, 6},
	{3, 4, 2, 5},
	{2, 1, 3, 6},
	{3, 4, 2, 5},
	{4, 3, 1, 6},
	{3, 4, 1, 4, 5},
	{4, 1, 4, 3, 6},
}

// RandomName draws a pseudoname from the roller's stream.
func RandomName(r *dice.Roller) string {
	pattern := namePatterns[r.Intn(len(namePatterns))]
	var b strings.Builder
	for _, group := range pattern {
		entries := phonemeGroups[group-1]
		b.WriteString(entries[r.Intn(len(entries))])
	}
	name := b.String()
	return strings.ToUpper(name[:1]) + name[1:]
}
