package subsector

import (
	"github.com/Absle/swt-gen/internal/astro"
	"github.com/Absle/swt-gen/internal/dice"
)

// SchemaVersion is the serialized document version this build reads
// and writes.
const SchemaVersion = 1

// Document variants. A player-safe document is a projection and never
// round-trips back into a GM document.
const (
	VariantGM         = "gm"
	VariantPlayerSafe = "player-safe"
)

// Faction is a polity claiming hexes on the map. Claims always point
// at occupied hexes; every mutation maintains that.
type Faction struct {
	Name   string       `json:"name"`
	Color  string       `json:"color"`
	Claims []Coordinate `json:"claims,omitempty"`
}

// Clone returns a deep copy of the faction.
func (f *Faction) Clone() *Faction {
	c := *f
	c.Claims = append([]Coordinate(nil), f.Claims...)
	return &c
}

// Subsector is the aggregate: grid, seed, worlds, and factions. All
// mutations go through its methods so invariants hold between them.
type Subsector struct {
	Version int    `json:"version"`
	Variant string `json:"variant"`

	Name        string `json:"name"`
	Grid        Grid   `json:"grid"`
	Seed        int64  `json:"seed"`
	Epoch       int64  `json:"epoch"`
	AbundanceDM int    `json:"abundance_dm"`

	Worlds   map[Coordinate]*astro.World `json:"worlds"`
	Factions []*Faction                  `json:"factions,omitempty"`
}

// New creates an empty subsector on the default grid. An empty name is
// drawn from the seed's naming stream, so the same seed always names
// the same subsector.
func New(name string, seed int64, abundanceDM int) *Subsector {
	if name == "" {
		name = astro.RandomName(dice.NewRoller(dice.DeriveSeed(seed, 0, 0, 0)))
	}
	return &Subsector{
		Version:     SchemaVersion,
		Variant:     VariantGM,
		Name:        name,
		Grid:        DefaultGrid,
		Seed:        seed,
		AbundanceDM: abundanceDM,
		Worlds:      make(map[Coordinate]*astro.World),
	}
}

// World returns the world at the coordinate, or nil for an empty hex.
func (s *Subsector) World(c Coordinate) *astro.World {
	return s.Worlds[c]
}

// Occupied reports whether the hex holds a world.
func (s *Subsector) Occupied(c Coordinate) bool {
	_, ok := s.Worlds[c]
	return ok
}

// FactionByName returns the named faction, or nil.
func (s *Subsector) FactionByName(name string) *Faction {
	for _, f := range s.Factions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Clone returns a deep copy of the whole subsector record.
func (s *Subsector) Clone() *Subsector {
	c := *s
	c.Worlds = make(map[Coordinate]*astro.World, len(s.Worlds))
	for coord, w := range s.Worlds {
		c.Worlds[coord] = w.Clone()
	}
	c.Factions = make([]*Faction, len(s.Factions))
	for i, f := range s.Factions {
		c.Factions[i] = f.Clone()
	}
	return &c
}

// roller derives the per-hex dice stream for the current epoch.
// Regeneration bumps the epoch, so a re-rolled hex draws a fresh slice
// of randomness while every other hex's stream stays untouched.
func (s *Subsector) roller(c Coordinate) *dice.Roller {
	return dice.NewRoller(dice.DeriveSeed(s.Seed, s.Epoch, int64(c.Column), int64(c.Row)))
}
