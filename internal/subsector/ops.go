package subsector

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Absle/swt-gen/internal/astro"
)

// The mutation surface. Every operation either completes with all
// invariants intact or returns an error with the subsector untouched.

// Generate rolls a complete subsector: one occupancy check per hex,
// then the full derivation pipeline for each occupied hex. Factions
// start empty. The only way this fails is a degenerate grid.
func Generate(name string, seed int64, abundanceDM int, grid Grid) (*Subsector, error) {
	if grid.Columns < 1 || grid.Rows < 1 {
		return nil, fmt.Errorf("degenerate grid %dx%d", grid.Columns, grid.Rows)
	}
	s := New(name, seed, abundanceDM)
	s.Grid = grid
	for _, c := range grid.Coordinates() {
		r := s.roller(c)
		if !astro.RollPresence(r, s.AbundanceDM) {
			continue
		}
		s.Worlds[c] = astro.New(r, "")
	}
	slog.Info("subsector generated",
		"name", s.Name, "seed", seed, "abundance_dm", abundanceDM,
		"grid", fmt.Sprintf("%dx%d", grid.Columns, grid.Rows),
		"worlds", len(s.Worlds))
	return s, nil
}

// RegenerateAt discards whatever the hex holds and reruns the factory
// for that hex alone, occupancy roll included, so a regeneration can
// leave the hex empty. A world that survives keeps its name; the rest
// of the profile is rolled fresh. The epoch bump gives the hex a fresh
// slice of the stream without touching any other hex's rolls. Returns
// the new world, or nil when the re-roll left the hex empty.
func (s *Subsector) RegenerateAt(c Coordinate) (*astro.World, error) {
	if err := s.Grid.Check(c); err != nil {
		return nil, err
	}
	var name string
	if old, ok := s.Worlds[c]; ok {
		name = old.Name
	}
	s.Epoch++
	r := s.roller(c)
	if !astro.RollPresence(r, s.AbundanceDM) {
		delete(s.Worlds, c)
		s.pruneClaims(c)
		slog.Info("hex regenerated empty", "coordinate", c.String(), "epoch", s.Epoch)
		return nil, nil
	}
	w := astro.New(r, name)
	s.Worlds[c] = w
	slog.Info("world regenerated", "coordinate", c.String(), "epoch", s.Epoch, "profile", w.Profile())
	return w, nil
}

// RerollField re-rolls a single attribute of the world at the hex,
// leaving the rest of the profile fixed, then reclassifies. Each call
// bumps the epoch so repeating the operation draws new dice rather
// than replaying the last roll.
func (s *Subsector) RerollField(c Coordinate, field string) (*astro.World, error) {
	if err := s.Grid.Check(c); err != nil {
		return nil, err
	}
	w, ok := s.Worlds[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEmptyHex, c)
	}
	s.Epoch++
	if !astro.RerollAttribute(s.roller(c), w, field) {
		// An unknown attribute consumes no rolls, so the bump unwinds.
		s.Epoch--
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	astro.Reclassify(w)
	slog.Info("world field rerolled", "coordinate", c.String(), "field", field, "epoch", s.Epoch)
	return w, nil
}

// Move relocates a world to an empty hex and rewrites faction claims
// that pointed at the old coordinate.
func (s *Subsector) Move(from, to Coordinate) error {
	if err := s.Grid.Check(from); err != nil {
		return err
	}
	if err := s.Grid.Check(to); err != nil {
		return err
	}
	w, ok := s.Worlds[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmptyHex, from)
	}
	if _, ok := s.Worlds[to]; ok {
		return fmt.Errorf("%w: %s", ErrOccupiedTarget, to)
	}
	delete(s.Worlds, from)
	s.Worlds[to] = w
	for _, f := range s.Factions {
		for i, claim := range f.Claims {
			if claim == from {
				f.Claims[i] = to
			}
		}
	}
	slog.Info("world moved", "from", from.String(), "to", to.String(), "world", w.Name)
	return nil
}

// Rename sets the subsector's name; the name must stay non-empty.
func (s *Subsector) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: subsector name must not be empty", ErrInvalidFieldValue)
	}
	s.Name = name
	return nil
}

// RenameWorld sets a world's name.
func (s *Subsector) RenameWorld(c Coordinate, name string) error {
	if err := s.Grid.Check(c); err != nil {
		return err
	}
	w, ok := s.Worlds[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmptyHex, c)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: world name must not be empty", ErrInvalidFieldValue)
	}
	w.Name = name
	return nil
}

// Delete removes the world and prunes every faction claim on the hex.
func (s *Subsector) Delete(c Coordinate) error {
	if err := s.Grid.Check(c); err != nil {
		return err
	}
	w, ok := s.Worlds[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmptyHex, c)
	}
	delete(s.Worlds, c)
	s.pruneClaims(c)
	slog.Info("world deleted", "coordinate", c.String(), "world", w.Name)
	return nil
}

// Snapshot captures the world at the hex for a later Revert. Returns
// nil for an empty hex.
func (s *Subsector) Snapshot(c Coordinate) *astro.World {
	w, ok := s.Worlds[c]
	if !ok {
		return nil
	}
	return w.Clone()
}

// Revert restores a captured world record verbatim: every field,
// derived data included, is rehydrated from the snapshot so nothing of
// the abandoned edit survives. A nil snapshot restores the hex to
// empty.
func (s *Subsector) Revert(c Coordinate, snapshot *astro.World) error {
	if err := s.Grid.Check(c); err != nil {
		return err
	}
	if snapshot == nil {
		delete(s.Worlds, c)
		s.pruneClaims(c)
		return nil
	}
	s.Worlds[c] = snapshot.Clone()
	return nil
}

// EditField sets one named field on the world from its string form and
// reclassifies. Out-of-range values are rejected, never clamped; a
// rejected edit leaves the world untouched.
func (s *Subsector) EditField(c Coordinate, field, value string) error {
	if err := s.Grid.Check(c); err != nil {
		return err
	}
	w, ok := s.Worlds[c]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEmptyHex, c)
	}
	if err := applyField(w, field, value); err != nil {
		return err
	}
	if field == "travel_zone" {
		// A zone edit is an explicit GM override; recompute trade
		// codes only, or the derivation would immediately undo it.
		w.TradeCodes = astro.Classify(w)
	} else {
		astro.Reclassify(w)
	}
	slog.Info("world field edited", "coordinate", c.String(), "field", field)
	return nil
}

func applyField(w *astro.World, field, value string) error {
	switch field {
	case "name":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: name must not be empty", ErrInvalidFieldValue)
		}
		w.Name = strings.TrimSpace(value)
	case "starport":
		class := astro.StarportClass(strings.ToUpper(value))
		if !class.Valid() {
			return fmt.Errorf("%w: starport %q", ErrInvalidFieldValue, value)
		}
		w.Starport = class
	case "size":
		if err := setBounded(&w.Size, field, value, astro.SizeMax); err != nil {
			return err
		}
		// A world edited down to size 0 is an airless small body.
		if w.Size == 0 {
			w.Atmosphere = 0
			w.Hydrographics = 0
		}
	case "atmosphere":
		return setOnBody(&w.Atmosphere, field, value, astro.AtmosphereMax, w.Size)
	case "temperature":
		return setBounded(&w.Temperature, field, value, astro.TemperatureMax)
	case "hydrographics":
		return setOnBody(&w.Hydrographics, field, value, astro.HydrographicsMax, w.Size)
	case "population":
		return setBounded(&w.Population, field, value, astro.PopulationMax)
	case "government":
		return setBounded(&w.Government, field, value, astro.GovernmentMax)
	case "law_level":
		return setBounded(&w.LawLevel, field, value, astro.LawLevelMax)
	case "tech_level":
		return setBounded(&w.TechLevel, field, value, astro.TechLevelMax)
	case "travel_zone":
		zone := astro.TravelZone(strings.ToLower(value))
		if !zone.Valid() {
			return fmt.Errorf("%w: travel zone %q", ErrInvalidFieldValue, value)
		}
		w.TravelZone = zone
	case "culture":
		w.Culture = value
	case "notes":
		w.Notes = value
	case "player_notes":
		w.PlayerNotes = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func setBounded(dst *int, field, value string, hi int) error {
	v, err := parseBounded(field, value, hi)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// setOnBody is setBounded for fields a size-0 world cannot hold:
// nothing but 0 sticks to an airless small body.
func setOnBody(dst *int, field, value string, hi, size int) error {
	v, err := parseBounded(field, value, hi)
	if err != nil {
		return err
	}
	if size == 0 && v != 0 {
		return fmt.Errorf("%w: %s must stay 0 while size is 0", ErrInvalidFieldValue, field)
	}
	*dst = v
	return nil
}

func parseBounded(field, value string, hi int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidFieldValue, field, value)
	}
	if v < 0 || v > hi {
		return 0, fmt.Errorf("%w: %s %d outside [0,%d]", ErrInvalidFieldValue, field, v, hi)
	}
	return v, nil
}

// AddFaction registers a new faction with no claims.
func (s *Subsector) AddFaction(name, color string) (*Faction, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: faction name must not be empty", ErrInvalidFieldValue)
	}
	if s.FactionByName(name) != nil {
		return nil, fmt.Errorf("%w: faction %q already exists", ErrInvalidFieldValue, name)
	}
	f := &Faction{Name: name, Color: color}
	s.Factions = append(s.Factions, f)
	slog.Info("faction added", "faction", name)
	return f, nil
}

// RemoveFaction drops the faction and all its claims.
func (s *Subsector) RemoveFaction(name string) error {
	for i, f := range s.Factions {
		if f.Name == name {
			s.Factions = append(s.Factions[:i], s.Factions[i+1:]...)
			slog.Info("faction removed", "faction", name)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownFaction, name)
}

// Claim records a faction's claim on an occupied hex. Contested hexes
// are fine; claims on empty hexes are not.
func (s *Subsector) Claim(faction string, c Coordinate) error {
	if err := s.Grid.Check(c); err != nil {
		return err
	}
	f := s.FactionByName(faction)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownFaction, faction)
	}
	if !s.Occupied(c) {
		return fmt.Errorf("%w: %s holds no world", ErrDanglingReference, c)
	}
	for _, claim := range f.Claims {
		if claim == c {
			return nil
		}
	}
	f.Claims = append(f.Claims, c)
	slog.Info("hex claimed", "faction", faction, "coordinate", c.String())
	return nil
}

// Release withdraws a faction's claim on a hex.
func (s *Subsector) Release(faction string, c Coordinate) error {
	f := s.FactionByName(faction)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownFaction, faction)
	}
	for i, claim := range f.Claims {
		if claim == c {
			f.Claims = append(f.Claims[:i], f.Claims[i+1:]...)
			return nil
		}
	}
	return nil
}

// pruneClaims drops every faction claim on the hex. Called whenever a
// world leaves a hex so no claim ever dangles.
func (s *Subsector) pruneClaims(c Coordinate) {
	for _, f := range s.Factions {
		n := 0
		for _, claim := range f.Claims {
			if claim != c {
				f.Claims[n] = claim
				n++
			}
		}
		f.Claims = f.Claims[:n]
	}
}
