// Package subsector holds the hex-grid aggregate: the subsector map,
// its factions, the mutation operations a GM performs on it, the
// player-safe projection, and the versioned document codec.
package subsector

import "fmt"

// Coordinate addresses a hex as a 1-based column/row pair. The wire
// form is the four-digit "CCRR" string, e.g. "0304".
type Coordinate struct {
	Column int
	Row    int
}

// String renders the canonical "CCRR" form.
func (c Coordinate) String() string {
	return fmt.Sprintf("%02d%02d", c.Column, c.Row)
}

// MarshalText serializes the coordinate as its "CCRR" form, which also
// makes it usable as a JSON map key.
func (c Coordinate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses the "CCRR" form.
func (c *Coordinate) UnmarshalText(text []byte) error {
	parsed, err := ParseCoordinate(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCoordinate parses a "CCRR" string. It validates shape only;
// grid bounds are the subsector's concern.
func ParseCoordinate(s string) (Coordinate, error) {
	if len(s) != 4 {
		return Coordinate{}, fmt.Errorf("%w: %q is not a CCRR pair", ErrInvalidCoordinate, s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return Coordinate{}, fmt.Errorf("%w: %q is not a CCRR pair", ErrInvalidCoordinate, s)
		}
	}
	col := 10*int(s[0]-'0') + int(s[1]-'0')
	row := 10*int(s[2]-'0') + int(s[3]-'0')
	return Coordinate{Column: col, Row: row}, nil
}

// Grid is the subsector's extent in hexes.
type Grid struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

// DefaultGrid is the standard subsector extent.
var DefaultGrid = Grid{Columns: 8, Rows: 10}

// Contains reports whether the coordinate lies inside the grid.
func (g Grid) Contains(c Coordinate) bool {
	return c.Column >= 1 && c.Column <= g.Columns && c.Row >= 1 && c.Row <= g.Rows
}

// Check wraps out-of-bounds coordinates in ErrInvalidCoordinate.
func (g Grid) Check(c Coordinate) error {
	if !g.Contains(c) {
		return fmt.Errorf("%w: %s outside %dx%d grid", ErrInvalidCoordinate, c, g.Columns, g.Rows)
	}
	return nil
}

// Coordinates lists every hex in column-major order, the canonical
// iteration order for generation and export.
func (g Grid) Coordinates() []Coordinate {
	coords := make([]Coordinate, 0, g.Columns*g.Rows)
	for col := 1; col <= g.Columns; col++ {
		for row := 1; row <= g.Rows; row++ {
			coords = append(coords, Coordinate{Column: col, Row: row})
		}
	}
	return coords
}
