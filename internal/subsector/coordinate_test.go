package subsector

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCoordinateString(t *testing.T) {
	cases := []struct {
		c    Coordinate
		want string
	}{
		{Coordinate{Column: 1, Row: 1}, "0101"},
		{Coordinate{Column: 8, Row: 10}, "0810"},
		{Coordinate{Column: 3, Row: 4}, "0304"},
	}
	for _, tc := range cases {
		if got := tc.c.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
		parsed, err := ParseCoordinate(tc.want)
		if err != nil {
			t.Errorf("ParseCoordinate(%q): %v", tc.want, err)
		}
		if parsed != tc.c {
			t.Errorf("ParseCoordinate(%q) = %+v, want %+v", tc.want, parsed, tc.c)
		}
	}
}

func TestParseCoordinateRejects(t *testing.T) {
	for _, bad := range []string{"", "01", "010", "01011", "AB01", "01-1", "0x11"} {
		if _, err := ParseCoordinate(bad); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("ParseCoordinate(%q) err = %v, want ErrInvalidCoordinate", bad, err)
		}
	}
}

func TestCoordinateAsMapKey(t *testing.T) {
	m := map[Coordinate]string{{Column: 2, Row: 9}: "x"}
	doc, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(doc) != `{"0209":"x"}` {
		t.Fatalf("encoded map = %s", doc)
	}

	var back map[Coordinate]string
	if err := json.Unmarshal(doc, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back[Coordinate{Column: 2, Row: 9}] != "x" {
		t.Fatalf("round trip lost the key: %+v", back)
	}
}

func TestGridContains(t *testing.T) {
	g := DefaultGrid
	for _, c := range []Coordinate{{1, 1}, {8, 10}, {4, 5}} {
		if !g.Contains(c) {
			t.Errorf("Contains(%s) = false", c)
		}
	}
	for _, c := range []Coordinate{{0, 1}, {1, 0}, {9, 1}, {1, 11}} {
		if g.Contains(c) {
			t.Errorf("Contains(%s) = true", c)
		}
	}
	if got := len(g.Coordinates()); got != 80 {
		t.Errorf("Coordinates() yields %d hexes, want 80", got)
	}
}
