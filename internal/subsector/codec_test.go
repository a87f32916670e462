package subsector

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Absle/swt-gen/internal/astro"
	"github.com/Absle/swt-gen/internal/dice"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testSubsector(t)
	if _, err := s.AddFaction("Imperium", "#b03030"); err != nil {
		t.Fatalf("AddFaction: %v", err)
	}
	if err := s.Claim("Imperium", occupiedCoords(s)[0]); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	doc, err := Save(s)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	again, err := Save(loaded)
	if err != nil {
		t.Fatalf("Save after Load: %v", err)
	}
	if !bytes.Equal(doc, again) {
		t.Fatal("save/load/save is not a fixed point")
	}
}

func TestPlayerSafeRoundTrip(t *testing.T) {
	s := testSubsector(t)
	c := occupiedCoords(s)[0]
	s.World(c).Notes = "ancient cache under the south pole"

	doc, err := Save(Project(s))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(string(doc), "ancient cache") {
		t.Fatal("GM notes leaked into the player-safe document")
	}
	if strings.Contains(string(doc), "culture") || strings.Contains(string(doc), "world_tags") {
		t.Fatal("GM flavour fields leaked into the player-safe document")
	}

	loaded, err := Load(doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Variant != VariantPlayerSafe {
		t.Fatalf("variant = %q, want %q", loaded.Variant, VariantPlayerSafe)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	for name, doc := range map[string]string{
		"not json":       "{",
		"wrong shape":    `{"version": 1}`,
		"bad coordinate": `{"version":1,"variant":"gm","name":"X","grid":{"columns":8,"rows":10},"seed":1,"abundance_dm":0,"worlds":{"AA01":{}}}`,
	} {
		if _, err := Load([]byte(doc)); !errors.Is(err, ErrSchemaMismatch) {
			t.Errorf("%s: err = %v, want ErrSchemaMismatch", name, err)
		}
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	s := testSubsector(t)
	doc, _ := Save(s)
	doc = bytes.Replace(doc, []byte(`"version": 1`), []byte(`"version": 99`), 1)
	if _, err := Load(doc); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestLoadRejectsStaleTradeCodes(t *testing.T) {
	s := testSubsector(t)
	w := s.World(occupiedCoords(s)[0])
	w.TradeCodes = append(w.TradeCodes, astro.TradeWa, astro.TradeDe)

	doc, err := Save(s)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(doc); !errors.Is(err, ErrStaleDerivedData) {
		t.Fatalf("err = %v, want ErrStaleDerivedData", err)
	}
}

func TestLoadRejectsDanglingClaim(t *testing.T) {
	s := testSubsector(t)
	empty := emptyCoord(t, s)
	s.Factions = append(s.Factions, &Faction{Name: "Ghost", Color: "#888", Claims: []Coordinate{empty}})

	doc, err := Save(s)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(doc); !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("err = %v, want ErrDanglingReference", err)
	}
}

func TestLoadRejectsWorldOutsideGrid(t *testing.T) {
	s := testSubsector(t)
	s.Worlds[Coordinate{Column: 9, Row: 11}] = astro.New(dice.NewRoller(1), "Rogue")

	doc, err := Save(s)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(doc); !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("err = %v, want ErrInvalidCoordinate", err)
	}
}
