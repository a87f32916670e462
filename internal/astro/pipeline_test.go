package astro

import (
	"testing"

	"github.com/Absle/swt-gen/internal/dice"
)

const generationAttempts = 2_000

func TestNewDeterministic(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		a := New(dice.NewRoller(seed), "")
		b := New(dice.NewRoller(seed), "")
		if !a.Equal(b) {
			t.Fatalf("seed %d produced divergent worlds:\n%+v\n%+v", seed, a, b)
		}
	}
}

func TestNewAttributeBounds(t *testing.T) {
	r := dice.NewRoller(7)
	for i := 0; i < generationAttempts; i++ {
		w := New(r, "")
		checks := []struct {
			name  string
			v, hi int
		}{
			{"size", w.Size, SizeMax},
			{"atmosphere", w.Atmosphere, AtmosphereMax},
			{"temperature", w.Temperature, TemperatureMax},
			{"hydrographics", w.Hydrographics, HydrographicsMax},
			{"population", w.Population, PopulationMax},
			{"government", w.Government, GovernmentMax},
			{"law level", w.LawLevel, LawLevelMax},
			{"tech level", w.TechLevel, TechLevelMax},
		}
		for _, c := range checks {
			if c.v < 0 || c.v > c.hi {
				t.Fatalf("%s = %d out of [0,%d] on %s", c.name, c.v, c.hi, w.Profile())
			}
		}
		if !w.Starport.Valid() {
			t.Fatalf("invalid starport %q", w.Starport)
		}
		if !w.TravelZone.Valid() {
			t.Fatalf("invalid travel zone %q", w.TravelZone)
		}
	}
}

func TestNewStructuralInvariants(t *testing.T) {
	r := dice.NewRoller(11)
	sawSmallBody := false
	for i := 0; i < generationAttempts; i++ {
		w := New(r, "")
		if w.Size == 0 {
			sawSmallBody = true
			if w.Atmosphere != 0 || w.Hydrographics != 0 {
				t.Fatalf("size-0 body with atmosphere %d / hydrographics %d", w.Atmosphere, w.Hydrographics)
			}
			if w.Belts < 1 {
				t.Fatalf("size-0 body without a belt")
			}
		}
		if w.Population == 0 && (w.Government != 0 || w.LawLevel != 0) {
			t.Fatalf("empty world with government %d / law %d", w.Government, w.LawLevel)
		}
		if w.HasPirateBase && (w.HasNavalBase || w.Starport == StarportA) {
			t.Fatalf("pirate base alongside naval presence: %s %s", w.Profile(), w.BaseString())
		}
		if w.Name == "" {
			t.Fatalf("generated world without a name")
		}
	}
	if !sawSmallBody {
		t.Fatalf("no size-0 body in %d generations", generationAttempts)
	}
}

func TestNewDerivedDataFresh(t *testing.T) {
	r := dice.NewRoller(13)
	for i := 0; i < generationAttempts; i++ {
		w := New(r, "")
		want := Classify(w)
		if len(want) != len(w.TradeCodes) {
			t.Fatalf("stale trade codes: have %v, want %v", w.TradeCodes, want)
		}
		for j := range want {
			if want[j] != w.TradeCodes[j] {
				t.Fatalf("stale trade codes: have %v, want %v", w.TradeCodes, want)
			}
		}
	}
}

func TestRerollAttributeDeterministic(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		a := New(dice.NewRoller(seed), "")
		b := a.Clone()
		RerollAttribute(dice.NewRoller(seed+100), a, "population")
		RerollAttribute(dice.NewRoller(seed+100), b, "population")
		if !a.Equal(b) {
			t.Fatalf("seed %d: identical rerolls diverged:\n%+v\n%+v", seed, a, b)
		}
	}
}

func TestRerollAttributeTouchesOnlyTarget(t *testing.T) {
	w := New(dice.NewRoller(23), "")
	before := w.Clone()

	if !RerollAttribute(dice.NewRoller(99), w, "tech_level") {
		t.Fatal("tech_level not recognized")
	}
	before.TechLevel = w.TechLevel
	if !w.Equal(before) {
		t.Fatalf("tech level reroll changed other fields:\nhave %+v\nwant %+v", w, before)
	}

	if !RerollAttribute(dice.NewRoller(99), w, "culture") {
		t.Fatal("culture not recognized")
	}
	before.TechLevel = w.TechLevel
	before.Culture = w.Culture
	if !w.Equal(before) {
		t.Fatalf("culture reroll changed other fields:\nhave %+v\nwant %+v", w, before)
	}
}

func TestRerollAttributeSmallBodyShortCircuits(t *testing.T) {
	w := New(dice.NewRoller(29), "")
	w.Size = 0
	w.Atmosphere = 7
	w.Hydrographics = 5

	RerollAttribute(dice.NewRoller(1), w, "atmosphere")
	if w.Atmosphere != 0 {
		t.Fatalf("size-0 body rerolled atmosphere %d, want 0", w.Atmosphere)
	}
	RerollAttribute(dice.NewRoller(1), w, "hydrographics")
	if w.Hydrographics != 0 {
		t.Fatalf("size-0 body rerolled hydrographics %d, want 0", w.Hydrographics)
	}
}

func TestRerollAttributeUnknown(t *testing.T) {
	w := New(dice.NewRoller(31), "")
	before := w.Clone()
	if RerollAttribute(dice.NewRoller(1), w, "gravity") {
		t.Fatal("unknown attribute accepted")
	}
	if !w.Equal(before) {
		t.Fatal("unknown attribute mutated the world")
	}
}

func TestRollPresenceThreshold(t *testing.T) {
	r := dice.NewRoller(17)
	// DM +6 forces every 2d6 roll to the threshold; DM -11 forces
	// every roll below it.
	for i := 0; i < 100; i++ {
		if !RollPresence(r, 6) {
			t.Fatalf("presence roll failed at DM +6")
		}
	}
	for i := 0; i < 100; i++ {
		if RollPresence(r, -11) {
			t.Fatalf("presence roll succeeded at DM -11")
		}
	}
}

func TestRandomNameShape(t *testing.T) {
	r := dice.NewRoller(19)
	for i := 0; i < 500; i++ {
		name := RandomName(r)
		if len(name) < 2 {
			t.Fatalf("name too short: %q", name)
		}
		if name[0] < 'A' || name[0] > 'Z' {
			t.Fatalf("name not capitalized: %q", name)
		}
	}
}
