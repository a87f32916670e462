package subsector

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Absle/swt-gen/internal/astro"
)

// Versioned JSON document codec. Worlds are keyed by their "CCRR"
// string; loads are validated against the embedded schema before any
// field is trusted.

//go:embed schemas/subsector.schema.json
var schemaJSON string

var documentSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("subsector.schema.json", strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("embedded schema: %v", err))
	}
	return c.MustCompile("subsector.schema.json")
}

// Save serializes the subsector document.
func Save(s *Subsector) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding subsector: %w", err)
	}
	return data, nil
}

// Load parses and fully validates a serialized document. Shape and
// version problems surface as ErrSchemaMismatch; a document that
// parses but violates model invariants is rejected too, so a load
// never yields a half-trusted subsector.
func Load(data []byte) (*Subsector, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if err := documentSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	var s Subsector
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if s.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: version %d, this build reads %d", ErrSchemaMismatch, s.Version, SchemaVersion)
	}
	if s.Worlds == nil {
		s.Worlds = make(map[Coordinate]*astro.World)
	}
	if err := s.CheckIntegrity(); err != nil {
		return nil, err
	}
	return &s, nil
}

// CheckIntegrity verifies the model invariants a schema cannot see:
// coordinates inside the grid, faction claims resolving to occupied
// hexes, and stored trade codes agreeing with each world's UWP.
func (s *Subsector) CheckIntegrity() error {
	for c, w := range s.Worlds {
		if err := s.Grid.Check(c); err != nil {
			return err
		}
		if !tradeCodesCurrent(w) {
			return fmt.Errorf("%w: %s %s has codes %s", ErrStaleDerivedData, c, w.Profile(), w.TradeCodeString())
		}
	}
	for _, f := range s.Factions {
		for _, claim := range f.Claims {
			if err := s.Grid.Check(claim); err != nil {
				return err
			}
			if !s.Occupied(claim) {
				return fmt.Errorf("%w: faction %q claims empty hex %s", ErrDanglingReference, f.Name, claim)
			}
		}
	}
	return nil
}

func tradeCodesCurrent(w *astro.World) bool {
	want := astro.Classify(w)
	if len(want) != len(w.TradeCodes) {
		return false
	}
	have := make(map[astro.TradeCode]bool, len(w.TradeCodes))
	for _, code := range w.TradeCodes {
		have[code] = true
	}
	for _, code := range want {
		if !have[code] {
			return false
		}
	}
	return true
}
