package subsector

import "errors"

// Sentinel errors for the mutation and codec surfaces. Callers branch
// with errors.Is; the HTTP layer maps these onto status codes.
var (
	// ErrInvalidCoordinate marks a coordinate that is malformed or
	// outside the subsector grid.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrEmptyHex marks an operation that needs a world where the hex
	// holds none.
	ErrEmptyHex = errors.New("no world at hex")

	// ErrOccupiedTarget marks a move onto a hex that already holds a
	// world.
	ErrOccupiedTarget = errors.New("target hex occupied")

	// ErrDanglingReference marks faction claims that point at hexes
	// without worlds.
	ErrDanglingReference = errors.New("dangling faction reference")

	// ErrSchemaMismatch marks a serialized document whose version or
	// shape this build cannot read.
	ErrSchemaMismatch = errors.New("document schema mismatch")

	// ErrStaleDerivedData marks a loaded world whose stored trade
	// codes disagree with its UWP attributes.
	ErrStaleDerivedData = errors.New("stale derived data")

	// ErrUnknownField marks an edit against a field name the world
	// record does not expose.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidFieldValue marks an edit value that fails to parse or
	// validate for its field.
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrUnknownFaction marks a faction lookup by a name that is not
	// registered.
	ErrUnknownFaction = errors.New("unknown faction")
)
