package raffle

import "errors"

var (
	// ErrExhaustedPopulation indicates no undrawn identifiers remain for the request.
	ErrExhaustedPopulation = errors.New("raffle: no enough items to draw")

	// ErrInvalidSupply indicates a population was created with zero items.
	ErrInvalidSupply = errors.New("raffle: supply must be positive")

	// ErrStorage indicates the slot store failed to read or write.
	ErrStorage = errors.New("raffle: slot storage failure")

	// ErrPopulationExists indicates a population with this name is already stored.
	ErrPopulationExists = errors.New("raffle: population already exists")

	// ErrPopulationNotFound indicates no population with this name is stored.
	ErrPopulationNotFound = errors.New("raffle: population not found")

	// ErrMetaNotFound indicates no metadata is stored under the key.
	ErrMetaNotFound = errors.New("raffle: metadata not found")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("raffle: required parameter is nil")
)
