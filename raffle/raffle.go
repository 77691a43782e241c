// Package raffle draws unique item identifiers from a shrinking population.
//
// A population of N items is a lazily initialised permutation of 0..N-1 kept in
// a sparse slot map: a slot with no stored value holds its own index. Each draw
// picks a random live slot, returns its value and moves the last live value into
// the hole, so a draw costs one random number and one slot write regardless of N.
package raffle

import "fmt"

// Raffle is a draw-without-replacement population.
//
// A Raffle is not safe for concurrent use; callers serialise access.
type Raffle struct {
	remaining uint64
	slots     Slots
	rng       RandomSource
}

// New creates a population of supply items backed by slots, which must be empty.
func New(supply uint64, slots Slots, rng RandomSource) (*Raffle, error) {
	if supply == 0 {
		return nil, ErrInvalidSupply
	}
	return Resume(supply, slots, rng)
}

// Resume rebuilds a population over slots that already hold the state of
// earlier draws, with remaining items still undrawn.
func Resume(remaining uint64, slots Slots, rng RandomSource) (*Raffle, error) {
	if slots == nil {
		return nil, fmt.Errorf("%w: slots", ErrNilParam)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source", ErrNilParam)
	}
	return &Raffle{remaining: remaining, slots: slots, rng: rng}, nil
}

// ItemsLeft returns the number of identifiers not yet drawn.
func (r *Raffle) ItemsLeft() uint64 {
	return r.remaining
}

// Draw removes and returns one identifier chosen uniformly at random from
// those remaining.
func (r *Raffle) Draw() (uint64, error) {
	if r.remaining == 0 {
		return 0, ErrExhaustedPopulation
	}

	last := r.remaining - 1
	i := r.rng.UniformBelow(r.remaining)

	result, err := r.item(i)
	if err != nil {
		return 0, err
	}
	moved, err := r.item(last)
	if err != nil {
		return 0, err
	}

	// Slot `last` is left as is; it falls out of range once remaining shrinks.
	if err := r.slots.SetSlot(i, moved); err != nil {
		return 0, fmt.Errorf("%w: set slot %d: %w", ErrStorage, i, err)
	}
	r.remaining = last
	return result, nil
}

// DrawMany draws n identifiers as one unit. If fewer than n remain it fails
// with ErrExhaustedPopulation before drawing anything. The draws are staged and
// reach slots only after all n succeed; if writing them fails, the slots
// already written are restored and the population is left unchanged.
func (r *Raffle) DrawMany(n uint64) ([]uint64, error) {
	if n > r.remaining {
		return nil, fmt.Errorf("%w: requested %d, %d left", ErrExhaustedPopulation, n, r.remaining)
	}

	batch := newStagedSlots(r.slots)
	staged := &Raffle{remaining: r.remaining, slots: batch, rng: r.rng}

	ids := make([]uint64, 0, n)
	for k := uint64(0); k < n; k++ {
		id, err := staged.Draw()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := batch.commit(); err != nil {
		return nil, err
	}
	r.remaining = staged.remaining
	return ids, nil
}

// item returns the effective value of slot i.
func (r *Raffle) item(i uint64) (uint64, error) {
	v, ok, err := r.slots.Slot(i)
	if err != nil {
		return 0, fmt.Errorf("%w: get slot %d: %w", ErrStorage, i, err)
	}
	if !ok {
		return i, nil
	}
	return v, nil
}
