package raffle

import (
	"errors"
	"fmt"
	"sync"
)

// Slots is the sparse slot map behind a population. A raffle is the sole
// owner of the keys it writes.
type Slots interface {
	// Slot returns the value stored at index, or ok == false if none is stored.
	Slot(index uint64) (value uint64, ok bool, err error)

	// SetSlot stores value at index.
	SetSlot(index, value uint64) error
}

// MemSlots is an in-memory implementation of Slots.
type MemSlots struct {
	mu    sync.RWMutex
	items map[uint64]uint64
}

// Compile-time interface check.
var _ Slots = (*MemSlots)(nil)

// NewMemSlots creates an empty in-memory slot map.
func NewMemSlots() *MemSlots {
	return &MemSlots{items: make(map[uint64]uint64)}
}

// Slot returns the value stored at index.
func (m *MemSlots) Slot(index uint64) (uint64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[index]
	return v, ok, nil
}

// SetSlot stores value at index.
func (m *MemSlots) SetSlot(index, value uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[index] = value
	return nil
}

// Len returns the number of stored overrides.
func (m *MemSlots) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

type slotWrite struct{ index, value uint64 }

// stagedSlots buffers writes over base until commit.
type stagedSlots struct {
	base    Slots
	pending map[uint64]uint64
	order   []uint64
}

func newStagedSlots(base Slots) *stagedSlots {
	return &stagedSlots{base: base, pending: make(map[uint64]uint64)}
}

func (s *stagedSlots) Slot(index uint64) (uint64, bool, error) {
	if v, ok := s.pending[index]; ok {
		return v, true, nil
	}
	return s.base.Slot(index)
}

func (s *stagedSlots) SetSlot(index, value uint64) error {
	if _, ok := s.pending[index]; !ok {
		s.order = append(s.order, index)
	}
	s.pending[index] = value
	return nil
}

// commit writes the pending values to base. If a write fails, the slots
// already written are restored to their previous effective values.
func (s *stagedSlots) commit() error {
	undo := make([]slotWrite, 0, len(s.order))

	for _, index := range s.order {
		prev, ok, err := s.base.Slot(index)
		if err != nil {
			return errors.Join(fmt.Errorf("%w: get slot %d: %w", ErrStorage, index, err), s.restore(undo))
		}
		if !ok {
			prev = index
		}
		if err := s.base.SetSlot(index, s.pending[index]); err != nil {
			return errors.Join(fmt.Errorf("%w: set slot %d: %w", ErrStorage, index, err), s.restore(undo))
		}
		undo = append(undo, slotWrite{index, prev})
	}
	return nil
}

func (s *stagedSlots) restore(undo []slotWrite) error {
	var errs []error
	for k := len(undo) - 1; k >= 0; k-- {
		if err := s.base.SetSlot(undo[k].index, undo[k].value); err != nil {
			errs = append(errs, fmt.Errorf("%w: restore slot %d: %w", ErrStorage, undo[k].index, err))
		}
	}
	return errors.Join(errs...)
}
