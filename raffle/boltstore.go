package raffle

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketPopulations = []byte("populations")
	bucketSlots       = []byte("slots")
	bucketMeta        = []byte("meta")
	keyRemaining      = []byte("remaining")
	keySupply         = []byte("supply")
)

// BoltStore persists named populations in a bbolt database.
//
// Every batch draw runs in a single read-write transaction: either all of its
// slot writes and the new remaining count are committed, or none are.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("raffle: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("raffle: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketPopulations); err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketPopulations, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("raffle: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// CreatePopulation stores a new population of supply items under name.
func (s *BoltStore) CreatePopulation(name string, supply uint64) error {
	if supply == 0 {
		return ErrInvalidSupply
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(bucketPopulations)
		if root.Bucket([]byte(name)) != nil {
			return fmt.Errorf("%w: %q", ErrPopulationExists, name)
		}
		pb, err := root.CreateBucket([]byte(name))
		if err != nil {
			return fmt.Errorf("boltstore: create population %q: %w", name, err)
		}
		if _, err := pb.CreateBucket(bucketSlots); err != nil {
			return fmt.Errorf("boltstore: create slots for %q: %w", name, err)
		}
		if err := pb.Put(keySupply, u64Key(supply)); err != nil {
			return fmt.Errorf("boltstore: put supply: %w", err)
		}
		if err := pb.Put(keyRemaining, u64Key(supply)); err != nil {
			return fmt.Errorf("boltstore: put remaining: %w", err)
		}
		return nil
	})
}

// Remaining returns the number of undrawn items in the named population.
func (s *BoltStore) Remaining(name string) (uint64, error) {
	var remaining uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		pb, err := population(tx, name)
		if err != nil {
			return err
		}
		remaining, err = readU64(pb, keyRemaining)
		return err
	})
	return remaining, err
}

// Supply returns the initial size of the named population.
func (s *BoltStore) Supply(name string) (uint64, error) {
	var supply uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		pb, err := population(tx, name)
		if err != nil {
			return err
		}
		supply, err = readU64(pb, keySupply)
		return err
	})
	return supply, err
}

// Draw draws n identifiers from the named population in one transaction.
// On any error nothing is committed.
func (s *BoltStore) Draw(name string, rng RandomSource, n uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		pb, err := population(tx, name)
		if err != nil {
			return err
		}
		remaining, err := readU64(pb, keyRemaining)
		if err != nil {
			return err
		}

		r, err := Resume(remaining, &boltSlots{b: pb.Bucket(bucketSlots)}, rng)
		if err != nil {
			return err
		}
		ids, err = r.DrawMany(n)
		if err != nil {
			return err
		}
		if err := pb.Put(keyRemaining, u64Key(r.ItemsLeft())); err != nil {
			return fmt.Errorf("boltstore: put remaining: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SetMeta stores an opaque value under key alongside the named population.
func (s *BoltStore) SetMeta(name, key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		pb, err := population(tx, name)
		if err != nil {
			return err
		}
		mb, err := pb.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketMeta, err)
		}
		return mb.Put([]byte(key), value)
	})
}

// Meta returns the value stored under key for the named population, or
// ErrMetaNotFound.
func (s *BoltStore) Meta(name, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		pb, err := population(tx, name)
		if err != nil {
			return err
		}
		var v []byte
		if mb := pb.Bucket(bucketMeta); mb != nil {
			v = mb.Get([]byte(key))
		}
		if v == nil {
			return fmt.Errorf("%w: %q/%q", ErrMetaNotFound, name, key)
		}
		// Values are only valid for the life of the transaction.
		value = append([]byte(nil), v...)
		return nil
	})
	return value, err
}

// Population binds a named population and a random source into a value that
// draws through the store.
func (s *BoltStore) Population(name string, rng RandomSource) *BoltPopulation {
	return &BoltPopulation{store: s, name: name, rng: rng}
}

// BoltPopulation is a named population in a BoltStore.
type BoltPopulation struct {
	store *BoltStore
	name  string
	rng   RandomSource
}

// DrawMany draws n identifiers atomically.
func (p *BoltPopulation) DrawMany(n uint64) ([]uint64, error) {
	return p.store.Draw(p.name, p.rng, n)
}

// ItemsLeft returns the number of undrawn items.
func (p *BoltPopulation) ItemsLeft() (uint64, error) {
	return p.store.Remaining(p.name)
}

// boltSlots adapts a slots bucket inside an open transaction to Slots.
type boltSlots struct {
	b *bbolt.Bucket
}

// Compile-time interface check.
var _ Slots = (*boltSlots)(nil)

func (s *boltSlots) Slot(index uint64) (uint64, bool, error) {
	v := s.b.Get(u64Key(index))
	if v == nil {
		return 0, false, nil
	}
	if len(v) != 8 {
		return 0, false, fmt.Errorf("boltstore: slot %d has %d bytes", index, len(v))
	}
	return binary.BigEndian.Uint64(v), true, nil
}

func (s *boltSlots) SetSlot(index, value uint64) error {
	return s.b.Put(u64Key(index), u64Key(value))
}

func population(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	pb := tx.Bucket(bucketPopulations).Bucket([]byte(name))
	if pb == nil {
		return nil, fmt.Errorf("%w: %q", ErrPopulationNotFound, name)
	}
	return pb, nil
}

func readU64(b *bbolt.Bucket, key []byte) (uint64, error) {
	v := b.Get(key)
	if len(v) != 8 {
		return 0, fmt.Errorf("%w: bad %s record", ErrStorage, key)
	}
	return binary.BigEndian.Uint64(v), nil
}

// u64Key encodes v as an 8-byte big-endian key for sorted storage.
func u64Key(v uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, v)
	return k
}
