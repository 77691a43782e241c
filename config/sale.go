// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bitfsorg/libraffle-go/raffle"
	"github.com/bitfsorg/libraffle-go/royalty"
	"github.com/bitfsorg/libraffle-go/sale"
)

// PopulationName is the population a configured sale draws from.
const PopulationName = "sale"

// metaRoyalty is the metadata key holding the serialized royalty terms.
const metaRoyalty = "royalty"

// SaleConfig returns the sale terms described by cfg.
func SaleConfig(cfg Config) (sale.Config, error) {
	r, err := BuildRoyalty(cfg)
	if err != nil {
		return sale.Config{}, err
	}
	return sale.Config{
		UnitPrice:    cfg.UnitPrice,
		Royalty:      r,
		MaxLenPayout: cfg.MaxLenPayout,
	}, nil
}

// OpenSale opens the population database under cfg.DataDir and returns a sale
// drawing from it with rng. The caller closes the returned store.
//
// On first use the population is created with cfg.Supply items and the
// royalty terms are stored next to it. Later opens must carry the same supply
// and royalty terms.
func OpenSale(cfg Config, ledger sale.Ledger, rng raffle.RandomSource, opts ...sale.Option) (*sale.Sale, *raffle.BoltStore, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, nil, err
	}
	terms, err := SaleConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := raffle.OpenBoltStore(DBPath(cfg.DataDir))
	if err != nil {
		return nil, nil, err
	}
	if err := bindPopulation(store, cfg.Supply, terms.Royalty); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	s, err := sale.New(store.Population(PopulationName, rng), ledger, terms, opts...)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return s, store, nil
}

// bindPopulation creates the sale population or checks an existing one
// against supply and r.
func bindPopulation(store *raffle.BoltStore, supply uint64, r *royalty.Royalty) error {
	want := royalty.Serialize(r)

	err := store.CreatePopulation(PopulationName, supply)
	switch {
	case err == nil:
		return store.SetMeta(PopulationName, metaRoyalty, want)
	case !errors.Is(err, raffle.ErrPopulationExists):
		return err
	}

	stored, err := store.Supply(PopulationName)
	if err != nil {
		return err
	}
	if stored != supply {
		return fmt.Errorf("%w: stored %d, configured %d", ErrSupplyMismatch, stored, supply)
	}

	data, err := store.Meta(PopulationName, metaRoyalty)
	if errors.Is(err, raffle.ErrMetaNotFound) {
		return store.SetMeta(PopulationName, metaRoyalty, want)
	}
	if err != nil {
		return err
	}
	existing, err := royalty.Deserialize(data)
	if err != nil {
		return err
	}
	if !bytes.Equal(royalty.Serialize(existing), want) {
		return fmt.Errorf("%w: stored %q (pool %d), configured %q (pool %d)", ErrRoyaltyMismatch,
			FormatRoyalties(existing), existing.PoolRate(), FormatRoyalties(r), r.PoolRate())
	}
	return nil
}
