package sale

import (
	"errors"
	"math"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libraffle-go/raffle"
	"github.com/bitfsorg/libraffle-go/royalty"
)

const unitPrice = 100_000_000

func memPop(t *testing.T, supply uint64, seed string) Population {
	t.Helper()
	r, err := raffle.New(supply, raffle.NewMemSlots(), raffle.NewSeedSource([]byte(seed)))
	require.NoError(t, err)
	return FromRaffle(r)
}

func newTestSale(t *testing.T, pop Population, cfg Config) (*Sale, *MemLedger, *Metrics) {
	t.Helper()
	ledger := NewMemLedger()
	m := newMetrics()
	s, err := New(pop, ledger, cfg, WithMetrics(m))
	require.NoError(t, err)
	return s, ledger, m
}

type failingLedger struct {
	*MemLedger
}

func (failingLedger) Mint(royalty.Account, []string) error {
	return errors.New("ledger offline")
}

// --- Buy ---

func TestBuy_MintsDrawnTokens(t *testing.T) {
	s, ledger, m := newTestSale(t, memPop(t, 20, "buy"), Config{UnitPrice: unitPrice})

	ids, err := s.Buy("alice.near", 3, 3*unitPrice)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	for _, id := range ids {
		n, err := strconv.ParseUint(id, 10, 64)
		require.NoError(t, err)
		assert.Less(t, n, uint64(20))

		owner, err := ledger.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, royalty.Account("alice.near"), owner)
	}

	left, err := s.ItemsLeft()
	require.NoError(t, err)
	assert.Equal(t, uint64(17), left)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.TokensDrawn))
	assert.Equal(t, float64(17), testutil.ToFloat64(m.ItemsLeft))
}

func TestBuy_SellsOutExactly(t *testing.T) {
	s, ledger, _ := newTestSale(t, memPop(t, 20, "sellout"), Config{UnitPrice: 1})

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		ids, err := s.Buy("bob.near", 1, 1)
		require.NoError(t, err)
		require.Len(t, ids, 1)
		assert.False(t, seen[ids[0]], "token %s sold twice", ids[0])
		seen[ids[0]] = true
	}
	assert.Equal(t, 20, ledger.Count())

	_, err := s.Buy("bob.near", 1, 1)
	assert.ErrorIs(t, err, raffle.ErrExhaustedPopulation)
}

func TestBuy_ExcessDepositAccepted(t *testing.T) {
	s, _, _ := newTestSale(t, memPop(t, 5, "excess"), Config{UnitPrice: 10})
	ids, err := s.Buy("alice.near", 2, 1_000)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestBuy_InsufficientDepositDrawsNothing(t *testing.T) {
	s, ledger, m := newTestSale(t, memPop(t, 5, "deposit"), Config{UnitPrice: 10})

	_, err := s.Buy("alice.near", 2, 19)
	assert.ErrorIs(t, err, ErrInsufficientDeposit)

	left, err := s.ItemsLeft()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), left)
	assert.Equal(t, 0, ledger.Count())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BuyFailures.WithLabelValues(reasonDeposit)))
}

func TestBuy_TooManyDrawsNothing(t *testing.T) {
	s, ledger, m := newTestSale(t, memPop(t, 3, "many"), Config{UnitPrice: 1})

	_, err := s.Buy("alice.near", 4, 4)
	assert.ErrorIs(t, err, raffle.ErrExhaustedPopulation)

	left, err := s.ItemsLeft()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), left)
	assert.Equal(t, 0, ledger.Count())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BuyFailures.WithLabelValues(reasonExhausted)))
}

func TestBuy_InvalidInput(t *testing.T) {
	s, _, m := newTestSale(t, memPop(t, 3, "invalid"), Config{UnitPrice: 2})

	_, err := s.Buy("alice.near", 0, 100)
	assert.ErrorIs(t, err, ErrZeroCount)

	_, err = s.Buy("", 1, 100)
	assert.ErrorIs(t, err, ErrInvalidAccount)

	_, err = s.Buy("alice.near", math.MaxUint64, math.MaxUint64)
	assert.ErrorIs(t, err, ErrCostOverflow)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.BuyFailures.WithLabelValues(reasonInvalid)))
}

func TestBuy_FreeSale(t *testing.T) {
	s, _, _ := newTestSale(t, memPop(t, 2, "free"), Config{})
	ids, err := s.Buy("alice.near", 2, 0)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestBuy_MintFailure(t *testing.T) {
	m := newMetrics()
	s, err := New(memPop(t, 3, "mint"), failingLedger{NewMemLedger()}, Config{UnitPrice: 1}, WithMetrics(m))
	require.NoError(t, err)

	_, err = s.Buy("alice.near", 1, 1)
	assert.ErrorContains(t, err, "ledger offline")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BuyFailures.WithLabelValues(reasonMint)))
}

func TestBuy_LogsMint(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	s, err := New(memPop(t, 4, "log"), NewMemLedger(), Config{UnitPrice: 1}, WithLogger(logger))
	require.NoError(t, err)

	ids, err := s.Buy("alice.near", 2, 2)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "tokens minted", entry.Message)
	assert.Equal(t, royalty.Account("alice.near"), entry.Data["buyer"])
	assert.Equal(t, ids, entry.Data["token_ids"])
}

func TestBuy_BoltPopulation(t *testing.T) {
	store, err := raffle.OpenBoltStore(filepath.Join(t.TempDir(), "raffle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.CreatePopulation("genesis", 10))

	pop := store.Population("genesis", raffle.NewSeedSource([]byte("bolt-sale")))
	s, ledger, _ := newTestSale(t, pop, Config{UnitPrice: 5})

	_, err = s.Buy("alice.near", 11, 55)
	assert.ErrorIs(t, err, raffle.ErrExhaustedPopulation)

	first, err := s.Buy("alice.near", 4, 20)
	require.NoError(t, err)
	second, err := s.Buy("bob.near", 6, 30)
	require.NoError(t, err)

	all := make(map[string]bool)
	for _, id := range append(first, second...) {
		all[id] = true
	}
	assert.Len(t, all, 10)
	assert.Equal(t, 10, ledger.Count())

	left, err := store.Remaining("genesis")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), left)
}

// --- Pricing ---

func TestCostFor(t *testing.T) {
	s, _, _ := newTestSale(t, memPop(t, 1, "cost"), Config{UnitPrice: 7})
	assert.Equal(t, uint64(7), s.UnitPrice())

	cost, err := s.CostFor(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), cost)

	_, err = s.CostFor(math.MaxUint64/7 + 1)
	assert.ErrorIs(t, err, ErrCostOverflow)
}

// --- Payout ---

func TestPayout_UsesCurrentOwner(t *testing.T) {
	roy, err := royalty.New(map[royalty.Account]royalty.Percentage{"alice": 5_000, "bob": 5_000}, 1_000)
	require.NoError(t, err)
	s, ledger, m := newTestSale(t, memPop(t, 5, "payout"), Config{UnitPrice: 1, Royalty: roy})

	ids, err := s.Buy("carol", 1, 1)
	require.NoError(t, err)

	payout, err := s.Payout(ids[0], 100_000_000)
	require.NoError(t, err)
	assert.Equal(t, royalty.Payout{"alice": 5_000_000, "bob": 5_000_000, "carol": 90_000_000}, payout)

	require.NoError(t, ledger.Transfer(ids[0], "alice"))
	payout, err = s.Payout(ids[0], 100_000_000)
	require.NoError(t, err)
	assert.Equal(t, royalty.Payout{"alice": 95_000_000, "bob": 5_000_000}, payout)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Payouts))
}

func TestPayout_NoRoyalty(t *testing.T) {
	s, _, _ := newTestSale(t, memPop(t, 2, "none"), Config{UnitPrice: 1})
	ids, err := s.Buy("carol", 1, 1)
	require.NoError(t, err)

	payout, err := s.Payout(ids[0], 42)
	require.NoError(t, err)
	assert.Equal(t, royalty.Payout{"carol": 42}, payout)
}

func TestPayout_Cap(t *testing.T) {
	roy, err := royalty.New(map[royalty.Account]royalty.Percentage{"alice": 5_000, "bob": 5_000}, 1_000)
	require.NoError(t, err)
	s, _, m := newTestSale(t, memPop(t, 2, "cap"), Config{UnitPrice: 1, Royalty: roy, MaxLenPayout: 2})
	ids, err := s.Buy("carol", 1, 1)
	require.NoError(t, err)

	_, err = s.Payout(ids[0], 100)
	assert.ErrorIs(t, err, royalty.ErrPayoutTooLarge)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PayoutRejections))

	payout, err := s.PayoutCapped(ids[0], 100, 3)
	require.NoError(t, err)
	assert.Len(t, payout, 3)
}

func TestPayout_UnknownToken(t *testing.T) {
	s, _, _ := newTestSale(t, memPop(t, 2, "unknown"), Config{UnitPrice: 1})
	_, err := s.Payout("99", 10)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

// --- Construction ---

func TestNew_NilParams(t *testing.T) {
	_, err := New(nil, NewMemLedger(), Config{})
	assert.ErrorIs(t, err, ErrNilParam)

	_, err = New(memPop(t, 1, "nil"), nil, Config{})
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestNewMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	m.TokensDrawn.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	_, err = NewMetrics(reg)
	assert.Error(t, err, "duplicate registration")
}

// brokenSlots rejects every write.
type brokenSlots struct {
	*raffle.MemSlots
}

func (brokenSlots) SetSlot(uint64, uint64) error {
	return errors.New("disk full")
}

func TestBuy_StorageFailureDrawsNothing(t *testing.T) {
	slots := brokenSlots{raffle.NewMemSlots()}
	r, err := raffle.New(10, slots, raffle.NewSeedSource([]byte("broken")))
	require.NoError(t, err)
	s, ledger, m := newTestSale(t, FromRaffle(r), Config{UnitPrice: 1})

	_, err = s.Buy("alice.near", 3, 3)
	assert.ErrorIs(t, err, raffle.ErrStorage)

	left, err := s.ItemsLeft()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), left, "all or none")
	assert.Equal(t, 0, ledger.Count())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BuyFailures.WithLabelValues(reasonStorage)))
}

func TestNew_NilOptionsKeepDefaults(t *testing.T) {
	s, err := New(memPop(t, 2, "nil-opts"), NewMemLedger(), Config{UnitPrice: 1},
		WithMetrics(nil), WithLogger(nil))
	require.NoError(t, err)

	ids, err := s.Buy("alice.near", 1, 1)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestVerifyPayout(t *testing.T) {
	roy, err := royalty.New(map[royalty.Account]royalty.Percentage{"alice": 5_000, "bob": 5_000}, 1_000)
	require.NoError(t, err)
	s, _, m := newTestSale(t, memPop(t, 2, "verify"), Config{UnitPrice: 1, Royalty: roy})
	ids, err := s.Buy("carol", 1, 1)
	require.NoError(t, err)

	good := royalty.Payout{"alice": 50, "bob": 50, "carol": 900}
	require.NoError(t, s.VerifyPayout(ids[0], 1_000, good))

	err = s.VerifyPayout(ids[0], 1_000, royalty.Payout{"carol": 1_000})
	assert.ErrorIs(t, err, ErrPayoutMismatch)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PayoutRejections))

	err = s.VerifyPayout("42", 1_000, good)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
