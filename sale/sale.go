// Package sale runs a fixed-supply raffle token sale: purchases draw unissued
// token identifiers at random and mint them to the buyer, and resales are
// split between the current owner and the royalty recipients.
package sale

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/bitfsorg/libraffle-go/raffle"
	"github.com/bitfsorg/libraffle-go/royalty"
)

// Population is the set of token identifiers still for sale.
type Population interface {
	// DrawMany draws n identifiers, all or none.
	DrawMany(n uint64) ([]uint64, error)

	// ItemsLeft returns the number of undrawn identifiers.
	ItemsLeft() (uint64, error)
}

// Compile-time interface check.
var _ Population = (*raffle.BoltPopulation)(nil)

// FromRaffle adapts an in-memory raffle to Population.
func FromRaffle(r *raffle.Raffle) Population {
	return memPopulation{r}
}

type memPopulation struct {
	r *raffle.Raffle
}

func (p memPopulation) DrawMany(n uint64) ([]uint64, error) { return p.r.DrawMany(n) }
func (p memPopulation) ItemsLeft() (uint64, error)          { return p.r.ItemsLeft(), nil }

// Config holds the fixed terms of a sale.
type Config struct {
	// UnitPrice is the price of one token.
	UnitPrice uint64

	// Royalty splits resales. Nil means the owner receives the whole balance.
	Royalty *royalty.Royalty

	// MaxLenPayout caps the entries of a resale payout. Zero means no cap.
	MaxLenPayout uint32
}

// Option configures a Sale.
type Option func(*Sale)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Sale) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics sets the metrics the sale reports to. Nil keeps the default
// unregistered collectors.
func WithMetrics(m *Metrics) Option {
	return func(s *Sale) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Sale sequences draws, minting and resale payouts.
//
// Buy is not safe for concurrent use unless the Population serialises draws
// itself, as raffle.BoltPopulation does.
type Sale struct {
	pop     Population
	ledger  Ledger
	cfg     Config
	log     logrus.FieldLogger
	metrics *Metrics
}

// New creates a sale over pop, minting into ledger.
func New(pop Population, ledger Ledger, cfg Config, opts ...Option) (*Sale, error) {
	if pop == nil {
		return nil, fmt.Errorf("%w: population", ErrNilParam)
	}
	if ledger == nil {
		return nil, fmt.Errorf("%w: ledger", ErrNilParam)
	}
	if cfg.Royalty == nil {
		none, err := royalty.New(nil, 0)
		if err != nil {
			return nil, err
		}
		cfg.Royalty = none
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	s := &Sale{
		pop:     pop,
		ledger:  ledger,
		cfg:     cfg,
		log:     quiet,
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// UnitPrice returns the price of one token.
func (s *Sale) UnitPrice() uint64 {
	return s.cfg.UnitPrice
}

// CostFor returns the price of n tokens.
func (s *Sale) CostFor(n uint64) (uint64, error) {
	hi, cost := bits.Mul64(n, s.cfg.UnitPrice)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d tokens at %d", ErrCostOverflow, n, s.cfg.UnitPrice)
	}
	return cost, nil
}

// ItemsLeft returns the number of tokens still for sale.
func (s *Sale) ItemsLeft() (uint64, error) {
	return s.pop.ItemsLeft()
}

// Buy draws n tokens for buyer, who attached deposit, and mints them.
// It returns the minted token ids. Nothing is drawn unless the deposit covers
// the cost and n tokens remain.
func (s *Sale) Buy(buyer royalty.Account, n, deposit uint64) ([]string, error) {
	log := s.log.WithFields(logrus.Fields{"buyer": buyer, "count": n})

	if buyer == "" {
		s.fail(reasonInvalid)
		return nil, ErrInvalidAccount
	}
	if n == 0 {
		s.fail(reasonInvalid)
		return nil, ErrZeroCount
	}
	cost, err := s.CostFor(n)
	if err != nil {
		s.fail(reasonInvalid)
		return nil, err
	}
	if deposit < cost {
		s.fail(reasonDeposit)
		log.WithField("cost", cost).Debug("deposit too small")
		return nil, fmt.Errorf("%w: require %d, attached %d", ErrInsufficientDeposit, cost, deposit)
	}

	ids, err := s.pop.DrawMany(n)
	if err != nil {
		if errors.Is(err, raffle.ErrExhaustedPopulation) {
			s.fail(reasonExhausted)
		} else {
			s.fail(reasonStorage)
		}
		log.WithError(err).Warn("draw failed")
		return nil, err
	}

	tokenIDs := make([]string, len(ids))
	for i, id := range ids {
		tokenIDs[i] = strconv.FormatUint(id, 10)
	}
	if err := s.ledger.Mint(buyer, tokenIDs); err != nil {
		s.fail(reasonMint)
		log.WithError(err).Error("mint failed after draw")
		return nil, fmt.Errorf("sale: mint: %w", err)
	}

	s.metrics.TokensDrawn.Add(float64(n))
	if left, err := s.pop.ItemsLeft(); err == nil {
		s.metrics.ItemsLeft.Set(float64(left))
	}
	log.WithField("token_ids", tokenIDs).Info("tokens minted")
	return tokenIDs, nil
}

// Payout splits a resale balance for tokenID between its owner and the
// royalty recipients, applying the configured entry cap.
func (s *Sale) Payout(tokenID string, balance uint64) (royalty.Payout, error) {
	if s.cfg.MaxLenPayout == 0 {
		return s.payout(tokenID, balance, nil)
	}
	limit := s.cfg.MaxLenPayout
	return s.payout(tokenID, balance, &limit)
}

// PayoutCapped is Payout with an explicit entry cap.
func (s *Sale) PayoutCapped(tokenID string, balance uint64, maxLen uint32) (royalty.Payout, error) {
	return s.payout(tokenID, balance, &maxLen)
}

// VerifyPayout checks a payout proposed for the resale of tokenID against the
// one the royalty terms give its current owner.
func (s *Sale) VerifyPayout(tokenID string, balance uint64, proposed royalty.Payout) error {
	owner, err := s.ledger.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if err := royalty.ValidatePayout(s.cfg.Royalty, proposed, balance, owner); err != nil {
		s.metrics.PayoutRejections.Inc()
		s.log.WithFields(logrus.Fields{"token_id": tokenID, "owner": owner}).WithError(err).Warn("payout mismatch")
		return fmt.Errorf("%w: %w", ErrPayoutMismatch, err)
	}
	return nil
}

func (s *Sale) payout(tokenID string, balance uint64, maxLen *uint32) (royalty.Payout, error) {
	owner, err := s.ledger.OwnerOf(tokenID)
	if err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{"token_id": tokenID, "owner": owner})
	if maxLen == nil {
		p := s.cfg.Royalty.CalculatePayout(balance, owner)
		s.metrics.Payouts.Inc()
		log.WithField("payout_len", len(p)).Debug("payout computed")
		return p, nil
	}

	p, err := s.cfg.Royalty.CalculatePayoutCapped(balance, owner, *maxLen)
	if err != nil {
		s.metrics.PayoutRejections.Inc()
		log.WithError(err).Warn("payout rejected")
		return nil, err
	}
	s.metrics.Payouts.Inc()
	log.WithField("payout_len", len(p)).Debug("payout computed")
	return p, nil
}

func (s *Sale) fail(reason string) {
	s.metrics.BuyFailures.WithLabelValues(reason).Inc()
}
