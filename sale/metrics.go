package sale

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "raffle"

// Buy failure reasons.
const (
	reasonDeposit   = "deposit"
	reasonExhausted = "exhausted"
	reasonStorage   = "storage"
	reasonMint      = "mint"
	reasonInvalid   = "invalid"
)

// Metrics holds the sale's Prometheus collectors.
type Metrics struct {
	TokensDrawn      prometheus.Counter
	BuyFailures      *prometheus.CounterVec
	Payouts          prometheus.Counter
	PayoutRejections prometheus.Counter
	ItemsLeft        prometheus.Gauge
}

// NewMetrics creates the sale collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := newMetrics()
	for _, c := range []prometheus.Collector{m.TokensDrawn, m.BuyFailures, m.Payouts, m.PayoutRejections, m.ItemsLeft} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("sale: register metrics: %w", err)
		}
	}
	return m, nil
}

// newMetrics creates unregistered collectors.
func newMetrics() *Metrics {
	return &Metrics{
		TokensDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tokens_drawn_total",
			Help:      "Token identifiers drawn and minted.",
		}),
		BuyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "buy_failures_total",
			Help:      "Rejected purchases by reason.",
		}, []string{"reason"}),
		Payouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "payouts_total",
			Help:      "Resale payouts computed.",
		}),
		PayoutRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "payout_rejections_total",
			Help:      "Payouts rejected for exceeding the entry cap.",
		}),
		ItemsLeft: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "items_left",
			Help:      "Undrawn token identifiers.",
		}),
	}
}
