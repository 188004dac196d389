package monitor

import (
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vault"

// Metrics groups Prometheus collectors updated by Monitor.
type Metrics struct {
	events       *prometheus.CounterVec
	decodeErrors prometheus.Counter

	deposited prometheus.Counter
	withdrawn prometheus.Counter
	submitted prometheus.Counter
}

// NewMetrics creates Vault metrics and registers them in reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Number of processed contract notifications",
			},
			[]string{"event"},
		),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Number of contract notifications that could not be decoded",
		}),
		deposited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposited_gas_total",
			Help:      "Amount of GAS deposited to vaults",
		}),
		withdrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawn_gas_total",
			Help:      "Amount of GAS withdrawn from vaults",
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submitted_gas_total",
			Help:      "Amount of GAS staged in pending transactions",
		}),
	}

	reg.MustRegister(m.events, m.decodeErrors, m.deposited, m.withdrawn, m.submitted)

	return m
}

// gas converts amount of GAS fractions to GAS.
func gas(amount *big.Int) float64 {
	return fixedn.Fixed8(amount.Int64()).FloatValue()
}
