package views

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the pages do. Register it with the registry served on
// /metrics to export it.
type Metrics struct {
	renders *prometheus.CounterVec
	logins  *prometheus.CounterVec
	market  prometheus.Gauge
}

// Login outcomes.
const (
	loginSuccess   = "success"
	loginRejected  = "rejected"
	loginThrottled = "throttled"
	loginFailed    = "error"
)

// NewMetrics creates the page metrics, registering them with reg unless it
// is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finweb",
			Name:      "page_renders_total",
			Help:      "Pages rendered, by page and status code.",
		}, []string{"page", "code"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finweb",
			Name:      "logins_total",
			Help:      "Sign in attempts through the login page, by outcome.",
		}, []string{"outcome"}),
		market: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "finweb",
			Name:      "market_open",
			Help:      "1 while the NSE trading session is open.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.renders, m.logins, m.market)
	}
	return m
}

// Market records whether the market is open.
func (m *Metrics) Market(open bool) {
	if open {
		m.market.Set(1)
		return
	}
	m.market.Set(0)
}
