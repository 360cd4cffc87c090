package client

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts exchanges and refresh outcomes. A nil *Metrics is a no-op.
type Metrics struct {
	requests  *prometheus.CounterVec
	refreshes *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentdesk",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API exchanges by method and outcome code.",
		}, []string{"method", "code"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentdesk",
			Subsystem: "client",
			Name:      "refresh_total",
			Help:      "Credential refresh attempts by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.refreshes)
	}
	return m
}

func (m *Metrics) observeStatus(method string, status int) {
	m.observe(method, strconv.Itoa(status))
}

func (m *Metrics) observe(method, code string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, code).Inc()
}

func (m *Metrics) observeRefresh(result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
}
