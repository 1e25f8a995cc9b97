package usecase

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the workflow counters exported on /metrics.
type Metrics struct {
	OrdersCreated *prometheus.CounterVec
	Transitions   *prometheus.CounterVec
	ProofUploads  *prometheus.CounterVec
	Grants        *prometheus.CounterVec
}

// NewMetrics creates and registers the workflow counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payment",
			Name:      "orders_created_total",
			Help:      "Orders created, by item type and pricing.",
		}, []string{"item_type", "pricing"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payment",
			Name:      "order_transitions_total",
			Help:      "Committed order state transitions.",
		}, []string{"from", "to"}),
		ProofUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payment",
			Name:      "proof_uploads_total",
			Help:      "Payment proof uploads, by outcome.",
		}, []string{"result"}),
		Grants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payment",
			Name:      "entitlement_grants_total",
			Help:      "Entitlement grant calls, by whether a new row was written.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.OrdersCreated, m.Transitions, m.ProofUploads, m.Grants)
	return m
}
