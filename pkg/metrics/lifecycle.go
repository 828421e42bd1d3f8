package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics records reservation lifecycle activity.
type LifecycleMetrics struct {
	transitions *prometheus.CounterVec
	payments    *prometheus.CounterVec
	payouts     prometheus.Counter
	refunds     *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
}

// NewLifecycleMetrics registers the lifecycle metrics on the provided registerer.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	if reg == nil {
		return &LifecycleMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_transitions_total",
		Help: "Reservation status transitions by from/to status.",
	}, []string{"from", "to"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_total",
		Help: "Payment attempts by outcome.",
	}, []string{"outcome"})
	payouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payouts_scheduled_total",
		Help: "Pending payouts scheduled after move-in confirmation.",
	})
	refunds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refund_requests_total",
		Help: "Refund requests created by path.",
	}, []string{"path"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transition_conflicts_total",
		Help: "Status transitions rejected because the prior status changed underneath the caller.",
	}, []string{"operation"})
	reg.MustRegister(transitions, payments, payouts, refunds, conflicts)
	return &LifecycleMetrics{
		transitions: transitions,
		payments:    payments,
		payouts:     payouts,
		refunds:     refunds,
		conflicts:   conflicts,
	}
}

// IncTransition counts one successful status transition.
func (m *LifecycleMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncPayment counts one payment attempt by outcome.
func (m *LifecycleMetrics) IncPayment(outcome string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncPayoutScheduled counts one scheduled payout.
func (m *LifecycleMetrics) IncPayoutScheduled() {
	if m == nil || m.payouts == nil {
		return
	}
	m.payouts.Inc()
}

// IncRefundRequest counts one refund request by creation path.
func (m *LifecycleMetrics) IncRefundRequest(path string) {
	if m == nil || m.refunds == nil {
		return
	}
	m.refunds.WithLabelValues(normalizeLabel(path)).Inc()
}

// IncConflict counts one optimistic-concurrency rejection.
func (m *LifecycleMetrics) IncConflict(operation string) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
