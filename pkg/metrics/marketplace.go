package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "swapsafe"

// TransactionMetrics counts dispatched transaction actions by outcome.
type TransactionMetrics struct {
	actions  *prometheus.CounterVec
	disputes *prometheus.CounterVec
}

// NewTransactionMetrics registers the transaction counters on reg.
func NewTransactionMetrics(reg prometheus.Registerer) *TransactionMetrics {
	if reg == nil {
		return &TransactionMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transaction_actions_total",
		Help:      "Transaction actions by action and outcome (applied, noop, rejected).",
	}, []string{"action", "outcome"})
	disputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "disputes_submitted_total",
		Help:      "Disputes submitted by reason.",
	}, []string{"reason"})
	reg.MustRegister(actions, disputes)
	return &TransactionMetrics{actions: actions, disputes: disputes}
}

// ObserveAction records one dispatched action.
func (m *TransactionMetrics) ObserveAction(action, outcome string) {
	if m == nil || m.actions == nil {
		return
	}
	m.actions.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

// ObserveDispute records one submitted dispute.
func (m *TransactionMetrics) ObserveDispute(reason string) {
	if m == nil || m.disputes == nil {
		return
	}
	m.disputes.WithLabelValues(normalizeLabel(reason)).Inc()
}

// NotificationMetrics tracks live stream connections and deliveries.
type NotificationMetrics struct {
	streams   prometheus.Gauge
	delivered *prometheus.CounterVec
}

// NewNotificationMetrics registers the notification metrics on reg.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	streams := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_streams",
		Help:      "Open notification websocket streams.",
	})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_added_total",
		Help:      "Notifications added by type.",
	}, []string{"type"})
	reg.MustRegister(streams, delivered)
	return &NotificationMetrics{streams: streams, delivered: delivered}
}

func (m *NotificationMetrics) StreamOpened() {
	if m == nil || m.streams == nil {
		return
	}
	m.streams.Inc()
}

func (m *NotificationMetrics) StreamClosed() {
	if m == nil || m.streams == nil {
		return
	}
	m.streams.Dec()
}

func (m *NotificationMetrics) Added(notificationType string) {
	if m == nil || m.delivered == nil {
		return
	}
	m.delivered.WithLabelValues(normalizeLabel(notificationType)).Inc()
}
