package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"dehusync/internal/dehu"
)

// Metrics counts synchronization outcomes. A nil *Metrics records nothing.
type Metrics struct {
	notifications *prometheus.CounterVec
	attachments   *prometheus.CounterVec
	remoteCalls   *prometheus.CounterVec
}

// NewMetrics registers the synchronization counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dehu_notifications_total",
				Help: "Notifications seen by the synchronization, by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		attachments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dehu_attachments_total",
				Help: "Attachments handled while processing notifications, by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		remoteCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dehu_remote_calls_total",
				Help: "Calls to the remote notification service, by operation and outcome (ok, rejected, error).",
			},
			[]string{"operation", "outcome"},
		),
	}
	for _, c := range []prometheus.Collector{m.notifications, m.attachments, m.remoteCalls} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) notification(source, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) attachment(kind, outcome string) {
	if m == nil {
		return
	}
	m.attachments.WithLabelValues(kind, outcome).Inc()
}

const (
	callOK       = "ok"
	callRejected = "rejected"
	callError    = "error"
)

// remoteReply records a decoded reply. Any code other than "200" counts as rejected.
func (m *Metrics) remoteReply(operation, code string) {
	outcome := callRejected
	if code == dehu.CodeOK {
		outcome = callOK
	}
	m.remoteCall(operation, outcome)
}

// remoteError records a call that produced no decoded reply.
func (m *Metrics) remoteError(operation string) {
	m.remoteCall(operation, callError)
}

func (m *Metrics) remoteCall(operation, outcome string) {
	if m == nil {
		return
	}
	m.remoteCalls.WithLabelValues(operation, outcome).Inc()
}
