// Package metrics holds the Prometheus collectors of the client state layer:
// outbound API requests and store transaction outcomes. A nil *Metrics is
// valid and records nothing.
package metrics

import (
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quizstate"

// Transaction outcomes.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeRejected   = "rejected"
)

type Metrics struct {
	Registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	transactions    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of API requests by method and status.",
			},
			[]string{"method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of API requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method"},
		),
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "transactions_total",
				Help:      "Store transactions by store, operation and outcome.",
			},
			[]string{"store", "op", "outcome"},
		),
	}

	m.Registry.MustRegister(m.requests, m.requestDuration, m.transactions)
	return m
}

// ObserveRequest records one API round trip. status is 0 when no response
// was received.
func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, label).Inc()
	m.requestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Transaction records the outcome of a store operation.
func (m *Metrics) Transaction(store, op, outcome string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(store, op, outcome).Inc()
}

// TransactionCounter returns the counter behind Transaction for one label set.
func (m *Metrics) TransactionCounter(store, op, outcome string) prometheus.Counter {
	return m.transactions.WithLabelValues(store, op, outcome)
}

// Sample is one flattened counter value, used for plain-text dumps.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Snapshot gathers all counters into a sorted flat list. Histograms are
// reported by their sample count.
func (m *Metrics) Snapshot() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			s := Sample{Name: f.GetName(), Labels: labels}
			switch {
			case metric.GetCounter() != nil:
				s.Value = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				s.Value = float64(metric.GetHistogram().GetSampleCount())
			}
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
