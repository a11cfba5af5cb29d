package ontology

import (
	"github.com/c360studio/semstreams/metric"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsService = "semframe"

// Metrics counts axiom traffic through the manager. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	axiomsAdded    prometheus.Counter
	axiomsRemoved  prometheus.Counter
	axiomsRejected prometheus.Counter
	ontologies     prometheus.Gauge
}

// NewMetrics creates the counters and registers them with registrar.
func NewMetrics(registrar metric.MetricsRegistrar) (*Metrics, error) {
	m := &Metrics{
		axiomsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "semframe_axioms_added_total",
			Help: "Total axioms added to ontologies",
		}),
		axiomsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "semframe_axioms_removed_total",
			Help: "Total axioms removed from ontologies",
		}),
		axiomsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "semframe_axioms_rejected_total",
			Help: "Total axiom changes rejected by the store",
		}),
		ontologies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "semframe_ontologies",
			Help: "Ontologies currently managed",
		}),
	}

	if err := registrar.RegisterCounter(metricsService, "axioms_added_total", m.axiomsAdded); err != nil {
		return nil, err
	}
	if err := registrar.RegisterCounter(metricsService, "axioms_removed_total", m.axiomsRemoved); err != nil {
		return nil, err
	}
	if err := registrar.RegisterCounter(metricsService, "axioms_rejected_total", m.axiomsRejected); err != nil {
		return nil, err
	}
	if err := registrar.RegisterGauge(metricsService, "ontologies", m.ontologies); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) added(n int) {
	if m != nil {
		m.axiomsAdded.Add(float64(n))
	}
}

func (m *Metrics) removed(n int) {
	if m != nil {
		m.axiomsRemoved.Add(float64(n))
	}
}

func (m *Metrics) rejected() {
	if m != nil {
		m.axiomsRejected.Inc()
	}
}

func (m *Metrics) setOntologies(n int) {
	if m != nil {
		m.ontologies.Set(float64(n))
	}
}
