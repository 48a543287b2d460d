package service

import (
	"errors"

	"github.com/foomo/contentserver-jsonld/jsonld"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "contentserver_jsonld"

// Metrics counts built records and documents, a nil *Metrics records nothing
type Metrics struct {
	records       *prometheus.CounterVec
	documents     *prometheus.CounterVec
	fetchDuration prometheus.Histogram
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "records_total",
			Help:      "Records processed by result (success, missing_field, error).",
		}, []string{"result"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "documents_total",
			Help:      "Structured data documents built by schema.org type.",
		}, []string{"type"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "content_fetch_duration_seconds",
			Help:      "Duration of content server requests.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if registerer != nil {
		registerer.MustRegister(m.records, m.documents, m.fetchDuration)
	}
	return m
}

func (m *Metrics) recordBuilt(docs []jsonld.Document) {
	if m == nil {
		return
	}
	m.records.WithLabelValues("success").Inc()
	for _, doc := range docs {
		m.documents.WithLabelValues(doc.Type()).Inc()
	}
}

func (m *Metrics) recordFailed(err error) {
	if m == nil {
		return
	}
	if errors.Is(err, jsonld.ErrMissingRequiredField) {
		m.records.WithLabelValues("missing_field").Inc()
		return
	}
	m.records.WithLabelValues("error").Inc()
}

func (m *Metrics) fetchTimer() *prometheus.Timer {
	if m == nil {
		return prometheus.NewTimer(prometheus.ObserverFunc(func(float64) {}))
	}
	return prometheus.NewTimer(m.fetchDuration)
}
