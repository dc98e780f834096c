// Package metrics собирает счетчики трекера для Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "expiry_tracker"

// Значения метки result.
const (
	ResultOK              = "ok"
	ResultValidationError = "validation_error"
	ResultStoreError      = "store_error"
)

// Metrics набор счетчиков сервиса. Безопасен для конкурентного использования.
type Metrics struct {
	registry *prometheus.Registry

	RecordsAdded   *prometheus.CounterVec
	RecordViews    *prometheus.CounterVec
	Exports        *prometheus.CounterVec
	ArchiveUploads *prometheus.CounterVec
	StatusBuckets  *prometheus.CounterVec
}

// New создает счетчики в собственном реестре вместе с коллекторами Go и процесса.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		RecordsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_added_total",
			Help:      "Attempts to add a stock record, by result.",
		}, []string{"result"}),
		RecordViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_views_total",
			Help:      "Inventory views served, by view.",
		}, []string{"view"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "CSV reports generated, by view.",
		}, []string{"view"}),
		ArchiveUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_uploads_total",
			Help:      "Report uploads to the archive bucket, by result.",
		}, []string{"result"}),
		StatusBuckets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classified_records_total",
			Help:      "Records classified on read, by urgency status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.RecordsAdded, m.RecordViews, m.Exports, m.ArchiveUploads, m.StatusBuckets)
	return m
}

// Registry возвращает реестр с метриками сервиса.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдает метрики в текстовом формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
