package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "statedump"

// Operation label values.
const (
	OpRestore = "restore"
	OpCapture = "capture"
	OpInspect = "inspect"
)

// Registry holds the metrics of one restore or capture run.
type Registry struct {
	registry *prometheus.Registry

	RecordsTotal      *prometheus.CounterVec
	BytesTotal        *prometheus.CounterVec
	Roots             *prometheus.GaugeVec
	OperationDuration *prometheus.HistogramVec
	OperationErrors   *prometheus.CounterVec
}

// NewRegistry creates a registry with every statedump metric registered.
//
// Go runtime and process collectors are left out: the registry is meant to
// be written to a node-exporter textfile, which rejects those names.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		RecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Column records exported or imported.",
		}, []string{"op", "column"}),
		BytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Column dump bytes written or read.",
		}, []string{"op", "column"}),
		Roots: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roots",
			Help:      "Number of state roots in the last restored or captured bundle.",
		}, []string{"op"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of restore and capture operations.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms .. ~43m
		}, []string{"op"}),
		OperationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Failed restore and capture operations.",
		}, []string{"op"}),
	}

	r.registry.MustRegister(
		r.RecordsTotal,
		r.BytesTotal,
		r.Roots,
		r.OperationDuration,
		r.OperationErrors,
	)
	return r
}

// Registerer lets other components (the badger engine) add collectors.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer exposes the underlying registry for reading.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveColumn records one column transfer.
func (r *Registry) ObserveColumn(op, column string, records int, bytes int64) {
	r.RecordsTotal.WithLabelValues(op, column).Add(float64(records))
	r.BytesTotal.WithLabelValues(op, column).Add(float64(bytes))
}

// SetRoots records the shard count of a bundle.
func (r *Registry) SetRoots(op string, n int) {
	r.Roots.WithLabelValues(op).Set(float64(n))
}

// ObserveOperation records the duration of op since start and counts it as
// failed when err is non-nil.
func (r *Registry) ObserveOperation(op string, start time.Time, err error) {
	r.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		r.OperationErrors.WithLabelValues(op).Inc()
	}
}

// WriteTextfile writes the registry in text exposition format to path,
// atomically, for the node-exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
