package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry agrupa los instrumentos Prometheus de la aplicación sobre un
// registro propio (sin colectores globales duplicados).
type Registry struct {
	reg *prometheus.Registry

	HTTPRequests          *prometheus.CounterVec
	HTTPDuration          *prometheus.HistogramVec
	ClassifierPredictions *prometheus.CounterVec
	RemoteUploads         *prometheus.CounterVec
}

// NewRegistry crea el registro con los colectores de runtime y los
// instrumentos de la aplicación.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docuflow_http_requests_total",
			Help: "Total de requests HTTP por método, ruta y código de estado.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docuflow_http_request_duration_seconds",
			Help:    "Duración de requests HTTP en segundos.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ClassifierPredictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docuflow_classifier_predictions_total",
			Help: "Predicciones del clasificador por resultado (success, empty, error).",
		}, []string{"outcome"}),
		RemoteUploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docuflow_remote_uploads_total",
			Help: "Subidas al storage remoto por resultado (success, error, open_circuit).",
		}, []string{"outcome"}),
	}
}

// Handler expone el endpoint /metrics en formato Prometheus.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
