// Package metrics contadores Prometheus de transiciones de factura y de tráfico HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const noState = "none"

// Metrics registra transiciones del ciclo de vida y peticiones HTTP.
type Metrics struct {
	transitions     *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registra los colectores en registerer (nil = prometheus.DefaultRegisterer).
func New(registerer prometheus.Registerer, namespace string) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "talent_invoice"
	}
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_transitions_total",
			Help:      "Transiciones de factura confirmadas, por acción y estados.",
		}, []string{"action", "from", "to"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registerer.MustRegister(m.transitions, m.requests, m.requestDuration)
	return m
}

// RecordTransition cuenta una transición. from/to vacíos (creación, borrado) se etiquetan como "none".
func (m *Metrics) RecordTransition(action, from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action, labelOrNone(from), labelOrNone(to)).Inc()
}

// ObserveRequest route es la ruta registrada (/api/invoices/:id), no la URL, para acotar cardinalidad.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func labelOrNone(s string) string {
	if s == "" {
		return noState
	}
	return s
}
