package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-коллекторов сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	ReservationsTotal   *prometheus.CounterVec
	AvailabilityQueries *prometheus.CounterVec
}

// New регистрирует коллекторы в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует коллекторы в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"db", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: labels,
		}, []string{"db", "operation"}),
		DBConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: labels,
		}, []string{"db", "state"}),
		ReservationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_total",
			Help:        "Reservation creation attempts by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		AvailabilityQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_queries_total",
			Help:        "Availability queries by result",
			ConstLabels: labels,
		}, []string{"result"}),
	}
}

// RecordReservation увеличивает счетчик попыток бронирования с указанным исходом
func (m *Metrics) RecordReservation(outcome string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(outcome).Inc()
}

// RecordAvailability увеличивает счетчик запросов доступности
func (m *Metrics) RecordAvailability(result string) {
	if m == nil {
		return
	}
	m.AvailabilityQueries.WithLabelValues(result).Inc()
}
