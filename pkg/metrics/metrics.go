package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus метрик сервиса
// Все методы записи безопасны для nil-получателя: при выключенных метриках
// в зависимости передается (*Metrics)(nil)
type Metrics struct {
	serviceName string

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrorsTotal *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec

	// Парковка
	SlotTransitionsTotal *prometheus.CounterVec
	SweepRunsTotal       *prometheus.CounterVec
	SweepCancelledTotal  *prometheus.CounterVec
	SweepFailedTotal     *prometheus.CounterVec
	OccupancyRatio       *prometheus.GaugeVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		DBQueryErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),
		SlotTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_slot_transitions_total",
			Help: "Slot lifecycle transitions by activity type",
		}, []string{"service", "activity"}),
		SweepRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_sweep_runs_total",
			Help: "Number of expiry sweeps executed",
		}, []string{"service"}),
		SweepCancelledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_sweep_cancelled_total",
			Help: "Bookings cancelled by the expiry sweep",
		}, []string{"service"}),
		SweepFailedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_sweep_failed_total",
			Help: "Slots the expiry sweep failed to reclaim",
		}, []string{"service"}),
		OccupancyRatio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "parking_occupancy_ratio_percent",
			Help: "Booked slots percentage observed by the last sweep",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrorsTotal,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.SlotTransitionsTotal,
		m.SweepRunsTotal,
		m.SweepCancelledTotal,
		m.SweepFailedTotal,
		m.OccupancyRatio,
	)

	return m
}

// ServiceName возвращает имя сервиса, используемое в label "service"
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

// ObserveHTTPRequest записывает метрики одного HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, route).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrorsTotal.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(open))
	m.DBInUseConnections.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.DBIdleConnections.WithLabelValues(m.serviceName).Set(float64(idle))
}

// RecordTransition учитывает переход слота (book, occupy, vacant, cancel)
func (m *Metrics) RecordTransition(activity string) {
	if m == nil {
		return
	}
	m.SlotTransitionsTotal.WithLabelValues(m.serviceName, activity).Inc()
}

// RecordSweep учитывает результат одного прохода sweeper'а
func (m *Metrics) RecordSweep(cancelled, failed int, ratio float64) {
	if m == nil {
		return
	}
	m.SweepRunsTotal.WithLabelValues(m.serviceName).Inc()
	m.SweepCancelledTotal.WithLabelValues(m.serviceName).Add(float64(cancelled))
	m.SweepFailedTotal.WithLabelValues(m.serviceName).Add(float64(failed))
	m.OccupancyRatio.WithLabelValues(m.serviceName).Set(ratio)
}
