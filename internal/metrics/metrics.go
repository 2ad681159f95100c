package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "store_rating"

var (
	// Registry - коллекторы приложения (без глобального DefaultRegisterer)
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms .. ~2.5s
		},
		[]string{"method", "path"},
	)

	authAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Signup and login attempts by outcome.",
		},
		[]string{"action", "result"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the authentication rate limiter.",
		},
	)

	ratingsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratings",
			Name:      "writes_total",
			Help:      "Rating writes by operation.",
		},
		[]string{"op"},
	)

	entityTotals = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Row counts of users, stores and ratings, refreshed periodically.",
		},
		[]string{"kind"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		authAttempts,
		rateLimited,
		ratingsWritten,
		entityTotals,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler отдает метрики в формате Prometheus
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted увеличивает счетчик активных запросов и возвращает функцию завершения
func RequestStarted() func(method, path string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, path string, status int) {
		httpInFlight.Dec()
		method = strings.ToUpper(method)
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordAuthAttempt - action: signup|login, result: success|failure|conflict
func RecordAuthAttempt(action, result string) {
	authAttempts.WithLabelValues(action, result).Inc()
}

func RecordRateLimited() {
	rateLimited.Inc()
}

// RecordRatingWrite - op: create|update|delete
func RecordRatingWrite(op string) {
	ratingsWritten.WithLabelValues(op).Inc()
}

// SetEntityTotals обновляет gauge с числом строк по таблицам
func SetEntityTotals(users, stores, ratings int64) {
	entityTotals.WithLabelValues("users").Set(float64(users))
	entityTotals.WithLabelValues("stores").Set(float64(stores))
	entityTotals.WithLabelValues("ratings").Set(float64(ratings))
}
