package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careersite_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Company operation counter
	CompanyOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careersite_company_operations_total",
			Help: "Total number of company operations",
		},
		[]string{"operation"}, // "create", "update", "delete", "get", "list"
	)

	// Job operation counter
	JobOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careersite_job_operations_total",
			Help: "Total number of job operations",
		},
		[]string{"operation"}, // "create", "update", "delete", "toggle", "list", "get"
	)

	// Authentication and authorization error counter
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careersite_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // "missing_token", "invalid_token", "expired_token", "permission_denied", etc.
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "careersite_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "careersite_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(CompanyOperationCounter)
	prometheus.MustRegister(JobOperationCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
}

// RecordCompanyOperation increments the company operation counter
func RecordCompanyOperation(operation string) {
	CompanyOperationCounter.WithLabelValues(operation).Inc()
}

// RecordJobOperation increments the job operation counter
func RecordJobOperation(operation string) {
	JobOperationCounter.WithLabelValues(operation).Inc()
}

// RecordAuthError increments the auth error counter
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// TrackDBOperation measures database operation durations.
// Usage: defer metrics.TrackDBOperation("insert")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// Middleware creates an Echo middleware function that records HTTP request metrics
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			HTTPRequestCounter.WithLabelValues(path, method, statusStr).Inc()
			RequestDuration.WithLabelValues(path, method, statusStr).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
