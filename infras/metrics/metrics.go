package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tablebook"

// Booking operation outcomes.
const (
	ResultSuccess              = "success"
	ResultRestaurantNotFound   = "restaurant_not_found"
	ResultTableNotFound        = "table_not_found"
	ResultTableNotInRestaurant = "table_not_in_restaurant"
	ResultCapacityExceeded     = "capacity_exceeded"
	ResultSlotConflict         = "slot_conflict"
	ResultRestaurantClosed     = "restaurant_closed"
	ResultForbidden            = "forbidden"
	ResultNotFound             = "not_found"
	ResultInvalid              = "invalid"
	ResultError                = "error"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

var (
	once sync.Once

	bookingOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_operations_total",
			Help:      "Count of booking create, update and delete attempts by result.",
		},
		[]string{"operation", "result"},
	)

	slotLockWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_slot_lock_wait_seconds",
			Help:      "Time spent waiting for the per-table, per-date slot lock.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		},
	)

	bookingExports = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_exports_total",
			Help:      "Count of booking spreadsheet exports.",
		},
	)

	httpRequests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingOperations, slotLockWait, bookingExports, httpRequests)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	Register()

	return promhttp.Handler()
}

func IncBookingOperation(operation, result string) {
	bookingOperations.WithLabelValues(operation, result).Inc()
}

func ObserveSlotLockWait(seconds float64) {
	slotLockWait.Observe(seconds)
}

func IncBookingExport() {
	bookingExports.Inc()
}

// ObserveHTTPRequest records one served request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route string, status int, seconds float64) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
