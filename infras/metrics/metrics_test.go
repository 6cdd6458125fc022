package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tablebook/infras/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesBookingCounters(t *testing.T) {
	metrics.Register()
	metrics.Register()

	metrics.IncBookingOperation(metrics.OperationCreate, metrics.ResultSlotConflict)
	metrics.IncBookingExport()
	metrics.ObserveSlotLockWait(0.002)
	metrics.ObserveHTTPRequest(http.MethodPost, "/v1/bookings/", http.StatusCreated, 0.01)

	recorder := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, `tablebook_booking_operations_total{operation="create",result="slot_conflict"}`)
	assert.Contains(t, body, "tablebook_booking_exports_total")
	assert.Contains(t, body, "tablebook_booking_slot_lock_wait_seconds_bucket")
	assert.Contains(t, body, `tablebook_http_request_duration_seconds_count{method="POST",route="/v1/bookings/",status="201"} 1`)
}
