package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCountsOperations(t *testing.T) {
	t.Parallel()

	recorder := NewRecorder()
	recorder.ObserveOperation("addRestaurant", "ok", 20*time.Millisecond)
	recorder.ObserveOperation("addRestaurant", "ok", 10*time.Millisecond)
	recorder.ObserveOperation("addRestaurant", "swallowed", time.Millisecond)
	recorder.SetCacheSize("restaurants", 4)
	recorder.SetWebsocketClients(2)

	if got := testutil.ToFloat64(recorder.operations.WithLabelValues("addRestaurant", "ok")); got != 2 {
		t.Fatalf("expected 2 ok operations, got %v", got)
	}
	if got := testutil.ToFloat64(recorder.operations.WithLabelValues("addRestaurant", "swallowed")); got != 1 {
		t.Fatalf("expected 1 swallowed operation, got %v", got)
	}
	if got := testutil.ToFloat64(recorder.cacheSize.WithLabelValues("restaurants")); got != 4 {
		t.Fatalf("expected cache size 4, got %v", got)
	}
	if got := testutil.ToFloat64(recorder.wsClients); got != 2 {
		t.Fatalf("expected 2 websocket clients, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	t.Parallel()

	recorder := NewRecorder()
	recorder.ObserveOperation("deleteReservation", "failed", time.Millisecond)

	rec := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `restaureserva_store_operations_total{operation="deleteReservation",outcome="failed"} 1`) {
		t.Fatalf("metric missing from exposition:\n%s", body)
	}
}
