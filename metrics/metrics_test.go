package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOrdersSubmittedCounter(t *testing.T) {
	before := testutil.ToFloat64(OrdersSubmitted.WithLabelValues("metrics_test", "BUY"))
	OrdersSubmitted.WithLabelValues("metrics_test", "BUY").Inc()
	after := testutil.ToFloat64(OrdersSubmitted.WithLabelValues("metrics_test", "BUY"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	EquityGauge.Set(1234)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "stratbook_equity 1234") {
		t.Fatalf("equity gauge missing from exposition")
	}
}
