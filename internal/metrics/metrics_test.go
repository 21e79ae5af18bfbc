package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersAreExposed(t *testing.T) {
	before := testutil.ToFloat64(Fixations.WithLabelValues(ResultCommitted))
	Fixations.WithLabelValues(ResultCommitted).Inc()
	if got := testutil.ToFloat64(Fixations.WithLabelValues(ResultCommitted)); got != before+1 {
		t.Fatalf("fixations = %v; want %v", got, before+1)
	}

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "medias_fixations_total") {
		t.Errorf("metrics output missing medias_fixations_total")
	}
}
