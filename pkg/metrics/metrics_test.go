package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	if m == nil {
		t.Fatal("expected metrics instance")
	}

	m.ListingsCreated.Inc()
	m.ReportsFiled.Inc()
	m.ReportsFiled.Inc()
	m.ListingsSuspended.Inc()
	m.ListingViews.Inc()
	m.HTTPRequests.WithLabelValues("/api/v1/listings", "2xx").Inc()

	if got := testutil.ToFloat64(m.ListingsCreated); got != 1 {
		t.Fatalf("listings created = %v", got)
	}
	if got := testutil.ToFloat64(m.ReportsFiled); got != 2 {
		t.Fatalf("reports filed = %v", got)
	}
	if got := testutil.ToFloat64(m.ListingsSuspended); got != 1 {
		t.Fatalf("suspensions = %v", got)
	}
}

func TestNewNilRegisterer(t *testing.T) {
	if m := New(nil); m != nil {
		t.Fatal("expected nil metrics for nil registerer")
	}
}
