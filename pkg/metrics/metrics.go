package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service-level counters exposed at /metrics.
type Metrics struct {
	ListingsCreated   prometheus.Counter
	ReportsFiled      prometheus.Counter
	ListingsSuspended prometheus.Counter
	ListingViews      prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
}

// New registers the service metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		ListingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listings_created_total",
			Help: "Listings successfully created.",
		}),
		ReportsFiled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listing_reports_total",
			Help: "Moderation reports filed against listings.",
		}),
		ListingsSuspended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listings_suspended_total",
			Help: "Listings automatically suspended by the report threshold.",
		}),
		ListingViews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listing_views_total",
			Help: "Listing detail views recorded.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status class.",
		}, []string{"route", "status"}),
	}

	reg.MustRegister(
		m.ListingsCreated,
		m.ReportsFiled,
		m.ListingsSuspended,
		m.ListingViews,
		m.HTTPRequests,
	)
	return m
}
